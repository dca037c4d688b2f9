package reports

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ats-checker/internal/gibson"
)

// PGStore implements Store using Postgres for self-hosted deployments.
type PGStore struct {
	DB *sql.DB
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t sql.NullTime) *string {
	if !t.Valid {
		return nil
	}
	s := formatTime(t.Time)
	return &s
}

func (s *PGStore) CreateResume(ctx context.Context, input gibson.ResumeInput) (gibson.Resume, error) {
	const query = `
INSERT INTO resumes (summary, title, user_profile_id)
VALUES ($1, $2, $3)
RETURNING id, uuid, date_created`
	resume := gibson.Resume{
		Summary:       input.Summary,
		Title:         input.Title,
		UserProfileID: input.UserProfileID,
	}
	var created time.Time
	err := s.DB.QueryRowContext(ctx, query, input.Summary, input.Title, input.UserProfileID).
		Scan(&resume.ID, &resume.UUID, &created)
	if err != nil {
		return gibson.Resume{}, err
	}
	resume.DateCreated = formatTime(created)
	return resume, nil
}

func (s *PGStore) GetResume(ctx context.Context, id int64) (gibson.Resume, error) {
	const query = `
SELECT id, uuid, summary, title, user_profile_id, date_created, date_updated
FROM resumes WHERE id = $1`
	var (
		resume  gibson.Resume
		created time.Time
		updated sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&resume.ID, &resume.UUID, &resume.Summary, &resume.Title,
		&resume.UserProfileID, &created, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return gibson.Resume{}, ErrNotFound
	}
	if err != nil {
		return gibson.Resume{}, err
	}
	resume.DateCreated = formatTime(created)
	resume.DateUpdated = formatTimePtr(updated)
	return resume, nil
}

func (s *PGStore) CreateJobDescription(ctx context.Context, input gibson.JobDescriptionInput) (gibson.JobDescription, error) {
	const query = `
INSERT INTO job_descriptions (company_name, description, title, location, user_profile_id)
VALUES ($1, $2, $3, NULLIF($4, ''), $5)
RETURNING id, uuid, date_created`
	jd := gibson.JobDescription{
		CompanyName: input.CompanyName,
		Description: input.Description,
		Title:       input.Title,
	}
	if input.Location != "" {
		loc := input.Location
		jd.Location = &loc
	}
	var created time.Time
	err := s.DB.QueryRowContext(ctx, query,
		input.CompanyName, input.Description, input.Title, input.Location, input.UserProfileID).
		Scan(&jd.ID, &jd.UUID, &created)
	if err != nil {
		return gibson.JobDescription{}, err
	}
	jd.DateCreated = formatTime(created)
	return jd, nil
}

func (s *PGStore) GetJobDescription(ctx context.Context, id int64) (gibson.JobDescription, error) {
	const query = `
SELECT id, uuid, company_name, description, title, location, date_created, date_updated
FROM job_descriptions WHERE id = $1`
	var (
		jd      gibson.JobDescription
		created time.Time
		updated sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&jd.ID, &jd.UUID, &jd.CompanyName, &jd.Description, &jd.Title,
		&jd.Location, &created, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return gibson.JobDescription{}, ErrNotFound
	}
	if err != nil {
		return gibson.JobDescription{}, err
	}
	jd.DateCreated = formatTime(created)
	jd.DateUpdated = formatTimePtr(updated)
	return jd, nil
}

func (s *PGStore) CreateReport(ctx context.Context, input gibson.AnalysisReportInput) (gibson.AnalysisReport, error) {
	status := input.Status
	if status == "" {
		status = gibson.StatusNotApplied
	}
	const query = `
INSERT INTO analysis_reports (analyzed_by, job_description_id, resume_id, status)
VALUES ($1, $2, $3, $4)
RETURNING id, uuid, date_created`
	report := gibson.AnalysisReport{
		AnalyzedBy:       input.AnalyzedBy,
		JobDescriptionID: input.JobDescriptionID,
		ResumeID:         input.ResumeID,
		Status:           status,
	}
	var created time.Time
	err := s.DB.QueryRowContext(ctx, query,
		input.AnalyzedBy, input.JobDescriptionID, input.ResumeID, string(status)).
		Scan(&report.ID, &report.UUID, &created)
	if err != nil {
		return gibson.AnalysisReport{}, err
	}
	report.DateCreated = formatTime(created)
	return report, nil
}

func (s *PGStore) ListReports(ctx context.Context, analyzedBy int64) ([]gibson.AnalysisReport, error) {
	const query = `
SELECT id, uuid, analyzed_by, job_description_id, resume_id, status, date_created, date_updated
FROM analysis_reports
WHERE analyzed_by = $1
ORDER BY date_created DESC`
	rows, err := s.DB.QueryContext(ctx, query, analyzedBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []gibson.AnalysisReport
	for rows.Next() {
		var (
			report  gibson.AnalysisReport
			created time.Time
			updated sql.NullTime
		)
		if err := rows.Scan(
			&report.ID, &report.UUID, &report.AnalyzedBy, &report.JobDescriptionID,
			&report.ResumeID, &report.Status, &created, &updated,
		); err != nil {
			return nil, err
		}
		report.DateCreated = formatTime(created)
		report.DateUpdated = formatTimePtr(updated)
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func (s *PGStore) UpdateReportStatus(ctx context.Context, reportID int64, status gibson.ReportStatus) (gibson.AnalysisReport, error) {
	const query = `
UPDATE analysis_reports
SET status = $2, date_updated = now()
WHERE id = $1
RETURNING id, uuid, analyzed_by, job_description_id, resume_id, status, date_created, date_updated`
	var (
		report  gibson.AnalysisReport
		created time.Time
		updated sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx, query, reportID, string(status)).Scan(
		&report.ID, &report.UUID, &report.AnalyzedBy, &report.JobDescriptionID,
		&report.ResumeID, &report.Status, &created, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return gibson.AnalysisReport{}, ErrNotFound
	}
	if err != nil {
		return gibson.AnalysisReport{}, err
	}
	report.DateCreated = formatTime(created)
	report.DateUpdated = formatTimePtr(updated)
	return report, nil
}

func (s *PGStore) DeleteReport(ctx context.Context, reportID int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM analysis_reports WHERE id = $1`, reportID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) CreateSummary(ctx context.Context, input gibson.AnalysisSummaryInput) (gibson.AnalysisSummary, error) {
	const query = `
INSERT INTO analysis_summaries (report_id, summary_text)
VALUES ($1, $2)
RETURNING id, uuid, date_created`
	summary := gibson.AnalysisSummary{
		ReportID:    input.ReportID,
		SummaryText: input.SummaryText,
	}
	var created time.Time
	err := s.DB.QueryRowContext(ctx, query, input.ReportID, input.SummaryText).
		Scan(&summary.ID, &summary.UUID, &created)
	if err != nil {
		return gibson.AnalysisSummary{}, err
	}
	summary.DateCreated = formatTime(created)
	return summary, nil
}

func (s *PGStore) SummaryByReport(ctx context.Context, reportID int64) (*gibson.AnalysisSummary, error) {
	const query = `
SELECT id, uuid, report_id, summary_text, date_created, date_updated
FROM analysis_summaries WHERE report_id = $1
ORDER BY id LIMIT 1`
	var (
		summary gibson.AnalysisSummary
		created time.Time
		updated sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx, query, reportID).Scan(
		&summary.ID, &summary.UUID, &summary.ReportID, &summary.SummaryText,
		&created, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	summary.DateCreated = formatTime(created)
	summary.DateUpdated = formatTimePtr(updated)
	return &summary, nil
}

func (s *PGStore) CreateScore(ctx context.Context, input gibson.AnalysisScoreInput) (gibson.AnalysisScore, error) {
	const query = `
INSERT INTO analysis_scores (report_id, score, section)
VALUES ($1, $2, $3)
RETURNING id, uuid, date_created`
	score := gibson.AnalysisScore{
		ReportID: input.ReportID,
		Score:    input.Score,
		Section:  input.Section,
	}
	var created time.Time
	err := s.DB.QueryRowContext(ctx, query, input.ReportID, input.Score, input.Section).
		Scan(&score.ID, &score.UUID, &created)
	if err != nil {
		return gibson.AnalysisScore{}, err
	}
	score.DateCreated = formatTime(created)
	return score, nil
}

func (s *PGStore) ScoresByReport(ctx context.Context, reportID int64) ([]gibson.AnalysisScore, error) {
	const query = `
SELECT id, uuid, report_id, score, section, date_created, date_updated
FROM analysis_scores WHERE report_id = $1
ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []gibson.AnalysisScore
	for rows.Next() {
		var (
			score   gibson.AnalysisScore
			created time.Time
			updated sql.NullTime
		)
		if err := rows.Scan(
			&score.ID, &score.UUID, &score.ReportID, &score.Score, &score.Section,
			&created, &updated,
		); err != nil {
			return nil, err
		}
		score.DateCreated = formatTime(created)
		score.DateUpdated = formatTimePtr(updated)
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

func (s *PGStore) CreateRecommendation(ctx context.Context, input gibson.AnalysisRecommendationInput) (gibson.AnalysisRecommendation, error) {
	const query = `
INSERT INTO analysis_recommendations (report_id, category, recommendation_text)
VALUES ($1, $2, $3)
RETURNING id, uuid, date_created`
	rec := gibson.AnalysisRecommendation{
		ReportID:           input.ReportID,
		Category:           input.Category,
		RecommendationText: input.RecommendationText,
	}
	var created time.Time
	err := s.DB.QueryRowContext(ctx, query, input.ReportID, input.Category, input.RecommendationText).
		Scan(&rec.ID, &rec.UUID, &created)
	if err != nil {
		return gibson.AnalysisRecommendation{}, err
	}
	rec.DateCreated = formatTime(created)
	return rec, nil
}

func (s *PGStore) RecommendationsByReport(ctx context.Context, reportID int64) ([]gibson.AnalysisRecommendation, error) {
	const query = `
SELECT id, uuid, report_id, category, recommendation_text, date_created, date_updated
FROM analysis_recommendations WHERE report_id = $1
ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []gibson.AnalysisRecommendation
	for rows.Next() {
		var (
			rec     gibson.AnalysisRecommendation
			created time.Time
			updated sql.NullTime
		)
		if err := rows.Scan(
			&rec.ID, &rec.UUID, &rec.ReportID, &rec.Category, &rec.RecommendationText,
			&created, &updated,
		); err != nil {
			return nil, err
		}
		rec.DateCreated = formatTime(created)
		rec.DateUpdated = formatTimePtr(updated)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
