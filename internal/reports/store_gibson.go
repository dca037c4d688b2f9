package reports

import (
	"context"
	"errors"
	"net/http"

	"ats-checker/internal/gibson"
)

// GibsonStore implements Store against the hosted Gibson data API.
type GibsonStore struct {
	Client *gibson.Client
}

func notFoundErr(err error) error {
	var apiErr *gibson.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return err
}

func (s *GibsonStore) CreateResume(ctx context.Context, input gibson.ResumeInput) (gibson.Resume, error) {
	return s.Client.CreateResume(ctx, input)
}

func (s *GibsonStore) GetResume(ctx context.Context, id int64) (gibson.Resume, error) {
	resume, err := s.Client.GetResume(ctx, id)
	if err != nil {
		return gibson.Resume{}, notFoundErr(err)
	}
	return resume, nil
}

func (s *GibsonStore) CreateJobDescription(ctx context.Context, input gibson.JobDescriptionInput) (gibson.JobDescription, error) {
	return s.Client.CreateJobDescription(ctx, input)
}

func (s *GibsonStore) GetJobDescription(ctx context.Context, id int64) (gibson.JobDescription, error) {
	jd, err := s.Client.GetJobDescription(ctx, id)
	if err != nil {
		return gibson.JobDescription{}, notFoundErr(err)
	}
	return jd, nil
}

func (s *GibsonStore) CreateReport(ctx context.Context, input gibson.AnalysisReportInput) (gibson.AnalysisReport, error) {
	return s.Client.CreateAnalysisReport(ctx, input)
}

func (s *GibsonStore) ListReports(ctx context.Context, analyzedBy int64) ([]gibson.AnalysisReport, error) {
	return s.Client.ListAnalysisReports(ctx, analyzedBy)
}

func (s *GibsonStore) UpdateReportStatus(ctx context.Context, reportID int64, status gibson.ReportStatus) (gibson.AnalysisReport, error) {
	report, err := s.Client.UpdateAnalysisReportStatus(ctx, reportID, status)
	if err != nil {
		return gibson.AnalysisReport{}, notFoundErr(err)
	}
	return report, nil
}

func (s *GibsonStore) DeleteReport(ctx context.Context, reportID int64) error {
	if err := s.Client.DeleteAnalysisReport(ctx, reportID); err != nil {
		return notFoundErr(err)
	}
	return nil
}

func (s *GibsonStore) CreateSummary(ctx context.Context, input gibson.AnalysisSummaryInput) (gibson.AnalysisSummary, error) {
	return s.Client.CreateAnalysisSummary(ctx, input)
}

func (s *GibsonStore) SummaryByReport(ctx context.Context, reportID int64) (*gibson.AnalysisSummary, error) {
	return s.Client.GetAnalysisSummaryByReport(ctx, reportID)
}

func (s *GibsonStore) CreateScore(ctx context.Context, input gibson.AnalysisScoreInput) (gibson.AnalysisScore, error) {
	return s.Client.CreateAnalysisScore(ctx, input)
}

func (s *GibsonStore) ScoresByReport(ctx context.Context, reportID int64) ([]gibson.AnalysisScore, error) {
	return s.Client.ListAnalysisScoresByReport(ctx, reportID)
}

func (s *GibsonStore) CreateRecommendation(ctx context.Context, input gibson.AnalysisRecommendationInput) (gibson.AnalysisRecommendation, error) {
	return s.Client.CreateAnalysisRecommendation(ctx, input)
}

func (s *GibsonStore) RecommendationsByReport(ctx context.Context, reportID int64) ([]gibson.AnalysisRecommendation, error) {
	return s.Client.ListAnalysisRecommendationsByReport(ctx, reportID)
}
