package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ats-checker/internal/analysis"
	"ats-checker/internal/extract"
	"ats-checker/internal/extractor"
	"ats-checker/internal/gibson"
	"ats-checker/internal/llm"
	"ats-checker/internal/rewrite"
	"ats-checker/internal/shared/metrics"
	"ats-checker/internal/shared/storage/object"
	"ats-checker/internal/shared/telemetry"
)

var (
	// ErrSaveFailed means the analysis itself succeeded but persisting its
	// results did not. Callers still receive the full analysis output.
	ErrSaveFailed = errors.New("analysis results could not be saved")

	// ErrInvalidStatus means the requested status is not in the enum.
	ErrInvalidStatus = errors.New("invalid report status")
)

const (
	jdPlaceholderCompany  = "User Input"
	jdPlaceholderTitle    = "Job Description"
	jdPlaceholderLocation = "N/A"
	overallScoreSection   = "Overall ATS Score"
	pastedResumeTitle     = "Pasted Resume"
)

// Service contains business logic for rewrites, analyses, and the dashboard.
type Service struct {
	Store     Store
	LLM       llm.Client
	Extractor *extractor.Client // nil means extract locally
	Archive   object.Store      // optional upload archive
}

// Rewrite turns a raw job description into ATS-style resume bullets.
func (s *Service) Rewrite(ctx context.Context, jobDescription string) (string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return "", errors.New("job description is required")
	}
	metrics.IncRewriteStarted()
	start := time.Now()

	raw, err := s.LLM.Complete(ctx, llm.RewritePrompt(jobDescription))
	if err != nil {
		metrics.IncRewriteFailed()
		if errors.Is(err, llm.ErrRateLimited) {
			metrics.IncModelRateLimited()
		}
		return "", err
	}

	metrics.IncRewriteCompleted()
	metrics.ObserveRewriteDurationMs(float64(time.Since(start).Milliseconds()))
	return rewrite.Normalize(raw), nil
}

// Analyze scores a resume against a job description. For authenticated users
// the verdict is persisted; a persistence failure is reported via ErrSaveFailed
// alongside the complete analysis output.
func (s *Service) Analyze(ctx context.Context, input AnalyzeInput) (AnalyzeOutput, error) {
	if strings.TrimSpace(input.ResumeText) == "" {
		return AnalyzeOutput{}, errors.New("resume text is required")
	}
	if strings.TrimSpace(input.JobDescription) == "" {
		return AnalyzeOutput{}, errors.New("job description is required")
	}
	metrics.IncAnalysisStarted()
	start := time.Now()

	raw, err := s.LLM.Complete(ctx, llm.AnalyzePrompt(input.ResumeText, input.JobDescription))
	if err != nil {
		metrics.IncAnalysisFailed()
		if errors.Is(err, llm.ErrRateLimited) {
			metrics.IncModelRateLimited()
		}
		return AnalyzeOutput{}, err
	}

	result, mode, err := analysis.ParseMode(raw)
	if err != nil {
		metrics.IncAnalysisFailed()
		return AnalyzeOutput{}, err
	}
	if mode == analysis.ModeFallback {
		metrics.IncAnalysisFallback()
	}
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Milliseconds()))

	out := AnalyzeOutput{Result: result}
	if input.UserID == nil {
		return out, nil
	}

	reportID, err := s.save(ctx, *input.UserID, input, result)
	if err != nil {
		telemetry.Error("reports.save_failed", map[string]any{
			"userId": *input.UserID,
			"error":  err.Error(),
		})
		return out, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	out.ReportID = &reportID
	out.Saved = true
	return out, nil
}

// save writes the resume, job description, report, summary, score rows, and
// recommendation rows. Row order matches the category order of the rubric.
func (s *Service) save(ctx context.Context, userID int64, input AnalyzeInput, result analysis.Result) (int64, error) {
	title := input.ResumeTitle
	if title == "" {
		title = pastedResumeTitle
	}

	resume, err := s.Store.CreateResume(ctx, gibson.ResumeInput{
		Summary:       input.ResumeText,
		Title:         title,
		UserProfileID: userID,
	})
	if err != nil {
		return 0, fmt.Errorf("create resume: %w", err)
	}

	jd, err := s.Store.CreateJobDescription(ctx, gibson.JobDescriptionInput{
		CompanyName:   jdPlaceholderCompany,
		Description:   input.JobDescription,
		Title:         jdPlaceholderTitle,
		Location:      jdPlaceholderLocation,
		UserProfileID: userID,
	})
	if err != nil {
		return 0, fmt.Errorf("create job description: %w", err)
	}

	report, err := s.Store.CreateReport(ctx, gibson.AnalysisReportInput{
		AnalyzedBy:       userID,
		JobDescriptionID: jd.ID,
		ResumeID:         resume.ID,
	})
	if err != nil {
		return 0, fmt.Errorf("create report: %w", err)
	}

	if _, err := s.Store.CreateSummary(ctx, gibson.AnalysisSummaryInput{
		ReportID:    report.ID,
		SummaryText: result.Summary,
	}); err != nil {
		return 0, fmt.Errorf("create summary: %w", err)
	}

	if _, err := s.Store.CreateScore(ctx, gibson.AnalysisScoreInput{
		ReportID: report.ID,
		Score:    result.OverallScore,
		Section:  overallScoreSection,
	}); err != nil {
		return 0, fmt.Errorf("create overall score: %w", err)
	}

	for _, category := range analysis.Categories {
		if _, err := s.Store.CreateScore(ctx, gibson.AnalysisScoreInput{
			ReportID: report.ID,
			Score:    result.CategoryScores[category],
			Section:  capitalize(string(category)),
		}); err != nil {
			return 0, fmt.Errorf("create %s score: %w", category, err)
		}
	}

	for _, category := range analysis.Categories {
		if _, err := s.Store.CreateRecommendation(ctx, gibson.AnalysisRecommendationInput{
			ReportID:           report.ID,
			Category:           capitalize(string(category)),
			RecommendationText: strings.Join(result.Recommendations[category], "\n"),
		}); err != nil {
			return 0, fmt.Errorf("create %s recommendation: %w", category, err)
		}
	}

	return report.ID, nil
}

// ExtractResume turns an uploaded document into plain text. The raw upload is
// archived first when an object store is configured; archive failures are
// logged but never block extraction.
func (s *Service) ExtractResume(ctx context.Context, userID, fileName, mimeType string, data []byte) (text, title string, err error) {
	if s.Archive != nil {
		if _, _, _, archiveErr := s.Archive.Save(ctx, userID, fileName, bytes.NewReader(data)); archiveErr != nil {
			telemetry.Warn("reports.archive_failed", map[string]any{
				"fileName": fileName,
				"error":    archiveErr.Error(),
			})
		}
	}

	if s.Extractor != nil {
		extraction, err := s.Extractor.Extract(ctx, fileName, bytes.NewReader(data), extractor.Options{})
		if err != nil {
			return "", "", err
		}
		return extraction.Text, extraction.Meta.Filename, nil
	}

	text, err = extract.TextFromBytes(ctx, data, mimeType, fileName)
	if err != nil {
		return "", "", err
	}
	return text, fileName, nil
}

// ListReports returns the user's reports newest-first with per-status counts.
func (s *Service) ListReports(ctx context.Context, userID int64) (ReportList, error) {
	reports, err := s.Store.ListReports(ctx, userID)
	if err != nil {
		return ReportList{}, err
	}
	counts := make(map[gibson.ReportStatus]int, len(gibson.Statuses))
	for _, status := range gibson.Statuses {
		counts[status] = 0
	}
	for _, report := range reports {
		counts[report.Status]++
	}
	return ReportList{Reports: reports, StatusCounts: counts}, nil
}

// UpdateStatus moves a report through the application pipeline.
func (s *Service) UpdateStatus(ctx context.Context, userID, reportID int64, status gibson.ReportStatus) (gibson.AnalysisReport, error) {
	if !status.Valid() {
		return gibson.AnalysisReport{}, ErrInvalidStatus
	}
	if _, err := s.ownedReport(ctx, userID, reportID); err != nil {
		return gibson.AnalysisReport{}, err
	}
	return s.Store.UpdateReportStatus(ctx, reportID, status)
}

// Delete removes a report and its dependent records.
func (s *Service) Delete(ctx context.Context, userID, reportID int64) error {
	if _, err := s.ownedReport(ctx, userID, reportID); err != nil {
		return err
	}
	return s.Store.DeleteReport(ctx, reportID)
}

// Details loads everything the dashboard shows for one report. The five
// dependent fetches run concurrently.
func (s *Service) Details(ctx context.Context, userID, reportID int64) (ReportDetails, error) {
	report, err := s.ownedReport(ctx, userID, reportID)
	if err != nil {
		return ReportDetails{}, err
	}

	details := ReportDetails{Report: report}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		details.Resume, err = s.Store.GetResume(gctx, report.ResumeID)
		return err
	})
	g.Go(func() error {
		var err error
		details.JobDescription, err = s.Store.GetJobDescription(gctx, report.JobDescriptionID)
		return err
	})
	g.Go(func() error {
		var err error
		details.Summary, err = s.Store.SummaryByReport(gctx, report.ID)
		return err
	})
	g.Go(func() error {
		var err error
		details.Scores, err = s.Store.ScoresByReport(gctx, report.ID)
		return err
	})
	g.Go(func() error {
		var err error
		details.Recommendations, err = s.Store.RecommendationsByReport(gctx, report.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return ReportDetails{}, err
	}
	return details, nil
}

// ownedReport returns the report only when it belongs to userID. A report
// owned by someone else is indistinguishable from a missing one.
func (s *Service) ownedReport(ctx context.Context, userID, reportID int64) (gibson.AnalysisReport, error) {
	reports, err := s.Store.ListReports(ctx, userID)
	if err != nil {
		return gibson.AnalysisReport{}, err
	}
	for _, report := range reports {
		if report.ID == reportID {
			return report, nil
		}
	}
	return gibson.AnalysisReport{}, ErrNotFound
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
