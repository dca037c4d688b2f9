package reports

import (
	"context"
	"errors"

	"ats-checker/internal/gibson"
)

// ErrNotFound is returned when a record does not exist in the backing store.
var ErrNotFound = errors.New("record not found")

// Store persists analysis records. Implementations exist for the hosted
// Gibson data API, Postgres, and in-memory (tests).
type Store interface {
	CreateResume(ctx context.Context, input gibson.ResumeInput) (gibson.Resume, error)
	GetResume(ctx context.Context, id int64) (gibson.Resume, error)

	CreateJobDescription(ctx context.Context, input gibson.JobDescriptionInput) (gibson.JobDescription, error)
	GetJobDescription(ctx context.Context, id int64) (gibson.JobDescription, error)

	CreateReport(ctx context.Context, input gibson.AnalysisReportInput) (gibson.AnalysisReport, error)
	ListReports(ctx context.Context, analyzedBy int64) ([]gibson.AnalysisReport, error)
	UpdateReportStatus(ctx context.Context, reportID int64, status gibson.ReportStatus) (gibson.AnalysisReport, error)
	DeleteReport(ctx context.Context, reportID int64) error

	CreateSummary(ctx context.Context, input gibson.AnalysisSummaryInput) (gibson.AnalysisSummary, error)
	SummaryByReport(ctx context.Context, reportID int64) (*gibson.AnalysisSummary, error)

	CreateScore(ctx context.Context, input gibson.AnalysisScoreInput) (gibson.AnalysisScore, error)
	ScoresByReport(ctx context.Context, reportID int64) ([]gibson.AnalysisScore, error)

	CreateRecommendation(ctx context.Context, input gibson.AnalysisRecommendationInput) (gibson.AnalysisRecommendation, error)
	RecommendationsByReport(ctx context.Context, reportID int64) ([]gibson.AnalysisRecommendation, error)
}
