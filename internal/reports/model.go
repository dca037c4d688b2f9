package reports

import (
	"ats-checker/internal/analysis"
	"ats-checker/internal/gibson"
)

// AnalyzeInput is one analysis request: resume text (already extracted) and
// the job description to compare against.
type AnalyzeInput struct {
	ResumeText     string
	ResumeTitle    string
	JobDescription string
	// UserID is nil for anonymous callers; results are then returned but not saved.
	UserID *int64
}

// AnalyzeOutput is the model verdict plus persistence outcome.
type AnalyzeOutput struct {
	Result analysis.Result
	// ReportID is set when the results were saved.
	ReportID *int64
	Saved    bool
}

// ReportDetails is everything the dashboard shows for one report.
type ReportDetails struct {
	Report          gibson.AnalysisReport           `json:"report"`
	Resume          gibson.Resume                   `json:"resume"`
	JobDescription  gibson.JobDescription           `json:"jobDescription"`
	Summary         *gibson.AnalysisSummary         `json:"summary"`
	Scores          []gibson.AnalysisScore          `json:"scores"`
	Recommendations []gibson.AnalysisRecommendation `json:"recommendations"`
}

// ReportList is a user's reports with per-status counts.
type ReportList struct {
	Reports      []gibson.AnalysisReport     `json:"reports"`
	StatusCounts map[gibson.ReportStatus]int `json:"statusCounts"`
}
