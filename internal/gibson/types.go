package gibson

// ReportStatus is the application-tracking state of an analysis report.
type ReportStatus string

const (
	StatusNotApplied   ReportStatus = "not_applied"
	StatusApplied      ReportStatus = "applied"
	StatusInterviewing ReportStatus = "interviewing"
	StatusOffer        ReportStatus = "offer"
	StatusRejected     ReportStatus = "rejected"
)

// Statuses lists the valid report statuses.
var Statuses = []ReportStatus{
	StatusNotApplied,
	StatusApplied,
	StatusInterviewing,
	StatusOffer,
	StatusRejected,
}

// Valid reports whether s is a member of the status enum.
func (s ReportStatus) Valid() bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Resume is a stored resume text record.
type Resume struct {
	ID            int64   `json:"id"`
	UUID          string  `json:"uuid"`
	Summary       string  `json:"summary"`
	Title         string  `json:"title"`
	UserProfileID int64   `json:"user_profile_id"`
	DateCreated   string  `json:"date_created"`
	DateUpdated   *string `json:"date_updated"`
}

// ResumeInput creates a Resume.
type ResumeInput struct {
	Summary       string `json:"summary"`
	Title         string `json:"title"`
	UserProfileID int64  `json:"user_profile_id"`
}

// JobDescription is a stored job description record.
type JobDescription struct {
	ID          int64   `json:"id"`
	UUID        string  `json:"uuid"`
	CompanyName string  `json:"company_name"`
	Description string  `json:"description"`
	Title       string  `json:"title"`
	Location    *string `json:"location"`
	DateCreated string  `json:"date_created"`
	DateUpdated *string `json:"date_updated"`
}

// JobDescriptionInput creates a JobDescription.
type JobDescriptionInput struct {
	CompanyName   string `json:"company_name"`
	Description   string `json:"description"`
	Title         string `json:"title"`
	Location      string `json:"location,omitempty"`
	UserProfileID int64  `json:"user_profile_id"`
}

// AnalysisReport ties a resume and a job description to one analysis run.
// Status is the only field ever mutated after creation.
type AnalysisReport struct {
	ID               int64        `json:"id"`
	UUID             string       `json:"uuid"`
	AnalyzedBy       int64        `json:"analyzed_by"`
	JobDescriptionID int64        `json:"job_description_id"`
	ResumeID         int64        `json:"resume_id"`
	Status           ReportStatus `json:"status"`
	DateCreated      string       `json:"date_created"`
	DateUpdated      *string      `json:"date_updated"`
}

// AnalysisReportInput creates an AnalysisReport.
type AnalysisReportInput struct {
	AnalyzedBy       int64        `json:"analyzed_by"`
	JobDescriptionID int64        `json:"job_description_id"`
	ResumeID         int64        `json:"resume_id"`
	Status           ReportStatus `json:"status,omitempty"`
}

// AnalysisSummary is the free-text assessment for a report.
type AnalysisSummary struct {
	ID          int64   `json:"id"`
	UUID        string  `json:"uuid"`
	ReportID    int64   `json:"report_id"`
	SummaryText string  `json:"summary_text"`
	DateCreated string  `json:"date_created"`
	DateUpdated *string `json:"date_updated"`
}

// AnalysisSummaryInput creates an AnalysisSummary.
type AnalysisSummaryInput struct {
	ReportID    int64  `json:"report_id"`
	SummaryText string `json:"summary_text"`
}

// AnalysisScore is one score row per section label ("Overall ATS Score" or a
// capitalized category name).
type AnalysisScore struct {
	ID          int64   `json:"id"`
	UUID        string  `json:"uuid"`
	ReportID    int64   `json:"report_id"`
	Score       int     `json:"score"`
	Section     string  `json:"section"`
	DateCreated string  `json:"date_created"`
	DateUpdated *string `json:"date_updated"`
}

// AnalysisScoreInput creates an AnalysisScore.
type AnalysisScoreInput struct {
	ReportID int64  `json:"report_id"`
	Score    int    `json:"score"`
	Section  string `json:"section"`
}

// AnalysisRecommendation is one recommendation row per category; the
// recommendation sentences are newline-joined for storage.
type AnalysisRecommendation struct {
	ID                 int64   `json:"id"`
	UUID               string  `json:"uuid"`
	ReportID           int64   `json:"report_id"`
	Category           string  `json:"category"`
	RecommendationText string  `json:"recommendation_text"`
	DateCreated        string  `json:"date_created"`
	DateUpdated        *string `json:"date_updated"`
}

// AnalysisRecommendationInput creates an AnalysisRecommendation.
type AnalysisRecommendationInput struct {
	ReportID           int64  `json:"report_id"`
	Category           string `json:"category"`
	RecommendationText string `json:"recommendation_text"`
}
