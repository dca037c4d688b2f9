package reports

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ats-checker/internal/analysis"
	"ats-checker/internal/extractor"
	"ats-checker/internal/gibson"
	"ats-checker/internal/llm"
	"ats-checker/internal/shared/server/middleware"
	"ats-checker/internal/shared/server/respond"
)

const maxUploadBytes = 5 << 20

var allowedContentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// Handler wires HTTP handlers to the reports service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches rewrite, analyze, and dashboard routes. The rewrite
// and analyze endpoints work anonymously; the dashboard requires a session.
// modelLimit, when non-nil, throttles only the endpoints that call the model.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, modelLimit gin.HandlerFunc) {
	model := rg.Group("")
	if modelLimit != nil {
		model.Use(modelLimit)
	}
	model.POST("/rewrite", h.rewriteJob)
	model.POST("/analyze", h.analyzeResume)
	rg.POST("/extract", h.extractResume)

	authed := rg.Group("", middleware.RequireUser())
	authed.GET("/reports", h.listReports)
	authed.GET("/reports/:id", h.reportDetails)
	authed.PATCH("/reports/:id/status", h.updateStatus)
	authed.DELETE("/reports/:id", h.deleteReport)
}

type rewriteRequest struct {
	JobDescription string `json:"jobDescription"`
}

func (h *Handler) rewriteJob(c *gin.Context) {
	var req rewriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.JobDescription == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobDescription is required", nil)
		return
	}

	rewritten, err := h.Svc.Rewrite(c.Request.Context(), req.JobDescription)
	if err != nil {
		h.modelError(c, err, "rewrite")
		return
	}
	respond.OK(c, gin.H{"rewrittenText": rewritten})
}

type analyzeRequest struct {
	ResumeText     string `json:"resumeText"`
	ResumeTitle    string `json:"resumeTitle"`
	JobDescription string `json:"jobDescription"`
}

type analyzeResponse struct {
	Summary         string                         `json:"summary"`
	OverallScore    int                            `json:"overallScore"`
	CategoryScores  map[analysis.Category]int      `json:"categoryScores"`
	Recommendations map[analysis.Category][]string `json:"recommendations"`
	ReportID        *int64                         `json:"reportId,omitempty"`
	Saved           bool                           `json:"saved"`
	SaveError       string                         `json:"saveError,omitempty"`
}

func (h *Handler) analyzeResume(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.ResumeText == "" || req.JobDescription == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resumeText and jobDescription are required", nil)
		return
	}

	input := AnalyzeInput{
		ResumeText:     req.ResumeText,
		ResumeTitle:    req.ResumeTitle,
		JobDescription: req.JobDescription,
	}
	if user, ok := middleware.UserFromContext(c); ok {
		input.UserID = &user.ID
	}

	out, err := h.Svc.Analyze(c.Request.Context(), input)
	resp := analyzeResponse{
		Summary:         out.Result.Summary,
		OverallScore:    out.Result.OverallScore,
		CategoryScores:  out.Result.CategoryScores,
		Recommendations: out.Result.Recommendations,
		ReportID:        out.ReportID,
		Saved:           out.Saved,
	}
	switch {
	case err == nil:
		respond.OK(c, resp)
	case errors.Is(err, ErrSaveFailed):
		// Analysis succeeded; surface the save failure without discarding it.
		resp.SaveError = "Failed to save results to your dashboard."
		respond.OK(c, resp)
	default:
		h.modelError(c, err, "analyze")
	}
}

func (h *Handler) extractResume(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the 5MB limit", nil)
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if _, ok := allowedContentTypes[contentType]; !ok {
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type", "upload a PDF, DOC, or DOCX file", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read file", nil)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read file", nil)
		return
	}
	if int64(len(data)) > maxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the 5MB limit", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	text, title, err := h.Svc.ExtractResume(c.Request.Context(), userID, fileHeader.Filename, contentType, data)
	if err != nil {
		var extErr *extractor.ExtractionError
		if errors.As(err, &extErr) {
			respond.Error(c, http.StatusBadGateway, "extraction_failed", extErr.Message, nil)
			return
		}
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "could not extract text from file", nil)
		return
	}
	respond.OK(c, gin.H{
		"text": text,
		"meta": gin.H{
			"filename": title,
			"chars":    len(text),
		},
	})
}

func (h *Handler) listReports(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)
	list, err := h.Svc.ListReports(c.Request.Context(), user.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list reports", nil)
		return
	}
	respond.OK(c, list)
}

func (h *Handler) reportDetails(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)
	reportID, ok := reportIDParam(c)
	if !ok {
		return
	}
	details, err := h.Svc.Details(c.Request.Context(), user.ID, reportID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch report", nil)
		return
	}
	respond.OK(c, details)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)
	reportID, ok := reportIDParam(c)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	report, err := h.Svc.UpdateStatus(c.Request.Context(), user.ID, reportID, gibson.ReportStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid status value", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update status", nil)
		}
		return
	}
	respond.OK(c, report)
}

func (h *Handler) deleteReport(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)
	reportID, ok := reportIDParam(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), user.ID, reportID); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete report", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) modelError(c *gin.Context, err error, op string) {
	var upstream *llm.UpstreamError
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		respond.Error(c, http.StatusTooManyRequests, "model_rate_limited",
			"Too many AI requests right now. Please try again in a few minutes.", nil)
	case errors.Is(err, llm.ErrMissingCredential):
		respond.Error(c, http.StatusServiceUnavailable, "model_unconfigured",
			"The AI model is not configured.", nil)
	case errors.Is(err, llm.ErrInvalidResponse), errors.Is(err, analysis.ErrUnparsable):
		respond.Error(c, http.StatusBadGateway, "model_invalid_response",
			"The AI model returned an unusable response. Please try again.", nil)
	case errors.As(err, &upstream):
		respond.Error(c, http.StatusBadGateway, "model_error", upstream.Message, nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to "+op, nil)
	}
}

func reportIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "report id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}
