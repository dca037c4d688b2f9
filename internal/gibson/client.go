// Package gibson is the client for the hosted CRUD data API that persists
// resumes, job descriptions and analysis reports. Every call is keyed by a
// static API key; record schemas are owned by the service.
package gibson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrMissingCredential means the data API key is absent; no network call was
// attempted.
var ErrMissingCredential = errors.New("data API key is missing")

// APIError is a non-2xx response from the data API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("data API error (%d): %s", e.Status, e.Message)
}

// Client calls the data API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New constructs a Client. A missing key is not an error here; each call
// fails with ErrMissingCredential before any network I/O.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// call performs one request and decodes the response into T. A 204 returns
// the zero T; non-2xx responses become *APIError.
func call[T any](ctx context.Context, c *Client, method, path string, body any, query url.Values) (T, error) {
	var zero T
	if c.apiKey == "" {
		return zero, ErrMissingCredential
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return zero, err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return zero, err
	}
	req.Header.Set("X-Gibson-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("data API request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("data API response read: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, &APIError{
			Status:  resp.StatusCode,
			Message: detailMessage(raw),
		}
	}
	if resp.StatusCode == http.StatusNoContent || len(raw) == 0 {
		return zero, nil
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("data API response decode: %w", err)
	}
	return out, nil
}

// detailMessage decodes the API's error shape: {detail} is either a plain
// string or a list of {code, entity?, field?, message} objects.
func detailMessage(raw []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Detail) > 0 {
		var text string
		if err := json.Unmarshal(envelope.Detail, &text); err == nil && strings.TrimSpace(text) != "" {
			return text
		}
		var items []struct {
			Code    int    `json:"code"`
			Entity  string `json:"entity"`
			Field   string `json:"field"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(envelope.Detail, &items); err == nil && len(items) > 0 {
			parts := make([]string, 0, len(items))
			for _, item := range items {
				if strings.TrimSpace(item.Message) != "" {
					parts = append(parts, item.Message)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, ", ")
			}
		}
	}
	return "An unknown error occurred with the data API."
}

// CreateResume stores a resume text record.
func (c *Client) CreateResume(ctx context.Context, input ResumeInput) (Resume, error) {
	return call[Resume](ctx, c, http.MethodPost, "/resume", input, nil)
}

// GetResume fetches a resume by ID.
func (c *Client) GetResume(ctx context.Context, id int64) (Resume, error) {
	return call[Resume](ctx, c, http.MethodGet, fmt.Sprintf("/resume/%d", id), nil, nil)
}

// CreateJobDescription stores a job description record.
func (c *Client) CreateJobDescription(ctx context.Context, input JobDescriptionInput) (JobDescription, error) {
	return call[JobDescription](ctx, c, http.MethodPost, "/job-description", input, nil)
}

// GetJobDescription fetches a job description by ID.
func (c *Client) GetJobDescription(ctx context.Context, id int64) (JobDescription, error) {
	return call[JobDescription](ctx, c, http.MethodGet, fmt.Sprintf("/job-description/%d", id), nil, nil)
}

// CreateAnalysisReport stores an analysis report record.
func (c *Client) CreateAnalysisReport(ctx context.Context, input AnalysisReportInput) (AnalysisReport, error) {
	return call[AnalysisReport](ctx, c, http.MethodPost, "/analysis-report", input, nil)
}

// ListAnalysisReports lists reports created by the given user.
func (c *Client) ListAnalysisReports(ctx context.Context, analyzedBy int64) ([]AnalysisReport, error) {
	query := url.Values{"analyzed_by": {fmt.Sprint(analyzedBy)}}
	return call[[]AnalysisReport](ctx, c, http.MethodGet, "/analysis-report", nil, query)
}

// UpdateAnalysisReportStatus patches a report's status.
func (c *Client) UpdateAnalysisReportStatus(ctx context.Context, reportID int64, status ReportStatus) (AnalysisReport, error) {
	body := map[string]ReportStatus{"status": status}
	return call[AnalysisReport](ctx, c, http.MethodPatch, fmt.Sprintf("/analysis-report/%d", reportID), body, nil)
}

// DeleteAnalysisReport removes a report; the API answers 204.
func (c *Client) DeleteAnalysisReport(ctx context.Context, reportID int64) error {
	_, err := call[struct{}](ctx, c, http.MethodDelete, fmt.Sprintf("/analysis-report/%d", reportID), nil, nil)
	return err
}

// CreateAnalysisSummary stores the summary row for a report.
func (c *Client) CreateAnalysisSummary(ctx context.Context, input AnalysisSummaryInput) (AnalysisSummary, error) {
	return call[AnalysisSummary](ctx, c, http.MethodPost, "/analysis-summary", input, nil)
}

// GetAnalysisSummaryByReport returns the report's summary, or nil when the
// report has none.
func (c *Client) GetAnalysisSummaryByReport(ctx context.Context, reportID int64) (*AnalysisSummary, error) {
	query := url.Values{"report_id": {fmt.Sprint(reportID)}}
	summaries, err := call[[]AnalysisSummary](ctx, c, http.MethodGet, "/analysis-summary", nil, query)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, nil
	}
	return &summaries[0], nil
}

// CreateAnalysisScore stores one score row.
func (c *Client) CreateAnalysisScore(ctx context.Context, input AnalysisScoreInput) (AnalysisScore, error) {
	return call[AnalysisScore](ctx, c, http.MethodPost, "/analysis-score", input, nil)
}

// ListAnalysisScoresByReport lists all score rows for a report.
func (c *Client) ListAnalysisScoresByReport(ctx context.Context, reportID int64) ([]AnalysisScore, error) {
	query := url.Values{"report_id": {fmt.Sprint(reportID)}}
	return call[[]AnalysisScore](ctx, c, http.MethodGet, "/analysis-score", nil, query)
}

// CreateAnalysisRecommendation stores one recommendation row.
func (c *Client) CreateAnalysisRecommendation(ctx context.Context, input AnalysisRecommendationInput) (AnalysisRecommendation, error) {
	return call[AnalysisRecommendation](ctx, c, http.MethodPost, "/analysis-recommendation", input, nil)
}

// ListAnalysisRecommendationsByReport lists all recommendation rows for a
// report.
func (c *Client) ListAnalysisRecommendationsByReport(ctx context.Context, reportID int64) ([]AnalysisRecommendation, error) {
	query := url.Values{"report_id": {fmt.Sprint(reportID)}}
	return call[[]AnalysisRecommendation](ctx, c, http.MethodGet, "/analysis-recommendation", nil, query)
}
