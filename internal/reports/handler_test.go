package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"ats-checker/internal/authclient"
	"ats-checker/internal/gibson"
	"ats-checker/internal/llm"
)

func setupRouter(t *testing.T, model llm.Client, user *authclient.User) (*gin.Engine, *MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := NewMemoryStore()
	svc := &Service{Store: store, LLM: model}
	handler := NewHandler(svc)

	router := gin.New()
	api := router.Group("/api/v1")
	if user != nil {
		api.Use(func(c *gin.Context) {
			c.Set("user", *user)
			c.Set("userId", strconv.FormatInt(user.ID, 10))
			c.Next()
		})
	}
	handler.RegisterRoutes(api, nil)
	return router, store
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRewriteEndpoint(t *testing.T) {
	model := &fakeLLM{response: "Role Title: Engineer\nDates of Employment: 01/2024 - 02/2024\n- Did things"}
	router, _ := setupRouter(t, model, nil)

	resp := postJSON(t, router, "/api/v1/rewrite", map[string]string{"jobDescription": "hiring an engineer"})
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var out struct {
		RewrittenText string `json:"rewrittenText"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.RewrittenText != "Engineer\n01/2024 - 02/2024\n- Did things" {
		t.Errorf("rewrittenText = %q", out.RewrittenText)
	}
}

func TestRewriteEndpointValidation(t *testing.T) {
	router, _ := setupRouter(t, &fakeLLM{}, nil)
	resp := postJSON(t, router, "/api/v1/rewrite", map[string]string{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestRewriteEndpointRateLimited(t *testing.T) {
	router, _ := setupRouter(t, &fakeLLM{err: llm.ErrRateLimited}, nil)
	resp := postJSON(t, router, "/api/v1/rewrite", map[string]string{"jobDescription": "jd"})
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.Code)
	}
}

func TestAnalyzeEndpointAuthenticatedSaves(t *testing.T) {
	user := &authclient.User{ID: 5, Email: "a@b.c"}
	router, store := setupRouter(t, &fakeLLM{response: analysisJSON}, user)

	resp := postJSON(t, router, "/api/v1/analyze", map[string]string{
		"resumeText":     "resume",
		"jobDescription": "jd",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var out analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Saved || out.ReportID == nil {
		t.Errorf("response = %+v, want saved", out)
	}
	if out.OverallScore != 81 || len(out.CategoryScores) != 5 {
		t.Errorf("response = %+v", out)
	}

	reports, err := store.ListReports(context.Background(), 5)
	if err != nil || len(reports) != 1 {
		t.Errorf("stored reports = %v, %v", reports, err)
	}
}

func TestAnalyzeEndpointSaveFailureStill200(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &failingStore{MemoryStore: NewMemoryStore()}
	svc := &Service{Store: store, LLM: &fakeLLM{response: analysisJSON}}
	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set("user", authclient.User{ID: 5})
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(api, nil)

	resp := postJSON(t, router, "/api/v1/analyze", map[string]string{
		"resumeText":     "resume",
		"jobDescription": "jd",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite save failure", resp.Code)
	}
	var out analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Saved || out.SaveError == "" {
		t.Errorf("response = %+v, want unsaved with saveError", out)
	}
	if out.Summary != "Good fit." {
		t.Errorf("summary = %q", out.Summary)
	}
}

func TestDashboardRequiresSession(t *testing.T) {
	router, _ := setupRouter(t, &fakeLLM{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.Code)
	}
}

func TestUpdateStatusEndpoint(t *testing.T) {
	user := &authclient.User{ID: 5}
	router, store := setupRouter(t, &fakeLLM{}, user)
	report := seedReport(t, store, 5)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/reports/"+strconv.FormatInt(report.ID, 10)+"/status",
		bytes.NewReader([]byte(`{"status": "interviewing"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var updated gibson.AnalysisReport
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Status != gibson.StatusInterviewing {
		t.Errorf("status = %q", updated.Status)
	}
}

func TestUpdateStatusEndpointInvalidValue(t *testing.T) {
	user := &authclient.User{ID: 5}
	router, store := setupRouter(t, &fakeLLM{}, user)
	report := seedReport(t, store, 5)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/reports/"+strconv.FormatInt(report.ID, 10)+"/status",
		bytes.NewReader([]byte(`{"status": "ghosted"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestReportDetailsEndpoint(t *testing.T) {
	user := &authclient.User{ID: 5}
	model := &fakeLLM{response: analysisJSON}
	router, _ := setupRouter(t, model, user)

	resp := postJSON(t, router, "/api/v1/analyze", map[string]string{
		"resumeText":     "resume",
		"jobDescription": "jd",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("analyze status = %d", resp.Code)
	}
	var analyzed analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&analyzed); err != nil {
		t.Fatalf("decode analyze: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+strconv.FormatInt(*analyzed.ReportID, 10), nil)
	detailResp := httptest.NewRecorder()
	router.ServeHTTP(detailResp, req)
	if detailResp.Code != http.StatusOK {
		t.Fatalf("details status = %d, body = %s", detailResp.Code, detailResp.Body.String())
	}

	var details ReportDetails
	if err := json.NewDecoder(detailResp.Body).Decode(&details); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if details.Summary == nil || details.Summary.SummaryText != "Good fit." {
		t.Errorf("summary = %+v", details.Summary)
	}
	if len(details.Scores) != 6 || len(details.Recommendations) != 5 {
		t.Errorf("scores = %d, recommendations = %d", len(details.Scores), len(details.Recommendations))
	}
}

func TestReportIDValidation(t *testing.T) {
	user := &authclient.User{ID: 5}
	router, _ := setupRouter(t, &fakeLLM{}, user)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/abc", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}
