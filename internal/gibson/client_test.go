package gibson

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateResume(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/resume" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Gibson-API-Key") != "test-key" {
			t.Errorf("api key header = %q", r.Header.Get("X-Gibson-API-Key"))
		}
		var input ResumeInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if input.Title != "My Resume" || input.UserProfileID != 7 {
			t.Errorf("input = %+v", input)
		}
		w.Write([]byte(`{"id": 12, "uuid": "abc", "summary": "text", "title": "My Resume", "user_profile_id": 7, "date_created": "2024-01-01T00:00:00Z", "date_updated": null}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "test-key")
	resume, err := client.CreateResume(context.Background(), ResumeInput{
		Summary:       "text",
		Title:         "My Resume",
		UserProfileID: 7,
	})
	if err != nil {
		t.Fatalf("CreateResume: %v", err)
	}
	if resume.ID != 12 || resume.UUID != "abc" {
		t.Errorf("resume = %+v", resume)
	}
	if resume.DateUpdated != nil {
		t.Errorf("dateUpdated = %v, want nil", resume.DateUpdated)
	}
}

func TestMissingKeySkipsNetwork(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := New(srv.URL, "")
	if client.Configured() {
		t.Error("Configured() = true for empty key")
	}
	_, err := client.GetResume(context.Background(), 1)
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("err = %v, want ErrMissingCredential", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestListAnalysisReportsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("analyzed_by"); got != "42" {
			t.Errorf("analyzed_by = %q", got)
		}
		w.Write([]byte(`[{"id": 1, "uuid": "u1", "analyzed_by": 42, "job_description_id": 2, "resume_id": 3, "status": "applied", "date_created": "2024-01-01T00:00:00Z", "date_updated": null}]`))
	}))
	defer srv.Close()

	client := New(srv.URL, "k")
	reports, err := client.ListAnalysisReports(context.Background(), 42)
	if err != nil {
		t.Fatalf("ListAnalysisReports: %v", err)
	}
	if len(reports) != 1 || reports[0].Status != StatusApplied {
		t.Errorf("reports = %+v", reports)
	}
}

func TestUpdateAnalysisReportStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/analysis-report/9" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["status"] != "interviewing" {
			t.Errorf("status = %q", body["status"])
		}
		w.Write([]byte(`{"id": 9, "uuid": "u9", "analyzed_by": 1, "job_description_id": 2, "resume_id": 3, "status": "interviewing", "date_created": "2024-01-01T00:00:00Z", "date_updated": "2024-02-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "k")
	report, err := client.UpdateAnalysisReportStatus(context.Background(), 9, StatusInterviewing)
	if err != nil {
		t.Fatalf("UpdateAnalysisReportStatus: %v", err)
	}
	if report.Status != StatusInterviewing || report.DateUpdated == nil {
		t.Errorf("report = %+v", report)
	}
}

func TestDeleteAnalysisReportNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/analysis-report/5" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := New(srv.URL, "k")
	if err := client.DeleteAnalysisReport(context.Background(), 5); err != nil {
		t.Fatalf("DeleteAnalysisReport: %v", err)
	}
}

func TestSummaryByReportEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("report_id"); got != "3" {
			t.Errorf("report_id = %q", got)
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := New(srv.URL, "k")
	summary, err := client.GetAnalysisSummaryByReport(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetAnalysisSummaryByReport: %v", err)
	}
	if summary != nil {
		t.Errorf("summary = %+v, want nil", summary)
	}
}

func TestErrorDetailShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "string detail",
			body: `{"detail": "record not found"}`,
			want: "record not found",
		},
		{
			name: "list detail",
			body: `{"detail": [{"code": 400, "entity": "resume", "field": "title", "message": "title is required"}, {"code": 400, "message": "summary is required"}]}`,
			want: "title is required, summary is required",
		},
		{
			name: "unrecognized body",
			body: `<html>gateway timeout</html>`,
			want: "An unknown error occurred with the data API.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := New(srv.URL, "k")
			_, err := client.GetResume(context.Background(), 1)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want APIError", err)
			}
			if apiErr.Status != http.StatusBadRequest {
				t.Errorf("status = %d", apiErr.Status)
			}
			if apiErr.Message != tc.want {
				t.Errorf("message = %q, want %q", apiErr.Message, tc.want)
			}
		})
	}
}

func TestStatusValid(t *testing.T) {
	for _, status := range Statuses {
		if !status.Valid() {
			t.Errorf("%q should be valid", status)
		}
	}
	if ReportStatus("ghosted").Valid() {
		t.Error("unknown status should be invalid")
	}
}
