package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func completionBody(content string) string {
	return `{"choices":[{"message":{"content":` + mustJSON(content) + `}}]}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newTestClient(url string, delay time.Duration) *HTTPClient {
	return NewHTTPClient(Config{
		BaseURL:    url,
		Model:      "test-model",
		Token:      "test-token",
		RetryDelay: delay,
	})
}

func TestCompleteSuccess(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(completionBody("hello world")))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, time.Millisecond)
	got, err := client.Complete(context.Background(), "say hi")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "hello world" {
		t.Errorf("content = %q", got)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "say hi" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
	if gotReq.Parameters.MaxNewTokens != 500 || !gotReq.Parameters.DoSample {
		t.Errorf("parameters = %+v", gotReq.Parameters)
	}
}

func TestCompleteRetriesOnceAfter429(t *testing.T) {
	const delay = 50 * time.Millisecond
	var calls int
	var timestamps []time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		timestamps = append(timestamps, time.Now())
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(completionBody("second time lucky")))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, delay)
	got, err := client.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "second time lucky" {
		t.Errorf("content = %q", got)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
	if gap := timestamps[1].Sub(timestamps[0]); gap < delay {
		t.Errorf("retry gap = %v, want >= %v", gap, delay)
	}
}

func TestCompleteGivesUpAfterSecond429(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, time.Millisecond)
	_, err := client.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want exactly 2", calls)
	}
}

func TestCompleteMissingToken(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := NewHTTPClient(Config{BaseURL: srv.URL, Model: "m"})
	_, err := client.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("err = %v, want ErrMissingCredential", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestCompleteInvalidResponseShape(t *testing.T) {
	cases := []string{
		`{"choices":[]}`,
		`{"choices":[{"message":{"content":""}}]}`,
		`not json at all`,
	}
	for _, body := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		client := newTestClient(srv.URL, time.Millisecond)
		_, err := client.Complete(context.Background(), "prompt")
		srv.Close()
		if !errors.Is(err, ErrInvalidResponse) {
			t.Errorf("body %q: err = %v, want ErrInvalidResponse", body, err)
		}
	}
}

func TestCompleteUpstreamError(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"error": "model is overloaded"}`, "model is overloaded"},
		{`{"error": {"message": "invalid model id"}}`, "invalid model id"},
		{`plain text failure`, ""},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(tc.body))
		}))
		client := newTestClient(srv.URL, time.Millisecond)
		_, err := client.Complete(context.Background(), "prompt")
		srv.Close()

		var upstream *UpstreamError
		if !errors.As(err, &upstream) {
			t.Fatalf("body %q: err = %v, want UpstreamError", tc.body, err)
		}
		if upstream.Status != http.StatusInternalServerError {
			t.Errorf("body %q: status = %d", tc.body, upstream.Status)
		}
		if upstream.Message != tc.want {
			t.Errorf("body %q: message = %q, want %q", tc.body, upstream.Message, tc.want)
		}
	}
}

func TestCompleteContextCanceledDuringWait(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := newTestClient(srv.URL, 10*time.Second)
	_, err := client.Complete(ctx, "prompt")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
}
