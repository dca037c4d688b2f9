package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoginCapturesSessionCookie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if creds.Email != "a@b.c" {
			t.Errorf("email = %q", creds.Email)
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok123", HttpOnly: true})
		w.Write([]byte(`{"message": "ok"}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	sess, err := client.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if len(sess.Cookies) != 1 || sess.Cookies[0].Name != "session" || sess.Cookies[0].Value != "tok123" {
		t.Errorf("cookies = %+v", sess.Cookies)
	}
}

func TestMeReplaysCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session")
		if err != nil || cookie.Value != "tok123" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail": "not authenticated"}`))
			return
		}
		w.Write([]byte(`{"id": 7, "email": "a@b.c", "first_name": "Ada", "email_verified": true}`))
	}))
	defer srv.Close()

	client := New(srv.URL)

	_, err := client.Me(context.Background(), Session{})
	var authErr *AuthError
	if !errors.As(err, &authErr) || authErr.Status != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401 AuthError", err)
	}
	if authErr.Message != "not authenticated" {
		t.Errorf("message = %q", authErr.Message)
	}

	sess := Session{Cookies: []*http.Cookie{{Name: "session", Value: "tok123"}}}
	user, err := client.Me(context.Background(), sess)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if user.ID != 7 || user.Email != "a@b.c" || !user.EmailVerified {
		t.Errorf("user = %+v", user)
	}
}

func TestVerifyEmailQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/verify-email" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("token"); got != "t&k" {
			t.Errorf("token = %q", got)
		}
		w.Write([]byte(`{"message": "verified"}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	if err := client.VerifyEmail(context.Background(), "t&k"); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
}

func TestSignupErrorDetailList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": [{"message": "password too short"}, {"message": "email invalid"}]}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Signup(context.Background(), SignupInput{Email: "a@b.c", Password: "x"})
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("err = %v, want AuthError", err)
	}
	if authErr.Message != "password too short, email invalid" {
		t.Errorf("message = %q", authErr.Message)
	}
}

func TestSessionFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "v"})
	sess := SessionFromRequest(req)
	if len(sess.Cookies) != 1 || sess.Cookies[0].Name != "session" {
		t.Errorf("cookies = %+v", sess.Cookies)
	}
}
