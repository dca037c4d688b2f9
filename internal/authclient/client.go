// Package authclient talks to the cookie-session auth service. The service
// owns signup, login, logout, email verification and the current-user lookup;
// this client only moves session cookies back and forth.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// User is the identity returned by the auth service.
type User struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
}

// Session carries the auth service cookies for one browser session.
type Session struct {
	Cookies []*http.Cookie
}

// SignupInput is the payload for account creation.
type SignupInput struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthError is a non-2xx response from the auth service.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth service error (%d): %s", e.Status, e.Message)
}

// Client calls the auth service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a Client for the given auth service base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Signup creates an account. The service may set a session cookie right away.
func (c *Client) Signup(ctx context.Context, input SignupInput) (Session, error) {
	return c.doSession(ctx, http.MethodPost, "/auth/signup", input, nil)
}

// Login exchanges credentials for a session cookie.
func (c *Client) Login(ctx context.Context, creds Credentials) (Session, error) {
	return c.doSession(ctx, http.MethodPost, "/auth/login", creds, nil)
}

// Logout invalidates the session; returned cookies clear it client-side.
func (c *Client) Logout(ctx context.Context, sess Session) (Session, error) {
	return c.doSession(ctx, http.MethodPost, "/auth/logout", nil, &sess)
}

// Me resolves the current user for the session.
func (c *Client) Me(ctx context.Context, sess Session) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/me", nil, &sess, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// VerifyEmail redeems an email-verification token.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	path := "/auth/verify-email?token=" + url.QueryEscape(token)
	return c.do(ctx, http.MethodGet, path, nil, nil, nil)
}

func (c *Client) doSession(ctx context.Context, method, path string, body any, sess *Session) (Session, error) {
	cookies, err := c.roundTrip(ctx, method, path, body, sess, nil)
	if err != nil {
		return Session{}, err
	}
	return Session{Cookies: cookies}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, sess *Session, out any) error {
	_, err := c.roundTrip(ctx, method, path, body, sess, out)
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any, sess *Session, out any) ([]*http.Cookie, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if sess != nil {
		for _, cookie := range sess.Cookies {
			req.AddCookie(cookie)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("auth response read: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &AuthError{
			Status:  resp.StatusCode,
			Message: detailMessage(raw, resp.Status),
		}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("auth response decode: %w", err)
		}
	}
	return resp.Cookies(), nil
}

// detailMessage extracts the service's {detail} message; detail may be a
// plain string or a list of field errors.
func detailMessage(raw []byte, fallback string) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Detail) > 0 {
		var text string
		if err := json.Unmarshal(envelope.Detail, &text); err == nil && strings.TrimSpace(text) != "" {
			return text
		}
		var items []struct {
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
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return fallback
}

// SessionFromRequest collects the incoming request's cookies so they can be
// replayed against the auth service.
func SessionFromRequest(r *http.Request) Session {
	return Session{Cookies: r.Cookies()}
}
