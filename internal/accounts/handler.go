// Package accounts proxies the hosted auth service so the browser only ever
// talks to this API. Session cookies from the auth service are relayed
// verbatim in both directions.
package accounts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ats-checker/internal/authclient"
	"ats-checker/internal/shared/server/middleware"
	"ats-checker/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the auth service client.
type Handler struct {
	Auth *authclient.Client
}

// NewHandler constructs a Handler.
func NewHandler(auth *authclient.Client) *Handler {
	return &Handler{Auth: auth}
}

// RegisterRoutes attaches account routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", h.signup)
	rg.POST("/auth/login", h.login)
	rg.POST("/auth/logout", h.logout)
	rg.GET("/auth/me", h.me)
	rg.POST("/auth/verify-email", h.verifyEmail)
}

func (h *Handler) signup(c *gin.Context) {
	var input authclient.SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if input.Email == "" || input.Password == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email and password are required", nil)
		return
	}

	sess, err := h.Auth.Signup(c.Request.Context(), input)
	if err != nil {
		h.authError(c, err, "signup failed")
		return
	}
	relayCookies(c, sess)
	respond.JSON(c, http.StatusCreated, gin.H{"message": "account created"})
}

func (h *Handler) login(c *gin.Context) {
	var creds authclient.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if creds.Email == "" || creds.Password == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email and password are required", nil)
		return
	}

	sess, err := h.Auth.Login(c.Request.Context(), creds)
	if err != nil {
		h.authError(c, err, "login failed")
		return
	}
	relayCookies(c, sess)

	user, err := h.Auth.Me(c.Request.Context(), sess)
	if err != nil {
		// Login succeeded; return without the profile rather than failing.
		respond.OK(c, gin.H{"message": "logged in"})
		return
	}
	respond.OK(c, gin.H{"user": user})
}

func (h *Handler) logout(c *gin.Context) {
	sess, err := h.Auth.Logout(c.Request.Context(), authclient.SessionFromRequest(c.Request))
	if err != nil {
		h.authError(c, err, "logout failed")
		return
	}
	relayCookies(c, sess)
	respond.OK(c, gin.H{"message": "logged out"})
}

func (h *Handler) me(c *gin.Context) {
	if user, ok := middleware.UserFromContext(c); ok {
		respond.OK(c, gin.H{"user": user})
		return
	}
	respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

func (h *Handler) verifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "token is required", nil)
		return
	}
	if err := h.Auth.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		h.authError(c, err, "email verification failed")
		return
	}
	respond.OK(c, gin.H{"message": "email verified"})
}

// authError relays the auth service's status and message when available.
func (h *Handler) authError(c *gin.Context, err error, fallback string) {
	var authErr *authclient.AuthError
	if errors.As(err, &authErr) {
		status := authErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		respond.Error(c, status, "auth_error", authErr.Message, nil)
		return
	}
	respond.Error(c, http.StatusBadGateway, "auth_unreachable", fallback, nil)
}

func relayCookies(c *gin.Context, sess authclient.Session) {
	for _, cookie := range sess.Cookies {
		http.SetCookie(c.Writer, cookie)
	}
}
