package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ats-checker/internal/authclient"
	"ats-checker/internal/shared/server/respond"
)

const (
	userIDKey = "userId"
	userKey   = "user"
)

// Session resolves the caller's identity by replaying the request cookies
// against the auth service. Identity is refreshed per request, never cached.
// Requests without a valid session continue anonymously.
func Session(auth *authclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth == nil || len(c.Request.Cookies()) == 0 {
			c.Next()
			return
		}
		sess := authclient.SessionFromRequest(c.Request)
		user, err := auth.Me(c.Request.Context(), sess)
		if err == nil {
			c.Set(userKey, user)
			c.Set(userIDKey, strconv.FormatInt(user.ID, 10))
		}
		c.Next()
	}
}

// RequireUser rejects requests that did not resolve a session identity.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserFromContext(c); !ok {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
			return
		}
		c.Next()
	}
}

// UserFromContext returns the authenticated user stored by Session.
func UserFromContext(c *gin.Context) (authclient.User, bool) {
	val, ok := c.Get(userKey)
	if !ok {
		return authclient.User{}, false
	}
	user, ok := val.(authclient.User)
	return user, ok
}

// UserIDFromContext returns the authenticated user ID, or "".
func UserIDFromContext(c *gin.Context) string {
	return c.GetString(userIDKey)
}
