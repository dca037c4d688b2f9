package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ats-checker/internal/accounts"
	"ats-checker/internal/authclient"
	"ats-checker/internal/reports"
	"ats-checker/internal/shared/config"
	"ats-checker/internal/shared/metrics"
	"ats-checker/internal/shared/server/middleware"
	"ats-checker/internal/shared/server/respond"
)

// RouterDeps carries the handlers and clients the router wires up.
type RouterDeps struct {
	Config          config.Config
	Auth            *authclient.Client
	AccountsHandler *accounts.Handler
	ReportsHandler  *reports.Handler
	RateLimiter     *middleware.RateLimiter
}

// Model calls are the expensive resource; everything else rides the default.
var (
	modelRule   = middleware.RateLimitRule{Rate: 0.2, Burst: 3}
	defaultRule = middleware.RateLimitRule{Rate: 5, Burst: 20}
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Session(deps.Auth),
	)

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(nil)
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	api.Use(middleware.RateLimit(limiter, "api", defaultRule))

	if deps.AccountsHandler != nil {
		deps.AccountsHandler.RegisterRoutes(api)
	}
	if deps.ReportsHandler != nil {
		deps.ReportsHandler.RegisterRoutes(api, middleware.RateLimit(limiter, "model", modelRule))
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
