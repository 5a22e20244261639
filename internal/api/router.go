package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/naftapulse/internal/middleware"
)

// RouterOptions tunes the middleware chain of NewRouter.
type RouterOptions struct {
	RateLimit      int           // requests per client IP per minute, 0 disables
	RequestTimeout time.Duration // per-request context deadline, 0 disables
	Metrics        http.Handler  // mounted on /metrics when set
}

// NewRouter creates a Gin engine with middlewares and routes configured.
//
// Routes:
//   - GET  /api/v1/stats
//   - GET  /api/v1/series
//   - POST /api/v1/refresh
//   - GET  /metrics (when opts.Metrics is set)
//   - GET  /swagger/*any
//
// Health and readiness endpoints are registered by app.InitializeApp.
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.NewRateLimiter(opts.RateLimit, time.Minute).Handler(),
	)

	// ─── Timeout ──────────────────────────────────
	if opts.RequestTimeout > 0 {
		router.Use(func(c *gin.Context) {
			ctx, cancel := context.WithTimeout(c.Request.Context(), opts.RequestTimeout)
			defer cancel()
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}

	// ─── Swagger & metrics ────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	{
		v1.GET("/stats", handler.GetStats)
		v1.GET("/series", handler.GetSeries)
		v1.POST("/refresh", handler.PostRefresh)
	}

	return router
}
