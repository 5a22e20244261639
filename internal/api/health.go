package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler provides liveness and readiness endpoints.
//
// Readiness requires a computed snapshot and, when an archive is
// configured, a reachable database.
type HealthHandler struct {
	hasSnapshot func() bool
	dbPing      func() error
}

// NewHealthHandler builds a HealthHandler. Either function may be nil.
func NewHealthHandler(hasSnapshot func() bool, dbPing func() error) *HealthHandler {
	return &HealthHandler{hasSnapshot: hasSnapshot, dbPing: dbPing}
}

// Register mounts /healthz and /readyz on r.
func (h *HealthHandler) Register(r *gin.Engine) {
	// @Summary      Liveness probe
	// @Description  Always returns OK if the service is running
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Router       /healthz [get]
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// @Summary      Readiness probe
	// @Description  Returns ready once a snapshot exists and the archive database (if any) is reachable
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Failure      503  {object}  map[string]string
	// @Router       /readyz [get]
	r.GET("/readyz", func(c *gin.Context) {
		if h.hasSnapshot != nil && !h.hasSnapshot() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "warming_up"})
			return
		}
		if h.dbPing != nil && h.dbPing() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}
