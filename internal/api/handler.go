package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/naftapulse/internal/domain/dto"
	"github.com/guttosm/naftapulse/internal/ingestion"
	"github.com/guttosm/naftapulse/internal/middleware"
	"github.com/guttosm/naftapulse/internal/service"
)

// Handler exposes the statistics held by a StatsService over HTTP.
//
// Responsibilities:
//   - Read the current State and translate it into response DTOs
//   - Trigger on-demand refreshes
//   - Map pipeline errors onto HTTP status codes
type Handler struct {
	svc service.StatsService
}

// NewHandler constructs a Handler backed by svc.
func NewHandler(svc service.StatsService) *Handler {
	return &Handler{svc: svc}
}

// GetStats godoc
// @Summary      Current price statistics
// @Description  Returns the snapshot computed by the last successful refresh. When the latest refresh failed, or the snapshot was restored from the archive at startup, it is returned with stale=true.
// @Tags         stats
// @Produce      json
// @Success      200  {object}  dto.StatsResponse  "Success"
// @Failure      404  {object}  dto.ErrorResponse  "No observations matched the vendor"
// @Failure      503  {object}  dto.ErrorResponse  "No snapshot computed yet"
// @Router       /api/v1/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	st := h.svc.State()
	if st.Snapshot == nil {
		h.abortNoSnapshot(c, st.LastErr)
		return
	}

	resp := dto.NewStatsResponse(st.Snapshot, h.svc.Currency())
	resp.Stale = st.Stale()
	resp.Restored = st.Restored
	resp.RefreshedAt = st.RefreshedAt
	if st.LastErr != nil {
		resp.LastError = st.LastErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// GetSeries godoc
// @Summary      Price series for charting
// @Description  Returns one (label, value) point per observation, optionally limited to the last N days.
// @Tags         stats
// @Produce      json
// @Param        days  query     int  false  "Only points within the last N days (0 = all)" example(30)
// @Success      200   {object}  dto.SeriesResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse   "Bad Request"
// @Failure      404   {object}  dto.ErrorResponse   "No observations matched the vendor"
// @Failure      503   {object}  dto.ErrorResponse   "No snapshot computed yet"
// @Router       /api/v1/series [get]
func (h *Handler) GetSeries(c *gin.Context) {
	days := 0
	if s := c.Query("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			middleware.AbortWithError(c, http.StatusBadRequest, "days must be a non-negative integer", err)
			return
		}
		days = n
	}

	st := h.svc.State()
	if st.Snapshot == nil {
		h.abortNoSnapshot(c, st.LastErr)
		return
	}

	c.JSON(http.StatusOK, dto.SeriesResponse{
		Vendor:   st.Snapshot.Vendor,
		Currency: h.svc.Currency(),
		Points:   h.svc.Series(days),
	})
}

// PostRefresh godoc
// @Summary      Refresh now
// @Description  Fetches the feed, recomputes the statistics and returns the new snapshot.
// @Tags         stats
// @Produce      json
// @Success      200  {object}  dto.StatsResponse  "Success"
// @Failure      404  {object}  dto.ErrorResponse  "No observations matched the vendor"
// @Failure      500  {object}  dto.ErrorResponse  "Internal Error"
// @Failure      502  {object}  dto.ErrorResponse  "Feed unreachable"
// @Router       /api/v1/refresh [post]
func (h *Handler) PostRefresh(c *gin.Context) {
	snap, err := h.svc.Refresh(c.Request.Context())
	if err != nil {
		status, msg := statusFor(err)
		middleware.AbortWithError(c, status, msg, err)
		return
	}

	st := h.svc.State()
	resp := dto.NewStatsResponse(snap, h.svc.Currency())
	resp.RefreshedAt = st.RefreshedAt
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) abortNoSnapshot(c *gin.Context, lastErr error) {
	if errors.Is(lastErr, ingestion.ErrEmptyResult) {
		middleware.AbortWithError(c, http.StatusNotFound, "no observations for vendor", lastErr)
		return
	}
	middleware.AbortWithError(c, http.StatusServiceUnavailable, "statistics not available yet", lastErr)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ingestion.ErrTransport):
		return http.StatusBadGateway, "feed unavailable"
	case errors.Is(err, ingestion.ErrEmptyResult):
		return http.StatusNotFound, "no observations for vendor"
	default:
		return http.StatusInternalServerError, "refresh failed"
	}
}
