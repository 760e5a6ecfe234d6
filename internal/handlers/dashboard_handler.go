package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotelops/hotel-admin-backend/internal/services"
	"github.com/sirupsen/logrus"
)

const defaultStreamHeartbeat = 15 * time.Second

// DashboardHandler serves the dashboard projection
type DashboardHandler struct {
	dashboard *services.DashboardService
	heartbeat time.Duration
	logger    *logrus.Logger
}

// NewDashboardHandler creates a new dashboard handler. A non-positive
// heartbeat falls back to 15 seconds.
func NewDashboardHandler(dashboard *services.DashboardService, heartbeat time.Duration, logger *logrus.Logger) *DashboardHandler {
	if heartbeat <= 0 {
		heartbeat = defaultStreamHeartbeat
	}
	return &DashboardHandler{
		dashboard: dashboard,
		heartbeat: heartbeat,
		logger:    logger,
	}
}

// GetStats returns the latest dashboard projection
// @Summary Dashboard stats
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DashboardStats
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboard.Snapshot(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Stream pushes a "stats" event whenever the projection changes, with a
// "heartbeat" event between them to keep proxies from closing the stream
// @Summary Dashboard event stream
// @Tags Dashboard
// @Produce text/event-stream
// @Security BearerAuth
// @Router /dashboard/stream [get]
func (h *DashboardHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()

	// Make sure the first event has something to carry
	if _, err := h.dashboard.Snapshot(ctx); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	updates, unsubscribe := h.dashboard.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	h.logger.WithField("ip", c.ClientIP()).Debug("Dashboard stream opened")
	defer h.logger.WithField("ip", c.ClientIP()).Debug("Dashboard stream closed")

	for {
		select {
		case <-ctx.Done():
			return
		case stats, ok := <-updates:
			if !ok {
				return
			}
			c.SSEvent("stats", stats)
			c.Writer.Flush()
		case now := <-ticker.C:
			c.SSEvent("heartbeat", now.UTC().Format(time.RFC3339))
			c.Writer.Flush()
		}
	}
}
