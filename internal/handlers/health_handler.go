package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotelops/hotel-admin-backend/internal/storage"
	"github.com/sirupsen/logrus"
)

// HealthHandler reports whether the storage backend answers
type HealthHandler struct {
	store   storage.Store
	driver  string
	version string
	logger  *logrus.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store storage.Store, driver, version string, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		store:   store,
		driver:  driver,
		version: version,
		logger:  logger,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := storage.Ping(ctx, h.store); err != nil {
		h.logger.WithError(err).Error("Storage health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"storage": h.driver,
			"error":   "storage unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"storage": h.driver,
		"version": h.version,
	})
}
