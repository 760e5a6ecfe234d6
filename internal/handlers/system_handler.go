package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hotelops/hotel-admin-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// SystemHandler exposes the housekeeping scheduler
type SystemHandler struct {
	cron   *services.CronService
	logger *logrus.Logger
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(cron *services.CronService, logger *logrus.Logger) *SystemHandler {
	return &SystemHandler{cron: cron, logger: logger}
}

// JobStatus lists the scheduled jobs
// @Summary Housekeeping job status
// @Tags System
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /system/jobs [get]
func (h *SystemHandler) JobStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.cron.GetJobStatus())
}

// RunJob runs one housekeeping job immediately
// @Summary Run a housekeeping job now
// @Tags System
// @Produce json
// @Security BearerAuth
// @Param job path string true "login-attempts or sessions"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /system/jobs/{job}/run [post]
func (h *SystemHandler) RunJob(c *gin.Context) {
	var err error
	switch job := c.Param("job"); job {
	case "login-attempts":
		err = h.cron.RunCleanupLoginAttemptsNow()
	case "sessions":
		err = h.cron.RunPruneSessionsNow()
	default:
		respondError(c, http.StatusNotFound, "not_found", "UNKNOWN_JOB", "unknown job: "+job)
		return
	}
	if err != nil {
		respondError(c, http.StatusConflict, "state_conflict", "JOB_UNAVAILABLE", err.Error())
		return
	}

	h.logger.WithField("job", c.Param("job")).Info("Housekeeping job run manually")
	c.JSON(http.StatusOK, SuccessResponse{Message: "Job completed"})
}
