package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hotelops/hotel-admin-backend/internal/middleware"
	"github.com/hotelops/hotel-admin-backend/internal/models"
	"github.com/hotelops/hotel-admin-backend/internal/services"
	"github.com/hotelops/hotel-admin-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// AdminAuthHandler handles admin authentication HTTP requests
type AdminAuthHandler struct {
	adminAuthService *services.AdminAuthService
	rateLimitService *services.RateLimitService
	logger           *logrus.Logger
}

// NewAdminAuthHandler creates a new admin auth handler. rateLimitService
// may be nil to disable login throttling.
func NewAdminAuthHandler(adminAuthService *services.AdminAuthService, rateLimitService *services.RateLimitService, logger *logrus.Logger) *AdminAuthHandler {
	return &AdminAuthHandler{
		adminAuthService: adminAuthService,
		rateLimitService: rateLimitService,
		logger:           logger,
	}
}

// Login handles admin login requests
// @Summary Admin login
// @Description Authenticate an operator and return access and refresh tokens
// @Tags Admin Auth
// @Accept json
// @Produce json
// @Param loginRequest body models.AdminLoginRequest true "Login credentials"
// @Success 200 {object} models.AdminLoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	meta := models.LoginMetadata{
		IPAddress: utils.GetRealIP(c),
		UserAgent: utils.GetUserAgent(c),
	}

	ctx := c.Request.Context()
	if h.rateLimitService != nil {
		if err := h.rateLimitService.CheckLoginRateLimit(ctx, req.Username, meta.IPAddress); err != nil {
			h.logger.WithFields(logrus.Fields{
				"username": req.Username,
				"ip":       meta.IPAddress,
			}).Warn("Admin login throttled")
			writeServiceError(c, h.logger, err)
			return
		}
	}

	response, err := h.adminAuthService.Login(ctx, req.Username, req.Password, meta)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"username": req.Username,
			"ip":       meta.IPAddress,
			"error":    err.Error(),
		}).Warn("Admin login failed")
		if h.rateLimitService != nil && errors.Is(err, services.ErrInvalidCredentials) {
			if recErr := h.rateLimitService.RecordFailedLogin(ctx, req.Username, meta.IPAddress); recErr != nil {
				h.logger.WithError(recErr).Error("Failed to record failed login")
			}
		}
		writeServiceError(c, h.logger, err)
		return
	}

	if h.rateLimitService != nil {
		if err := h.rateLimitService.ResetUser(ctx, req.Username); err != nil {
			h.logger.WithError(err).Warn("Failed to reset login attempts")
		}
	}

	h.logger.WithFields(logrus.Fields{
		"admin_id": response.AdminUser.ID,
		"username": response.AdminUser.Username,
	}).Info("Admin login successful")

	c.JSON(http.StatusOK, response)
}

// RefreshToken handles token refresh requests
// @Summary Refresh access token
// @Description Generate a new access token using a refresh token
// @Tags Admin Auth
// @Accept json
// @Produce json
// @Param refreshRequest body models.AdminRefreshRequest true "Refresh token"
// @Success 200 {object} models.AdminLoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AdminAuthHandler) RefreshToken(c *gin.Context) {
	var req models.AdminRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	response, err := h.adminAuthService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.logger.WithError(err).Warn("Token refresh failed")
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Logout revokes the session behind a refresh token
// @Summary Admin logout
// @Tags Admin Auth
// @Accept json
// @Produce json
// @Param refreshRequest body models.AdminRefreshRequest true "Refresh token"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *AdminAuthHandler) Logout(c *gin.Context) {
	var req models.AdminRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.adminAuthService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Logged out successfully"})
}

// GetProfile retrieves the current admin's profile
// @Summary Get admin profile
// @Tags Admin Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.AdminUser
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /auth/profile [get]
func (h *AdminAuthHandler) GetProfile(c *gin.Context) {
	adminCtx, exists := middleware.GetAdminContext(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "unauthorized", "MISSING_ADMIN_CONTEXT", "Unauthorized")
		return
	}

	admin, err := h.adminAuthService.GetAdminProfile(c.Request.Context(), adminCtx.AdminID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, admin)
}
