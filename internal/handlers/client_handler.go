package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hotelops/hotel-admin-backend/internal/models"
	"github.com/hotelops/hotel-admin-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// ClientHandler handles client registry requests
type ClientHandler struct {
	clientService *services.ClientService
	logger        *logrus.Logger
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *services.ClientService, logger *logrus.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// ListClients lists every client, or those matching q
// @Summary List clients
// @Tags Clients
// @Produce json
// @Param q query string false "Name or national id fragment"
// @Success 200 {array} models.Client
// @Router /clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	var (
		clients []models.Client
		err     error
	)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		clients, err = h.clientService.Search(c.Request.Context(), q)
	} else {
		clients, err = h.clientService.List(c.Request.Context())
	}
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, clients)
}

// CreateClient registers a client
// @Summary Register client
// @Tags Clients
// @Accept json
// @Produce json
// @Param client body models.CreateClientRequest true "Client"
// @Success 201 {object} models.Client
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req models.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, client)
}

// GetByNationalID looks up a client by national id
func (h *ClientHandler) GetByNationalID(c *gin.Context) {
	client, err := h.clientService.FindByNationalID(c.Request.Context(), c.Param("nationalId"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateClient applies a partial edit
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	client, found, err := h.clientService.Update(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	if !found {
		// nothing matched; updates of unknown ids are skipped
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, client)
}

// DeleteClient removes a client
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	removed, err := h.clientService.Delete(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	if !removed {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Client deleted"})
}
