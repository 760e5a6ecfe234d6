package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hotelops/hotel-admin-backend/internal/models"
	"github.com/hotelops/hotel-admin-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// RoomHandler handles room registry requests
type RoomHandler struct {
	roomService *services.RoomService
	logger      *logrus.Logger
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomService *services.RoomService, logger *logrus.Logger) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		logger:      logger,
	}
}

// ListRooms lists rooms, narrowed by the optional type, status and
// max_price query parameters
// @Summary List rooms
// @Tags Rooms
// @Produce json
// @Param type query string false "Room type"
// @Param status query string false "Room status"
// @Param max_price query number false "Maximum nightly price"
// @Success 200 {array} models.Room
// @Router /rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	filter := models.RoomFilter{Status: models.RoomStatus(c.Query("status"))}
	if raw := c.Query("type"); raw != "" {
		t, ok := models.ParseRoomType(raw)
		if !ok {
			respondError(c, http.StatusBadRequest, "bad_request", "INVALID_QUERY", "unknown room type "+strconv.Quote(raw))
			return
		}
		filter.Type = t
	}
	if raw := c.Query("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil || maxPrice < 0 {
			respondError(c, http.StatusBadRequest, "bad_request", "INVALID_QUERY", "max_price must be a non-negative number")
			return
		}
		filter.MaxPrice = maxPrice
	}

	rooms, err := h.roomService.Filter(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// AvailableRooms lists available rooms of one type
func (h *RoomHandler) AvailableRooms(c *gin.Context) {
	rooms, err := h.roomService.AvailableForType(c.Request.Context(), c.Query("type"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// CreateRoom adds a room
// @Summary Create room
// @Tags Rooms
// @Accept json
// @Produce json
// @Param room body models.CreateRoomRequest true "Room"
// @Success 201 {object} models.Room
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req models.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	room, err := h.roomService.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

// UpdateRoom applies a partial edit
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	room, found, err := h.roomService.Update(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	if !found {
		// nothing matched; updates of unknown ids are skipped
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, room)
}

// DeleteRoom removes a room
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	removed, err := h.roomService.Delete(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	if !removed {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Room deleted"})
}

// CycleStatus advances the room to its next manual status
func (h *RoomHandler) CycleStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	room, err := h.roomService.CycleStatus(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, room)
}
