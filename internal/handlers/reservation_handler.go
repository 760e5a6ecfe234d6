package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hotelops/hotel-admin-backend/internal/models"
	"github.com/hotelops/hotel-admin-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// ReservationHandler handles reservation and pending request endpoints
type ReservationHandler struct {
	coordinator *services.ReservationCoordinator
	logger      *logrus.Logger
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(coordinator *services.ReservationCoordinator, logger *logrus.Logger) *ReservationHandler {
	return &ReservationHandler{
		coordinator: coordinator,
		logger:      logger,
	}
}

// ListReservations lists reservations, optionally of one room type
// @Summary List reservations
// @Tags Reservations
// @Produce json
// @Param room_type query string false "Room type"
// @Success 200 {array} models.Reservation
// @Failure 400 {object} ErrorResponse
// @Router /reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	reservations, err := h.coordinator.ListReservations(c.Request.Context(), c.Query("room_type"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// GetReservation returns one reservation
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	reservation, err := h.coordinator.GetReservation(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// CreateReservation registers a reservation from the admin form
// @Summary Create reservation
// @Description Create a Pending reservation and occupy the chosen room
// @Tags Reservations
// @Accept json
// @Produce json
// @Param reservation body models.CreateReservationRequest true "Reservation"
// @Success 201 {object} models.Reservation
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	reservation, err := h.coordinator.CreateFromAdminForm(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

// EditReservation applies a partial edit
func (h *ReservationHandler) EditReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.EditReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	reservation, err := h.coordinator.EditReservation(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// CancelReservation removes a reservation and frees its room
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	removed, err := h.coordinator.CancelReservation(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	if !removed {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Reservation cancelled"})
}

// ConfirmReservation moves a Pending reservation to Confirmed. An empty
// body is accepted and means the room is not re-occupied.
// @Summary Confirm reservation
// @Tags Reservations
// @Accept json
// @Produce json
// @Param id path int true "Reservation ID"
// @Param body body models.ConfirmReservationRequest false "Confirmation options"
// @Success 200 {object} models.Reservation
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /reservations/{id}/confirm [post]
func (h *ReservationHandler) ConfirmReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.ConfirmReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, err)
		return
	}

	reservation, err := h.coordinator.ConfirmReservation(c.Request.Context(), id, req.OccupyAvailableRoom)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// ReleaseRoom completes a stay and frees its room
func (h *ReservationHandler) ReleaseRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	reservation, err := h.coordinator.ReleaseRoom(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// DenyReservation denies a Pending reservation
func (h *ReservationHandler) DenyReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	reservation, err := h.coordinator.DenyReservation(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// FormLookups backs the admin form: the client prefill for nationalId and
// the rooms that can be picked for type
func (h *ReservationHandler) FormLookups(c *gin.Context) {
	ctx := c.Request.Context()
	response := gin.H{}

	if nid := c.Query("nationalId"); nid != "" {
		client, err := h.coordinator.LookupClient(ctx, nid)
		var notFound *services.NotFoundError
		switch {
		case errors.As(err, &notFound):
			response["client"] = nil
		case err != nil:
			writeServiceError(c, h.logger, err)
			return
		default:
			response["client"] = client
		}
	}

	if roomType := c.Query("type"); roomType != "" {
		rooms, err := h.coordinator.AvailableRoomsForType(ctx, roomType)
		if err != nil {
			writeServiceError(c, h.logger, err)
			return
		}
		response["availableRooms"] = rooms
	}

	c.JSON(http.StatusOK, response)
}

// VerifyOccupancy reports rooms whose status disagrees with reservations
func (h *ReservationHandler) VerifyOccupancy(c *gin.Context) {
	issues, err := h.coordinator.VerifyOccupancy(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"consistent": len(issues) == 0,
		"issues":     issues,
	})
}

// SubmitRequest accepts a reservation request from the public form
// @Summary Submit reservation request
// @Tags Requests
// @Accept json
// @Produce json
// @Param request body models.SubmitRequestRequest true "Request"
// @Success 201 {object} models.PendingRequest
// @Failure 400 {object} ErrorResponse
// @Router /requests [post]
func (h *ReservationHandler) SubmitRequest(c *gin.Context) {
	var req models.SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	request, err := h.coordinator.SubmitRequest(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// ListRequests lists open requests, or every request with ?all=true
func (h *ReservationHandler) ListRequests(c *gin.Context) {
	var (
		requests []models.PendingRequest
		err      error
	)
	if all, _ := strconv.ParseBool(c.Query("all")); all {
		requests, err = h.coordinator.ListAllRequests(c.Request.Context())
	} else {
		requests, err = h.coordinator.ListPendingRequests(c.Request.Context())
	}
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// ConfirmRequest turns an open request into a Confirmed reservation
func (h *ReservationHandler) ConfirmRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	reservation, err := h.coordinator.ConfirmFromPendingRequest(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

// RejectRequest cancels an open request
func (h *ReservationHandler) RejectRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	request, err := h.coordinator.RejectPendingRequest(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, request)
}
