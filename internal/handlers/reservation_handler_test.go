package handlers

import (
	"net/http"
	"testing"

	"github.com/hotelops/hotel-admin-backend/internal/models"
	"github.com/hotelops/hotel-admin-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminForm(roomType, roomNumber string) models.CreateReservationRequest {
	return models.CreateReservationRequest{
		ClientName: "Mateo Vera",
		Email:      "mateo@mail.com",
		NationalID: "0923456789",
		Phone:      "0987654321",
		CheckIn:    "2026-04-01",
		CheckOut:   "2026-04-05",
		RoomType:   roomType,
		RoomNumber: roomNumber,
		Adults:     2,
		Children:   0,
	}
}

func (s *testServer) createReservation(t *testing.T, roomType, roomNumber string) models.Reservation {
	t.Helper()
	w := s.request(t, http.MethodPost, "/api/v1/reservations", adminForm(roomType, roomNumber), true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reservation models.Reservation
	decode(t, w, &reservation)
	return reservation
}

func TestReservationHandler_CreateAndList(t *testing.T) {
	s := setupTestServer(t)

	reservation := s.createReservation(t, "double", "201")
	assert.Equal(t, models.ReservationStatusPending, reservation.Status)
	assert.Equal(t, models.OriginAdminForm, reservation.Origin)
	assert.Equal(t, 80.0, reservation.PricePerNight)
	assert.Equal(t, models.RoomStatusOccupied, s.rooms(t)["201"].Status)

	w := s.request(t, http.MethodPost, "/api/v1/reservations", adminForm("double", "201"), true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ROOM_UNAVAILABLE", decodeError(t, w).Code)

	w = s.request(t, http.MethodPost, "/api/v1/reservations", adminForm("suite", "201"), true)
	assert.Equal(t, http.StatusConflict, w.Code, "room type must match")

	form := adminForm("double", "202")
	form.CheckOut = form.CheckIn
	w = s.request(t, http.MethodPost, "/api/v1/reservations", form, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "checkOut", decodeError(t, w).Field)
	assert.Equal(t, models.RoomStatusAvailable, s.rooms(t)["202"].Status)

	w = s.request(t, http.MethodGet, "/api/v1/reservations?room_type=double", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var reservations []models.Reservation
	decode(t, w, &reservations)
	require.Len(t, reservations, 1)
	assert.Equal(t, reservation.ID, reservations[0].ID)

	w = s.request(t, http.MethodGet, "/api/v1/reservations?room_type=suite", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &reservations)
	assert.Empty(t, reservations)

	w = s.request(t, http.MethodGet, "/api/v1/reservations?room_type=castle", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.request(t, http.MethodGet, "/api/v1/reservations/"+itoa(reservation.ID), nil, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.request(t, http.MethodGet, "/api/v1/reservations/12345", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReservationHandler_Lifecycle(t *testing.T) {
	s := setupTestServer(t)
	reservation := s.createReservation(t, "individual", "101")
	path := "/api/v1/reservations/" + itoa(reservation.ID)

	w := s.request(t, http.MethodPost, path+"/confirm", nil, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &reservation)
	assert.Equal(t, models.ReservationStatusConfirmed, reservation.Status)

	w = s.request(t, http.MethodPost, path+"/confirm", nil, true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, services.ConflictAlreadyConfirmed, decodeError(t, w).Code)

	clientName := "Someone Else"
	w = s.request(t, http.MethodPut, path, models.EditReservationRequest{ClientName: &clientName}, true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, services.ConflictEditNotPermitted, decodeError(t, w).Code)

	w = s.request(t, http.MethodPost, path+"/release", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &reservation)
	assert.Equal(t, models.ReservationStatusCompleted, reservation.Status)
	assert.Equal(t, models.RoomStatusAvailable, s.rooms(t)["101"].Status)

	w = s.request(t, http.MethodPost, path+"/release", nil, true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, services.ConflictInvalidTransition, decodeError(t, w).Code)

	w = s.request(t, http.MethodDelete, path, nil, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.request(t, http.MethodDelete, path, nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code, "cancelling an unknown reservation is a no-op")
	assert.Empty(t, w.Body.String())
}

func TestReservationHandler_ConfirmFreedRoom(t *testing.T) {
	s := setupTestServer(t)
	reservation := s.createReservation(t, "suite", "301")
	path := "/api/v1/reservations/" + itoa(reservation.ID) + "/confirm"

	// Free the room by hand so the reservation no longer holds it
	room := s.rooms(t)["301"]
	available := models.RoomStatusAvailable
	w := s.request(t, http.MethodPut, "/api/v1/rooms/"+itoa(room.ID), models.UpdateRoomRequest{Status: &available}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.request(t, http.MethodPost, path, nil, true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, services.ConflictConfirmationRequired, decodeError(t, w).Code)

	w = s.request(t, http.MethodPost, path, map[string]string{"occupyAvailableRoom": "yes"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.request(t, http.MethodPost, path, models.ConfirmReservationRequest{OccupyAvailableRoom: true}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.RoomStatusOccupied, s.rooms(t)["301"].Status)
}

func TestReservationHandler_EditAndDeny(t *testing.T) {
	s := setupTestServer(t)
	reservation := s.createReservation(t, "individual", "102")
	path := "/api/v1/reservations/" + itoa(reservation.ID)

	suite := "suite"
	w := s.request(t, http.MethodPut, path, models.EditReservationRequest{RoomType: &suite}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &reservation)
	assert.Equal(t, models.RoomTypeSuite, reservation.RoomType)
	require.NotNil(t, reservation.RoomNumber)
	assert.Equal(t, "301", *reservation.RoomNumber)
	assert.Equal(t, 50.0, reservation.PricePerNight, "booking price survives a room type change")

	rooms := s.rooms(t)
	assert.Equal(t, models.RoomStatusAvailable, rooms["102"].Status)
	assert.Equal(t, models.RoomStatusOccupied, rooms["301"].Status)

	zero := 0
	w = s.request(t, http.MethodPut, path, models.EditReservationRequest{Adults: &zero}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "adults", decodeError(t, w).Field)

	w = s.request(t, http.MethodPost, path+"/deny", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &reservation)
	assert.Equal(t, models.ReservationStatusDenied, reservation.Status)
	assert.Equal(t, models.RoomStatusAvailable, s.rooms(t)["301"].Status)

	w = s.request(t, http.MethodPost, path+"/deny", nil, true)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReservationHandler_VerifyOccupancy(t *testing.T) {
	s := setupTestServer(t)
	s.createReservation(t, "double", "202")

	var report struct {
		Consistent bool                    `json:"consistent"`
		Issues     []models.OccupancyIssue `json:"issues"`
	}

	w := s.request(t, http.MethodGet, "/api/v1/reservations/occupancy", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &report)
	assert.True(t, report.Consistent)

	// Cycling moves the held room to Maintenance, which no reservation explains
	rooms := s.rooms(t)
	w = s.request(t, http.MethodPost, "/api/v1/rooms/"+itoa(rooms["202"].ID)+"/cycle-status", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.request(t, http.MethodGet, "/api/v1/reservations/occupancy", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &report)
	assert.False(t, report.Consistent)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "202", report.Issues[0].RoomNumber)
}

func TestReservationHandler_FormLookups(t *testing.T) {
	s := setupTestServer(t)

	w := s.request(t, http.MethodPost, "/api/v1/clients", models.CreateClientRequest{
		NationalID: "0923456789",
		Name:       "Mateo Vera",
		Email:      "mateo@mail.com",
	}, true)
	require.Equal(t, http.StatusCreated, w.Code)

	var lookups struct {
		Client         *models.Client `json:"client"`
		AvailableRooms []models.Room  `json:"availableRooms"`
	}

	w = s.request(t, http.MethodGet, "/api/v1/reservations/form-lookups?nationalId=0923456789&type=double", nil, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &lookups)
	require.NotNil(t, lookups.Client)
	assert.Equal(t, "Mateo Vera", lookups.Client.Name)
	assert.Len(t, lookups.AvailableRooms, 2)

	lookups.Client = nil
	w = s.request(t, http.MethodGet, "/api/v1/reservations/form-lookups?nationalId=0000000000", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &lookups)
	assert.Nil(t, lookups.Client)

	w = s.request(t, http.MethodGet, "/api/v1/reservations/form-lookups?nationalId=12", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestHandler_Flow(t *testing.T) {
	s := setupTestServer(t)

	submit := models.SubmitRequestRequest{
		ClientName: "Valeria Ruiz",
		Email:      "valeria@mail.com",
		RoomType:   "Double",
		CheckIn:    "2026-05-10",
		CheckOut:   "2026-05-12",
		Adults:     2,
		Children:   1,
	}

	// The public form needs no token
	w := s.request(t, http.MethodPost, "/api/v1/requests", submit, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first models.PendingRequest
	decode(t, w, &first)
	assert.Equal(t, "double", first.RoomTypeRequested)
	assert.Equal(t, models.RequestStatusPending, first.Status)

	w = s.request(t, http.MethodPost, "/api/v1/requests", submit, false)
	require.Equal(t, http.StatusCreated, w.Code)
	var second models.PendingRequest
	decode(t, w, &second)

	bad := submit
	bad.Email = "not-an-email"
	w = s.request(t, http.MethodPost, "/api/v1/requests", bad, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.request(t, http.MethodGet, "/api/v1/requests", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.request(t, http.MethodGet, "/api/v1/requests", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var open []models.PendingRequest
	decode(t, w, &open)
	assert.Len(t, open, 2)

	w = s.request(t, http.MethodPost, "/api/v1/requests/"+itoa(first.ID)+"/confirm", nil, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reservation models.Reservation
	decode(t, w, &reservation)
	assert.Equal(t, models.ReservationStatusConfirmed, reservation.Status)
	assert.Equal(t, models.OriginWebRequest, reservation.Origin)
	require.NotNil(t, reservation.RoomNumber)
	assert.Equal(t, models.RoomStatusOccupied, s.rooms(t)[*reservation.RoomNumber].Status)

	w = s.request(t, http.MethodPost, "/api/v1/requests/"+itoa(first.ID)+"/confirm", nil, true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, services.ConflictRequestClosed, decodeError(t, w).Code)

	w = s.request(t, http.MethodPost, "/api/v1/requests/"+itoa(first.ID)+"/reject", nil, true)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.request(t, http.MethodPost, "/api/v1/requests/"+itoa(second.ID)+"/reject", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var rejected models.PendingRequest
	decode(t, w, &rejected)
	assert.Equal(t, models.RequestStatusCancelled, rejected.Status)

	w = s.request(t, http.MethodGet, "/api/v1/requests", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &open)
	assert.Empty(t, open)

	w = s.request(t, http.MethodGet, "/api/v1/requests?all=true", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.PendingRequest
	decode(t, w, &all)
	assert.Len(t, all, 2)

	w = s.request(t, http.MethodPost, "/api/v1/requests/404/confirm", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestHandler_NoRoomLeft(t *testing.T) {
	s := setupTestServer(t)
	s.createReservation(t, "suite", "301")
	s.createReservation(t, "suite", "302")

	w := s.request(t, http.MethodPost, "/api/v1/requests", models.SubmitRequestRequest{
		ClientName: "Valeria Ruiz",
		Email:      "valeria@mail.com",
		RoomType:   "suite",
		CheckIn:    "2026-05-10",
		CheckOut:   "2026-05-12",
		Adults:     1,
	}, false)
	require.Equal(t, http.StatusCreated, w.Code)
	var request models.PendingRequest
	decode(t, w, &request)

	w = s.request(t, http.MethodPost, "/api/v1/requests/"+itoa(request.ID)+"/confirm", nil, true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ROOM_UNAVAILABLE", decodeError(t, w).Code)

	w = s.request(t, http.MethodGet, "/api/v1/requests", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var open []models.PendingRequest
	decode(t, w, &open)
	assert.Len(t, open, 1, "request stays open")
}
