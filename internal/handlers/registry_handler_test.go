package handlers

import (
	"net/http"
	"testing"

	"github.com/hotelops/hotel-admin-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientHandler_Lifecycle(t *testing.T) {
	s := setupTestServer(t)

	create := models.CreateClientRequest{
		NationalID: "0912345678",
		Name:       "Lucia Paredes",
		Email:      "lucia@mail.com",
		Phone:      "0991234567",
	}

	w := s.request(t, http.MethodPost, "/api/v1/clients", create, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Client
	decode(t, w, &created)
	assert.Equal(t, "Lucia Paredes", created.Name)
	assert.NotZero(t, created.ID)

	w = s.request(t, http.MethodPost, "/api/v1/clients", create, true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_KEY", decodeError(t, w).Code)

	w = s.request(t, http.MethodGet, "/api/v1/clients?q=lucia", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var found []models.Client
	decode(t, w, &found)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)

	w = s.request(t, http.MethodGet, "/api/v1/clients/national-id/0912345678", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.request(t, http.MethodGet, "/api/v1/clients/national-id/0000000000", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	newName := "Lucia P. Mora"
	w = s.request(t, http.MethodPut, "/api/v1/clients/"+itoa(created.ID), models.UpdateClientRequest{Name: &newName}, true)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Client
	decode(t, w, &updated)
	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, create.NationalID, updated.NationalID)

	w = s.request(t, http.MethodDelete, "/api/v1/clients/"+itoa(created.ID), nil, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.request(t, http.MethodDelete, "/api/v1/clients/"+itoa(created.ID), nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code, "deleting an unknown client is a no-op")
	assert.Empty(t, w.Body.String())

	w = s.request(t, http.MethodPut, "/api/v1/clients/"+itoa(created.ID), models.UpdateClientRequest{Name: &newName}, true)
	assert.Equal(t, http.StatusNoContent, w.Code, "updating an unknown client is skipped")

	w = s.request(t, http.MethodGet, "/api/v1/clients", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.Client
	decode(t, w, &all)
	assert.Empty(t, all)
}

func TestClientHandler_Validation(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		name      string
		req       models.CreateClientRequest
		wantField string
	}{
		{"Short national id", models.CreateClientRequest{NationalID: "123", Name: "A", Email: "a@b.co"}, "nationalId"},
		{"Missing name", models.CreateClientRequest{NationalID: "0912345678", Email: "a@b.co"}, "name"},
		{"Bad email", models.CreateClientRequest{NationalID: "0912345678", Name: "A", Email: "nope"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.request(t, http.MethodPost, "/api/v1/clients", tt.req, true)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, "VALIDATION_ERROR", body.Code)
			assert.Equal(t, tt.wantField, body.Field)
		})
	}

	w := s.request(t, http.MethodPut, "/api/v1/clients/abc", models.UpdateClientRequest{}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decodeError(t, w).Code)
}

func TestClientHandler_RequiresAuth(t *testing.T) {
	s := setupTestServer(t)

	w := s.request(t, http.MethodGet, "/api/v1/clients", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoomHandler_ListAndFilter(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantCount int
	}{
		{"All rooms", "", http.StatusOK, 6},
		{"By type", "?type=double", http.StatusOK, 2},
		{"By type any case", "?type=SUITE", http.StatusOK, 2},
		{"By status", "?status=available", http.StatusOK, 6},
		{"By price", "?max_price=80", http.StatusOK, 4},
		{"Combined", "?type=individual&max_price=40", http.StatusOK, 0},
		{"Bad type", "?type=penthouse", http.StatusBadRequest, 0},
		{"Bad price", "?max_price=cheap", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.request(t, http.MethodGet, "/api/v1/rooms"+tt.query, nil, true)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantCode != http.StatusOK {
				return
			}
			var rooms []models.Room
			decode(t, w, &rooms)
			assert.Len(t, rooms, tt.wantCount)
		})
	}
}

func TestRoomHandler_Available(t *testing.T) {
	s := setupTestServer(t)

	w := s.request(t, http.MethodGet, "/api/v1/rooms/available?type=suite", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var rooms []models.Room
	decode(t, w, &rooms)
	require.Len(t, rooms, 2)
	for _, r := range rooms {
		assert.Equal(t, models.RoomTypeSuite, r.Type)
	}

	w = s.request(t, http.MethodGet, "/api/v1/rooms/available", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "type", decodeError(t, w).Field)
}

func TestRoomHandler_Lifecycle(t *testing.T) {
	s := setupTestServer(t)

	w := s.request(t, http.MethodPost, "/api/v1/rooms", models.CreateRoomRequest{
		Number: "401",
		Type:   models.RoomTypeSuite,
		Price:  220,
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var room models.Room
	decode(t, w, &room)
	assert.Equal(t, models.RoomStatusAvailable, room.Status)

	w = s.request(t, http.MethodPost, "/api/v1/rooms", models.CreateRoomRequest{
		Number: "401",
		Type:   models.RoomTypeDouble,
		Price:  90,
	}, true)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.request(t, http.MethodPost, "/api/v1/rooms/"+itoa(room.ID)+"/cycle-status", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &room)
	assert.Equal(t, models.RoomStatusOccupied, room.Status)

	price := 199.5
	w = s.request(t, http.MethodPut, "/api/v1/rooms/"+itoa(room.ID), models.UpdateRoomRequest{Price: &price}, true)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &room)
	assert.Equal(t, 199.5, room.Price)

	w = s.request(t, http.MethodDelete, "/api/v1/rooms/"+itoa(room.ID), nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, s.rooms(t), "401")

	w = s.request(t, http.MethodPut, "/api/v1/rooms/"+itoa(room.ID), models.UpdateRoomRequest{Price: &price}, true)
	assert.Equal(t, http.StatusNoContent, w.Code, "updating an unknown room is skipped")

	w = s.request(t, http.MethodDelete, "/api/v1/rooms/"+itoa(room.ID), nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.request(t, http.MethodPost, "/api/v1/rooms/999/cycle-status", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
