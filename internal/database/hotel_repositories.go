package database

import (
	"context"
	"fmt"

	"github.com/hotelops/hotel-admin-backend/internal/models"
	"github.com/hotelops/hotel-admin-backend/internal/storage"
)

// ClientRepository handles the clients collection
type ClientRepository struct {
	jsonCollection[models.Client]
}

// NewClientRepository creates a new client repository
func NewClientRepository(store storage.Store) *ClientRepository {
	return &ClientRepository{jsonCollection[models.Client]{store: store, key: storage.KeyClients}}
}

// GetByNationalID finds the client registered under nationalID
func (r *ClientRepository) GetByNationalID(ctx context.Context, nationalID string) (*models.Client, error) {
	clients, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if clients[i].NationalID == nationalID {
			return &clients[i], nil
		}
	}
	return nil, fmt.Errorf("client %s: %w", nationalID, ErrRecordNotFound)
}

// RoomRepository handles the rooms collection
type RoomRepository struct {
	jsonCollection[models.Room]
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(store storage.Store) *RoomRepository {
	return &RoomRepository{jsonCollection[models.Room]{store: store, key: storage.KeyRooms}}
}

// ListAvailableByType returns Available rooms of the type in stored order
func (r *RoomRepository) ListAvailableByType(ctx context.Context, roomType models.RoomType) ([]models.Room, error) {
	rooms, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Type == roomType && room.IsAvailable() {
			available = append(available, room)
		}
	}
	return available, nil
}

// ReservationRepository handles the reservationsAdmin collection
type ReservationRepository struct {
	jsonCollection[models.Reservation]
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(store storage.Store) *ReservationRepository {
	return &ReservationRepository{jsonCollection[models.Reservation]{store: store, key: storage.KeyReservations}}
}

// GetByID finds a reservation by id
func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	reservations, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range reservations {
		if reservations[i].ID == id {
			return &reservations[i], nil
		}
	}
	return nil, fmt.Errorf("reservation %d: %w", id, ErrRecordNotFound)
}

// PendingRequestRepository handles the requests collection
type PendingRequestRepository struct {
	jsonCollection[models.PendingRequest]
}

// NewPendingRequestRepository creates a new pending request repository
func NewPendingRequestRepository(store storage.Store) *PendingRequestRepository {
	return &PendingRequestRepository{jsonCollection[models.PendingRequest]{store: store, key: storage.KeyRequests}}
}

// ListOpen returns requests that are neither Confirmed nor Cancelled
func (r *PendingRequestRepository) ListOpen(ctx context.Context) ([]models.PendingRequest, error) {
	requests, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	open := make([]models.PendingRequest, 0, len(requests))
	for _, req := range requests {
		if req.IsOpen() {
			open = append(open, req)
		}
	}
	return open, nil
}
