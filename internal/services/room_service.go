package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hotelops/hotel-admin-backend/internal/database"
	"github.com/hotelops/hotel-admin-backend/internal/events"
	"github.com/hotelops/hotel-admin-backend/internal/models"
	"github.com/hotelops/hotel-admin-backend/pkg/validator"
	"github.com/sirupsen/logrus"
)

// RoomService owns the room registry. Status edits made here are manual
// overrides and do not touch reservations.
type RoomService struct {
	hotel     *database.HotelStore
	publisher events.Publisher
	logger    *logrus.Logger
	now       func() time.Time
}

// NewRoomService creates a new room service
func NewRoomService(hotel *database.HotelStore, publisher events.Publisher, logger *logrus.Logger) *RoomService {
	return &RoomService{
		hotel:     hotel,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns every room in stored order
func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	return s.hotel.Rooms.List(ctx)
}

// Filter returns rooms matching every set criterion
func (s *RoomService) Filter(ctx context.Context, filter models.RoomFilter) ([]models.Room, error) {
	rooms, err := s.hotel.Rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if filter.Matches(room) {
			matches = append(matches, room)
		}
	}
	return matches, nil
}

// AvailableForType returns the Available rooms of a type
func (s *RoomService) AvailableForType(ctx context.Context, roomType string) ([]models.Room, error) {
	t, ok := models.ParseRoomType(roomType)
	if !ok {
		return nil, invalid("type", "unknown room type %q", roomType)
	}
	return s.hotel.Rooms.ListAvailableByType(ctx, t)
}

// EnsureSeeded writes the default inventory when the collection is empty.
// A value that cannot be decoded is replaced by the emergency inventory.
func (s *RoomService) EnsureSeeded(ctx context.Context) error {
	var seeded []models.Room
	keys, err := s.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		rooms, err := tx.Rooms.List(ctx)
		if errors.Is(err, database.ErrMalformedCollection) {
			s.logger.WithError(err).Warn("Room collection unreadable, storing emergency inventory")
			seeded = models.EmergencyRooms(s.now().UnixMilli())
			return tx.Rooms.Save(ctx, seeded)
		}
		if err != nil {
			return err
		}
		if len(rooms) > 0 {
			return nil
		}
		seeded = models.DefaultRooms()
		return tx.Rooms.Save(ctx, seeded)
	})
	if err != nil {
		return fmt.Errorf("failed to seed rooms: %w", err)
	}
	publishCommit(s.publisher, keys)

	if len(seeded) > 0 {
		s.logger.WithField("count", len(seeded)).Info("Room collection seeded")
	}
	return nil
}

// Create adds a room
func (s *RoomService) Create(ctx context.Context, req models.CreateRoomRequest) (*models.Room, error) {
	number, err := validator.RoomNumber(req.Number)
	if err != nil {
		return nil, &ValidationError{Field: "number", Message: err.Error()}
	}
	roomType, ok := models.ParseRoomType(string(req.Type))
	if !ok {
		return nil, invalid("type", "unknown room type %q", req.Type)
	}
	if req.Price <= 0 {
		return nil, invalid("price", "price must be greater than zero")
	}
	status := models.RoomStatusAvailable
	if req.Status != "" {
		parsed, ok := models.ParseRoomStatus(string(req.Status))
		if !ok {
			return nil, invalid("status", "unknown room status %q", req.Status)
		}
		status = parsed
	}

	var created models.Room
	keys, err := s.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		rooms, err := tx.Rooms.List(ctx)
		if err != nil {
			return err
		}

		taken := make(map[int64]bool, len(rooms))
		for _, r := range rooms {
			if r.Number == number {
				return &DuplicateKeyError{Entity: "room", Field: "number", Value: number}
			}
			taken[r.ID] = true
		}

		created = models.Room{
			ID:     newRecordID(s.now(), func(id int64) bool { return taken[id] }),
			Number: number,
			Type:   roomType,
			Price:  req.Price,
			Status: status,
		}
		return tx.Rooms.Save(ctx, append(rooms, created))
	})
	if err != nil {
		return nil, err
	}
	publishCommit(s.publisher, keys)

	s.logger.WithFields(logrus.Fields{
		"room_id": created.ID,
		"number":  created.Number,
		"type":    created.Type,
	}).Info("Room created")

	return &created, nil
}

// Update applies a partial edit. It reports false without error when no
// room has the id.
func (s *RoomService) Update(ctx context.Context, id int64, req models.UpdateRoomRequest) (*models.Room, bool, error) {
	if req.Number != nil {
		number, err := validator.RoomNumber(*req.Number)
		if err != nil {
			return nil, false, &ValidationError{Field: "number", Message: err.Error()}
		}
		req.Number = &number
	}
	if req.Type != nil {
		t, ok := models.ParseRoomType(string(*req.Type))
		if !ok {
			return nil, false, invalid("type", "unknown room type %q", *req.Type)
		}
		req.Type = &t
	}
	if req.Price != nil && *req.Price <= 0 {
		return nil, false, invalid("price", "price must be greater than zero")
	}
	if req.Status != nil {
		st, ok := models.ParseRoomStatus(string(*req.Status))
		if !ok {
			return nil, false, invalid("status", "unknown room status %q", *req.Status)
		}
		req.Status = &st
	}

	var updated *models.Room
	keys, err := s.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		rooms, err := tx.Rooms.List(ctx)
		if err != nil {
			return err
		}

		idx := -1
		for i := range rooms {
			if rooms[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil
		}

		if req.Number != nil {
			for i, r := range rooms {
				if i != idx && r.Number == *req.Number {
					return &DuplicateKeyError{Entity: "room", Field: "number", Value: *req.Number}
				}
			}
			rooms[idx].Number = *req.Number
		}
		if req.Type != nil {
			rooms[idx].Type = *req.Type
		}
		if req.Price != nil {
			rooms[idx].Price = *req.Price
		}
		if req.Status != nil {
			rooms[idx].Status = *req.Status
		}

		copied := rooms[idx]
		updated = &copied
		return tx.Rooms.Save(ctx, rooms)
	})
	if err != nil {
		return nil, false, err
	}
	publishCommit(s.publisher, keys)

	return updated, updated != nil, nil
}

// Delete removes a room. Reservations referencing its number keep the
// dangling reference.
func (s *RoomService) Delete(ctx context.Context, id int64) (bool, error) {
	removed := false
	keys, err := s.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		rooms, err := tx.Rooms.List(ctx)
		if err != nil {
			return err
		}
		kept := make([]models.Room, 0, len(rooms))
		for _, r := range rooms {
			if r.ID == id {
				removed = true
				continue
			}
			kept = append(kept, r)
		}
		if !removed {
			return nil
		}
		return tx.Rooms.Save(ctx, kept)
	})
	if err != nil {
		return false, err
	}
	publishCommit(s.publisher, keys)

	if removed {
		s.logger.WithField("room_id", id).Info("Room deleted")
	}
	return removed, nil
}

// CycleStatus advances Available -> Occupied -> Maintenance -> Available
func (s *RoomService) CycleStatus(ctx context.Context, id int64) (*models.Room, error) {
	var updated models.Room
	keys, err := s.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		rooms, err := tx.Rooms.List(ctx)
		if err != nil {
			return err
		}
		for i := range rooms {
			if rooms[i].ID == id {
				rooms[i].Status = rooms[i].Status.Next()
				updated = rooms[i]
				return tx.Rooms.Save(ctx, rooms)
			}
		}
		return &NotFoundError{Entity: "room", Key: strconv.FormatInt(id, 10)}
	})
	if err != nil {
		return nil, err
	}
	publishCommit(s.publisher, keys)

	s.logger.WithFields(logrus.Fields{
		"room_id": updated.ID,
		"status":  updated.Status,
	}).Info("Room status cycled")

	return &updated, nil
}
