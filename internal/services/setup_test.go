package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/hotelops/hotel-admin-backend/internal/database"
	"github.com/hotelops/hotel-admin-backend/internal/events"
	"github.com/hotelops/hotel-admin-backend/internal/models"
	"github.com/hotelops/hotel-admin-backend/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Envelope
}

func (p *recordingPublisher) Publish(ev events.Envelope) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func (p *recordingPublisher) last() events.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

type hotelFixture struct {
	store     *storage.MemoryStore
	hotel     *database.HotelStore
	publisher *recordingPublisher
	clients   *ClientService
	rooms     *RoomService
	coord     *ReservationCoordinator
}

func setupHotelTest(t *testing.T) *hotelFixture {
	t.Helper()

	logger := newTestLogger()
	store := storage.NewMemoryStore()
	hotel := database.NewHotelStore(store, logger)
	publisher := &recordingPublisher{}

	clients := NewClientService(hotel, publisher, logger)
	clients.now = fixedClock
	rooms := NewRoomService(hotel, publisher, logger)
	rooms.now = fixedClock
	coord := NewReservationCoordinator(hotel, clients, publisher, logger)
	coord.now = fixedClock

	return &hotelFixture{
		store:     store,
		hotel:     hotel,
		publisher: publisher,
		clients:   clients,
		rooms:     rooms,
		coord:     coord,
	}
}

// put writes a collection straight into the backend
func (f *hotelFixture) put(t *testing.T, key string, value interface{}) {
	t.Helper()
	data, err := json.Marshal(value)
	require.NoError(t, err)
	require.NoError(t, f.store.Set(context.Background(), key, data))
}

func (f *hotelFixture) seedRooms(t *testing.T) {
	t.Helper()
	f.put(t, storage.KeyRooms, models.DefaultRooms())
}

// raw returns the stored bytes of every hotel collection
func (f *hotelFixture) raw(t *testing.T) map[string]string {
	t.Helper()
	out := make(map[string]string)
	for _, key := range []string{storage.KeyClients, storage.KeyRooms, storage.KeyReservations, storage.KeyRequests} {
		value, err := f.store.Get(context.Background(), key)
		if errors.Is(err, storage.ErrNotFound) {
			out[key] = "<absent>"
			continue
		}
		require.NoError(t, err)
		out[key] = string(value)
	}
	return out
}

func (f *hotelFixture) room(t *testing.T, number string) models.Room {
	t.Helper()
	rooms, err := f.hotel.Rooms.List(context.Background())
	require.NoError(t, err)
	for _, r := range rooms {
		if r.Number == number {
			return r
		}
	}
	t.Fatalf("room %s not found", number)
	return models.Room{}
}

func (f *hotelFixture) reservation(t *testing.T, id int64) models.Reservation {
	t.Helper()
	r, err := f.hotel.Reservations.GetByID(context.Background(), id)
	require.NoError(t, err)
	return *r
}

// assertOccupancyConsistent checks that every room is Occupied exactly
// when one active reservation references it (rooms under Maintenance
// with no holder are fine)
func (f *hotelFixture) assertOccupancyConsistent(t *testing.T) {
	t.Helper()
	issues, err := f.coord.VerifyOccupancy(context.Background())
	require.NoError(t, err)
	require.Empty(t, issues)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
