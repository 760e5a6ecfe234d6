package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hotelops/hotel-admin-backend/internal/storage"
	"github.com/sirupsen/logrus"
)

// commitOrder fixes the order in which staged keys are written
var commitOrder = []string{
	storage.KeyReservations,
	storage.KeyRooms,
	storage.KeyRequests,
	storage.KeyClients,
}

// HotelStore groups the typed repositories over one storage backend and
// serializes read-modify-write cycles across them
type HotelStore struct {
	store  storage.Store
	logger *logrus.Logger
	mu     sync.Mutex

	Clients      *ClientRepository
	Rooms        *RoomRepository
	Reservations *ReservationRepository
	Requests     *PendingRequestRepository
	Admins       *AdminUserRepository
	Sessions     *SessionRepository
	Attempts     *LoginAttemptRepository
}

// HotelTx exposes the repositories bound to one unit of work
type HotelTx struct {
	Clients      *ClientRepository
	Rooms        *RoomRepository
	Reservations *ReservationRepository
	Requests     *PendingRequestRepository
	Admins       *AdminUserRepository
	Sessions     *SessionRepository
	Attempts     *LoginAttemptRepository

	buffer *txBuffer
}

// NewHotelStore creates repositories over store
func NewHotelStore(store storage.Store, logger *logrus.Logger) *HotelStore {
	return &HotelStore{
		store:        store,
		logger:       logger,
		Clients:      NewClientRepository(store),
		Rooms:        NewRoomRepository(store),
		Reservations: NewReservationRepository(store),
		Requests:     NewPendingRequestRepository(store),
		Admins:       NewAdminUserRepository(store),
		Sessions:     NewSessionRepository(store),
		Attempts:     NewLoginAttemptRepository(store),
	}
}

// Store returns the underlying storage backend
func (h *HotelStore) Store() storage.Store {
	return h.store
}

// WithTx runs fn with repositories that stage their writes. When fn
// succeeds the staged keys are written and their names returned; when
// fn fails nothing is written. A failed write restores the keys already
// written in this commit.
func (h *HotelStore) WithTx(ctx context.Context, fn func(tx *HotelTx) error) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	buffer := newTxBuffer(h.store)
	tx := &HotelTx{
		Clients:      NewClientRepository(buffer),
		Rooms:        NewRoomRepository(buffer),
		Reservations: NewReservationRepository(buffer),
		Requests:     NewPendingRequestRepository(buffer),
		Admins:       NewAdminUserRepository(buffer),
		Sessions:     NewSessionRepository(buffer),
		Attempts:     NewLoginAttemptRepository(buffer),
		buffer:       buffer,
	}

	if err := fn(tx); err != nil {
		return nil, err
	}

	return buffer.commit(ctx, h.logger)
}

type stagedWrite struct {
	value   []byte
	deleted bool
}

type snapshot struct {
	value  []byte
	exists bool
}

// txBuffer is a storage.Store that reads through to base and keeps
// writes in memory until commit
type txBuffer struct {
	base      storage.Store
	snapshots map[string]snapshot
	writes    map[string]stagedWrite
	order     []string
}

func newTxBuffer(base storage.Store) *txBuffer {
	return &txBuffer{
		base:      base,
		snapshots: make(map[string]snapshot),
		writes:    make(map[string]stagedWrite),
	}
}

func (b *txBuffer) Get(ctx context.Context, key string) ([]byte, error) {
	if w, ok := b.writes[key]; ok {
		if w.deleted {
			return nil, storage.ErrNotFound
		}
		return append([]byte(nil), w.value...), nil
	}
	snap, err := b.snapshot(ctx, key)
	if err != nil {
		return nil, err
	}
	if !snap.exists {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), snap.value...), nil
}

func (b *txBuffer) Set(_ context.Context, key string, value []byte) error {
	b.stage(key, stagedWrite{value: append([]byte(nil), value...)})
	return nil
}

func (b *txBuffer) Delete(_ context.Context, key string) error {
	b.stage(key, stagedWrite{deleted: true})
	return nil
}

func (b *txBuffer) Close() error {
	return nil
}

func (b *txBuffer) stage(key string, w stagedWrite) {
	if _, ok := b.writes[key]; !ok {
		b.order = append(b.order, key)
	}
	b.writes[key] = w
}

// snapshot reads key from base once and remembers it for rollback
func (b *txBuffer) snapshot(ctx context.Context, key string) (snapshot, error) {
	if snap, ok := b.snapshots[key]; ok {
		return snap, nil
	}
	value, err := b.base.Get(ctx, key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		b.snapshots[key] = snapshot{}
	case err != nil:
		return snapshot{}, err
	default:
		b.snapshots[key] = snapshot{value: value, exists: true}
	}
	return b.snapshots[key], nil
}

func (b *txBuffer) keysInCommitOrder() []string {
	keys := make([]string, 0, len(b.order))
	for _, key := range commitOrder {
		if _, ok := b.writes[key]; ok {
			keys = append(keys, key)
		}
	}
	for _, key := range b.order {
		known := false
		for _, k := range commitOrder {
			if k == key {
				known = true
				break
			}
		}
		if !known {
			keys = append(keys, key)
		}
	}
	return keys
}

func (b *txBuffer) commit(ctx context.Context, logger *logrus.Logger) ([]string, error) {
	keys := b.keysInCommitOrder()

	// Snapshot every key before the first write so it can be restored
	for _, key := range keys {
		if _, err := b.snapshot(ctx, key); err != nil {
			return nil, fmt.Errorf("failed to read %s before commit: %w", key, err)
		}
	}

	for i, key := range keys {
		w := b.writes[key]
		var err error
		if w.deleted {
			err = b.base.Delete(ctx, key)
		} else {
			err = b.base.Set(ctx, key, w.value)
		}
		if err != nil {
			b.rollback(ctx, keys[:i], logger)
			return nil, fmt.Errorf("failed to commit %s: %w", key, err)
		}
	}

	return keys, nil
}

func (b *txBuffer) rollback(ctx context.Context, written []string, logger *logrus.Logger) {
	for _, key := range written {
		snap := b.snapshots[key]
		var err error
		if snap.exists {
			err = b.base.Set(ctx, key, snap.value)
		} else {
			err = b.base.Delete(ctx, key)
		}
		if err != nil {
			logger.WithFields(logrus.Fields{
				"key":   key,
				"error": err.Error(),
			}).Error("Failed to restore key after partial commit")
		}
	}
}
