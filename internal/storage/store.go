package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Well-known keys. Each holds one JSON array, except KeyAuth.
const (
	KeyClients      = "clients"
	KeyRooms        = "rooms"
	KeyReservations = "reservationsAdmin"
	KeyRequests     = "requests"
	KeyAuth         = "auth"
	KeyAdmins       = "admins"
	KeySessions     = "sessions"
	KeyLoginAttempt = "loginAttempts"
)

// AuthFlagValue is stored under KeyAuth while an admin session is live
const AuthFlagValue = "true"

// ErrNotFound is returned by Get when the key is absent
var ErrNotFound = errors.New("storage key not found")

// Store is a string-keyed store of opaque values
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Pinger is implemented by stores with a cheap liveness check
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks that store is reachable. Stores without a native check
// are checked with a read of KeyAuth.
func Ping(ctx context.Context, store Store) error {
	if p, ok := store.(Pinger); ok {
		return p.Ping(ctx)
	}
	if _, err := store.Get(ctx, KeyAuth); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// Watcher is implemented by stores shared between processes.
// Watch delivers changes written by other instances only; the
// channel closes when ctx is done.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Change, error)
}

// Change describes a write to a key
type Change struct {
	Key        string    `json:"key"`
	Origin     string    `json:"origin"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewInstanceID returns an id used to tag this process's writes
func NewInstanceID() string {
	return uuid.NewString()
}

// EncodeChange builds the notification payload for a write
func EncodeChange(key, origin string) (string, error) {
	payload, err := json.Marshal(Change{Key: key, Origin: origin, OccurredAt: time.Now().UTC()})
	if err != nil {
		return "", fmt.Errorf("failed to encode change: %w", err)
	}
	return string(payload), nil
}

// DecodeForeignChange parses a payload and reports whether it came
// from an instance other than self
func DecodeForeignChange(payload, self string) (Change, bool) {
	var change Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return Change{}, false
	}
	if change.Key == "" || change.Origin == self {
		return Change{}, false
	}
	return change, true
}
