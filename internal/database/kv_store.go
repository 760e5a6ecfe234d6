package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hotelops/hotel-admin-backend/internal/config"
	"github.com/hotelops/hotel-admin-backend/internal/storage"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const storageSchema = `
	CREATE TABLE IF NOT EXISTS storage_entries (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// KVStore implements storage.Store on a single postgres table.
// Writes notify other instances through LISTEN/NOTIFY.
type KVStore struct {
	db        DB
	listenURL string
	channel   string
	origin    string
	logger    *logrus.Logger
}

// NewKVStore creates a new postgres-backed key/value store
func NewKVStore(db DB, cfg config.DatabaseConfig, origin string, logger *logrus.Logger) *KVStore {
	return &KVStore{
		db:        db,
		listenURL: cfg.URL,
		channel:   cfg.NotifyChannel,
		origin:    origin,
		logger:    logger,
	}
}

// EnsureSchema creates the backing table if it does not exist
func (s *KVStore) EnsureSchema() error {
	if _, err := s.db.Exec(storageSchema); err != nil {
		return fmt.Errorf("failed to create storage_entries table: %w", err)
	}
	return nil
}

// Ping checks the database connection
func (s *KVStore) Ping(_ context.Context) error {
	return s.db.Ping()
}

// Get returns the value stored under key
func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.Get(&value, `SELECT value FROM storage_entries WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set upserts value and notifies listeners in the same statement
func (s *KVStore) Set(_ context.Context, key string, value []byte) error {
	payload, err := storage.EncodeChange(key, s.origin)
	if err != nil {
		return err
	}

	query := `
		WITH upsert AS (
			INSERT INTO storage_entries (key, value, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
			RETURNING key
		)
		SELECT pg_notify($3, $4) FROM upsert
	`
	if _, err := s.db.Exec(query, key, string(value), s.channel, payload); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes key; absent keys are ignored
func (s *KVStore) Delete(_ context.Context, key string) error {
	payload, err := storage.EncodeChange(key, s.origin)
	if err != nil {
		return err
	}

	query := `
		WITH removed AS (
			DELETE FROM storage_entries WHERE key = $1 RETURNING key
		)
		SELECT pg_notify($2, $3) FROM removed
	`
	if _, err := s.db.Exec(query, key, s.channel, payload); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Keys lists every stored key
func (s *KVStore) Keys() ([]string, error) {
	var keys []string
	if err := s.db.Select(&keys, `SELECT key FROM storage_entries ORDER BY key`); err != nil {
		return nil, fmt.Errorf("failed to list storage keys: %w", err)
	}
	return keys, nil
}

// Watch listens on the notify channel with a dedicated lib/pq connection.
// After a reconnect a wildcard change is emitted since notifications may
// have been missed.
func (s *KVStore) Watch(ctx context.Context) (<-chan storage.Change, error) {
	if s.listenURL == "" {
		return nil, fmt.Errorf("database URL is required to listen for changes")
	}

	listener := pq.NewListener(s.listenURL, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			s.logger.WithError(err).Warn("Storage change listener event")
		}
	})
	if err := listener.Listen(s.channel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", s.channel, err)
	}

	changes := make(chan storage.Change, 16)
	go func() {
		defer close(changes)
		defer listener.Close()

		ticker := time.NewTicker(90 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				go listener.Ping()
			case n, ok := <-listener.Notify:
				if !ok {
					return
				}
				change := storage.Change{Key: "*", OccurredAt: time.Now().UTC()}
				if n != nil {
					var foreign bool
					change, foreign = storage.DecodeForeignChange(n.Extra, s.origin)
					if !foreign {
						continue
					}
				}
				select {
				case changes <- change:
				default:
					s.logger.WithField("key", change.Key).Warn("Dropping storage change notification, watcher is behind")
				}
			}
		}
	}()

	return changes, nil
}

// Close closes the underlying database
func (s *KVStore) Close() error {
	return s.db.Close()
}
