package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hotelops/hotel-admin-backend/internal/storage"
)

var (
	// ErrRecordNotFound is returned by repository lookups that match nothing
	ErrRecordNotFound = errors.New("record not found")

	// ErrMalformedCollection is wrapped when a stored value is not a JSON array of records
	ErrMalformedCollection = errors.New("malformed collection")
)

// jsonCollection persists a whole slice as one JSON array under key
type jsonCollection[T any] struct {
	store storage.Store
	key   string
}

// Key returns the storage key backing the collection
func (c jsonCollection[T]) Key() string {
	return c.key
}

// List decodes every record; an absent key is an empty collection
func (c jsonCollection[T]) List(ctx context.Context) ([]T, error) {
	raw, err := c.store.Get(ctx, c.key)
	if errors.Is(err, storage.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", c.key, err)
	}

	items := []T{}
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w: %w", c.key, ErrMalformedCollection, err)
	}
	if items == nil {
		// stored as JSON null
		items = []T{}
	}
	return items, nil
}

// Exists reports whether the key has ever been written
func (c jsonCollection[T]) Exists(ctx context.Context) (bool, error) {
	_, err := c.store.Get(ctx, c.key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", c.key, err)
	}
	return true, nil
}

// Save replaces the whole collection
func (c jsonCollection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, raw); err != nil {
		return fmt.Errorf("failed to save %s: %w", c.key, err)
	}
	return nil
}
