package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hotelops/hotel-admin-backend/internal/models"
	"github.com/hotelops/hotel-admin-backend/internal/storage"
)

// LoginAttemptRepository handles the failed login log
type LoginAttemptRepository struct {
	jsonCollection[models.LoginAttempt]
}

// NewLoginAttemptRepository creates a new login attempt repository
func NewLoginAttemptRepository(store storage.Store) *LoginAttemptRepository {
	return &LoginAttemptRepository{jsonCollection[models.LoginAttempt]{store: store, key: storage.KeyLoginAttempt}}
}

// normalizeIdentifier makes usernames match regardless of case
func normalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// CountSince returns how many attempts match after since, and the most
// recent one
func (r *LoginAttemptRepository) CountSince(ctx context.Context, identifier, identifierType string, since time.Time) (int, time.Time, error) {
	attempts, err := r.List(ctx)
	if err != nil {
		return 0, time.Time{}, err
	}

	id := normalizeIdentifier(identifier)
	count := 0
	var last time.Time
	for _, a := range attempts {
		if a.Identifier != id || a.IdentifierType != identifierType || !a.At.After(since) {
			continue
		}
		count++
		if a.At.After(last) {
			last = a.At
		}
	}
	return count, last, nil
}

// Record appends attempts
func (r *LoginAttemptRepository) Record(ctx context.Context, attempts ...models.LoginAttempt) error {
	existing, err := r.List(ctx)
	if err != nil {
		return err
	}
	for _, a := range attempts {
		a.Identifier = normalizeIdentifier(a.Identifier)
		a.At = a.At.UTC()
		existing = append(existing, a)
	}
	if err := r.Save(ctx, existing); err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}
	return nil
}

// Clear drops every attempt for one identifier
func (r *LoginAttemptRepository) Clear(ctx context.Context, identifier, identifierType string) error {
	return r.prune(ctx, func(a models.LoginAttempt) bool {
		return a.Identifier == normalizeIdentifier(identifier) && a.IdentifierType == identifierType
	})
}

// DeleteBefore drops attempts older than cutoff and reports how many
func (r *LoginAttemptRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	before, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.prune(ctx, func(a models.LoginAttempt) bool { return !a.At.After(cutoff) }); err != nil {
		return 0, err
	}
	after, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(before) - len(after), nil
}

// prune removes matching attempts; nothing is written when none match
func (r *LoginAttemptRepository) prune(ctx context.Context, drop func(models.LoginAttempt) bool) error {
	attempts, err := r.List(ctx)
	if err != nil {
		return err
	}
	kept := make([]models.LoginAttempt, 0, len(attempts))
	for _, a := range attempts {
		if !drop(a) {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(attempts) {
		return nil
	}
	return r.Save(ctx, kept)
}
