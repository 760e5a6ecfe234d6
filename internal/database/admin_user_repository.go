package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/hotel-admin-backend/internal/models"
	"github.com/hotelops/hotel-admin-backend/internal/storage"
)

// adminRecord is the persisted form of models.AdminUser; unlike the
// API model it keeps the password hash
type adminRecord struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"passwordHash"`
	FullName     string     `json:"fullName"`
	IsActive     bool       `json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (r adminRecord) toModel() *models.AdminUser {
	return &models.AdminUser{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		FullName:     r.FullName,
		IsActive:     r.IsActive,
		LastLoginAt:  r.LastLoginAt,
		CreatedAt:    r.CreatedAt,
	}
}

// AdminUserRepository handles the admins collection
type AdminUserRepository struct {
	admins jsonCollection[adminRecord]
}

// NewAdminUserRepository creates a new admin user repository
func NewAdminUserRepository(store storage.Store) *AdminUserRepository {
	return &AdminUserRepository{admins: jsonCollection[adminRecord]{store: store, key: storage.KeyAdmins}}
}

// Count returns the number of admin accounts
func (r *AdminUserRepository) Count(ctx context.Context) (int, error) {
	records, err := r.admins.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Create adds an admin; usernames are unique case-insensitively
func (r *AdminUserRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	records, err := r.admins.List(ctx)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if strings.EqualFold(rec.Username, admin.Username) {
			return fmt.Errorf("admin user %s already exists", admin.Username)
		}
	}

	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now().UTC()
	}

	records = append(records, adminRecord{
		ID:           admin.ID,
		Username:     admin.Username,
		PasswordHash: admin.PasswordHash,
		FullName:     admin.FullName,
		IsActive:     admin.IsActive,
		CreatedAt:    admin.CreatedAt,
	})
	if err := r.admins.Save(ctx, records); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}

// GetByUsername retrieves an admin user by username
func (r *AdminUserRepository) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	return r.find(ctx, func(rec adminRecord) bool { return strings.EqualFold(rec.Username, username) })
}

// GetByID retrieves an admin user by id
func (r *AdminUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	return r.find(ctx, func(rec adminRecord) bool { return rec.ID == id })
}

// UpdateLastLogin stamps the admin's last login time
func (r *AdminUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	records, err := r.admins.List(ctx)
	if err != nil {
		return err
	}
	for i := range records {
		if records[i].ID == id {
			at := at.UTC()
			records[i].LastLoginAt = &at
			return r.admins.Save(ctx, records)
		}
	}
	return fmt.Errorf("admin user %s: %w", id, ErrRecordNotFound)
}

func (r *AdminUserRepository) find(ctx context.Context, match func(adminRecord) bool) (*models.AdminUser, error) {
	records, err := r.admins.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}
	for _, rec := range records {
		if match(rec) {
			return rec.toModel(), nil
		}
	}
	return nil, fmt.Errorf("admin user: %w", ErrRecordNotFound)
}

// HashToken creates a SHA-256 hash of the token for storage
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// SessionRepository handles the sessions collection and the auth flag
type SessionRepository struct {
	store    storage.Store
	sessions jsonCollection[models.AdminSession]
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(store storage.Store) *SessionRepository {
	return &SessionRepository{
		store:    store,
		sessions: jsonCollection[models.AdminSession]{store: store, key: storage.KeySessions},
	}
}

// Store records a session, dropping sessions that are already dead
func (r *SessionRepository) Store(ctx context.Context, session models.AdminSession, now time.Time) error {
	sessions, err := r.sessions.List(ctx)
	if err != nil {
		return err
	}

	kept := sessions[:0]
	for _, s := range sessions {
		if s.IsLive(now) {
			kept = append(kept, s)
		}
	}
	kept = append(kept, session)

	if err := r.sessions.Save(ctx, kept); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// GetByToken looks up the session of a refresh token
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*models.AdminSession, error) {
	hash := HashToken(token)
	sessions, err := r.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].TokenHash == hash {
			return &sessions[i], nil
		}
	}
	return nil, fmt.Errorf("session: %w", ErrRecordNotFound)
}

// Revoke marks the session of a refresh token revoked
func (r *SessionRepository) Revoke(ctx context.Context, token string, now time.Time) error {
	hash := HashToken(token)
	sessions, err := r.sessions.List(ctx)
	if err != nil {
		return err
	}
	for i := range sessions {
		if sessions[i].TokenHash == hash {
			if sessions[i].Revoked {
				return nil
			}
			at := now.UTC()
			sessions[i].Revoked = true
			sessions[i].RevokedAt = &at
			return r.sessions.Save(ctx, sessions)
		}
	}
	return fmt.Errorf("session: %w", ErrRecordNotFound)
}

// CountLive counts sessions that are neither revoked nor expired
func (r *SessionRepository) CountLive(ctx context.Context, now time.Time) (int, error) {
	sessions, err := r.sessions.List(ctx)
	if err != nil {
		return 0, err
	}
	live := 0
	for _, s := range sessions {
		if s.IsLive(now) {
			live++
		}
	}
	return live, nil
}

// PruneDead removes revoked and expired sessions and reports how many went
func (r *SessionRepository) PruneDead(ctx context.Context, now time.Time) (int, error) {
	sessions, err := r.sessions.List(ctx)
	if err != nil {
		return 0, err
	}
	kept := make([]models.AdminSession, 0, len(sessions))
	for _, s := range sessions {
		if s.IsLive(now) {
			kept = append(kept, s)
		}
	}
	removed := len(sessions) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := r.sessions.Save(ctx, kept); err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	return removed, nil
}

// SetAuthFlag marks the panel as logged in
func (r *SessionRepository) SetAuthFlag(ctx context.Context) error {
	if err := r.store.Set(ctx, storage.KeyAuth, []byte(storage.AuthFlagValue)); err != nil {
		return fmt.Errorf("failed to set auth flag: %w", err)
	}
	return nil
}

// ClearAuthFlag removes the logged-in marker
func (r *SessionRepository) ClearAuthFlag(ctx context.Context) error {
	if err := r.store.Delete(ctx, storage.KeyAuth); err != nil {
		return fmt.Errorf("failed to clear auth flag: %w", err)
	}
	return nil
}

// AuthFlagSet reports whether the logged-in marker is present
func (r *SessionRepository) AuthFlagSet(ctx context.Context) (bool, error) {
	value, err := r.store.Get(ctx, storage.KeyAuth)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read auth flag: %w", err)
	}
	return string(value) == storage.AuthFlagValue, nil
}
