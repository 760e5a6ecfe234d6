package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser represents a hotel back-office operator
type AdminUser struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"` // Never expose password hash in JSON
	FullName     string     `json:"fullName"`
	IsActive     bool       `json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// AdminSession tracks an issued refresh token.
// Only the SHA-256 hash of the token is kept.
type AdminSession struct {
	ID        uuid.UUID  `json:"id"`
	AdminID   uuid.UUID  `json:"adminId"`
	TokenHash string     `json:"tokenHash"`
	UserAgent string     `json:"userAgent,omitempty"`
	Device    string     `json:"device,omitempty"`
	IPAddress string     `json:"ipAddress,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
	Revoked   bool       `json:"revoked"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
}

// IsLive reports whether the session can still mint access tokens
func (s AdminSession) IsLive(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}

// AdminLoginRequest represents the login request payload
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLoginResponse represents the login response
type AdminLoginResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	ExpiresIn    int64      `json:"expiresIn"`
	AdminUser    *AdminUser `json:"adminUser"`
}

// AdminRefreshRequest represents the token refresh request
type AdminRefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LoginMetadata describes where a login came from
type LoginMetadata struct {
	IPAddress string
	UserAgent string
}
