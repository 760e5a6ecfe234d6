package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/hotel-admin-backend/internal/config"
	"github.com/hotelops/hotel-admin-backend/internal/database"
	"github.com/hotelops/hotel-admin-backend/internal/models"
	"github.com/hotelops/hotel-admin-backend/internal/utils"
	"github.com/hotelops/hotel-admin-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Authentication failures. Handlers map all of them to 401.
var (
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

var adminRoles = []string{"admin"}

// AdminAuthService handles admin authentication business logic
type AdminAuthService struct {
	hotel      *database.HotelStore
	jwtService *jwt.Service
	logger     *logrus.Logger
	now        func() time.Time
}

// NewAdminAuthService creates a new admin auth service
func NewAdminAuthService(hotel *database.HotelStore, jwtService *jwt.Service, logger *logrus.Logger) *AdminAuthService {
	return &AdminAuthService{
		hotel:      hotel,
		jwtService: jwtService,
		logger:     logger,
		now:        time.Now,
	}
}

// EnsureBootstrapAdmin creates the configured admin account when no admin
// exists yet. The password must already be a bcrypt hash.
func (s *AdminAuthService) EnsureBootstrapAdmin(ctx context.Context, cfg config.AdminConfig) error {
	count, err := s.hotel.Admins.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if cfg.Username == "" {
		s.logger.Warn("No admin accounts exist; set ADMIN_USERNAME and ADMIN_PASSWORD_HASH to create one")
		return nil
	}
	if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
		return fmt.Errorf("ADMIN_PASSWORD_HASH is not a bcrypt hash: %w", err)
	}

	admin := &models.AdminUser{
		Username:     strings.TrimSpace(cfg.Username),
		PasswordHash: cfg.PasswordHash,
		FullName:     cfg.FullName,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}
	_, err = s.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		count, err := tx.Admins.Count(ctx)
		if err != nil || count > 0 {
			return err
		}
		return tx.Admins.Create(ctx, admin)
	})
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	s.logger.WithField("username", admin.Username).Info("Bootstrap admin account created")
	return nil
}

// Login authenticates an admin user and returns tokens
func (s *AdminAuthService) Login(ctx context.Context, username, password string, meta models.LoginMetadata) (*models.AdminLoginResponse, error) {
	admin, err := s.hotel.Admins.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, database.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !admin.IsActive {
		return nil, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(admin.ID, admin.Username, adminRoles)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtService.GenerateRefreshToken(admin.ID, admin.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := s.now().UTC()
	session := models.AdminSession{
		ID:        uuid.New(),
		AdminID:   admin.ID,
		TokenHash: database.HashToken(refreshToken),
		UserAgent: meta.UserAgent,
		Device:    utils.ParseUserAgent(meta.UserAgent).Describe(),
		IPAddress: meta.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(s.jwtService.RefreshTokenExpiry()),
	}

	_, err = s.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		if err := tx.Sessions.Store(ctx, session, now); err != nil {
			return err
		}
		if err := tx.Sessions.SetAuthFlag(ctx); err != nil {
			return err
		}
		return tx.Admins.UpdateLastLogin(ctx, admin.ID, now)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	admin.LastLoginAt = &now

	s.logger.WithFields(logrus.Fields{
		"admin_id": admin.ID,
		"ip":       meta.IPAddress,
		"device":   session.Device,
	}).Info("Admin logged in")

	return &models.AdminLoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtService.AccessTokenExpiry().Seconds()),
		AdminUser:    admin,
	}, nil
}

// RefreshToken issues a new access token for a live session
func (s *AdminAuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.AdminLoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	session, err := s.hotel.Sessions.GetByToken(ctx, refreshToken)
	if errors.Is(err, database.ErrRecordNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}
	if !session.IsLive(s.now()) || session.AdminID != claims.AdminID {
		return nil, ErrInvalidRefreshToken
	}

	admin, err := s.hotel.Admins.GetByID(ctx, claims.AdminID)
	if errors.Is(err, database.ErrRecordNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}
	if !admin.IsActive {
		return nil, ErrAccountInactive
	}

	accessToken, err := s.jwtService.GenerateAccessToken(admin.ID, admin.Username, adminRoles)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &models.AdminLoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtService.AccessTokenExpiry().Seconds()),
		AdminUser:    admin,
	}, nil
}

// Logout revokes the session of a refresh token. The auth flag is
// cleared once no live session remains. Unknown tokens are ignored.
func (s *AdminAuthService) Logout(ctx context.Context, refreshToken string) error {
	now := s.now()
	_, err := s.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		err := tx.Sessions.Revoke(ctx, refreshToken, now)
		if err != nil && !errors.Is(err, database.ErrRecordNotFound) {
			return err
		}

		live, err := tx.Sessions.CountLive(ctx, now)
		if err != nil {
			return err
		}
		if live == 0 {
			return tx.Sessions.ClearAuthFlag(ctx)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}

	s.logger.Info("Admin logged out")
	return nil
}

// IsLoggedIn reports whether any admin session has marked the panel
// logged in
func (s *AdminAuthService) IsLoggedIn(ctx context.Context) (bool, error) {
	return s.hotel.Sessions.AuthFlagSet(ctx)
}

// GetAdminProfile retrieves admin user profile
func (s *AdminAuthService) GetAdminProfile(ctx context.Context, adminID uuid.UUID) (*models.AdminUser, error) {
	admin, err := s.hotel.Admins.GetByID(ctx, adminID)
	if errors.Is(err, database.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "admin", Key: adminID.String()}
	}
	return admin, err
}

// HashPassword hashes a password for ADMIN_PASSWORD_HASH
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
