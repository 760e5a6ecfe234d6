package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hotelops/hotel-admin-backend/internal/config"
	"github.com/hotelops/hotel-admin-backend/internal/database"
	"github.com/hotelops/hotel-admin-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// RateLimitService throttles failed admin logins per username and per IP
type RateLimitService struct {
	hotel  *database.HotelStore
	config RateLimitConfig
	logger *logrus.Logger
	now    func() time.Time
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	MaxUserAttempts int           // Max failed logins per username
	UserWindow      time.Duration // Time window for username rate limit
	MaxIPAttempts   int           // Max failed logins per IP
	IPWindow        time.Duration // Time window for IP rate limit
}

// DefaultRateLimitConfig returns the default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxUserAttempts: 5,                // 5 failures
		UserWindow:      15 * time.Minute, // per 15 minutes
		MaxIPAttempts:   20,               // 20 failures
		IPWindow:        1 * time.Hour,    // per hour
	}
}

// RateLimitConfigFrom reads the limits from the security settings,
// keeping defaults for unset values
func RateLimitConfigFrom(cfg config.SecurityConfig) RateLimitConfig {
	out := DefaultRateLimitConfig()
	if cfg.MaxLoginAttemptsPerUser > 0 {
		out.MaxUserAttempts = cfg.MaxLoginAttemptsPerUser
	}
	if cfg.LoginUserWindow > 0 {
		out.UserWindow = cfg.LoginUserWindow
	}
	if cfg.MaxLoginAttemptsPerIP > 0 {
		out.MaxIPAttempts = cfg.MaxLoginAttemptsPerIP
	}
	if cfg.LoginIPWindow > 0 {
		out.IPWindow = cfg.LoginIPWindow
	}
	return out
}

// RateLimitError represents a rate limit exceeded error
type RateLimitError struct {
	Message    string
	RetryAfter time.Time
	Type       string // "username" or "ip"
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(hotel *database.HotelStore, cfg RateLimitConfig, logger *logrus.Logger) *RateLimitService {
	return &RateLimitService{
		hotel:  hotel,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// CheckLoginRateLimit checks if a username or IP has exceeded the limits
func (s *RateLimitService) CheckLoginRateLimit(ctx context.Context, username, ip string) error {
	now := s.now()

	if username != "" {
		count, last, err := s.hotel.Attempts.CountSince(ctx, username, models.AttemptByUsername, now.Add(-s.config.UserWindow))
		if err != nil {
			return fmt.Errorf("failed to check username rate limit: %w", err)
		}
		if count >= s.config.MaxUserAttempts {
			retryAfter := last.Add(s.config.UserWindow)
			return &RateLimitError{
				Message:    fmt.Sprintf("Too many failed logins for this account. Please try again after %s", retryAfter.Format("15:04:05")),
				RetryAfter: retryAfter,
				Type:       models.AttemptByUsername,
			}
		}
	}

	if ip != "" {
		count, last, err := s.hotel.Attempts.CountSince(ctx, ip, models.AttemptByIP, now.Add(-s.config.IPWindow))
		if err != nil {
			return fmt.Errorf("failed to check IP rate limit: %w", err)
		}
		if count >= s.config.MaxIPAttempts {
			retryAfter := last.Add(s.config.IPWindow)
			return &RateLimitError{
				Message:    fmt.Sprintf("Too many failed logins from this IP address. Please try again after %s", retryAfter.Format("15:04:05")),
				RetryAfter: retryAfter,
				Type:       models.AttemptByIP,
			}
		}
	}

	return nil
}

// RecordFailedLogin records a failed login against both identifiers
func (s *RateLimitService) RecordFailedLogin(ctx context.Context, username, ip string) error {
	at := s.now()
	var attempts []models.LoginAttempt
	if username != "" {
		attempts = append(attempts, models.LoginAttempt{Identifier: username, IdentifierType: models.AttemptByUsername, At: at})
	}
	if ip != "" {
		attempts = append(attempts, models.LoginAttempt{Identifier: ip, IdentifierType: models.AttemptByIP, At: at})
	}
	if len(attempts) == 0 {
		return nil
	}

	_, err := s.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		return tx.Attempts.Record(ctx, attempts...)
	})
	return err
}

// ResetUser forgets the failures of a username after a successful login.
// IP failures are kept.
func (s *RateLimitService) ResetUser(ctx context.Context, username string) error {
	_, err := s.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		return tx.Attempts.Clear(ctx, username, models.AttemptByUsername)
	})
	return err
}

// CleanupExpiredRateLimits removes attempts older than the longest window
func (s *RateLimitService) CleanupExpiredRateLimits(ctx context.Context) (int, error) {
	maxWindow := s.config.IPWindow
	if s.config.UserWindow > maxWindow {
		maxWindow = s.config.UserWindow
	}

	var removed int
	_, err := s.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		var err error
		removed, err = tx.Attempts.DeleteBefore(ctx, s.now().Add(-maxWindow))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup rate limits: %w", err)
	}
	return removed, nil
}

// IsRateLimited checks if an identifier is currently rate limited
func (s *RateLimitService) IsRateLimited(ctx context.Context, identifier, identifierType string) (bool, time.Time, error) {
	window := s.config.UserWindow
	maxAttempts := s.config.MaxUserAttempts
	if identifierType == models.AttemptByIP {
		window = s.config.IPWindow
		maxAttempts = s.config.MaxIPAttempts
	}

	count, last, err := s.hotel.Attempts.CountSince(ctx, identifier, identifierType, s.now().Add(-window))
	if err != nil {
		return false, time.Time{}, err
	}
	if count >= maxAttempts {
		return true, last.Add(window), nil
	}
	return false, time.Time{}, nil
}
