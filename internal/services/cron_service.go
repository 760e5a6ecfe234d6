package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hotelops/hotel-admin-backend/internal/database"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Default housekeeping schedules (second minute hour day month weekday)
const (
	DefaultRateLimitCleanupSchedule = "0 */15 * * * *"
	DefaultSessionPruneSchedule     = "0 30 3 * * *"
)

// CronService manages scheduled background jobs
type CronService struct {
	cron      *cron.Cron
	hotel     *database.HotelStore
	rateLimit *RateLimitService
	logger    *logrus.Logger
	now       func() time.Time

	rateLimitSchedule string
	sessionSchedule   string
}

// NewCronService creates a new CronService. Empty schedules fall back
// to the defaults.
func NewCronService(hotel *database.HotelStore, rateLimit *RateLimitService, rateLimitSchedule, sessionSchedule string, logger *logrus.Logger) *CronService {
	if rateLimitSchedule == "" {
		rateLimitSchedule = DefaultRateLimitCleanupSchedule
	}
	if sessionSchedule == "" {
		sessionSchedule = DefaultSessionPruneSchedule
	}

	return &CronService{
		cron:              cron.New(cron.WithSeconds()),
		hotel:             hotel,
		rateLimit:         rateLimit,
		logger:            logger,
		now:               time.Now,
		rateLimitSchedule: rateLimitSchedule,
		sessionSchedule:   sessionSchedule,
	}
}

// Start schedules every job and starts the scheduler
func (s *CronService) Start() error {
	s.logger.Info("Starting cron service...")

	if s.rateLimit != nil {
		if _, err := s.cron.AddFunc(s.rateLimitSchedule, s.cleanupLoginAttemptsJob); err != nil {
			return fmt.Errorf("failed to schedule login attempt cleanup: %w", err)
		}
		s.logger.WithField("schedule", s.rateLimitSchedule).Info("✓ Scheduled: Cleanup expired login attempts")
	}

	if _, err := s.cron.AddFunc(s.sessionSchedule, s.pruneSessionsJob); err != nil {
		return fmt.Errorf("failed to schedule session pruning: %w", err)
	}
	s.logger.WithField("schedule", s.sessionSchedule).Info("✓ Scheduled: Prune dead admin sessions")

	s.cron.Start()
	s.logger.Info("✓ Cron service started successfully")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	s.logger.Info("Stopping cron service...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("✓ Cron service stopped")
}

func (s *CronService) cleanupLoginAttemptsJob() {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := s.rateLimit.CleanupExpiredRateLimits(ctx)
	if err != nil {
		s.logger.WithError(err).Error("[CRON] Failed to cleanup login attempts")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"removed":  removed,
		"duration": time.Since(startTime).String(),
	}).Info("[CRON] Cleaned up login attempts")
}

func (s *CronService) pruneSessionsJob() {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var removed int
	_, err := s.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		var err error
		removed, err = tx.Sessions.PruneDead(ctx, s.now())
		return err
	})
	if err != nil {
		s.logger.WithError(err).Error("[CRON] Failed to prune sessions")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"removed":  removed,
		"duration": time.Since(startTime).String(),
	}).Info("[CRON] Pruned admin sessions")
}

// RunCleanupLoginAttemptsNow runs the login attempt cleanup immediately
func (s *CronService) RunCleanupLoginAttemptsNow() error {
	if s.rateLimit == nil {
		return fmt.Errorf("login throttling is disabled")
	}
	s.logger.Info("[MANUAL] Running login attempt cleanup now...")
	s.cleanupLoginAttemptsJob()
	return nil
}

// RunPruneSessionsNow runs the session pruning immediately
func (s *CronService) RunPruneSessionsNow() error {
	s.logger.Info("[MANUAL] Running session pruning now...")
	s.pruneSessionsJob()
	return nil
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}
