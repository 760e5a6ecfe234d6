package services

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/hotelops/hotel-admin-backend/internal/database"
	"github.com/hotelops/hotel-admin-backend/internal/events"
	"github.com/hotelops/hotel-admin-backend/internal/models"
	"github.com/hotelops/hotel-admin-backend/internal/storage"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DashboardService keeps the dashboard projection current. It recomputes
// on local commits, on changes written by other instances and on a
// fixed poll, and pushes the result to subscribers when it changes.
type DashboardService struct {
	hotel    *database.HotelStore
	bus      *events.Bus
	watcher  storage.Watcher
	interval time.Duration
	logger   *logrus.Logger
	now      func() time.Time

	cron   *cron.Cron
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.RWMutex
	current  *models.DashboardStats
	nextSub  int
	subs     map[int]chan models.DashboardStats
	refreshM sync.Mutex
}

// NewDashboardService creates a new dashboard service. watcher may be nil
// for backends that are not shared between processes.
func NewDashboardService(
	hotel *database.HotelStore,
	bus *events.Bus,
	watcher storage.Watcher,
	interval time.Duration,
	logger *logrus.Logger,
) *DashboardService {
	return &DashboardService{
		hotel:    hotel,
		bus:      bus,
		watcher:  watcher,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		cron:     cron.New(),
		subs:     make(map[int]chan models.DashboardStats),
	}
}

// Start computes the first snapshot and begins listening for changes
func (s *DashboardService) Start(ctx context.Context) error {
	if _, err := s.Refresh(ctx); err != nil {
		s.logger.WithError(err).Warn("Initial dashboard refresh failed")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	schedule := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(schedule, func() { s.refreshFrom(runCtx, "poll") }); err != nil {
		cancel()
		return fmt.Errorf("failed to schedule dashboard poll: %w", err)
	}
	s.cron.Start()

	if s.bus != nil {
		feed, unsubscribe := s.bus.Subscribe()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer unsubscribe()
			for {
				select {
				case <-runCtx.Done():
					return
				case _, ok := <-feed:
					if !ok {
						return
					}
					s.refreshFrom(runCtx, "event")
				}
			}
		}()
	}

	if s.watcher != nil {
		changes, err := s.watcher.Watch(runCtx)
		if err != nil {
			s.logger.WithError(err).Warn("Storage watch unavailable, relying on polling")
		} else {
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				for change := range changes {
					s.logger.WithField("key", change.Key).Debug("External storage change")
					s.refreshFrom(runCtx, "external")
				}
			}()
		}
	}

	s.logger.WithField("poll_interval", s.interval.String()).Info("Dashboard service started")
	return nil
}

// Stop halts polling and listeners and closes every subscription
func (s *DashboardService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
	s.wg.Wait()

	s.mu.Lock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()

	s.logger.Info("Dashboard service stopped")
}

func (s *DashboardService) refreshFrom(ctx context.Context, trigger string) {
	if _, err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
		s.logger.WithError(err).WithField("trigger", trigger).Warn("Dashboard refresh failed")
	}
}

// Refresh recomputes the projection and notifies subscribers when it
// differs from the previous one
func (s *DashboardService) Refresh(ctx context.Context) (*models.DashboardStats, error) {
	s.refreshM.Lock()
	defer s.refreshM.Unlock()

	stats, err := s.Compute(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	changed := s.current == nil || !sameCounts(*s.current, *stats)
	s.current = stats
	if changed {
		for _, ch := range s.subs {
			select {
			case ch <- *stats:
			default:
			}
		}
	}
	s.mu.Unlock()

	return stats, nil
}

// Snapshot returns the latest projection, computing it if none exists
func (s *DashboardService) Snapshot(ctx context.Context) (*models.DashboardStats, error) {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()
	if current != nil {
		copied := *current
		return &copied, nil
	}
	return s.Refresh(ctx)
}

// Subscribe receives every changed projection. The latest one is
// delivered first when available.
func (s *DashboardService) Subscribe() (<-chan models.DashboardStats, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan models.DashboardStats, 4)
	if s.current != nil {
		ch <- *s.current
	}
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// Compute derives the projection from one consistent read of the
// collections
func (s *DashboardService) Compute(ctx context.Context) (*models.DashboardStats, error) {
	var (
		reservations []models.Reservation
		requests     []models.PendingRequest
		rooms        []models.Room
		clients      []models.Client
	)
	_, err := s.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		var err error
		if reservations, err = tx.Reservations.List(ctx); err != nil {
			return err
		}
		if requests, err = tx.Requests.List(ctx); err != nil {
			return err
		}
		if rooms, err = tx.Rooms.List(ctx); err != nil {
			return err
		}
		clients, err = tx.Clients.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		TotalReservations:   len(reservations),
		ConfirmedByRoomType: make(map[models.RoomType]int, len(models.RoomTypes)),
		ByStatus:            make(map[models.ReservationStatus]int, len(models.ReservationStatuses)),
		RoomsByStatus:       make(map[models.RoomStatus]int, len(models.RoomStatuses)),
		TotalRooms:          len(rooms),
		TotalClients:        len(clients),
		GeneratedAt:         s.now().UTC(),
	}
	for _, t := range models.RoomTypes {
		stats.ConfirmedByRoomType[t] = 0
	}
	for _, st := range models.ReservationStatuses {
		stats.ByStatus[st] = 0
	}
	for _, st := range models.RoomStatuses {
		stats.RoomsByStatus[st] = 0
	}

	for _, r := range reservations {
		stats.ByStatus[r.Status]++
		if r.Status == models.ReservationStatusConfirmed {
			stats.ConfirmedReservations++
			stats.ConfirmedByRoomType[r.RoomType]++
		}
		if r.EffectiveOrigin() == models.OriginWebRequest {
			stats.ByOrigin.WebRequest++
		} else {
			stats.ByOrigin.AdminForm++
		}
	}
	for _, p := range requests {
		if p.EffectiveStatus() == models.RequestStatusPending {
			stats.PendingRequests++
		}
	}
	for _, room := range rooms {
		stats.RoomsByStatus[room.Status]++
	}

	return stats, nil
}

// sameCounts compares two projections ignoring when they were generated
func sameCounts(a, b models.DashboardStats) bool {
	a.GeneratedAt = time.Time{}
	b.GeneratedAt = time.Time{}
	return reflect.DeepEqual(a, b)
}
