package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hotelops/hotel-admin-backend/internal/database"
	"github.com/hotelops/hotel-admin-backend/internal/events"
	"github.com/hotelops/hotel-admin-backend/internal/models"
	"github.com/hotelops/hotel-admin-backend/pkg/seed"
	"github.com/hotelops/hotel-admin-backend/pkg/validator"
	"github.com/sirupsen/logrus"
)

// ClientService owns the client registry
type ClientService struct {
	hotel     *database.HotelStore
	publisher events.Publisher
	logger    *logrus.Logger
	now       func() time.Time
}

// NewClientService creates a new client service
func NewClientService(hotel *database.HotelStore, publisher events.Publisher, logger *logrus.Logger) *ClientService {
	return &ClientService{
		hotel:     hotel,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns every client in stored order
func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	return s.hotel.Clients.List(ctx)
}

// Search matches the national id by substring or the name
// case-insensitively; an empty query lists everything
func (s *ClientService) Search(ctx context.Context, query string) ([]models.Client, error) {
	clients, err := s.hotel.Clients.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.TrimSpace(query)
	if q == "" {
		return clients, nil
	}
	lower := strings.ToLower(q)

	matches := make([]models.Client, 0)
	for _, c := range clients {
		if strings.Contains(c.NationalID, q) || strings.Contains(strings.ToLower(c.Name), lower) {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

// Create registers a client
func (s *ClientService) Create(ctx context.Context, req models.CreateClientRequest) (*models.Client, error) {
	nationalID, err := validator.NationalID(req.NationalID)
	if err != nil {
		return nil, &ValidationError{Field: "nationalId", Message: err.Error()}
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "name is required")
	}
	email, err := validator.Email(req.Email)
	if err != nil {
		return nil, &ValidationError{Field: "email", Message: err.Error()}
	}

	var created models.Client
	keys, err := s.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		clients, err := tx.Clients.List(ctx)
		if err != nil {
			return err
		}

		taken := make(map[int64]bool, len(clients))
		for _, c := range clients {
			if c.NationalID == nationalID {
				return &DuplicateKeyError{Entity: "client", Field: "nationalId", Value: nationalID}
			}
			taken[c.ID] = true
		}

		created = models.Client{
			ID:         newRecordID(s.now(), func(id int64) bool { return taken[id] }),
			NationalID: nationalID,
			Name:       name,
			Email:      email,
			Phone:      strings.TrimSpace(req.Phone),
			Address:    strings.TrimSpace(req.Address),
			BirthDate:  strings.TrimSpace(req.BirthDate),
		}
		return tx.Clients.Save(ctx, append(clients, created))
	})
	if err != nil {
		return nil, err
	}
	publishCommit(s.publisher, keys)

	s.logger.WithFields(logrus.Fields{
		"client_id":   created.ID,
		"national_id": created.NationalID,
	}).Info("Client registered")

	return &created, nil
}

// Update applies a partial edit. It reports false without error when no
// client has the id.
func (s *ClientService) Update(ctx context.Context, id int64, req models.UpdateClientRequest) (*models.Client, bool, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, false, invalid("name", "name is required")
		}
		req.Name = &name
	}
	if req.Email != nil {
		email, err := validator.Email(*req.Email)
		if err != nil {
			return nil, false, &ValidationError{Field: "email", Message: err.Error()}
		}
		req.Email = &email
	}

	var updated *models.Client
	keys, err := s.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		clients, err := tx.Clients.List(ctx)
		if err != nil {
			return err
		}
		for i := range clients {
			if clients[i].ID != id {
				continue
			}
			c := &clients[i]
			if req.Name != nil {
				c.Name = *req.Name
			}
			if req.Email != nil {
				c.Email = *req.Email
			}
			if req.Phone != nil {
				c.Phone = strings.TrimSpace(*req.Phone)
			}
			if req.Address != nil {
				c.Address = strings.TrimSpace(*req.Address)
			}
			if req.BirthDate != nil {
				c.BirthDate = strings.TrimSpace(*req.BirthDate)
			}
			copied := *c
			updated = &copied
			return tx.Clients.Save(ctx, clients)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	publishCommit(s.publisher, keys)

	return updated, updated != nil, nil
}

// Delete removes a client. It reports false when nothing matched.
// Reservations keep their copied client fields.
func (s *ClientService) Delete(ctx context.Context, id int64) (bool, error) {
	removed := false
	keys, err := s.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		clients, err := tx.Clients.List(ctx)
		if err != nil {
			return err
		}
		kept := make([]models.Client, 0, len(clients))
		for _, c := range clients {
			if c.ID == id {
				removed = true
				continue
			}
			kept = append(kept, c)
		}
		if !removed {
			return nil
		}
		return tx.Clients.Save(ctx, kept)
	})
	if err != nil {
		return false, err
	}
	publishCommit(s.publisher, keys)

	if removed {
		s.logger.WithField("client_id", id).Info("Client deleted")
	}
	return removed, nil
}

// FindByNationalID looks up the single client with the national id
func (s *ClientService) FindByNationalID(ctx context.Context, nationalID string) (*models.Client, error) {
	nid, err := validator.NationalID(nationalID)
	if err != nil {
		return nil, &ValidationError{Field: "nationalId", Message: err.Error()}
	}

	client, err := s.hotel.Clients.GetByNationalID(ctx, nid)
	if errors.Is(err, database.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "client", Key: nid}
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Bootstrap seeds the collection on first start. A present key, even an
// empty array, is left alone. When the fetch fails the emergency
// records are stored instead.
func (s *ClientService) Bootstrap(ctx context.Context, fetcher seed.ClientFetcher) error {
	exists, err := s.hotel.Clients.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	clients, fetchErr := fetcher.FetchClients(ctx)
	if fetchErr != nil {
		s.logger.WithError(fetchErr).Warn("Client seed unavailable, storing emergency records")
		clients = models.EmergencyClients()
	}

	keys, err := s.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		// Another instance may have seeded while we were fetching
		exists, err := tx.Clients.Exists(ctx)
		if err != nil || exists {
			return err
		}
		return tx.Clients.Save(ctx, clients)
	})
	if err != nil {
		return fmt.Errorf("failed to seed clients: %w", err)
	}
	publishCommit(s.publisher, keys)

	if len(keys) > 0 {
		s.logger.WithField("count", len(clients)).Info("Client collection seeded")
	}
	return nil
}
