package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hotelops/hotel-admin-backend/internal/models"
)

// maxSeedBytes caps the seed document size
const maxSeedBytes = 4 << 20

// ClientFetcher loads the initial client list from somewhere outside storage
type ClientFetcher interface {
	FetchClients(ctx context.Context) ([]models.Client, error)
}

// HTTPClientFetcher GETs a JSON array of clients from a fixed URL
type HTTPClientFetcher struct {
	url    string
	client *http.Client
}

// NewHTTPClientFetcher creates a fetcher with the given request timeout
func NewHTTPClientFetcher(url string, timeout time.Duration) *HTTPClientFetcher {
	return &HTTPClientFetcher{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchClients downloads and decodes the seed document
func (f *HTTPClientFetcher) FetchClients(ctx context.Context) ([]models.Client, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create seed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client seed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("client seed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSeedBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read client seed: %w", err)
	}

	var clients []models.Client
	if err := json.Unmarshal(body, &clients); err != nil {
		return nil, fmt.Errorf("failed to parse client seed: %w", err)
	}
	if clients == nil {
		clients = []models.Client{}
	}
	return clients, nil
}
