// Package tomtom implements the provider ports against the TomTom Search API.
package tomtom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/facility-finder/internal/domain"
	"github.com/couchcryptid/facility-finder/internal/observability"
)

// Client implements domain.Geocoder, domain.CategoryCatalog, and
// domain.PlacesSearcher using the TomTom Search API.
type Client struct {
	key        string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a TomTom search client.
func NewClient(key string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		key: key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.tomtom.com/search/2",
		metrics: metrics,
		logger:  logger,
	}
}

// getJSON issues a GET and decodes the JSON body into out. Non-200
// responses (429/403 quota exhaustion included) are wrapped in
// domain.ErrProviderFailure so the orchestrator can classify them.
func (c *Client) getJSON(ctx context.Context, fullURL, endpoint string, out any) error {
	start := time.Now()
	err := c.doGetJSON(ctx, fullURL, out)
	c.metrics.ProviderRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	c.metrics.ProviderRequests.WithLabelValues(endpoint, "success").Inc()
	return nil
}

func (c *Client) doGetJSON(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", domain.ErrProviderFailure, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
