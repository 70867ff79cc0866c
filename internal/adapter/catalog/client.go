// Package catalog implements the client for the upstream open-data catalog's
// record-search endpoint.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/couchcryptid/river-quality-service/internal/domain"
	"github.com/couchcryptid/river-quality-service/internal/observability"
)

// Client searches catalog resources over HTTP. All calls run through a
// circuit breaker so a flapping upstream stops consuming the request budget;
// an open breaker surfaces as an ordinary error, which the fetcher absorbs
// like any other transient failure.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]domain.RawRecord]
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a catalog client. The timeout bounds every individual
// request; callers may impose tighter per-call deadlines via context.
func NewClient(baseURL, apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker[[]domain.RawRecord](gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    cb,
		metrics:    metrics,
		logger:     logger,
	}
}

// SearchResource queries the record-search endpoint filtered by resource id.
func (c *Client) SearchResource(ctx context.Context, resourceID string, limit int) ([]domain.RawRecord, error) {
	params := url.Values{
		"resource_id": {resourceID},
		"limit":       {fmt.Sprint(limit)},
	}
	return c.search(ctx, params)
}

// SearchByFilter queries the record-search endpoint with a field filter,
// e.g. field "river" and the river's display name.
func (c *Client) SearchByFilter(ctx context.Context, field, value string, limit int) ([]domain.RawRecord, error) {
	params := url.Values{
		fmt.Sprintf("filters[%s]", field): {value},
		"limit":                           {fmt.Sprint(limit)},
	}
	return c.search(ctx, params)
}

func (c *Client) search(ctx context.Context, params url.Values) ([]domain.RawRecord, error) {
	if c.apiKey != "" {
		params.Set("api-key", c.apiKey)
	}
	params.Set("format", "json")
	fullURL := c.baseURL + "?" + params.Encode()

	start := time.Now()
	records, err := c.breaker.Execute(func() ([]domain.RawRecord, error) {
		return c.doRequest(ctx, fullURL)
	})
	c.metrics.CatalogDuration.Observe(time.Since(start).Seconds())
	return records, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]domain.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog API error: status %d: %s", resp.StatusCode, body)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return sr.records(), nil
}

// Catalog responses expose their rows under one of two top-level keys
// depending on the publisher's API version.
type searchResponse struct {
	Records []domain.RawRecord `json:"records"`
	Data    []domain.RawRecord `json:"data"`
}

func (r searchResponse) records() []domain.RawRecord {
	if len(r.Records) > 0 {
		return r.Records
	}
	return r.Data
}
