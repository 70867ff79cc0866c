// Package service orchestrates a river lookup: resolve the query, consult
// the result cache, walk the upstream fallback chain, pick the best sample,
// and compute the composite index.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/river-quality-service/internal/cache"
	"github.com/couchcryptid/river-quality-service/internal/domain"
	"github.com/couchcryptid/river-quality-service/internal/observability"
)

// Lookup failure classes the HTTP layer maps onto status codes.
var (
	ErrEmptyQuery    = errors.New("river query must not be empty")
	ErrRiverNotFound = errors.New("river not found")
)

// RiverResolver matches a free-text query against the river directory.
type RiverResolver interface {
	Resolve(query string) (domain.River, bool)
	Check() error
}

// RecordFetcher retrieves raw samples for a resolved river. A nil or empty
// slice means no data was available anywhere in the fallback chain.
type RecordFetcher interface {
	Fetch(ctx context.Context, river domain.River) []domain.RawRecord
}

// EventPublisher receives freshly computed results. Implementations must be
// safe to call concurrently.
type EventPublisher interface {
	Publish(ctx context.Context, riverID string, result domain.Result) error
}

// Service is the request orchestrator.
type Service struct {
	resolver RiverResolver
	cache    *cache.Store
	fetcher  RecordFetcher
	index    domain.IndexConfig
	events   EventPublisher // nil disables publishing
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// New creates a Service. Pass a nil events publisher to disable result events.
func New(
	resolver RiverResolver,
	store *cache.Store,
	fetcher RecordFetcher,
	index domain.IndexConfig,
	events EventPublisher,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		resolver: resolver,
		cache:    store,
		fetcher:  fetcher,
		index:    index,
		events:   events,
		metrics:  metrics,
		logger:   logger,
	}
}

// CheckReadiness reports whether the river directory is currently usable.
func (s *Service) CheckReadiness(_ context.Context) error {
	return s.resolver.Check()
}

// Lookup runs the full pipeline for one query. A "no upstream data" outcome
// is not an error: it returns a coming_soon result, and that result is
// cached under the same TTL as a success. Validation and resolution
// failures are returned as errors and never cached.
func (s *Service) Lookup(ctx context.Context, query string) (domain.Result, error) {
	if strings.TrimSpace(query) == "" {
		s.metrics.Lookups.WithLabelValues("invalid").Inc()
		return domain.Result{}, ErrEmptyQuery
	}

	river, ok := s.resolver.Resolve(query)
	if !ok {
		s.metrics.Lookups.WithLabelValues("not_found").Inc()
		return domain.Result{}, fmt.Errorf("%w: %q", ErrRiverNotFound, strings.TrimSpace(query))
	}

	key := strings.ToLower(river.ID)
	if cached, hit := s.cache.Get(key); hit {
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
		s.metrics.Lookups.WithLabelValues(string(cached.Status)).Inc()
		return cached, nil
	}
	s.metrics.CacheLookups.WithLabelValues("miss").Inc()

	start := time.Now()
	result := s.compute(ctx, river)
	s.metrics.LookupDuration.Observe(time.Since(start).Seconds())

	s.cache.Set(key, result, 0)
	s.publish(ctx, river.ID, result)
	s.metrics.Lookups.WithLabelValues(string(result.Status)).Inc()
	return result, nil
}

func (s *Service) compute(ctx context.Context, river domain.River) domain.Result {
	records := s.fetcher.Fetch(ctx, river)

	sample, ok := domain.SelectBest(records)
	if !ok {
		s.logger.Info("no data for river yet", "river", river.ID)
		return domain.Result{River: river.Name, Status: domain.StatusComingSoon}
	}

	rwqi, category, subindices := domain.ComputeIndex(sample, s.index)
	return domain.Result{
		River:      river.Name,
		Status:     domain.StatusOK,
		RWQI:       rwqi,
		Category:   category,
		Subindices: subindices,
		Parameters: &sample,
	}
}

func (s *Service) publish(ctx context.Context, riverID string, result domain.Result) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, riverID, result); err != nil {
		s.metrics.EventPublishFails.Inc()
		s.logger.Warn("result event publish failed", "river", riverID, "error", err)
		return
	}
	s.metrics.EventsPublished.Inc()
}
