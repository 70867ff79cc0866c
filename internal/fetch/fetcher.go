// Package fetch retrieves raw water-quality records from the upstream
// catalog through an ordered chain of fallback strategies.
package fetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/river-quality-service/internal/domain"
	"github.com/couchcryptid/river-quality-service/internal/observability"
)

// Tier names as reported in logs and metrics.
const (
	tierRiverDatasets  = "river_datasets"
	tierGlobalDatasets = "global_datasets"
	tierNameSearch     = "name_search"
)

// Catalog is the slice of the catalog client the fetcher needs.
type Catalog interface {
	SearchResource(ctx context.Context, resourceID string, limit int) ([]domain.RawRecord, error)
	SearchByFilter(ctx context.Context, field, value string, limit int) ([]domain.RawRecord, error)
}

// Fetcher walks the fallback chain for one river: the river's own dataset
// ids, then the configured global ids, then a catalog name search. Every
// catalog call is bounded by the fetcher's timeout, and every failure is
// logged and treated as "no records" so the chain always continues.
type Fetcher struct {
	catalog   Catalog
	globalIDs []string
	limit     int
	timeout   time.Duration
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// New creates a Fetcher. globalIDs may be empty, which skips the second tier.
func New(catalog Catalog, globalIDs []string, limit int, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		catalog:   catalog,
		globalIDs: globalIDs,
		limit:     limit,
		timeout:   timeout,
		metrics:   metrics,
		logger:    logger,
	}
}

type strategy struct {
	name string
	run  func(ctx context.Context) []domain.RawRecord
}

// Fetch returns the first tier's non-empty record list, or nil when every
// tier exhausts without records. It never returns an error: upstream
// problems degrade to "no data available".
func (f *Fetcher) Fetch(ctx context.Context, river domain.River) []domain.RawRecord {
	strategies := []strategy{
		{tierRiverDatasets, func(ctx context.Context) []domain.RawRecord {
			return f.searchResourceIDs(ctx, tierRiverDatasets, river.DatasetIDs)
		}},
		{tierGlobalDatasets, func(ctx context.Context) []domain.RawRecord {
			return f.searchResourceIDs(ctx, tierGlobalDatasets, f.globalIDs)
		}},
		{tierNameSearch, func(ctx context.Context) []domain.RawRecord {
			for _, field := range []string{"river", "station"} {
				if records := f.searchFilter(ctx, field, river.Name); len(records) > 0 {
					return records
				}
			}
			return nil
		}},
	}

	for _, s := range strategies {
		if records := s.run(ctx); len(records) > 0 {
			f.logger.Debug("upstream records found", "river", river.ID, "tier", s.name, "count", len(records))
			return records
		}
	}

	f.logger.Info("no upstream data for river", "river", river.ID)
	return nil
}

// searchResourceIDs tries each resource id in order and stops at the first
// non-empty result.
func (f *Fetcher) searchResourceIDs(ctx context.Context, tier string, ids []string) []domain.RawRecord {
	for _, id := range ids {
		callCtx, cancel := context.WithTimeout(ctx, f.timeout)
		records, err := f.catalog.SearchResource(callCtx, id, f.limit)
		cancel()

		if err != nil {
			f.logger.Warn("catalog search failed, continuing fallback chain",
				"tier", tier, "resource_id", id, "error", err)
			f.metrics.CatalogRequests.WithLabelValues(tier, "error").Inc()
			continue
		}
		if len(records) == 0 {
			f.metrics.CatalogRequests.WithLabelValues(tier, "empty").Inc()
			continue
		}
		f.metrics.CatalogRequests.WithLabelValues(tier, "success").Inc()
		return records
	}
	return nil
}

func (f *Fetcher) searchFilter(ctx context.Context, field, value string) []domain.RawRecord {
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	records, err := f.catalog.SearchByFilter(callCtx, field, value, f.limit)
	cancel()

	if err != nil {
		f.logger.Warn("catalog name search failed, continuing fallback chain",
			"field", field, "value", value, "error", err)
		f.metrics.CatalogRequests.WithLabelValues(tierNameSearch, "error").Inc()
		return nil
	}
	if len(records) == 0 {
		f.metrics.CatalogRequests.WithLabelValues(tierNameSearch, "empty").Inc()
		return nil
	}
	f.metrics.CatalogRequests.WithLabelValues(tierNameSearch, "success").Inc()
	return records
}
