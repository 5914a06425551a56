// Package search implements the facility search pipeline: address and
// category resolution feeding a radius-bounded nearby-search query.
package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/facility-finder/internal/domain"
	"github.com/couchcryptid/facility-finder/internal/observability"
)

// CategoryResolver maps free-text facility-type tokens to provider category
// definitions. The catalogue is fetched lazily on first use and cached for
// the process lifetime; concurrent first calls share one fetch.
type CategoryResolver struct {
	catalog domain.CategoryCatalog
	logger  *slog.Logger
	metrics *observability.Metrics

	group singleflight.Group
	mu    sync.RWMutex
	defs  []domain.CategoryDefinition // nil until the first successful fetch
}

// NewCategoryResolver creates a resolver over the given catalogue port.
func NewCategoryResolver(catalog domain.CategoryCatalog, metrics *observability.Metrics, logger *slog.Logger) *CategoryResolver {
	return &CategoryResolver{
		catalog: catalog,
		logger:  logger,
		metrics: metrics,
	}
}

// Resolve matches token against the catalogue, case-insensitively and with
// whitespace stripped. Canonical names are checked before synonyms; the
// first match in provider order wins. ok is false when nothing matches.
func (r *CategoryResolver) Resolve(ctx context.Context, token string) (domain.CategoryDefinition, bool, error) {
	defs, err := r.load(ctx)
	if err != nil {
		return domain.CategoryDefinition{}, false, err
	}

	want := normalizeToken(token)

	for _, def := range defs {
		if normalizeToken(def.Name) == want {
			return def, true, nil
		}
	}
	for _, def := range defs {
		for _, syn := range def.Synonyms {
			if normalizeToken(syn) == want {
				return def, true, nil
			}
		}
	}

	return domain.CategoryDefinition{}, false, nil
}

// load returns the cached catalogue, fetching it on first use. The fetch is
// single-flight: concurrent callers await the same in-flight request. A
// failed fetch leaves the cache empty so a later call can retry.
func (r *CategoryResolver) load(ctx context.Context) ([]domain.CategoryDefinition, error) {
	r.mu.RLock()
	defs := r.defs
	r.mu.RUnlock()
	if defs != nil {
		r.metrics.CatalogLookups.WithLabelValues("hit").Inc()
		return defs, nil
	}

	r.metrics.CatalogLookups.WithLabelValues("miss").Inc()

	v, err, _ := r.group.Do("catalogue", func() (any, error) {
		// A previous flight may have populated the cache while this caller
		// was waiting to join.
		r.mu.RLock()
		cached := r.defs
		r.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		fetched, err := r.catalog.FetchCategories(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.defs = fetched
		r.mu.Unlock()

		r.metrics.CatalogSize.Set(float64(len(fetched)))
		r.logger.Info("category catalogue loaded", "categories", len(fetched))
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.CategoryDefinition), nil
}

// normalizeToken lowercases and strips all whitespace, so "Medical Center"
// and "medical center" compare equal.
func normalizeToken(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}
