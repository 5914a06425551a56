package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/facility-finder/internal/domain"
	"github.com/couchcryptid/facility-finder/internal/observability"
)

// Input carries the raw parameters of one search request.
type Input struct {
	Address  string
	RadiusKm float64
	Category string

	// Previous is an optional candidate the user already selected; reused
	// by the address resolver when its label matches Address.
	Previous *domain.GeocodeCandidate

	Page domain.Page
}

// Orchestrator drives the search pipeline: validate, resolve address and
// category concurrently, then run the nearby-search query. All failures are
// returned as SearchOutcome data; no error crosses this boundary.
type Orchestrator struct {
	address  *AddressResolver
	category *CategoryResolver
	places   domain.PlacesSearcher
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewOrchestrator wires the pipeline stages.
func NewOrchestrator(address *AddressResolver, category *CategoryResolver, places domain.PlacesSearcher, metrics *observability.Metrics, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		address:  address,
		category: category,
		places:   places,
		logger:   logger,
		metrics:  metrics,
	}
}

type categoryResolution struct {
	def domain.CategoryDefinition
	ok  bool
	err error
}

// Execute runs one search. An empty result list with a successful provider
// response is a success; the caller renders "no results" from the echoed
// query.
func (o *Orchestrator) Execute(ctx context.Context, in Input) domain.SearchOutcome {
	start := time.Now()
	outcome := o.execute(ctx, in)
	o.metrics.SearchDuration.Observe(time.Since(start).Seconds())

	if outcome.Success() {
		o.metrics.SearchesTotal.WithLabelValues("success").Inc()
	} else {
		o.metrics.SearchesTotal.WithLabelValues(string(outcome.Failure)).Inc()
	}
	return outcome
}

func (o *Orchestrator) execute(ctx context.Context, in Input) domain.SearchOutcome {
	if strings.TrimSpace(in.Address) == "" || in.RadiusKm <= 0 || strings.TrimSpace(in.Category) == "" {
		return domain.SearchOutcome{Failure: domain.FailureIncompleteInput}
	}

	query := domain.SearchQuery{
		Address:  in.Address,
		RadiusKm: in.RadiusKm,
		Category: in.Category,
	}

	// Address and category resolution are independent; fire both, await
	// both. The nearby search must not start until both have resolved.
	catCh := make(chan categoryResolution, 1)
	go func() {
		def, ok, err := o.category.Resolve(ctx, in.Category)
		catCh <- categoryResolution{def: def, ok: ok, err: err}
	}()

	candidate, addrOK, addrErr := o.address.Resolve(ctx, in.Address, in.Previous)
	cat := <-catCh

	if addrErr != nil {
		// A geocode transport failure yields no usable candidate; the user
		// revises the address either way.
		o.logger.Warn("geocoding failed", "address", in.Address, "error", addrErr)
		return domain.SearchOutcome{Query: query, Failure: domain.FailureAddressNotUnderstood}
	}
	if !addrOK {
		return domain.SearchOutcome{Query: query, Failure: domain.FailureAddressNotUnderstood}
	}
	if cat.err != nil {
		o.logger.Warn("category catalogue fetch failed", "error", cat.err)
		return domain.SearchOutcome{Query: query, Failure: domain.FailureProvider}
	}
	if !cat.ok {
		return domain.SearchOutcome{Query: query, Failure: domain.FailureUnknownCategory}
	}

	// The only unit conversion in the pipeline: callers speak kilometers,
	// the provider speaks meters.
	radiusMeters := in.RadiusKm * 1000

	results, err := o.places.NearbySearch(ctx, candidate.Coordinates, radiusMeters, cat.def.ID, in.Page)
	if err != nil {
		o.logger.Warn("nearby search failed",
			"address", candidate.Label,
			"category_id", cat.def.ID,
			"radius_m", radiusMeters,
			"error", err,
		)
		return domain.SearchOutcome{Query: query, Failure: domain.FailureProvider}
	}

	if results == nil {
		results = []domain.FacilityResult{}
	}
	return domain.SearchOutcome{Results: results, Query: query}
}
