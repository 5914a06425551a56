package domain

import "context"

// Geocoder resolves free-text addresses against a geocoding provider.
// An empty candidate slice with a nil error means the provider understood
// the request but found nothing.
type Geocoder interface {
	Geocode(ctx context.Context, address string, limit int) ([]GeocodeCandidate, error)
}

// CategoryCatalog fetches the provider's full POI category catalogue.
type CategoryCatalog interface {
	FetchCategories(ctx context.Context) ([]CategoryDefinition, error)
}

// PlacesSearcher runs a radius-bounded POI query. radiusMeters is already
// in the provider's unit and must be forwarded verbatim.
type PlacesSearcher interface {
	NearbySearch(ctx context.Context, origin Coordinates, radiusMeters float64, categoryID int64, page Page) ([]FacilityResult, error)
}

// HistoryStore persists executed queries for later replay.
type HistoryStore interface {
	Save(ctx context.Context, userID string, q SearchQuery) error
	List(ctx context.Context, userID string) ([]HistoryRecord, error)
}

// OutcomePublisher emits executed-search events to an external sink.
// Publishing is best-effort; failures must not fail the search itself.
type OutcomePublisher interface {
	PublishOutcome(ctx context.Context, o SearchOutcome) error
}
