package search

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/facility-finder/internal/domain"
)

// AddressResolver maps free-text address input to a geocode candidate.
type AddressResolver struct {
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewAddressResolver creates a resolver over the given geocoding port.
func NewAddressResolver(geocoder domain.Geocoder, logger *slog.Logger) *AddressResolver {
	return &AddressResolver{geocoder: geocoder, logger: logger}
}

// Resolve returns the best candidate for addressText. When previous is
// non-nil and its label still equals the typed text, it is returned without
// a provider round-trip: the user picked a suggestion and did not edit the
// field. ok is false when the provider has no candidate.
func (r *AddressResolver) Resolve(ctx context.Context, addressText string, previous *domain.GeocodeCandidate) (domain.GeocodeCandidate, bool, error) {
	if previous != nil && previous.Label == addressText {
		return *previous, true, nil
	}

	candidates, err := r.geocoder.Geocode(ctx, addressText, 1)
	if err != nil {
		return domain.GeocodeCandidate{}, false, err
	}
	if len(candidates) == 0 {
		return domain.GeocodeCandidate{}, false, nil
	}

	// The provider orders candidates best-score-first; trust it.
	return candidates[0], true, nil
}

// Suggest returns up to limit candidates for addressText, for typed-ahead
// address completion.
func (r *AddressResolver) Suggest(ctx context.Context, addressText string, limit int) ([]domain.GeocodeCandidate, error) {
	if addressText == "" {
		return nil, nil
	}
	return r.geocoder.Geocode(ctx, addressText, limit)
}
