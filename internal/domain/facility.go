package domain

import (
	"errors"
	"time"
)

// ErrProviderFailure marks a non-success response from the places provider.
// The orchestrator maps it to FailureProvider; it is never surfaced raw.
var ErrProviderFailure = errors.New("provider request failed")

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeocodeCandidate is one geocoded interpretation of a free-text address.
type GeocodeCandidate struct {
	Label       string      `json:"label"` // provider-normalized address
	Coordinates Coordinates `json:"coordinates"`
	Score       float64     `json:"score"` // provider confidence, higher is better
}

// CategoryDefinition maps a canonical facility category to the provider's
// numeric code. Synonyms are alternate labels accepted during resolution.
type CategoryDefinition struct {
	ID       int64
	Name     string
	Synonyms []string
}

// FacilityResult is a normalized place record from the nearby-search
// provider. List ordering is provider-defined and preserved as-is.
type FacilityResult struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	DistanceMeters float64 `json:"distance_meters"`
	IsOpenNow      *bool   `json:"is_open_now,omitempty"`
}

// SearchQuery holds the effective parameters of one executed search, in the
// caller's units. Category is the free-text token as entered, not the
// resolved provider id.
type SearchQuery struct {
	Address  string  `json:"address"`
	RadiusKm float64 `json:"radius"`
	Category string  `json:"type"`
}

// FailureReason classifies why a search produced no results.
type FailureReason string

const (
	FailureIncompleteInput      FailureReason = "incomplete_input"
	FailureAddressNotUnderstood FailureReason = "address_not_understood"
	FailureUnknownCategory      FailureReason = "unknown_category"
	FailureProvider             FailureReason = "provider_error"
)

// SearchOutcome is the uniform result of one orchestration run. Failure is
// empty on success; an empty Results list with an empty Failure is a valid
// "no results" success. Query echoes the effective parameters for every
// outcome that passed input validation.
type SearchOutcome struct {
	Results []FacilityResult `json:"results"`
	Query   SearchQuery      `json:"query"`
	Failure FailureReason    `json:"failure,omitempty"`
}

// Success reports whether the outcome carries results rather than a failure.
func (o SearchOutcome) Success() bool {
	return o.Failure == ""
}

// Page bounds one page of nearby-search results. Zero values mean
// provider defaults.
type Page struct {
	Limit  int
	Offset int
}

// HistoryRecord is one persisted search, attributed to a caller-supplied
// user id.
type HistoryRecord struct {
	ID        string      `json:"id"`
	UserID    string      `json:"-"`
	Query     SearchQuery `json:"query"`
	CreatedAt time.Time   `json:"created_at"`
}
