// Package domain models facility searches against the TomTom Search API.
//
// # Search pipeline
//
// One search composes three provider lookups:
//
//  1. Geocoding: free-text reference address → candidates, each carrying a
//     provider-normalized label ("freeformAddress"), WGS-84 coordinates,
//     and a confidence score. The first candidate is authoritative; the
//     provider's own best-score-first ordering is trusted, not recomputed.
//  2. Category catalogue: the provider only accepts numeric POI category
//     codes (e.g. 7321 for hospitals), so free-text tokens like "hospital"
//     or "medical center" are resolved against the catalogue's names and
//     synonyms. The catalogue is fetched once per process and cached for
//     its lifetime; staleness is an accepted trade-off.
//  3. Nearby search: (lat, lon, radius, categorySet) → POI list with
//     distance from origin. The provider expects the radius in meters;
//     callers supply kilometers, and the orchestrator converts exactly
//     once at the nearby-search boundary.
//
// # Units
//
// Radius values travel in two units. SearchQuery.RadiusKm is the caller's
// kilometer value, echoed back verbatim and stored in history records so a
// replayed record re-enters the pipeline unchanged. The meter value exists
// only on the wire to the nearby-search endpoint. Keeping the conversion in
// one place prevents the classic double-conversion bug (1000x oversized
// radii).
//
// # Failures
//
// Failures never cross the orchestrator boundary as errors; they are
// returned as data in SearchOutcome.Failure and rendered by the caller.
// Malformed individual provider entries are dropped during normalization
// and do not fail the search.
//
// # Replay
//
// A completed search's parameters encode to a flat query-string form
// (address, radius, type) suitable for a navigable link, matching the
// history links the web client renders. DecodeQuery is the sole entry
// point by which a stored record re-enters the pipeline.
package domain
