package domain

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
)

// ErrIncompleteRecord marks a stored history record that cannot be replayed
// because a field is missing or the radius is not a positive number.
var ErrIncompleteRecord = errors.New("incomplete history record")

// Replay link parameter names, matching the query strings the web client
// renders on history cards.
const (
	replayKeyAddress = "address"
	replayKeyRadius  = "radius"
	replayKeyType    = "type"
)

// EncodeQuery converts a search query to its flat link representation.
// Encoding is lossless for all three fields.
func EncodeQuery(q SearchQuery) url.Values {
	return url.Values{
		replayKeyAddress: {q.Address},
		replayKeyRadius:  {strconv.FormatFloat(q.RadiusKm, 'f', -1, 64)},
		replayKeyType:    {q.Category},
	}
}

// DecodeQuery reconstructs a search query from its link representation.
// It returns ErrIncompleteRecord when any field is missing or the radius is
// not a positive finite number, applying the same positivity rule the
// orchestrator enforces on fresh input.
func DecodeQuery(v url.Values) (SearchQuery, error) {
	address := v.Get(replayKeyAddress)
	radiusStr := v.Get(replayKeyRadius)
	category := v.Get(replayKeyType)

	if address == "" || radiusStr == "" || category == "" {
		return SearchQuery{}, fmt.Errorf("%w: missing field", ErrIncompleteRecord)
	}

	radius, err := strconv.ParseFloat(radiusStr, 64)
	if err != nil {
		return SearchQuery{}, fmt.Errorf("%w: radius %q is not a number", ErrIncompleteRecord, radiusStr)
	}
	if radius <= 0 || math.IsInf(radius, 0) || math.IsNaN(radius) {
		return SearchQuery{}, fmt.Errorf("%w: radius must be positive, got %v", ErrIncompleteRecord, radius)
	}

	return SearchQuery{
		Address:  address,
		RadiusKm: radius,
		Category: category,
	}, nil
}
