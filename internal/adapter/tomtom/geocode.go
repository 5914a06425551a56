package tomtom

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/couchcryptid/facility-finder/internal/domain"
)

// Geocode resolves a free-text address to candidates, best score first.
func (c *Client) Geocode(ctx context.Context, address string, limit int) ([]domain.GeocodeCandidate, error) {
	u := fmt.Sprintf("%s/geocode/%s.json", c.baseURL, url.PathEscape(address))
	params := url.Values{
		"key":   {c.key},
		"limit": {strconv.Itoa(limit)},
	}

	var resp geocodeResponse
	if err := c.getJSON(ctx, u+"?"+params.Encode(), "geocode", &resp); err != nil {
		return nil, err
	}

	candidates := make([]domain.GeocodeCandidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		// Entries without a usable label or position are dropped, not fatal.
		if r.Address.FreeformAddress == "" || r.Position == nil {
			continue
		}
		candidates = append(candidates, domain.GeocodeCandidate{
			Label: r.Address.FreeformAddress,
			Coordinates: domain.Coordinates{
				Lat: r.Position.Lat,
				Lon: r.Position.Lon,
			},
			Score: r.Score,
		})
	}
	return candidates, nil
}

// TomTom geocoding response types (subset).

type geocodeResponse struct {
	Results []geocodeResult `json:"results"`
}

type geocodeResult struct {
	Score    float64      `json:"score"`
	Address  resultAddress `json:"address"`
	Position *position    `json:"position"`
}

type resultAddress struct {
	FreeformAddress string `json:"freeformAddress"`
}

type position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
