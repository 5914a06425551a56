package tomtom

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/couchcryptid/facility-finder/internal/domain"
)

// NearbySearch finds facilities of one category around an origin point.
// The radius is forwarded to the provider as-is, in meters.
func (c *Client) NearbySearch(ctx context.Context, origin domain.Coordinates, radiusMeters float64, categoryID int64, page domain.Page) ([]domain.FacilityResult, error) {
	u := fmt.Sprintf("%s/nearbySearch/.json", c.baseURL)
	params := url.Values{
		"key":         {c.key},
		"lat":         {strconv.FormatFloat(origin.Lat, 'f', -1, 64)},
		"lon":         {strconv.FormatFloat(origin.Lon, 'f', -1, 64)},
		"radius":      {strconv.FormatFloat(radiusMeters, 'f', -1, 64)},
		"categorySet": {strconv.FormatInt(categoryID, 10)},
	}
	if page.Limit > 0 {
		params.Set("limit", strconv.Itoa(page.Limit))
	}
	if page.Offset > 0 {
		params.Set("ofs", strconv.Itoa(page.Offset))
	}

	var resp nearbyResponse
	if err := c.getJSON(ctx, u+"?"+params.Encode(), "nearby", &resp); err != nil {
		return nil, err
	}

	results := make([]domain.FacilityResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.ID == "" || r.Poi == nil || r.Poi.Name == "" {
			continue
		}
		f := domain.FacilityResult{
			ID:             r.ID,
			Name:           r.Poi.Name,
			Address:        r.Address.FreeformAddress,
			DistanceMeters: r.Dist,
		}
		if r.Poi.OpeningHours != nil {
			open := r.Poi.OpeningHours.OpenNow
			f.IsOpenNow = &open
		}
		results = append(results, f)
	}
	return results, nil
}

type nearbyResponse struct {
	Results []nearbyResult `json:"results"`
}

type nearbyResult struct {
	ID      string        `json:"id"`
	Dist    float64       `json:"dist"`
	Poi     *nearbyPoi    `json:"poi"`
	Address resultAddress `json:"address"`
}

type nearbyPoi struct {
	Name         string        `json:"name"`
	OpeningHours *openingHours `json:"openingHours"`
}

type openingHours struct {
	OpenNow bool `json:"openNow"`
}
