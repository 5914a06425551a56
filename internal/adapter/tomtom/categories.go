package tomtom

import (
	"context"
	"fmt"
	"net/url"

	"github.com/couchcryptid/facility-finder/internal/domain"
)

// FetchCategories downloads the full POI category tree.
func (c *Client) FetchCategories(ctx context.Context) ([]domain.CategoryDefinition, error) {
	u := fmt.Sprintf("%s/poiCategories.json", c.baseURL)
	params := url.Values{
		"key": {c.key},
	}

	var resp categoriesResponse
	if err := c.getJSON(ctx, u+"?"+params.Encode(), "categories", &resp); err != nil {
		return nil, err
	}

	defs := make([]domain.CategoryDefinition, 0, len(resp.PoiCategories))
	for _, cat := range resp.PoiCategories {
		if cat.ID == 0 || cat.Name == "" {
			continue
		}
		defs = append(defs, domain.CategoryDefinition{
			ID:       cat.ID,
			Name:     cat.Name,
			Synonyms: cat.Synonyms,
		})
	}
	c.logger.Debug("fetched poi categories", "count", len(defs))
	return defs, nil
}

type categoriesResponse struct {
	PoiCategories []poiCategory `json:"poiCategories"`
}

type poiCategory struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Synonyms []string `json:"synonyms"`
}
