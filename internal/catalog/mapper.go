package catalog

import (
	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// BuildMapping indexes catalog entries by id. When an id appears more than
// once the later entry wins.
func BuildMapping(entries []types.CatalogEntry) map[int]types.CatalogInfo {
	mapping := make(map[int]types.CatalogInfo, len(entries))
	for _, e := range entries {
		mapping[e.ID] = types.CatalogInfo{
			Title:    e.Title,
			Category: e.Category,
			Brand:    e.Brand,
			Rating:   e.Rating,
		}
	}
	return mapping
}
