// Package processor provides stateless transformations over stock record
// collections: search/filter/sort pipelines and portfolio aggregation.
package processor

import (
	"sort"
	"strings"

	"StockPulse/internal/domain/models"
)

// FilterSortSearch runs the fixed pipeline search -> filters -> sort over a
// copy of records. Search matches case-insensitively against code and name.
// gainersOnly/losersOnly filter on the sign of PriceChange (strictly > 0 and
// < 0; zero change matches neither, and requesting both yields no rows).
// The sort is not guaranteed stable for equal keys.
func FilterSortSearch(records []models.StockRecord, opts models.FilterSortOptions) []models.StockRecord {
	out := make([]models.StockRecord, 0, len(records))

	search := strings.ToLower(strings.TrimSpace(opts.Search))
	for _, r := range records {
		if search != "" &&
			!strings.Contains(strings.ToLower(r.Code), search) &&
			!strings.Contains(strings.ToLower(r.Name), search) {
			continue
		}
		if opts.MinPrice != nil && r.CurrentPrice < *opts.MinPrice {
			continue
		}
		if opts.MaxPrice != nil && r.CurrentPrice > *opts.MaxPrice {
			continue
		}
		if opts.GainersOnly && r.PriceChange <= 0 {
			continue
		}
		if opts.LosersOnly && r.PriceChange >= 0 {
			continue
		}
		out = append(out, r)
	}

	if opts.SortBy != "" {
		desc := strings.EqualFold(opts.SortOrder, "desc")
		sort.Slice(out, func(i, j int) bool {
			less := compareField(out[i], out[j], opts.SortBy)
			if desc {
				return !less
			}
			return less
		})
	}

	return out
}

// compareField reports whether a sorts before b on the given field ascending.
// String fields are lower-cased before comparison; unknown fields fall back to
// code.
func compareField(a, b models.StockRecord, field string) bool {
	switch field {
	case "name":
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	case "sector":
		return strings.ToLower(a.Sector) < strings.ToLower(b.Sector)
	case "currentPrice":
		return a.CurrentPrice < b.CurrentPrice
	case "priceChange":
		return a.PriceChange < b.PriceChange
	case "priceChangePct":
		return a.PriceChangePct < b.PriceChangePct
	case "volume":
		return a.Volume < b.Volume
	case "marketCap":
		return a.MarketCap < b.MarketCap
	default:
		return strings.ToLower(a.Code) < strings.ToLower(b.Code)
	}
}
