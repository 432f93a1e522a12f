package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"Palaniappa/internal/schema"
)

type SortOption string

const (
	SortFeatured  SortOption = "featured"
	SortPriceLow  SortOption = "price-low"
	SortPriceHigh SortOption = "price-high"
	SortNewest    SortOption = "newest"
)

// PriceBand buckets products by INR price.
type PriceBand string

const (
	PriceAll    PriceBand = "all"
	PriceLow    PriceBand = "low"
	PriceMedium PriceBand = "medium"
	PriceHigh   PriceBand = "high"
)

var (
	bandLowMax  = decimal.NewFromInt(50000)
	bandHighMin = decimal.NewFromInt(100000)
)

func ParseSortOption(s string) (SortOption, error) {
	switch o := SortOption(s); o {
	case "":
		return SortFeatured, nil
	case SortFeatured, SortPriceLow, SortPriceHigh, SortNewest:
		return o, nil
	}
	return "", fmt.Errorf("unknown sort option %q", s)
}

func ParsePriceBand(s string) (PriceBand, error) {
	switch b := PriceBand(s); b {
	case "":
		return PriceAll, nil
	case PriceAll, PriceLow, PriceMedium, PriceHigh:
		return b, nil
	}
	return "", fmt.Errorf("unknown price band %q", s)
}

// ListOptions narrows and orders a product listing.
type ListOptions struct {
	Query string
	Price PriceBand
	Sort  SortOption
}

// Apply filters by name/description query and price band, then sorts. The
// input slice is not modified.
func (o ListOptions) Apply(in []schema.Product) []schema.Product {
	q := strings.ToLower(strings.TrimSpace(o.Query))

	out := make([]schema.Product, 0, len(in))
	for _, p := range in {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		if !o.Price.contains(priceINR(p)) {
			continue
		}
		out = append(out, p)
	}

	switch o.Sort {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b schema.Product) int { return priceINR(a).Cmp(priceINR(b)) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b schema.Product) int { return priceINR(b).Cmp(priceINR(a)) })
	case SortNewest:
		slices.SortStableFunc(out, func(a, b schema.Product) int { return flagFirst(a.IsNewArrival, b.IsNewArrival) })
	case SortFeatured, "":
		slices.SortStableFunc(out, func(a, b schema.Product) int { return flagFirst(a.IsFeatured, b.IsFeatured) })
	}
	return out
}

func (b PriceBand) contains(price decimal.Decimal) bool {
	switch b {
	case PriceLow:
		return price.LessThan(bandLowMax)
	case PriceMedium:
		return !price.LessThan(bandLowMax) && !price.GreaterThan(bandHighMin)
	case PriceHigh:
		return price.GreaterThan(bandHighMin)
	default:
		return true
	}
}

func flagFirst(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

// priceINR treats an unparsable price as zero.
func priceINR(p schema.Product) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(p.PriceInr))
	if err != nil {
		return decimal.Zero
	}
	return d
}
