package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Palaniappa/internal/schema"
)

func names(ps []schema.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func listing() []schema.Product {
	return []schema.Product{
		{Name: "Chain", Description: "plain chain", PriceInr: "75000"},
		{Name: "Tiara", Description: "diamond tiara", PriceInr: "650000", IsFeatured: true},
		{Name: "Toe Ring", Description: "silver toe ring", PriceInr: "4500", IsNewArrival: true},
		{Name: "Bangle", Description: "gold bangle", PriceInr: "100000", IsFeatured: true, IsNewArrival: true},
		{Name: "Pin", Description: "nose pin", PriceInr: "50000"},
	}
}

func TestParseOptions(t *testing.T) {
	o, err := ParseSortOption("")
	require.NoError(t, err)
	assert.Equal(t, SortFeatured, o)

	_, err = ParseSortOption("alphabetical")
	assert.Error(t, err)

	b, err := ParsePriceBand("")
	require.NoError(t, err)
	assert.Equal(t, PriceAll, b)

	_, err = ParsePriceBand("cheap")
	assert.Error(t, err)
}

func TestListOptions_PriceBands(t *testing.T) {
	cases := map[PriceBand][]string{
		PriceAll:    {"Tiara", "Bangle", "Chain", "Toe Ring", "Pin"},
		PriceLow:    {"Toe Ring"},
		PriceMedium: {"Chain", "Bangle", "Pin"},
		PriceHigh:   {"Tiara"},
	}
	for band, want := range cases {
		got := ListOptions{Price: band, Sort: SortPriceHigh}.Apply(listing())
		assert.ElementsMatch(t, want, names(got), band)
	}
}

func TestListOptions_Sorts(t *testing.T) {
	in := listing()

	assert.Equal(t, []string{"Toe Ring", "Pin", "Chain", "Bangle", "Tiara"}, names(ListOptions{Sort: SortPriceLow}.Apply(in)))
	assert.Equal(t, []string{"Tiara", "Bangle", "Chain", "Pin", "Toe Ring"}, names(ListOptions{Sort: SortPriceHigh}.Apply(in)))
	assert.Equal(t, []string{"Tiara", "Bangle", "Chain", "Toe Ring", "Pin"}, names(ListOptions{Sort: SortFeatured}.Apply(in)))
	assert.Equal(t, []string{"Toe Ring", "Bangle", "Chain", "Tiara", "Pin"}, names(ListOptions{Sort: SortNewest}.Apply(in)))

	assert.Equal(t, "Chain", in[0].Name, "input is left untouched")
}

func TestListOptions_Query(t *testing.T) {
	got := ListOptions{Query: "  RING ", Sort: SortPriceLow}.Apply(listing())
	assert.Equal(t, []string{"Toe Ring"}, names(got))

	got = ListOptions{Query: "gold"}.Apply(listing())
	assert.Equal(t, []string{"Bangle"}, names(got))
}

func TestListOptions_BadPriceCountsAsZero(t *testing.T) {
	in := []schema.Product{{Name: "A", PriceInr: "1000"}, {Name: "B", PriceInr: "n/a"}}
	assert.Equal(t, []string{"B", "A"}, names(ListOptions{Sort: SortPriceLow}.Apply(in)))
}
