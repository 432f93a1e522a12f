package catalog

import (
	"context"
	_ "embed"
	"encoding/json"

	"Palaniappa/internal/schema"
)

//go:embed seed.json
var seedJSON []byte

// Seed returns a fresh copy of the demo inventory: ten products in each of
// the gold, silver, diamonds and new-arrivals categories.
func Seed() []schema.NewProduct {
	var out []schema.NewProduct
	if err := json.Unmarshal(seedJSON, &out); err != nil {
		panic("catalog: bad embedded seed: " + err.Error())
	}
	return out
}

// LoadSeed inserts seed into s when s holds no products yet and reports how
// many records were written.
func LoadSeed(ctx context.Context, s Store, seed []schema.NewProduct) (int, error) {
	existing, err := s.GetAllProducts(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, np := range seed {
		if _, err := s.CreateProduct(ctx, np); err != nil {
			return i, err
		}
	}
	return len(seed), nil
}
