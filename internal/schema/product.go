// Package schema holds the catalog entity shapes shared by the store, the
// HTTP surface and the cart, together with their input validation.
package schema

import "slices"

// Known product categories. The store accepts any category text; only the
// HTTP create/update path restricts input to this set.
const (
	CategoryGold        = "gold"
	CategorySilver      = "silver"
	CategoryDiamonds    = "diamonds"
	CategoryNewArrivals = "new-arrivals"
)

var Categories = []string{CategoryGold, CategorySilver, CategoryDiamonds, CategoryNewArrivals}

func IsKnownCategory(c string) bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Product is a catalog record. Prices are decimal amounts carried as text.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	PriceInr      string   `json:"priceInr"`
	PriceBhd      string   `json:"priceBhd"`
	Weight        *string  `json:"weight"`
	StockQuantity int      `json:"stockQuantity"`
	ImageURLs     []string `json:"imageUrls"`
	IsNewArrival  bool     `json:"isNewArrival"`
	IsFeatured    bool     `json:"isFeatured"`
}

// Clone returns a copy of p that shares no slices or pointers with it.
func (p Product) Clone() Product {
	p.Weight = cloneString(p.Weight)
	p.ImageURLs = slices.Clone(p.ImageURLs)
	return p
}

// NewProduct is the insertable shape: every Product field except the id.
type NewProduct struct {
	Name          string   `json:"name" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	Category      string   `json:"category" validate:"required,category"`
	PriceInr      string   `json:"priceInr" validate:"required,price"`
	PriceBhd      string   `json:"priceBhd" validate:"required,price"`
	Weight        *string  `json:"weight"`
	StockQuantity int      `json:"stockQuantity" validate:"gte=0"`
	ImageURLs     []string `json:"imageUrls" validate:"required,min=1,dive,required"`
	IsNewArrival  bool     `json:"isNewArrival"`
	IsFeatured    bool     `json:"isFeatured"`
}

// WithID builds the stored record for np.
func (np NewProduct) WithID(id string) Product {
	return Product{
		ID:            id,
		Name:          np.Name,
		Description:   np.Description,
		Category:      np.Category,
		PriceInr:      np.PriceInr,
		PriceBhd:      np.PriceBhd,
		Weight:        cloneString(np.Weight),
		StockQuantity: np.StockQuantity,
		ImageURLs:     slices.Clone(np.ImageURLs),
		IsNewArrival:  np.IsNewArrival,
		IsFeatured:    np.IsFeatured,
	}
}

// ProductPatch is a partial update. Nil fields are left untouched.
type ProductPatch struct {
	Name          *string   `json:"name,omitempty" validate:"omitnil,min=1"`
	Description   *string   `json:"description,omitempty" validate:"omitnil,min=1"`
	Category      *string   `json:"category,omitempty" validate:"omitnil,category"`
	PriceInr      *string   `json:"priceInr,omitempty" validate:"omitnil,price"`
	PriceBhd      *string   `json:"priceBhd,omitempty" validate:"omitnil,price"`
	Weight        *string   `json:"weight,omitempty"`
	StockQuantity *int      `json:"stockQuantity,omitempty" validate:"omitnil,gte=0"`
	ImageURLs     *[]string `json:"imageUrls,omitempty" validate:"omitnil,min=1,dive,required"`
	IsNewArrival  *bool     `json:"isNewArrival,omitempty"`
	IsFeatured    *bool     `json:"isFeatured,omitempty"`
}

// Apply merges the present fields of pp into p and returns the result.
// The id is never changed.
func (pp ProductPatch) Apply(p Product) Product {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.PriceInr != nil {
		p.PriceInr = *pp.PriceInr
	}
	if pp.PriceBhd != nil {
		p.PriceBhd = *pp.PriceBhd
	}
	if pp.Weight != nil {
		p.Weight = cloneString(pp.Weight)
	}
	if pp.StockQuantity != nil {
		p.StockQuantity = *pp.StockQuantity
	}
	if pp.ImageURLs != nil {
		p.ImageURLs = slices.Clone(*pp.ImageURLs)
	}
	if pp.IsNewArrival != nil {
		p.IsNewArrival = *pp.IsNewArrival
	}
	if pp.IsFeatured != nil {
		p.IsFeatured = *pp.IsFeatured
	}
	return p
}

// IsEmpty reports whether the patch carries no fields.
func (pp ProductPatch) IsEmpty() bool {
	return pp == ProductPatch{}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
