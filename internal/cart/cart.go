// Package cart is the shopper's basket: an ordered list of product lines
// mirrored as JSON into a Storage after every change.
package cart

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"Palaniappa/internal/schema"
)

const DefaultKey = "palaniappa-cart"

type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyBHD Currency = "BHD"
)

func ParseCurrency(s string) (Currency, error) {
	switch c := Currency(s); c {
	case CurrencyINR, CurrencyBHD:
		return c, nil
	default:
		return "", fmt.Errorf("unknown currency %q (want INR or BHD)", s)
	}
}

// Item is one cart line. ID is "<productId>-<size>" or "<productId>-default".
type Item struct {
	ID           string         `json:"id"`
	Product      schema.Product `json:"product"`
	Quantity     int            `json:"quantity"`
	SelectedSize string         `json:"selectedSize,omitempty"`
}

func ItemID(productID, selectedSize string) string {
	if selectedSize == "" {
		selectedSize = "default"
	}
	return productID + "-" + selectedSize
}

type Cart struct {
	mu    sync.Mutex
	items []Item

	store Storage
	key   string
	log   *zap.Logger
}

// New rehydrates the cart stored under DefaultKey. A missing, unreadable or
// malformed value yields an empty cart.
func New(store Storage, log *zap.Logger) *Cart {
	return NewWithKey(store, DefaultKey, log)
}

func NewWithKey(store Storage, key string, log *zap.Logger) *Cart {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Cart{store: store, key: key, log: log}
	c.items = c.load()
	return c
}

func (c *Cart) load() []Item {
	raw, ok, err := c.store.Get(c.key)
	if err != nil {
		c.log.Warn("cart load failed, starting empty", zap.String("key", c.key), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		c.log.Warn("cart data unreadable, starting empty", zap.String("key", c.key), zap.Error(err))
		return nil
	}
	return items
}

// persist must be called with mu held.
func (c *Cart) persist() error {
	items := c.items
	if items == nil {
		items = []Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		c.log.Error("cart encode failed", zap.Error(err))
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := c.store.Set(c.key, string(b)); err != nil {
		c.log.Error("cart save failed", zap.String("key", c.key), zap.Error(err))
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// AddToCart merges into the line with the same item id, or appends a new one.
// An empty size and the size "default" share a line. Quantities below one
// count as one.
func (c *Cart) AddToCart(p schema.Product, quantity int, selectedSize string) error {
	if quantity < 1 {
		quantity = 1
	}
	id := ItemID(p.ID, selectedSize)

	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.items, func(it Item) bool { return it.ID == id })
	if i >= 0 {
		c.items[i].Quantity += quantity
	} else {
		c.items = append(c.items, Item{
			ID:           id,
			Product:      p.Clone(),
			Quantity:     quantity,
			SelectedSize: selectedSize,
		})
	}
	return c.persist()
}

func (c *Cart) RemoveFromCart(itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = slices.DeleteFunc(c.items, func(it Item) bool { return it.ID == itemID })
	return c.persist()
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (c *Cart) UpdateQuantity(itemID string, quantity int) error {
	if quantity <= 0 {
		return c.RemoveFromCart(itemID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == itemID {
			c.items[i].Quantity = quantity
		}
	}
	return c.persist()
}

func (c *Cart) ClearCart() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	return c.persist()
}

func (c *Cart) GetTotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// GetTotalPrice sums unit price times quantity in the given currency.
// Prices that do not parse contribute nothing.
func (c *Cart) GetTotalPrice(currency Currency) decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, it := range c.items {
		raw := it.Product.PriceInr
		if currency == CurrencyBHD {
			raw = it.Product.PriceBhd
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			c.log.Warn("unparsable price counted as zero",
				zap.String("item_id", it.ID),
				zap.String("currency", string(currency)),
				zap.String("price", raw),
			)
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// IsInCart reports whether any line holds the product, whatever its size.
func (c *Cart) IsInCart(productID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.ContainsFunc(c.items, func(it Item) bool { return it.Product.ID == productID })
}

// Items returns a copy of the lines in the order they were added.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Item, len(c.items))
	for i, it := range c.items {
		it.Product = it.Product.Clone()
		out[i] = it
	}
	return out
}
