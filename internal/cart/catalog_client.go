package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Palaniappa/internal/schema"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCatalogBadStatus   = errors.New("catalog bad status")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// CatalogClient fetches products from the catalog service's /api/products.
type CatalogClient struct {
	BaseURL string
	Client  *http.Client
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 3 * time.Second},
	}
}

func (c *CatalogClient) GetProduct(ctx context.Context, id string) (schema.Product, error) {
	var p schema.Product
	if err := c.get(ctx, "/api/products/"+url.PathEscape(id), &p); err != nil {
		return schema.Product{}, err
	}
	return p, nil
}

func (c *CatalogClient) GetAllProducts(ctx context.Context) ([]schema.Product, error) {
	return c.list(ctx, "/api/products")
}

func (c *CatalogClient) GetProductsByCategory(ctx context.Context, category string) ([]schema.Product, error) {
	return c.list(ctx, "/api/products/category/"+url.PathEscape(category))
}

func (c *CatalogClient) GetFeaturedProducts(ctx context.Context) ([]schema.Product, error) {
	return c.list(ctx, "/api/products/featured/all")
}

func (c *CatalogClient) GetNewArrivals(ctx context.Context) ([]schema.Product, error) {
	return c.list(ctx, "/api/products/new-arrivals/all")
}

func (c *CatalogClient) SearchProducts(ctx context.Context, query string) ([]schema.Product, error) {
	return c.list(ctx, "/api/products/search?"+url.Values{"q": {query}}.Encode())
}

func (c *CatalogClient) list(ctx context.Context, path string) ([]schema.Product, error) {
	var ps []schema.Product
	if err := c.get(ctx, path, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// get decodes a 200 response into v. A 404 maps to ErrProductNotFound.
func (c *CatalogClient) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrProductNotFound
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status=%d", ErrCatalogBadStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
