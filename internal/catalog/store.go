package catalog

import (
	"context"
	"errors"

	"Palaniappa/internal/schema"
)

var ErrUsernameTaken = errors.New("username already exists")

// Store is the catalog storage service. Lookups report absence through the
// found/deleted flags; the error return is reserved for backend failures.
type Store interface {
	GetAllProducts(ctx context.Context) ([]schema.Product, error)
	GetProductByID(ctx context.Context, id string) (schema.Product, bool, error)
	GetProductsByCategory(ctx context.Context, category string) ([]schema.Product, error)
	GetFeaturedProducts(ctx context.Context) ([]schema.Product, error)
	GetNewArrivals(ctx context.Context) ([]schema.Product, error)
	CreateProduct(ctx context.Context, np schema.NewProduct) (schema.Product, error)
	UpdateProduct(ctx context.Context, id string, patch schema.ProductPatch) (schema.Product, bool, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)
	SearchProducts(ctx context.Context, query string) ([]schema.Product, error)

	GetUser(ctx context.Context, id string) (schema.User, bool, error)
	GetUserByUsername(ctx context.Context, username string) (schema.User, bool, error)
	CreateUser(ctx context.Context, nu schema.NewUser) (schema.User, error)

	Ping(ctx context.Context) error
	Close() error
}
