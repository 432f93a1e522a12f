package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Palaniappa/internal/cart"
	"Palaniappa/internal/catalog"
	"Palaniappa/internal/config"
	"Palaniappa/internal/schema"
	"Palaniappa/pkg/kit"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs once config has been loaded.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	cartKey string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "storectl",
		Short:         "Palaniappa Jewellers admin and cart CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = kit.NewLogger("storectl", cfg.LogLevel)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.cartKey, "cart", cart.DefaultKey, "cart storage key")

	// Database
	root.AddCommand(a.migrateCmd())
	root.AddCommand(a.seedCmd())
	root.AddCommand(a.usersCmd())

	// Catalog
	root.AddCommand(a.productsCmd())

	// Cart
	root.AddCommand(a.cartCmd())

	return root
}

var errNeedPostgres = errors.New("DATABASE_URL is required for this command")

func (a *app) postgres(ctx context.Context) (*catalog.PostgresStore, error) {
	if a.cfg.DatabaseURL == "" {
		return nil, errNeedPostgres
	}
	return catalog.OpenPostgres(ctx, a.cfg.DatabaseURL)
}

// productReader is the read side shared by catalog.Store and the catalog
// service's HTTP client.
type productReader interface {
	GetAllProducts(ctx context.Context) ([]schema.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]schema.Product, error)
	GetFeaturedProducts(ctx context.Context) ([]schema.Product, error)
	GetNewArrivals(ctx context.Context) ([]schema.Product, error)
	SearchProducts(ctx context.Context, query string) ([]schema.Product, error)
}

// products reads from Postgres when STORE_BACKEND selects it. Otherwise it
// asks the catalog service at CATALOG_URL, the same one cart add resolves
// ids against.
func (a *app) products(ctx context.Context) (productReader, func() error, error) {
	if a.cfg.StoreBackend == config.BackendPostgres {
		pg, err := a.postgres(ctx)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	}
	return cart.NewCatalogClient(a.cfg.CatalogURL), func() error { return nil }, nil
}
