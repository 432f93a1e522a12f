package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"Palaniappa/internal/catalog"
	"Palaniappa/internal/config"
	"Palaniappa/pkg/kit"
)

func main() {
	const service = "catalog"

	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(2)
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &catalog.Server{
		Store:        store,
		Log:          log,
		WriteLimiter: kit.NewIPRateLimiter(cfg.WriteLimit, cfg.WriteLimitWindow),
	}
	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsToken != "",
		MetricsToken:   cfg.MetricsToken,
	})

	log.Info("starting", zap.String("port", cfg.Port), zap.String("backend", cfg.StoreBackend))
	if err := kit.RunHTTPServer(ctx, ":"+cfg.Port, h, log, store.Close); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (catalog.Store, error) {
	if cfg.StoreBackend != config.BackendPostgres {
		return catalog.NewStore(), nil
	}

	pg, err := catalog.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx); err != nil {
		_ = pg.Close()
		return nil, err
	}
	n, err := catalog.LoadSeed(ctx, pg, catalog.Seed())
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	if n > 0 {
		log.Info("seeded empty catalog", zap.Int("products", n))
	}
	return pg, nil
}
