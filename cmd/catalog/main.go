package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"DemoShop/internal/catalog"
	"DemoShop/internal/config"
	"DemoShop/pkg/kit"
)

func main() {
	service := "catalog"

	cfg, err := config.Load("8082")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	store := catalog.NewMemStore()
	if cfg.Seed {
		if err := catalog.Seed(context.Background(), store); err != nil {
			log.Fatal("seed failed", zap.Error(err))
		}
		log.Info("sample products loaded", zap.Int("count", store.ActiveCount()))
	}

	h := catalog.NewHandler(&catalog.Server{Store: store, Log: log}, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
		CORSOrigins:    cfg.CORSOrigins,
	})

	if err := kit.RunHTTPServer(cfg.Addr(), h, log, cfg.ShutdownTimeout); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
