package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"DemoShop/internal/config"
	"DemoShop/internal/users"
	"DemoShop/pkg/kit"
)

func main() {
	service := "users"

	cfg, err := config.Load("8081")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	store := users.NewMemStore(users.WithHashCost(cfg.BcryptCost))
	if cfg.Seed {
		if err := users.Seed(context.Background(), store); err != nil {
			log.Fatal("seed failed", zap.Error(err))
		}
		log.Info("sample users loaded", zap.Int("count", store.Count()))
	}

	h := users.NewHandler(&users.Server{Log: log, Store: store}, users.HTTPDeps{
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
