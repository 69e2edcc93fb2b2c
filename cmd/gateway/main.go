package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"DemoShop/internal/config"
	"DemoShop/internal/gateway"
	"DemoShop/pkg/kit"
)

func main() {
	service := "gateway"

	cfg, err := config.Load("8080")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	h, err := gateway.NewHandler(
		gateway.Deps{
			CatalogURL: cfg.CatalogURL,
			UsersURL:   cfg.UsersURL,
		},
		gateway.HTTPDeps{
			Log:            log,
			Service:        service,
			Registry:       prometheus.NewRegistry(),
			MetricsEnabled: cfg.MetricsEnabled,
			MetricsToken:   cfg.MetricsToken,
			CORSOrigins:    cfg.CORSOrigins,
		},
	)
	if err != nil {
		log.Fatal("init gateway handler failed", zap.Error(err))
	}

	log.Info("proxying",
		zap.String("catalog", cfg.CatalogURL),
		zap.String("users", cfg.UsersURL),
	)

	if err := kit.RunHTTPServer(cfg.Addr(), h, log, cfg.ShutdownTimeout); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
