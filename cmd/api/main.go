package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agriferti/agriferti-backend/api/routes"
	"github.com/agriferti/agriferti-backend/internal/auth"
	customer "github.com/agriferti/agriferti-backend/internal/customers"
	"github.com/agriferti/agriferti-backend/internal/health"
	product "github.com/agriferti/agriferti-backend/internal/products"
	report "github.com/agriferti/agriferti-backend/internal/reports"
	sale "github.com/agriferti/agriferti-backend/internal/sales"
	"github.com/agriferti/agriferti-backend/pkg/auth/session"
	"github.com/agriferti/agriferti-backend/pkg/config"
	"github.com/agriferti/agriferti-backend/pkg/db"
	"github.com/agriferti/agriferti-backend/pkg/logger"
	"github.com/agriferti/agriferti-backend/pkg/metrics"
	"github.com/agriferti/agriferti-backend/pkg/migrate"
	"github.com/agriferti/agriferti-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	saleMetrics := metrics.NewSaleMetrics(registry)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       auth.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		OTPStore:       redisClient,
		OTPSender:      auth.NewLogSender(logg),
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		OTPConfig:      cfg.OTP,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productRepo := product.NewRepository(dbClient.DB())
	customerRepo := customer.NewRepository(dbClient.DB())
	saleRepo := sale.NewRepository(dbClient.DB())

	productService, err := product.NewService(productRepo, saleRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	customerService, err := customer.NewService(customerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	saleService, err := sale.NewService(dbClient, saleRepo, productRepo, customerRepo, saleMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sale service", err)
		os.Exit(1)
	}

	reportService, err := report.NewService(saleRepo, productRepo, customerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create report service", err)
		os.Exit(1)
	}

	monitor, err := health.NewMonitor(dbClient, redisClient, cfg.Health.PollInterval, saleMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create health monitor", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go monitor.Run(ctx)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, sessionManager, monitor, registry, routes.Services{
			Auth:      authService,
			Products:  productService,
			Customers: customerService,
			Sales:     saleService,
			Reports:   reportService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(logCtx, "graceful shutdown failed", err)
		}
		logg.Info(logCtx, "api server stopped")
	}
}
