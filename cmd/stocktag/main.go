package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/stocktag/stocktag/internal/app"
	"github.com/stocktag/stocktag/internal/barcodes"
	"github.com/stocktag/stocktag/internal/labels"
	"github.com/stocktag/stocktag/internal/masterdata/categories"
	"github.com/stocktag/stocktag/internal/masterdata/currencies"
	"github.com/stocktag/stocktag/internal/masterdata/properties"
	"github.com/stocktag/stocktag/internal/masterdata/units"
	"github.com/stocktag/stocktag/internal/observability"
	"github.com/stocktag/stocktag/internal/platform/cache"
	"github.com/stocktag/stocktag/internal/platform/db"
	"github.com/stocktag/stocktag/internal/products"
	"github.com/stocktag/stocktag/jobs"
	"github.com/stocktag/stocktag/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// the label cache degrades to a no-op without Redis
		logger.Warn("redis unavailable", slog.Any("error", err))
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	currenciesHandler := currencies.NewHandler(logger, currencies.NewService(currencies.NewRepository(dbpool)))
	unitsHandler := units.NewHandler(logger, units.NewService(units.NewRepository(dbpool)))
	categoriesHandler := categories.NewHandler(logger, categories.NewService(categories.NewRepository(dbpool)))

	propertiesService := properties.NewService(properties.NewRepository(dbpool))
	propertiesHandler := properties.NewHandler(logger, propertiesService)

	productsService := products.NewService(products.NewRepository(dbpool), propertiesService)
	productsHandler := products.NewHandler(logger, productsService)

	reportClient := report.NewClient(cfg.GotenbergURL)
	if err := reportClient.Ping(ctx); err != nil {
		logger.Warn("gotenberg ping", slog.Any("error", err))
	}
	labelService := labels.NewService(reportClient,
		cache.NewBytes(redisClient, cfg.LabelCacheTTL),
		labels.Config{
			BrandPropertyID: cfg.LabelBrandPropertyID,
			ColorPropertyID: cfg.LabelColorPropertyID,
			DefaultLanguage: cfg.DefaultLanguage,
		})

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	barcodesService := barcodes.NewService(
		barcodes.NewRepository(dbpool),
		barcodes.NewReferenceIndex(dbpool),
		labelService,
		jobClient,
		logger,
		barcodes.ServiceConfig{ImageBaseURL: cfg.ImageBaseURL},
	)
	barcodesHandler := barcodes.NewHandler(logger, barcodesService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		BarcodesHandler:   barcodesHandler,
		ProductsHandler:   productsHandler,
		CurrenciesHandler: currenciesHandler,
		UnitsHandler:      unitsHandler,
		CategoriesHandler: categoriesHandler,
		PropertiesHandler: propertiesHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
