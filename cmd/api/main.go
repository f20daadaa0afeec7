package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pv-viability/internal/api/handlers"
	"pv-viability/internal/api/middleware"
	"pv-viability/internal/api/models"
	"pv-viability/internal/config"
	"pv-viability/internal/data"
	"pv-viability/internal/logging"
	"pv-viability/internal/metrics"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (default: config/config.yaml if present)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.Logging.SlogLevel(), cfg.Logging.Format)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var catalog *data.Catalog
	if cfg.Presets.Dir != "" {
		catalog = data.NewCatalog(cfg.Presets.Dir, logger, m)
		if err := catalog.Reload(); err != nil {
			// Invalid files are skipped; the valid ones are still served.
			logger.Warn("some presets failed to load", slog.Any("error", err))
		}
		logger.Info("presets loaded", slog.String("dir", cfg.Presets.Dir), slog.Int("count", catalog.Len()))
		if cfg.Presets.Watch {
			if err := catalog.Watch(ctx); err != nil {
				logger.Error("preset watch disabled", slog.Any("error", err))
			}
		}
	}

	if cfg.Api.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(cfg, catalog, m, logger)

	srv := &http.Server{
		Addr:              cfg.Api.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting API server", slog.String("addr", srv.Addr), slog.String("env", cfg.Api.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newRouter(cfg *config.AppConfig, catalog *data.Catalog, m *metrics.Metrics, logger *slog.Logger) *gin.Engine {
	router := gin.New()

	// Apply middleware
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(cfg.Api.CorsOrigins))
	router.Use(middleware.Logger(logger, m))

	// Initialize handlers
	calcHandler := handlers.NewCalculationHandler(cfg.Calculation, catalog, m, logger)
	presetHandler := handlers.NewPresetHandler(catalog)
	classHandler := handlers.NewClassHandler(cfg.Calculation)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "presets": catalog.Len()})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/grupo-b", calcHandler.CalculateGrupoB)
		api.POST("/grupo-b/compare", calcHandler.CompareGrupoB)
		api.POST("/grupo-a", calcHandler.CalculateGrupoA)

		api.GET("/presets", presetHandler.ListPresets)
		api.GET("/presets/:name", presetHandler.GetPreset)
		api.GET("/classes", classHandler.ListClasses)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: models.ErrorDetail{
			Code:    models.CodeNotFound,
			Message: "route not found",
		}})
	})
	return router
}
