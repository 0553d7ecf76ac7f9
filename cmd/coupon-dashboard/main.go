package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/Cheertaboi/coupon-dashboard/internal/api"
	"github.com/Cheertaboi/coupon-dashboard/internal/api/handlers"
	"github.com/Cheertaboi/coupon-dashboard/internal/cache"
	"github.com/Cheertaboi/coupon-dashboard/internal/config"
	"github.com/Cheertaboi/coupon-dashboard/internal/metrics"
	"github.com/Cheertaboi/coupon-dashboard/internal/models"
	"github.com/Cheertaboi/coupon-dashboard/internal/repository"
	"github.com/Cheertaboi/coupon-dashboard/internal/service"
	"github.com/Cheertaboi/coupon-dashboard/pkg/db"
)

func main() {
	// -h also lists the environment variables
	flag.Usage = config.Usage(flag.CommandLine.Output(), flag.Usage)
	flag.Parse()

	// init config: cleanenv
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	// init logger: log/slog
	log := setupLogger(cfg.Env)
	log.Info("starting coupon-dashboard",
		slog.String("env", cfg.Env),
		slog.String("source", cfg.Source.Mode),
	)
	metrics.Register()

	loc := cfg.Location()
	httpClient := &http.Client{Timeout: cfg.Upstream.Timeout}

	source, err := newSource(context.Background(), cfg, httpClient, log)
	if err != nil {
		log.Error("init compras source", slog.Any("error", err))
		os.Exit(1)
	}
	geo := repository.NewGeoAPI(cfg.Upstream.GeoBaseURL, httpClient, log)

	pageCache := cache.New[*models.ComprasPage](cache.Options{
		TTL:         cfg.Cache.TTL,
		MaxStale:    cfg.Cache.MaxStale,
		LoadTimeout: cfg.Cache.LoadTimeout,
		MaxEntries:  cfg.Cache.MaxEntries,
		Logger:      log,
	})
	compras := service.NewComprasService(source, pageCache, log)
	lookups := service.NewLookupService(source, geo, service.RetryConfig{
		Attempts: cfg.Lookup.RetryAttempts,
		Delay:    cfg.Lookup.RetryDelay,
		MaxDelay: cfg.Lookup.RetryMaxDelay,
	}, cfg.Cache.LookupTTL, log)
	exports := service.NewExportService(source, log)

	tmpl, err := handlers.ParseTemplates(loc)
	if err != nil {
		log.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	router := api.NewRouter(
		handlers.NewDashboardHandler(compras, lookups, exports, service.NewViewRegistry(cfg.ViewIdle), tmpl, log),
		handlers.NewAPIHandler(compras, lookups, exports, log),
		log,
	)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("HTTP server Shutdown", slog.Any("error", err))
		}
		close(idleConnsClosed)
	}()

	log.Info("listening", slog.String("addr", cfg.HTTP.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("listen", slog.Any("error", err))
		os.Exit(1)
	}

	<-idleConnsClosed
	log.Info("server stopped")
}

// newSource picks the purchases source: the remote API, or an in-memory
// dataset read from the Postgres snapshot or a JSON fixture.
func newSource(ctx context.Context, cfg config.Config, client *http.Client, log *slog.Logger) (service.ComprasSource, error) {
	if cfg.Source.Mode == config.SourceLive {
		return repository.NewComprasAPI(cfg.Upstream.ComprasBaseURL, client, log), nil
	}

	var compras []models.Compra
	if cfg.Source.Postgres.Enabled() {
		conn, err := db.NewPostgresConnection(ctx, cfg.Source.Postgres)
		if err != nil {
			return nil, err
		}
		defer conn.Close()

		compras, err = repository.LoadSnapshot(ctx, conn)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		compras, err = repository.LoadFixture(cfg.Source.FixturePath)
		if err != nil {
			return nil, err
		}
	}
	log.Info("offline dataset loaded", slog.Int("compras", len(compras)))
	return repository.NewOfflineRepo(compras, cfg.Location()), nil
}

// configuring the logger
func setupLogger(env string) *slog.Logger {
	switch env {
	case config.EnvLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case config.EnvDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case config.EnvProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
