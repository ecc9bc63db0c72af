package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"fakepost/internal/bootstrap"
	"fakepost/internal/http/handlers"
	"fakepost/internal/http/httpapi"
	"fakepost/internal/infra"
	"fakepost/internal/infra/geoip"
	"fakepost/internal/session"
	"fakepost/internal/templates"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
	}

	apiKey := bootstrap.APIKey(ctx, cfg, pool, &logger)
	gw, err := bootstrap.Gateway(ctx, cfg, apiKey, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create gateway")
	}

	sessions := session.NewStore(session.DefaultTTL)
	go sessions.Run(ctx, time.Minute)
	svc := bootstrap.Orchestrator(cfg, gw, sessions, &logger)

	store, closeStore, err := bootstrap.TemplateStore(ctx, cfg, pool, &logger)
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.TemplateStore).Msg("failed to open template store")
	}
	defer closeStore()

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
		resolver = nil
	}
	if closer, ok := resolver.(interface{ Close() error }); ok {
		defer func() { _ = closer.Close() }()
	}

	app := handlers.NewApp(svc, templates.NewService(store, &logger), &logger)
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		CORSOrigins:     cfg.CORSOrigins,
		DefaultLocale:   "en",
		CountryLookup:   geoip.Lookup(resolver),
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(cfg, router)
	go func() {
		logger.Info().Str("addr", server.Addr()).Str("backend", cfg.GenAIBackend).Str("templates", cfg.TemplateStore).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	svc.Wait()
	logger.Info().Msg("server stopped")
}
