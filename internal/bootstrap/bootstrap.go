// Package bootstrap assembles the generation stack from configuration. The
// API server and the genctl CLI share it.
package bootstrap

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fakepost/internal/gateway"
	"fakepost/internal/infra"
	"fakepost/internal/infra/credentials"
	"fakepost/internal/orchestrator"
	"fakepost/internal/providers/gemini"
	rest "fakepost/internal/providers/genai"
	"fakepost/internal/session"
	"fakepost/internal/templates"
	"fakepost/internal/video"
)

// APIKey returns the configured Gemini key, falling back to the key stored
// in Postgres when a pool is available.
func APIKey(ctx context.Context, cfg *infra.Config, pool *pgxpool.Pool, logger *infra.Logger) string {
	if cfg.GeminiAPIKey != "" || pool == nil {
		return cfg.GeminiAPIKey
	}
	store := credentials.NewStore(infra.NewSQLRunner(pool, logger))
	key, err := store.GeminiAPIKey(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("bootstrap: read stored gemini key failed")
		return ""
	}
	return key
}

// Gateway builds the provider backend selected by GENAI_BACKEND. Without a
// key the REST backend serves synthetic output.
func Gateway(ctx context.Context, cfg *infra.Config, apiKey string, logger *infra.Logger) (gateway.Gateway, error) {
	if cfg.GenAIBackend == infra.BackendSDK && apiKey != "" {
		return gemini.NewClient(ctx, gemini.Options{APIKey: apiKey, Logger: logger})
	}
	client, err := rest.NewClient(rest.Options{APIKey: apiKey, BaseURL: cfg.GeminiBaseURL, Logger: logger})
	if err != nil {
		return nil, err
	}
	if client.Synthetic() {
		logger.Warn().Msg("GEMINI_API_KEY not set, serving synthetic output")
	} else if cfg.GenAIBackend == infra.BackendSDK {
		logger.Warn().Msg("sdk backend needs an api key, using rest")
	}
	return client, nil
}

// Orchestrator wires the generation service from cfg.
func Orchestrator(cfg *infra.Config, gw gateway.Gateway, sessions *session.Store, logger *infra.Logger) *orchestrator.Service {
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return orchestrator.New(gw, orchestrator.Options{
		Models: orchestrator.Models{
			Text:   cfg.GeminiTextModel,
			Image:  cfg.GeminiImageModel,
			Speech: cfg.GeminiSpeechModel,
			Video:  cfg.GeminiVideoModel,
		},
		Voice: cfg.GeminiVoice,
		Poll: video.Options{
			Interval:    cfg.VideoPollInterval,
			MaxAttempts: cfg.VideoPollMaxAttempts,
			Timeout:     cfg.VideoTimeout,
			Logger:      logger,
		},
		DecorationConcurrency: cfg.DecorationConcurrency,
		DecorationTimeout:     cfg.DecorationTimeout,
		Sessions:              sessions,
		Rand:                  rand.New(rand.NewSource(seed)),
		Logger:                logger,
	})
}

// TemplateStore opens the backend named by TEMPLATE_STORE. The returned
// closer releases any connection it opened.
func TemplateStore(ctx context.Context, cfg *infra.Config, pool *pgxpool.Pool, logger *infra.Logger) (templates.Store, func(), error) {
	switch cfg.TemplateStore {
	case infra.TemplateStoreRedis:
		client, err := templates.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return templates.NewRedisStore(client, 0), func() { _ = client.Close() }, nil
	case infra.TemplateStorePostgres:
		if pool == nil {
			return nil, nil, fmt.Errorf("bootstrap: postgres template store needs a database pool")
		}
		store := templates.NewPostgresStore(infra.NewSQLRunner(pool, logger))
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, nil, fmt.Errorf("bootstrap: ensure template schema: %w", err)
		}
		return store, func() {}, nil
	default:
		store, err := templates.NewFileStore(cfg.TemplateDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
