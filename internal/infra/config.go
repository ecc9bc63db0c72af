package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	CORSOrigins      []string
	GeoIPDBPath      string

	GenAIBackend      string
	GeminiAPIKey      string
	GeminiBaseURL     string
	GeminiTextModel   string
	GeminiImageModel  string
	GeminiSpeechModel string
	GeminiVideoModel  string
	GeminiVoice       string

	VideoPollInterval    time.Duration
	VideoPollMaxAttempts int
	VideoTimeout         time.Duration

	DecorationConcurrency int
	DecorationTimeout     time.Duration

	TemplateStore string
	TemplateDir   string
	RedisURL      string
	DatabaseURL   string

	// RandomSeed seeds random topic selection; zero seeds from the clock.
	RandomSeed int64
}

const (
	BackendREST = "rest"
	BackendSDK  = "sdk"

	TemplateStoreFile     = "file"
	TemplateStoreRedis    = "redis"
	TemplateStorePostgres = "postgres"
)

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		HTTPReadTimeout:  getEnvDuration("HTTP_READ_TIMEOUT_SECONDS", 15*time.Second),
		HTTPWriteTimeout: getEnvDuration("HTTP_WRITE_TIMEOUT_SECONDS", 7*time.Minute),
		HTTPIdleTimeout:  getEnvDuration("HTTP_IDLE_TIMEOUT_SECONDS", 60*time.Second),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		CORSOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:9002")),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),

		GenAIBackend:      strings.ToLower(getEnv("GENAI_BACKEND", BackendREST)),
		GeminiAPIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiBaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiTextModel:   getEnv("GEMINI_TEXT_MODEL", "gemini-2.0-flash"),
		GeminiImageModel:  getEnv("GEMINI_IMAGE_MODEL", "gemini-2.0-flash-preview-image-generation"),
		GeminiSpeechModel: getEnv("GEMINI_SPEECH_MODEL", "gemini-2.5-flash-preview-tts"),
		GeminiVideoModel:  getEnv("GEMINI_VIDEO_MODEL", "veo-2.0-generate-001"),
		GeminiVoice:       getEnv("GEMINI_VOICE", "Algenib"),

		VideoPollInterval:    getEnvDuration("VIDEO_POLL_INTERVAL_SECONDS", 5*time.Second),
		VideoPollMaxAttempts: getEnvInt("VIDEO_POLL_MAX_ATTEMPTS", 60),
		VideoTimeout:         getEnvDuration("VIDEO_TIMEOUT_SECONDS", 6*time.Minute),

		DecorationConcurrency: getEnvInt("DECORATION_CONCURRENCY", 8),
		DecorationTimeout:     getEnvDuration("DECORATION_TIMEOUT_SECONDS", 3*time.Minute),

		TemplateStore: strings.ToLower(getEnv("TEMPLATE_STORE", TemplateStoreFile)),
		TemplateDir:   getEnv("TEMPLATE_DIR", "./data/templates"),
		RedisURL:      os.Getenv("REDIS_URL"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RandomSeed:    int64(getEnvInt("RANDOM_SEED", 0)),
	}

	switch cfg.GenAIBackend {
	case BackendREST, BackendSDK:
	default:
		return nil, fmt.Errorf("GENAI_BACKEND must be %q or %q, got %q", BackendREST, BackendSDK, cfg.GenAIBackend)
	}

	switch cfg.TemplateStore {
	case TemplateStoreFile:
	case TemplateStoreRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when TEMPLATE_STORE=redis")
		}
	case TemplateStorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when TEMPLATE_STORE=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown TEMPLATE_STORE %q", cfg.TemplateStore)
	}

	if cfg.VideoPollMaxAttempts <= 0 {
		return nil, fmt.Errorf("VIDEO_POLL_MAX_ATTEMPTS must be positive")
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvDuration reads a whole number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
