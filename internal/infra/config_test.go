package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"GENAI_BACKEND", "TEMPLATE_STORE", "VIDEO_POLL_INTERVAL_SECONDS", "VIDEO_POLL_MAX_ATTEMPTS", "VIDEO_TIMEOUT_SECONDS", "CORS_ALLOWED_ORIGINS", "GEMINI_API_KEY"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.GenAIBackend != BackendREST || cfg.TemplateStore != TemplateStoreFile {
		t.Fatalf("backend/store = %q/%q", cfg.GenAIBackend, cfg.TemplateStore)
	}
	if cfg.VideoPollInterval != 5*time.Second || cfg.VideoPollMaxAttempts != 60 || cfg.VideoTimeout != 6*time.Minute {
		t.Fatalf("poll settings = %s %d %s", cfg.VideoPollInterval, cfg.VideoPollMaxAttempts, cfg.VideoTimeout)
	}
	if cfg.GeminiVoice != "Algenib" || cfg.GeminiTextModel != "gemini-2.0-flash" {
		t.Fatalf("gemini defaults = %q %q", cfg.GeminiVoice, cfg.GeminiTextModel)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("CORSOrigins = %#v", cfg.CORSOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("VIDEO_POLL_INTERVAL_SECONDS", "2")
	t.Setenv("VIDEO_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("GENAI_BACKEND", "SDK")
	t.Setenv("RANDOM_SEED", "42")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.VideoPollInterval != 2*time.Second {
		t.Fatalf("VideoPollInterval = %s", cfg.VideoPollInterval)
	}
	if cfg.VideoTimeout != 6*time.Minute {
		t.Fatalf("malformed VIDEO_TIMEOUT_SECONDS should keep the default, got %s", cfg.VideoTimeout)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("CORSOrigins = %#v", cfg.CORSOrigins)
	}
	if cfg.GenAIBackend != BackendSDK || cfg.RandomSeed != 42 {
		t.Fatalf("backend = %q seed = %d", cfg.GenAIBackend, cfg.RandomSeed)
	}
}

func TestLoadConfigRejectsIncompleteStores(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"redis without url", map[string]string{"TEMPLATE_STORE": "redis", "REDIS_URL": ""}},
		{"postgres without url", map[string]string{"TEMPLATE_STORE": "postgres", "DATABASE_URL": ""}},
		{"unknown store", map[string]string{"TEMPLATE_STORE": "s3"}},
		{"unknown backend", map[string]string{"GENAI_BACKEND": "grpc"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
