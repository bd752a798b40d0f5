package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

var configKeys = []string{
	"PORT", "SQUARE_ENVIRONMENT", "SQUARE_BASE_URL", "SQUARE_ACCESS_TOKEN", "SQUARE_WEBHOOK_SIGNATURE_KEY",
	"PUBLIC_BASE_URL", "REDIS_URL", "CACHE_TTL_SECONDS", "API_KEY", "CORS_ALLOWED_ORIGINS",
	"ENV", "LOG_LEVEL", "LOG_PRETTY",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := &Config{
		Port:               "8080",
		SquareEnvironment:  "sandbox",
		PublicBaseURL:      "http://localhost:3000",
		RedisURL:           "redis://localhost:6379",
		CacheTTL:           300 * time.Second,
		CORSAllowedOrigins: []string{"*"},
		Env:                "development",
		LogLevel:           "info",
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Load() = %+v\nwant %+v", cfg, want)
	}
	if cfg.NotificationURL() != "http://localhost:3000/api/webhooks/square" {
		t.Errorf("NotificationURL() = %q", cfg.NotificationURL())
	}
	if cfg.IsProduction() {
		t.Error("Expected development mode")
	}
	if cfg.Square().BaseURL != "https://connect.squareupsandbox.com/v2" {
		t.Errorf("Square().BaseURL = %q", cfg.Square().BaseURL)
	}
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SQUARE_ENVIRONMENT", "production")
	t.Setenv("SQUARE_ACCESS_TOKEN", "tok")
	t.Setenv("SQUARE_WEBHOOK_SIGNATURE_KEY", "sig")
	t.Setenv("PUBLIC_BASE_URL", "https://menu.example.com")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("API_KEY", "secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_PRETTY", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" || cfg.SquareAccessToken != "tok" || cfg.WebhookSignatureKey != "sig" || cfg.APIKey != "secret" {
		t.Errorf("Unexpected config: %+v", cfg)
	}
	if cfg.CacheTTL != time.Minute {
		t.Errorf("CacheTTL = %v, want 1m", cfg.CacheTTL)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.IsProduction() || !cfg.LogPretty {
		t.Errorf("Expected production with pretty logs, got %+v", cfg)
	}
	if cfg.NotificationURL() != "https://menu.example.com/api/webhooks/square" {
		t.Errorf("NotificationURL() = %q", cfg.NotificationURL())
	}

	sc := cfg.Square()
	if sc.BaseURL != "https://connect.squareup.com/v2" || sc.AccessToken != "tok" {
		t.Errorf("Square() = %+v", sc)
	}
}

func TestSquare_BaseURLOverride(t *testing.T) {
	cfg := &Config{SquareEnvironment: "production", SquareBaseURL: "http://127.0.0.1:9999/v2"}
	if got := cfg.Square().BaseURL; got != "http://127.0.0.1:9999/v2" {
		t.Errorf("BaseURL = %q, want override", got)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_TTL_SECONDS", "soon")
	t.Setenv("LOG_PRETTY", "maybe")

	cfg, _ := Load(filepath.Join(t.TempDir(), "missing.env"))
	if cfg.CacheTTL != 300*time.Second {
		t.Errorf("CacheTTL = %v, want default", cfg.CacheTTL)
	}
	if cfg.LogPretty {
		t.Error("Expected LogPretty default")
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")

	path := filepath.Join(t.TempDir(), ".env")
	content := "SQUARE_ACCESS_TOKEN=from-file\nPORT=1234\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("SQUARE_ACCESS_TOKEN") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SquareAccessToken != "from-file" {
		t.Errorf("SquareAccessToken = %q, want from-file", cfg.SquareAccessToken)
	}
	if cfg.Port != "7000" {
		t.Errorf("Port = %q, environment should win over .env", cfg.Port)
	}
}
