package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev/1"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "matchaudit-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "matchaudit-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_FootDataConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("disabled by default", func(t *testing.T) {
		t.Setenv("FOOTDATA_ENABLED", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.FootDataEnabled {
			t.Fatalf("expected FootDataEnabled=false by default")
		}
	})

	t.Run("enabled requires api key", func(t *testing.T) {
		t.Setenv("FOOTDATA_ENABLED", "true")
		t.Setenv("FOOTDATA_API_KEY", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when FOOTDATA_ENABLED=true without FOOTDATA_API_KEY")
		}
	})

	t.Run("enabled with valid values", func(t *testing.T) {
		t.Setenv("FOOTDATA_ENABLED", "true")
		t.Setenv("FOOTDATA_API_KEY", "key-123")
		t.Setenv("FOOTDATA_TIMEOUT", "15s")
		t.Setenv("FOOTDATA_MAX_RETRIES", "2")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.FootDataEnabled {
			t.Fatalf("expected FootDataEnabled=true")
		}
		if cfg.FootDataTimeout != 15*time.Second {
			t.Fatalf("unexpected timeout: %s", cfg.FootDataTimeout)
		}
		if cfg.FootDataMaxRetries != 2 {
			t.Fatalf("unexpected retries: %d", cfg.FootDataMaxRetries)
		}
		if cfg.FootDataCircuitFailureCount != 5 {
			t.Fatalf("unexpected default circuit failure count: %d", cfg.FootDataCircuitFailureCount)
		}
	})
}

func TestLoad_WebhookConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("enabled requires url", func(t *testing.T) {
		t.Setenv("REPORT_WEBHOOK_ENABLED", "true")
		t.Setenv("REPORT_WEBHOOK_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when REPORT_WEBHOOK_ENABLED=true without REPORT_WEBHOOK_URL")
		}
	})

	t.Run("enabled with url", func(t *testing.T) {
		t.Setenv("REPORT_WEBHOOK_ENABLED", "true")
		t.Setenv("REPORT_WEBHOOK_URL", "https://hooks.example.com/audit")
		t.Setenv("REPORT_WEBHOOK_TIMEOUT", "3s")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.WebhookEnabled || cfg.WebhookURL != "https://hooks.example.com/audit" {
			t.Fatalf("unexpected webhook config: %+v", cfg)
		}
		if cfg.WebhookTimeout != 3*time.Second {
			t.Fatalf("unexpected webhook timeout: %s", cfg.WebhookTimeout)
		}
	})
}

func TestLoad_AuditDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("AUDIT_WINDOW_SIZE", "")
	t.Setenv("AUDIT_BATCH_WORKERS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AuditWindowSize != 10 {
		t.Fatalf("unexpected default window size: %d", cfg.AuditWindowSize)
	}
	if cfg.AuditBatchWorkers != 4 {
		t.Fatalf("unexpected default batch workers: %d", cfg.AuditBatchWorkers)
	}

	t.Setenv("AUDIT_WINDOW_SIZE", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-positive AUDIT_WINDOW_SIZE")
	}
}
