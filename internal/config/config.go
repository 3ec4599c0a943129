package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goalsight/matchaudit/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                        string
	ServiceName                   string
	ServiceVersion                string
	HTTPAddr                      string
	DBURL                         string
	CORSAllowedOrigins            []string
	ReadTimeout                   time.Duration
	WriteTimeout                  time.Duration
	PprofEnabled                  bool
	PprofAddr                     string
	UptraceEnabled                bool
	UptraceDSN                    string
	PyroscopeEnabled              bool
	PyroscopeServerAddress        string
	PyroscopeAppName              string
	PyroscopeAuthToken            string
	PyroscopeBasicAuthUser        string
	PyroscopeBasicAuthPassword    string
	PyroscopeUploadRate           time.Duration
	FootDataEnabled               bool
	FootDataBaseURL               string
	FootDataAPIKey                string
	FootDataTimeout               time.Duration
	FootDataMaxRetries            int
	FootDataCircuitEnabled        bool
	FootDataCircuitFailureCount   int
	FootDataCircuitOpenTimeout    time.Duration
	FootDataCircuitHalfOpenProbes int
	WebhookEnabled                bool
	WebhookURL                    string
	WebhookToken                  string
	WebhookTimeout                time.Duration
	InternalJobToken              string
	AuditWindowSize               int
	AuditBatchWorkers             int
	LogLevel                      logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	footDataEnabled, err := strconv.ParseBool(getEnv("FOOTDATA_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTDATA_ENABLED: %w", err)
	}
	footDataTimeout, err := time.ParseDuration(getEnv("FOOTDATA_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTDATA_TIMEOUT: %w", err)
	}
	if footDataTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTDATA_TIMEOUT must be > 0")
	}
	footDataMaxRetries, err := getEnvAsInt("FOOTDATA_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTDATA_MAX_RETRIES: %w", err)
	}
	if footDataMaxRetries < 0 {
		return Config{}, fmt.Errorf("FOOTDATA_MAX_RETRIES must be >= 0")
	}
	footDataCircuitEnabled, err := strconv.ParseBool(getEnv("FOOTDATA_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTDATA_CIRCUIT_ENABLED: %w", err)
	}
	footDataCircuitFailureCount, err := getEnvAsInt("FOOTDATA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTDATA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if footDataCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FOOTDATA_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	footDataCircuitOpenTimeout, err := time.ParseDuration(getEnv("FOOTDATA_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTDATA_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if footDataCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTDATA_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	footDataCircuitHalfOpenProbes, err := getEnvAsInt("FOOTDATA_CIRCUIT_HALF_OPEN_PROBES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTDATA_CIRCUIT_HALF_OPEN_PROBES: %w", err)
	}
	if footDataCircuitHalfOpenProbes < 1 {
		return Config{}, fmt.Errorf("FOOTDATA_CIRCUIT_HALF_OPEN_PROBES must be >= 1")
	}
	footDataBaseURL := strings.TrimSpace(getEnv("FOOTDATA_BASE_URL", "https://api.football-data-api.com"))
	footDataAPIKey := strings.TrimSpace(getEnv("FOOTDATA_API_KEY", ""))
	if footDataEnabled && footDataAPIKey == "" {
		return Config{}, fmt.Errorf("FOOTDATA_API_KEY is required when FOOTDATA_ENABLED=true")
	}

	webhookEnabled, err := strconv.ParseBool(getEnv("REPORT_WEBHOOK_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REPORT_WEBHOOK_ENABLED: %w", err)
	}
	webhookURL := strings.TrimSpace(getEnv("REPORT_WEBHOOK_URL", ""))
	if webhookEnabled && webhookURL == "" {
		return Config{}, fmt.Errorf("REPORT_WEBHOOK_URL is required when REPORT_WEBHOOK_ENABLED=true")
	}
	webhookTimeout, err := time.ParseDuration(getEnv("REPORT_WEBHOOK_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REPORT_WEBHOOK_TIMEOUT: %w", err)
	}
	if webhookTimeout <= 0 {
		return Config{}, fmt.Errorf("REPORT_WEBHOOK_TIMEOUT must be > 0")
	}

	auditWindowSize, err := getEnvAsInt("AUDIT_WINDOW_SIZE", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse AUDIT_WINDOW_SIZE: %w", err)
	}
	if auditWindowSize < 1 {
		return Config{}, fmt.Errorf("AUDIT_WINDOW_SIZE must be >= 1")
	}
	auditBatchWorkers, err := getEnvAsInt("AUDIT_BATCH_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse AUDIT_BATCH_WORKERS: %w", err)
	}
	if auditBatchWorkers < 1 {
		return Config{}, fmt.Errorf("AUDIT_BATCH_WORKERS must be >= 1")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg := Config{
		AppEnv:                        appEnv,
		ServiceName:                   getEnv("APP_SERVICE_NAME", "matchaudit-api"),
		ServiceVersion:                getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                      getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                         getEnv("DB_URL", ""),
		CORSAllowedOrigins:            splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                   readTimeout,
		WriteTimeout:                  writeTimeout,
		PprofEnabled:                  pprofEnabled,
		PprofAddr:                     pprofAddr,
		UptraceEnabled:                uptraceEnabled,
		UptraceDSN:                    uptraceDSN,
		PyroscopeEnabled:              pyroscopeEnabled,
		PyroscopeServerAddress:        pyroscopeServerAddress,
		PyroscopeAuthToken:            strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:        strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:    strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:           pyroscopeUploadRate,
		FootDataEnabled:               footDataEnabled,
		FootDataBaseURL:               footDataBaseURL,
		FootDataAPIKey:                footDataAPIKey,
		FootDataTimeout:               footDataTimeout,
		FootDataMaxRetries:            footDataMaxRetries,
		FootDataCircuitEnabled:        footDataCircuitEnabled,
		FootDataCircuitFailureCount:   footDataCircuitFailureCount,
		FootDataCircuitOpenTimeout:    footDataCircuitOpenTimeout,
		FootDataCircuitHalfOpenProbes: footDataCircuitHalfOpenProbes,
		WebhookEnabled:                webhookEnabled,
		WebhookURL:                    webhookURL,
		WebhookToken:                  strings.TrimSpace(getEnv("REPORT_WEBHOOK_TOKEN", "")),
		WebhookTimeout:                webhookTimeout,
		InternalJobToken:              strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		AuditWindowSize:               auditWindowSize,
		AuditBatchWorkers:             auditBatchWorkers,
		LogLevel:                      logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
