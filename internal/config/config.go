package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cricbid/auction-platform/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	DBURL                      string
	DBDisablePreparedBinary    bool
	CacheTTL                   time.Duration
	CORSAllowedOrigins         []string
	SessionSubmitTimeout       time.Duration
	SessionInboxSize           int
	SessionTickInterval        time.Duration
	PavilionBaseURL            string
	PavilionIntrospectPath     string
	PavilionTimeout            time.Duration
	PavilionCacheTTL           time.Duration
	PavilionCacheMaxSize       int
	CricFeedEnabled            bool
	CricFeedBaseURL            string
	CricFeedToken              string
	CricFeedTimeout            time.Duration
	CricFeedMaxRetries         int
	CricFeedWorkers            int
	CricFeedCircuitEnabled     bool
	CricFeedCircuitFailures    int
	CricFeedCircuitOpenTimeout time.Duration
	CricFeedCircuitHalfOpenReq int
	QStashEnabled              bool
	QStashBaseURL              string
	QStashToken                string
	QStashTargetBaseURL        string
	QStashRetries              int
	QStashTimeout              time.Duration
	InternalJobToken           string
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	LogLevel                   logging.Level
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
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofAddr == "" {
		pprofAddr = ":6060"
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

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	sessionSubmitTimeout, err := time.ParseDuration(getEnv("SESSION_SUBMIT_TIMEOUT", "2s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSION_SUBMIT_TIMEOUT: %w", err)
	}
	if sessionSubmitTimeout <= 0 {
		return Config{}, fmt.Errorf("SESSION_SUBMIT_TIMEOUT must be > 0")
	}
	sessionInboxSize, err := getEnvAsInt("SESSION_INBOX_SIZE", 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSION_INBOX_SIZE: %w", err)
	}
	if sessionInboxSize < 1 {
		return Config{}, fmt.Errorf("SESSION_INBOX_SIZE must be >= 1")
	}
	sessionTickInterval, err := time.ParseDuration(getEnv("SESSION_TICK_INTERVAL", "1s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSION_TICK_INTERVAL: %w", err)
	}
	if sessionTickInterval <= 0 {
		return Config{}, fmt.Errorf("SESSION_TICK_INTERVAL must be > 0")
	}

	pavilionTimeout, err := time.ParseDuration(getEnv("PAVILION_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PAVILION_TIMEOUT: %w", err)
	}
	if pavilionTimeout <= 0 {
		return Config{}, fmt.Errorf("PAVILION_TIMEOUT must be > 0")
	}
	pavilionCacheTTL, err := time.ParseDuration(getEnv("PAVILION_CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PAVILION_CACHE_TTL: %w", err)
	}
	pavilionCacheMaxSize, err := getEnvAsInt("PAVILION_CACHE_MAX_SIZE", 4096)
	if err != nil {
		return Config{}, fmt.Errorf("parse PAVILION_CACHE_MAX_SIZE: %w", err)
	}

	cricFeedEnabled, err := strconv.ParseBool(getEnv("CRICFEED_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICFEED_ENABLED: %w", err)
	}
	cricFeedToken := strings.TrimSpace(getEnv("CRICFEED_TOKEN", ""))
	if cricFeedEnabled && cricFeedToken == "" {
		return Config{}, fmt.Errorf("CRICFEED_TOKEN is required when CRICFEED_ENABLED=true")
	}
	cricFeedTimeout, err := time.ParseDuration(getEnv("CRICFEED_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICFEED_TIMEOUT: %w", err)
	}
	if cricFeedTimeout <= 0 {
		return Config{}, fmt.Errorf("CRICFEED_TIMEOUT must be > 0")
	}
	cricFeedMaxRetries, err := getEnvAsInt("CRICFEED_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICFEED_MAX_RETRIES: %w", err)
	}
	if cricFeedMaxRetries < 0 {
		return Config{}, fmt.Errorf("CRICFEED_MAX_RETRIES must be >= 0")
	}
	cricFeedWorkers, err := getEnvAsInt("CRICFEED_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICFEED_WORKERS: %w", err)
	}
	if cricFeedWorkers < 1 {
		return Config{}, fmt.Errorf("CRICFEED_WORKERS must be >= 1")
	}
	cricFeedCircuitEnabled, err := strconv.ParseBool(getEnv("CRICFEED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICFEED_CIRCUIT_ENABLED: %w", err)
	}
	cricFeedCircuitFailures, err := getEnvAsInt("CRICFEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICFEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cricFeedCircuitFailures < 1 {
		return Config{}, fmt.Errorf("CRICFEED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cricFeedCircuitOpenTimeout, err := time.ParseDuration(getEnv("CRICFEED_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICFEED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if cricFeedCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("CRICFEED_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cricFeedCircuitHalfOpenReq, err := getEnvAsInt("CRICFEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICFEED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cricFeedCircuitHalfOpenReq < 1 {
		return Config{}, fmt.Errorf("CRICFEED_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	qstashEnabled, err := strconv.ParseBool(getEnv("QSTASH_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_ENABLED: %w", err)
	}
	qstashRetries, err := getEnvAsInt("QSTASH_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_RETRIES: %w", err)
	}
	if qstashRetries < 0 {
		return Config{}, fmt.Errorf("QSTASH_RETRIES must be >= 0")
	}
	qstashTimeout, err := time.ParseDuration(getEnv("QSTASH_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_TIMEOUT: %w", err)
	}
	if qstashTimeout <= 0 {
		return Config{}, fmt.Errorf("QSTASH_TIMEOUT must be > 0")
	}
	qstashToken := strings.TrimSpace(getEnv("QSTASH_TOKEN", ""))
	qstashTargetBaseURL := strings.TrimSpace(getEnv("QSTASH_TARGET_BASE_URL", ""))
	internalJobToken := strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))
	if qstashEnabled {
		if qstashToken == "" {
			return Config{}, fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		}
		if qstashTargetBaseURL == "" {
			return Config{}, fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		}
		if internalJobToken == "" {
			return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")
		}
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "auction-platform-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		DBURL:                      strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary:    dbDisablePreparedBinary,
		CacheTTL:                   cacheTTL,
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SessionSubmitTimeout:       sessionSubmitTimeout,
		SessionInboxSize:           sessionInboxSize,
		SessionTickInterval:        sessionTickInterval,
		PavilionBaseURL:            getEnv("PAVILION_BASE_URL", "http://localhost:8081"),
		PavilionIntrospectPath:     getEnv("PAVILION_INTROSPECT_PATH", "/v1/tokens/introspect"),
		PavilionTimeout:            pavilionTimeout,
		PavilionCacheTTL:           pavilionCacheTTL,
		PavilionCacheMaxSize:       pavilionCacheMaxSize,
		CricFeedEnabled:            cricFeedEnabled,
		CricFeedBaseURL:            strings.TrimSpace(getEnv("CRICFEED_BASE_URL", "https://api.cricfeed.io/v2")),
		CricFeedToken:              cricFeedToken,
		CricFeedTimeout:            cricFeedTimeout,
		CricFeedMaxRetries:         cricFeedMaxRetries,
		CricFeedWorkers:            cricFeedWorkers,
		CricFeedCircuitEnabled:     cricFeedCircuitEnabled,
		CricFeedCircuitFailures:    cricFeedCircuitFailures,
		CricFeedCircuitOpenTimeout: cricFeedCircuitOpenTimeout,
		CricFeedCircuitHalfOpenReq: cricFeedCircuitHalfOpenReq,
		QStashEnabled:              qstashEnabled,
		QStashBaseURL:              strings.TrimSpace(getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io")),
		QStashToken:                qstashToken,
		QStashTargetBaseURL:        qstashTargetBaseURL,
		QStashRetries:              qstashRetries,
		QStashTimeout:              qstashTimeout,
		InternalJobToken:           internalJobToken,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		UptraceLogsEnabled:         uptraceLogsEnabled,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
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

// UseMemoryRepositories reports whether the service should run against the
// seeded in-memory stores instead of Postgres.
func (c Config) UseMemoryRepositories() bool {
	return c.DBURL == ""
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
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
