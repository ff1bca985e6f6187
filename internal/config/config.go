package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string

	StoreDriver string
	DBURL       string

	CacheEnabled bool
	CacheTTL     time.Duration

	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	NHLBaseURL               string
	NHLTimeout               time.Duration
	NHLMaxRetries            int
	NHLCircuitEnabled        bool
	NHLCircuitFailureCount   int
	NHLCircuitOpenTimeout    time.Duration
	NHLCircuitHalfOpenMaxReq int

	ScoringUTCOffset time.Duration
	GameFetchDelay   time.Duration
	ReprocessWorkers int

	InternalJobToken string

	QStashEnabled       bool
	QStashBaseURL       string
	QStashToken         string
	QStashTargetBaseURL string
	QStashRetries       int

	RedisEnabled     bool
	RedisAddr        string
	RedisSnapshotTTL time.Duration

	JobDailyInterval time.Duration
	JobLiveInterval  time.Duration

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	storeDriver := strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreDriverMemory)))
	switch storeDriver {
	case StoreDriverMemory, StoreDriverPostgres:
	default:
		return Config{}, fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s", storeDriver, StoreDriverMemory, StoreDriverPostgres)
	}

	dbURL := strings.TrimSpace(getEnv("DATABASE_URL", ""))
	if storeDriver == StoreDriverPostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "120s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
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

	nhlTimeout, err := time.ParseDuration(getEnv("NHL_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NHL_TIMEOUT: %w", err)
	}
	nhlMaxRetries, err := getEnvAsInt("NHL_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NHL_MAX_RETRIES: %w", err)
	}
	if nhlMaxRetries < 0 {
		return Config{}, fmt.Errorf("NHL_MAX_RETRIES must be >= 0")
	}
	nhlCircuitEnabled, err := strconv.ParseBool(getEnv("NHL_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NHL_CIRCUIT_ENABLED: %w", err)
	}
	nhlCircuitFailureCount, err := getEnvAsInt("NHL_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse NHL_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if nhlCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("NHL_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	nhlCircuitOpenTimeout, err := time.ParseDuration(getEnv("NHL_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NHL_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if nhlCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("NHL_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	nhlCircuitHalfOpenMaxReq, err := getEnvAsInt("NHL_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NHL_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if nhlCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("NHL_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	// Negative offset keeps late west-coast games on the same scoring day.
	scoringOffset, err := time.ParseDuration(getEnv("SCORING_UTC_OFFSET", "-5h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORING_UTC_OFFSET: %w", err)
	}
	gameFetchDelay, err := time.ParseDuration(getEnv("GAME_FETCH_DELAY", "500ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GAME_FETCH_DELAY: %w", err)
	}
	if gameFetchDelay < 0 {
		return Config{}, fmt.Errorf("GAME_FETCH_DELAY must be >= 0")
	}
	reprocessWorkers, err := getEnvAsInt("REPROCESS_WORKERS", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse REPROCESS_WORKERS: %w", err)
	}
	if reprocessWorkers < 1 {
		return Config{}, fmt.Errorf("REPROCESS_WORKERS must be >= 1")
	}

	qstashEnabled, err := strconv.ParseBool(getEnv("QSTASH_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_ENABLED: %w", err)
	}
	qstashBaseURL := strings.TrimSpace(getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io"))
	qstashToken := strings.TrimSpace(getEnv("QSTASH_TOKEN", ""))
	qstashTargetBaseURL := strings.TrimSpace(getEnv("QSTASH_TARGET_BASE_URL", ""))
	if qstashEnabled {
		if qstashToken == "" {
			return Config{}, fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		}
		if qstashTargetBaseURL == "" {
			return Config{}, fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		}
	}
	qstashRetries, err := getEnvAsInt("QSTASH_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_RETRIES: %w", err)
	}

	redisEnabled, err := strconv.ParseBool(getEnv("REDIS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_ENABLED: %w", err)
	}
	redisAddr := strings.TrimSpace(getEnv("REDIS_ADDR", ""))
	if redisEnabled && redisAddr == "" {
		return Config{}, fmt.Errorf("REDIS_ADDR is required when REDIS_ENABLED=true")
	}
	redisSnapshotTTL, err := time.ParseDuration(getEnv("REDIS_SNAPSHOT_TTL", "6h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_SNAPSHOT_TTL: %w", err)
	}

	jobDailyInterval, err := time.ParseDuration(getEnv("JOB_DAILY_INTERVAL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse JOB_DAILY_INTERVAL: %w", err)
	}
	jobLiveInterval, err := time.ParseDuration(getEnv("JOB_LIVE_INTERVAL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse JOB_LIVE_INTERVAL: %w", err)
	}

	return Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "fantasy-hockey"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),

		StoreDriver: storeDriver,
		DBURL:       dbURL,

		CacheEnabled: cacheEnabled,
		CacheTTL:     cacheTTL,

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,

		PprofEnabled: pprofEnabled,
		PprofAddr:    getEnv("PPROF_ADDR", "localhost:6060"),

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", "fantasy-hockey"),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		NHLBaseURL:               strings.TrimSpace(getEnv("NHL_BASE_URL", "")),
		NHLTimeout:               nhlTimeout,
		NHLMaxRetries:            nhlMaxRetries,
		NHLCircuitEnabled:        nhlCircuitEnabled,
		NHLCircuitFailureCount:   nhlCircuitFailureCount,
		NHLCircuitOpenTimeout:    nhlCircuitOpenTimeout,
		NHLCircuitHalfOpenMaxReq: nhlCircuitHalfOpenMaxReq,

		ScoringUTCOffset: scoringOffset,
		GameFetchDelay:   gameFetchDelay,
		ReprocessWorkers: reprocessWorkers,

		InternalJobToken: strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),

		QStashEnabled:       qstashEnabled,
		QStashBaseURL:       qstashBaseURL,
		QStashToken:         qstashToken,
		QStashTargetBaseURL: qstashTargetBaseURL,
		QStashRetries:       qstashRetries,

		RedisEnabled:     redisEnabled,
		RedisAddr:        redisAddr,
		RedisSnapshotTTL: redisSnapshotTTL,

		JobDailyInterval: jobDailyInterval,
		JobLiveInterval:  jobLiveInterval,

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}, nil
}

// ScoringZone builds the fixed-offset location the jobs anchor dates on.
func (c Config) ScoringZone() *time.Location {
	offset := int(c.ScoringUTCOffset / time.Second)
	return time.FixedZone("scoring", offset)
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

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
