package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store and cache drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	CacheDriverRedis  = "redis"
	CacheDriverMemory = "memory"
	CacheDriverNone   = "none"
)

// Config struct holds all configuration for the application.
type Config struct {
	Env            string
	ServiceVersion string
	NodeHostname   string
	LogLevel       string
	LogFormat      string

	GRPCPort string
	HttpPort string

	// mTLS material for the gRPC listener. All three or none.
	CertPath string
	KeyPath  string
	CaPath   string

	StoreDriver  string
	DatabaseURL  string
	MaxDBRetries int
	AutoMigrate  bool

	CacheDriver    string
	RedisURL       string
	RedisKeyPrefix string
	ScoreCacheTTL  time.Duration
	SearchCacheTTL time.Duration

	DefaultRegion string

	// Per-requester throttling of spam reports and lookups. A zero limit disables it.
	RateLimitPerWindow int
	RateLimitWindow    time.Duration

	KafkaBrokers       []string
	KafkaTopic         string
	KafkaGroupID       string
	ScoreWarmerEnabled bool
}

// Load loads configuration from the environment, after merging an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:            GetEnv("ENV", "production"),
		ServiceVersion: GetEnv("SERVICE_VERSION", "dev"),
		NodeHostname:   GetEnv("NODE_HOSTNAME", hostname()),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
		LogFormat:      GetEnv("LOG_FORMAT", "json"),

		GRPCPort: GetEnv("DIRECTORY_GRPC_PORT", "50061"),
		HttpPort: GetEnv("DIRECTORY_HTTP_PORT", "8081"),

		CertPath: GetEnv("DIRECTORY_CERT_PATH", ""),
		KeyPath:  GetEnv("DIRECTORY_KEY_PATH", ""),
		CaPath:   GetEnv("GRPC_TLS_CA_PATH", ""),

		StoreDriver: strings.ToLower(GetEnv("STORE_DRIVER", StoreDriverPostgres)),
		DatabaseURL: GetEnv("POSTGRES_URL", ""),

		CacheDriver:    strings.ToLower(GetEnv("CACHE_DRIVER", CacheDriverMemory)),
		RedisURL:       GetEnv("REDIS_URL", ""),
		RedisKeyPrefix: GetEnv("REDIS_KEY_PREFIX", "trustcall:"),

		DefaultRegion: strings.ToUpper(GetEnv("DEFAULT_REGION", "IN")),

		KafkaBrokers: splitList(GetEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   GetEnv("KAFKA_TOPIC", "trustcall.spam-reports"),
		KafkaGroupID: GetEnv("KAFKA_GROUP_ID", "trustcall-score-warmer"),
	}

	var err error
	if cfg.MaxDBRetries, err = GetEnvInt("DB_MAX_RETRIES", 10); err != nil {
		return nil, err
	}
	if cfg.AutoMigrate, err = GetEnvBool("DB_AUTO_MIGRATE", true); err != nil {
		return nil, err
	}
	if cfg.ScoreCacheTTL, err = GetEnvDuration("SCORE_CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.SearchCacheTTL, err = GetEnvDuration("SEARCH_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerWindow, err = GetEnvInt("RATE_LIMIT_REQUESTS", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = GetEnvDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.ScoreWarmerEnabled, err = GetEnvBool("SCORE_WARMER_ENABLED", false); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TLSEnabled reports whether the gRPC listener requires client certificates.
func (c *Config) TLSEnabled() bool {
	return c.CertPath != ""
}

// Validate checks driver names and the values each driver requires.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("POSTGRES_URL is required when STORE_DRIVER=%s", StoreDriverPostgres)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.CacheDriver {
	case CacheDriverRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CACHE_DRIVER=%s", CacheDriverRedis)
		}
	case CacheDriverMemory, CacheDriverNone:
	default:
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.CacheDriver)
	}

	set := 0
	for _, p := range []string{c.CertPath, c.KeyPath, c.CaPath} {
		if p != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		return fmt.Errorf("DIRECTORY_CERT_PATH, DIRECTORY_KEY_PATH and GRPC_TLS_CA_PATH must be set together")
	}

	if c.ScoreCacheTTL <= 0 || c.SearchCacheTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if c.RateLimitPerWindow < 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must not be negative")
	}
	if c.RateLimitPerWindow > 0 && c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	if c.ScoreWarmerEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when SCORE_WARMER_ENABLED=true")
	}
	return nil
}

// GetEnv retrieves an environment variable or returns a fallback.
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// GetEnvInt parses an integer environment variable.
func GetEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// GetEnvBool parses a boolean environment variable.
func GetEnvBool(key string, fallback bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// GetEnvDuration parses a time.Duration environment variable such as "5m".
func GetEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
