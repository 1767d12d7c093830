package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Atera      AteraConfig
	Classifier ClassifierConfig
	Dashboard  DashboardConfig
	Monthly    MonthlyConfig
	Cache      CacheConfig
	NATS       NATSConfig
	AWS        AWSConfig
	CloudWatch CloudWatchConfig
	RateLimit  RateLimitConfig
	Reporter   ReporterConfig
	Log        LogConfig
	Security   SecurityConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type AteraConfig struct {
	APIKey             string
	BaseURL            string
	RequestTimeout     time.Duration
	RateLimitPerMinute int
}

// ClassifierConfig хранит сырые списки ключевых слов; разбор выполняет доменный сервис
type ClassifierConfig struct {
	ClosedKeywords  string
	PendingKeywords string
}

type DashboardConfig struct {
	FixturePath string
	Timezone    string
}

type MonthlyConfig struct {
	FixturePath         string
	CacheTTL            time.Duration
	BillableConcurrency int
}

type CacheConfig struct {
	Backend       string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type NATSConfig struct {
	Enabled bool
	URL     string
}

type AWSConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	S3UsePathStyle  bool
}

type CloudWatchConfig struct {
	MetricsEnabled bool
	LogsEnabled    bool
	Namespace      string
	LogGroup       string
	LogStream      string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type ReporterConfig struct {
	Enabled  bool
	Interval time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type SecurityConfig struct {
	AuthEnabled bool
	AuthToken   string
}

// ConfigurationError означает, что обязательная настройка отсутствует или некорректна
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Reason)
}

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	requestTimeout, err := getEnvDuration("ATERA_REQUEST_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	rateLimitPerMinute, err := getEnvInt("ATERA_RATE_LIMIT_PER_MINUTE", 600)
	if err != nil {
		return nil, err
	}
	monthlyTTLms, err := getEnvInt("MONTHLY_CACHE_TTL_MS", 12*60*60*1000)
	if err != nil {
		return nil, err
	}
	billableConcurrency, err := getEnvInt("BILLABLE_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	burst, err := getEnvInt("RATE_LIMIT_BURST", 40)
	if err != nil {
		return nil, err
	}
	rps, err := getEnvFloat("RATE_LIMIT_RPS", 20)
	if err != nil {
		return nil, err
	}
	reporterInterval, err := getEnvDuration("REPORTER_INTERVAL", 60*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Atera: AteraConfig{
			APIKey:             strings.TrimSpace(os.Getenv("ATERA_API_KEY")),
			BaseURL:            strings.TrimRight(getEnv("ATERA_BASE_URL", "https://app.atera.com/api/v3"), "/"),
			RequestTimeout:     requestTimeout,
			RateLimitPerMinute: rateLimitPerMinute,
		},
		Classifier: ClassifierConfig{
			ClosedKeywords:  os.Getenv("CLOSED_STATUS_KEYWORDS"),
			PendingKeywords: os.Getenv("PENDING_STATUS_KEYWORDS"),
		},
		Dashboard: DashboardConfig{
			FixturePath: strings.TrimSpace(os.Getenv("DASHBOARD_FIXTURE")),
			Timezone:    getEnv("DASHBOARD_TIMEZONE", "UTC"),
		},
		Monthly: MonthlyConfig{
			FixturePath:         getEnv("MONTHLY_REVIEW_FIXTURE", "fixtures/monthly-review.sample.json"),
			CacheTTL:            time.Duration(monthlyTTLms) * time.Millisecond,
			BillableConcurrency: billableConcurrency,
		},
		Cache: CacheConfig{
			Backend:       strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendMemory)),
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       redisDB,
		},
		NATS: NATSConfig{
			Enabled: getEnvBool("NATS_ENABLED", false),
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			Endpoint:        os.Getenv("AWS_ENDPOINT"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			S3UsePathStyle:  getEnvBool("S3_USE_PATH_STYLE", false),
		},
		CloudWatch: CloudWatchConfig{
			MetricsEnabled: getEnvBool("CLOUDWATCH_METRICS_ENABLED", false),
			LogsEnabled:    getEnvBool("CLOUDWATCH_LOGS_ENABLED", false),
			Namespace:      getEnv("CLOUDWATCH_NAMESPACE", "SupportDashboard"),
			LogGroup:       getEnv("CLOUDWATCH_LOG_GROUP", "/support-dashboard/app"),
			LogStream:      getEnv("CLOUDWATCH_LOG_STREAM", hostnameOr("support-dashboard")),
		},
		RateLimit: RateLimitConfig{
			RPS:   rps,
			Burst: burst,
		},
		Reporter: ReporterConfig{
			Enabled:  getEnvBool("REPORTER_ENABLED", true),
			Interval: reporterInterval,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Security: SecurityConfig{
			AuthEnabled: getEnvBool("AUTH_ENABLED", false),
			AuthToken:   strings.TrimSpace(os.Getenv("AUTH_BEARER_TOKEN")),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Atera.APIKey == "" {
		return &ConfigurationError{Key: "ATERA_API_KEY", Reason: "is required"}
	}
	if _, err := time.LoadLocation(c.Dashboard.Timezone); err != nil {
		return &ConfigurationError{Key: "DASHBOARD_TIMEZONE", Reason: err.Error()}
	}
	if c.Cache.Backend != CacheBackendMemory && c.Cache.Backend != CacheBackendRedis {
		return &ConfigurationError{Key: "CACHE_BACKEND", Reason: fmt.Sprintf("unsupported backend %q", c.Cache.Backend)}
	}
	if c.Monthly.BillableConcurrency < 1 {
		return &ConfigurationError{Key: "BILLABLE_CONCURRENCY", Reason: "must be at least 1"}
	}
	if c.Security.AuthEnabled && c.Security.AuthToken == "" {
		return &ConfigurationError{Key: "AUTH_BEARER_TOKEN", Reason: "is required when AUTH_ENABLED=true"}
	}
	return nil
}

// Location возвращает часовой пояс для дневных и месячных границ дашборда
func (c *DashboardConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *CacheConfig) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ConfigurationError{Key: key, Reason: fmt.Sprintf("invalid integer %q", value)}
	}
	return parsed, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &ConfigurationError{Key: key, Reason: fmt.Sprintf("invalid number %q", value)}
	}
	return parsed, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, &ConfigurationError{Key: key, Reason: fmt.Sprintf("invalid duration %q", value)}
	}
	return parsed, nil
}

func hostnameOr(fallback string) string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallback
}
