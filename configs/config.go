package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
	Perplexity PerplexityConfig
	Log        LogConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	DSN      string
	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// Pool and timeout settings
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
}

type CacheConfig struct {
	// KeyPrefix namespaces all cache entries in the shared Redis instance.
	KeyPrefix string
	// QuestionsTTL bounds staleness of cached question listings.
	QuestionsTTL time.Duration
}

// RateLimitPolicy is a (max requests, window) pair for one endpoint.
type RateLimitPolicy struct {
	Limit  int
	Window time.Duration
}

// RateLimitConfig carries independent policies per endpoint. The listing
// endpoint is cheap and gets a tight per-minute window; explain and chat
// trigger paid text-generation calls and get daily budgets instead.
type RateLimitConfig struct {
	KeyPrefix string
	Questions RateLimitPolicy
	Explain   RateLimitPolicy
	Chat      RateLimitPolicy
	Visit     RateLimitPolicy
}

type PerplexityConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	ReasoningModel string
	Timeout        time.Duration
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8787"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 5*time.Minute),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			TLSCertFile:  getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:   getEnv("TLS_KEY_FILE", ""),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "mcqs_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getDurationEnv("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:  getDurationEnv("REDIS_IDLE_TIMEOUT", 5*time.Minute),
		},
		Cache: CacheConfig{
			KeyPrefix:    getEnv("CACHE_KEY_PREFIX", "mcqs"),
			QuestionsTTL: getDurationEnv("CACHE_QUESTIONS_TTL", 24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			KeyPrefix: getEnv("RATE_LIMIT_KEY_PREFIX", "ratelimit"),
			Questions: RateLimitPolicy{
				Limit:  getIntEnv("RATE_LIMIT_QUESTIONS", 2),
				Window: getDurationEnv("RATE_LIMIT_QUESTIONS_WINDOW", time.Minute),
			},
			Explain: RateLimitPolicy{
				Limit:  getIntEnv("RATE_LIMIT_EXPLAIN", 15),
				Window: getDurationEnv("RATE_LIMIT_EXPLAIN_WINDOW", 24*time.Hour),
			},
			Chat: RateLimitPolicy{
				Limit:  getIntEnv("RATE_LIMIT_CHAT", 35),
				Window: getDurationEnv("RATE_LIMIT_CHAT_WINDOW", 24*time.Hour),
			},
			Visit: RateLimitPolicy{
				Limit:  getIntEnv("RATE_LIMIT_VISIT", 30),
				Window: getDurationEnv("RATE_LIMIT_VISIT_WINDOW", time.Minute),
			},
		},
		Perplexity: PerplexityConfig{
			APIKey:         getEnvRequired("PERPLEXITY_API_KEY"),
			BaseURL:        getEnv("PERPLEXITY_BASE_URL", "https://api.perplexity.ai"),
			Model:          getEnv("PERPLEXITY_MODEL", "sonar"),
			ReasoningModel: getEnv("PERPLEXITY_REASONING_MODEL", "sonar-reasoning-pro"),
			Timeout:        getDurationEnv("PERPLEXITY_TIMEOUT", 2*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Build database DSN
	cfg.Database.DSN = fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("Required environment variable %s is not set", key))
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
