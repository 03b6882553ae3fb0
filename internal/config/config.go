package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Blob     BlobConfig
	Cache    CacheConfig
	Session  SessionConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	MaxUploadBytes int64
}

type DatabaseConfig struct {
	Driver      string // mysql or postgres
	MySQL       MySQLConfig
	PostgresDSN string
}

type MySQLConfig struct {
	Host     string
	User     string
	Password string
	Database string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	PoolSize int
	// StreamMaxLen caps each event stream, trimmed approximately.
	StreamMaxLen int
}

type BlobConfig struct {
	Driver        string // local or http
	StorageDir    string
	PublicBaseURL string
	Endpoint      string
	Token         string
}

type CacheConfig struct {
	Driver string // redis or memory
	TTL    time.Duration
}

// DefaultSessionSecret is only fit for local development.
const DefaultSessionSecret = "dev-insecure-session-secret"

type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

// UsesDefaultSecret reports whether SESSION_SECRET was left unset, in which
// case anyone can sign a session cookie.
func (c SessionConfig) UsesDefaultSecret() bool {
	return c.Secret == "" || c.Secret == DefaultSessionSecret
}

type WorkerConfig struct {
	RetryInterval time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8072"),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			MaxUploadBytes: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 4<<20)),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", "mysql")),
			MySQL: MySQLConfig{
				Host:     getEnv("MYSQL_HOST", "localhost:3306"),
				User:     getEnv("MYSQL_USER", "dashboard"),
				Password: getEnv("MYSQL_PASSWORD", "dashboard123"),
				Database: getEnv("MYSQL_DATABASE", "dashboard"),
			},
			PostgresDSN: getEnv("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=dashboard port=5432 sslmode=disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			PoolSize: getEnvAsInt("REDIS_POOL_SIZE", 20),

			StreamMaxLen: getEnvAsInt("EVENT_STREAM_MAX_LEN", 10000),
		},
		Blob: BlobConfig{
			Driver:        strings.ToLower(getEnv("BLOB_DRIVER", "local")),
			StorageDir:    getEnv("STORAGE_DIR", "public"),
			PublicBaseURL: getEnv("BLOB_PUBLIC_BASE_URL", ""),
			Endpoint:      getEnv("BLOB_ENDPOINT", ""),
			Token:         getEnv("BLOB_READ_WRITE_TOKEN", ""),
		},
		Cache: CacheConfig{
			Driver: strings.ToLower(getEnv("CACHE_DRIVER", "redis")),
			TTL:    getEnvAsDuration("CACHE_TTL", 10*time.Minute),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", DefaultSessionSecret),
			TTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			Secure: getEnvAsBool("SESSION_SECURE", false),
		},
		Worker: WorkerConfig{
			RetryInterval: getEnvAsDuration("WORKER_RETRY_INTERVAL", 30*time.Second),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
