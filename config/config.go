package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"

	AuthModeFirebase = "firebase"
	AuthModeJWT      = "jwt"
	AuthModeHeader   = "header"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	DocStore  DocStoreConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	App       AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	DSN      string
	MaxConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DocStoreConfig struct {
	Driver string
}

type AuthConfig struct {
	Mode                    string
	JWTSecret               string
	SessionCookie           string
	FirebaseCredentialsPath string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type AppConfig struct {
	ServiceName string
	Environment string
	LogLevel    string
	LogFormat   string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		DocStore: DocStoreConfig{
			Driver: getEnv("DOCSTORE_DRIVER", DriverPostgres),
		},
		Auth: AuthConfig{
			Mode:                    getEnv("AUTH_MODE", AuthModeFirebase),
			JWTSecret:               getEnv("AUTH_JWT_SECRET", ""),
			SessionCookie:           getEnv("AUTH_SESSION_COOKIE", "projectdash_session"),
			FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvAsFloat("RATE_LIMIT_RPS", 10),
			Burst: getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
		App: AppConfig{
			ServiceName: getEnv("SERVICE_NAME", "projectdash-api"),
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "json"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.DocStore.Driver {
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required for the postgres document store")
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis document store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown DOCSTORE_DRIVER %q", c.DocStore.Driver)
	}

	switch c.Auth.Mode {
	case AuthModeFirebase:
		if c.Auth.FirebaseCredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
		}
	case AuthModeJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("AUTH_JWT_SECRET is required for jwt sessions")
		}
	case AuthModeHeader:
		if c.IsProduction() {
			return fmt.Errorf("AUTH_MODE=header is not allowed in production")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode)
	}

	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	out := make([]string, 0, 4)
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
