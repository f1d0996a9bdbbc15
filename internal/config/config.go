package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration, populated from env.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	MinIO    MinIOConfig
	Loyalty  LoyaltyConfig
	Jobs     JobsConfig
}

type AppConfig struct {
	Name           string
	Environment    string // development, staging, production
	Port           string
	Version        string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LoyaltyConfig holds the engine knobs that are not part of the campaign record.
type LoyaltyConfig struct {
	// PaymentAutoConfirmDelay schedules a simulated payment confirmation after checkout.
	// Zero disables it; payment is then confirmed only by mark-paid or a webhook.
	PaymentAutoConfirmDelay time.Duration
	// RequireActiveCampaign refuses voucher issuance while the campaign is inactive.
	RequireActiveCampaign bool
	CampaignCacheTTL      time.Duration
	ProductCacheTTL       time.Duration
	VoucherCodeAttempts   int
}

type JobsConfig struct {
	Concurrency       int
	VoucherSweepCron  string
	VoucherSweepBatch int
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:           getEnv("APP_NAME", "PointHub API"),
			Environment:    getEnv("APP_ENV", "development"),
			Port:           getEnv("APP_PORT", "8080"),
			Version:        getEnv("APP_VERSION", "1.0.0"),
			AllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ","),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "pointhub"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvDuration("JWT_ACCESS_EXPIRY", 24*time.Hour),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "pointhub"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Loyalty: LoyaltyConfig{
			PaymentAutoConfirmDelay: getEnvDuration("PAYMENT_AUTO_CONFIRM_DELAY", 0),
			RequireActiveCampaign:   getEnvBool("VOUCHER_REQUIRE_ACTIVE_CAMPAIGN", true),
			CampaignCacheTTL:        getEnvDuration("CAMPAIGN_CACHE_TTL", 5*time.Minute),
			ProductCacheTTL:         getEnvDuration("PRODUCT_CACHE_TTL", 10*time.Minute),
			VoucherCodeAttempts:     getEnvInt("VOUCHER_CODE_ATTEMPTS", 5),
		},
		Jobs: JobsConfig{
			Concurrency:       getEnvInt("WORKER_CONCURRENCY", 10),
			VoucherSweepCron:  getEnv("VOUCHER_SWEEP_CRON", "*/15 * * * *"),
			VoucherSweepBatch: getEnvInt("VOUCHER_SWEEP_BATCH", 500),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings that must not keep their defaults in production.
func (c *Config) Validate() error {
	if c.Loyalty.VoucherCodeAttempts < 1 {
		return fmt.Errorf("VOUCHER_CODE_ATTEMPTS must be >= 1")
	}
	if c.Loyalty.PaymentAutoConfirmDelay < 0 {
		return fmt.Errorf("PAYMENT_AUTO_CONFIRM_DELAY must not be negative")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
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

func getEnvBool(key string, defaultValue bool) bool {
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
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
