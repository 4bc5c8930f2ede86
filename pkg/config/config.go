package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Mindbody MindbodyConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Admin    AdminConfig
	CORS     CORSConfig
	Log      LogConfig
	Booking  BookingConfig
	Export   ExportConfig
}

// MindbodyConfig carries upstream credentials and client tuning. APIKey and
// SiteID empty means "not configured": availability endpoints refuse requests
// rather than calling upstream anonymously.
type MindbodyConfig struct {
	BaseURL        string
	APIKey         string
	SiteID         string
	RequestTimeout time.Duration
	CacheTTL       time.Duration
	CacheEnabled   bool
	DefaultLimit   int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AdminConfig gates the diagnostics endpoints behind a single admin account.
type AdminConfig struct {
	Username      string
	PasswordHash  string
	JWTSecret     string
	JWTExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// BookingConfig tunes the cart/checkout side channel.
type BookingConfig struct {
	Enabled           bool
	SKUPrefix         string
	WorkerConcurrency int
	WorkerRetries     int
}

// ExportConfig toggles the printable treatment menu export.
type ExportConfig struct {
	Enabled  bool
	MenuName string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Mindbody = MindbodyConfig{
		BaseURL:        v.GetString("MINDBODY_BASE_URL"),
		APIKey:         v.GetString("MINDBODY_API_KEY"),
		SiteID:         v.GetString("MINDBODY_SITE_ID"),
		RequestTimeout: parseDuration(v.GetString("MINDBODY_REQUEST_TIMEOUT"), 30*time.Second),
		CacheTTL:       parseDuration(v.GetString("MINDBODY_CACHE_TTL"), 5*time.Minute),
		CacheEnabled:   v.GetBool("MINDBODY_CACHE_ENABLED"),
		DefaultLimit:   v.GetInt("MINDBODY_DEFAULT_LIMIT"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Admin = AdminConfig{
		Username:      v.GetString("ADMIN_USERNAME"),
		PasswordHash:  v.GetString("ADMIN_PASSWORD_HASH"),
		JWTSecret:     v.GetString("ADMIN_JWT_SECRET"),
		JWTExpiration: parseDuration(v.GetString("ADMIN_JWT_EXPIRATION"), 12*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Booking = BookingConfig{
		Enabled:           v.GetBool("ENABLE_BOOKING"),
		SKUPrefix:         v.GetString("BOOKING_SKU_PREFIX"),
		WorkerConcurrency: v.GetInt("BOOKING_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("BOOKING_WORKER_RETRIES"),
	}

	cfg.Export = ExportConfig{
		Enabled:  v.GetBool("ENABLE_MENU_EXPORT"),
		MenuName: v.GetString("MENU_EXPORT_TITLE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("MINDBODY_BASE_URL", "https://api.mindbodyonline.com/public/v6")
	v.SetDefault("MINDBODY_API_KEY", "")
	v.SetDefault("MINDBODY_SITE_ID", "")
	v.SetDefault("MINDBODY_REQUEST_TIMEOUT", "30s")
	v.SetDefault("MINDBODY_CACHE_TTL", "5m")
	v.SetDefault("MINDBODY_CACHE_ENABLED", false)
	v.SetDefault("MINDBODY_DEFAULT_LIMIT", 200)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "spa_booking")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("ADMIN_JWT_SECRET", "dev_secret")
	v.SetDefault("ADMIN_JWT_EXPIRATION", "12h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_BOOKING", false)
	v.SetDefault("BOOKING_SKU_PREFIX", "mb-")
	v.SetDefault("BOOKING_WORKER_CONCURRENCY", 1)
	v.SetDefault("BOOKING_WORKER_RETRIES", 3)

	v.SetDefault("ENABLE_MENU_EXPORT", false)
	v.SetDefault("MENU_EXPORT_TITLE", "Treatment Menu")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
