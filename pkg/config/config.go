package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// DBConfig holds database configuration
type DBConfig struct {
	URL             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port          string
	Env           string
	AllowedOrigin string
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// StorageConfig holds the object storage bucket used for property images
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	SignedURLTTL    time.Duration
}

// MailConfig holds SMTP settings for client notifications
type MailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	FromName   string
	UseSSL     bool
	AppBaseURL string
}

// SyncConfig holds the shared secret of the daily sync endpoint
type SyncConfig struct {
	Secret string
}

// BusinessConfig holds agency terms applied by the back-office
type BusinessConfig struct {
	Timezone                  string
	DefaultSubscriptionMonths int
	DefaultSubscriptionAmount int
}

// BootstrapConfig describes the first admin account created on startup
type BootstrapConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Config holds all configuration
type Config struct {
	ServiceName string
	DB          DBConfig
	Server      ServerConfig
	JWT         JWTConfig
	Log         LogConfig
	Storage     StorageConfig
	Mail        MailConfig
	Sync        SyncConfig
	Business    BusinessConfig
	Bootstrap   BootstrapConfig
}

// Load reads configuration from the environment, loading .env first when present.
func Load(serviceName string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	cfg := &Config{
		ServiceName: serviceName,
		DB: DBConfig{
			URL:             getEnv("POSTGRES_URL", ""),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 50),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			Env:           getEnv("APP_ENV", "development"),
			AllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			TTL:    getEnvAsDuration("JWT_TTL", 12*time.Hour),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("OSS_ENDPOINT", ""),
			AccessKeyID:     getEnv("OSS_ACCESS_KEY_ID", ""),
			AccessKeySecret: getEnv("OSS_ACCESS_KEY_SECRET", ""),
			Bucket:          getEnv("OSS_BUCKET", "property-images"),
			SignedURLTTL:    getEnvAsDuration("SIGNED_URL_TTL", time.Hour),
		},
		Mail: MailConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Username:   getEnv("SMTP_USERNAME", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			From:       getEnv("SMTP_FROM", ""),
			FromName:   getEnv("SMTP_FROM_NAME", "Agence"),
			UseSSL:     getEnvAsBool("SMTP_USE_SSL", false),
			AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:3000"),
		},
		Sync: SyncConfig{
			Secret: getEnv("DAILY_SYNC_SECRET", ""),
		},
		Business: BusinessConfig{
			Timezone:                  getEnv("APP_TIMEZONE", "Europe/Paris"),
			DefaultSubscriptionMonths: getEnvAsInt("DEFAULT_SUBSCRIPTION_MONTHS", 5),
			DefaultSubscriptionAmount: getEnvAsInt("DEFAULT_SUBSCRIPTION_AMOUNT_EUR", 210),
		},
		Bootstrap: BootstrapConfig{
			AdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", ""),
			AdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
			AdminName:     getEnv("BOOTSTRAP_ADMIN_NAME", "Admin"),
		},
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("POSTGRES_URL is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// LogFields returns the non-secret part of the configuration for startup logs
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("server_port", c.Server.Port),
		zap.String("timezone", c.Business.Timezone),
		zap.String("oss_bucket", c.Storage.Bucket),
		zap.Bool("smtp_enabled", c.Mail.Host != ""),
		zap.Bool("sync_enabled", c.Sync.Secret != ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	switch getEnv(key, "") {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
