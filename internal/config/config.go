package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Hardware   HardwareConfig
	ZKTeco     ZKTecoConfig
	Telemetry  TelemetryConfig
	SuperAdmin SuperAdminConfig
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port            int
	Env             string
	LogLevel        string
	AllowedOrigins  []string
	DefaultTimezone string
}

// HardwareConfig controls the door terminal gateway.
type HardwareConfig struct {
	ClockSkew      time.Duration
	DoorOpenMillis int
}

type ZKTecoConfig struct {
	APIKey       string
	APIURL       string
	SyncInterval time.Duration
}

type TelemetryConfig struct {
	ServiceName  string
	OTLPEndpoint string
	Insecure     bool
}

// SuperAdminConfig seeds the platform owner account on first start.
type SuperAdminConfig struct {
	Username string
	Password string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, relying on environment", "error", err)
	}

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		URL:      getEnv("DATABASE_URL", ""),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance_saas"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:            appPort,
		Env:             getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:  getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"),
		DefaultTimezone: getEnv("DEFAULT_TIMEZONE", "UTC"),
	}

	// 8 days, same lifetime the mobile app was built around
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "192h"),
	}

	clockSkew, err := time.ParseDuration(getEnv("HARDWARE_CLOCK_SKEW", "300s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HARDWARE_CLOCK_SKEW: %w", err)
	}
	doorOpenMillis, err := strconv.Atoi(getEnv("HARDWARE_DOOR_OPEN_MS", "3000"))
	if err != nil {
		return nil, fmt.Errorf("invalid HARDWARE_DOOR_OPEN_MS: %w", err)
	}
	config.Hardware = HardwareConfig{
		ClockSkew:      clockSkew,
		DoorOpenMillis: doorOpenMillis,
	}

	syncInterval, err := time.ParseDuration(getEnv("ZK_SYNC_INTERVAL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ZK_SYNC_INTERVAL: %w", err)
	}
	config.ZKTeco = ZKTecoConfig{
		APIKey:       getEnv("ZK_API_KEY", ""),
		APIURL:       getEnv("ZK_API_URL", "https://api.zkteco.cloud"),
		SyncInterval: syncInterval,
	}

	config.Telemetry = TelemetryConfig{
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "attendance-saas"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Insecure:     getEnv("OTEL_EXPORTER_OTLP_INSECURE", "false") == "true",
	}

	config.SuperAdmin = SuperAdminConfig{
		Username: getEnv("SUPER_ADMIN_USERNAME", "owner"),
		Password: getEnv("SUPER_ADMIN_PASSWORD", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" && c.Database.Password == "" {
		return errors.New("DATABASE_URL or DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Hardware.ClockSkew <= 0 {
		return errors.New("HARDWARE_CLOCK_SKEW must be positive")
	}
	if _, err := time.LoadLocation(c.App.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid DEFAULT_TIMEZONE: %w", err)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	// pgx accepts both postgres:// and postgresql:// as handed out by Render/Heroku
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
