package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the signing secret used when JWT_SECRET is unset.
// It is rejected when the admin token guard is on.
const DefaultJWTSecret = "changeme"

// Config holds all configuration for the application
// Values come from environment variables, optionally seeded from a .env file
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Notify   NotifyConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	CORSOrigins     []string
}

type AuthConfig struct {
	AdminUsername string
	AdminPassword string
	JWTSecret     string
	TokenTTL      time.Duration
	RequireToken  bool // guard admin endpoints with a bearer token
}

type StorageConfig struct {
	MenuFile     string
	ServicesFile string
	OrdersFile   string
	PublicDir    string
	UploadDir    string
	MaxUploadMB  int
}

type NotifyConfig struct {
	NATSURL           string
	NATSSubjectPrefix string
	SubscriberBuffer  int
}

// Load reads configuration from the environment.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3000"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			CORSOrigins:     getEnvAsSlice("CORS_ORIGINS", []string{"*"}),
		},
		Auth: AuthConfig{
			AdminUsername: getEnv("ADMIN_USERNAME", "admin@armahhotel.com"),
			AdminPassword: getEnv("ADMIN_PASSWORD", "password123"),
			JWTSecret:     getEnv("JWT_SECRET", DefaultJWTSecret),
			TokenTTL:      getEnvAsDuration("TOKEN_TTL", 12*time.Hour),
			RequireToken:  getEnvAsBool("ADMIN_REQUIRE_TOKEN", false),
		},
		Storage: StorageConfig{
			MenuFile:     getEnv("MENU_FILE", "public/menu.json"),
			ServicesFile: getEnv("SERVICES_FILE", "public/services.json"),
			OrdersFile:   getEnv("ORDERS_FILE", "orders.json"),
			PublicDir:    getEnv("PUBLIC_DIR", "public"),
			UploadDir:    getEnv("UPLOAD_DIR", "public/uploads"),
			MaxUploadMB:  getEnvAsInt("MAX_UPLOAD_MB", 10),
		},
		Notify: NotifyConfig{
			NATSURL:           getEnv("NATS_URL", ""),
			NATSSubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "roomservice"),
			SubscriberBuffer:  getEnvAsInt("SUBSCRIBER_BUFFER", 64),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Auth.AdminUsername == "" || c.Auth.AdminPassword == "" {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}

	if c.Auth.RequireToken && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DefaultJWTSecret) {
		return fmt.Errorf("JWT_SECRET must be set to a non-default value when ADMIN_REQUIRE_TOKEN is set")
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}

	if c.Storage.MenuFile == "" || c.Storage.ServicesFile == "" || c.Storage.OrdersFile == "" {
		return fmt.Errorf("MENU_FILE, SERVICES_FILE and ORDERS_FILE are required")
	}

	if c.Storage.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}

	if c.Notify.SubscriberBuffer <= 0 {
		return fmt.Errorf("SUBSCRIBER_BUFFER must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

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

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
