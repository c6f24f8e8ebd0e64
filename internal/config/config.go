package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongoDB  = "mongodb"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Database   DatabaseConfig
	MongoDB    MongoDBConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string
	Version        string
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	DefaultLocale  string
	AllowedOrigins []string
}

type AttendanceConfig struct {
	// StoreLocation persists client geolocation; when false a zero placeholder is stored.
	StoreLocation bool
}

// ClientConfig configures dashctl.
type ClientConfig struct {
	ServerURL string
	MirrorDir string
	Timeout   time.Duration
	Timezone  string
}

// loadDotEnv loads .env when present. A missing file is not an error.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:   strings.ToLower(getEnv("DB_DRIVER", DriverMongoDB)),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "dashpro"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.MongoDB = MongoDBConfig{
		URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGODB_DATABASE", "dashpro"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "4000"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:           getEnv("APP_NAME", "dashpro"),
		Version:        getEnv("APP_VERSION", "v1.0.0"),
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "Local"),
		DefaultLocale:  getEnv("APP_DEFAULT_LOCALE", "en"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "168h"),
	}

	storeLocation, err := strconv.ParseBool(getEnv("ATTENDANCE_STORE_LOCATION", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_STORE_LOCATION: %w", err)
	}
	config.Attendance = AttendanceConfig{StoreLocation: storeLocation}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverMongoDB:
		if c.MongoDB.URI == "" {
			return fmt.Errorf("MONGODB_URI is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves APP_TIMEZONE, the zone that defines "today".
func (c *Config) Location() (*time.Location, error) {
	return loadLocation(c.App.Timezone)
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func LoadClient() (*ClientConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(getEnv("DASHCTL_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DASHCTL_TIMEOUT: %w", err)
	}

	mirrorDir := getEnv("DASHCTL_MIRROR_DIR", "")
	if mirrorDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		mirrorDir = filepath.Join(home, ".dashpro")
	}

	cfg := &ClientConfig{
		ServerURL: getEnv("DASHCTL_SERVER_URL", "http://localhost:4000"),
		MirrorDir: mirrorDir,
		Timeout:   timeout,
		Timezone:  getEnv("DASHCTL_TIMEZONE", "Local"),
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ClientConfig) Location() (*time.Location, error) {
	return loadLocation(c.Timezone)
}

func loadLocation(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
