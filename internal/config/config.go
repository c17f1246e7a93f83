package config

import (
	"fmt"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Port            string `mapstructure:"PORT"`
	Origin          string `mapstructure:"ORIGIN"`
	Environment     string `mapstructure:"ENV"`
	LogLevel        string `mapstructure:"LOG_LEVEL"`
	StorageDriver   string `mapstructure:"STORAGE_DRIVER"`
	DefaultPageSize int    `mapstructure:"DEFAULT_PAGE_SIZE"`
	MaxPageSize     int    `mapstructure:"MAX_PAGE_SIZE"`
	MetricsEnabled  bool   `mapstructure:"METRICS_ENABLED"`
	Database        DatabaseConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string `mapstructure:"DB_HOST"`
	Port     string `mapstructure:"DB_PORT"`
	Username string `mapstructure:"DB_USERNAME"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	DSN      string
}

const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

var defaults = map[string]any{
	"PORT":              "8080",
	"ORIGIN":            "http://localhost:3000",
	"ENV":               "development",
	"LOG_LEVEL":         "info",
	"STORAGE_DRIVER":    StorageMySQL,
	"DEFAULT_PAGE_SIZE": 10,
	"MAX_PAGE_SIZE":     100,
	"METRICS_ENABLED":   true,
	"DB_HOST":           "localhost",
	"DB_PORT":           "3306",
	"DB_USERNAME":       "root",
	"DB_PASSWORD":       "",
	"DB_NAME":           "smartmedical",
}

// LoadConfig loads configuration from environment variables. Values from a
// .env file are expected to be in the environment already (see main).
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
		// Unmarshal only sees keys viper knows about.
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := v.Unmarshal(&cfg.Database); err != nil {
		return nil, fmt.Errorf("unmarshal database config: %w", err)
	}

	// Build DSN (Data Source Name) for MySQL connection
	cfg.Database.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", c.Port, err)
	}
	if c.StorageDriver != StorageMySQL && c.StorageDriver != StorageMemory {
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageMySQL, StorageMemory, c.StorageDriver)
	}
	if c.DefaultPageSize <= 0 || c.MaxPageSize <= 0 {
		return fmt.Errorf("page sizes must be positive, got default=%d max=%d", c.DefaultPageSize, c.MaxPageSize)
	}
	if c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("DEFAULT_PAGE_SIZE (%d) exceeds MAX_PAGE_SIZE (%d)", c.DefaultPageSize, c.MaxPageSize)
	}
	return nil
}

// IsDev reports whether the server runs in development mode.
func (c *Config) IsDev() bool {
	return c.Environment == "development"
}
