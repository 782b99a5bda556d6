package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	MealAPI MealAPIConfig
	Plan    PlanConfig
	Session SessionConfig
	Log     LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MealAPIConfig holds meal recommendation service configuration
type MealAPIConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxRetries        int           `mapstructure:"max_retries"`
}

// PlanConfig holds the starting constraints for every new plan
type PlanConfig struct {
	Calories          string        `mapstructure:"calories"`
	Carbs             string        `mapstructure:"carbs"`
	Protein           string        `mapstructure:"protein"`
	Fat               string        `mapstructure:"fat"`
	Random            bool          `mapstructure:"random"`
	PriorityPrimary   string        `mapstructure:"priority_primary"`
	PrioritySecondary string        `mapstructure:"priority_secondary"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
}

// SessionConfig holds plan session lifetime configuration
type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupSchedule string        `mapstructure:"cleanup_schedule"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/macrohero/")

	// Environment variable settings: MACROHERO_MEALAPI_BASE_URL -> mealapi.base_url
	v.SetEnvPrefix("MACROHERO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory if present.
// Variables already set in the environment are left untouched.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Meal service defaults
	v.SetDefault("mealapi.api_key", "")
	v.SetDefault("mealapi.base_url", "http://localhost:9000")
	v.SetDefault("mealapi.timeout", "30s")
	v.SetDefault("mealapi.requests_per_second", 5.0)
	v.SetDefault("mealapi.burst", 10)
	v.SetDefault("mealapi.max_retries", 3)

	// Starting constraints for a new plan
	v.SetDefault("plan.calories", "100+")
	v.SetDefault("plan.carbs", "20+")
	v.SetDefault("plan.protein", "15+")
	v.SetDefault("plan.fat", "10+")
	v.SetDefault("plan.random", true)
	v.SetDefault("plan.priority_primary", "calories")
	v.SetDefault("plan.priority_secondary", "protein")
	v.SetDefault("plan.request_timeout", "15s")

	// Session defaults
	v.SetDefault("session.ttl", "2h")
	v.SetDefault("session.cleanup_schedule", "@every 10m")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.MealAPI.BaseURL == "" {
		return fmt.Errorf("meal API base URL is required (set MACROHERO_MEALAPI_BASE_URL)")
	}

	if config.Plan.RequestTimeout <= 0 {
		return fmt.Errorf("plan request timeout must be positive, got: %s", config.Plan.RequestTimeout)
	}

	if config.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive, got: %s", config.Session.TTL)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'text' or 'json', got: %s", config.Log.Format)
	}

	return nil
}
