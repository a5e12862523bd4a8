package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultBaseURL is the kinopoisk.dev API root
const DefaultBaseURL = "https://api.kinopoisk.dev/v1.4"

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Search  SearchConfig  `mapstructure:"search"`
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// APIConfig holds movie database configuration
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url" validate:"required,url"`
	Key       string        `mapstructure:"key"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RateLimit float64       `mapstructure:"rate_limit" validate:"gt=0"` // requests per second
	Burst     int           `mapstructure:"burst" validate:"gte=1"`
}

// SearchConfig holds search behaviour
type SearchConfig struct {
	MinQueryLength int `mapstructure:"min_query_length" validate:"gte=1"`
}

// StorageConfig holds the local watched-list database settings
type StorageConfig struct {
	Path string `mapstructure:"path"` // empty = memory only
	Slot string `mapstructure:"slot" validate:"required"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Title      string `mapstructure:"title" validate:"required"`
	MaxResults int    `mapstructure:"max_results" validate:"gte=1"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level" validate:"omitempty,oneof=DEBUG INFO WARN WARNING ERROR"`
}

// MetricsConfig holds the optional Prometheus endpoint
type MetricsConfig struct {
	Listen string `mapstructure:"listen" validate:"omitempty,hostname_port"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   DefaultBaseURL,
			Timeout:   15 * time.Second,
			RateLimit: 2,
			Burst:     2,
		},
		Search: SearchConfig{
			MinQueryLength: 3,
		},
		Storage: StorageConfig{
			Path: filepath.Join(defaultDataPath(), "popcorn.db"),
			Slot: "watched",
		},
		UI: UIConfig{
			Title:      "popcorn",
			MaxResults: 50,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "popcorn.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "popcorn")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "popcorn")
	}
}

// DefaultConfigPath returns the default config directory for the current OS
func DefaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "popcorn")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "popcorn")
	}
}

// LoadConfig loads configuration from file and environment.
// If file is non-empty it is read instead of searching the default locations.
func LoadConfig(file string) (*Config, error) {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigPath())
		v.AddConfigPath(".")
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v, DefaultConfig())

	// Environment variable overrides, e.g. POPCORN_API_KEY
	v.SetEnvPrefix("POPCORN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.key", cfg.API.Key)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.rate_limit", cfg.API.RateLimit)
	v.SetDefault("api.burst", cfg.API.Burst)

	v.SetDefault("search.min_query_length", cfg.Search.MinQueryLength)

	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("storage.slot", cfg.Storage.Slot)

	v.SetDefault("ui.title", cfg.UI.Title)
	v.SetDefault("ui.max_results", cfg.UI.MaxResults)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)

	v.SetDefault("metrics.listen", cfg.Metrics.Listen)
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SaveConfig writes cfg to the default config file
func SaveConfig(cfg *Config) error {
	configPath := DefaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return saveTo(cfg, filepath.Join(configPath, "config.yaml"))
}

func saveTo(cfg *Config, configFile string) error {
	v := viper.New()

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.key", cfg.API.Key)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("api.rate_limit", cfg.API.RateLimit)
	v.Set("api.burst", cfg.API.Burst)

	v.Set("search.min_query_length", cfg.Search.MinQueryLength)

	v.Set("storage.path", cfg.Storage.Path)
	v.Set("storage.slot", cfg.Storage.Slot)

	v.Set("ui.title", cfg.UI.Title)
	v.Set("ui.max_results", cfg.UI.MaxResults)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	v.Set("metrics.listen", cfg.Metrics.Listen)

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IsConfigured returns true if an API key is set
func (c *Config) IsConfigured() bool {
	return c.API.Key != ""
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
