package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Backend BackendConfig
	Storage StorageConfig
	Logging LoggingConfig
	Client  ClientConfig
}

// BackendConfig points at the hosted backend-as-a-service. The anon key is
// the public API key every request carries alongside the bearer token.
type BackendConfig struct {
	URL            string
	AnonKey        string
	RequestTimeout time.Duration
}

// StorageConfig locates the local key-value store (session, hidden
// families, preferences). Everything in it is a best-effort cache.
type StorageConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
	Env   string
}

type ClientConfig struct {
	// LongPressThreshold is how long a press must be held before the
	// selection gesture fires.
	LongPressThreshold time.Duration
	// FeedPageSize caps a single discovery fetch.
	FeedPageSize int
}

// Load loads configuration from environment variables or a .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = viper.ReadInConfig()

	viper.SetDefault("HAVEN_REQUEST_TIMEOUT_SEC", 15)
	viper.SetDefault("HAVEN_LONG_PRESS_MS", 500)
	viper.SetDefault("HAVEN_FEED_PAGE_SIZE", 100)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ENV", "production")

	config := &Config{
		Backend: BackendConfig{
			URL:            strings.TrimRight(viper.GetString("HAVEN_BACKEND_URL"), "/"),
			AnonKey:        viper.GetString("HAVEN_ANON_KEY"),
			RequestTimeout: time.Duration(viper.GetInt("HAVEN_REQUEST_TIMEOUT_SEC")) * time.Second,
		},
		Storage: StorageConfig{
			Path: viper.GetString("HAVEN_STORAGE_PATH"),
		},
		Logging: LoggingConfig{
			Level: viper.GetString("LOG_LEVEL"),
			Env:   viper.GetString("ENV"),
		},
		Client: ClientConfig{
			LongPressThreshold: time.Duration(viper.GetInt("HAVEN_LONG_PRESS_MS")) * time.Millisecond,
			FeedPageSize:       viper.GetInt("HAVEN_FEED_PAGE_SIZE"),
		},
	}

	if config.Storage.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		config.Storage.Path = filepath.Join(home, ".haven")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates critical configuration values.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("backend URL is required")
	}
	if !strings.HasPrefix(c.Backend.URL, "http://") && !strings.HasPrefix(c.Backend.URL, "https://") {
		return fmt.Errorf("backend URL must be http(s)")
	}
	if c.Backend.AnonKey == "" {
		return fmt.Errorf("backend anon key is required")
	}
	if c.Client.FeedPageSize <= 0 {
		return fmt.Errorf("feed page size must be positive")
	}
	if c.Client.LongPressThreshold < 100*time.Millisecond {
		return fmt.Errorf("long press threshold is too small to distinguish from a tap")
	}
	return nil
}

// RestURL returns the base URL for tabular REST calls.
func (c *BackendConfig) RestURL() string {
	return c.URL + "/rest/v1"
}

// AuthURL returns the base URL for auth calls.
func (c *BackendConfig) AuthURL() string {
	return c.URL + "/auth/v1"
}
