package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:            "https://project.example.com",
			AnonKey:        "anon-key",
			RequestTimeout: 15 * time.Second,
		},
		Storage: StorageConfig{Path: "/tmp/haven-test"},
		Logging: LoggingConfig{Level: "info", Env: "production"},
		Client: ClientConfig{
			LongPressThreshold: 500 * time.Millisecond,
			FeedPageSize:       100,
		},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing url", func(c *Config) { c.Backend.URL = "" }},
		{"bad scheme", func(c *Config) { c.Backend.URL = "ftp://project.example.com" }},
		{"missing anon key", func(c *Config) { c.Backend.AnonKey = "" }},
		{"zero page size", func(c *Config) { c.Client.FeedPageSize = 0 }},
		{"tap-length threshold", func(c *Config) { c.Client.LongPressThreshold = 50 * time.Millisecond }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HAVEN_BACKEND_URL", "https://project.example.com/")
	t.Setenv("HAVEN_ANON_KEY", "anon-key")
	t.Setenv("HAVEN_STORAGE_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://project.example.com", cfg.Backend.URL, "trailing slash is trimmed")
	assert.Equal(t, 15*time.Second, cfg.Backend.RequestTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Client.LongPressThreshold)
	assert.Equal(t, 100, cfg.Client.FeedPageSize)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestBackendURLs(t *testing.T) {
	b := &BackendConfig{URL: "https://project.example.com"}
	assert.Equal(t, "https://project.example.com/rest/v1", b.RestURL())
	assert.Equal(t, "https://project.example.com/auth/v1", b.AuthURL())
}
