package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/logging"
)

func TestFromEnv_defaults(t *testing.T) {
	for _, key := range []string{
		"NOTEBOOKS_DATA_DIR", "NOTEBOOKS_ENV", "NOTEBOOKS_EVENT_BUFFER", "NOTEBOOKS_STORAGE",
		"NOTEBOOKS_KEY_PREFIX", "NOTEBOOKS_REDIS_URL", "NOTEBOOKS_POSTGRES_DSN",
		"NOTEBOOKS_LOG_FILE", "NOTEBOOKS_LOG_LEVEL", "NOTEBOOKS_THUMBNAIL_SIZE", "NOTEBOOKS_LISTEN_ADDR",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := FromEnv()

	assert.Equal(t, "./data", cfg.App.DataDir)
	assert.Equal(t, 64, cfg.App.EventBuffer)
	assert.Equal(t, StorageSQLite, cfg.Storage.Backend)
	assert.Equal(t, DefaultKeyPrefix, cfg.Storage.KeyPrefix)
	assert.Equal(t, logging.LevelInfo, cfg.Log.Level)
	assert.Equal(t, 320, cfg.Media.ThumbnailSize)
	assert.Equal(t, "127.0.0.1:8090", cfg.Server.Addr)
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, filepath.Join("./data", "images"), cfg.ImagesDir())
}

func TestFromEnv_overrides(t *testing.T) {
	t.Setenv("NOTEBOOKS_DATA_DIR", "/tmp/notebooks")
	t.Setenv("NOTEBOOKS_ENV", "production")
	t.Setenv("NOTEBOOKS_EVENT_BUFFER", "8")
	t.Setenv("NOTEBOOKS_STORAGE", StorageRedis)
	t.Setenv("NOTEBOOKS_KEY_PREFIX", "test")
	t.Setenv("NOTEBOOKS_REDIS_URL", "redis://cache:6379/2")
	t.Setenv("NOTEBOOKS_LOG_LEVEL", "debug")
	t.Setenv("NOTEBOOKS_LOG_FILE", "/tmp/notebooks.log")
	t.Setenv("NOTEBOOKS_THUMBNAIL_SIZE", "not-a-number")
	t.Setenv("NOTEBOOKS_LISTEN_ADDR", "127.0.0.1:9999")

	cfg := FromEnv()

	assert.Equal(t, "/tmp/notebooks", cfg.App.DataDir)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 8, cfg.App.EventBuffer)
	assert.Equal(t, StorageRedis, cfg.Storage.Backend)
	assert.Equal(t, "test", cfg.Storage.KeyPrefix)
	assert.Equal(t, "redis://cache:6379/2", cfg.Storage.RedisURL)
	assert.Equal(t, logging.LevelDebug, cfg.Log.Level)
	assert.Equal(t, 320, cfg.Media.ThumbnailSize, "invalid integers fall back to the default")
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)

	opts := cfg.LoggingOptions()
	assert.Equal(t, "/tmp/notebooks.log", opts.FilePath)
	assert.True(t, opts.Production)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:     AppConfig{DataDir: "./data", EventBuffer: 64},
			Storage: StorageConfig{Backend: StorageSQLite, KeyPrefix: DefaultKeyPrefix},
			Media:   MediaConfig{ThumbnailSize: 320},
			Server:  ServerConfig{Addr: "127.0.0.1:8090"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"sqlite", func(c *Config) {}, false},
		{"memory", func(c *Config) { c.Storage.Backend = StorageMemory }, false},
		{"postgres without dsn", func(c *Config) { c.Storage.Backend = StoragePostgres }, true},
		{"postgres with dsn", func(c *Config) {
			c.Storage.Backend = StoragePostgres
			c.Storage.PostgresDSN = "postgres://localhost/notebooks"
		}, false},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "leveldb" }, true},
		{"empty prefix", func(c *Config) { c.Storage.KeyPrefix = "" }, true},
		{"negative buffer", func(c *Config) { c.App.EventBuffer = -1 }, true},
		{"zero thumbnail", func(c *Config) { c.Media.ThumbnailSize = 0 }, true},
		{"redis without url", func(c *Config) { c.Storage.Backend = StorageRedis }, true},
		{"missing data dir", func(c *Config) { c.App.DataDir = "" }, true},
		{"bad listen addr", func(c *Config) { c.Server.Addr = "localhost" }, true},
		{"any interface", func(c *Config) { c.Server.Addr = ":8090" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_message(t *testing.T) {
	cfg := &Config{
		App:     AppConfig{DataDir: "./data"},
		Storage: StorageConfig{Backend: "leveldb", KeyPrefix: "x"},
		Media:   MediaConfig{ThumbnailSize: 1},
		Server:  ServerConfig{Addr: ":8090"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Storage.Backend failed oneof")
	assert.Contains(t, err.Error(), "leveldb")
}
