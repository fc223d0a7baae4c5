// Package config loads runtime configuration for the notebooks core.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/logging"
)

// Storage backends.
const (
	StorageSQLite   = "sqlite"
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// DefaultKeyPrefix keeps storage keys compatible with data written by earlier app releases.
const DefaultKeyPrefix = "my-notebooks-custom-themes"

type Config struct {
	App     AppConfig
	Storage StorageConfig
	Log     LogConfig
	Media   MediaConfig
	Server  ServerConfig
}

type AppConfig struct {
	DataDir     string `validate:"required"`
	Environment string
	EventBuffer int `validate:"gte=0"`
}

type StorageConfig struct {
	Backend     string `validate:"oneof=sqlite memory redis postgres"`
	KeyPrefix   string `validate:"required"`
	RedisURL    string `validate:"required_if=Backend redis"`
	PostgresDSN string `validate:"required_if=Backend postgres"`
}

type LogConfig struct {
	FilePath string
	Level    logging.LogLevel
}

type MediaConfig struct {
	ThumbnailSize int `validate:"gt=0"`
}

type ServerConfig struct {
	Addr string `validate:"required,hostname_port"`
}

var validate = validator.New()

// Load reads an optional .env file and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logging.Debug("No .env file found, using system environment")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() *Config {
	return &Config{
		App: AppConfig{
			DataDir:     getEnv("NOTEBOOKS_DATA_DIR", "./data"),
			Environment: getEnv("NOTEBOOKS_ENV", "development"),
			EventBuffer: getEnvAsInt("NOTEBOOKS_EVENT_BUFFER", 64),
		},
		Storage: StorageConfig{
			Backend:     getEnv("NOTEBOOKS_STORAGE", StorageSQLite),
			KeyPrefix:   getEnv("NOTEBOOKS_KEY_PREFIX", DefaultKeyPrefix),
			RedisURL:    getEnv("NOTEBOOKS_REDIS_URL", "redis://localhost:6379/0"),
			PostgresDSN: getEnv("NOTEBOOKS_POSTGRES_DSN", ""),
		},
		Log: LogConfig{
			FilePath: getEnv("NOTEBOOKS_LOG_FILE", ""),
			Level:    logging.ParseLevel(getEnv("NOTEBOOKS_LOG_LEVEL", "INFO")),
		},
		Media: MediaConfig{
			ThumbnailSize: getEnvAsInt("NOTEBOOKS_THUMBNAIL_SIZE", 320),
		},
		Server: ServerConfig{
			Addr: getEnv("NOTEBOOKS_LISTEN_ADDR", "127.0.0.1:8090"),
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			problems = append(problems, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}

// IsProduction reports whether the production environment is selected.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ImagesDir is where imported background images are stored.
func (c *Config) ImagesDir() string {
	return filepath.Join(c.App.DataDir, "images")
}

// LoggingOptions converts the log section into logger options.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		FilePath:   c.Log.FilePath,
		Level:      c.Log.Level,
		Production: c.IsProduction(),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
