package kv

import (
	"context"

	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/config"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/db"
	apperrors "github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/errors"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/logging"
)

// Open builds the store selected by cfg.Storage.Backend.
// SQL backends are migrated and fronted by a read-through cache.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalid, "invalid configuration", err)
	}

	switch cfg.Storage.Backend {
	case config.StorageMemory:
		return NewMemoryStore(), nil

	case config.StorageRedis:
		s, err := OpenRedis(ctx, cfg.Storage.RedisURL)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrUnavailable, "redis unavailable", err)
		}
		return s, nil

	case config.StoragePostgres:
		database, err := db.OpenPostgres(cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to open postgres", err)
		}
		return openSQL(database)

	default:
		database, err := db.Open(cfg.App.DataDir)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to open database", err)
		}
		return openSQL(database)
	}
}

func openSQL(database *db.DB) (Store, error) {
	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, apperrors.Wrap(apperrors.ErrMigration, "failed to migrate database", err)
	}
	logging.Debug("Key-value store ready", map[string]interface{}{
		"dialect": string(database.Dialect),
	})
	return NewCached(NewSQLStore(database), 0), nil
}
