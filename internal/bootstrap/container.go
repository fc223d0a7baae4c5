// Package bootstrap assembles the notebooks core from configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/config"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/events"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/kv"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/logging"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/media"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/notebook"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/onboarding"
)

type Container struct {
	Config *config.Config
	Log    *logging.Logger

	// Storage
	KV   kv.Store
	Keys kv.Keys

	// Change notifications
	Bus *events.Bus

	// Stores
	Notebooks  *notebook.Store
	Onboarding *onboarding.Store

	// Background image import
	Images *media.Importer
}

// NewContainer opens storage, loads persisted state and wires the event bus.
// The caller owns the container and must Close it.
func NewContainer(ctx context.Context, cfg *config.Config, log *logging.Logger) (*Container, error) {
	if log == nil {
		log = logging.Get()
	}

	// 1. Storage
	store, err := kv.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	keys := kv.NewKeys(cfg.Storage.KeyPrefix)

	// 2. Event bus
	bus := events.NewBus(cfg.App.EventBuffer)

	// 3. Stores
	notebooks, err := notebook.Open(ctx, store,
		notebook.WithKeys(keys),
		notebook.WithLogger(log),
		notebook.WithPublisher(bus),
	)
	if err != nil {
		bus.Close()
		store.Close()
		return nil, err
	}

	ob := onboarding.New(store, keys.Onboarding, log)
	ob.Load(ctx)

	// 4. Media
	images, err := media.NewImporter(cfg.ImagesDir(), cfg.Media.ThumbnailSize, log)
	if err != nil {
		bus.Close()
		store.Close()
		return nil, err
	}

	log.Info("Notebooks core started", map[string]interface{}{
		"storage":   cfg.Storage.Backend,
		"data_dir":  cfg.App.DataDir,
		"notebooks": len(notebooks.Notebooks()),
	})

	return &Container{
		Config:     cfg,
		Log:        log,
		KV:         store,
		Keys:       keys,
		Bus:        bus,
		Notebooks:  notebooks,
		Onboarding: ob,
		Images:     images,
	}, nil
}

// Close shuts down the bus and releases storage.
func (c *Container) Close() error {
	busErr := c.Bus.Close()
	if err := c.KV.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	if busErr != nil {
		return fmt.Errorf("failed to close event bus: %w", busErr)
	}
	return nil
}
