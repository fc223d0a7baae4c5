// Package main provides the local notebooks server for desktop platforms.
// Desktop clients communicate via REST/WebSocket on localhost.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/cmd/desktop/handlers"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/bootstrap"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/config"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logging.Init(cfg.LoggingOptions())
	log := logging.Get()
	defer log.Sync()

	core, err := bootstrap.NewContainer(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to start core: %w", err)
	}
	defer core.Close()

	hub := NewWSHub(ctx)
	if err := hub.Relay(ctx, core.Bus); err != nil {
		return fmt.Errorf("failed to relay changes: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newRouter(core, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Notebooks desktop server starting", map[string]interface{}{"addr": cfg.Server.Addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("Shutting down desktop server")
	return srv.Shutdown(shutdownCtx)
}

// newRouter registers the REST, health and WebSocket routes.
func newRouter(core *bootstrap.Container, hub *WSHub) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","service":"notebooks-desktop","storage":%q}`, core.Config.Storage.Backend)
	})
	mux.HandleFunc("GET /ws", HandleWebSocket(hub))

	handlers.NewNotebookHandler(core.Notebooks).Register(mux)
	handlers.NewSettingsHandler(core.Notebooks, core.Onboarding, core.Images).Register(mux)

	return mux
}
