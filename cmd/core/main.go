// Package main provides the notebooks developer shell.
// It opens the configured store and runs commands read from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/chzyer/readline"

	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/bootstrap"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/config"
	apperrors "github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/errors"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/logging"
)

// Version is set at build time
var Version = "0.1.0"

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
	defer func() {
		if err := core.Close(); err != nil {
			log.Error("Failed to close core", err)
		}
	}()

	go logChanges(ctx, core)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		HistoryFile:     filepath.Join(cfg.App.DataDir, ".shell_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	fmt.Printf("Notebooks shell v%s (%s storage). Use 'help' for the list of commands.\n", Version, cfg.Storage.Backend)
	opts := []Option{WithPicker(promptPicker{rl: rl})}
	if readline.IsTerminal(int(os.Stdout.Fd())) {
		opts = append(opts, WithClipboard(osc52Clipboard{w: rl.Stdout()}))
	}
	shell := NewShell(core, rl.Stdout(), opts...)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}

		err = shell.Execute(ctx, line)
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(rl.Stderr(), "%s: %s\n", apperrors.CodeOf(err), apperrors.MessageOf(err))
		}
	}
}

// logChanges records every published change at debug level.
func logChanges(ctx context.Context, core *bootstrap.Container) {
	changes, err := core.Bus.Subscribe(ctx)
	if err != nil {
		core.Log.Error("Failed to subscribe to changes", err)
		return
	}
	for c := range changes {
		core.Log.Debug("Store changed", map[string]interface{}{
			"op":       string(c.Op),
			"revision": c.Revision,
			"notebook": c.NotebookID,
			"note":     c.NoteID,
		})
	}
}
