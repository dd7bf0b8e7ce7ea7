package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/lanbind/internal/config"
	"github.com/yndnr/lanbind/internal/core/domain"
	"github.com/yndnr/lanbind/internal/infra/confloader"
	"github.com/yndnr/lanbind/internal/infra/shutdown"
	"github.com/yndnr/lanbind/internal/ollama/configfile"
	"github.com/yndnr/lanbind/internal/telemetry/logger"
)

// watchShutdownTimeout bounds the shutdown hooks of the watch command.
const watchShutdownTimeout = 5 * time.Second

// WatchCommand returns the watch command.
func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Keep the listen directive in place while the daemon config changes (never restarts the daemon)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides OLLAMA_HOST)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (overrides OLLAMA_PORT)",
			},
		},
		Action: watchAction,
	}
}

// directiveKeeper re-applies the listen directive whenever its file changes.
type directiveKeeper struct {
	patcher *configfile.Patcher
	binding domain.DesiredBinding
	log     logger.Logger
}

// apply patches the file once. Our own write triggers another event, which
// then finds nothing to change.
func (k *directiveKeeper) apply() error {
	changed, err := k.patcher.Patch(k.binding)
	if err != nil {
		return err
	}
	if changed {
		k.log.Info("listen directive restored", "path", k.patcher.Path(), "listen", k.binding.Address())
	}
	return nil
}

// onChange is the watcher callback.
func (k *directiveKeeper) onChange(path string) {
	k.log.Debug("daemon config changed", "path", path)
	if err := k.apply(); err != nil {
		k.log.Error("failed to restore listen directive", "path", path, "error", err)
	}
}

func watchAction(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}

	b, err := config.LoadBinding(cfg, c.String("host"), c.Int("port"))
	if err != nil {
		return err
	}

	keeper := &directiveKeeper{
		patcher: configfile.NewPatcher(cfg.Ollama.ConfigPath),
		binding: b,
		log:     log,
	}
	if err := keeper.apply(); err != nil {
		return err
	}

	// The first patch created the directory the watcher needs.
	path := cfg.Ollama.ConfigPath

	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.Slog()))
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Watch(path); err != nil {
		watcher.Stop()
		return fmt.Errorf("watch %s: %w", path, err)
	}
	watcher.OnChange(keeper.onChange)

	handler := shutdown.NewHandler(watchShutdownTimeout)
	handler.OnShutdown(func(context.Context) error {
		log.Info("stopping watcher")
		return watcher.Stop()
	})

	watcher.StartAsync()
	log.Info("watching daemon config", "path", path, "listen", b.Address())

	return handler.WaitContext(c.Context)
}
