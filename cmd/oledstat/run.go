package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opd-ai/oledstat/internal/config"
	"github.com/opd-ai/oledstat/internal/daemon"
	"github.com/opd-ai/oledstat/internal/display"
	"github.com/opd-ai/oledstat/internal/layout"
	"github.com/opd-ai/oledstat/internal/logging"
	"github.com/opd-ai/oledstat/internal/profiling"
)

// runOptions are the flags of the display loop.
type runOptions struct {
	watch      bool
	cpuProfile string
	memProfile string
}

func (o *runOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.watch, "watch", false, "reload the configuration file when it changes")
	cmd.Flags().StringVar(&o.cpuProfile, "cpuprofile", "", "write a CPU profile to this file")
	cmd.Flags().StringVar(&o.memProfile, "memprofile", "", "write a heap profile to this file on exit")
}

func newRunCmd(a *app) *cobra.Command {
	ro := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the display loop",
		Long: `Initialize the display and redraw it once per cadence until SIGINT or
SIGTERM. SIGHUP reloads the configuration file; --watch does the same
whenever the file changes. Display geometry changes need a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDaemon(cmd.Context(), ro)
		},
	}
	ro.bind(cmd)
	return cmd
}

func (a *app) runDaemon(ctx context.Context, ro *runOptions) error {
	if ro.watch && a.configPath == "" {
		return fmt.Errorf("--watch needs a configuration file (-c)")
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	level := new(slog.LevelVar)
	format, logOut, closeLog, err := a.logSetup(cfg, level)
	if err != nil {
		return err
	}
	defer closeLog()
	log := logging.New(logOut, format, level)

	prof := profiling.New(profiling.Config{CPUProfilePath: ro.cpuProfile, MemProfilePath: ro.memProfile})
	if err := prof.Start(); err != nil {
		return err
	}
	defer func() {
		if err := prof.Stop(); err != nil {
			log.Warn("failed to write profiles", "error", err)
		}
	}()

	d, err := a.newDaemon(cfg, log)
	if err != nil {
		return err
	}

	r := &reloader{daemon: d, level: level, log: log, display: cfg.Display}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.configPath != "" {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-hup:
					log.Info("received SIGHUP, reloading configuration", "path", a.configPath)
					next, err := config.Load(a.configPath)
					if err != nil {
						r.reject(err)
						continue
					}
					r.apply(next)
				}
			}
		}()
	}

	if ro.watch {
		w, err := config.NewWatcher(a.configPath, config.DefaultWatchDebounce, r.apply, r.reject)
		if err != nil {
			return fmt.Errorf("watching %s: %w", a.configPath, err)
		}
		w.Start()
		defer w.Stop()
	}

	log.Info("oledstat starting", "version", Version, "config", a.configPath, "sink", cfg.Display.Sink)
	return d.Run(ctx)
}

// logSetup resolves the log format and level and opens the log destination.
func (a *app) logSetup(cfg *config.Config, level *slog.LevelVar) (logging.Format, io.Writer, func(), error) {
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return "", nil, nil, err
	}
	lvl, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return "", nil, nil, err
	}
	level.Set(lvl)

	if cfg.Log.File == "" {
		return format, a.stderr, func() {}, nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return format, f, func() { f.Close() }, nil
}

func (a *app) newDaemon(cfg *config.Config, log *slog.Logger) (*daemon.Daemon, error) {
	sink, err := newSink(cfg, a.stdout)
	if err != nil {
		return nil, err
	}
	rotation, err := display.ParseRotation(cfg.Display.Rotation)
	if err != nil {
		return nil, err
	}
	return daemon.New(daemon.Options{
		Sink:     sink,
		Layout:   layout.New(cfg.Display.LineLength),
		DeviceID: cfg.Display.Device,
		Rows:     cfg.Display.Rows,
		Columns:  cfg.Display.Columns,
		Rotation: rotation,
		Settings: daemon.SettingsFromConfig(cfg),
		Logger:   log,
	})
}

func newSink(cfg *config.Config, stdout io.Writer) (display.Sink, error) {
	switch cfg.Display.Sink {
	case config.SinkTerminal:
		return display.NewTerminal(), nil
	case config.SinkWriter:
		return display.NewWriter(stdout), nil
	default:
		return nil, fmt.Errorf("unknown display sink %q", cfg.Display.Sink)
	}
}

// reloader applies a reloaded configuration to a running daemon.
type reloader struct {
	daemon  *daemon.Daemon
	level   *slog.LevelVar
	log     *slog.Logger
	display config.DisplayConfig
}

func (r *reloader) apply(cfg *config.Config) {
	if lvl, err := logging.ParseLevel(cfg.Log.Level); err == nil {
		r.level.Set(lvl)
	}
	if err := r.daemon.Reload(daemon.SettingsFromConfig(cfg)); err != nil {
		r.reject(err)
		return
	}
	if cfg.Display != r.display {
		r.log.Warn("display settings changed, restart to apply")
	}
	r.log.Info("configuration reloaded", "cadence", cfg.Cadence, "interface", cfg.Interface)
}

func (r *reloader) reject(err error) {
	r.log.Warn("ignoring configuration reload", "error", err)
}
