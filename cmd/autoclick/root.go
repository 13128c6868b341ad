package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/frudas24/autoclick/internal/app"
	"github.com/frudas24/autoclick/internal/config"
	"github.com/frudas24/autoclick/internal/history"
	"github.com/frudas24/autoclick/internal/logger"
	"github.com/frudas24/autoclick/internal/session"
	"github.com/frudas24/autoclick/internal/wininput"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	dataDir string
	debug   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "autoclick",
		Short: "Autoclick replays mouse and keyboard action profiles",
		Long: `Autoclick runs saved profiles and workspaces of clicks, key presses and
delays, records and replays cursor activity, and exposes run control over HTTP.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Directory holding config.yaml, .env and stored documents")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(
		newServeCmd(opts),
		newRunCmd(opts),
		newRecordCmd(opts),
		newPlayCmd(opts),
		newClickCmd(opts),
		newTypeCmd(opts),
		newProfilesCmd(opts),
		newHistoryCmd(opts),
	)
	return cmd
}

// loadConfig reads configuration and initializes logging.
func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.dataDir)
	if err != nil {
		return config.Config{}, err
	}
	level := cfg.LogLevel
	if o.debug {
		level = "debug"
	}
	if err := logger.Init(level, cfg.LogFormat, os.Stdout); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// wired bundles what the input-driving commands need.
type wired struct {
	cfg     config.Config
	app     *app.App
	history *history.Store
}

func (r *wired) Close() {
	if err := r.history.Close(); err != nil {
		logger.Area("cli").Warn("close history", "err", err)
	}
}

// wire builds the application for commands that inject input. Runs are
// children of ctx.
func wire(ctx context.Context, cfg config.Config) (*wired, error) {
	driver, err := wininput.NewDriver()
	if err != nil {
		return nil, fmt.Errorf("input driver: %w", err)
	}
	hist, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	a, err := app.New(ctx, cfg, session.New(cfg.ControlPassword), driver, hist)
	if err != nil {
		_ = hist.Close()
		return nil, err
	}
	if err := a.Start(); err != nil {
		_ = hist.Close()
		return nil, err
	}
	return &wired{cfg: cfg, app: a, history: hist}, nil
}

// interruptContext is cancelled on Ctrl+C.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
