package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/frudas24/autoclick/internal/config"
	"github.com/frudas24/autoclick/internal/logger"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and websocket control channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), opts)
		},
	}
}

// serve wires the application and blocks until shutdown.
func serve(parent context.Context, opts *rootOptions) error {
	ctx, stop := interruptContext(parent)
	defer stop()

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireControlPassword(); err != nil {
		return err
	}
	logStartup(cfg)

	rt, err := wire(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()
	defer func() {
		rt.app.Stop()
		rt.app.StopRecording()
		rt.app.Wait()
	}()

	mux := http.NewServeMux()
	rt.app.RegisterRoutes(mux)
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// logStartup prints startup checks and connection info.
func logStartup(cfg config.Config) {
	log := logger.Area("cli")
	log.Info("autoclick starting", "data_dir", cfg.DataDir)
	logEnvStatus(cfg)
	logListenStatus(cfg.ListenAddr)
}

// logEnvStatus reports whether a .env file was found.
func logEnvStatus(cfg config.Config) {
	envPath := filepath.Join(cfg.DataDir, ".env")
	if fileExists(envPath) {
		logger.Area("cli").Info("env check: ok", "path", envPath)
		return
	}
	logger.Area("cli").Info("env check: missing", "path", envPath)
}

// logListenStatus reports the listen address and a local URL helper.
func logListenStatus(addr string) {
	log := logger.Area("cli")
	log.Info("listen addr", "addr", addr)
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	log.Info("local url", "url", "http://"+net.JoinHostPort(host, port))
}

// fileExists reports whether a path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
