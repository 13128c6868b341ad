// Package config loads layered configuration for AutoClick.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr        = "127.0.0.1:8787"
	defaultDataDir           = "./data"
	defaultLogLevel          = "info"
	defaultLogFormat         = "text"
	defaultRecordPollMs      = 10
	defaultPlaybackSpeed     = 1.0
	defaultForceStopWindowMs = 400

	configFileName = "config.yaml"
	envFileName    = ".env"
)

// Config holds runtime configuration values.
type Config struct {
	ListenAddr        string  `yaml:"listen_addr"`
	DataDir           string  `yaml:"-"`
	ProfilesDir       string  `yaml:"profiles_dir"`
	WorkspacesDir     string  `yaml:"workspaces_dir"`
	RecordingsDir     string  `yaml:"recordings_dir"`
	HistoryPath       string  `yaml:"history_path"`
	SettingsPath      string  `yaml:"settings_path"`
	ControlPassword   string  `yaml:"control_password"`
	LogLevel          string  `yaml:"log_level"`
	LogFormat         string  `yaml:"log_format"`
	RecordPollMs      int     `yaml:"record_poll_ms"`
	PlaybackSpeed     float64 `yaml:"playback_speed"`
	ForceStopWindowMs int     `yaml:"force_stop_window_ms"`
}

// RecordPoll returns the recorder sampling interval.
func (c Config) RecordPoll() time.Duration {
	return time.Duration(c.RecordPollMs) * time.Millisecond
}

// ForceStopWindow returns the double-toggle window that forces a stop.
func (c Config) ForceStopWindow() time.Duration {
	return time.Duration(c.ForceStopWindowMs) * time.Millisecond
}

// RequireControlPassword reports an error when the control surface has no password.
func (c Config) RequireControlPassword() error {
	if c.ControlPassword == "" {
		return errors.New("CONTROL_PASSWORD is required")
	}
	return nil
}

// Load builds the configuration from defaults, <dataDir>/config.yaml,
// <dataDir>/.env and environment variables, later layers winning. An empty
// dataDir falls back to DATA_DIR and then ./data.
func Load(dataDir string) (Config, error) {
	if dataDir == "" {
		dataDir = envString("DATA_DIR", defaultDataDir)
	}
	cfg := Config{
		ListenAddr:        defaultListenAddr,
		DataDir:           dataDir,
		LogLevel:          defaultLogLevel,
		LogFormat:         defaultLogFormat,
		RecordPollMs:      defaultRecordPollMs,
		PlaybackSpeed:     defaultPlaybackSpeed,
		ForceStopWindowMs: defaultForceStopWindowMs,
	}

	if err := loadYAMLFile(filepath.Join(dataDir, configFileName), &cfg); err != nil {
		return Config{}, err
	}
	if err := loadEnvFile(filepath.Join(dataDir, envFileName)); err != nil {
		return Config{}, err
	}

	cfg.ListenAddr = envString("LISTEN_ADDR", cfg.ListenAddr)
	cfg.ProfilesDir = envString("PROFILES_DIR", cfg.ProfilesDir)
	cfg.WorkspacesDir = envString("WORKSPACES_DIR", cfg.WorkspacesDir)
	cfg.RecordingsDir = envString("RECORDINGS_DIR", cfg.RecordingsDir)
	cfg.HistoryPath = envString("HISTORY_PATH", cfg.HistoryPath)
	cfg.SettingsPath = envString("SETTINGS_PATH", cfg.SettingsPath)
	cfg.ControlPassword = envString("CONTROL_PASSWORD", strings.TrimSpace(cfg.ControlPassword))
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envString("LOG_FORMAT", cfg.LogFormat)

	poll, err := envInt("RECORD_POLL_MS", cfg.RecordPollMs)
	if err != nil {
		return Config{}, err
	}
	if poll <= 0 {
		return Config{}, fmt.Errorf("RECORD_POLL_MS must be > 0")
	}
	cfg.RecordPollMs = poll

	speed, err := envFloat("PLAYBACK_SPEED", cfg.PlaybackSpeed)
	if err != nil {
		return Config{}, err
	}
	if speed <= 0 {
		return Config{}, fmt.Errorf("PLAYBACK_SPEED must be > 0")
	}
	cfg.PlaybackSpeed = speed

	window, err := envInt("FORCE_STOP_WINDOW_MS", cfg.ForceStopWindowMs)
	if err != nil {
		return Config{}, err
	}
	if window < 0 {
		return Config{}, fmt.Errorf("FORCE_STOP_WINDOW_MS must be >= 0")
	}
	cfg.ForceStopWindowMs = window

	if cfg.ProfilesDir == "" {
		cfg.ProfilesDir = filepath.Join(dataDir, "profiles")
	}
	if cfg.WorkspacesDir == "" {
		cfg.WorkspacesDir = filepath.Join(dataDir, "workspaces")
	}
	if cfg.RecordingsDir == "" {
		cfg.RecordingsDir = filepath.Join(dataDir, "recordings")
	}
	if cfg.HistoryPath == "" {
		cfg.HistoryPath = filepath.Join(dataDir, "history.db")
	}
	if cfg.SettingsPath == "" {
		cfg.SettingsPath = filepath.Join(dataDir, "settings.json")
	}

	return cfg, nil
}

// loadYAMLFile overlays a YAML file onto cfg. Missing files are ignored.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// loadEnvFile loads KEY=VALUE pairs without overriding the real environment.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

// envFloat returns a float env override when present, otherwise a default.
func envFloat(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return value, nil
}
