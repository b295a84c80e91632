package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config is the JSON settings file shared by the host and the CLI. Every
// field has a working default; a missing file is not an error.
type Config struct {
	DBPath           string  `json:"db_path"`
	ResetThreshold   float64 `json:"reset_threshold"`
	DefaultAccountID string  `json:"default_account_id"`
	HistoryLimit     int     `json:"history_limit"`
}

func DefaultConfig() Config {
	return Config{
		ResetThreshold:   5.0,
		DefaultAccountID: "default",
		HistoryLimit:     100,
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "quotabar")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "quotabar")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.ResetThreshold <= 0 {
		cfg.ResetThreshold = DefaultConfig().ResetThreshold
	}
	if cfg.DefaultAccountID == "" {
		cfg.DefaultAccountID = DefaultConfig().DefaultAccountID
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultConfig().HistoryLimit
	}

	return cfg, nil
}

func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

func SaveTo(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
