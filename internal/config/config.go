package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings shared by both client entry points.
type Config struct {
	BaseURL       string
	UploadTimeout time.Duration
	HealthTimeout time.Duration
	Theme         string
}

const (
	DefaultBaseURL       = "http://localhost:8000"
	DefaultUploadTimeout = 5 * time.Minute
	DefaultHealthTimeout = 5 * time.Second
	DefaultTheme         = "Nightfox"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		UploadTimeout: DefaultUploadTimeout,
		HealthTimeout: DefaultHealthTimeout,
		Theme:         DefaultTheme,
	}
}

// Load returns the defaults when path is blank. Otherwise the file must exist
// and parse as TOML; blank fields keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config %s not found", resolved)
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		BaseURL       string `toml:"base_url"`
		UploadTimeout string `toml:"upload_timeout"`
		HealthTimeout string `toml:"health_timeout"`
		Theme         string `toml:"theme"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if cfg.UploadTimeout, err = parseDuration("upload_timeout", raw.UploadTimeout, cfg.UploadTimeout); err != nil {
		return Config{}, err
	}
	if cfg.HealthTimeout, err = parseDuration("health_timeout", raw.HealthTimeout, cfg.HealthTimeout); err != nil {
		return Config{}, err
	}
	if v := strings.TrimSpace(raw.Theme); v != "" {
		cfg.Theme = v
	}

	return cfg, nil
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse config: %s must be positive, got %s", field, trimmed)
	}
	return d, nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
