package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

// Config captures what discografia needs to reach the backend and keep its
// local state.
type Config struct {
	APIURL       string
	SessionPath  string
	LogFile      string
	LogLevel     logrus.Level
	SessionCheck time.Duration
}

const (
	defaultConfigPath   = "~/.config/discografia/config.toml"
	defaultAPIURL       = "http://127.0.0.1:3000"
	defaultSessionPath  = "~/.config/discografia/session.toml"
	defaultLogFile      = "~/.local/state/discografia/discografia.log"
	defaultLogLevel     = logrus.InfoLevel
	defaultSessionCheck = 60 * time.Second
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DISCOGRAFIA_"

// overrides are read from the environment and win over the file.
type overrides struct {
	APIURL      string `env:"API_URL"`
	SessionPath string `env:"SESSION_PATH"`
	LogFile     string `env:"LOG_FILE"`
	LogLevel    string `env:"LOG_LEVEL"`
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config file, falling back to defaults when it
// is missing, then applies DISCOGRAFIA_* environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw struct {
		APIURL              string `toml:"api_url"`
		SessionPath         string `toml:"session_path"`
		LogFile             string `toml:"log_file"`
		LogLevel            string `toml:"log_level"`
		SessionCheckSeconds int    `toml:"session_check_seconds"`
	}

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	var fromEnv overrides
	if err := parseEnv(&fromEnv); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg := Config{
		APIURL:       firstNonEmpty(fromEnv.APIURL, raw.APIURL, defaultAPIURL),
		SessionPath:  mustExpand(firstNonEmpty(fromEnv.SessionPath, raw.SessionPath, defaultSessionPath)),
		LogFile:      mustExpand(firstNonEmpty(fromEnv.LogFile, raw.LogFile, defaultLogFile)),
		LogLevel:     defaultLogLevel,
		SessionCheck: defaultSessionCheck,
	}
	if raw.SessionCheckSeconds > 0 {
		cfg.SessionCheck = time.Duration(raw.SessionCheckSeconds) * time.Second
	}
	if level := firstNonEmpty(fromEnv.LogLevel, raw.LogLevel); level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return Config{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.LogLevel = parsed
	}

	return cfg, nil
}

func parseEnv(out *overrides) error {
	return env.ParseWithOptions(out, env.Options{Prefix: EnvPrefix})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
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
