// Package config loads environment configuration for Candela.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/frudas24/candela/internal/brightness"
	"github.com/frudas24/candela/internal/logging"
	"github.com/frudas24/candela/internal/schedule"
)

const (
	defaultListenAddr     = "127.0.0.1:8787"
	defaultMode           = brightness.ModeSoftware
	defaultResetOnExit    = true
	defaultMetricsEnabled = true
	defaultLogLevel       = "info"
	defaultLogFormat      = logging.FormatText
)

// Config holds runtime configuration values.
type Config struct {
	ListenAddr     string
	DataDir        string
	StaticDir      string
	APIToken       string
	TokenFromEnv   bool
	DefaultMode    brightness.Mode
	ResetOnExit    bool
	MetricsEnabled bool
	LogLevel       string
	LogFormat      string
	Schedule       []schedule.Entry
}

// EnvPath returns the .env file location inside DataDir.
func (c Config) EnvPath() string {
	return filepath.Join(c.DataDir, ".env")
}

// Load reads configuration from <DATA_DIR>/.env and environment variables.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:     defaultListenAddr,
		DataDir:        DefaultDataDir(),
		DefaultMode:    defaultMode,
		ResetOnExit:    defaultResetOnExit,
		MetricsEnabled: defaultMetricsEnabled,
		LogLevel:       defaultLogLevel,
		LogFormat:      defaultLogFormat,
	}

	cfg.DataDir = envString("DATA_DIR", cfg.DataDir)
	_, cfg.TokenFromEnv = os.LookupEnv("API_TOKEN")
	if err := loadEnvFile(cfg.EnvPath()); err != nil {
		return Config{}, err
	}

	cfg.ListenAddr = envString("LISTEN_ADDR", cfg.ListenAddr)
	cfg.StaticDir = envString("STATIC_DIR", "")
	cfg.APIToken = strings.TrimSpace(os.Getenv("API_TOKEN"))
	cfg.LogLevel = strings.ToLower(envString("LOG_LEVEL", cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(envString("LOG_FORMAT", cfg.LogFormat))

	mode, err := brightness.ParseMode(envString("DEFAULT_MODE", string(cfg.DefaultMode)))
	if err != nil {
		return Config{}, fmt.Errorf("DEFAULT_MODE: %w", err)
	}
	cfg.DefaultMode = mode

	if cfg.ResetOnExit, err = envBool("RESET_ON_EXIT", cfg.ResetOnExit); err != nil {
		return Config{}, err
	}
	if cfg.MetricsEnabled, err = envBool("METRICS_ENABLED", cfg.MetricsEnabled); err != nil {
		return Config{}, err
	}

	entries, err := schedule.Parse(os.Getenv("SCHEDULE"))
	if err != nil {
		return Config{}, fmt.Errorf("SCHEDULE: %w", err)
	}
	cfg.Schedule = entries

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL must be a logrus level: %w", err)
	}
	if cfg.LogFormat != logging.FormatText && cfg.LogFormat != logging.FormatJSON {
		return Config{}, fmt.Errorf("LOG_FORMAT must be %q or %q", logging.FormatText, logging.FormatJSON)
	}
	if cfg.ListenAddr == "" || !strings.Contains(cfg.ListenAddr, ":") {
		return Config{}, fmt.Errorf("LISTEN_ADDR must be host:port, got %q", cfg.ListenAddr)
	}

	return cfg, nil
}

// DefaultDataDir returns %APPDATA%\candela on Windows and ~/.config/candela elsewhere.
func DefaultDataDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "candela")
		}
	} else if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "candela")
	}
	return "./data"
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envBool returns a bool env override when present, otherwise a default.
func envBool(key string, def bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	default:
		return def, fmt.Errorf("%s must be a boolean, got %q", key, raw)
	}
}

// loadEnvFile loads KEY=VALUE pairs from a .env file without overriding the environment.
func loadEnvFile(path string) error {
	values, err := ReadEnvFile(path)
	if err != nil {
		return err
	}
	for key, value := range values {
		if _, exists := os.LookupEnv(key); !exists {
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadEnvFile returns the KEY=VALUE pairs of a .env file. A missing file yields no values.
func ReadEnvFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	values := map[string]string{}
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		values[key] = value
	}
	return values, nil
}

// parseEnvLine parses a single .env line into key/value.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	if strings.HasPrefix(line, "export ") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	}
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.Trim(strings.TrimSpace(value), `"'`), true
}
