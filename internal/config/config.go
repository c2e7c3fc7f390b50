// Package config loads and saves the orgclone YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/inovacc/orgclone/internal/application"
	"gopkg.in/yaml.v3"
)

// FileName is the config file inside the application directory.
const FileName = "config.yaml"

const (
	DefaultBaseDir        = "."
	DefaultParallel       = 1
	DefaultNetworkRetries = 1
	DefaultLogLevel       = "info"

	maxParallel       = 10
	maxNetworkRetries = 10
)

// Config represents the orgclone configuration. Command line flags override
// every field.
type Config struct {
	// BaseDir is where <entity>/<name> mirrors are created
	BaseDir string `yaml:"base_dir"`

	// Bare creates mirrors without working trees
	Bare bool `yaml:"bare"`

	// SkipForks leaves forked repositories out of the run
	SkipForks bool `yaml:"skip_forks"`

	// Parallel is the number of repositories synced at once (1-10)
	Parallel int `yaml:"parallel"`

	// NetworkRetries is how many times clone and fetch are attempted (1-10)
	NetworkRetries int `yaml:"network_retries"`

	// APIURL overrides the GitHub API root, e.g. for GitHub Enterprise
	APIURL string `yaml:"api_url,omitempty"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`

	// JSON switches logs to JSON on stdout
	JSON bool `yaml:"json"`

	// Ledger records outcomes in the bolt ledger
	Ledger bool `yaml:"ledger"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		BaseDir:        DefaultBaseDir,
		Parallel:       DefaultParallel,
		NetworkRetries: DefaultNetworkRetries,
		LogLevel:       DefaultLogLevel,
		Ledger:         true,
	}
}

// DefaultPath returns the config location in the application directory.
func DefaultPath() (string, error) {
	dir, err := application.GetApplicationDirectory()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, FileName), nil
}

// Load loads configuration from the default location
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}

	return LoadFromPath(path)
}

// LoadFromPath loads configuration from path. A missing file yields the
// defaults; keys absent from the file keep their default values.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (c *Config) SaveToPath(path string) error {
	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	return data, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseDir) == "" {
		return fmt.Errorf("base_dir cannot be empty")
	}

	if c.Parallel < 1 || c.Parallel > maxParallel {
		return fmt.Errorf("parallel must be between 1 and %d, got %d", maxParallel, c.Parallel)
	}

	if c.NetworkRetries < 1 || c.NetworkRetries > maxNetworkRetries {
		return fmt.Errorf("network_retries must be between 1 and %d, got %d", maxNetworkRetries, c.NetworkRetries)
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// ParseLevel converts a log level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
