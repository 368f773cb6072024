package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"c4diagrammer/internal/logging"

	"github.com/adrg/xdg"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	APP_NAME = "c4diagrammer" // application name used for config directory

	// EnvPrefix prefixes every environment override, e.g. C4DIAGRAMMER_LIMITS_MAX_READ_BYTES.
	EnvPrefix = "C4DIAGRAMMER"

	// ConfigPathEnv points at an alternative config file.
	ConfigPathEnv = EnvPrefix + "_CONFIG_PATH"
)

const (
	DefaultDeleteAfter  = 60 * time.Second
	DefaultMaxReadBytes = 10 * 1024 * 1024
	DefaultReadmeName   = "README.C4Diagrammer.md"
)

// Config holds user configuration for the server.
type Config struct {
	// AllowedDirectories are the sandbox roots. Directories given on the command line
	// replace this list entirely.
	AllowedDirectories []string `yaml:"allowed_directories,omitempty" split_words:"true"`

	Preview PreviewConfig `yaml:"preview"`
	Limits  LimitsConfig  `yaml:"limits"`
	Readme  ReadmeConfig  `yaml:"readme"`
}

// PreviewConfig controls the browser preview of Mermaid diagrams.
type PreviewConfig struct {
	// DeleteAfter is how long a generated preview page survives.
	DeleteAfter time.Duration `yaml:"delete_after" split_words:"true"`
	// BrowserCommand overrides the platform opener. The page path is appended as the last argument.
	BrowserCommand string `yaml:"browser_command,omitempty" split_words:"true"`
	// TempDir is where preview pages are written; empty means os.TempDir().
	TempDir string `yaml:"temp_dir,omitempty" split_words:"true"`
	// OpenBrowser can be turned off for headless hosts; the page is still written.
	OpenBrowser bool `yaml:"open_browser" split_words:"true"`
}

type LimitsConfig struct {
	MaxReadBytes int64 `yaml:"max_read_bytes" split_words:"true"`
}

type ReadmeConfig struct {
	FileName string `yaml:"file_name" split_words:"true"`
}

// ConfigPath returns the config file location, honouring ConfigPathEnv.
func ConfigPath() string {
	if override := os.Getenv(ConfigPathEnv); override != "" {
		logging.Debug("Using config path from environment", "path", override)
		return override
	}

	configPath := filepath.Join(xdg.ConfigHome, APP_NAME, "config.yaml")
	logging.Debug("Determined config path", "path", configPath)
	return configPath
}

// FindConfigFile returns the path to the config file, and whether it exists.
func FindConfigFile() (string, bool) {
	path := ConfigPath()
	if _, err := os.Stat(path); err == nil {
		logging.Debug("Config found", "path", path)
		return path, true
	}
	return path, false
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Preview: PreviewConfig{
			DeleteAfter: DefaultDeleteAfter,
			OpenBrowser: true,
		},
		Limits: LimitsConfig{
			MaxReadBytes: DefaultMaxReadBytes,
		},
		Readme: ReadmeConfig{
			FileName: DefaultReadmeName,
		},
	}
}

// Load builds the effective configuration: defaults, then the config file if one exists,
// then environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	path, exists := FindConfigFile()

	var cfg *Config
	if exists {
		loaded, err := LoadFrom(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		logging.Debug("No config file, using defaults", "path", path)
		defaults := DefaultConfig()
		cfg = &defaults
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom loads config from a specific path. Keys absent from the file keep their defaults.
func LoadFrom(path string) (*Config, error) {
	logging.Debug("Reading config file", "path", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overlays C4DIAGRAMMER_* environment variables. Unset variables leave the
// current values alone.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("invalid environment configuration: %w", err)
	}
	return nil
}

// OverrideAllowedDirectories replaces the sandbox roots when dirs is non-empty.
func (c *Config) OverrideAllowedDirectories(dirs []string) {
	if len(dirs) > 0 {
		c.AllowedDirectories = dirs
	}
}

// Validate checks value ranges. It does not touch the allowed directories; those are
// verified when the sandbox is built.
func (c *Config) Validate() error {
	if c.Preview.DeleteAfter <= 0 {
		return fmt.Errorf("preview.delete_after must be positive, got %s", c.Preview.DeleteAfter)
	}
	if c.Limits.MaxReadBytes <= 0 {
		return fmt.Errorf("limits.max_read_bytes must be positive, got %d", c.Limits.MaxReadBytes)
	}
	name := strings.TrimSpace(c.Readme.FileName)
	if name == "" {
		return fmt.Errorf("readme.file_name cannot be empty")
	}
	if filepath.Base(name) != name {
		return fmt.Errorf("readme.file_name must be a bare file name, got %q", name)
	}
	return nil
}

// Save writes the config to the standard location
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the config to a specific path
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file with restrictive permissions (600) for security
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	logging.Info("Configuration saved", "path", path)
	return nil
}
