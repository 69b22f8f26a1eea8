// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all pokecard configuration.
type Config struct {
	API     API     `yaml:"api"`
	Storage Storage `yaml:"storage"`
	Display Display `yaml:"display"`
	Logging Logging `yaml:"logging"`
}

// API holds the PokéAPI endpoint settings.
type API struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"` // 0 disables the request timeout
}

// Storage holds the persistent cache backend settings.
type Storage struct {
	Driver string `yaml:"driver"` // "file" | "sqlite" | "memory"
	Path   string `yaml:"path"`   // directory for file, database file for sqlite
}

// Display holds card rendering settings.
type Display struct {
	ImageCategory string `yaml:"image_category"`
}

// Logging holds log output settings.
type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // empty logs to stderr
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: API{
			BaseURL: "https://pokeapi.co/api/v2/",
		},
		Storage: Storage{
			Driver: "file",
			Path:   ".pokecard/storage",
		},
		Display: Display{
			ImageCategory: "pokemon",
		},
		Logging: Logging{
			Level: "info",
			File:  ".pokecard/pokecard.log",
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	return LoadLayered(path)
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url cannot be empty", ErrInvalidConfig)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("%w: api.timeout must be non-negative, got %v", ErrInvalidConfig, c.API.Timeout)
	}
	switch c.Storage.Driver {
	case "file", "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: storage.path cannot be empty for driver %q", ErrInvalidConfig, c.Storage.Driver)
		}
	case "memory":
		// no path needed
	default:
		return fmt.Errorf("%w: storage.driver must be \"file\", \"sqlite\" or \"memory\", got %q", ErrInvalidConfig, c.Storage.Driver)
	}
	if c.Display.ImageCategory == "" {
		return fmt.Errorf("%w: display.image_category cannot be empty", ErrInvalidConfig)
	}
	return nil
}

// envOverrides lists the supported environment variables. Fields are seeded
// from the current config, so unset variables keep their value.
type envOverrides struct {
	BaseURL       string        `env:"POKECARD_BASE_URL"`
	Timeout       time.Duration `env:"POKECARD_TIMEOUT"`
	StorageDriver string        `env:"POKECARD_STORAGE_DRIVER"`
	StoragePath   string        `env:"POKECARD_STORAGE_PATH"`
	LogLevel      string        `env:"POKECARD_LOG_LEVEL"`
	LogFile       string        `env:"POKECARD_LOG_FILE"`
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: POKECARD_BASE_URL, POKECARD_TIMEOUT,
// POKECARD_STORAGE_DRIVER, POKECARD_STORAGE_PATH, POKECARD_LOG_LEVEL,
// POKECARD_LOG_FILE.
func (c *Config) ApplyEnv() error {
	o := envOverrides{
		BaseURL:       c.API.BaseURL,
		Timeout:       c.API.Timeout,
		StorageDriver: c.Storage.Driver,
		StoragePath:   c.Storage.Path,
		LogLevel:      c.Logging.Level,
		LogFile:       c.Logging.File,
	}
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	c.API.BaseURL = o.BaseURL
	c.API.Timeout = o.Timeout
	c.Storage.Driver = o.StorageDriver
	c.Storage.Path = o.StoragePath
	c.Logging.Level = o.LogLevel
	c.Logging.File = o.LogFile
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	API     *rawAPI     `yaml:"api"`
	Storage *rawStorage `yaml:"storage"`
	Display *rawDisplay `yaml:"display"`
	Logging *rawLogging `yaml:"logging"`
}

type rawAPI struct {
	BaseURL *string        `yaml:"base_url"`
	Timeout *time.Duration `yaml:"timeout"`
}

type rawStorage struct {
	Driver *string `yaml:"driver"`
	Path   *string `yaml:"path"`
}

type rawDisplay struct {
	ImageCategory *string `yaml:"image_category"`
}

type rawLogging struct {
	Level *string `yaml:"level"`
	File  *string `yaml:"file"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.API != nil {
		setIf(&c.API.BaseURL, layer.API.BaseURL)
		setIf(&c.API.Timeout, layer.API.Timeout)
	}
	if layer.Storage != nil {
		setIf(&c.Storage.Driver, layer.Storage.Driver)
		setIf(&c.Storage.Path, layer.Storage.Path)
	}
	if layer.Display != nil {
		setIf(&c.Display.ImageCategory, layer.Display.ImageCategory)
	}
	if layer.Logging != nil {
		setIf(&c.Logging.Level, layer.Logging.Level)
		setIf(&c.Logging.File, layer.Logging.File)
	}
}

// setIf copies *src into *dst when src is set.
func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
