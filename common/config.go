package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of the resolution core.
type Config struct {
	// LogLevel is the name of the reporter log level: silent, error, warn or
	// verbose.
	LogLevel string `toml:"log-level" yaml:"log-level" default:"silent"`

	// Workers is the number of nodes resolved in parallel within a round.  One
	// means resolution is serial.
	Workers int `toml:"workers" yaml:"workers" default:"1"`

	// MaxRounds caps the number of rounds per phase.  Zero means unlimited.
	MaxRounds int `toml:"max-rounds" yaml:"max-rounds"`

	// Debugging is the value of the `Debugging` preprocessor constant.
	Debugging bool `toml:"debugging" yaml:"debugging"`

	// CheckNumberKinds indicates whether the number kind engine and its
	// validation pass run after the body phase.
	CheckNumberKinds bool `toml:"check-number-kinds" yaml:"check-number-kinds" default:"true"`

	// AllowConversion indicates whether declared conversions are allowed when
	// matching call arguments against parameters.
	AllowConversion bool `toml:"allow-conversion" yaml:"allow-conversion" default:"true"`
}

// DefaultConfig returns the configuration used in absence of a file.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:         "silent",
		Workers:          1,
		CheckNumberKinds: true,
		AllowConversion:  true,
	}
}

// LoadConfig loads a configuration file.  The format is selected by the file
// extension: `.toml` or `.yaml`/`.yml`.  Missing keys keep their default value.
func LoadConfig(path string) (*Config, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		err = toml.Unmarshal(buff, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(buff, cfg)
	default:
		return nil, fmt.Errorf("unsupported configuration format `%s`", ext)
	}

	if err != nil {
		return nil, fmt.Errorf("error loading configuration %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}

	return cfg, nil
}

// LoadConfigDir loads the configuration file of a directory.  A directory
// without one gets the default configuration.
func LoadConfigDir(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return LoadConfig(path)
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "", "silent", "error", "warn", "verbose":
	default:
		return fmt.Errorf("unknown log level `%s`", c.LogLevel)
	}

	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}

	if c.MaxRounds < 0 {
		return errors.New("max-rounds cannot be negative")
	}

	return nil
}
