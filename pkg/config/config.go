// Package config handles Scry configuration via a YAML file and
// environment variables.
//
// Configuration is loaded in two layers: an optional scry.yaml file read
// with gopkg.in/yaml.v3, then SCRY_* environment variables applied on top
// so a deployment can override single settings without editing the file.
// Load with Load() (or LoadFile for an explicit path) and call Validate()
// before use.
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatalf("invalid config: %v", err)
//	}
//	cfg.Logging.Apply()
//
// Environment Variables:
//   - SCRY_LOG_LEVEL=debug|info|warn|error
//   - SCRY_LOG_FORMAT=text|json
//   - SCRY_SNAPSHOT_DIR=./snapshots
//   - SCRY_MAX_QUERY_LEN=4096
//   - SCRY_MAX_CHAIN_LEN=32
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "scry.yaml"

// Config holds all Scry configuration.
type Config struct {
	// Logging configuration
	Logging LoggingConfig `yaml:"logging"`
	// Snapshot store settings
	Snapshot SnapshotConfig `yaml:"snapshot"`
	// Engine limits
	Engine EngineConfig `yaml:"engine"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// SnapshotConfig controls the saved-graph store.
type SnapshotConfig struct {
	// Dir is the directory holding the snapshot database.
	Dir string `yaml:"dir"`
}

// EngineConfig bounds query execution.
type EngineConfig struct {
	// MaxQueryLen caps query text length in bytes; 0 disables the cap.
	MaxQueryLen int `yaml:"max_query_len"`
	// MaxChainLen caps match chain length; 0 disables the cap.
	MaxChainLen int `yaml:"max_chain_len"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Snapshot: SnapshotConfig{Dir: "./snapshots"},
		Engine:   EngineConfig{MaxQueryLen: 4096, MaxChainLen: 32},
	}
}

// Load reads DefaultFile when present, applies environment overrides, and
// validates. A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	return LoadFile(DefaultFile)
}

// LoadFile reads the given YAML file (if it exists), applies environment
// overrides, and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults plus environment.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SCRY_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SCRY_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("SCRY_SNAPSHOT_DIR"); v != "" {
		c.Snapshot.Dir = v
	}
	if v := os.Getenv("SCRY_MAX_QUERY_LEN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Engine.MaxQueryLen = n
		}
	}
	if v := os.Getenv("SCRY_MAX_CHAIN_LEN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Engine.MaxChainLen = n
		}
	}
}

// Validate checks the configuration for values the rest of the program
// would choke on.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Logging.Format)
	}
	if c.Snapshot.Dir == "" {
		return fmt.Errorf("snapshot dir must not be empty")
	}
	if c.Engine.MaxQueryLen < 0 || c.Engine.MaxChainLen < 0 {
		return fmt.Errorf("engine limits must not be negative")
	}
	return nil
}

// Apply configures the global logrus logger from the logging settings.
func (l LoggingConfig) Apply() {
	switch l.Level {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
	if l.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{})
	}
}
