package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mcncl/jsonshape/internal/lexer"
	"gopkg.in/yaml.v3"
)

// DefaultMaxDepth bounds how deeply arrays and objects may nest.
const DefaultMaxDepth = 10000

// Config represents the complete configuration for jsonshape
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Parser ParserConfig `yaml:"parser"`
	Dev    DevConfig    `yaml:"dev"`
}

// InputConfig controls how input is read
type InputConfig struct {
	BufferSize int `yaml:"buffer_size"`
}

// ParserConfig controls parsing limits
type ParserConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Input: InputConfig{
			BufferSize: lexer.DefaultBufferSize,
		},
		Parser: ParserConfig{
			MaxDepth: DefaultMaxDepth,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file. Keys missing from the
// file keep their default values; unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all limits are usable
func (c *Config) Validate() error {
	if c.Input.BufferSize < 16 {
		return fmt.Errorf("input.buffer_size must be at least 16, got %d", c.Input.BufferSize)
	}
	if c.Parser.MaxDepth < 1 {
		return fmt.Errorf("parser.max_depth must be positive, got %d", c.Parser.MaxDepth)
	}
	return nil
}

// FindConfigFile searches for a config file in the current directory and its parents
func FindConfigFile() string {
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigFrom(currentDir)
}

func findConfigFrom(dir string) string {
	configNames := []string{".jsonshape.yml", ".jsonshape.yaml", "jsonshape.yml", "jsonshape.yaml"}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			break
		}
		dir = parentDir
	}

	return ""
}

// LoadConfigWithCLI loads config with CLI argument precedence. An empty
// configPath means defaults; debug from the CLI can only switch debugging on.
func LoadConfigWithCLI(configPath string, cliDebug bool) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cliDebug {
		cfg.Dev.Debug = true
	}

	return cfg, nil
}
