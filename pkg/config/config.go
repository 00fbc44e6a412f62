// Package config loads squash settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nooga/squash/pkg/minifier"
)

// Output controls how minified code is written.
type Output struct {
	// Dir receives one minified file per input when set; otherwise output
	// goes to stdout or the -o path.
	Dir string `yaml:"dir"`
	// Suffix is inserted before the extension of files written to Dir.
	Suffix string `yaml:"suffix"`
	// TrailingNewline appends "\n" to every output.
	TrailingNewline bool `yaml:"trailing_newline"`
}

// Config is the top-level configuration file.
type Config struct {
	Compress minifier.CompressOptions `yaml:"compress"`
	Output   Output                   `yaml:"output"`
	// Jobs bounds how many files are minified at once; 0 uses GOMAXPROCS.
	Jobs int `yaml:"jobs"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Compress: minifier.DefaultCompressOptions(),
		Output:   Output{Suffix: ".min"},
	}
}

// Load reads and parses a configuration file. Fields the file leaves out
// keep their defaults; unknown fields are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks values the decoder cannot.
func (c *Config) Validate() error {
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.Compress.Target == "" {
		return errors.New("compress.target must not be empty")
	}
	return nil
}
