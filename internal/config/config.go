// Package config provides configuration loading and validation for the spinner.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the application configuration.
type Config struct {
	Spinner SpinnerConfig `yaml:"spinner"`
}

// SpinnerConfig contains animation settings.
type SpinnerConfig struct {
	Interval   time.Duration `yaml:"interval"`
	FirstGlyph rune          `yaml:"first_glyph"`
	GlyphCount int           `yaml:"glyph_count"`
}

// DefaultConfigPath is the default path to look for the configuration file.
const DefaultConfigPath = "dotspin.yaml"

// Default values for optional configuration fields.
const (
	DefaultInterval   = 100 * time.Millisecond
	DefaultFirstGlyph = '⠀'
	DefaultGlyphCount = 256
)

// UTF-16 surrogate halves cannot be encoded as UTF-8.
const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
)

// Default returns a configuration with every field set to its default.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads and parses the configuration from the specified file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for optional fields
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDefault loads configuration from the default path (dotspin.yaml).
// A missing file is not an error; defaults are returned instead.
func LoadDefault() (*Config, error) {
	cfg, err := Load(DefaultConfigPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// applyDefaults sets default values for optional configuration fields.
func (c *Config) applyDefaults() {
	if c.Spinner.Interval == 0 {
		c.Spinner.Interval = DefaultInterval
	}
	if c.Spinner.FirstGlyph == 0 {
		c.Spinner.FirstGlyph = DefaultFirstGlyph
	}
	if c.Spinner.GlyphCount == 0 {
		c.Spinner.GlyphCount = DefaultGlyphCount
	}
}

// Validate checks that the spinner settings describe a usable glyph cycle.
func (c *Config) Validate() error {
	s := c.Spinner
	if s.Interval <= 0 {
		return fmt.Errorf("%w: spinner.interval must be positive, got %s", ErrInvalid, s.Interval)
	}
	if s.GlyphCount < 1 {
		return fmt.Errorf("%w: spinner.glyph_count must be at least 1, got %d", ErrInvalid, s.GlyphCount)
	}
	if s.FirstGlyph < 0 {
		return fmt.Errorf("%w: spinner.first_glyph must not be negative", ErrInvalid)
	}

	last := int64(s.FirstGlyph) + int64(s.GlyphCount) - 1
	if last > utf8.MaxRune {
		return fmt.Errorf("%w: glyph range U+%04X..U+%04X exceeds U+%04X",
			ErrInvalid, s.FirstGlyph, last, utf8.MaxRune)
	}
	if int64(s.FirstGlyph) <= surrogateMax && last >= surrogateMin {
		return fmt.Errorf("%w: glyph range U+%04X..U+%04X overlaps the surrogate block",
			ErrInvalid, s.FirstGlyph, last)
	}
	return nil
}
