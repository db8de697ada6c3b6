// Package config loads slipctl settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/bigbag/slipctl/internal/slip"
)

// Environment variables that override file values.
const (
	EnvDevice  = "SLIPCTL_DEVICE"
	EnvBaud    = "SLIPCTL_BAUD"
	EnvVariant = "SLIPCTL_VARIANT"
)

// Config holds all application configuration.
type Config struct {
	Link    Link    `toml:"link"`
	Framing Framing `toml:"framing"`
	Log     Log     `toml:"log"`
}

// Link describes the byte channel frames travel over.
// A Device containing ':' is a TCP address, anything else a serial port.
type Link struct {
	Device      string        `toml:"device"`
	Baud        int           `toml:"baud"`
	ReadTimeout time.Duration `toml:"read_timeout"`
	DialTimeout time.Duration `toml:"dial_timeout"`
}

// Framing holds codec and buffer sizes.
type Framing struct {
	Variant        slip.Variant `toml:"variant"`
	MaxFrame       int          `toml:"max_frame"`
	QueueSize      int          `toml:"queue_size"`
	ScratchSize    int          `toml:"scratch_size"`
	LegacyTruncate bool         `toml:"legacy_truncate"`
}

// Log holds logger settings.
type Log struct {
	Level   string `toml:"level"`
	JSON    bool   `toml:"json"`
	NoColor bool   `toml:"no_color"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Link: Link{
			Baud:        115200,
			ReadTimeout: 100 * time.Millisecond,
			DialTimeout: 5 * time.Second,
		},
		Framing: Framing{
			Variant:     slip.Standard,
			MaxFrame:    4096,
			QueueSize:   512,
			ScratchSize: 256,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads the configuration from path on top of the defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides link and framing settings from SLIPCTL_* variables.
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvDevice)); v != "" {
		c.Link.Device = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBaud)); v != "" {
		baud, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvBaud, v, err)
		}
		c.Link.Baud = baud
	}
	if v := strings.TrimSpace(os.Getenv(EnvVariant)); v != "" {
		variant, err := slip.ParseVariant(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvVariant, err)
		}
		c.Framing.Variant = variant
	}
	return c.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error

	if c.Link.Baud <= 0 {
		errs = append(errs, fmt.Errorf("link.baud must be positive, got %d", c.Link.Baud))
	}
	if c.Link.ReadTimeout < 0 {
		errs = append(errs, fmt.Errorf("link.read_timeout must not be negative"))
	}
	if c.Link.DialTimeout < 0 {
		errs = append(errs, fmt.Errorf("link.dial_timeout must not be negative"))
	}

	if c.Framing.Variant != slip.Standard && c.Framing.Variant != slip.ThreeWire {
		errs = append(errs, fmt.Errorf("framing.variant %s is not supported", c.Framing.Variant))
	}
	// END END is the smallest frame.
	if c.Framing.MaxFrame < 2 {
		errs = append(errs, fmt.Errorf("framing.max_frame must be at least 2, got %d", c.Framing.MaxFrame))
	}
	if c.Framing.ScratchSize <= 0 {
		errs = append(errs, fmt.Errorf("framing.scratch_size must be positive, got %d", c.Framing.ScratchSize))
	}
	if c.Framing.QueueSize < c.Framing.ScratchSize {
		errs = append(errs, fmt.Errorf("framing.queue_size (%d) must be at least framing.scratch_size (%d)",
			c.Framing.QueueSize, c.Framing.ScratchSize))
	}

	return errors.Join(errs...)
}
