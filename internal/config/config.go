// Package config loads layout settings from TOML.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the knobs of a layout run. Zero values are not meaningful;
// start from Default.
type Config struct {
	ContentWidth float64 `toml:"content_width"` // width handed to the box tree root
	CharWidth    float64 `toml:"char_width"`    // advance per character at 16px
	LineHeight   float64 `toml:"line_height"`   // multiple of font-size
	FontPath     string  `toml:"font_path"`     // TrueType font; empty selects fixed metrics
	RunScripts   bool    `toml:"run_scripts"`
}

// Default returns the built-in settings: a 600px window with 5px padding,
// 8px characters and 1.25 line spacing.
func Default() Config {
	return Config{
		ContentWidth: 590,
		CharWidth:    8,
		LineHeight:   1.25,
		RunScripts:   true,
	}
}

// Load reads path over the defaults. Unknown keys are an error so typos do
// not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the layout cannot use.
func (c Config) Validate() error {
	var errs []error
	if c.ContentWidth <= 0 {
		errs = append(errs, fmt.Errorf("content_width must be positive, got %v", c.ContentWidth))
	}
	if c.CharWidth <= 0 {
		errs = append(errs, fmt.Errorf("char_width must be positive, got %v", c.CharWidth))
	}
	if c.LineHeight <= 0 {
		errs = append(errs, fmt.Errorf("line_height must be positive, got %v", c.LineHeight))
	}
	return errors.Join(errs...)
}
