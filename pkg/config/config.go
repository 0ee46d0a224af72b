// Package config loads red's settings from an optional TOML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the config file, RED_*
// environment variables, then command-line flags (applied by the caller).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ColorMode selects when output is colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ErrColorMode is returned for a color setting other than auto, always or never.
var ErrColorMode = errors.New("invalid color mode")

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ColorMode) UnmarshalText(text []byte) error {
	mode, err := ParseColorMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// ParseColorMode parses a color setting, ignoring case.
func ParseColorMode(s string) (ColorMode, error) {
	switch mode := ColorMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	}
	return "", fmt.Errorf("%w: %q", ErrColorMode, s)
}

// Config holds the editor settings.
type Config struct {
	Prompt     bool      `toml:"prompt"`
	Color      ColorMode `toml:"color"`
	Goodbye    bool      `toml:"goodbye"`
	Restricted bool      `toml:"restricted"`
	Debug      bool      `toml:"debug"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Color:   ColorAuto,
		Goodbye: true,
	}
}

// ParseError reports a malformed config file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Path returns the config file location: $RED_CONFIG, else
// $XDG_CONFIG_HOME/red/config.toml, else ~/.config/red/config.toml.
// It returns "" when no location can be determined.
func Path(getenv func(string) string) string {
	if p := getenv("RED_CONFIG"); p != "" {
		return p
	}
	if dir := getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "red", "config.toml")
	}
	if home := getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", "red", "config.toml")
	}
	return ""
}

// LoadFile merges the TOML file at path into cfg. A missing file leaves
// cfg untouched and is not an error.
func LoadFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data, cfg)
}

// Parse merges TOML data into cfg. Keys absent from data keep their
// current value; unknown keys are rejected.
func Parse(source string, data []byte, cfg *Config) error {
	next := *cfg
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&next); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	*cfg = next
	return nil
}

// ApplyEnv overrides cfg from the environment. NO_COLOR, when set to any
// non-empty value, wins over RED_COLOR.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error
	boolVar := func(name string, dst *bool) {
		val, ok := lookup(name)
		if !ok || val == "" {
			return
		}
		b, err := parseBool(val)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		*dst = b
	}
	boolVar("RED_PROMPT", &cfg.Prompt)
	boolVar("RED_RESTRICTED", &cfg.Restricted)
	boolVar("RED_DEBUG", &cfg.Debug)
	boolVar("RED_GOODBYE", &cfg.Goodbye)

	if val, ok := lookup("RED_COLOR"); ok && val != "" {
		mode, err := ParseColorMode(val)
		if err != nil {
			errs = append(errs, fmt.Errorf("RED_COLOR: %w", err))
		} else {
			cfg.Color = mode
		}
	}
	if val, ok := lookup("NO_COLOR"); ok && val != "" {
		cfg.Color = ColorNever
	}
	return errors.Join(errs...)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}

// Load builds the configuration from defaults, the config file and the
// process environment. On error the returned Config still holds every
// setting that could be applied.
func Load() (Config, error) {
	cfg := Default()
	fileErr := LoadFile(Path(os.Getenv), &cfg)
	envErr := ApplyEnv(&cfg, os.LookupEnv)
	return cfg, errors.Join(fileErr, envErr)
}
