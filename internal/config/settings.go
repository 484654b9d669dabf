package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// SettingsFileName is looked up from the working directory upwards.
const SettingsFileName = "typedemand.yaml"

// SupportedSchema is the range of settings schema versions this build reads.
const SupportedSchema = "^1"

// Color modes for diagnostic output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Settings is the top-level typedemand.yaml configuration.
type Settings struct {
	// Schema is the settings format version (e.g. "1.0").
	Schema string `yaml:"schema"`

	// StrictUnions disables the implicit T <: T | U injection during subtyping.
	StrictUnions bool `yaml:"strict_unions,omitempty"`

	// Color is one of auto, always, never. Defaults to auto.
	Color string `yaml:"color,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `yaml:"log_level,omitempty"`

	// Record is the path of a SQLite database that receives every reported
	// mismatch. Relative paths are resolved against the settings file.
	Record string `yaml:"record,omitempty"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() *Settings {
	s := &Settings{Schema: "1.0"}
	s.setDefaults()
	return s
}

// LoadSettings reads and parses a typedemand.yaml file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}
	return ParseSettings(data, path)
}

// ParseSettings parses typedemand.yaml content from bytes.
// The path argument is used for error messages and to resolve relative paths.
func ParseSettings(data []byte, path string) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := s.validate(path); err != nil {
		return nil, err
	}
	s.setDefaults()
	if s.Record != "" && !filepath.IsAbs(s.Record) && path != "" {
		s.Record = filepath.Join(filepath.Dir(path), s.Record)
	}
	return &s, nil
}

// FindSettings searches for typedemand.yaml starting from dir and walking up
// to parent directories. Returns an empty path and nil error if none exists.
func FindSettings(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, SettingsFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (s *Settings) validate(path string) error {
	if s.Schema == "" {
		return fmt.Errorf("%s: schema is required", path)
	}
	v, err := semver.NewVersion(s.Schema)
	if err != nil {
		return fmt.Errorf("%s: invalid schema version %q: %w", path, s.Schema, err)
	}
	c, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("%s: unsupported schema version %s (want %s)", path, s.Schema, SupportedSchema)
	}

	switch s.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%s: color must be one of auto, always, never (got %q)", path, s.Color)
	}

	if s.LogLevel != "" {
		if _, err := parseLevel(s.LogLevel); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func (s *Settings) setDefaults() {
	if s.Color == "" {
		s.Color = ColorAuto
	}
	if s.LogLevel == "" {
		s.LogLevel = "warn"
	}
}

// Level returns the slog level named by LogLevel.
func (s *Settings) Level() slog.Level {
	l, err := parseLevel(s.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return l
}

func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}
