// Package config loads eventctl settings from YAML or TOML files, with
// EVENTMGR_ environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/dshills/eventmgr/internal/event"
	"github.com/dshills/eventmgr/internal/event/message"
	"github.com/dshills/eventmgr/internal/event/topic"
)

// Config holds the manager and CLI settings.
// Zero values are replaced by Default's values when loading.
type Config struct {
	LogLevel        string   `yaml:"log_level" toml:"log_level"`
	Locale          string   `yaml:"locale" toml:"locale"`
	DefaultPriority int      `yaml:"default_priority" toml:"default_priority"`
	StrictCallables bool     `yaml:"strict_callables" toml:"strict_callables"`
	Metrics         Metrics  `yaml:"metrics" toml:"metrics"`
	Scripts         []string `yaml:"scripts" toml:"scripts"`
	Peers           []Peer   `yaml:"peers" toml:"peers"`
}

// Metrics configures the Prometheus collectors.
type Metrics struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled"`
	Namespace string `yaml:"namespace" toml:"namespace"`
}

// Peer is a separate manager consulted by the main one on every event.
type Peer struct {
	Name    string   `yaml:"name" toml:"name"`
	Scripts []string `yaml:"scripts" toml:"scripts"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:        "info",
		Locale:          "en",
		DefaultPriority: int(event.PriorityDefault),
		Metrics: Metrics{
			Namespace: "eventmgr",
		},
	}
}

// Load reads a configuration file based on its extension, applies
// defaults and environment overrides, and validates the result.
// Supports: .yaml/.yml, .toml
//
// Relative script paths are resolved against the file's directory.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return cfg, &ParseError{Path: path, Message: err.Error(), Err: err}
	}

	cfg.resolve(filepath.Dir(path))
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// resolve makes script paths absolute relative to dir.
func (c *Config) resolve(dir string) {
	abs := func(paths []string) {
		for i, p := range paths {
			if p != "" && !filepath.IsAbs(p) {
				paths[i] = filepath.Join(dir, p)
			}
		}
	}
	abs(c.Scripts)
	for i := range c.Peers {
		abs(c.Peers[i].Scripts)
	}
}

// Validate checks every setting and returns the first failure.
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return &ValidationError{Path: "log_level", Message: "unknown level", Value: c.LogLevel}
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return &ValidationError{Path: "locale", Message: "unknown locale", Value: c.Locale}
	}
	if !event.Priority(c.DefaultPriority).Valid() {
		return &ValidationError{
			Path:    "default_priority",
			Message: fmt.Sprintf("must be between %d and %d", event.PriorityMin, event.PriorityMax),
			Value:   c.DefaultPriority,
		}
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return &ValidationError{Path: "metrics.namespace", Message: "required when metrics are enabled", Value: ""}
	}

	seen := make(map[string]bool, len(c.Peers))
	for i, p := range c.Peers {
		path := fmt.Sprintf("peers[%d].name", i)
		name := strings.TrimSpace(p.Name)
		switch {
		case name == "":
			return &ValidationError{Path: path, Message: "required", Value: p.Name}
		case topic.IsPattern(name):
			return &ValidationError{Path: path, Message: "must not contain '*'", Value: p.Name}
		case seen[name]:
			return &ValidationError{Path: path, Message: "duplicate peer", Value: p.Name}
		}
		seen[name] = true
	}
	return c.validateScripts()
}

// validateScripts rejects a script listed for more than one manager. A
// script is one listener and can only be attached once.
func (c Config) validateScripts() error {
	owner := make(map[string]string)
	check := func(field, mgr string, paths []string) error {
		for i, p := range paths {
			key := filepath.Clean(p)
			if prev, ok := owner[key]; ok && prev != mgr {
				return &ValidationError{
					Path:    fmt.Sprintf("%s[%d]", field, i),
					Message: "script already listed for another manager",
					Value:   p,
				}
			}
			owner[key] = mgr
		}
		return nil
	}

	if err := check("scripts", "", c.Scripts); err != nil {
		return err
	}
	for i, p := range c.Peers {
		if err := check(fmt.Sprintf("peers[%d].scripts", i), strings.TrimSpace(p.Name), p.Scripts); err != nil {
			return err
		}
	}
	return nil
}

// Language returns the configured locale.
func (c Config) Language() language.Tag {
	return message.ParseLocale(c.Locale)
}

// Level returns the parsed log level, defaulting to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
