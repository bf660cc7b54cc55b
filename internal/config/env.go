package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "EVENTMGR_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// envSetters maps override names, without the prefix, to the setting they
// replace.
var envSetters = map[string]func(c *Config, v string) error{
	"LOG_LEVEL": func(c *Config, v string) error {
		c.LogLevel = v
		return nil
	},
	"LOCALE": func(c *Config, v string) error {
		c.Locale = v
		return nil
	},
	"DEFAULT_PRIORITY": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.DefaultPriority = n
		return nil
	},
	"STRICT_CALLABLES": func(c *Config, v string) (err error) {
		c.StrictCallables, err = parseBool(v)
		return err
	},
	"METRICS_ENABLED": func(c *Config, v string) (err error) {
		c.Metrics.Enabled, err = parseBool(v)
		return err
	},
	"METRICS_NAMESPACE": func(c *Config, v string) error {
		c.Metrics.Namespace = v
		return nil
	},
	"SCRIPTS": func(c *Config, v string) error {
		c.Scripts = splitList(v)
		return nil
	},
}

// ApplyEnv overrides settings from EVENTMGR_* variables found by lookup.
// Empty values are treated as valid values, not as unset.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	for name, set := range envSetters {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		if err := set(c, strings.TrimSpace(v)); err != nil {
			return &ValidationError{Path: EnvPrefix + name, Message: err.Error(), Value: v}
		}
	}
	return nil
}

// parseBool accepts the usual spellings of a boolean.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

// splitList splits a comma separated value.
func splitList(s string) []string {
	fields := strings.Split(s, ",")
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
