// internal/config/validate.go
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joshuapare/nvstore/flash/dirty"
	"github.com/joshuapare/nvstore/internal/format"
)

// Validate checks configuration correctness.
// Empty fields are accepted; Normalize fills them in.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}

	// ---- store ----

	if c := cfg.Store.Capacity; c != 0 && (c <= format.UserSpace || c > format.MaxMemory) {
		return fmt.Errorf(
			"store.capacity %d: must be in (%d, %d]",
			c, format.UserSpace, format.MaxMemory,
		)
	}
	if cfg.Store.Flush != "" {
		if _, err := ParseFlushMode(cfg.Store.Flush); err != nil {
			return err
		}
	}
	if cfg.Store.Power != "" {
		if _, err := ParsePower(cfg.Store.Power); err != nil {
			return err
		}
	}

	// ---- log ----

	if cfg.Log.Level != "" {
		if _, err := ParseLevel(cfg.Log.Level); err != nil {
			return err
		}
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q: want text or json", cfg.Log.Format)
	}
	return nil
}

// ParseFlushMode maps a store.flush value to a flush mode.
func ParseFlushMode(s string) (dirty.FlushMode, error) {
	switch strings.ToLower(s) {
	case "auto":
		return dirty.FlushAuto, nil
	case "data":
		return dirty.FlushDataOnly, nil
	case "full":
		return dirty.FlushFull, nil
	default:
		return 0, fmt.Errorf("store.flush %q: want auto, data or full", s)
	}
}

// ParsePower maps a store.power value to the rail state.
func ParsePower(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("store.power %q: want on or off", s)
	}
}

// ParseLevel maps a log.level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", s, err)
	}
	return lvl, nil
}
