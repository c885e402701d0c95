// internal/config/normalize.go
package config

import "strings"

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Store.Image == "" {
		cfg.Store.Image = DefaultImage
	}
	if cfg.Store.Capacity == 0 {
		cfg.Store.Capacity = DefaultCapacity
	}
	cfg.Store.Flush = lowerOr(cfg.Store.Flush, DefaultFlush)
	cfg.Store.Power = lowerOr(cfg.Store.Power, DefaultPower)

	cfg.Log.Level = lowerOr(cfg.Log.Level, DefaultLevel)
	cfg.Log.Format = lowerOr(cfg.Log.Format, DefaultFormat)
}

func lowerOr(s, def string) string {
	if s == "" {
		return def
	}
	return strings.ToLower(s)
}
