// internal/config/config.go
package config

// Config is the device profile read by nvctl.
type Config struct {
	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`
}

// ---- STORE ----

type StoreConfig struct {
	Image    string `yaml:"image"`
	Capacity int    `yaml:"capacity"`

	// Durability of each commit: auto | data | full
	Flush string `yaml:"flush"`

	// Simulated power rail gating initialize: on | off
	Power string `yaml:"power"`
}

// ---- LOG ----

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json

	// Append log records to this file instead of stderr. Setting it turns
	// logging on.
	File string `yaml:"file"`
}

// Defaults applied by Normalize.
const (
	DefaultImage    = "nvstore.img"
	DefaultCapacity = 4096
	DefaultFlush    = "auto"
	DefaultPower    = "on"
	DefaultLevel    = "info"
	DefaultFormat   = "text"
)
