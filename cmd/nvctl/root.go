package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nvstore/flash"
	"github.com/joshuapare/nvstore/internal/config"
	"github.com/joshuapare/nvstore/internal/logger"
	"github.com/joshuapare/nvstore/store"
)

var (
	// Global flags
	configPath string
	imagePath  string
	capacity   int
	flushMode  string
	power      string
	verbose    bool
	quiet      bool
	jsonOut    bool
	logFile    string

	// settings is the resolved profile: config file, then flag overrides,
	// then defaults.
	settings *config.Config

	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "nvctl",
	Short: "Inspect and manipulate nvstore flash images",
	Long: `nvctl formats, inspects and edits nvstore images: a small flash store
with a reserved header, a bump allocator and typed records (uint8, float,
char, bool). Each command attaches to the image, performs one operation and
commits it before exiting.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML profile to load")
	rootCmd.PersistentFlags().StringVarP(&imagePath, "image", "i", "", "Image file (default "+config.DefaultImage+")")
	rootCmd.PersistentFlags().IntVar(&capacity, "capacity", 0, "Store capacity in bytes, header included")
	rootCmd.PersistentFlags().StringVar(&flushMode, "flush", "", "Commit durability: auto, data or full")
	rootCmd.PersistentFlags().StringVar(&power, "power", "", "Simulated power rail for init: on or off")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append structured logs to this file")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadSettings resolves the profile and configures logging.
func loadSettings(cmd *cobra.Command, args []string) error {
	cfg := &config.Config{}
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	logExplicit := cfg.Log.Level != "" || cfg.Log.File != ""

	flags := cmd.Flags()
	if flags.Changed("image") {
		cfg.Store.Image = imagePath
	}
	if flags.Changed("capacity") {
		cfg.Store.Capacity = capacity
	}
	if flags.Changed("flush") {
		cfg.Store.Flush = flushMode
	}
	if flags.Changed("power") {
		cfg.Store.Power = power
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
		logExplicit = logExplicit || logFile != ""
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	config.Normalize(cfg)
	settings = cfg

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logCloser, err = logger.Init(logger.Options{
		Enabled: verbose || logExplicit,
		Level:   level,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
	})
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	logger.Debug("settings resolved",
		"config", configPath,
		"image", cfg.Store.Image,
		"capacity", cfg.Store.Capacity,
		"flush", cfg.Store.Flush,
	)
	return nil
}

// openStore opens the configured image without attaching.
func openStore() (*store.Store, error) {
	mode, err := config.ParseFlushMode(settings.Store.Flush)
	if err != nil {
		return nil, err
	}
	on, err := config.ParsePower(settings.Store.Power)
	if err != nil {
		return nil, err
	}
	printVerbose("Opening image: %s (%d bytes)\n", settings.Store.Image, settings.Store.Capacity)
	return store.OpenFile(
		settings.Store.Image,
		settings.Store.Capacity,
		store.Options{
			Power:  store.PowerFunc(func() bool { return on }),
			Logger: logger.L,
		},
		flash.WithFlushMode(mode),
	)
}

// attachStore opens the configured image and attaches to its content.
func attachStore() (*store.Store, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}
	if err := s.Attach(settings.Store.Capacity); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("attach %s: %w", settings.Store.Image, err)
	}
	return s, nil
}

// withStore attaches, runs fn and closes the store.
func withStore(fn func(s *store.Store) error) (err error) {
	s, err := attachStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return fn(s)
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
