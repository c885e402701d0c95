package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nvstore/internal/logger"
)

func init() {
	rootCmd.AddCommand(newInitCmd())
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Erase the image and write a fresh header",
		Long: `The init command erases every byte of the image to 0xFF and writes a
fresh header: the bump pointer and start address at offset 20, all of the
user region free, hours zero and the dirty flag clear. The image and its
occupancy file are created when missing.

Init refuses to run while the simulated power rail is off.

Example:
  nvctl init --image flash.img
  nvctl init --image flash.img --capacity 1024`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit()
		},
	}
	return cmd
}

func runInit() (err error) {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := s.Initialize(settings.Store.Capacity); err != nil {
		return fmt.Errorf("initialize %s: %w", settings.Store.Image, err)
	}
	logger.Info("image formatted", "image", settings.Store.Image)

	if jsonOut {
		return printJSON(s.Stats())
	}
	printInfo("Initialized %s: %d bytes, %d free\n", settings.Store.Image, s.Capacity(), s.FreeMemory())
	return nil
}
