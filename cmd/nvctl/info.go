package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/nvstore/store"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Report the header fields and occupancy",
		Long: `The info command attaches to an image and displays its bookkeeping:
capacity, free and occupied bytes, the bump pointer, the start address,
the hours counter and the dirty flag.

Example:
  nvctl info --image flash.img
  nvctl info --image flash.img --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo()
		},
	}
	return cmd
}

func runInfo() error {
	return withStore(func(s *store.Store) error {
		st := s.Stats()
		if jsonOut {
			return printJSON(st)
		}

		printInfo("\nStore Information:\n")
		printInfo("  File: %s\n", settings.Store.Image)
		printInfo("  Capacity: %d bytes (%d user)\n", st.Capacity, st.UserRegion)
		printInfo("  Free: %d bytes\n", st.Free)
		printInfo("  Occupied: %d bytes\n", st.Occupied)
		printInfo("  Next sequential offset: %d\n", st.LastAddress)
		printInfo("  Start address: %d\n", st.StartAddress)
		printInfo("  Hours: %d\n", st.Hours)
		printInfo("  Dirty: %t\n", st.Dirty)
		return nil
	})
}
