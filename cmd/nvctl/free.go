package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nvstore/internal/format"
	"github.com/joshuapare/nvstore/store"
)

func init() {
	rootCmd.AddCommand(newFreeCmd())
}

func newFreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "free <offset> <kind>",
		Short: "Release the record at an offset",
		Long: `The free command erases the record at an offset back to 0xFF and
returns its bytes to the free count. The bump pointer is not moved.

Example:
  nvctl free 21 float --image flash.img`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFree(args)
		},
	}
	return cmd
}

func runFree(args []string) error {
	off, err := parseOffset(args[0])
	if err != nil {
		return err
	}
	k, err := format.ParseKind(args[1])
	if err != nil {
		return err
	}
	return withStore(func(s *store.Store) error {
		if err := s.Free(off, k); err != nil {
			return fmt.Errorf("free %s at %d: %w", k, off, err)
		}
		if jsonOut {
			return printJSON(s.Stats())
		}
		printInfo("Freed %s at offset %d, %d bytes free\n", k, off, s.FreeMemory())
		return nil
	})
}
