package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nvstore/internal/format"
	"github.com/joshuapare/nvstore/store"
)

func init() {
	rootCmd.AddCommand(newReadCmd())
}

func newReadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read <offset> <kind>",
		Short: "Decode a record at an offset",
		Long: `The read command decodes the bytes at an offset as the given kind.
Reads do not consult occupancy: an erased byte reads as 255.

Example:
  nvctl read 21 float --image flash.img
  nvctl read 20 bool --image flash.img --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(args)
		},
	}
	return cmd
}

func runRead(args []string) error {
	off, err := parseOffset(args[0])
	if err != nil {
		return err
	}
	k, err := format.ParseKind(args[1])
	if err != nil {
		return err
	}
	return withStore(func(s *store.Store) error {
		rec, err := s.Read(off, k)
		if err != nil {
			return fmt.Errorf("read %s at %d: %w", k, off, err)
		}
		if jsonOut {
			return printJSON(toJSON(off, rec))
		}
		printInfo("%s\n", rec)
		if s.IsFree(off) {
			printVerbose("  (offset %d is free)\n", off)
		}
		return nil
	})
}
