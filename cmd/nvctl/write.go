package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nvstore/store"
)

func init() {
	rootCmd.AddCommand(newWriteCmd())
	rootCmd.AddCommand(newWriteAtCmd())
}

func newWriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write <kind> <value>",
		Short: "Append a record at the bump pointer",
		Long: `The write command appends a record at the next sequential offset and
prints where it landed. Kinds are uint8, float, char and bool.

Example:
  nvctl write bool true --image flash.img
  nvctl write float 2.5 --image flash.img`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(args)
		},
	}
	return cmd
}

func runWrite(args []string) error {
	rec, err := parseRecord(args[0], args[1])
	if err != nil {
		return err
	}
	return withStore(func(s *store.Store) error {
		off, err := s.Write(rec)
		if err != nil {
			return fmt.Errorf("write %s: %w", rec.Kind, err)
		}
		return reportWrite(s, off, rec)
	})
}

func newWriteAtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write-at <offset> <kind> <value>",
		Short: "Write a record at a chosen offset",
		Long: `The write-at command writes a record at an explicit offset in the user
region. It does not check what the bytes held before.

Example:
  nvctl write-at 100 char Z --image flash.img
  nvctl write-at 0x40 uint8 7 --image flash.img`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWriteAt(args)
		},
	}
	return cmd
}

func runWriteAt(args []string) error {
	off, err := parseOffset(args[0])
	if err != nil {
		return err
	}
	rec, err := parseRecord(args[1], args[2])
	if err != nil {
		return err
	}
	return withStore(func(s *store.Store) error {
		if err := s.WriteAt(off, rec); err != nil {
			return fmt.Errorf("write %s at %d: %w", rec.Kind, off, err)
		}
		return reportWrite(s, off, rec)
	})
}

func reportWrite(s *store.Store, off int, rec store.Record) error {
	if jsonOut {
		return printJSON(toJSON(off, rec))
	}
	printInfo("Wrote %s %s at offset %d\n", rec.Kind, rec, off)
	printVerbose("  free: %d, next: %d\n", s.FreeMemory(), s.LastAvailableAddress())
	return nil
}
