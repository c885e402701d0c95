package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nvstore/store"
)

func init() {
	rootCmd.AddCommand(newDirtyCmd())
	rootCmd.AddCommand(newHoursCmd())
	rootCmd.AddCommand(newStartCmd())
}

func newDirtyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dirty [true|false]",
		Short: "Show or set the dirty flag",
		Long: `The dirty command prints the dirty flag, or sets it when given a value.
Any write sets the flag; clear it once the data has been pushed.

Example:
  nvctl dirty --image flash.img
  nvctl dirty false --image flash.img`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDirty(args)
		},
	}
	return cmd
}

func runDirty(args []string) error {
	return withStore(func(s *store.Store) error {
		if len(args) == 1 {
			v, err := strconv.ParseBool(args[0])
			if err != nil {
				return fmt.Errorf("invalid dirty value %q: %w", args[0], err)
			}
			if err := s.SetDirty(v); err != nil {
				return err
			}
		}
		return printField("dirty", s.Dirty())
	})
}

func newHoursCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hours [incr|reset]",
		Short: "Show, increment or reset the hours counter",
		Long: `The hours command prints the hours elapsed since the last data push.
"incr" adds one hour (the counter stops at 255) and "reset" clears it.

Example:
  nvctl hours incr --image flash.img`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"incr", "reset"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHours(args)
		},
	}
	return cmd
}

func runHours(args []string) error {
	return withStore(func(s *store.Store) error {
		if len(args) == 1 {
			var err error
			switch args[0] {
			case "incr":
				err = s.IncrHours()
			case "reset":
				err = s.ResetHours()
			default:
				err = fmt.Errorf("unknown hours action %q", args[0])
			}
			if err != nil {
				return err
			}
		}
		return printField("hours", s.Hours())
	})
}

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start [offset]",
		Short: "Show or set the start address",
		Long: `The start command prints the caller-managed start address, or stores a
new one. The allocator never interprets it.

Example:
  nvctl start 120 --image flash.img`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(args)
		},
	}
	return cmd
}

func runStart(args []string) error {
	return withStore(func(s *store.Store) error {
		if len(args) == 1 {
			off, err := parseOffset(args[0])
			if err != nil {
				return err
			}
			if err := s.SetStartAddress(off); err != nil {
				return err
			}
		}
		return printField("start_address", s.StartAddress())
	})
}

func printField(name string, v any) error {
	if jsonOut {
		return printJSON(map[string]any{name: v})
	}
	printInfo("%v\n", v)
	return nil
}
