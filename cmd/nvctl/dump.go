package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nvstore/store"
)

var (
	dumpOffset int
	dumpLength int
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().IntVar(&dumpOffset, "offset", 0, "First byte to dump")
	cmd.Flags().IntVar(&dumpLength, "length", 0, "Bytes to dump (default: to the end)")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Hex dump the raw image",
		Long: `The dump command prints the raw bytes of the image, header included,
as a hex dump.

Example:
  nvctl dump --image flash.img --length 64
  nvctl dump --image flash.img --offset 20 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump()
		},
	}
	return cmd
}

type dumpJSON struct {
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	Hex    string `json:"hex"`
}

func runDump() error {
	return withStore(func(s *store.Store) error {
		n := dumpLength
		if n == 0 {
			n = s.Capacity() - dumpOffset
		}
		raw, err := s.Raw(dumpOffset, n)
		if err != nil {
			return fmt.Errorf("dump: %w", err)
		}
		if jsonOut {
			return printJSON(dumpJSON{Offset: dumpOffset, Length: n, Hex: hex.EncodeToString(raw)})
		}
		printInfo("%s", hex.Dump(raw))
		return nil
	})
}
