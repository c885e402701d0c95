package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nvstore/internal/logger"
	"github.com/joshuapare/nvstore/store"
)

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the header against the occupancy bitmap",
		Long: `The verify command attaches to an image and cross-checks the header
fields against the occupancy bitmap and the raw bytes. Attach already
repairs a free-memory counter left behind by an interrupted commit; verify
reports anything that remains inconsistent.

Example:
  nvctl verify --image flash.img`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify()
		},
	}
	return cmd
}

type verifyResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func runVerify() error {
	return withStore(func(s *store.Store) error {
		verr := s.Verify()
		if verr != nil {
			logger.Warn("verification failed", "image", settings.Store.Image, "error", verr)
		}
		if jsonOut {
			res := verifyResult{Valid: verr == nil}
			if verr != nil {
				res.Error = verr.Error()
			}
			if err := printJSON(res); err != nil {
				return err
			}
			if verr != nil {
				return fmt.Errorf("verification failed")
			}
			return nil
		}
		if verr != nil {
			return fmt.Errorf("verification failed: %w", verr)
		}
		printInfo("✓ Header consistent\n")
		printInfo("✓ Free memory matches occupancy\n")
		return nil
	})
}
