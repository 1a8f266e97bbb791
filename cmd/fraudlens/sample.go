package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fraudlens/fraudlens/internal/cli"
	"github.com/spf13/cobra"
)

const sampleCaseFile = `Case ID: CASE-2025-001
Name: John Smith
CustID: CUST9001
Accounts: ACC602,ACC372,ACC590
Transactions: TX001,TX002,TX003
Previous Cases: PREV-001,PREV-002
`

func sampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample [dir]",
		Short: "Write a sample case file",
		Long: `Write a sample case_input.txt to the given directory (default: current
directory). Useful for trying out the analyze command or as a template for
real case files.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}

			path := filepath.Join(dir, "case_input.txt")
			if err := os.WriteFile(path, []byte(sampleCaseFile), 0o600); err != nil {
				return fmt.Errorf("failed to write sample case file: %w", err)
			}

			slog.Info(cli.FormatSuccess(fmt.Sprintf("✓ Sample case file written to %s", path)))
			return nil
		},
	}
}
