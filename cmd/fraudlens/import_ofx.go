package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fraudlens/fraudlens/internal/cli"
	"github.com/fraudlens/fraudlens/internal/ingest"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import historical transactions from OFX/QFX files",
		Long: `Import historical transactions from OFX or QFX (Quicken) files exported
from a bank.

Examples:
  # Import a single file
  fraudlens import-ofx --customer CUST9001 ~/Downloads/statement_jan.qfx

  # Import all QFX files in a directory
  fraudlens import-ofx --customer CUST9001 ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().StringP("customer", "c", "", "Customer ID to attach the transactions to (required)")
	_ = cmd.MarkFlagRequired("customer")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	customerID, _ := cmd.Flags().GetString("customer")

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, statErr := os.Stat(pattern); statErr == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	slog.Info(cli.FormatTitle("Importing OFX files"),
		"file_count", len(allFiles),
		"customer", customerID)

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	importer := ingest.NewOFXImporter(store)

	totalImported := 0
	totalSkipped := 0
	for _, filePath := range allFiles {
		slog.Info("Processing file", "file", filepath.Base(filePath))

		f, err := os.Open(filePath)
		if err != nil {
			slog.Error("Failed to open file", "file", filePath, "error", err)
			continue
		}

		stats, err := importer.ImportStatement(ctx, f, customerID)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", filePath, "error", err)
			continue
		}

		if stats.Imported == 0 && stats.Skipped == 0 {
			slog.Warn("No transactions found in file", "file", filepath.Base(filePath))
			continue
		}

		totalImported += stats.Imported
		totalSkipped += stats.Skipped
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("✓ Imported %d transactions (%d duplicates skipped)", totalImported, totalSkipped)))
	return nil
}
