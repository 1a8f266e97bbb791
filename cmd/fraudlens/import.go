package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fraudlens/fraudlens/internal/cli"
	"github.com/fraudlens/fraudlens/internal/ingest"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import ledger and history data from CSV exports",
		Long: `Import data exported from the upstream case-management system.

The ledger file holds the customer records currently under review; the history
file holds the historical transaction series analyses are compared against.
Rows are deduplicated automatically on re-import.`,
	}

	cmd.AddCommand(importLedgerCmd())
	cmd.AddCommand(importHistoryCmd())

	return cmd
}

func importLedgerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ledger [file.csv]",
		Short: "Import current customer ledger records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCSVImport(cmd, args[0], true)
		},
	}
}

func importHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [file.csv]",
		Short: "Import historical transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCSVImport(cmd, args[0], false)
		},
	}
}

func runCSVImport(cmd *cobra.Command, path string, ledger bool) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	importer := ingest.NewCSVImporter(store).WithProgress(os.Stderr)

	var stats *ingest.ImportStats
	if ledger {
		slog.Info(cli.FormatTitle("Importing customer ledger"))
		stats, err = importer.ImportLedger(ctx, f)
	} else {
		slog.Info(cli.FormatTitle("Importing transaction history"))
		stats, err = importer.ImportHistory(ctx, f)
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("✓ Imported %d rows (%d skipped)", stats.Imported, stats.Skipped)))
	return nil
}
