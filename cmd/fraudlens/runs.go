package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fraudlens/fraudlens/internal/cli"
	"github.com/fraudlens/fraudlens/internal/report"
	"github.com/spf13/cobra"
)

func runsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs [customer-id]",
		Short: "List previous analysis runs for a customer",
		Args:  cobra.ExactArgs(1),
		RunE:  runRuns,
	}
}

func runRuns(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	customerID := args[0]

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListAnalysisRuns(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to list analysis runs: %w", err)
	}

	if len(runs) == 0 {
		slog.Info(cli.FormatWarning(fmt.Sprintf("No analysis runs recorded for %s", customerID)))
		return nil
	}

	var b strings.Builder
	for i, run := range runs {
		fmt.Fprintf(&b, "%d. %s  case=%s  score=%.1f (%s)  anomalies=%d\n",
			i+1,
			run.CreatedAt.Format("2006-01-02 15:04"),
			run.CaseID,
			run.RiskScore,
			report.RiskLevel(run.RiskScore),
			run.Anomalies)
		fmt.Fprintf(&b, "   report: %s\n", run.ReportPath)
	}

	slog.Info(cli.RenderBox(fmt.Sprintf("Analysis Runs for %s", customerID), b.String()))
	return nil
}
