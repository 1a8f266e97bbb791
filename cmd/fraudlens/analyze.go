package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fraudlens/fraudlens/internal/analysis"
	"github.com/fraudlens/fraudlens/internal/anomaly"
	"github.com/fraudlens/fraudlens/internal/caseparse"
	"github.com/fraudlens/fraudlens/internal/cli"
	"github.com/fraudlens/fraudlens/internal/compare"
	"github.com/fraudlens/fraudlens/internal/config"
	"github.com/fraudlens/fraudlens/internal/llm"
	"github.com/fraudlens/fraudlens/internal/model"
	"github.com/fraudlens/fraudlens/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [case-file]",
		Short: "Analyze a case file against the customer's transaction history",
		Long: `Parse a free-text case file, pull the customer's current ledger records and
historical transactions from the database, score the case, and write a full
investigation report.

Without an explicit file the command looks in the input directory: --case-id
matches a file by name, otherwise the first *.txt file that looks like a case
file is used.

The narrative section is generated by the configured LLM provider. Without a
provider the report still completes with a deterministic narrative.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	// Flags
	cmd.Flags().StringP("case-id", "i", "", "Resolve the case file in the input directory by case ID")
	cmd.Flags().String("input", "", "Directory to search for case files")
	cmd.Flags().StringP("output", "o", "", "Directory to write the report into")
	cmd.Flags().Bool("no-narrative", false, "Skip LLM narrative generation")

	// Bind to viper
	_ = viper.BindPFlag("input.dir", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("output.dir", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("analyze.no_narrative", cmd.Flags().Lookup("no-narrative"))

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	caseID, _ := cmd.Flags().GetString("case-id")
	casePath, err := resolveCaseFile(args, caseID)
	if err != nil {
		return err
	}

	// Allow cancellation via interrupt
	handler := cli.NewInterruptHandler(os.Stderr)
	ctx = handler.HandleInterrupts(ctx)

	slog.Info(cli.FormatTitle("Analyzing case file"))

	kase, err := caseparse.New().ParseFile(casePath)
	if err != nil {
		return fmt.Errorf("failed to read case file: %w", err)
	}

	slog.Info("Case parsed",
		"case_id", kase.CaseID,
		"customer", kase.CustomerName,
		"customer_id", kase.CustomerID)

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	promptBuilder, err := analysis.NewTemplatePromptBuilder()
	if err != nil {
		return fmt.Errorf("failed to load prompt templates: %w", err)
	}

	generator, err := buildGenerator()
	if err != nil {
		return err
	}
	if generator != nil {
		defer generator.Close()
	}

	deps := analysis.Deps{
		Storage:       store,
		Comparer:      compare.NewWithConfig(compareConfig()),
		Detector:      anomaly.NewWithConfig(anomalyConfig()),
		PromptBuilder: promptBuilder,
	}
	if generator != nil {
		deps.Generator = generator
	}

	engine, err := analysis.NewEngine(deps)
	if err != nil {
		return fmt.Errorf("failed to build analysis engine: %w", err)
	}

	slog.Info("🔄 Running analysis...")
	caseReport, err := engine.AnalyzeCase(ctx, kase)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if handler.WasInterrupted() {
		return nil
	}

	// Write the report
	writer := report.NewWriter(outputDir())
	reportPath, err := writer.Write(caseReport)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	// Record the run so later investigations can see prior conclusions
	run := &model.AnalysisRun{
		RunID:      caseReport.RunID,
		CaseID:     caseReport.Case.CaseID,
		CustomerID: caseReport.Case.CustomerID,
		ReportPath: reportPath,
		RiskScore:  caseReport.Metrics.RiskScore,
		Anomalies:  caseReport.Anomalies.Total,
	}
	if err := store.SaveAnalysisRun(ctx, run); err != nil {
		slog.Warn("Failed to record analysis run", "error", err)
	}

	fmt.Println(report.NewStyles().RenderSummary(caseReport))
	slog.Info(cli.FormatSuccess(fmt.Sprintf("✓ Report written to %s", reportPath)))

	return nil
}

// buildGenerator constructs the narrative generator from config, or returns
// nil when narrative generation is disabled or no provider is configured.
func buildGenerator() (*llm.Generator, error) {
	if viper.GetBool("analyze.no_narrative") {
		return nil, nil
	}

	provider := viper.GetString("llm.provider")
	if provider == "" {
		slog.Info("No LLM provider configured, reports will use the computed score only")
		return nil, nil
	}

	cfg := llm.Config{
		Provider:    provider,
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
		Temperature: viper.GetFloat64("llm.temperature"),
	}

	generator, err := llm.NewGenerator(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return generator, nil
}

// resolveCaseFile picks the case file to analyze: an explicit path wins, then
// a --case-id name match in the input directory, then the first *.txt file
// that looks like a case file.
func resolveCaseFile(args []string, caseID string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	dir := viper.GetString("input.dir")
	if dir == "" {
		dir = "."
	}
	dir = config.ExpandPath(dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read input directory %s: %w", dir, err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			continue
		}
		name := strings.ToLower(entry.Name())
		if caseID != "" {
			if strings.Contains(name, strings.ToLower(caseID)) {
				candidates = append(candidates, entry.Name())
			}
			continue
		}
		if strings.Contains(name, "case") || strings.Contains(name, "input") {
			candidates = append(candidates, entry.Name())
		}
	}

	if len(candidates) == 0 {
		if caseID != "" {
			return "", fmt.Errorf("no case file matching %q in %s", caseID, dir)
		}
		return "", fmt.Errorf("no case file found in %s (expected a *.txt file with \"case\" or \"input\" in the name)", dir)
	}

	sort.Strings(candidates)
	return filepath.Join(dir, candidates[0]), nil
}

// compareConfig materializes comparison thresholds from config. Unset values
// fall back to the engine defaults.
func compareConfig() compare.Config {
	return compare.Config{
		MinSampleSize:      viper.GetInt("analysis.min_sample_size"),
		HighRiskZScore:     viper.GetFloat64("analysis.high_risk_z"),
		MediumRiskZScore:   viper.GetFloat64("analysis.medium_risk_z"),
		DeviationThreshold: viper.GetFloat64("analysis.deviation_threshold"),
	}
}

// anomalyConfig materializes detection thresholds from config.
func anomalyConfig() anomaly.Config {
	return anomaly.Config{
		MinTransactions:     viper.GetInt("analysis.min_transactions"),
		OutlierZScore:       viper.GetFloat64("analysis.anomaly_threshold"),
		VolatilityThreshold: viper.GetFloat64("analysis.volatility_threshold"),
		HighVolatility:      viper.GetFloat64("analysis.high_volatility"),
		RoundNumberRatio:    viper.GetFloat64("analysis.round_number_ratio"),
	}
}
