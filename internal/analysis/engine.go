package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fraudlens/fraudlens/internal/metrics"
	"github.com/fraudlens/fraudlens/internal/model"
)

// AnalyzeCase runs the full assessment pipeline for one parsed case. Data
// gaps and narrative failures are recorded on the report rather than aborting
// the run; only storage failures are fatal.
func (e *Engine) AnalyzeCase(ctx context.Context, kase model.Case) (*model.CaseReport, error) {
	report := &model.CaseReport{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
		Case:      kase,
	}

	slog.Info("Starting case analysis",
		"run_id", report.RunID,
		"case_id", kase.CaseID,
		"customer_id", kase.CustomerID)

	records, err := e.lookupCurrentRecords(ctx, kase)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		report.AddError(fmt.Sprintf("no current records found for customer %s", kase.CustomerID))
	}
	report.CurrentRecords = records

	historical, err := e.lookupHistory(ctx, kase)
	if err != nil {
		return nil, err
	}

	report.Ledger = computeLedgerStats(records)
	report.History = computeHistoryStats(historical)
	report.HistorySample = sampleHistory(historical)

	current := make([]model.Transaction, 0, len(records))
	for i := range records {
		current = append(current, records[i].Transaction())
	}

	report.Comparison = e.deps.Comparer.Compare(current, historical)
	report.Anomalies = e.deps.Detector.Detect(historical)
	report.Metrics = metrics.Compute(historical, report.Comparison, report.Anomalies)

	report.Narrative = e.generateNarrative(ctx, report)

	report.CompletedAt = time.Now()
	report.GeneratedAt = report.CompletedAt

	slog.Info("Case analysis complete",
		"run_id", report.RunID,
		"risk_score", report.Metrics.RiskScore,
		"comparisons", report.Comparison.CurrentFound,
		"anomalies", report.Anomalies.Total,
		"duration", report.Duration())

	return report, nil
}

// lookupCurrentRecords finds the customer's ledger rows, falling back to a
// name search when the ID yields nothing.
func (e *Engine) lookupCurrentRecords(ctx context.Context, kase model.Case) ([]model.CurrentRecord, error) {
	var records []model.CurrentRecord

	if kase.HasCustomerID() {
		found, err := e.deps.Storage.GetCurrentRecords(ctx, kase.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("failed to query current records: %w", err)
		}
		records = found
	}

	if len(records) == 0 && kase.HasCustomerName() {
		slog.Debug("Falling back to name lookup", "name", kase.CustomerName)
		found, err := e.deps.Storage.GetCurrentRecordsByName(ctx, kase.CustomerName)
		if err != nil {
			return nil, fmt.Errorf("failed to query current records by name: %w", err)
		}
		records = found
	}

	return records, nil
}

// lookupHistory loads the historical series. History is keyed strictly by
// customer ID; a case without one has no usable history.
func (e *Engine) lookupHistory(ctx context.Context, kase model.Case) ([]model.Transaction, error) {
	if !kase.HasCustomerID() {
		return nil, nil
	}

	historical, err := e.deps.Storage.GetHistoricalTransactions(ctx, kase.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query historical transactions: %w", err)
	}
	return historical, nil
}

// generateNarrative asks the configured generator for the report narrative.
// Failures degrade to a fixed narrative so the deterministic assessment
// still ships.
func (e *Engine) generateNarrative(ctx context.Context, report *model.CaseReport) model.Narrative {
	if e.deps.Generator == nil {
		return model.Narrative{
			Description:    "Narrative generation disabled",
			SuspicionScore: report.Metrics.RiskScore,
			Text:           "Assessment based solely on statistical comparison and anomaly detection.",
			Fallback:       true,
		}
	}

	systemPrompt, err := e.deps.PromptBuilder.BuildSystemPrompt()
	if err != nil {
		report.AddError(fmt.Sprintf("prompt construction failed: %v", err))
		return failedNarrative(err)
	}

	userPrompt, err := e.deps.PromptBuilder.BuildAnalysisPrompt(PromptData{
		Case:          report.Case,
		Ledger:        report.Ledger,
		History:       report.History,
		HistorySample: report.HistorySample,
		HistoryTotal:  report.History.TotalTransactions,
		Comparison:    report.Comparison,
		Anomalies:     report.Anomalies,
		Metrics:       report.Metrics,
	})
	if err != nil {
		report.AddError(fmt.Sprintf("prompt construction failed: %v", err))
		return failedNarrative(err)
	}

	narrative, err := e.deps.Generator.GenerateNarrative(ctx, systemPrompt, userPrompt)
	if err != nil {
		report.AddError(fmt.Sprintf("narrative generation failed: %v", err))
		return failedNarrative(err)
	}

	return narrative
}

func failedNarrative(err error) model.Narrative {
	return model.Narrative{
		Description:    "Transaction comparison analysis failed",
		SuspicionScore: 0,
		Text:           fmt.Sprintf("Unable to generate analysis: %v", err),
		Fallback:       true,
	}
}
