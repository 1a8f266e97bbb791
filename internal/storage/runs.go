package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fraudlens/fraudlens/internal/model"
)

// SaveAnalysisRun records the outcome of one completed analysis.
func (s *SQLiteStore) SaveAnalysisRun(ctx context.Context, run *model.AnalysisRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAnalysisRun(run); err != nil {
		return err
	}
	return s.saveAnalysisRunTx(ctx, s.db, run)
}

func (s *SQLiteStore) saveAnalysisRunTx(ctx context.Context, q dbtx, run *model.AnalysisRun) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO analysis_runs (run_id, case_id, customer_id, risk_score, anomalies, report_path)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.RunID,
		run.CaseID,
		run.CustomerID,
		run.RiskScore,
		run.Anomalies,
		run.ReportPath,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis run %s: %w", run.RunID, err)
	}
	return nil
}

// ListAnalysisRuns returns past runs, newest first. An empty customerID
// lists runs for every customer.
func (s *SQLiteStore) ListAnalysisRuns(ctx context.Context, customerID string) ([]model.AnalysisRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listAnalysisRunsTx(ctx, s.db, customerID)
}

func (s *SQLiteStore) listAnalysisRunsTx(ctx context.Context, q dbtx, customerID string) ([]model.AnalysisRun, error) {
	query := `
		SELECT run_id, case_id, customer_id, risk_score, anomalies, report_path, created_at
		FROM analysis_runs
	`
	args := []any{}
	if customerID != "" {
		query += " WHERE customer_id = ?"
		args = append(args, customerID)
	}
	query += " ORDER BY created_at DESC, run_id"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	runs := make([]model.AnalysisRun, 0)
	for rows.Next() {
		var run model.AnalysisRun
		var caseID, reportPath sql.NullString

		if err := rows.Scan(
			&run.RunID,
			&caseID,
			&run.CustomerID,
			&run.RiskScore,
			&run.Anomalies,
			&reportPath,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}

		run.CaseID = caseID.String
		run.ReportPath = reportPath.String
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analysis runs: %w", err)
	}
	return runs, nil
}
