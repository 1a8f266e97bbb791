package model

import "time"

// CompositeMetrics is the deterministic case-level risk rollup. RiskScore is
// the canonical suspicion number for the case; the narrative generator's own
// score is advisory text only.
type CompositeMetrics struct {
	RiskScore             float64
	TransactionVolatility float64
	TotalAnomalies        int
	AnalysisCompleted     bool
}

// Narrative is the external text generator's contribution to the report.
type Narrative struct {
	Description    string
	SuspicionScore float64
	Text           string
	Fallback       bool
}

// CaseReport is the complete structured output of one analysis run. It
// contains everything a downstream formatter needs without re-deriving any
// statistic.
type CaseReport struct {
	RunID       string
	GeneratedAt time.Time
	StartedAt   time.Time
	CompletedAt time.Time

	Case           Case
	CurrentRecords []CurrentRecord
	Ledger         LedgerStats
	History        HistoryStats
	HistorySample  []Transaction

	Comparison ComparisonAnalysis
	Anomalies  AnomalyAnalysis
	Metrics    CompositeMetrics
	Narrative  Narrative

	// Errors accumulates non-fatal problems in the order they occurred.
	Errors []string
}

// AnalysisRun is the persisted summary of one completed analysis, kept so
// later investigations can see what was previously concluded for a customer.
type AnalysisRun struct {
	CreatedAt  time.Time
	RunID      string
	CaseID     string
	CustomerID string
	ReportPath string
	RiskScore  float64
	Anomalies  int
}

// AddError appends a non-fatal error message to the run's ordered error log.
func (r *CaseReport) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// Duration reports how long the analysis run took.
func (r *CaseReport) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}
