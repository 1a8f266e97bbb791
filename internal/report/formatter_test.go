package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudlens/fraudlens/internal/model"
)

func reportFixture() *model.CaseReport {
	generated := time.Date(2025, 6, 12, 14, 30, 5, 0, time.UTC)
	return &model.CaseReport{
		RunID:       "run-123",
		GeneratedAt: generated,
		StartedAt:   generated.Add(-3 * time.Second),
		CompletedAt: generated,
		Case: model.Case{
			CaseID:        "CASE 42",
			CustomerName:  "Jordan Marsh",
			CustomerID:    "CUST1",
			Accounts:      []string{"ACC-100", "ACC-200"},
			PreviousCases: []string{"CASE-11"},
		},
		Ledger: model.LedgerStats{
			TotalRecords:    2,
			TotalAmount:     15500,
			AvgAmount:       7750,
			UniqueLocations: 1,
			UniqueEmployers: 1,
		},
		History: model.HistoryStats{
			TotalTransactions: 40,
			TotalAmount:       42000,
			AvgAmount:         1050,
			MonthsCovered:     12,
			UniqueAccounts:    2,
		},
		Comparison: model.ComparisonAnalysis{
			Possible:        true,
			CurrentFound:    2,
			HistoricalFound: 40,
			Summary: &model.ComparisonSummary{
				TransactionsCompared: 2,
				TotalRiskScore:       85,
				MaximumZScore:        28.23,
				HighRisk:             1,
				MediumRisk:           1,
				Outliers:             1,
				ExtremeOutliers:      1,
			},
		},
		Anomalies: model.AnomalyAnalysis{
			Detected: []model.Anomaly{
				{Type: model.AnomalyStatisticalOutlier, Severity: model.SeverityHigh},
			},
			Total: 1,
		},
		Metrics: model.CompositeMetrics{
			RiskScore:             74.2,
			TransactionVolatility: 0.295,
			TotalAnomalies:        1,
			AnalysisCompleted:     true,
		},
		Narrative: model.Narrative{
			Description:    "Current activity deviates sharply from history.",
			SuspicionScore: 75,
			Text:           "The customer's recent transfers are far outside the established baseline.",
		},
	}
}

func TestFormatFullReport(t *testing.T) {
	out := NewFormatter().Format(reportFixture())

	assert.Contains(t, out, "COMPREHENSIVE CASE ANALYSIS REPORT")
	assert.Contains(t, out, "Case ID: CASE 42")
	assert.Contains(t, out, "Customer: Jordan Marsh")

	assert.Contains(t, out, "1. DATA ANALYZED")
	assert.Contains(t, out, "Account Numbers: ACC-100, ACC-200")
	assert.Contains(t, out, "Current Transaction Value: $15,500.00")
	assert.Contains(t, out, "Historical Transactions Available: 40")
	assert.Contains(t, out, "Previous Cases on Record: 1")

	assert.Contains(t, out, "2. CASE DESCRIPTION")
	assert.Contains(t, out, "Current activity deviates sharply from history.")

	assert.Contains(t, out, "3. SUSPICION SCORE")
	assert.Contains(t, out, "Overall Risk Assessment: 74 out of 100")
	assert.Contains(t, out, "Risk Classification: HIGH RISK")
	assert.Contains(t, out, "Transaction Pattern Deviation: Comparison analysis indicates 85% risk level")

	assert.Contains(t, out, "4. DETAILED NARRATIVE")
	assert.Contains(t, out, "The customer's recent transfers are far outside the established baseline.")
	assert.Contains(t, out, "CRITICAL FINDING: 1 transaction(s)")
	assert.Contains(t, out, "MODERATE CONCERN: 1 transaction(s)")
	assert.Contains(t, out, "The high risk score of 74/100")

	assert.Contains(t, out, "HIGH PRIORITY: Schedule comprehensive case review")
	assert.Contains(t, out, "CONCLUSION:")
	assert.Contains(t, out, "Report ID: CASE_42_20250612_143005")
}

func TestFormatComparisonNotPossible(t *testing.T) {
	r := reportFixture()
	r.Comparison = model.ComparisonAnalysis{
		Possible: false,
		Reason:   "insufficient data - current: 0, historical: 2",
	}

	out := NewFormatter().Format(r)

	assert.Contains(t, out, "Historical comparison analysis could not be performed: insufficient data - current: 0, historical: 2")
	assert.NotContains(t, out, "TRANSACTION PATTERN ANALYSIS:")
}

func TestRiskLevelBands(t *testing.T) {
	tests := []struct {
		want  string
		score float64
	}{
		{"LOW RISK", 0},
		{"LOW RISK", 19.9},
		{"LOW-MEDIUM RISK", 20},
		{"MEDIUM RISK", 40},
		{"HIGH RISK", 60},
		{"CRITICAL RISK", 80},
		{"CRITICAL RISK", 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevel(tt.score), "score %.1f", tt.score)
	}
}

func TestRecommendationsByScore(t *testing.T) {
	assert.Contains(t, Recommendations(90)[0], "IMMEDIATE ACTION REQUIRED")
	assert.Contains(t, Recommendations(65)[0], "HIGH PRIORITY")
	assert.Contains(t, Recommendations(45)[0], "MODERATE PRIORITY")
	assert.Contains(t, Recommendations(10)[0], "STANDARD MONITORING")
}

func TestKeyFindings(t *testing.T) {
	findings := KeyFindings(reportFixture())

	require.Len(t, findings, 4)
	assert.Contains(t, findings[0], "previous case(s) on record")
	assert.Contains(t, findings[1], "significantly unusual amounts")
	assert.Contains(t, findings[2], "extreme deviations")
	assert.Contains(t, findings[3], "high-severity anomaly pattern(s)")
}

func TestWriterWritesTimestampedFile(t *testing.T) {
	dir := t.TempDir()
	r := reportFixture()

	path, err := NewWriter(dir).Write(r)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Comprehensive_Case_Analysis_CASE_42_20250612_143005.txt"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "COMPREHENSIVE CASE ANALYSIS REPORT")
}

func TestWriterCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")

	path, err := NewWriter(dir).Write(reportFixture())
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestRenderSummary(t *testing.T) {
	out := NewStyles().RenderSummary(reportFixture())

	assert.Contains(t, out, "CASE 42")
	assert.Contains(t, out, "Jordan Marsh")
	assert.Contains(t, out, "74.2/100")
	assert.Contains(t, out, "Transactions Compared:  2")
	assert.Contains(t, out, "Max Z-Score Deviation:  28.23")
}
