package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fraudlens/fraudlens/internal/model"
)

func historical(amounts ...float64) []model.Transaction {
	txns := make([]model.Transaction, len(amounts))
	for i, amt := range amounts {
		txns[i] = model.Transaction{ID: "H1", Account: "ACC-1", Amount: amt}
	}
	return txns
}

func TestComputeNoHistory(t *testing.T) {
	result := Compute(nil, model.ComparisonAnalysis{}, model.AnomalyAnalysis{})

	assert.False(t, result.AnalysisCompleted)
	assert.Zero(t, result.RiskScore)
	assert.Zero(t, result.TransactionVolatility)
}

func TestComputeBlendsBothSignals(t *testing.T) {
	comparison := model.ComparisonAnalysis{
		Possible: true,
		Summary:  &model.ComparisonSummary{TotalRiskScore: 50},
	}
	anomalies := model.AnomalyAnalysis{
		Detected: []model.Anomaly{
			{Severity: model.SeverityHigh},
		},
		Indicators: []model.Anomaly{
			{Severity: model.SeverityMedium},
			{Severity: model.SeverityMedium},
		},
		Total: 3,
	}

	result := Compute(historical(100, 100, 100), comparison, anomalies)

	assert.True(t, result.AnalysisCompleted)
	// 50*0.6 + (1*15 + 2*8)*0.4 = 30 + 12.4
	assert.InDelta(t, 42.4, result.RiskScore, 1e-9)
	assert.Equal(t, 3, result.TotalAnomalies)
	assert.Zero(t, result.TransactionVolatility)
}

func TestComputeComparisonNotPossible(t *testing.T) {
	comparison := model.ComparisonAnalysis{
		Possible: false,
		Reason:   "no valid statistical comparisons could be performed",
	}
	anomalies := model.AnomalyAnalysis{
		Indicators: []model.Anomaly{{Severity: model.SeverityHigh}},
		Total:      1,
	}

	result := Compute(historical(100, 200), comparison, anomalies)

	assert.True(t, result.AnalysisCompleted)
	assert.InDelta(t, 6.0, result.RiskScore, 1e-9) // 15 * 0.4
}

func TestComputeCapsAtHundred(t *testing.T) {
	comparison := model.ComparisonAnalysis{
		Possible: true,
		Summary:  &model.ComparisonSummary{TotalRiskScore: 100},
	}
	anomalies := model.AnomalyAnalysis{Total: 10}
	for i := 0; i < 10; i++ {
		anomalies.Detected = append(anomalies.Detected, model.Anomaly{Severity: model.SeverityHigh})
	}

	result := Compute(historical(100, 5000, 10), comparison, anomalies)

	assert.InDelta(t, 100.0, result.RiskScore, 1e-9)
}

func TestComputeVolatility(t *testing.T) {
	result := Compute(historical(100, 200, 300), model.ComparisonAnalysis{}, model.AnomalyAnalysis{})

	// stdev 100, mean 200.
	assert.InDelta(t, 0.5, result.TransactionVolatility, 1e-9)
}
