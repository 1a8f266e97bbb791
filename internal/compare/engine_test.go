package compare

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudlens/fraudlens/internal/model"
)

func txn(id, account string, amount float64) model.Transaction {
	return model.Transaction{ID: id, CustomerID: "CUST001", Account: account, Amount: amount}
}

// history returns historical transactions on a single account, one per amount.
func history(account string, amounts ...float64) []model.Transaction {
	txns := make([]model.Transaction, len(amounts))
	for i, amt := range amounts {
		txns[i] = txn(fmt.Sprintf("H%03d", i), account, amt)
	}
	return txns
}

func TestCompareInsufficientData(t *testing.T) {
	tests := []struct {
		name       string
		current    []model.Transaction
		historical []model.Transaction
		wantReason string
	}{
		{
			name:       "no current transactions",
			current:    nil,
			historical: history("ACC-1", 100, 110, 90),
			wantReason: "insufficient data - current: 0, historical: 3",
		},
		{
			name:       "no historical transactions",
			current:    []model.Transaction{txn("T1", "ACC-1", 100)},
			historical: nil,
			wantReason: "insufficient data - current: 1, historical: 0",
		},
	}

	engine := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := engine.Compare(tt.current, tt.historical)

			assert.False(t, analysis.Possible)
			assert.Equal(t, tt.wantReason, analysis.Reason)
			assert.Empty(t, analysis.Results)
			assert.Nil(t, analysis.Summary)
		})
	}
}

func TestCompareMinimumSampleSize(t *testing.T) {
	engine := New() // MinSampleSize 3

	current := []model.Transaction{txn("T1", "ACC-1", 100)}

	// One short of the minimum: nothing to compare.
	analysis := engine.Compare(current, history("ACC-1", 100, 110))
	assert.False(t, analysis.Possible)
	assert.Equal(t, "no valid statistical comparisons could be performed", analysis.Reason)

	// Exactly the minimum: comparison proceeds.
	analysis = engine.Compare(current, history("ACC-1", 100, 110, 90))
	require.True(t, analysis.Possible)
	require.Len(t, analysis.Results, 1)
	assert.Equal(t, 3, analysis.Results[0].HistoricalStats.Count)
}

func TestCompareSkipsAccountsWithoutHistory(t *testing.T) {
	engine := New()

	current := []model.Transaction{
		txn("T1", "ACC-1", 102),
		txn("T2", "ACC-2", 5000), // only 2 historical records
	}
	historical := append(
		history("ACC-1", 100, 110, 90, 105, 95),
		history("ACC-2", 40, 60)...,
	)

	analysis := engine.Compare(current, historical)

	require.True(t, analysis.Possible)
	require.Len(t, analysis.Results, 1)
	assert.Equal(t, "T1", analysis.Results[0].TransactionID)
	assert.Equal(t, 1, analysis.Summary.TransactionsCompared)
}

func TestCompareNormalTransaction(t *testing.T) {
	engine := New()

	current := []model.Transaction{txn("T1", "ACC-1", 102)}
	analysis := engine.Compare(current, history("ACC-1", 100, 110, 90, 105, 95))

	require.True(t, analysis.Possible)
	require.Len(t, analysis.Results, 1)
	result := analysis.Results[0]

	assert.Equal(t, model.RiskLow, result.RiskLevel)
	assert.Equal(t, 0, result.RiskScore)
	assert.Empty(t, result.RiskReasons)
	assert.InDelta(t, 100.0, result.HistoricalStats.Mean, 1e-9)
	assert.InDelta(t, 0.253, result.ZScore, 0.001)
	assert.InDelta(t, 2.0, result.PercentageDeviation, 1e-9)
	assert.True(t, result.Flags.WithinNormalRange)
	assert.False(t, result.Flags.IsOutlier)
}

func TestCompareExtremeOutlier(t *testing.T) {
	engine := New()

	current := []model.Transaction{txn("T1", "ACC-1", 500)}
	analysis := engine.Compare(current, history("ACC-1", 100, 110, 90, 105, 95))

	require.True(t, analysis.Possible)
	result := analysis.Results[0]

	assert.Equal(t, model.RiskHigh, result.RiskLevel)
	// 40 (extreme z) + 15 (above mean+2σ) + 10 (extreme percentile).
	assert.Equal(t, 65, result.RiskScore)
	assert.Equal(t, []string{
		"Extreme deviation from normal behavior",
		"Amount significantly higher than historical pattern",
		"Extreme percentile ranking: 100.0%",
	}, result.RiskReasons)
	assert.True(t, result.Flags.IsOutlier)
	assert.True(t, result.Flags.ExtremeOutlier)
	assert.True(t, result.Flags.SignificantlyHigher)
	assert.True(t, result.Flags.Above95thPercentile)
	assert.False(t, result.Flags.WithinNormalRange)
}

func TestCompareMediumRiskZScore(t *testing.T) {
	engine := New()

	// z ≈ 2.53 against mean 100, σ ≈ 7.91.
	current := []model.Transaction{txn("T1", "ACC-1", 120)}
	analysis := engine.Compare(current, history("ACC-1", 100, 110, 90, 105, 95))

	require.True(t, analysis.Possible)
	result := analysis.Results[0]

	assert.Equal(t, model.RiskMedium, result.RiskLevel)
	// 25 (significant z) + 15 (above mean+2σ) + 10 (extreme percentile).
	assert.Equal(t, 50, result.RiskScore)
	assert.Contains(t, result.RiskReasons, "Significant deviation from normal behavior")
	assert.True(t, result.Flags.IsOutlier)
	assert.False(t, result.Flags.ExtremeOutlier)
}

func TestComparePercentageDeviation(t *testing.T) {
	engine := New()

	// Volatile history keeps the z-score small while the amount still sits
	// far from the mean in percentage terms.
	current := []model.Transaction{txn("T1", "ACC-1", 160)}
	analysis := engine.Compare(current, history("ACC-1", 10, 200, 30, 150, 70))

	require.True(t, analysis.Possible)
	result := analysis.Results[0]

	assert.Equal(t, model.RiskMedium, result.RiskLevel)
	assert.Equal(t, 20, result.RiskScore)
	assert.Equal(t, []string{"High percentage deviation: 73.9%"}, result.RiskReasons)
	assert.True(t, result.Flags.WithinNormalRange)
}

func TestCompareConstantHistory(t *testing.T) {
	engine := New()

	current := []model.Transaction{txn("T1", "ACC-1", 100)}
	analysis := engine.Compare(current, history("ACC-1", 100, 100, 100))

	require.True(t, analysis.Possible)
	result := analysis.Results[0]

	// Zero spread: z-score is defined as 0, but the amount still ranks at
	// the 100th percentile of its own history.
	assert.Zero(t, result.ZScore)
	assert.Zero(t, result.PercentageDeviation)
	assert.Equal(t, model.RiskLow, result.RiskLevel)
	assert.Equal(t, 10, result.RiskScore)
	assert.Equal(t, []string{"Extreme percentile ranking: 100.0%"}, result.RiskReasons)
	assert.True(t, result.Flags.Above95thPercentile)
}

func TestCompareSummaryCapsTotalRiskScore(t *testing.T) {
	engine := New()

	current := []model.Transaction{
		txn("T1", "ACC-1", 500),
		txn("T2", "ACC-1", 600),
	}
	analysis := engine.Compare(current, history("ACC-1", 100, 110, 90, 105, 95))

	require.True(t, analysis.Possible)
	require.NotNil(t, analysis.Summary)
	summary := analysis.Summary

	assert.Equal(t, 2, summary.TransactionsCompared)
	assert.Equal(t, 2, summary.HighRisk)
	assert.Equal(t, 2, summary.Outliers)
	assert.Equal(t, 2, summary.ExtremeOutliers)
	assert.Equal(t, 100, summary.TotalRiskScore)
	assert.Greater(t, summary.MaximumZScore, summary.AverageZScore*0.99)
}

func TestNewWithConfigDefaults(t *testing.T) {
	engine := NewWithConfig(Config{})
	assert.Equal(t, DefaultConfig(), engine.cfg)

	engine = NewWithConfig(Config{MinSampleSize: 5, HighRiskZScore: 4})
	assert.Equal(t, 5, engine.cfg.MinSampleSize)
	assert.InDelta(t, 4.0, engine.cfg.HighRiskZScore, 1e-9)
	assert.InDelta(t, 2.0, engine.cfg.MediumRiskZScore, 1e-9)
}
