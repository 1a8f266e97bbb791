package anomaly

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudlens/fraudlens/internal/model"
)

func txn(id, account string, amount float64) model.Transaction {
	return model.Transaction{ID: id, CustomerID: "CUST001", Account: account, Amount: amount}
}

func datedTxn(id, account string, amount float64, year int, month time.Month) model.Transaction {
	t := txn(id, account, amount)
	t.Date = time.Date(year, month, 15, 0, 0, 0, 0, time.UTC)
	return t
}

func findingsOfType(findings []model.Anomaly, typ model.AnomalyType) []model.Anomaly {
	var out []model.Anomaly
	for _, f := range findings {
		if f.Type == typ {
			out = append(out, f)
		}
	}
	return out
}

func TestDetectSeriesTooShort(t *testing.T) {
	detector := New()

	analysis := detector.Detect([]model.Transaction{
		txn("H1", "ACC-1", 100),
		txn("H2", "ACC-1", 5000),
	})

	assert.Empty(t, analysis.Detected)
	assert.Empty(t, analysis.Indicators)
	assert.Zero(t, analysis.Total)
}

func TestDetectStatisticalOutlier(t *testing.T) {
	detector := New()

	// Nine steady amounts and one spike: z ≈ 2.85, above the 2.5 threshold
	// but below the 3.75 high-severity cutoff.
	historical := make([]model.Transaction, 0, 10)
	for i := 0; i < 9; i++ {
		historical = append(historical, txn(fmt.Sprintf("H%d", i), fmt.Sprintf("ACC-%d", i), 100))
	}
	historical = append(historical, txn("H9", "ACC-9", 10000))

	analysis := detector.Detect(historical)

	outliers := findingsOfType(analysis.Detected, model.AnomalyStatisticalOutlier)
	require.Len(t, outliers, 1)
	assert.Equal(t, "H9", outliers[0].TransactionID)
	assert.Equal(t, model.SeverityMedium, outliers[0].Severity)
	assert.InDelta(t, 2.846, outliers[0].ZScore, 0.01)
	assert.Contains(t, outliers[0].Description, "deviates significantly from average")
	assert.Contains(t, outliers[0].Description, "$10,000.00")
	assert.Contains(t, outliers[0].Description, "$1,090.00")
}

func TestDetectStatisticalOutlierHighSeverity(t *testing.T) {
	detector := New()

	// Sixteen steady amounts and one spike push z past 1.5x the threshold.
	historical := make([]model.Transaction, 0, 17)
	for i := 0; i < 16; i++ {
		historical = append(historical, txn(fmt.Sprintf("H%d", i), fmt.Sprintf("ACC-%d", i), 100))
	}
	historical = append(historical, txn("H16", "ACC-16", 10000))

	analysis := detector.Detect(historical)

	outliers := findingsOfType(analysis.Detected, model.AnomalyStatisticalOutlier)
	require.Len(t, outliers, 1)
	assert.Equal(t, model.SeverityHigh, outliers[0].Severity)
	assert.Greater(t, outliers[0].ZScore, 3.75)
}

func TestDetectTemporalAnomaly(t *testing.T) {
	detector := New()

	var historical []model.Transaction
	for i, m := range []time.Month{time.January, time.February, time.March, time.April, time.May} {
		historical = append(historical, datedTxn(fmt.Sprintf("H%d", i), fmt.Sprintf("ACC-%d", i), 101, 2024, m))
	}
	historical = append(historical, datedTxn("H5", "ACC-5", 1001, 2024, time.June))

	analysis := detector.Detect(historical)

	temporal := findingsOfType(analysis.Indicators, model.AnomalyTemporal)
	require.Len(t, temporal, 1)
	assert.Equal(t, "2024-06", temporal[0].Month)
	assert.Equal(t, model.SeverityMedium, temporal[0].Severity)
	assert.InDelta(t, 1001.0, temporal[0].Amount, 1e-9)
	assert.Greater(t, temporal[0].ZScore, 2.0)
}

func TestDetectTemporalAnomalyHighSeverity(t *testing.T) {
	detector := New()

	// Eleven steady months and one spike: monthly z = 11/sqrt(12) ≈ 3.18,
	// past the high-severity cutoff.
	var historical []model.Transaction
	for i := 0; i < 11; i++ {
		historical = append(historical, datedTxn(fmt.Sprintf("H%d", i), fmt.Sprintf("ACC-%d", i), 100, 2024, time.Month(i+1)))
	}
	historical = append(historical, datedTxn("H11", "ACC-11", 5000, 2024, time.December))

	analysis := detector.Detect(historical)

	temporal := findingsOfType(analysis.Indicators, model.AnomalyTemporal)
	require.Len(t, temporal, 1)
	assert.Equal(t, "2024-12", temporal[0].Month)
	assert.Equal(t, model.SeverityHigh, temporal[0].Severity)
	assert.Greater(t, temporal[0].ZScore, 3.0)
	assert.Contains(t, temporal[0].Description, "$5,000.00")
}

func TestDetectFrequencyAnomaly(t *testing.T) {
	detector := New()

	// Five months with one transaction each, then a month with five. The
	// burst month's total matches the others so only frequency stands out.
	var historical []model.Transaction
	for i, m := range []time.Month{time.January, time.February, time.March, time.April, time.May} {
		historical = append(historical, datedTxn(fmt.Sprintf("H%d", i), "ACC-1", 10, 2024, m))
	}
	for i := 0; i < 5; i++ {
		historical = append(historical, datedTxn(fmt.Sprintf("B%d", i), "ACC-1", 2, 2024, time.June))
	}

	analysis := detector.Detect(historical)

	assert.Empty(t, findingsOfType(analysis.Indicators, model.AnomalyTemporal))

	freq := findingsOfType(analysis.Indicators, model.AnomalyFrequency)
	require.Len(t, freq, 1)
	assert.Equal(t, "2024-06", freq[0].Month)
	assert.Equal(t, 5, freq[0].Frequency)
	assert.Equal(t, model.SeverityMedium, freq[0].Severity)
}

func TestDetectAccountVolatility(t *testing.T) {
	tests := []struct {
		name         string
		amounts      []float64
		wantSeverity model.Severity
	}{
		{
			name:         "high volatility",
			amounts:      []float64{10, 1000, 20},
			wantSeverity: model.SeverityHigh,
		},
		{
			name:         "medium volatility",
			amounts:      []float64{100, 300, 35},
			wantSeverity: model.SeverityMedium,
		},
	}

	detector := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var historical []model.Transaction
			for i, amt := range tt.amounts {
				historical = append(historical, txn(fmt.Sprintf("H%d", i), "ACC-1", amt))
			}

			analysis := detector.Detect(historical)

			findings := findingsOfType(analysis.Indicators, model.AnomalyAccountVolatility)
			require.Len(t, findings, 1)
			assert.Equal(t, "ACC-1", findings[0].Account)
			assert.Equal(t, tt.wantSeverity, findings[0].Severity)
			assert.Greater(t, findings[0].Volatility, 0.8)
		})
	}
}

func TestDetectAccountVolatilitySkipsSteadyAccounts(t *testing.T) {
	detector := New()

	analysis := detector.Detect([]model.Transaction{
		txn("H1", "ACC-1", 95),
		txn("H2", "ACC-1", 100),
		txn("H3", "ACC-1", 105),
	})

	assert.Empty(t, findingsOfType(analysis.Indicators, model.AnomalyAccountVolatility))
}

func TestDetectRoundNumberBias(t *testing.T) {
	detector := New()

	// Five of six amounts are round: 83.3% against the 70% threshold. One
	// amount per account keeps the volatility check out of the picture.
	var historical []model.Transaction
	for i, amt := range []float64{100, 200, 300, 400, 500, 77} {
		historical = append(historical, txn(fmt.Sprintf("H%d", i), fmt.Sprintf("ACC-%d", i), amt))
	}

	analysis := detector.Detect(historical)

	bias := findingsOfType(analysis.Indicators, model.AnomalyRoundNumberBias)
	require.Len(t, bias, 1)
	assert.Equal(t, model.SeverityMedium, bias[0].Severity)
	assert.InDelta(t, 5.0/6.0, bias[0].RoundRatio, 1e-9)
	assert.Equal(t, 5, bias[0].RoundCount)
	assert.Equal(t, 6, bias[0].TotalCount)
	assert.Contains(t, bias[0].Description, "structured transactions")
}

func TestDetectFlatSeriesProducesNothing(t *testing.T) {
	detector := New()

	var historical []model.Transaction
	for i := 0; i < 4; i++ {
		historical = append(historical, datedTxn(fmt.Sprintf("H%d", i), "ACC-1", 250.5, 2024, time.Month(i+1)))
	}

	analysis := detector.Detect(historical)

	assert.Empty(t, analysis.Detected)
	assert.Empty(t, analysis.Indicators)
	assert.Zero(t, analysis.Total)
}

func TestSeverityCountsPoolBothGroups(t *testing.T) {
	analysis := model.AnomalyAnalysis{
		Detected: []model.Anomaly{
			{Type: model.AnomalyStatisticalOutlier, Severity: model.SeverityHigh},
		},
		Indicators: []model.Anomaly{
			{Type: model.AnomalyAccountVolatility, Severity: model.SeverityHigh},
			{Type: model.AnomalyRoundNumberBias, Severity: model.SeverityMedium},
		},
	}

	high, medium := analysis.SeverityCounts()
	assert.Equal(t, 2, high)
	assert.Equal(t, 1, medium)
}
