// Package metrics blends the comparison and anomaly signals into one
// bounded composite risk score for the case.
package metrics

import (
	"math"

	"github.com/fraudlens/fraudlens/internal/model"
	"github.com/fraudlens/fraudlens/internal/stats"
)

// Weighting of the two upstream signals and the per-severity anomaly
// contribution. The composite stays in [0, 100].
const (
	comparisonWeight    = 0.6
	anomalyWeight       = 0.4
	highSeverityScore   = 15
	mediumSeverityScore = 8
)

// Compute produces the composite metrics for one case. It is a pure
// function of its inputs: an empty historical series yields
// AnalysisCompleted == false, and a comparison that was not possible simply
// contributes nothing to the score.
func Compute(historical []model.Transaction, comparison model.ComparisonAnalysis, anomalies model.AnomalyAnalysis) model.CompositeMetrics {
	if len(historical) == 0 {
		return model.CompositeMetrics{}
	}

	var score float64
	if comparison.Possible && comparison.Summary != nil {
		comparisonRisk := math.Min(float64(comparison.Summary.TotalRiskScore), 100)
		score += comparisonRisk * comparisonWeight
	}

	high, medium := anomalies.SeverityCounts()
	score += float64(high*highSeverityScore+medium*mediumSeverityScore) * anomalyWeight

	return model.CompositeMetrics{
		AnalysisCompleted:     true,
		RiskScore:             math.Min(score, 100),
		TotalAnomalies:        anomalies.Total,
		TransactionVolatility: volatility(historical),
	}
}

// volatility is the coefficient of variation of every valid historical
// amount, 0 when the series is too short or the mean is non-positive.
func volatility(historical []model.Transaction) float64 {
	amounts := make([]float64, 0, len(historical))
	for _, txn := range historical {
		if math.IsNaN(txn.Amount) || math.IsInf(txn.Amount, 0) {
			continue
		}
		amounts = append(amounts, txn.Amount)
	}
	return stats.CoefficientOfVariation(amounts)
}
