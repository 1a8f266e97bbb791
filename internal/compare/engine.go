// Package compare implements the transaction comparison engine: the
// statistical layer that measures each current transaction against the same
// account's historical amount series.
package compare

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/fraudlens/fraudlens/internal/model"
	"github.com/fraudlens/fraudlens/internal/stats"
)

// Config holds every threshold the engine consults. All values are fixed at
// construction time; the engine never reads ambient state.
type Config struct {
	// MinSampleSize is the minimum number of valid historical amounts an
	// account needs before any comparison is considered valid.
	MinSampleSize int
	// HighRiskZScore is the |z| above which a transaction is high risk.
	HighRiskZScore float64
	// MediumRiskZScore is the |z| above which a transaction is medium risk.
	MediumRiskZScore float64
	// DeviationThreshold is the percentage deviation above which a
	// transaction is medium risk even with an unremarkable z-score.
	DeviationThreshold float64
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MinSampleSize:      3,
		HighRiskZScore:     3.0,
		MediumRiskZScore:   2.0,
		DeviationThreshold: 50.0,
	}
}

// Engine compares current transactions against per-account history.
type Engine struct {
	cfg Config
}

// New creates a comparison engine with the default thresholds.
func New() *Engine {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a comparison engine with custom thresholds. Zero or
// negative values fall back to the defaults.
func NewWithConfig(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.MinSampleSize <= 0 {
		cfg.MinSampleSize = def.MinSampleSize
	}
	if cfg.HighRiskZScore <= 0 {
		cfg.HighRiskZScore = def.HighRiskZScore
	}
	if cfg.MediumRiskZScore <= 0 {
		cfg.MediumRiskZScore = def.MediumRiskZScore
	}
	if cfg.DeviationThreshold <= 0 {
		cfg.DeviationThreshold = def.DeviationThreshold
	}
	return &Engine{cfg: cfg}
}

// Compare produces a ComparisonResult for every current transaction whose
// account has at least MinSampleSize valid historical amounts. Transactions
// on thinner accounts are excluded from the output entirely; they are not
// flagged low-risk and they do not appear in summary denominators. A run
// that produces no results is a normal outcome reported via Possible=false.
func (e *Engine) Compare(current, historical []model.Transaction) model.ComparisonAnalysis {
	analysis := model.ComparisonAnalysis{
		CurrentFound:    len(current),
		HistoricalFound: len(historical),
	}

	if len(current) == 0 || len(historical) == 0 {
		analysis.Reason = fmt.Sprintf("insufficient data - current: %d, historical: %d",
			len(current), len(historical))
		return analysis
	}

	byAccount := groupAmountsByAccount(historical)

	results := make([]model.ComparisonResult, 0, len(current))
	for _, txn := range current {
		amounts, ok := byAccount[txn.Account]
		if !ok || len(amounts) < e.cfg.MinSampleSize {
			slog.Debug("Skipping transaction with insufficient account history",
				"transaction_id", txn.ID,
				"account", txn.Account,
				"history_count", len(amounts),
				"min_sample_size", e.cfg.MinSampleSize)
			continue
		}
		results = append(results, e.compareOne(txn, amounts))
	}

	if len(results) == 0 {
		analysis.Reason = "no valid statistical comparisons could be performed"
		return analysis
	}

	summary := summarize(results)
	analysis.Possible = true
	analysis.Results = results
	analysis.Summary = &summary

	slog.Info("Comparison analysis complete",
		"transactions_compared", summary.TransactionsCompared,
		"high_risk", summary.HighRisk,
		"medium_risk", summary.MediumRisk,
		"outliers", summary.Outliers)

	return analysis
}

// compareOne runs the full statistical comparison for a single transaction
// against its account's historical amounts.
func (e *Engine) compareOne(txn model.Transaction, amounts []float64) model.ComparisonResult {
	hist := model.HistoricalStats{
		Mean:   stats.Mean(amounts),
		StdDev: stats.StdDev(amounts),
		Median: stats.Median(amounts),
		Min:    stats.Min(amounts),
		Max:    stats.Max(amounts),
		Q1:     stats.Percentile(amounts, 25),
		Q3:     stats.Percentile(amounts, 75),
		Count:  len(amounts),
	}

	deviation := math.Abs(txn.Amount - hist.Mean)

	var zScore float64
	if hist.StdDev > 0 {
		zScore = (txn.Amount - hist.Mean) / hist.StdDev
	}

	var pctDeviation float64
	if hist.Mean > 0 {
		pctDeviation = deviation / hist.Mean * 100
	}

	rank := stats.PercentileRank(amounts, txn.Amount)

	level, score, reasons := e.classify(txn.Amount, hist, zScore, pctDeviation, rank)

	return model.ComparisonResult{
		TransactionID:       txn.ID,
		Account:             txn.Account,
		CurrentAmount:       txn.Amount,
		HistoricalStats:     hist,
		DeviationFromMean:   deviation,
		ZScore:              zScore,
		PercentageDeviation: pctDeviation,
		PercentileRank:      rank,
		RiskLevel:           level,
		RiskScore:           score,
		RiskReasons:         reasons,
		Flags: model.ComparisonFlags{
			IsOutlier:           math.Abs(zScore) > 2,
			ExtremeOutlier:      math.Abs(zScore) > 3,
			SignificantlyHigher: txn.Amount > hist.Mean+2*hist.StdDev,
			SignificantlyLower:  txn.Amount < hist.Mean-2*hist.StdDev,
			WithinNormalRange:   math.Abs(zScore) <= 1,
			Above95thPercentile: rank > 95,
			Below5thPercentile:  rank < 5,
		},
	}
}

// classify assigns the risk level from the first matching condition and
// accumulates the score additively across every triggered condition, capped
// at 100. Reasons are appended in evaluation order.
func (e *Engine) classify(amount float64, hist model.HistoricalStats, zScore, pctDeviation, rank float64) (model.RiskLevel, int, []string) {
	level := model.RiskLow
	score := 0
	var reasons []string

	switch {
	case math.Abs(zScore) > e.cfg.HighRiskZScore:
		level = model.RiskHigh
		score = 40
		reasons = append(reasons, "Extreme deviation from normal behavior")
	case math.Abs(zScore) > e.cfg.MediumRiskZScore:
		level = model.RiskMedium
		score = 25
		reasons = append(reasons, "Significant deviation from normal behavior")
	case pctDeviation > e.cfg.DeviationThreshold:
		level = model.RiskMedium
		score = 20
		reasons = append(reasons, fmt.Sprintf("High percentage deviation: %.1f%%", pctDeviation))
	}

	if amount > hist.Mean+2*hist.StdDev {
		score += 15
		reasons = append(reasons, "Amount significantly higher than historical pattern")
	} else if amount < hist.Mean-2*hist.StdDev {
		score += 10
		reasons = append(reasons, "Amount significantly lower than historical pattern")
	}

	if rank > 95 || rank < 5 {
		score += 10
		reasons = append(reasons, fmt.Sprintf("Extreme percentile ranking: %.1f%%", rank))
	}

	if score > 100 {
		score = 100
	}
	return level, score, reasons
}

// summarize aggregates the per-transaction results into a case-level view.
func summarize(results []model.ComparisonResult) model.ComparisonSummary {
	summary := model.ComparisonSummary{TransactionsCompared: len(results)}

	absZ := make([]float64, 0, len(results))
	for _, r := range results {
		summary.TotalRiskScore += r.RiskScore
		absZ = append(absZ, math.Abs(r.ZScore))

		switch r.RiskLevel {
		case model.RiskHigh:
			summary.HighRisk++
		case model.RiskMedium:
			summary.MediumRisk++
		case model.RiskLow:
			summary.LowRisk++
		}

		if r.Flags.IsOutlier {
			summary.Outliers++
		}
		if r.Flags.ExtremeOutlier {
			summary.ExtremeOutliers++
		}
		if r.Flags.Above95thPercentile {
			summary.Above95thPercentile++
		}
		if r.Flags.Below5thPercentile {
			summary.Below5thPercentile++
		}
	}

	if summary.TotalRiskScore > 100 {
		summary.TotalRiskScore = 100
	}
	summary.AverageZScore = stats.Mean(absZ)
	summary.MaximumZScore = stats.Max(absZ)

	return summary
}

// groupAmountsByAccount collects the valid historical amounts per account.
// Non-finite amounts are dropped without failing the batch.
func groupAmountsByAccount(historical []model.Transaction) map[string][]float64 {
	byAccount := make(map[string][]float64)
	for _, txn := range historical {
		if math.IsNaN(txn.Amount) || math.IsInf(txn.Amount, 0) {
			continue
		}
		byAccount[txn.Account] = append(byAccount[txn.Account], txn.Amount)
	}
	return byAccount
}
