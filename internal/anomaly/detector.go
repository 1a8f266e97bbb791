// Package anomaly scans a customer's full historical transaction series for
// behavioral irregularities that the per-transaction comparison engine would
// miss: global outliers, monthly pattern breaks, unusual transaction
// frequency, volatile accounts, and round-number bias.
package anomaly

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/fraudlens/fraudlens/internal/model"
	"github.com/fraudlens/fraudlens/internal/stats"
)

// Config holds the detector's thresholds, fixed at construction time.
type Config struct {
	// MinTransactions is the minimum series length for any detection to run.
	MinTransactions int
	// OutlierZScore is the global |z| above which an amount is an outlier.
	// An amount beyond 1.5x this threshold is graded high severity.
	OutlierZScore float64
	// VolatilityThreshold is the per-account coefficient of variation above
	// which the account is flagged; HighVolatility grades the finding high.
	VolatilityThreshold float64
	HighVolatility      float64
	// RoundNumberRatio is the fraction of round amounts above which the
	// series shows round-number bias.
	RoundNumberRatio float64
}

// DefaultConfig returns the standard detection thresholds.
func DefaultConfig() Config {
	return Config{
		MinTransactions:     3,
		OutlierZScore:       2.5,
		VolatilityThreshold: 0.8,
		HighVolatility:      1.2,
		RoundNumberRatio:    0.7,
	}
}

// Detector runs the anomaly sub-analyses over a historical series.
type Detector struct {
	cfg Config
}

// New creates a detector with the default thresholds.
func New() *Detector {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a detector with custom thresholds. Zero or negative
// values fall back to the defaults.
func NewWithConfig(cfg Config) *Detector {
	def := DefaultConfig()
	if cfg.MinTransactions <= 0 {
		cfg.MinTransactions = def.MinTransactions
	}
	if cfg.OutlierZScore <= 0 {
		cfg.OutlierZScore = def.OutlierZScore
	}
	if cfg.VolatilityThreshold <= 0 {
		cfg.VolatilityThreshold = def.VolatilityThreshold
	}
	if cfg.HighVolatility <= 0 {
		cfg.HighVolatility = def.HighVolatility
	}
	if cfg.RoundNumberRatio <= 0 {
		cfg.RoundNumberRatio = def.RoundNumberRatio
	}
	return &Detector{cfg: cfg}
}

// Detect runs every sub-analysis over the historical series. A series
// shorter than MinTransactions yields an empty analysis rather than an
// error. Output ordering is deterministic: transaction order for outliers,
// sorted month and account keys for the pattern indicators.
func (d *Detector) Detect(historical []model.Transaction) model.AnomalyAnalysis {
	var analysis model.AnomalyAnalysis

	amounts := make([]float64, 0, len(historical))
	byMonth := make(map[string][]float64)
	byAccount := make(map[string][]float64)

	for _, txn := range historical {
		if math.IsNaN(txn.Amount) || math.IsInf(txn.Amount, 0) {
			continue
		}
		amounts = append(amounts, txn.Amount)
		byAccount[txn.Account] = append(byAccount[txn.Account], txn.Amount)
		if txn.HasDate() {
			byMonth[txn.MonthKey()] = append(byMonth[txn.MonthKey()], txn.Amount)
		}
	}

	if len(amounts) < d.cfg.MinTransactions {
		return analysis
	}

	analysis.Detected = d.statisticalOutliers(historical, amounts)
	analysis.Indicators = append(analysis.Indicators, d.temporalAnomalies(byMonth)...)
	analysis.Indicators = append(analysis.Indicators, d.frequencyAnomalies(byMonth)...)
	analysis.Indicators = append(analysis.Indicators, d.accountVolatility(byAccount)...)
	analysis.Indicators = append(analysis.Indicators, d.roundNumberBias(amounts)...)
	analysis.Total = len(analysis.Detected) + len(analysis.Indicators)

	slog.Info("Anomaly detection complete",
		"outliers", len(analysis.Detected),
		"risk_indicators", len(analysis.Indicators),
		"total", analysis.Total)

	return analysis
}

// statisticalOutliers flags transactions whose amount sits beyond the global
// z-score threshold. A flat series (zero std dev) produces no findings.
func (d *Detector) statisticalOutliers(historical []model.Transaction, amounts []float64) []model.Anomaly {
	mean := stats.Mean(amounts)
	stdDev := stats.StdDev(amounts)
	if stdDev <= 0 {
		return nil
	}

	var findings []model.Anomaly
	for _, txn := range historical {
		if math.IsNaN(txn.Amount) || math.IsInf(txn.Amount, 0) {
			continue
		}
		z := math.Abs((txn.Amount - mean) / stdDev)
		if z <= d.cfg.OutlierZScore {
			continue
		}
		severity := model.SeverityMedium
		if z > d.cfg.OutlierZScore*1.5 {
			severity = model.SeverityHigh
		}
		findings = append(findings, model.Anomaly{
			Type:            model.AnomalyStatisticalOutlier,
			Severity:        severity,
			TransactionID:   txn.ID,
			Account:         txn.Account,
			Amount:          txn.Amount,
			ZScore:          z,
			MeanAmount:      mean,
			StdDev:          stdDev,
			DetectionMethod: "z_score_analysis",
			Description: fmt.Sprintf("Transaction amount %s deviates significantly from average %s",
				model.FormatAmount(txn.Amount), model.FormatAmount(mean)),
		})
	}
	return findings
}

// temporalAnomalies flags calendar months whose total breaks from the
// typical monthly pattern. Needs at least two months of data.
func (d *Detector) temporalAnomalies(byMonth map[string][]float64) []model.Anomaly {
	if len(byMonth) < 2 {
		return nil
	}

	months := sortedKeys(byMonth)
	totals := make([]float64, len(months))
	for i, month := range months {
		totals[i] = stats.Sum(byMonth[month])
	}

	mean := stats.Mean(totals)
	stdDev := stats.StdDev(totals)
	if stdDev <= 0 {
		return nil
	}

	var findings []model.Anomaly
	for i, month := range months {
		z := math.Abs((totals[i] - mean) / stdDev)
		if z <= 2 {
			continue
		}
		severity := model.SeverityMedium
		if z > 3 {
			severity = model.SeverityHigh
		}
		findings = append(findings, model.Anomaly{
			Type:            model.AnomalyTemporal,
			Severity:        severity,
			Month:           month,
			Amount:          totals[i],
			ZScore:          z,
			DetectionMethod: "temporal_analysis",
			Description: fmt.Sprintf("Monthly total %s in %s deviates significantly from typical monthly pattern",
				model.FormatAmount(totals[i]), month),
		})
	}
	return findings
}

// frequencyAnomalies flags months with an unusual number of transactions.
func (d *Detector) frequencyAnomalies(byMonth map[string][]float64) []model.Anomaly {
	if len(byMonth) < 2 {
		return nil
	}

	months := sortedKeys(byMonth)
	counts := make([]float64, len(months))
	for i, month := range months {
		counts[i] = float64(len(byMonth[month]))
	}

	mean := stats.Mean(counts)
	stdDev := stats.StdDev(counts)
	if stdDev <= 0 {
		return nil
	}

	var findings []model.Anomaly
	for i, month := range months {
		z := math.Abs((counts[i] - mean) / stdDev)
		if z <= 2 {
			continue
		}
		findings = append(findings, model.Anomaly{
			Type:            model.AnomalyFrequency,
			Severity:        model.SeverityMedium,
			Month:           month,
			Frequency:       int(counts[i]),
			ZScore:          z,
			DetectionMethod: "frequency_analysis",
			Description: fmt.Sprintf("Transaction frequency of %d in %s deviates from normal pattern",
				int(counts[i]), month),
		})
	}
	return findings
}

// accountVolatility flags accounts whose coefficient of variation exceeds
// the volatility threshold. Accounts with fewer than three amounts are
// skipped.
func (d *Detector) accountVolatility(byAccount map[string][]float64) []model.Anomaly {
	var findings []model.Anomaly
	for _, account := range sortedKeys(byAccount) {
		amounts := byAccount[account]
		if len(amounts) < 3 {
			continue
		}
		mean := stats.Mean(amounts)
		if mean <= 0 {
			continue
		}
		volatility := stats.StdDev(amounts) / mean
		if volatility <= d.cfg.VolatilityThreshold {
			continue
		}
		severity := model.SeverityMedium
		if volatility > d.cfg.HighVolatility {
			severity = model.SeverityHigh
		}
		findings = append(findings, model.Anomaly{
			Type:            model.AnomalyAccountVolatility,
			Severity:        severity,
			Account:         account,
			Volatility:      volatility,
			MeanAmount:      mean,
			StdDev:          stats.StdDev(amounts),
			DetectionMethod: "volatility_analysis",
			Description: fmt.Sprintf("Account %s shows high volatility with coefficient of variation %.2f",
				account, volatility),
		})
	}
	return findings
}

// roundNumberBias flags a series dominated by amounts divisible by 100 or
// 1000, a common marker of structured transactions. Needs at least five
// amounts.
func (d *Detector) roundNumberBias(amounts []float64) []model.Anomaly {
	if len(amounts) < 5 {
		return nil
	}

	round := 0
	for _, amt := range amounts {
		if math.Mod(amt, 100) == 0 || math.Mod(amt, 1000) == 0 {
			round++
		}
	}
	ratio := float64(round) / float64(len(amounts))
	if ratio <= d.cfg.RoundNumberRatio {
		return nil
	}

	return []model.Anomaly{{
		Type:            model.AnomalyRoundNumberBias,
		Severity:        model.SeverityMedium,
		RoundRatio:      ratio,
		RoundCount:      round,
		TotalCount:      len(amounts),
		DetectionMethod: "pattern_analysis",
		Description: fmt.Sprintf("%.1f%% of transactions are round numbers, which may indicate structured transactions",
			ratio*100),
	}}
}

func sortedKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
