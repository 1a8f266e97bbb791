package analysis

import (
	"github.com/fraudlens/fraudlens/internal/model"
	"github.com/fraudlens/fraudlens/internal/stats"
)

// historySampleSize bounds the raw transaction sample carried into the
// report and the narrative prompt.
const historySampleSize = 10

// computeLedgerStats summarizes the current-ledger records for a case.
func computeLedgerStats(records []model.CurrentRecord) model.LedgerStats {
	if len(records) == 0 {
		return model.LedgerStats{}
	}

	accounts := make(map[string]struct{})
	locations := make(map[string]struct{})
	employers := make(map[string]struct{})
	occupations := make(map[string]struct{})

	var total float64
	minAge, maxAge := 0, 0
	for _, r := range records {
		total += r.Amount
		if r.Account != "" {
			accounts[r.Account] = struct{}{}
		}
		if r.Location != "" {
			locations[r.Location] = struct{}{}
		}
		if r.Employer != "" {
			employers[r.Employer] = struct{}{}
		}
		if r.Occupation != "" {
			occupations[r.Occupation] = struct{}{}
		}
		if r.Age > 0 {
			if minAge == 0 || r.Age < minAge {
				minAge = r.Age
			}
			if r.Age > maxAge {
				maxAge = r.Age
			}
		}
	}

	return model.LedgerStats{
		TotalRecords:      len(records),
		UniqueAccounts:    len(accounts),
		UniqueLocations:   len(locations),
		UniqueEmployers:   len(employers),
		UniqueOccupations: len(occupations),
		TotalAmount:       total,
		AvgAmount:         total / float64(len(records)),
		MinAge:            minAge,
		MaxAge:            maxAge,
	}
}

// computeHistoryStats summarizes the full historical series. Months covered
// counts distinct calendar months among dated transactions.
func computeHistoryStats(transactions []model.Transaction) model.HistoryStats {
	if len(transactions) == 0 {
		return model.HistoryStats{}
	}

	amounts := make([]float64, 0, len(transactions))
	accounts := make(map[string]struct{})
	months := make(map[string]struct{})
	for _, tx := range transactions {
		amounts = append(amounts, tx.Amount)
		if tx.Account != "" {
			accounts[tx.Account] = struct{}{}
		}
		if key := tx.MonthKey(); key != "" {
			months[key] = struct{}{}
		}
	}

	total := stats.Sum(amounts)
	avgMonthly := 0.0
	if len(months) > 0 {
		avgMonthly = total / float64(len(months))
	}

	return model.HistoryStats{
		TotalTransactions: len(transactions),
		UniqueAccounts:    len(accounts),
		MonthsCovered:     len(months),
		TotalAmount:       total,
		AvgAmount:         stats.Mean(amounts),
		MedianAmount:      stats.Median(amounts),
		MinAmount:         stats.Min(amounts),
		MaxAmount:         stats.Max(amounts),
		StdDeviation:      stats.StdDev(amounts),
		AvgMonthlyAmount:  avgMonthly,
	}
}

// sampleHistory returns the leading slice of the history for the report.
func sampleHistory(transactions []model.Transaction) []model.Transaction {
	if len(transactions) <= historySampleSize {
		return transactions
	}
	return transactions[:historySampleSize]
}
