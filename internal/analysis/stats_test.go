package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fraudlens/fraudlens/internal/model"
)

func TestComputeLedgerStats(t *testing.T) {
	records := []model.CurrentRecord{
		{CustomerID: "C1", Account: "A1", Amount: 100, Location: "Springfield", Employer: "Acme", Occupation: "Engineer", Age: 42},
		{CustomerID: "C1", Account: "A1", Amount: 200, Location: "Springfield", Employer: "Acme", Occupation: "Engineer", Age: 42},
		{CustomerID: "C1", Account: "A2", Amount: 300, Location: "Shelbyville", Employer: "Globex", Occupation: "Manager", Age: 38},
	}

	s := computeLedgerStats(records)

	assert.Equal(t, 3, s.TotalRecords)
	assert.Equal(t, 2, s.UniqueAccounts)
	assert.Equal(t, 2, s.UniqueLocations)
	assert.Equal(t, 2, s.UniqueEmployers)
	assert.Equal(t, 2, s.UniqueOccupations)
	assert.InDelta(t, 600.0, s.TotalAmount, 1e-9)
	assert.InDelta(t, 200.0, s.AvgAmount, 1e-9)
	assert.Equal(t, 38, s.MinAge)
	assert.Equal(t, 42, s.MaxAge)
}

func TestComputeLedgerStatsEmpty(t *testing.T) {
	assert.Equal(t, model.LedgerStats{}, computeLedgerStats(nil))
}

func TestComputeHistoryStats(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		{Account: "A1", Amount: 100, Date: jan},
		{Account: "A1", Amount: 200, Date: jan},
		{Account: "A2", Amount: 300, Date: feb},
	}

	s := computeHistoryStats(txns)

	assert.Equal(t, 3, s.TotalTransactions)
	assert.Equal(t, 2, s.UniqueAccounts)
	assert.Equal(t, 2, s.MonthsCovered)
	assert.InDelta(t, 600.0, s.TotalAmount, 1e-9)
	assert.InDelta(t, 200.0, s.AvgAmount, 1e-9)
	assert.InDelta(t, 200.0, s.MedianAmount, 1e-9)
	assert.InDelta(t, 100.0, s.MinAmount, 1e-9)
	assert.InDelta(t, 300.0, s.MaxAmount, 1e-9)
	assert.InDelta(t, 300.0, s.AvgMonthlyAmount, 1e-9)
}

func TestComputeHistoryStatsUndatedMonths(t *testing.T) {
	txns := []model.Transaction{
		{Account: "A1", Amount: 100},
		{Account: "A1", Amount: 200},
	}

	s := computeHistoryStats(txns)

	assert.Equal(t, 0, s.MonthsCovered)
	assert.InDelta(t, 0.0, s.AvgMonthlyAmount, 1e-9)
}

func TestSampleHistory(t *testing.T) {
	txns := make([]model.Transaction, 25)
	sample := sampleHistory(txns)
	assert.Len(t, sample, historySampleSize)

	short := make([]model.Transaction, 4)
	assert.Len(t, sampleHistory(short), 4)
}
