package ingest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudlens/fraudlens/internal/model"
	"github.com/fraudlens/fraudlens/internal/service"
)

// fakeStore captures saved rows without a real database.
type fakeStore struct {
	service.RecordStore

	records      []model.CurrentRecord
	transactions []model.Transaction
}

func (f *fakeStore) SaveCurrentRecords(_ context.Context, records []model.CurrentRecord) error {
	f.records = append(f.records, records...)
	return nil
}

func (f *fakeStore) SaveHistoricalTransactions(_ context.Context, transactions []model.Transaction) error {
	f.transactions = append(f.transactions, transactions...)
	return nil
}

func TestImportLedger(t *testing.T) {
	input := `CustID,Name,Account,TransactionID,TransactionAmount,Employer,Location,Occupation,Age
CUST1,Jordan Marsh,ACC-100,TXN-1,"$1,250.00",Acme Corp,Springfield,Engineer,42
CUST1,Jordan Marsh,ACC-100,TXN-2,300.50,Acme Corp,Springfield,Engineer,42
CUST1,Jordan Marsh,ACC-100,TXN-3,not-a-number,Acme Corp,Springfield,Engineer,42
`

	store := &fakeStore{}
	stats, err := NewCSVImporter(store).ImportLedger(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Imported)
	assert.Equal(t, 1, stats.Skipped)
	require.Len(t, store.records, 2)
	assert.Equal(t, "CUST1", store.records[0].CustomerID)
	assert.InDelta(t, 1250.0, store.records[0].Amount, 1e-9)
	assert.Equal(t, 42, store.records[0].Age)
	assert.Equal(t, "TXN-2", store.records[1].TransactionID)
}

func TestImportLedgerMissingRequiredColumn(t *testing.T) {
	input := "Name,Account\nJordan,ACC-1\n"

	_, err := NewCSVImporter(&fakeStore{}).ImportLedger(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "custid")
}

func TestImportHistory(t *testing.T) {
	input := `CUSTID,ACCOUNT,AMOUNT,DATE,TXNID
CUST1,ACC-100,150.00,2024-01-15,H-1
CUST1,ACC-100,250.00,01/20/2024,
CUST1,,100.00,2024-01-25,H-3
`

	store := &fakeStore{}
	stats, err := NewCSVImporter(store).ImportHistory(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Imported)
	assert.Equal(t, 1, stats.Skipped)
	require.Len(t, store.transactions, 2)

	first := store.transactions[0]
	assert.Equal(t, "H-1", first.ID)
	assert.Equal(t, "ACC-100", first.Account)
	assert.True(t, first.Date.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.NotEmpty(t, first.Hash)

	// Row without a transaction ID gets a deterministic one.
	second := store.transactions[1]
	assert.Equal(t, "CUST1-ACC-100-000002", second.ID)
	assert.True(t, second.Date.Equal(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)))
}

func TestImportHistoryUndatedRows(t *testing.T) {
	input := "CUSTID,ACCOUNT,AMOUNT,DATE\nCUST1,ACC-1,99.0,\n"

	store := &fakeStore{}
	stats, err := NewCSVImporter(store).ImportHistory(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Imported)
	require.Len(t, store.transactions, 1)
	assert.False(t, store.transactions[0].HasDate())
}

func TestImportEmptyFile(t *testing.T) {
	_, err := NewCSVImporter(&fakeStore{}).ImportHistory(context.Background(), strings.NewReader(""))
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "1250.50", want: 1250.50},
		{input: "$1,250.50", want: 1250.50},
		{input: "-42", want: -42},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
