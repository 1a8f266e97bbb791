// Package ingest loads customer ledger and historical transaction data into
// the record store from CSV and OFX sources.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/fraudlens/fraudlens/internal/model"
	"github.com/fraudlens/fraudlens/internal/service"
)

// ImportStats summarizes one import run.
type ImportStats struct {
	Imported int
	Skipped  int
}

// CSVImporter loads ledger and history files exported from the upstream
// case-management system. Rows with unparseable amounts are skipped, never
// fatal: a partially dirty export should still load.
type CSVImporter struct {
	store        service.RecordStore
	progressOut  io.Writer
	showProgress bool
}

// NewCSVImporter creates a CSV importer writing into the given store.
func NewCSVImporter(store service.RecordStore) *CSVImporter {
	return &CSVImporter{store: store}
}

// WithProgress enables a terminal progress bar written to out.
func (i *CSVImporter) WithProgress(out io.Writer) *CSVImporter {
	i.showProgress = true
	i.progressOut = out
	return i
}

// Ledger CSV columns. Header matching is case-insensitive and ignores
// punctuation, so "TransactionAmount" and "transaction_amount" both work.
var ledgerColumns = []string{
	"custid", "name", "account", "transactionid", "transactionamount",
	"employer", "location", "occupation", "age",
}

// ImportLedger reads the current-ledger CSV and stores its rows.
func (i *CSVImporter) ImportLedger(ctx context.Context, r io.Reader) (*ImportStats, error) {
	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	idx, err := columnIndex(header, ledgerColumns, []string{"custid", "account", "transactionid", "transactionamount"})
	if err != nil {
		return nil, err
	}

	bar := i.newBar(len(rows), "Importing ledger records...")
	stats := &ImportStats{}
	records := make([]model.CurrentRecord, 0, len(rows))

	for n, row := range rows {
		_ = bar.Add(1)

		amount, err := parseAmount(cell(row, idx["transactionamount"]))
		if err != nil {
			slog.Warn("Skipping ledger row with bad amount", "row", n+2, "error", err)
			stats.Skipped++
			continue
		}

		record := model.CurrentRecord{
			CustomerID:    cell(row, idx["custid"]),
			Name:          cell(row, idx["name"]),
			Account:       cell(row, idx["account"]),
			TransactionID: cell(row, idx["transactionid"]),
			Amount:        amount,
			Employer:      cell(row, idx["employer"]),
			Location:      cell(row, idx["location"]),
			Occupation:    cell(row, idx["occupation"]),
		}
		if age, err := strconv.Atoi(cell(row, idx["age"])); err == nil {
			record.Age = age
		}

		if record.CustomerID == "" || record.TransactionID == "" || record.Account == "" {
			slog.Warn("Skipping ledger row with missing identifiers", "row", n+2)
			stats.Skipped++
			continue
		}

		records = append(records, record)
	}

	if len(records) > 0 {
		if err := i.store.SaveCurrentRecords(ctx, records); err != nil {
			return nil, fmt.Errorf("saving ledger records: %w", err)
		}
	}
	stats.Imported = len(records)

	slog.Info("Ledger import complete", "imported", stats.Imported, "skipped", stats.Skipped)
	return stats, nil
}

// History CSV columns. The transaction ID column is optional; rows without
// one get a deterministic row-derived ID.
var historyColumns = []string{
	"custid", "account", "amount", "date", "transactionid", "txnid",
}

// ImportHistory reads the historical-transaction CSV and stores its rows.
func (i *CSVImporter) ImportHistory(ctx context.Context, r io.Reader) (*ImportStats, error) {
	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	idx, err := columnIndex(header, historyColumns, []string{"custid", "account", "amount"})
	if err != nil {
		return nil, err
	}

	bar := i.newBar(len(rows), "Importing historical transactions...")
	stats := &ImportStats{}
	transactions := make([]model.Transaction, 0, len(rows))

	for n, row := range rows {
		_ = bar.Add(1)

		amount, err := parseAmount(cell(row, idx["amount"]))
		if err != nil {
			slog.Warn("Skipping history row with bad amount", "row", n+2, "error", err)
			stats.Skipped++
			continue
		}

		txn := model.Transaction{
			CustomerID: cell(row, idx["custid"]),
			Account:    cell(row, idx["account"]),
			Amount:     amount,
		}
		if txn.CustomerID == "" || txn.Account == "" {
			slog.Warn("Skipping history row with missing identifiers", "row", n+2)
			stats.Skipped++
			continue
		}

		txn.ID = cell(row, idx["transactionid"])
		if txn.ID == "" {
			txn.ID = cell(row, idx["txnid"])
		}
		if txn.ID == "" {
			txn.ID = fmt.Sprintf("%s-%s-%06d", txn.CustomerID, txn.Account, n+1)
		}

		if date, ok := parseDate(cell(row, idx["date"])); ok {
			txn.Date = date
		}
		txn.Hash = txn.GenerateHash()

		transactions = append(transactions, txn)
	}

	if len(transactions) > 0 {
		if err := i.store.SaveHistoricalTransactions(ctx, transactions); err != nil {
			return nil, fmt.Errorf("saving historical transactions: %w", err)
		}
	}
	stats.Imported = len(transactions)

	slog.Info("History import complete", "imported", stats.Imported, "skipped", stats.Skipped)
	return stats, nil
}

func (i *CSVImporter) newBar(total int, description string) *progressbar.ProgressBar {
	if !i.showProgress {
		return progressbar.DefaultSilent(int64(total))
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(i.progressOut),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
	)
}

// readCSV loads every data row plus the header. Ragged rows are tolerated;
// short rows simply read as empty cells.
func readCSV(r io.Reader) (rows [][]string, header []string, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("CSV file is empty")
	}
	return all[1:], all[0], nil
}

// columnIndex maps known column names to their positions. Missing optional
// columns map to -1; missing required columns fail the import.
func columnIndex(header, known, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(known))
	for _, name := range known {
		idx[name] = -1
	}
	for pos, h := range header {
		key := normalizeHeader(h)
		if _, ok := idx[key]; ok {
			idx[key] = pos
		}
	}
	for _, name := range required {
		if idx[name] < 0 {
			return nil, fmt.Errorf("CSV is missing required column %q", name)
		}
	}
	return idx, nil
}

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cell(row []string, pos int) string {
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}

// parseAmount handles plain numbers plus the currency decorations the
// upstream exports tend to carry.
func parseAmount(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return amount, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
