package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fraudlens/fraudlens/internal/model"
	"github.com/fraudlens/fraudlens/internal/service"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so queries run identically
// inside and outside an explicit transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// SaveCurrentRecords upserts ledger rows for the customers under review.
func (s *SQLiteStore) SaveCurrentRecords(ctx context.Context, records []model.CurrentRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCurrentRecords(records); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveCurrentRecordsTx(ctx, tx, records); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) saveCurrentRecordsTx(ctx context.Context, q dbtx, records []model.CurrentRecord) error {
	stmt, err := q.PrepareContext(ctx, `
		INSERT INTO current_records (
			customer_id, name, account, transaction_id, amount,
			employer, location, occupation, age
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(customer_id, transaction_id) DO UPDATE SET
			name = excluded.name,
			account = excluded.account,
			amount = excluded.amount,
			employer = excluded.employer,
			location = excluded.location,
			occupation = excluded.occupation,
			age = excluded.age
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, record := range records {
		if _, err := stmt.ExecContext(ctx,
			record.CustomerID,
			record.Name,
			record.Account,
			record.TransactionID,
			record.Amount,
			record.Employer,
			record.Location,
			record.Occupation,
			record.Age,
		); err != nil {
			return fmt.Errorf("failed to save current record %s: %w", record.TransactionID, err)
		}
	}

	slog.Debug("Saved current records", "count", len(records))
	return nil
}

// GetCurrentRecords returns the ledger rows for one customer ID. Unknown
// customers yield an empty slice, not an error.
func (s *SQLiteStore) GetCurrentRecords(ctx context.Context, customerID string) ([]model.CurrentRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(customerID, "customerID"); err != nil {
		return nil, err
	}
	return s.getCurrentRecordsTx(ctx, s.db, customerID)
}

func (s *SQLiteStore) getCurrentRecordsTx(ctx context.Context, q dbtx, customerID string) ([]model.CurrentRecord, error) {
	return queryCurrentRecords(ctx, q, `
		SELECT customer_id, name, account, transaction_id, amount,
		       employer, location, occupation, age
		FROM current_records
		WHERE customer_id = ?
		ORDER BY transaction_id
	`, customerID)
}

// GetCurrentRecordsByName looks up ledger rows whose customer name contains
// the given name, case-insensitively. Used as a fallback when a case file
// carries a name but no usable customer ID; a partial name like "John" still
// finds "John Smith".
func (s *SQLiteStore) GetCurrentRecordsByName(ctx context.Context, customerName string) ([]model.CurrentRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(customerName, "customerName"); err != nil {
		return nil, err
	}
	return s.getCurrentRecordsByNameTx(ctx, s.db, customerName)
}

func (s *SQLiteStore) getCurrentRecordsByNameTx(ctx context.Context, q dbtx, customerName string) ([]model.CurrentRecord, error) {
	return queryCurrentRecords(ctx, q, `
		SELECT customer_id, name, account, transaction_id, amount,
		       employer, location, occupation, age
		FROM current_records
		WHERE name LIKE '%' || ? || '%'
		ORDER BY transaction_id
	`, strings.TrimSpace(customerName))
}

func queryCurrentRecords(ctx context.Context, q dbtx, query string, args ...any) ([]model.CurrentRecord, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query current records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]model.CurrentRecord, 0)
	for rows.Next() {
		var record model.CurrentRecord
		var employer, location, occupation sql.NullString
		var age sql.NullInt64

		if err := rows.Scan(
			&record.CustomerID,
			&record.Name,
			&record.Account,
			&record.TransactionID,
			&record.Amount,
			&employer,
			&location,
			&occupation,
			&age,
		); err != nil {
			return nil, fmt.Errorf("failed to scan current record: %w", err)
		}

		record.Employer = employer.String
		record.Location = location.String
		record.Occupation = occupation.String
		record.Age = int(age.Int64)
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate current records: %w", err)
	}
	return records, nil
}

// CountCurrentRecords reports the total size of the current ledger.
func (s *SQLiteStore) CountCurrentRecords(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return countRows(ctx, s.db, "current_records")
}

// SaveHistoricalTransactions inserts historical ledger entries, silently
// skipping rows whose hash is already present so repeated imports are safe.
func (s *SQLiteStore) SaveHistoricalTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveHistoricalTransactionsTx(ctx, tx, transactions); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) saveHistoricalTransactionsTx(ctx context.Context, q dbtx, transactions []model.Transaction) error {
	stmt, err := q.PrepareContext(ctx, `
		INSERT OR IGNORE INTO historical_transactions (
			id, hash, customer_id, account, amount, date
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		// Generate hash if not already set
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}

		var date any
		if txn.HasDate() {
			date = txn.Date
		}

		if _, err := stmt.ExecContext(ctx,
			txn.ID,
			txn.Hash,
			txn.CustomerID,
			txn.Account,
			txn.Amount,
			date,
		); err != nil {
			return fmt.Errorf("failed to save historical transaction %s: %w", txn.ID, err)
		}
	}

	slog.Debug("Saved historical transactions", "count", len(transactions))
	return nil
}

// GetHistoricalTransactions returns a customer's full historical series,
// oldest first. Unknown customers yield an empty slice.
func (s *SQLiteStore) GetHistoricalTransactions(ctx context.Context, customerID string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(customerID, "customerID"); err != nil {
		return nil, err
	}
	return s.getHistoricalByFilterTx(ctx, s.db, customerID, service.HistoryFilter{})
}

// GetHistoricalByFilter returns a customer's history narrowed by the filter.
func (s *SQLiteStore) GetHistoricalByFilter(ctx context.Context, customerID string, filter service.HistoryFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(customerID, "customerID"); err != nil {
		return nil, err
	}
	return s.getHistoricalByFilterTx(ctx, s.db, customerID, filter)
}

func (s *SQLiteStore) getHistoricalByFilterTx(ctx context.Context, q dbtx, customerID string, filter service.HistoryFilter) ([]model.Transaction, error) {
	query := `
		SELECT id, hash, customer_id, account, amount, date
		FROM historical_transactions
		WHERE customer_id = ?
	`
	args := []any{customerID}

	if filter.Account != "" {
		query += " AND account = ?"
		args = append(args, filter.Account)
	}
	if filter.StartDate != nil {
		query += " AND date >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND date <= ?"
		args = append(args, *filter.EndDate)
	}

	query += " ORDER BY date, id"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query historical transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	transactions := make([]model.Transaction, 0)
	for rows.Next() {
		var txn model.Transaction
		var date sql.NullTime

		if err := rows.Scan(
			&txn.ID,
			&txn.Hash,
			&txn.CustomerID,
			&txn.Account,
			&txn.Amount,
			&date,
		); err != nil {
			return nil, fmt.Errorf("failed to scan historical transaction: %w", err)
		}

		if date.Valid {
			txn.Date = date.Time
		}
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate historical transactions: %w", err)
	}
	return transactions, nil
}

// CountHistoricalTransactions reports the total size of the historical ledger.
func (s *SQLiteStore) CountHistoricalTransactions(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return countRows(ctx, s.db, "historical_transactions")
}

func countRows(ctx context.Context, q dbtx, table string) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
