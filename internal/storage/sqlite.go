package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fraudlens/fraudlens/internal/model"
	"github.com/fraudlens/fraudlens/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements the RecordStore interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Validate input
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStore) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{
		tx:    tx,
		store: s,
	}, nil
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx    *sql.Tx
	store *SQLiteStore
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

// Transaction methods delegate to the main store with the transaction.
func (t *sqliteTransaction) SaveCurrentRecords(ctx context.Context, records []model.CurrentRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCurrentRecords(records); err != nil {
		return err
	}
	return t.store.saveCurrentRecordsTx(ctx, t.tx, records)
}

func (t *sqliteTransaction) GetCurrentRecords(ctx context.Context, customerID string) ([]model.CurrentRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(customerID, "customerID"); err != nil {
		return nil, err
	}
	return t.store.getCurrentRecordsTx(ctx, t.tx, customerID)
}

func (t *sqliteTransaction) GetCurrentRecordsByName(ctx context.Context, customerName string) ([]model.CurrentRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(customerName, "customerName"); err != nil {
		return nil, err
	}
	return t.store.getCurrentRecordsByNameTx(ctx, t.tx, customerName)
}

func (t *sqliteTransaction) CountCurrentRecords(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return countRows(ctx, t.tx, "current_records")
}

func (t *sqliteTransaction) SaveHistoricalTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}
	return t.store.saveHistoricalTransactionsTx(ctx, t.tx, transactions)
}

func (t *sqliteTransaction) GetHistoricalTransactions(ctx context.Context, customerID string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(customerID, "customerID"); err != nil {
		return nil, err
	}
	return t.store.getHistoricalByFilterTx(ctx, t.tx, customerID, service.HistoryFilter{})
}

func (t *sqliteTransaction) GetHistoricalByFilter(ctx context.Context, customerID string, filter service.HistoryFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(customerID, "customerID"); err != nil {
		return nil, err
	}
	return t.store.getHistoricalByFilterTx(ctx, t.tx, customerID, filter)
}

func (t *sqliteTransaction) CountHistoricalTransactions(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return countRows(ctx, t.tx, "historical_transactions")
}

func (t *sqliteTransaction) SaveAnalysisRun(ctx context.Context, run *model.AnalysisRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAnalysisRun(run); err != nil {
		return err
	}
	return t.store.saveAnalysisRunTx(ctx, t.tx, run)
}

func (t *sqliteTransaction) ListAnalysisRuns(ctx context.Context, customerID string) ([]model.AnalysisRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.store.listAnalysisRunsTx(ctx, t.tx, customerID)
}

func (t *sqliteTransaction) Migrate(_ context.Context) error {
	return fmt.Errorf("migrate cannot run inside a transaction")
}

func (t *sqliteTransaction) BeginTx(_ context.Context) (service.Transaction, error) {
	return nil, fmt.Errorf("nested transactions are not supported")
}

func (t *sqliteTransaction) Close() error {
	return fmt.Errorf("cannot close store from within a transaction")
}
