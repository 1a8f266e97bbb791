// Package storage provides the data persistence layer: the current customer
// ledger, the historical transaction series, and the analysis run history.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fraudlens/fraudlens/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidRecord      = errors.New("invalid current record")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidRun         = errors.New("invalid analysis run")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateCurrentRecords validates a slice of ledger rows.
func validateCurrentRecords(records []model.CurrentRecord) error {
	if records == nil {
		return fmt.Errorf("%w: records", ErrNilParameter)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: records", ErrEmptySlice)
	}

	for i, record := range records {
		if err := validateCurrentRecord(&record); err != nil {
			return fmt.Errorf("record at index %d: %w", i, err)
		}
	}
	return nil
}

// validateCurrentRecord validates a single ledger row. The descriptive
// attributes (employer, location, occupation, age) are optional.
func validateCurrentRecord(record *model.CurrentRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if strings.TrimSpace(record.CustomerID) == "" {
		return fmt.Errorf("%w: missing customer ID", ErrInvalidRecord)
	}
	if strings.TrimSpace(record.TransactionID) == "" {
		return fmt.Errorf("%w: missing transaction ID", ErrInvalidRecord)
	}
	if strings.TrimSpace(record.Account) == "" {
		return fmt.Errorf("%w: missing account", ErrInvalidRecord)
	}
	return nil
}

// validateTransactions validates a slice of historical transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i, txn := range transactions {
		if err := validateTransaction(&txn); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single historical transaction. The date
// is optional: undated entries are excluded from temporal analysis only.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.CustomerID == "" {
		return fmt.Errorf("%w: missing customer ID", ErrInvalidTransaction)
	}
	if txn.Account == "" {
		return fmt.Errorf("%w: missing account", ErrInvalidTransaction)
	}
	return nil
}

// validateAnalysisRun validates a run summary before persisting it.
func validateAnalysisRun(run *model.AnalysisRun) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if strings.TrimSpace(run.RunID) == "" {
		return fmt.Errorf("%w: missing run ID", ErrInvalidRun)
	}
	if strings.TrimSpace(run.CustomerID) == "" {
		return fmt.Errorf("%w: missing customer ID", ErrInvalidRun)
	}
	if run.RiskScore < 0 || run.RiskScore > 100 {
		return fmt.Errorf("%w: risk score must be between 0 and 100", ErrInvalidRun)
	}
	return nil
}
