// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/fraudlens/fraudlens/internal/model"
)

// HistoryFilter defines filtering options for historical transaction queries.
type HistoryFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Account   string
	Limit     int
}

// RecordStore defines the contract for the persistence layer: the customer
// ledger of current records under review and the historical transaction
// series they are compared against.
type RecordStore interface {
	// Current ledger operations
	SaveCurrentRecords(ctx context.Context, records []model.CurrentRecord) error
	GetCurrentRecords(ctx context.Context, customerID string) ([]model.CurrentRecord, error)
	GetCurrentRecordsByName(ctx context.Context, customerName string) ([]model.CurrentRecord, error)
	CountCurrentRecords(ctx context.Context) (int, error)

	// Historical transaction operations
	SaveHistoricalTransactions(ctx context.Context, transactions []model.Transaction) error
	GetHistoricalTransactions(ctx context.Context, customerID string) ([]model.Transaction, error)
	GetHistoricalByFilter(ctx context.Context, customerID string, filter HistoryFilter) ([]model.Transaction, error)
	CountHistoricalTransactions(ctx context.Context) (int, error)

	// Analysis run history
	SaveAnalysisRun(ctx context.Context, run *model.AnalysisRun) error
	ListAnalysisRuns(ctx context.Context, customerID string) ([]model.AnalysisRun, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all RecordStore methods for use within transaction
	RecordStore
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
