// Package model defines the core domain types shared across the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single historical ledger entry for a customer.
// Historical transactions are read-only facts once loaded.
type Transaction struct {
	Date       time.Time
	ID         string
	CustomerID string
	Account    string
	Hash       string
	Amount     float64
}

// HasDate reports whether the transaction carries a usable date.
func (t *Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// MonthKey returns the YYYY-MM bucket used for temporal grouping, or ""
// when the transaction has no date.
func (t *Transaction) MonthKey() string {
	if !t.HasDate() {
		return ""
	}
	return t.Date.Format("2006-01")
}

// GenerateHash creates a unique hash for duplicate detection on import.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%.2f:%s",
		t.CustomerID,
		t.Account,
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.ID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// CurrentRecord is one row from the primary customer ledger: the current
// transaction under investigation plus the customer attributes the ledger
// carries alongside it. The field set is fixed; optional attributes are
// explicit fields, never an open-ended map.
type CurrentRecord struct {
	CustomerID    string
	Name          string
	Account       string
	TransactionID string
	Employer      string
	Location      string
	Occupation    string
	Amount        float64
	Age           int
}

// Transaction converts the ledger row into the transaction that the
// comparison engine analyzes.
func (r *CurrentRecord) Transaction() Transaction {
	return Transaction{
		ID:         r.TransactionID,
		CustomerID: r.CustomerID,
		Account:    r.Account,
		Amount:     r.Amount,
	}
}
