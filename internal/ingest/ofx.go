package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/fraudlens/fraudlens/internal/model"
	"github.com/fraudlens/fraudlens/internal/service"
)

// OFXImporter loads bank statement exports (OFX/QFX) into a customer's
// historical transaction series. Statement files carry no customer
// identifier, so the caller supplies one.
type OFXImporter struct {
	store service.RecordStore
}

// NewOFXImporter creates an OFX importer writing into the given store.
func NewOFXImporter(store service.RecordStore) *OFXImporter {
	return &OFXImporter{store: store}
}

// ImportStatement parses an OFX/QFX statement and stores its transactions
// as history for the given customer.
func (i *OFXImporter) ImportStatement(ctx context.Context, r io.Reader, customerID string) (*ImportStats, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, fmt.Errorf("customer ID is required for statement import")
	}

	transactions, err := i.Parse(r, customerID)
	if err != nil {
		return nil, err
	}

	stats := &ImportStats{}
	if len(transactions) > 0 {
		if err := i.store.SaveHistoricalTransactions(ctx, transactions); err != nil {
			return nil, fmt.Errorf("saving statement transactions: %w", err)
		}
	}
	stats.Imported = len(transactions)

	slog.Info("Statement import complete",
		"customer_id", customerID,
		"imported", stats.Imported)
	return stats, nil
}

// Parse converts an OFX/QFX statement into historical transactions without
// persisting them.
func (i *OFXImporter) Parse(r io.Reader, customerID string) ([]model.Transaction, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		account := string(stmt.BankAcctFrom.AcctID)
		for _, ofxTx := range stmt.BankTranList.Transactions {
			transactions = append(transactions, convertOFXTransaction(ofxTx, customerID, account))
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		account := string(stmt.CCAcctFrom.AcctID)
		for _, ofxTx := range stmt.BankTranList.Transactions {
			transactions = append(transactions, convertOFXTransaction(ofxTx, customerID, account))
		}
	}

	slog.Info("Parsed OFX statement",
		"customer_id", customerID,
		"total_transactions", len(transactions))

	return transactions, nil
}

// convertOFXTransaction maps one OFX entry to a historical transaction.
// OFX uses negative amounts for debits; the analysis works on magnitudes.
func convertOFXTransaction(ofxTx ofxgo.Transaction, customerID, account string) model.Transaction {
	amount, _ := ofxTx.TrnAmt.Float64()
	if amount < 0 {
		amount = -amount
	}

	txn := model.Transaction{
		ID:         string(ofxTx.FiTID),
		CustomerID: customerID,
		Account:    account,
		Amount:     amount,
		Date:       ofxTx.DtPosted.Time,
	}
	txn.Hash = txn.GenerateHash()
	return txn
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes common formatting issues in real-world OFX files:
// leading whitespace before the header, mixed-case SEVERITY values, and
// SGML-style opening tags missing their closing bracket.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = tagFixRegex.ReplaceAllString(content, "$1>")
	return content
}
