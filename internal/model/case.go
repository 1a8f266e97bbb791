package model

// Case holds the structured identifiers extracted from a free-text case file.
// Single-value fields default to "N/A" when the file omits them; multi-value
// fields default to empty slices.
type Case struct {
	CaseID        string
	CustomerName  string
	CustomerID    string
	Accounts      []string
	Transactions  []string
	PreviousCases []string
}

// HasCustomerID reports whether the case carries a usable customer identifier.
func (c *Case) HasCustomerID() bool {
	return c.CustomerID != "" && c.CustomerID != "N/A"
}

// HasCustomerName reports whether the case carries a usable customer name.
func (c *Case) HasCustomerName() bool {
	return c.CustomerName != "" && c.CustomerName != "N/A"
}

// LedgerStats summarizes the customer's current-ledger records for one case.
type LedgerStats struct {
	TotalRecords      int
	UniqueAccounts    int
	UniqueLocations   int
	UniqueEmployers   int
	UniqueOccupations int
	TotalAmount       float64
	AvgAmount         float64
	MinAge            int
	MaxAge            int
}

// HistoryStats summarizes the customer's full historical transaction series.
type HistoryStats struct {
	TotalTransactions int
	UniqueAccounts    int
	MonthsCovered     int
	TotalAmount       float64
	AvgAmount         float64
	MedianAmount      float64
	MinAmount         float64
	MaxAmount         float64
	StdDeviation      float64
	AvgMonthlyAmount  float64
}
