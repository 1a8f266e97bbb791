package model

// RiskLevel classifies how far a transaction sits from the customer's
// established behavior.
type RiskLevel string

const (
	// RiskLow indicates behavior consistent with history.
	RiskLow RiskLevel = "low"
	// RiskMedium indicates a notable deviation from history.
	RiskMedium RiskLevel = "medium"
	// RiskHigh indicates an extreme deviation from history.
	RiskHigh RiskLevel = "high"
)

// HistoricalStats holds the descriptive statistics of one account's
// historical amount series. Computed fresh for every comparison call.
type HistoricalStats struct {
	Mean   float64
	StdDev float64
	Median float64
	Min    float64
	Max    float64
	Q1     float64
	Q3     float64
	Count  int
}

// ComparisonFlags are the independent threshold indicators attached to a
// comparison result.
type ComparisonFlags struct {
	IsOutlier           bool
	ExtremeOutlier      bool
	SignificantlyHigher bool
	SignificantlyLower  bool
	WithinNormalRange   bool
	Above95thPercentile bool
	Below5thPercentile  bool
}

// ComparisonResult captures the statistical comparison of one current
// transaction against the same account's history. Immutable once created.
type ComparisonResult struct {
	TransactionID       string
	Account             string
	CurrentAmount       float64
	HistoricalStats     HistoricalStats
	DeviationFromMean   float64
	ZScore              float64
	PercentageDeviation float64
	PercentileRank      float64
	RiskLevel           RiskLevel
	RiskScore           int
	RiskReasons         []string
	Flags               ComparisonFlags
}

// ComparisonSummary aggregates all comparison results for one case.
type ComparisonSummary struct {
	TransactionsCompared int
	TotalRiskScore       int
	AverageZScore        float64
	MaximumZScore        float64
	HighRisk             int
	MediumRisk           int
	LowRisk              int
	Outliers             int
	ExtremeOutliers      int
	Above95thPercentile  int
	Below5thPercentile   int
}

// ComparisonAnalysis is the comparison engine's full output for one case.
// Possible == false is a normal outcome, not an error; Reason explains why
// no comparison set could be produced.
type ComparisonAnalysis struct {
	Possible        bool
	Reason          string
	CurrentFound    int
	HistoricalFound int
	Results         []ComparisonResult
	Summary         *ComparisonSummary
}
