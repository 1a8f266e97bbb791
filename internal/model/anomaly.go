package model

// AnomalyType identifies which sub-analysis produced a finding.
type AnomalyType string

const (
	// AnomalyStatisticalOutlier flags a single amount far from the global mean.
	AnomalyStatisticalOutlier AnomalyType = "statistical_outlier"
	// AnomalyTemporal flags a calendar month whose total breaks the monthly pattern.
	AnomalyTemporal AnomalyType = "temporal_anomaly"
	// AnomalyFrequency flags a calendar month with an unusual transaction count.
	AnomalyFrequency AnomalyType = "frequency_anomaly"
	// AnomalyAccountVolatility flags an account with a high coefficient of variation.
	AnomalyAccountVolatility AnomalyType = "account_volatility"
	// AnomalyRoundNumberBias flags a series dominated by round amounts.
	AnomalyRoundNumberBias AnomalyType = "round_number_bias"
)

// Severity grades how strongly a finding deviates from the norm.
type Severity string

const (
	// SeverityLow marks a marginal finding.
	SeverityLow Severity = "low"
	// SeverityMedium marks a notable finding.
	SeverityMedium Severity = "medium"
	// SeverityHigh marks a finding well beyond the configured thresholds.
	SeverityHigh Severity = "high"
)

// Anomaly is one finding from the anomaly detector, carrying the concrete
// numeric evidence behind the classification. Only the fields relevant to
// the finding's type are populated.
type Anomaly struct {
	Type            AnomalyType
	Severity        Severity
	Description     string
	DetectionMethod string

	// Evidence. ZScore for statistical/temporal/frequency findings,
	// Month for the monthly groupings, Account/Volatility for account
	// findings, RoundRatio/RoundCount for amount-pattern findings.
	TransactionID string
	Account       string
	Month         string
	Amount        float64
	ZScore        float64
	Frequency     int
	MeanAmount    float64
	StdDev        float64
	Volatility    float64
	RoundRatio    float64
	RoundCount    int
	TotalCount    int
}

// AnomalyAnalysis is the detector's full output for one historical series.
// Detected holds per-transaction statistical outliers; Indicators holds the
// pattern-level findings (temporal, frequency, volatility, round-number).
type AnomalyAnalysis struct {
	Detected   []Anomaly
	Indicators []Anomaly
	Total      int
}

// SeverityCounts pools severities across both finding groups.
func (a *AnomalyAnalysis) SeverityCounts() (high, medium int) {
	for _, groups := range [][]Anomaly{a.Detected, a.Indicators} {
		for _, finding := range groups {
			switch finding.Severity {
			case SeverityHigh:
				high++
			case SeverityMedium:
				medium++
			case SeverityLow:
			}
		}
	}
	return high, medium
}
