// Package report renders a completed case analysis: the full text report
// written to disk and the styled summary printed to the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/fraudlens/fraudlens/internal/model"
)

// RiskLevel maps a suspicion score to its classification label.
func RiskLevel(score float64) string {
	switch {
	case score >= 80:
		return "CRITICAL RISK"
	case score >= 60:
		return "HIGH RISK"
	case score >= 40:
		return "MEDIUM RISK"
	case score >= 20:
		return "LOW-MEDIUM RISK"
	default:
		return "LOW RISK"
	}
}

// Formatter renders the full plain-text case report.
type Formatter struct{}

// NewFormatter creates a report formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format renders the complete report for one analysis run.
func (f *Formatter) Format(r *model.CaseReport) string {
	var b strings.Builder
	score := r.Metrics.RiskScore
	level := RiskLevel(score)

	rule := strings.Repeat("=", 70)

	// Header
	b.WriteString(rule + "\n")
	b.WriteString("COMPREHENSIVE CASE ANALYSIS REPORT\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Report Generated: %s\n", r.GeneratedAt.Format("January 2, 2006 at 3:04 PM"))
	fmt.Fprintf(&b, "Case ID: %s\n", r.Case.CaseID)
	fmt.Fprintf(&b, "Customer: %s\n", r.Case.CustomerName)
	fmt.Fprintf(&b, "Run ID: %s\n\n", r.RunID)

	f.writeDataAnalyzed(&b, r)
	f.writeCaseDescription(&b, r)
	f.writeSuspicionScore(&b, r, score, level)
	f.writeNarrative(&b, r, score)
	f.writeRecommendations(&b, score)
	f.writeConclusion(&b, r, score)

	// Footer
	b.WriteString(rule + "\n")
	b.WriteString("END OF COMPREHENSIVE ANALYSIS REPORT\n")
	b.WriteString(rule + "\n")
	b.WriteString("This report combines current transaction data with the customer's\n")
	b.WriteString("historical behavioral patterns. For questions about this report,\n")
	b.WriteString("contact your compliance team or case analysis department.\n")
	fmt.Fprintf(&b, "Report ID: %s_%s\n", sanitizeID(r.Case.CaseID), r.GeneratedAt.Format("20060102_150405"))

	return b.String()
}

func (f *Formatter) writeDataAnalyzed(b *strings.Builder, r *model.CaseReport) {
	b.WriteString("1. DATA ANALYZED\n")
	b.WriteString(strings.Repeat("=", 35) + "\n")

	b.WriteString("Customer Information:\n")
	fmt.Fprintf(b, "  - Full Name: %s\n", r.Case.CustomerName)
	fmt.Fprintf(b, "  - Customer ID: %s\n", r.Case.CustomerID)
	fmt.Fprintf(b, "  - Number of Accounts Reviewed: %d\n", len(r.Case.Accounts))
	fmt.Fprintf(b, "  - Account Numbers: %s\n", joinOr(r.Case.Accounts, "N/A"))

	b.WriteString("\nCurrent Transaction Analysis:\n")
	fmt.Fprintf(b, "  - Customer Records Found: %d\n", r.Ledger.TotalRecords)
	fmt.Fprintf(b, "  - Current Transaction Value: %s\n", money(r.Ledger.TotalAmount))
	fmt.Fprintf(b, "  - Average Current Transaction: %s\n", money(r.Ledger.AvgAmount))
	fmt.Fprintf(b, "  - Unique Locations: %d\n", r.Ledger.UniqueLocations)
	fmt.Fprintf(b, "  - Unique Employers: %d\n", r.Ledger.UniqueEmployers)

	if r.History.TotalTransactions > 0 {
		b.WriteString("\nHistorical Transaction Analysis:\n")
		fmt.Fprintf(b, "  - Historical Transactions Available: %d\n", r.History.TotalTransactions)
		fmt.Fprintf(b, "  - Total Historical Value: %s\n", money(r.History.TotalAmount))
		fmt.Fprintf(b, "  - Average Historical Transaction: %s\n", money(r.History.AvgAmount))
		fmt.Fprintf(b, "  - Historical Data Period: %d months\n", r.History.MonthsCovered)
		fmt.Fprintf(b, "  - Historical Account Coverage: %d accounts\n", r.History.UniqueAccounts)
	}

	if len(r.Case.PreviousCases) > 0 {
		b.WriteString("\nRisk Factors Identified:\n")
		fmt.Fprintf(b, "  - Previous Cases on Record: %d\n", len(r.Case.PreviousCases))
		fmt.Fprintf(b, "  - Previous Case IDs: %s\n", strings.Join(r.Case.PreviousCases, ", "))
	}

	b.WriteString("\n")
}

func (f *Formatter) writeCaseDescription(b *strings.Builder, r *model.CaseReport) {
	b.WriteString("2. CASE DESCRIPTION\n")
	b.WriteString(strings.Repeat("=", 35) + "\n")

	fmt.Fprintf(b, "This analysis investigates the financial activities and transaction "+
		"patterns of %s (Customer ID: %s) under case reference %s. The investigation "+
		"reviews both current and historical transaction data to identify potential "+
		"risks, unusual patterns, and behavioral inconsistencies.\n\n",
		r.Case.CustomerName, r.Case.CustomerID, r.Case.CaseID)

	if r.Ledger.TotalRecords > 0 {
		fmt.Fprintf(b, "The analysis examined %d current customer record(s) with a combined "+
			"value of %s, including account usage, transaction locations, and employment "+
			"details.\n\n", r.Ledger.TotalRecords, money(r.Ledger.TotalAmount))
	}

	if r.History.TotalTransactions > 0 {
		fmt.Fprintf(b, "To establish a behavioral baseline, %d historical transactions "+
			"spanning %d months were analyzed, representing %s in total historical "+
			"activity.\n\n", r.History.TotalTransactions, r.History.MonthsCovered,
			money(r.History.TotalAmount))
	}

	if len(r.Case.PreviousCases) > 0 {
		fmt.Fprintf(b, "IMPORTANT NOTE: This customer has %d previous case(s) on record, "+
			"which significantly impacts the risk assessment.\n\n", len(r.Case.PreviousCases))
	}

	if r.Comparison.Possible && r.Comparison.Summary != nil {
		fmt.Fprintf(b, "The investigation methodology compared %d current transaction(s) "+
			"against established historical patterns to identify deviations from the "+
			"customer's normal behavior.\n", r.Comparison.Summary.TransactionsCompared)
	} else {
		fmt.Fprintf(b, "Historical comparison analysis could not be performed: %s. The "+
			"assessment relies on current transaction patterns and available customer "+
			"information.\n", r.Comparison.Reason)
	}

	b.WriteString("\nAnalysis Summary:\n")
	b.WriteString(r.Narrative.Description + "\n\n")
}

func (f *Formatter) writeSuspicionScore(b *strings.Builder, r *model.CaseReport, score float64, level string) {
	b.WriteString("3. SUSPICION SCORE\n")
	b.WriteString(strings.Repeat("=", 30) + "\n")
	fmt.Fprintf(b, "Overall Risk Assessment: %.0f out of 100\n", score)
	fmt.Fprintf(b, "Risk Classification: %s\n\n", level)

	b.WriteString("Risk Score Components:\n")
	for _, component := range riskBreakdown(r, score) {
		fmt.Fprintf(b, "  - %s\n", component)
	}
	b.WriteString("\n")

	b.WriteString("Risk Level Guide:\n")
	b.WriteString("- 0-20:   Low Risk - Continue routine monitoring\n")
	b.WriteString("- 21-40:  Low-Medium Risk - Regular review recommended\n")
	b.WriteString("- 41-60:  Medium Risk - Enhanced monitoring required\n")
	b.WriteString("- 61-80:  High Risk - Immediate attention and investigation needed\n")
	b.WriteString("- 81-100: Critical Risk - Urgent escalation and immediate action required\n\n")

	if findings := KeyFindings(r); len(findings) > 0 {
		b.WriteString("Key Findings:\n")
		for _, finding := range findings {
			fmt.Fprintf(b, "  - %s\n", finding)
		}
		b.WriteString("\n")
	}
}

func (f *Formatter) writeNarrative(b *strings.Builder, r *model.CaseReport, score float64) {
	b.WriteString("4. DETAILED NARRATIVE\n")
	b.WriteString(strings.Repeat("=", 35) + "\n")

	b.WriteString("INVESTIGATION OVERVIEW:\n")
	fmt.Fprintf(b, "The investigation of %s combined statistical comparison against "+
		"historical behavior with anomaly detection across the customer's full "+
		"transaction history.\n\n", r.Case.CustomerName)

	b.WriteString("DETAILED ANALYSIS RESULTS:\n")
	b.WriteString(r.Narrative.Text + "\n\n")

	if r.Comparison.Possible && r.Comparison.Summary != nil {
		s := r.Comparison.Summary
		b.WriteString("TRANSACTION PATTERN ANALYSIS:\n")
		fmt.Fprintf(b, "A behavioral baseline was established from %d historical "+
			"transactions; %d current transaction(s) were analyzed for consistency "+
			"with established patterns.\n\n", r.History.TotalTransactions, s.TransactionsCompared)

		if s.HighRisk > 0 {
			fmt.Fprintf(b, "CRITICAL FINDING: %d transaction(s) demonstrated significant "+
				"deviations from the customer's normal behavior patterns and warrant "+
				"immediate investigation.\n\n", s.HighRisk)
		}
		if s.MediumRisk > 0 {
			fmt.Fprintf(b, "MODERATE CONCERN: %d transaction(s) showed patterns that differ "+
				"from normal behavior but may have legitimate explanations. These require "+
				"enhanced monitoring.\n\n", s.MediumRisk)
		}
	}

	b.WriteString("RISK ASSESSMENT RATIONALE:\n")
	switch {
	case score >= 80:
		fmt.Fprintf(b, "The critical risk score of %.0f/100 indicates multiple severe risk "+
			"factors requiring immediate intervention.\n\n", score)
	case score >= 60:
		fmt.Fprintf(b, "The high risk score of %.0f/100 reflects significant concerns that "+
			"require prompt attention and enhanced monitoring.\n\n", score)
	case score >= 40:
		fmt.Fprintf(b, "The medium risk score of %.0f/100 indicates areas of concern that "+
			"should be monitored closely.\n\n", score)
	default:
		fmt.Fprintf(b, "The low risk score of %.0f/100 suggests current activity is largely "+
			"consistent with normal patterns. Routine monitoring remains important.\n\n", score)
	}

	if len(r.Case.PreviousCases) > 0 {
		b.WriteString("HISTORICAL CONTEXT:\n")
		fmt.Fprintf(b, "This customer's %d previous case(s) significantly impact the current "+
			"risk assessment and require enhanced scrutiny.\n\n", len(r.Case.PreviousCases))
	}
}

func (f *Formatter) writeRecommendations(b *strings.Builder, score float64) {
	b.WriteString("RECOMMENDATIONS AND NEXT STEPS:\n")
	for _, rec := range Recommendations(score) {
		fmt.Fprintf(b, "- %s\n", rec)
	}
	b.WriteString("\n")
}

func (f *Formatter) writeConclusion(b *strings.Builder, r *model.CaseReport, score float64) {
	b.WriteString("CONCLUSION:\n")
	fmt.Fprintf(b, "Based on the analysis of %s's financial activity, a risk score of "+
		"%.0f/100 was assigned. ", r.Case.CustomerName, score)

	switch {
	case score >= 80:
		b.WriteString("This critical risk level indicates immediate action is required.")
	case score >= 60:
		b.WriteString("This high risk level requires enhanced monitoring and prompt investigation.")
	case score >= 40:
		b.WriteString("This medium risk level suggests the need for increased attention and monitoring.")
	default:
		b.WriteString("This low risk level indicates that current activities appear normal, but continued routine monitoring is important.")
	}
	b.WriteString("\n")

	if findings := KeyFindings(r); len(findings) > 0 {
		limit := len(findings)
		if limit > 3 {
			limit = 3
		}
		fmt.Fprintf(b, "\nThe most significant findings of this investigation include: %s.\n",
			strings.Join(findings[:limit], "; "))
	}
	b.WriteString("\n")
}

// KeyFindings extracts the headline findings used in the score section and
// the conclusion.
func KeyFindings(r *model.CaseReport) []string {
	var findings []string

	if n := len(r.Case.PreviousCases); n > 0 {
		findings = append(findings, fmt.Sprintf("Customer has %d previous case(s) on record, indicating recurring risk factors", n))
	}

	if r.Comparison.Possible && r.Comparison.Summary != nil {
		s := r.Comparison.Summary
		if s.HighRisk > 0 {
			findings = append(findings, fmt.Sprintf("Found %d transaction(s) with significantly unusual amounts compared to customer history", s.HighRisk))
		}
		if s.ExtremeOutliers > 0 {
			findings = append(findings, fmt.Sprintf("Identified %d transaction(s) with extreme deviations from normal patterns", s.ExtremeOutliers))
		}
	}

	high, _ := r.Anomalies.SeverityCounts()
	if high > 0 {
		findings = append(findings, fmt.Sprintf("Detected %d high-severity anomaly pattern(s) requiring investigation", high))
	}

	return findings
}

// Recommendations returns the action list for a given suspicion score.
func Recommendations(score float64) []string {
	switch {
	case score >= 80:
		return []string{
			"IMMEDIATE ACTION REQUIRED: Escalate this case to senior management and compliance leadership within 24 hours",
			"URGENT: Contact fraud investigation team and consider freezing relevant accounts pending investigation",
			"REGULATORY COMPLIANCE: Prepare documentation for potential Suspicious Activity Report (SAR) filing",
		}
	case score >= 60:
		return []string{
			"HIGH PRIORITY: Schedule comprehensive case review with senior analyst within 48 hours",
			"ENHANCED MONITORING: Implement daily transaction monitoring with automated alerts",
			"CUSTOMER VERIFICATION: Consider contacting customer to verify recent transaction activity",
		}
	case score >= 40:
		return []string{
			"MODERATE PRIORITY: Schedule detailed case review within 7-14 days",
			"MONITORING ENHANCEMENT: Implement weekly monitoring protocols with pattern analysis",
		}
	default:
		return []string{
			"STANDARD MONITORING: Continue routine monitoring protocols as per normal procedures",
		}
	}
}

func riskBreakdown(r *model.CaseReport, score float64) []string {
	var breakdown []string

	if n := len(r.Case.PreviousCases); n > 0 {
		breakdown = append(breakdown, fmt.Sprintf("Previous Case History: %d previous case(s) contribute to elevated risk", n))
	}

	if r.Comparison.Possible && r.Comparison.Summary != nil && r.Comparison.Summary.TotalRiskScore > 0 {
		breakdown = append(breakdown, fmt.Sprintf("Transaction Pattern Deviation: Comparison analysis indicates %d%% risk level", r.Comparison.Summary.TotalRiskScore))
	}

	if n := len(r.Anomalies.Detected); n > 0 {
		breakdown = append(breakdown, fmt.Sprintf("Behavioral Anomalies: %d unusual pattern(s) detected", n))
	}

	switch {
	case score >= 60:
		breakdown = append(breakdown, "Overall Assessment: Multiple risk factors combine to create significant concern")
	case score >= 40:
		breakdown = append(breakdown, "Overall Assessment: Moderate risk factors require enhanced monitoring")
	default:
		breakdown = append(breakdown, "Overall Assessment: Limited risk factors identified")
	}

	return breakdown
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

func sanitizeID(id string) string {
	return strings.ReplaceAll(id, " ", "_")
}

func money(amount float64) string {
	return model.FormatAmount(amount)
}
