package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fraudlens/fraudlens/internal/cli"
	"github.com/fraudlens/fraudlens/internal/model"
)

// Styles contains the styling definitions for the terminal summary.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Subtle   lipgloss.Style

	Box      lipgloss.Style
	Score    lipgloss.Style
	Critical lipgloss.Style
	High     lipgloss.Style
	Medium   lipgloss.Style
	Low      lipgloss.Style
}

// NewStyles creates a Styles instance with default styling.
func NewStyles() *Styles {
	s := &Styles{
		Title:    cli.TitleStyle,
		Subtitle: cli.SubtitleStyle,
		Success:  cli.SuccessStyle,
		Warning:  cli.WarningStyle,
		Error:    cli.ErrorStyle,
		Info:     cli.InfoStyle,
		Subtle:   cli.SubtleStyle,
	}

	s.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.SubtleColor).
		Padding(0, 1)

	s.Score = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.PrimaryColor)

	s.Critical = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.ErrorColor).
		Background(lipgloss.Color("#2D0000"))

	s.High = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.WarningColor)

	s.Medium = lipgloss.NewStyle().
		Foreground(cli.InfoColor)

	s.Low = lipgloss.NewStyle().
		Foreground(cli.SubtleColor)

	return s
}

// ForScore returns the style matching a suspicion score.
func (s *Styles) ForScore(score float64) lipgloss.Style {
	switch {
	case score >= 80:
		return s.Critical
	case score >= 60:
		return s.High
	case score >= 40:
		return s.Medium
	default:
		return s.Low
	}
}

// RenderSummary renders the post-run terminal summary for a case report.
func (s *Styles) RenderSummary(r *model.CaseReport) string {
	var b strings.Builder

	b.WriteString(cli.FormatTitle("Case Analysis Summary") + "\n\n")

	var lines []string
	lines = append(lines,
		fmt.Sprintf("Case ID:     %s", r.Case.CaseID),
		fmt.Sprintf("Customer:    %s (ID: %s)", r.Case.CustomerName, r.Case.CustomerID),
		fmt.Sprintf("Risk Score:  %s", s.ForScore(r.Metrics.RiskScore).Render(fmt.Sprintf("%.1f/100", r.Metrics.RiskScore))),
		fmt.Sprintf("Risk Level:  %s", s.ForScore(r.Metrics.RiskScore).Render(RiskLevel(r.Metrics.RiskScore))),
		fmt.Sprintf("Duration:    %s", r.Duration().Round(time.Millisecond)),
	)
	b.WriteString(s.Box.Render(strings.Join(lines, "\n")) + "\n\n")

	if r.Comparison.Possible && r.Comparison.Summary != nil {
		cs := r.Comparison.Summary
		compLines := []string{
			s.Subtitle.Render("Transaction Comparison"),
			fmt.Sprintf("Transactions Compared:  %d", cs.TransactionsCompared),
			fmt.Sprintf("High Risk:              %d", cs.HighRisk),
			fmt.Sprintf("Statistical Outliers:   %d", cs.Outliers),
			fmt.Sprintf("Comparison Risk Score:  %d/100", cs.TotalRiskScore),
			fmt.Sprintf("Max Z-Score Deviation:  %.2f", cs.MaximumZScore),
		}
		b.WriteString(s.Box.Render(strings.Join(compLines, "\n")) + "\n\n")
	} else {
		b.WriteString(cli.FormatWarning(fmt.Sprintf("Comparison not possible: %s", r.Comparison.Reason)) + "\n\n")
	}

	high, medium := r.Anomalies.SeverityCounts()
	b.WriteString(fmt.Sprintf("Anomalies: %d total (%d high, %d medium severity)\n",
		r.Anomalies.Total, high, medium))

	if len(r.Errors) > 0 {
		b.WriteString("\n")
		for _, msg := range r.Errors {
			b.WriteString(cli.FormatWarning(msg) + "\n")
		}
	}

	return b.String()
}
