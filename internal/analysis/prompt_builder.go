package analysis

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/fraudlens/fraudlens/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// TemplatePromptBuilder renders the prompts sent to the narrative generator
// from embedded templates.
type TemplatePromptBuilder struct {
	templates map[string]*template.Template
}

// NewTemplatePromptBuilder creates a new TemplatePromptBuilder with loaded templates.
func NewTemplatePromptBuilder() (*TemplatePromptBuilder, error) {
	pb := &TemplatePromptBuilder{
		templates: make(map[string]*template.Template),
	}

	funcMap := template.FuncMap{
		"formatAmount":     formatAmount,
		"formatDate":       formatDate,
		"upper":            strings.ToUpper,
		"yesno":            yesno,
		"joinOr":           joinOr,
		"add":              func(a, b int) int { return a + b },
		"sub":              func(a, b int) int { return a - b },
		"limitComparisons": limitComparisons,
		"limitAnomalies":   limitAnomalies,
	}

	templates := []string{
		"system_prompt",
		"analysis_prompt",
	}

	for _, name := range templates {
		filename := fmt.Sprintf("templates/%s.tmpl", name)
		tmpl, err := template.New(fmt.Sprintf("%s.tmpl", name)).Funcs(funcMap).ParseFS(templateFS, filename)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pb.templates[name] = tmpl
	}

	return pb, nil
}

// PromptData contains everything the analysis prompt renders. Comparisons,
// anomalies and the history sample are truncated inside the template so the
// prompt stays bounded no matter how large the case is.
type PromptData struct {
	Case          model.Case
	Ledger        model.LedgerStats
	History       model.HistoryStats
	HistorySample []model.Transaction
	HistoryTotal  int
	Comparison    model.ComparisonAnalysis
	Anomalies     model.AnomalyAnalysis
	Metrics       model.CompositeMetrics
}

// BuildSystemPrompt renders the analyst persona and response contract.
func (pb *TemplatePromptBuilder) BuildSystemPrompt() (string, error) {
	var buf bytes.Buffer
	if err := pb.templates["system_prompt"].ExecuteTemplate(&buf, "system_prompt.tmpl", nil); err != nil {
		return "", fmt.Errorf("failed to execute system_prompt template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// BuildAnalysisPrompt renders the full case summary sent as the user prompt.
func (pb *TemplatePromptBuilder) BuildAnalysisPrompt(data PromptData) (string, error) {
	var buf bytes.Buffer
	if err := pb.templates["analysis_prompt"].ExecuteTemplate(&buf, "analysis_prompt.tmpl", data); err != nil {
		return "", fmt.Errorf("failed to execute analysis_prompt template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Template helper functions

func formatAmount(amount float64) string {
	return model.FormatAmount(amount)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format("2006-01-02")
}

func yesno(v bool) string {
	if v {
		return "YES"
	}
	return "NO"
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

func limitComparisons(results []model.ComparisonResult, n int) []model.ComparisonResult {
	if len(results) <= n {
		return results
	}
	return results[:n]
}

func limitAnomalies(findings []model.Anomaly, n int) []model.Anomaly {
	if len(findings) <= n {
		return findings
	}
	return findings[:n]
}
