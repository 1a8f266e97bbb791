// Package analysis orchestrates a full case assessment: gathering the
// customer's current and historical transactions, running the statistical
// comparison and anomaly detection, and producing the final case report.
package analysis

import (
	"context"
	"fmt"

	"github.com/fraudlens/fraudlens/internal/model"
	"github.com/fraudlens/fraudlens/internal/service"
)

// Comparer measures current transactions against the same accounts' history.
type Comparer interface {
	Compare(current, historical []model.Transaction) model.ComparisonAnalysis
}

// Detector scans the historical series for behavioral anomalies.
type Detector interface {
	Detect(historical []model.Transaction) model.AnomalyAnalysis
}

// NarrativeGenerator produces the report narrative from the built prompts.
type NarrativeGenerator interface {
	GenerateNarrative(ctx context.Context, systemPrompt, userPrompt string) (model.Narrative, error)
}

// PromptBuilder constructs the prompts for narrative generation.
type PromptBuilder interface {
	BuildSystemPrompt() (string, error)
	BuildAnalysisPrompt(data PromptData) (string, error)
}

// Deps contains all dependencies required by the analysis engine.
type Deps struct {
	// Storage provides access to the persistence layer.
	Storage service.RecordStore
	// Comparer runs the current-vs-historical statistical comparison.
	Comparer Comparer
	// Detector runs anomaly detection over the historical series.
	Detector Detector
	// Generator produces the case narrative. Optional: without it the
	// report carries only the deterministic assessment.
	Generator NarrativeGenerator
	// PromptBuilder constructs prompts for the generator.
	PromptBuilder PromptBuilder
}

// Validate ensures all required dependencies are provided.
func (d *Deps) Validate() error {
	if d.Storage == nil {
		return fmt.Errorf("storage dependency is required")
	}
	if d.Comparer == nil {
		return fmt.Errorf("comparer dependency is required")
	}
	if d.Detector == nil {
		return fmt.Errorf("detector dependency is required")
	}
	if d.Generator != nil && d.PromptBuilder == nil {
		return fmt.Errorf("prompt builder dependency is required when a generator is configured")
	}
	return nil
}

// Engine runs case assessments.
type Engine struct {
	deps Deps
}

// NewEngine creates a new analysis engine with the provided dependencies.
func NewEngine(deps Deps) (*Engine, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}
	return &Engine{
		deps: deps,
	}, nil
}
