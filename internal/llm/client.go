package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fraudlens/fraudlens/internal/common"
)

// Client defines the interface for LLM providers.
type Client interface {
	// Generate sends a system prompt and a user prompt to the provider and
	// returns the raw text of the model's reply.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Config contains common configuration for LLM clients.
type Config struct {
	Provider    string        // "openai" or "anthropic"
	APIKey      string        // API key for the provider
	Model       string        // Model name
	MaxRetries  int           // Maximum retry attempts
	RetryDelay  time.Duration // Initial retry delay
	CacheTTL    time.Duration // Narrative cache TTL
	Temperature float64       // Generation temperature
	MaxTokens   int           // Maximum response tokens
}

// classifyAPIError maps a non-200 provider response to a retry decision.
// Rate limits and server errors are retryable, client errors are not.
func classifyAPIError(provider string, status int, body []byte) error {
	apiErr := fmt.Errorf("%s API error (status %d): %s", provider, status, string(body))

	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", common.ErrRateLimit, apiErr)
	case status >= http.StatusInternalServerError:
		return &common.RetryableError{Err: apiErr, Retryable: true}
	default:
		return &common.RetryableError{Err: apiErr, Retryable: false}
	}
}
