package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/fraudlens/fraudlens/internal/common"
	"github.com/fraudlens/fraudlens/internal/model"
	"github.com/fraudlens/fraudlens/internal/service"
)

// generationTimeout bounds a single narrative request.
const generationTimeout = 45 * time.Second

// Generator produces case narratives through an LLM client, with retries and
// response caching. The narrative is advisory: a generation failure never
// fails the analysis, it just produces a fallback narrative.
type Generator struct {
	client     Client
	cache      *narrativeCache
	maxRetries int
	retryDelay time.Duration
}

// NewGenerator creates a narrative generator from configuration.
func NewGenerator(cfg Config) (*Generator, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewGeneratorWithClient(client, cfg), nil
}

// NewGeneratorWithClient wraps an existing client. Useful for tests.
func NewGeneratorWithClient(client Client, cfg Config) *Generator {
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}
	retryDelay := cfg.RetryDelay
	if retryDelay == 0 {
		retryDelay = time.Second
	}

	return &Generator{
		client:     client,
		cache:      newNarrativeCache(cfg.CacheTTL),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// GenerateNarrative asks the model for a case narrative and parses the reply.
// The result is always usable; fallback narratives carry a baseline score.
func (g *Generator) GenerateNarrative(ctx context.Context, systemPrompt, userPrompt string) (model.Narrative, error) {
	key := cacheKey(systemPrompt, userPrompt)
	if cached, ok := g.cache.get(key); ok {
		slog.Debug("narrative cache hit", "key", key[:8])
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	var raw string
	err := common.WithRetry(ctx, func() error {
		var genErr error
		raw, genErr = g.client.Generate(ctx, systemPrompt, userPrompt)
		return genErr
	}, service.RetryOptions{
		MaxAttempts:  g.maxRetries,
		InitialDelay: g.retryDelay,
	})
	if err != nil {
		return model.Narrative{}, fmt.Errorf("narrative generation failed: %w", err)
	}

	narrative := ParseNarrative(raw)
	if narrative.Fallback {
		slog.Warn("narrative response could not be parsed, using fallback",
			"score", narrative.SuspicionScore)
	}

	g.cache.set(key, narrative)
	return narrative, nil
}

// Close releases the cache's background resources.
func (g *Generator) Close() {
	g.cache.Close()
}

func cacheKey(systemPrompt, userPrompt string) string {
	h := sha256.New()
	h.Write([]byte(systemPrompt))
	h.Write([]byte{0})
	h.Write([]byte(userPrompt))
	return hex.EncodeToString(h.Sum(nil))
}
