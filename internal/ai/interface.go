package ai

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no model API key is available.
var ErrNotConfigured = errors.New("ai provider not configured")

// Provider turns a finished simulation run into a natural-language insight.
// Implementations can be swapped (Gemini today) without touching callers.
type Provider interface {
	SummarizeRun(ctx context.Context, run RunSummary) (*Insight, error)
}
