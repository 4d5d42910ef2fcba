// Package ai scores résumés against job criteria through an external model
// provider with an ordered fallback chain.
package ai

import (
	"context"
	"errors"

	"github.com/talentsift/talentsift/internal/document"
)

// ErrRateLimited marks a provider error caused by quota exhaustion
// (HTTP 429 or equivalent). The scorer backs off before advancing the chain.
var ErrRateLimited = errors.New("model rate limited")

// Request is a single generation call to one model.
type Request struct {
	Prompt      string
	Document    *document.Payload
	Temperature float32
	TopK        int32
}

// ModelCaller abstracts the provider transport. Implementations must wrap
// quota errors with ErrRateLimited and request schema-constrained JSON
// output where the provider supports it.
type ModelCaller interface {
	Generate(ctx context.Context, model string, req Request) (string, error)
}
