package llm

import (
	"context"
	"errors"
)

// ErrService indicates a failure of the text-completion service itself
// (network, auth, rate limits). Callers may retry; this package never does.
var ErrService = errors.New("completion service error")

// Completer is the text-completion service the pipeline depends on. The
// production implementation wraps Vertex AI Gemini; tests substitute fakes.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float32) (string, error)
}
