package llm

import (
	"context"

	"go.uber.org/zap"

	"github.com/fmuoria/resume-ranker/internal/logger"
)

// logSnippetLimit caps how much raw model output lands in a debug log line.
const logSnippetLimit = 300

// LoggingCompleter decorates a Completer with debug logging of prompts and
// raw responses.
type LoggingCompleter struct {
	inner Completer
	log   *zap.Logger
}

// NewLoggingCompleter wraps inner so every completion is debug-logged.
func NewLoggingCompleter(inner Completer, log *zap.Logger) *LoggingCompleter {
	return &LoggingCompleter{inner: inner, log: log}
}

// Complete delegates to the wrapped completer.
func (l *LoggingCompleter) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	l.log.Debug("completion request",
		zap.String("prompt", logger.TruncateForLog(user, logSnippetLimit)),
		zap.Float32("temperature", temperature),
	)

	response, err := l.inner.Complete(ctx, system, user, temperature)
	if err != nil {
		l.log.Debug("completion failed", zap.Error(err))
		return "", err
	}

	l.log.Debug("completion response",
		zap.String("response", logger.TruncateForLog(response, logSnippetLimit)),
	)

	return response, nil
}
