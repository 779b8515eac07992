package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeCompleter struct {
	response string
	err      error
}

func (f *fakeCompleter) Complete(_ context.Context, _, _ string, _ float32) (string, error) {
	return f.response, f.err
}

// TestLoggingCompleter_PassesThrough tests transparent delegation
func TestLoggingCompleter_PassesThrough(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	completer := NewLoggingCompleter(&fakeCompleter{response: "4\n5"}, zap.New(core))

	got, err := completer.Complete(context.Background(), "system", "user", 0.1)
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	if got != "4\n5" {
		t.Errorf("Complete() = %q, want %q", got, "4\n5")
	}

	if logs.FilterMessage("completion response").Len() != 1 {
		t.Error("response was not logged")
	}
}

// TestLoggingCompleter_TruncatesLongOutput tests that logged snippets are capped
func TestLoggingCompleter_TruncatesLongOutput(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	long := strings.Repeat("x", 2*logSnippetLimit)
	completer := NewLoggingCompleter(&fakeCompleter{response: long}, zap.New(core))

	got, err := completer.Complete(context.Background(), "system", "user", 0.1)
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	if got != long {
		t.Error("response was truncated on the way to the caller")
	}

	entries := logs.FilterMessage("completion response").All()
	if len(entries) != 1 {
		t.Fatalf("got %d response log entries, want 1", len(entries))
	}
	logged := entries[0].ContextMap()["response"].(string)
	if len(logged) > logSnippetLimit+3 {
		t.Errorf("logged %d characters, want at most %d", len(logged), logSnippetLimit+3)
	}
}

// TestLoggingCompleter_ErrorPassesThrough tests error delegation
func TestLoggingCompleter_ErrorPassesThrough(t *testing.T) {
	core, _ := observer.New(zapcore.DebugLevel)
	completer := NewLoggingCompleter(&fakeCompleter{err: ErrService}, zap.New(core))

	_, err := completer.Complete(context.Background(), "system", "user", 0.1)
	if !errors.Is(err, ErrService) {
		t.Errorf("error = %v, want ErrService", err)
	}
}
