package mocklogger

import (
	"context"
	"log/slog"
	"sync"
)

// Entry is one record captured by MockHandler.
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// MockHandler is a slog.Handler that keeps every record in memory.
type MockHandler struct {
	mu      *sync.Mutex
	entries *[]Entry
	attrs   []slog.Attr
}

func NewMockHandler() *MockHandler {
	return &MockHandler{
		mu:      &sync.Mutex{},
		entries: &[]Entry{},
	}
}

// Enabled implements slog.Handler.
func (h *MockHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// Handle implements slog.Handler.
func (h *MockHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	*h.entries = append(*h.entries, Entry{Level: r.Level, Message: r.Message, Attrs: attrs})
	return nil
}

// WithAttrs implements slog.Handler.
func (h *MockHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &MockHandler{mu: h.mu, entries: h.entries, attrs: merged}
}

// WithGroup implements slog.Handler.
func (h *MockHandler) WithGroup(name string) slog.Handler {
	return h
}

// Entries returns a copy of the captured records.
func (h *MockHandler) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, len(*h.entries))
	copy(out, *h.entries)
	return out
}

// Messages returns the captured messages logged at level or above.
func (h *MockHandler) Messages(level slog.Level) []string {
	var out []string
	for _, e := range h.Entries() {
		if e.Level >= level {
			out = append(out, e.Message)
		}
	}
	return out
}

// NewMockLogger creates a new logger with the mock handler
func NewMockLogger() *slog.Logger {
	return slog.New(NewMockHandler())
}

// NewMockLoggerWithHandler also returns the handler so tests can inspect it.
func NewMockLoggerWithHandler() (*slog.Logger, *MockHandler) {
	h := NewMockHandler()
	return slog.New(h), h
}
