package shtml

import (
	"context"
	"log/slog"
	"sync"
)

// Diagnostic is a recoverable problem found while parsing. Err wraps ErrMalformedAttribute or
// ErrUnrecognizedUnit.
type Diagnostic struct {
	Err    error
	Source Source
}

func (d Diagnostic) Error() string {
	return d.Source.String() + ": " + d.Err.Error()
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Diagnostics receives the warnings of a parse run.
type Diagnostics interface {
	Warn(d Diagnostic)
}

// Collector is a Diagnostics that keeps every warning. It is safe for concurrent use, so one
// Collector may be shared by several parse runs.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

var _ Diagnostics = (*Collector)(nil)

func (c *Collector) Warn(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

// Diagnostics returns a copy of the collected warnings in the order they were reported.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	diags := make([]Diagnostic, len(c.diags))
	copy(diags, c.diags)
	return diags
}

// Len returns the number of collected warnings.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diags)
}

type logDiagnostics struct {
	logger *slog.Logger
}

// NewLogDiagnostics returns a Diagnostics that logs every warning at the Warn level.
func NewLogDiagnostics(logger *slog.Logger) Diagnostics {
	return &logDiagnostics{logger: logger}
}

func (l *logDiagnostics) Warn(d Diagnostic) {
	l.logger.LogAttrs(context.Background(), slog.LevelWarn, "Parse warning",
		slog.String("file", d.Source.File),
		slog.Int("line", d.Source.Span.Line),
		slog.Int("column", d.Source.Span.Column),
		slog.Any("error", d.Err),
	)
}

type discardDiagnostics struct{}

func (discardDiagnostics) Warn(Diagnostic) {}
