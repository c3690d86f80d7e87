// Package converter turns natural-language questions into pre-written SQL
// templates by first-match-wins keyword dispatch.
package converter

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Complexity is a cosmetic label attached to each conversion.
type Complexity string

const (
	ComplexityLow    Complexity = "Low" // declared for completeness; no pattern produces it
	ComplexityMedium Complexity = "Medium"
	ComplexityHard   Complexity = "Hard"
)

// ErrEmptyQuery is returned for blank or whitespace-only input.
var ErrEmptyQuery = errors.New("empty query")

// Result is the output of a single conversion.
type Result struct {
	SQL        string     `json:"sql"`
	Complexity Complexity `json:"complexity"`
	Pattern    string     `json:"pattern"`
	Trigger    string     `json:"trigger,omitempty"`
}

// Convert maps text to a SQL template. It is a pure function of its input.
func Convert(text string) (*Result, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return nil, ErrEmptyQuery
	}

	if sel, ok := match(normalized); ok {
		return &Result{
			SQL:        sel.render(normalized),
			Complexity: ComplexityHard,
			Pattern:    sel.pattern,
			Trigger:    sel.trigger,
		}, nil
	}

	return &Result{
		SQL:        fallbackSQL(normalized),
		Complexity: ComplexityMedium,
		Pattern:    PatternFallback,
	}, nil
}

// QueryEngine wraps Convert with logging and an optional simulated delay.
type QueryEngine struct {
	logger *zap.Logger
	delay  time.Duration
}

// Option configures a QueryEngine.
type Option func(*QueryEngine)

// WithLogger sets the logger used for dispatch decisions.
func WithLogger(logger *zap.Logger) Option {
	return func(e *QueryEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithDelay makes every conversion wait d before answering.
func WithDelay(d time.Duration) Option {
	return func(e *QueryEngine) {
		e.delay = d
	}
}

// NewQueryEngine creates a new query engine
func NewQueryEngine(opts ...Option) *QueryEngine {
	e := &QueryEngine{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Delay returns the configured simulated latency.
func (e *QueryEngine) Delay() time.Duration {
	return e.delay
}

// Convert waits out the configured delay, then converts text.
// Blank text returns ErrEmptyQuery immediately without waiting.
func (e *QueryEngine) Convert(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuery
	}

	if e.delay > 0 {
		timer := time.NewTimer(e.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	res, err := Convert(text)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("converted query",
		zap.String("pattern", res.Pattern),
		zap.String("trigger", res.Trigger),
		zap.String("complexity", string(res.Complexity)),
	)
	return res, nil
}
