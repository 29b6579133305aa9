// Package usage meters generation-client traffic so a run can report how
// many provider calls it made and how much text moved in each direction.
package usage

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"sockbowl/internal/llm"
)

// Stats is a point-in-time snapshot of meter counters.
type Stats struct {
	Calls         int
	Errors        int
	PromptChars   int
	ResponseChars int
}

// Meter wraps an llm.Client and counts every Generate call. Safe for
// concurrent use.
type Meter struct {
	mu    sync.Mutex
	inner llm.Client
	stats Stats
}

// NewMeter wraps client with call accounting.
func NewMeter(client llm.Client) *Meter {
	return &Meter{inner: client}
}

// Generate implements llm.Client.
func (m *Meter) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := m.inner.Generate(ctx, prompt)

	m.mu.Lock()
	m.stats.Calls++
	m.stats.PromptChars += len(prompt)
	if err != nil {
		m.stats.Errors++
	} else {
		m.stats.ResponseChars += len(response)
	}
	m.mu.Unlock()

	return response, err
}

// Stats returns a snapshot of the counters.
func (m *Meter) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Log writes a usage summary at info level.
func (m *Meter) Log(log *zap.Logger) {
	s := m.Stats()
	log.Info("llm usage",
		zap.Int("calls", s.Calls),
		zap.Int("errors", s.Errors),
		zap.Int("prompt_chars", s.PromptChars),
		zap.Int("response_chars", s.ResponseChars))
}
