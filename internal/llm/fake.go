package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Rule maps a prompt-substring match to a canned response. Rules are checked
// in order; the first match wins.
type Rule struct {
	Contains string
	Respond  func(prompt string) (string, error)
}

// Fake is a scripted Client for tests. It matches prompts against rules and
// records every prompt it sees.
type Fake struct {
	mu      sync.Mutex
	rules   []Rule
	prompts []string

	// Fallback is invoked when no rule matches. When nil, unmatched prompts
	// return an error so tests fail loudly on unexpected calls.
	Fallback func(prompt string) (string, error)
}

// NewFake creates a Fake with the given rules.
func NewFake(rules ...Rule) *Fake {
	return &Fake{rules: rules}
}

// Respond appends a rule returning a fixed response for prompts containing
// the given substring.
func (f *Fake) Respond(contains, response string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, Rule{
		Contains: contains,
		Respond:  func(string) (string, error) { return response, nil },
	})
	return f
}

// RespondFunc appends a rule with a dynamic responder.
func (f *Fake) RespondFunc(contains string, respond func(prompt string) (string, error)) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, Rule{Contains: contains, Respond: respond})
	return f
}

// Generate implements Client.
func (f *Fake) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	rules := f.rules
	fallback := f.Fallback
	f.mu.Unlock()

	for _, rule := range rules {
		if strings.Contains(prompt, rule.Contains) {
			return rule.Respond(prompt)
		}
	}
	if fallback != nil {
		return fallback(prompt)
	}
	return "", fmt.Errorf("fake client: no rule matches prompt: %.120s", prompt)
}

// Prompts returns a copy of every prompt seen so far.
func (f *Fake) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.prompts))
	copy(out, f.prompts)
	return out
}

// CallCount returns how many Generate calls were made.
func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}
