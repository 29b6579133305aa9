package packetgen

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// KnowledgeBase is the fact corpus a single generation run accumulates.
// Sections are labeled with their provenance and append-only; each run owns
// its own instance.
type KnowledgeBase struct {
	sections []knowledgeSection
}

type knowledgeSection struct {
	label string
	text  string
}

// Append adds a labeled section.
func (kb *KnowledgeBase) Append(label, text string) {
	kb.sections = append(kb.sections, knowledgeSection{label: label, text: text})
}

// Text renders the full corpus with section headers.
func (kb *KnowledgeBase) Text() string {
	var b strings.Builder
	for _, s := range kb.sections {
		fmt.Fprintf(&b, "=== %s ===\n%s\n\n", s.label, s.text)
	}
	return b.String()
}

// Sections returns the number of sections gathered so far.
func (kb *KnowledgeBase) Sections() int { return len(kb.sections) }

// gatherKnowledge issues the broad "comprehensive facts" call, plus a
// context-narrowed call when additional context was supplied. A failure here
// is fatal to the run; everything downstream depends on the fact base.
func (g *Generator) gatherKnowledge(ctx context.Context, topic, additionalContext string) (*KnowledgeBase, error) {
	g.log.Info("gathering comprehensive knowledge", zap.String("topic", topic))

	kb := &KnowledgeBase{}

	broad, err := g.client.Generate(ctx, knowledgePrompt(topic, additionalContext))
	if err != nil {
		return nil, fmt.Errorf("failed to gather knowledge for topic %q: %w", topic, err)
	}
	kb.Append("Comprehensive Knowledge", broad)

	if additionalContext != "" {
		g.log.Info("gathering context-specific knowledge")
		narrowed, err := g.client.Generate(ctx, contextKnowledgePrompt(topic, additionalContext))
		if err != nil {
			return nil, fmt.Errorf("failed to gather context knowledge for topic %q: %w", topic, err)
		}
		kb.Append("Context-Specific Knowledge", narrowed)
	}

	g.log.Info("knowledge gathered",
		zap.Int("sections", kb.Sections()),
		zap.Int("chars", len(kb.Text())))
	return kb, nil
}
