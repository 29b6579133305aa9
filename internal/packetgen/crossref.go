package packetgen

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sockbowl/internal/model"
	"sockbowl/internal/refgraph"
)

// analyzeCrossReferences builds the reference graph over a tossup set: edge
// i -> j when question i's text contains question j's normalized answer as a
// substring.
func analyzeCrossReferences(tossups []model.Tossup, log *zap.Logger) *refgraph.Graph {
	g := refgraph.New(len(tossups))

	for i, current := range tossups {
		questionLower := strings.ToLower(current.Question)
		for j, other := range tossups {
			if i == j {
				continue
			}
			otherAnswer := model.NormalizeAnswer(other.Answer)
			if otherAnswer == "" {
				continue
			}
			if strings.Contains(questionLower, otherAnswer) {
				g.AddEdge(i, j)
				log.Warn("question references another answer",
					zap.Int("question", i),
					zap.Int("referenced", j),
					zap.String("answer", otherAnswer))
			}
		}
	}

	return g
}

// resolveCycles repairs reciprocal reference pairs by regenerating one
// offending tossup at a time, bounded by the cycle-attempt ceiling. A mutual
// pair surviving the final attempt fails the whole packet; no cyclic packet
// is ever returned.
func (g *Generator) resolveCycles(ctx context.Context, tossups []model.Tossup, topic, additionalContext string, kb *KnowledgeBase) ([]model.Tossup, error) {
	working := append([]model.Tossup{}, tossups...)

	for attempt := 1; attempt <= g.cfg.MaxCycleAttempts; attempt++ {
		g.log.Info("cycle resolution pass",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", g.cfg.MaxCycleAttempts))

		graph := analyzeCrossReferences(working, g.log)
		cyclic := graph.ReciprocalNodes()
		if len(cyclic) == 0 {
			g.log.Info("no reciprocal references - packet is clean")
			return working, nil
		}

		g.log.Warn("reciprocal reference pairs found", zap.Ints("questions", cyclic))

		replaceIdx := cyclic[g.rng.Intn(len(cyclic))]
		g.log.Info("regenerating question to break cycle", zap.Int("question", replaceIdx))

		exclude := make([]string, 0, len(working))
		for _, t := range working {
			exclude = append(exclude, t.Answer)
		}

		answers, err := g.selectAnswers(ctx, topic, additionalContext, kb, 1, exclude)
		if err != nil {
			return nil, err
		}
		if len(answers) == 0 {
			g.log.Warn("no replacement answer accepted", zap.Int("attempt", attempt))
			continue
		}

		replacement, err := g.craftQuestion(ctx, topic, answers[0], kb, additionalContext)
		if err != nil {
			return nil, err
		}

		working[replaceIdx] = replacement
		g.log.Info("replaced question", zap.Int("question", replaceIdx), zap.String("answer", answers[0]))
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrCycleUnresolved, g.cfg.MaxCycleAttempts)
}
