package packetgen

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"sockbowl/internal/model"
)

// Selection thresholds. With additional context the evaluator's judgment is
// trusted and the bar is higher; without context every candidate gets the
// uninspected score since there is no constraint to judge against.
const (
	thresholdWithContext    = 6.0
	thresholdWithoutContext = 4.0
	uninspectedScore        = 7.0
)

// scoredCandidate is ephemeral selection-loop state: a candidate answer with
// its evaluator score and rationale.
type scoredCandidate struct {
	Answer    string
	Score     float64
	Reasoning string
}

// evaluation is the wire shape of one scored item in the evaluator's batched
// response.
type evaluation struct {
	Index     int     `json:"index"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// selectAnswers iterates generate -> evaluate -> select until target answers
// are accepted or the iteration ceiling is hit. Accepted answers are distinct
// from each other and from everything in exclude. The result may be shorter
// than target; callers decide whether that is fatal.
func (g *Generator) selectAnswers(ctx context.Context, topic, additionalContext string, kb *KnowledgeBase, target int, exclude []string) ([]string, error) {
	g.log.Info("starting iterative answer selection",
		zap.Int("target", target),
		zap.Int("multiplier", g.cfg.CandidateMultiplier))

	var accepted []string

	for iteration := 1; iteration <= g.cfg.MaxSelectionIterations; iteration++ {
		needed := target - len(accepted)
		if needed <= 0 {
			break
		}
		g.log.Info("answer selection iteration",
			zap.Int("iteration", iteration),
			zap.Int("max_iterations", g.cfg.MaxSelectionIterations),
			zap.Int("needed", needed))

		avoid := append(append([]string{}, exclude...), accepted...)
		candidateCount := needed * g.cfg.CandidateMultiplier

		candidates, err := g.generateCandidates(ctx, topic, additionalContext, kb.Text(), candidateCount, avoid)
		if err != nil {
			return nil, err
		}
		g.log.Info("generated candidates", zap.Int("count", len(candidates)))

		// The exclusion list in the prompt is advisory; enforce uniqueness
		// here so accepted answers stay pairwise distinct after
		// normalization.
		candidates = dropKnownAnswers(candidates, avoid)

		scored, err := g.evaluateCandidates(ctx, topic, additionalContext, candidates)
		if err != nil {
			return nil, err
		}

		selected := selectBest(scored, needed, additionalContext)
		for _, s := range selected {
			g.log.Info("accepted answer", zap.String("answer", s))
		}
		accepted = append(accepted, selected...)

		if len(accepted) >= target {
			g.log.Info("target answer count reached", zap.Int("accepted", len(accepted)))
			break
		}

		// Short of target: explain the gap and deepen the knowledge base
		// before the next iteration.
		if iteration < g.cfg.MaxSelectionIterations {
			g.log.Info("deepening knowledge",
				zap.Int("accepted", len(accepted)),
				zap.Int("target", target))
			deeper, err := g.client.Generate(ctx, deeperSearchPrompt(topic, additionalContext, accepted))
			if err != nil {
				return nil, fmt.Errorf("deeper search failed: %w", err)
			}
			kb.Append(fmt.Sprintf("Iteration %d Deeper Search", iteration), deeper)
		}
	}

	return accepted, nil
}

// dropKnownAnswers removes candidates whose normalized form duplicates an
// avoided answer or an earlier candidate in the same batch.
func dropKnownAnswers(candidates, avoid []string) []string {
	seen := make(map[string]struct{}, len(avoid)+len(candidates))
	for _, a := range avoid {
		seen[model.NormalizeAnswer(a)] = struct{}{}
	}

	kept := candidates[:0]
	for _, c := range candidates {
		norm := model.NormalizeAnswer(c)
		if _, dup := seen[norm]; dup || norm == "" {
			continue
		}
		seen[norm] = struct{}{}
		kept = append(kept, c)
	}
	return kept
}

// generateCandidates requests a batch of candidate answers in answer-line
// format, excluding everything in avoid.
func (g *Generator) generateCandidates(ctx context.Context, topic, additionalContext, facts string, count int, avoid []string) ([]string, error) {
	raw, err := g.client.Generate(ctx, answerListPrompt(topic, additionalContext, facts, count, avoid))
	if err != nil {
		return nil, fmt.Errorf("candidate generation failed: %w", err)
	}

	var candidates []string
	if err := g.parser.ParseArray(ctx, raw, 0, "answer-line strings", &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// evaluateCandidates scores every candidate 0-10 in a single batched call.
// Without additional context all candidates get the uninspected score.
func (g *Generator) evaluateCandidates(ctx context.Context, topic, additionalContext string, candidates []string) ([]scoredCandidate, error) {
	if additionalContext == "" {
		scored := make([]scoredCandidate, len(candidates))
		for i, c := range candidates {
			scored[i] = scoredCandidate{Answer: c, Score: uninspectedScore, Reasoning: "No specific context to match"}
		}
		return scored, nil
	}

	g.log.Info("evaluating candidates against context", zap.Int("count", len(candidates)))

	raw, err := g.client.Generate(ctx, evaluationPrompt(topic, additionalContext, candidates))
	if err != nil {
		return nil, fmt.Errorf("candidate evaluation failed: %w", err)
	}

	var evals []evaluation
	if err := g.parser.ParseArray(ctx, raw, len(candidates), "index (number), score (number 0-10), reasoning (string)", &evals); err != nil {
		return nil, err
	}

	var scored []scoredCandidate
	for _, e := range evals {
		idx := e.Index - 1 // 1-based in the prompt
		if idx < 0 || idx >= len(candidates) {
			continue
		}
		scored = append(scored, scoredCandidate{
			Answer:    candidates[idx],
			Score:     e.Score,
			Reasoning: e.Reasoning,
		})
	}
	return scored, nil
}

// selectBest filters by the context-dependent threshold, sorts by score
// descending, and takes the top count.
func selectBest(scored []scoredCandidate, count int, additionalContext string) []string {
	minScore := thresholdWithoutContext
	if additionalContext != "" {
		minScore = thresholdWithContext
	}

	eligible := make([]scoredCandidate, 0, len(scored))
	for _, s := range scored {
		if s.Score >= minScore {
			eligible = append(eligible, s)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Score > eligible[j].Score
	})

	if len(eligible) > count {
		eligible = eligible[:count]
	}
	selected := make([]string, len(eligible))
	for i, s := range eligible {
		selected[i] = s.Answer
	}
	return selected
}
