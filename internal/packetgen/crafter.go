package packetgen

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sockbowl/internal/model"
	"sockbowl/internal/retry"
)

// craftedQuestion is the wire shape of the crafter's response. The answer is
// supplied by the caller, never re-derived.
type craftedQuestion struct {
	Question string `json:"question"`
}

func (c *craftedQuestion) Validate() error {
	if strings.TrimSpace(c.Question) == "" {
		return fmt.Errorf("question text is empty")
	}
	return nil
}

// craftQuestion produces the pyramidal question text for one answer. The
// pyramidal contract is enforced by prompt construction; post-hoc the only
// cheap structural check is that the question never contains its own answer.
func (g *Generator) craftQuestion(ctx context.Context, topic, answer string, kb *KnowledgeBase, additionalContext string) (model.Tossup, error) {
	prompt := craftPrompt(topic, answer, kb.Text(), additionalContext)
	normalized := model.NormalizeAnswer(answer)

	question, err := retry.Do(g.cfg.MaxCraftAttempts, func(attempt int) (string, error) {
		if attempt > 1 {
			g.log.Warn("retrying question craft", zap.Int("attempt", attempt), zap.String("answer", answer))
		}

		raw, genErr := g.client.Generate(ctx, prompt)
		if genErr != nil {
			return "", fmt.Errorf("question generation failed: %w", genErr)
		}

		var crafted craftedQuestion
		if parseErr := g.parser.ParseObject(ctx, raw, "question (string)", &crafted); parseErr != nil {
			return "", parseErr
		}

		if normalized != "" && strings.Contains(strings.ToLower(crafted.Question), normalized) {
			return "", fmt.Errorf("question text contains its own answer %q", normalized)
		}

		return crafted.Question, nil
	})
	if err != nil {
		return model.Tossup{}, fmt.Errorf("%w for answer %q: %v", ErrCraftFailed, answer, err)
	}

	g.log.Info("crafted question", zap.Int("chars", len(question)), zap.String("answer", answer))
	return model.Tossup{Question: question, Answer: answer}, nil
}
