package packetgen

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sockbowl/internal/model"
)

// bonusTriplet is the wire shape of the themed-triplet response. The theme
// is scaffolding for the preamble and part prompts; it is not retained in
// the output.
type bonusTriplet struct {
	Theme   string `json:"theme"`
	AnswerA string `json:"answer_a"`
	AnswerB string `json:"answer_b"`
	AnswerC string `json:"answer_c"`
}

func (t *bonusTriplet) Validate() error {
	for name, v := range map[string]string{
		"theme": t.Theme, "answer_a": t.AnswerA, "answer_b": t.AnswerB, "answer_c": t.AnswerC,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("missing required field %q", name)
		}
	}
	return nil
}

type bonusPreamble struct {
	Preamble string `json:"preamble"`
}

func (p *bonusPreamble) Validate() error {
	if strings.TrimSpace(p.Preamble) == "" {
		return fmt.Errorf("preamble is empty")
	}
	return nil
}

// GenerateBonus produces one themed bonus on the topic, excluding the
// answers of any existing bonuses and tossups. No cross-reference analysis
// is applied across bonus parts; parts share a theme and are expected to
// lean on each other.
func (g *Generator) GenerateBonus(ctx context.Context, topic, additionalContext string, existingBonuses []model.Bonus, existingTossups []model.Tossup) (model.Bonus, error) {
	g.log.Info("generating bonus", zap.String("topic", topic))

	kb, err := g.gatherKnowledge(ctx, topic, additionalContext)
	if err != nil {
		return model.Bonus{}, err
	}

	var exclude []string
	for _, b := range existingBonuses {
		for _, part := range b.Parts {
			exclude = append(exclude, part.Answer)
		}
	}
	for _, t := range existingTossups {
		exclude = append(exclude, t.Answer)
	}

	return g.bonusFromKnowledge(ctx, topic, additionalContext, kb, exclude)
}

// bonusFromKnowledge builds one bonus against an already-gathered knowledge
// base: themed answer triplet, preamble, then one question per part.
func (g *Generator) bonusFromKnowledge(ctx context.Context, topic, additionalContext string, kb *KnowledgeBase, exclude []string) (model.Bonus, error) {
	raw, err := g.client.Generate(ctx, bonusTripletPrompt(topic, additionalContext, kb.Text(), exclude))
	if err != nil {
		return model.Bonus{}, fmt.Errorf("bonus triplet generation failed: %w", err)
	}

	var triplet bonusTriplet
	if err := g.parser.ParseObject(ctx, raw, "theme, answer_a, answer_b, answer_c (strings)", &triplet); err != nil {
		return model.Bonus{}, err
	}
	g.log.Info("generated bonus triplet",
		zap.String("theme", triplet.Theme),
		zap.String("answer_a", triplet.AnswerA),
		zap.String("answer_b", triplet.AnswerB),
		zap.String("answer_c", triplet.AnswerC))

	answers := [3]string{triplet.AnswerA, triplet.AnswerB, triplet.AnswerC}

	rawPreamble, err := g.client.Generate(ctx, bonusPreamblePrompt(triplet.Theme, answers))
	if err != nil {
		return model.Bonus{}, fmt.Errorf("bonus preamble generation failed: %w", err)
	}
	var preamble bonusPreamble
	if err := g.parser.ParseObject(ctx, rawPreamble, "preamble (string)", &preamble); err != nil {
		return model.Bonus{}, err
	}

	labels := [3]string{"A", "B", "C"}
	parts := make([]model.BonusPart, 0, 3)
	for i, answer := range answers {
		rawPart, err := g.client.Generate(ctx, bonusPartPrompt(triplet.Theme, answer, preamble.Preamble, labels[i]))
		if err != nil {
			return model.Bonus{}, fmt.Errorf("bonus part %s generation failed: %w", labels[i], err)
		}
		var crafted craftedQuestion
		if err := g.parser.ParseObject(ctx, rawPart, "question (string)", &crafted); err != nil {
			return model.Bonus{}, err
		}
		parts = append(parts, model.BonusPart{Question: crafted.Question, Answer: answer})
	}

	return model.Bonus{Preamble: preamble.Preamble, Parts: parts}, nil
}
