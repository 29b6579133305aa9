// Package packetgen implements the content-generation pipeline that turns a
// topic string into a validated, ordered quiz bowl packet: knowledge
// gathering, iterative answer selection, pyramidal question crafting,
// cross-reference cycle resolution, and topological ordering. One run is
// fully synchronous and owns all of its mutable state; the pipeline is
// reentrant at the request level.
package packetgen

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sockbowl/internal/llm"
	"sockbowl/internal/model"
	"sockbowl/internal/store"
	"sockbowl/internal/structured"
)

// Request bounds, matching the original API surface.
const (
	MinTossupCount     = 1
	MaxTossupCount     = 30
	DefaultTossupCount = 5
)

// Config holds the pipeline's tunable ceilings. Zero values fall back to
// the defaults below.
type Config struct {
	// CandidateMultiplier is the oversampling factor when generating answer
	// candidates (default 3).
	CandidateMultiplier int
	// MaxSelectionIterations bounds the answer-selection loop (default 5).
	MaxSelectionIterations int
	// MaxCycleAttempts bounds cycle resolution (default 5).
	MaxCycleAttempts int
	// MaxCraftAttempts bounds question crafting per answer (default 5).
	MaxCraftAttempts int
}

func (c Config) withDefaults() Config {
	if c.CandidateMultiplier <= 0 {
		c.CandidateMultiplier = 3
	}
	if c.MaxSelectionIterations <= 0 {
		c.MaxSelectionIterations = 5
	}
	if c.MaxCycleAttempts <= 0 {
		c.MaxCycleAttempts = 5
	}
	if c.MaxCraftAttempts <= 0 {
		c.MaxCraftAttempts = 5
	}
	return c
}

// Request describes one packet-generation run.
type Request struct {
	Topic             string
	AdditionalContext string
	TossupCount       int
	GenerateBonuses   bool
}

// Validate checks the request bounds. A zero TossupCount takes the default.
func (r *Request) Validate() error {
	if r.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if r.TossupCount == 0 {
		r.TossupCount = DefaultTossupCount
	}
	if r.TossupCount < MinTossupCount {
		return fmt.Errorf("question count must be at least %d", MinTossupCount)
	}
	if r.TossupCount > MaxTossupCount {
		return fmt.Errorf("question count cannot exceed %d (requested: %d)", MaxTossupCount, r.TossupCount)
	}
	return nil
}

// Generator sequences the full pipeline per request.
type Generator struct {
	client llm.Client
	parser *structured.Parser
	store  store.PacketStore
	rng    Rand
	log    *zap.Logger
	cfg    Config
}

// Option configures a Generator.
type Option func(*Generator)

// WithStore sets the persistence collaborator invoked once per successful
// packet run. Without it, packets are returned but not persisted.
func WithStore(s store.PacketStore) Option {
	return func(g *Generator) { g.store = s }
}

// WithRand injects the randomness source used for cycle-break picks.
func WithRand(r Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// New creates a Generator backed by the given generation client.
func New(client llm.Client, cfg Config, log *zap.Logger, opts ...Option) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Generator{
		client: client,
		parser: structured.NewParser(client, log),
		rng:    defaultRand(),
		log:    log,
		cfg:    cfg.withDefaults(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GeneratePacket runs the whole pipeline: gather knowledge, select answers,
// craft questions, resolve reference cycles, order, assemble, persist.
// Either a fully valid, acyclic, correctly-sized packet is produced or an
// error is returned and nothing is persisted.
func (g *Generator) GeneratePacket(ctx context.Context, req Request) (*model.Packet, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g.log.Info("starting packet generation",
		zap.String("topic", req.Topic),
		zap.String("additional_context", req.AdditionalContext),
		zap.Int("tossup_count", req.TossupCount),
		zap.Bool("generate_bonuses", req.GenerateBonuses))

	kb, err := g.gatherKnowledge(ctx, req.Topic, req.AdditionalContext)
	if err != nil {
		return nil, err
	}

	answers, err := g.selectAnswers(ctx, req.Topic, req.AdditionalContext, kb, req.TossupCount, nil)
	if err != nil {
		return nil, err
	}
	if len(answers) < req.TossupCount {
		return nil, fmt.Errorf("%w: accepted %d of %d", ErrSelectionShortfall, len(answers), req.TossupCount)
	}
	g.log.Info("answer set selected", zap.Int("count", len(answers)))

	tossups := make([]model.Tossup, 0, len(answers))
	for i, answer := range answers {
		g.log.Info("crafting question",
			zap.Int("number", i+1),
			zap.Int("total", len(answers)),
			zap.String("answer", answer))
		tossup, err := g.craftQuestion(ctx, req.Topic, answer, kb, req.AdditionalContext)
		if err != nil {
			return nil, err
		}
		tossups = append(tossups, tossup)
	}

	tossups, err = g.resolveCycles(ctx, tossups, req.Topic, req.AdditionalContext, kb)
	if err != nil {
		return nil, err
	}

	graph := analyzeCrossReferences(tossups, g.log)
	ordered := orderTossups(tossups, graph, g.log)

	packet := &model.Packet{
		Name:    fmt.Sprintf("Generated Packet: %s - %s", req.Topic, uuid.NewString()),
		Tossups: ordered,
	}

	if req.GenerateBonuses {
		for i := 0; i < req.TossupCount; i++ {
			g.log.Info("generating bonus", zap.Int("number", i+1), zap.Int("total", req.TossupCount))
			bonus, err := g.bonusFromKnowledge(ctx, req.Topic, req.AdditionalContext, kb, packet.AnswerText())
			if err != nil {
				return nil, err
			}
			packet.Bonuses = append(packet.Bonuses, bonus)
		}
	}

	if g.store != nil {
		if err := g.store.SavePacket(ctx, packet); err != nil {
			return nil, fmt.Errorf("failed to persist packet: %w", err)
		}
	}

	g.log.Info("packet generation complete",
		zap.Int("tossups", len(packet.Tossups)),
		zap.Int("bonuses", len(packet.Bonuses)))
	return packet, nil
}

// GenerateTossup produces a single tossup on the topic, avoiding the answers
// of any existing tossups. Unlike full-packet runs, a selection shortfall is
// only an error when not even one answer could be accepted.
func (g *Generator) GenerateTossup(ctx context.Context, topic, additionalContext string, existing []model.Tossup) (model.Tossup, error) {
	g.log.Info("generating single tossup", zap.String("topic", topic))

	kb, err := g.gatherKnowledge(ctx, topic, additionalContext)
	if err != nil {
		return model.Tossup{}, err
	}

	exclude := make([]string, 0, len(existing))
	for _, t := range existing {
		exclude = append(exclude, t.Answer)
	}

	answers, err := g.selectAnswers(ctx, topic, additionalContext, kb, 1, exclude)
	if err != nil {
		return model.Tossup{}, err
	}
	if len(answers) == 0 {
		return model.Tossup{}, fmt.Errorf("%w: no answer accepted for topic %q", ErrSelectionShortfall, topic)
	}

	return g.craftQuestion(ctx, topic, answers[0], kb, additionalContext)
}
