package packetgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"sockbowl/internal/llm"
	"sockbowl/internal/model"
	"sockbowl/internal/store"
)

func TestMain(m *testing.M) {
	// go.opencensus.io starts a background worker goroutine in its package
	// init; it is a known goleak false positive, not a leak in this package.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// fixedRand always picks the same slot, making cycle-break choices
// deterministic.
type fixedRand struct{ v int }

func (r fixedRand) Intn(n int) int { return r.v % n }

func newTestGenerator(t *testing.T, fake *llm.Fake, opts ...Option) *Generator {
	t.Helper()
	return New(fake, Config{}, zaptest.NewLogger(t), opts...)
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
		count   int
	}{
		{"defaults applied", Request{Topic: "Opera"}, false, DefaultTossupCount},
		{"explicit count", Request{Topic: "Opera", TossupCount: 12}, false, 12},
		{"minimum", Request{Topic: "Opera", TossupCount: 1}, false, 1},
		{"maximum", Request{Topic: "Opera", TossupCount: 30}, false, 30},
		{"missing topic", Request{TossupCount: 5}, true, 0},
		{"negative count", Request{Topic: "Opera", TossupCount: -1}, true, 0},
		{"count too high", Request{Topic: "Opera", TossupCount: 31}, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.count, tt.req.TossupCount)
		})
	}
}

func TestSelectBest(t *testing.T) {
	scored := []scoredCandidate{
		{Answer: "low", Score: 3},
		{Answer: "top", Score: 9},
		{Answer: "borderline", Score: 5},
		{Answer: "good", Score: 7},
		{Answer: "at-threshold", Score: 6},
	}

	t.Run("with context uses the higher bar", func(t *testing.T) {
		got := selectBest(scored, 5, "romantic era")
		assert.Equal(t, []string{"top", "good", "at-threshold"}, got)
	})

	t.Run("without context the bar drops", func(t *testing.T) {
		got := selectBest(scored, 5, "")
		assert.Equal(t, []string{"top", "good", "at-threshold", "borderline"}, got)
	})

	t.Run("count truncates after sorting", func(t *testing.T) {
		got := selectBest(scored, 2, "")
		assert.Equal(t, []string{"top", "good"}, got)
	})
}

func TestEvaluateCandidates(t *testing.T) {
	candidates := []string{"ANSWER: Berthe Morisot", "ANSWER: Gustave Caillebotte"}

	g := newTestGenerator(t, llm.NewFake())
	scored, err := g.evaluateCandidates(context.Background(), "Impressionism", "", candidates)
	require.NoError(t, err)
	require.Len(t, scored, 2)
	for _, s := range scored {
		assert.Equal(t, uninspectedScore, s.Score)
		assert.Equal(t, "No specific context to match", s.Reasoning)
	}
}

func TestEvaluateCandidatesIndexMapping(t *testing.T) {
	candidates := []string{"ANSWER: Berthe Morisot", "ANSWER: Gustave Caillebotte"}
	fake := llm.NewFake().Respond("evaluating ADVANCED quiz bowl answer candidates",
		`[{"index": 2, "score": 8.5, "reasoning": "specific"},
		  {"index": 1, "score": 4.0, "reasoning": "weak match"}]`)
	g := newTestGenerator(t, fake)

	scored, err := g.evaluateCandidates(context.Background(), "Impressionism", "women painters", candidates)
	require.NoError(t, err)
	require.Len(t, scored, 2)
	assert.Equal(t, "ANSWER: Gustave Caillebotte", scored[0].Answer)
	assert.Equal(t, 8.5, scored[0].Score)
	assert.Equal(t, "ANSWER: Berthe Morisot", scored[1].Answer)
	assert.Equal(t, 4.0, scored[1].Score)
}

func TestCraftQuestionRetriesOnAnswerLeak(t *testing.T) {
	calls := 0
	fake := llm.NewFake().RespondFunc("pyramidal tossup question", func(string) (string, error) {
		calls++
		if calls == 1 {
			return `{"question": "This volcano, Mauna Loa, erupted in 1984. Name it."}`, nil
		}
		return `{"question": "This shield volcano on the island of Hawaii last erupted in 2022 after a 38-year pause. Name it."}`, nil
	})
	g := newTestGenerator(t, fake)

	kb := &KnowledgeBase{}
	kb.Append("Comprehensive Knowledge", "Facts about Hawaiian volcanoes.")

	tossup, err := g.craftQuestion(context.Background(), "Volcanoes", "ANSWER: Mauna Loa", kb, "")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "ANSWER: Mauna Loa", tossup.Answer)
	assert.NotContains(t, strings.ToLower(tossup.Question), "mauna loa")
}

func TestCraftQuestionExhaustsAttempts(t *testing.T) {
	fake := llm.NewFake().Respond("pyramidal tossup question",
		`{"question": "The answer is obviously photosynthesis."}`)
	g := newTestGenerator(t, fake)

	kb := &KnowledgeBase{}
	kb.Append("Comprehensive Knowledge", "Plant biochemistry facts.")

	_, err := g.craftQuestion(context.Background(), "Biology", "ANSWER: Photosynthesis", kb, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCraftFailed)
	assert.Equal(t, 5, fake.CallCount())
}

func TestAnalyzeCrossReferences(t *testing.T) {
	tossups := []model.Tossup{
		{Question: "This process depends on chlorophyll in thylakoid membranes.", Answer: "ANSWER: Calvin cycle"},
		{Question: "This green pigment absorbs red and blue light.", Answer: "ANSWER: chlorophyll [accept chlorophyll a]"},
		{Question: "An unrelated question about mitochondria.", Answer: "ANSWER: ATP synthase"},
	}

	g := analyzeCrossReferences(tossups, zaptest.NewLogger(t))

	assert.True(t, g.HasEdge(0, 1), "question 0 mentions chlorophyll")
	assert.False(t, g.HasEdge(1, 0))
	assert.False(t, g.HasEdge(0, 2))
	assert.Empty(t, g.ReciprocalNodes())
}

func TestOrderTossupsPlacesReferencedAnswersFirst(t *testing.T) {
	tossups := []model.Tossup{
		{Question: "This cycle uses the enzyme rubisco to fix carbon dioxide.", Answer: "ANSWER: Calvin cycle"},
		{Question: "This enzyme is often called the most abundant protein on Earth.", Answer: "ANSWER: rubisco"},
		{Question: "A standalone question about stomata.", Answer: "ANSWER: stomata"},
	}
	log := zaptest.NewLogger(t)

	graph := analyzeCrossReferences(tossups, log)
	require.True(t, graph.HasEdge(0, 1))

	ordered := orderTossups(tossups, graph, log)
	require.Len(t, ordered, 3)

	pos := make(map[string]int, len(ordered))
	for i, tp := range ordered {
		pos[tp.Answer] = i
	}
	assert.Less(t, pos["ANSWER: rubisco"], pos["ANSWER: Calvin cycle"],
		"the referenced answer must be heard before the question that mentions it")
}

func TestOrderTossupsKeepsOriginalOrderOnCycle(t *testing.T) {
	tossups := []model.Tossup{
		{Question: "Mentions beta.", Answer: "ANSWER: alpha"},
		{Question: "Mentions alpha.", Answer: "ANSWER: beta"},
	}
	log := zaptest.NewLogger(t)
	graph := analyzeCrossReferences(tossups, log)

	ordered := orderTossups(tossups, graph, log)
	assert.Equal(t, tossups, ordered)
}

func TestResolveCyclesReplacesOneOffender(t *testing.T) {
	tossups := []model.Tossup{
		{Question: "This pigment works alongside chlorophyll b in antenna complexes.", Answer: "ANSWER: chlorophyll [accept chlorophyll a]"},
		{Question: "Unlike chlorophyll, these accessory pigments appear orange.", Answer: "ANSWER: carotenoids"},
		{Question: "A clean question about the light-independent reactions.", Answer: "ANSWER: Calvin cycle"},
	}
	// Make the pair reciprocal: question 0 must mention "carotenoids".
	tossups[0].Question = "These carotenoids-adjacent pigments absorb in the red band."

	fake := llm.NewFake().
		Respond("generate a list of", `["ANSWER: thylakoid"]`).
		Respond("pyramidal tossup question",
			`{"question": "These membrane sacs are stacked into grana inside the chloroplast stroma."}`)
	g := newTestGenerator(t, fake, WithRand(fixedRand{v: 0}))

	kb := &KnowledgeBase{}
	kb.Append("Comprehensive Knowledge", "Photosynthesis facts.")

	resolved, err := g.resolveCycles(context.Background(), tossups, "Photosynthesis", "", kb)
	require.NoError(t, err)
	require.Len(t, resolved, 3)

	// Deterministic rand picked question 0 for replacement.
	assert.Equal(t, "ANSWER: thylakoid", resolved[0].Answer)
	assert.Equal(t, tossups[1], resolved[1])
	assert.Equal(t, tossups[2], resolved[2])
	assert.Empty(t, analyzeCrossReferences(resolved, zaptest.NewLogger(t)).ReciprocalNodes())
}

func TestResolveCyclesGivesUpAfterCeiling(t *testing.T) {
	tossups := []model.Tossup{
		{Question: "Mentions beta here.", Answer: "ANSWER: alpha"},
		{Question: "Mentions alpha one, alpha two, alpha three, alpha four, alpha five.", Answer: "ANSWER: beta"},
	}
	// Every replacement answer is still mentioned by question 1, and every
	// replacement question still mentions beta, so the pair never untangles.
	replacements := []string{"alpha one", "alpha two", "alpha three", "alpha four", "alpha five"}
	calls := 0
	fake := llm.NewFake().
		RespondFunc("generate a list of", func(string) (string, error) {
			answer := replacements[calls%len(replacements)]
			calls++
			return fmt.Sprintf(`["ANSWER: %s"]`, answer), nil
		}).
		Respond("pyramidal tossup question", `{"question": "Still mentions beta somehow."}`)
	g := newTestGenerator(t, fake, WithRand(fixedRand{v: 0}))

	kb := &KnowledgeBase{}
	kb.Append("Comprehensive Knowledge", "Greek letters.")

	_, err := g.resolveCycles(context.Background(), tossups, "Alphabet", "", kb)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycleUnresolved)
}

func TestGeneratePacket(t *testing.T) {
	fake := llm.NewFake().
		Respond("Provide comprehensive, factual",
			"Photosynthesis converts light energy into chemical energy in chloroplasts.").
		Respond("generate a list of",
			`["ANSWER: rubisco", "ANSWER: Melvin Calvin", "ANSWER: photosystem II"]`).
		RespondFunc("pyramidal tossup question", func(prompt string) (string, error) {
			switch {
			case strings.Contains(prompt, "ANSWER: rubisco"):
				return `{"question": "This enzyme's oxygenase side reaction necessitates photorespiration. (*) It fixes carbon dioxide onto RuBP. Name this abundant enzyme."}`, nil
			case strings.Contains(prompt, "ANSWER: Melvin Calvin"):
				return `{"question": "This chemist used carbon-14 labeling of Chlorella cultures. (*) He won the 1961 Nobel Prize in Chemistry. Name this namesake of a carbon-fixing pathway."}`, nil
			case strings.Contains(prompt, "ANSWER: photosystem II"):
				return `{"question": "The oxygen-evolving complex of this structure contains a manganese cluster. (*) It passes electrons to plastoquinone. Name this light-harvesting complex."}`, nil
			}
			return "", fmt.Errorf("unexpected craft prompt")
		})

	mem := store.NewMemoryStore()
	g := newTestGenerator(t, fake, WithStore(mem))

	packet, err := g.GeneratePacket(context.Background(), Request{
		Topic:       "Photosynthesis",
		TossupCount: 3,
	})
	require.NoError(t, err)

	require.Len(t, packet.Tossups, 3)
	assert.Empty(t, packet.Bonuses)
	assert.Contains(t, packet.Name, "Generated Packet: Photosynthesis - ")

	seen := map[string]bool{}
	for _, tp := range packet.Tossups {
		assert.NotEmpty(t, tp.Question)
		norm := model.NormalizeAnswer(tp.Answer)
		assert.False(t, seen[norm], "answers must be distinct")
		seen[norm] = true
		assert.NotContains(t, strings.ToLower(tp.Question), norm)
	}
	assert.Empty(t, analyzeCrossReferences(packet.Tossups, zaptest.NewLogger(t)).ReciprocalNodes())

	require.Len(t, mem.Packets(), 1)
	assert.Equal(t, packet.Name, mem.Packets()[0].Name)
}

func TestGeneratePacketWithBonuses(t *testing.T) {
	fake := llm.NewFake().
		Respond("Provide comprehensive, factual", "Facts about baroque music and its composers.").
		Respond("generate a list of", `["ANSWER: Dieterich Buxtehude"]`).
		Respond("pyramidal tossup question",
			`{"question": "This organist's Abendmusik concerts drew a young Bach to Luebeck on foot. (*) Name this Danish-German composer of organ preludes."}`).
		Respond("themed quiz bowl bonus",
			`{"theme": "Keyboard suites", "answer_a": "ANSWER: allemande", "answer_b": "ANSWER: courante", "answer_c": "ANSWER: sarabande"}`).
		Respond("preamble for a quiz bowl bonus",
			`{"preamble": "Answer these questions about baroque dance movements. For 10 points each:"}`).
		RespondFunc("bonus part question", func(prompt string) (string, error) {
			switch {
			case strings.Contains(prompt, "ANSWER: allemande"):
				return `{"question": "This moderate duple-meter dance in the German style usually opens the suite."}`, nil
			case strings.Contains(prompt, "ANSWER: courante"):
				return `{"question": "This running dance in triple meter typically follows the opening movement."}`, nil
			case strings.Contains(prompt, "ANSWER: sarabande"):
				return `{"question": "This slow Spanish dance stresses the second beat of its triple meter."}`, nil
			}
			return "", fmt.Errorf("unexpected bonus part prompt")
		})

	g := newTestGenerator(t, fake)

	packet, err := g.GeneratePacket(context.Background(), Request{
		Topic:           "Baroque music",
		TossupCount:     1,
		GenerateBonuses: true,
	})
	require.NoError(t, err)

	require.Len(t, packet.Tossups, 1)
	require.Len(t, packet.Bonuses, 1)

	bonus := packet.Bonuses[0]
	assert.Contains(t, bonus.Preamble, "For 10 points each")
	require.Len(t, bonus.Parts, 3)
	assert.Equal(t, "ANSWER: allemande", bonus.Parts[0].Answer)
	assert.Equal(t, "ANSWER: courante", bonus.Parts[1].Answer)
	assert.Equal(t, "ANSWER: sarabande", bonus.Parts[2].Answer)
	for _, part := range bonus.Parts {
		assert.NotEmpty(t, part.Question)
	}
}

func TestGeneratePacketSelectionShortfallIsFatal(t *testing.T) {
	fake := llm.NewFake().
		Respond("Provide comprehensive, factual", "Sparse facts.").
		Respond("generate a list of", `[]`).
		Respond("We need additional ADVANCED", "No further facts available.")
	g := newTestGenerator(t, fake)

	_, err := g.GeneratePacket(context.Background(), Request{Topic: "Obscurity", TossupCount: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSelectionShortfall)
}

func TestGenerateTossup(t *testing.T) {
	t.Run("avoids existing answers", func(t *testing.T) {
		fake := llm.NewFake().
			Respond("Provide comprehensive, factual", "Facts about Norse mythology.").
			Respond("generate a list of", `["ANSWER: Skadi"]`).
			Respond("pyramidal tossup question",
				`{"question": "This goddess chose her husband by looking only at his feet. (*) Name this Norse goddess of skiing and winter."}`)
		g := newTestGenerator(t, fake)

		existing := []model.Tossup{{Question: "q", Answer: "ANSWER: Loki"}}
		tossup, err := g.GenerateTossup(context.Background(), "Norse mythology", "", existing)
		require.NoError(t, err)
		assert.Equal(t, "ANSWER: Skadi", tossup.Answer)

		var listPrompt string
		for _, p := range fake.Prompts() {
			if strings.Contains(p, "generate a list of") {
				listPrompt = p
			}
		}
		require.NotEmpty(t, listPrompt)
		assert.Contains(t, listPrompt, "ANSWER: Loki")
	})

	t.Run("no accepted answer is an error", func(t *testing.T) {
		fake := llm.NewFake().
			Respond("Provide comprehensive, factual", "Sparse facts.").
			Respond("generate a list of", `[]`).
			Respond("We need additional ADVANCED", "Nothing new.")
		g := newTestGenerator(t, fake)

		_, err := g.GenerateTossup(context.Background(), "Obscurity", "", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSelectionShortfall)
	})
}

func TestGenerateBonusExcludesExistingAnswers(t *testing.T) {
	fake := llm.NewFake().
		Respond("Provide comprehensive, factual", "Facts about polar exploration.").
		Respond("themed quiz bowl bonus",
			`{"theme": "Ill-fated expeditions", "answer_a": "ANSWER: Terra Nova Expedition", "answer_b": "ANSWER: Franklin Expedition", "answer_c": "ANSWER: Italia airship"}`).
		Respond("preamble for a quiz bowl bonus",
			`{"preamble": "Answer these questions about polar expeditions that ended badly. For 10 points each:"}`).
		Respond("bonus part question", `{"question": "A part question with enough clues."}`)
	g := newTestGenerator(t, fake)

	existingBonus := model.Bonus{Parts: []model.BonusPart{{Answer: "ANSWER: Roald Amundsen"}}}
	existingTossup := model.Tossup{Answer: "ANSWER: Ernest Shackleton"}

	bonus, err := g.GenerateBonus(context.Background(), "Polar exploration", "",
		[]model.Bonus{existingBonus}, []model.Tossup{existingTossup})
	require.NoError(t, err)
	require.Len(t, bonus.Parts, 3)

	var tripletPrompt string
	for _, p := range fake.Prompts() {
		if strings.Contains(p, "themed quiz bowl bonus") {
			tripletPrompt = p
		}
	}
	require.NotEmpty(t, tripletPrompt)
	assert.Contains(t, tripletPrompt, "ANSWER: Roald Amundsen")
	assert.Contains(t, tripletPrompt, "ANSWER: Ernest Shackleton")
}

func TestGeneratePacketPropagatesGenerationFailure(t *testing.T) {
	genErr := errors.New("provider unavailable")
	fake := llm.NewFake()
	fake.Fallback = func(string) (string, error) { return "", genErr }
	g := newTestGenerator(t, fake)

	_, err := g.GeneratePacket(context.Background(), Request{Topic: "Anything"})
	require.Error(t, err)
	assert.ErrorIs(t, err, genErr)
}

func TestKnowledgeBaseAccumulatesLabeledSections(t *testing.T) {
	kb := &KnowledgeBase{}
	kb.Append("Comprehensive Knowledge", "first")
	kb.Append("Iteration 1 Deeper Search", "second")

	assert.Equal(t, 2, kb.Sections())
	text := kb.Text()
	assert.Contains(t, text, "=== Comprehensive Knowledge ===\nfirst")
	assert.Contains(t, text, "=== Iteration 1 Deeper Search ===\nsecond")
	assert.Less(t, strings.Index(text, "first"), strings.Index(text, "second"))
}
