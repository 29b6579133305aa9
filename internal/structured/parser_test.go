package structured

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sockbowl/internal/llm"
)

type questionPayload struct {
	Question string `json:"question"`
}

func (q *questionPayload) Validate() error {
	if q.Question == "" {
		return fmt.Errorf("question is empty")
	}
	return nil
}

func TestParseObjectCleanResponse(t *testing.T) {
	p := NewParser(llm.NewFake(), nil)

	var out questionPayload
	err := p.ParseObject(context.Background(), "Here it is:\n{\"question\": \"What is RuBisCO?\"}", "question (string)", &out)
	require.NoError(t, err)
	assert.Equal(t, "What is RuBisCO?", out.Question)
}

func TestParseObjectRemediation(t *testing.T) {
	// First remediation pass fixes the payload.
	fake := llm.NewFake().Respond("failed to parse", `{"question": "fixed"}`)
	fake.Fallback = func(string) (string, error) { return `{"question": "fixed"}`, nil }

	p := NewParser(fake, nil)

	var out questionPayload
	err := p.ParseObject(context.Background(), `{"question": fixed}`, "question (string)", &out)
	require.NoError(t, err)
	assert.Equal(t, "fixed", out.Question)
	assert.Equal(t, 1, fake.CallCount())
}

func TestParseObjectCeilingTermination(t *testing.T) {
	// A remediator that never produces valid JSON must terminate in exactly
	// MaxObjectAttempts decode attempts (ceiling - 1 remediation calls).
	fake := llm.NewFake()
	fake.Fallback = func(string) (string, error) { return "still { not json", nil }

	p := NewParser(fake, nil)

	var out questionPayload
	err := p.ParseObject(context.Background(), "not json at all {", "question (string)", &out)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, MaxObjectAttempts, parseErr.Attempts)
	assert.Equal(t, "still { not json", parseErr.LastRaw)
	assert.Equal(t, MaxObjectAttempts-1, fake.CallCount())
}

func TestParseArrayCountShortfall(t *testing.T) {
	fake := llm.NewFake()
	fake.Fallback = func(string) (string, error) { return `["a", "b"]`, nil }

	p := NewParser(fake, nil)

	var out []string
	err := p.ParseArray(context.Background(), `["a", "b"]`, 3, "answer strings", &out)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, MaxArrayAttempts, parseErr.Attempts)
	assert.Contains(t, parseErr.Err.Error(), "incomplete array")
}

func TestParseArrayExactCount(t *testing.T) {
	p := NewParser(llm.NewFake(), nil)

	var out []string
	err := p.ParseArray(context.Background(), `["ANSWER: x", "ANSWER: y", "ANSWER: z"]`, 3, "answer strings", &out)
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestParseObjectValidationTriggersRemediation(t *testing.T) {
	// Decodes fine but fails field validation; remediation supplies the field.
	fake := llm.NewFake()
	fake.Fallback = func(string) (string, error) { return `{"question": "now present"}`, nil }

	p := NewParser(fake, nil)

	var out questionPayload
	err := p.ParseObject(context.Background(), `{"other": "field"}`, "question (string)", &out)
	require.NoError(t, err)
	assert.Equal(t, "now present", out.Question)
}

func TestParseObjectGenerationFailureIsFatal(t *testing.T) {
	genErr := errors.New("service unavailable")
	fake := llm.NewFake()
	fake.Fallback = func(string) (string, error) { return "", genErr }

	p := NewParser(fake, nil)

	var out questionPayload
	err := p.ParseObject(context.Background(), "{ broken", "question (string)", &out)
	require.Error(t, err)

	var parseErr *ParseError
	assert.False(t, errors.As(err, &parseErr), "generation failure must not be reported as ParseError")
	assert.ErrorIs(t, err, genErr)
	assert.Equal(t, 1, fake.CallCount())
}

func TestParseObjectSanitizesMultilineStrings(t *testing.T) {
	p := NewParser(llm.NewFake(), nil)

	raw := "{\"question\": \"First clue.\nSecond clue.\"}"
	var out questionPayload
	err := p.ParseObject(context.Background(), raw, "question (string)", &out)
	require.NoError(t, err)
	assert.Equal(t, "First clue.\nSecond clue.", out.Question)
}
