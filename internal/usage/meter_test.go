package usage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sockbowl/internal/llm"
)

func TestMeterCountsCallsAndChars(t *testing.T) {
	fake := llm.NewFake().Respond("hello", "world!")
	m := NewMeter(fake)

	resp, err := m.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "world!", resp)

	s := m.Stats()
	assert.Equal(t, 1, s.Calls)
	assert.Equal(t, 0, s.Errors)
	assert.Equal(t, len("hello"), s.PromptChars)
	assert.Equal(t, len("world!"), s.ResponseChars)
}

func TestMeterCountsErrors(t *testing.T) {
	fake := llm.NewFake()
	fake.Fallback = func(string) (string, error) { return "", errors.New("down") }
	m := NewMeter(fake)

	_, err := m.Generate(context.Background(), "anything")
	require.Error(t, err)

	s := m.Stats()
	assert.Equal(t, 1, s.Calls)
	assert.Equal(t, 1, s.Errors)
	assert.Zero(t, s.ResponseChars)
}
