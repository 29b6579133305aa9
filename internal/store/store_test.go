package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sockbowl/internal/model"
)

func samplePacket() *model.Packet {
	return &model.Packet{
		Name: "Generated Packet: Photosynthesis - test",
		Tossups: []model.Tossup{
			{Question: "Q1", Answer: "ANSWER: Calvin cycle"},
			{Question: "Q2", Answer: "ANSWER: RuBisCO"},
		},
		Bonuses: []model.Bonus{
			{
				Preamble: "For 10 points each:",
				Parts: []model.BonusPart{
					{Question: "PQ1", Answer: "ANSWER: chlorophyll a"},
					{Question: "PQ2", Answer: "ANSWER: thylakoid"},
					{Question: "PQ3", Answer: "ANSWER: photosystem II"},
				},
			},
		},
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.SavePacket(context.Background(), samplePacket()))

	packets := s.Packets()
	require.Len(t, packets, 1)
	assert.Equal(t, "Generated Packet: Photosynthesis - test", packets[0].Name)
	require.NoError(t, s.Close(context.Background()))
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packets.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close(context.Background())

	ctx := context.Background()
	require.NoError(t, s.SavePacket(ctx, samplePacket()))
	require.NoError(t, s.SavePacket(ctx, &model.Packet{Name: "second packet"}))

	names, err := s.LoadPacketNames(ctx)
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Equal(t, "second packet", names[0]) // newest first
}
