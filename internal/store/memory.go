package store

import (
	"context"
	"sync"

	"sockbowl/internal/model"
)

// MemoryStore keeps saved packets in memory. Used by tests and by the CLI
// when no persistence backend is configured.
type MemoryStore struct {
	mu      sync.Mutex
	packets []*model.Packet
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SavePacket implements PacketStore.
func (s *MemoryStore) SavePacket(_ context.Context, packet *model.Packet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packets = append(s.packets, packet)
	return nil
}

// Close implements PacketStore.
func (s *MemoryStore) Close(context.Context) error { return nil }

// Packets returns every packet saved so far.
func (s *MemoryStore) Packets() []*model.Packet {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Packet, len(s.packets))
	copy(out, s.packets)
	return out
}
