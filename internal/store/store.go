// Package store persists finalized packets. The pipeline invokes a
// PacketStore exactly once per successful run, with the fully assembled
// packet; nothing partial is ever written.
package store

import (
	"context"

	"sockbowl/internal/model"
)

// PacketStore is the persistence collaborator.
type PacketStore interface {
	SavePacket(ctx context.Context, packet *model.Packet) error
	Close(ctx context.Context) error
}
