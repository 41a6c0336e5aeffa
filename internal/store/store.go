// internal/store/store.go
//
// Persistence interfaces for player progression records. Implementations:
//   - sqlite (players.go): durable store used by the server.
//   - memory (memory.go): map-backed store for tests.

package store

import (
	"context"

	"github.com/bananablitz/go-server/internal/game"
)

// PlayerStore persists per-account game progression. Get-or-create plus
// whole-record save is all the core needs; the storage engine is an
// implementation detail.
type PlayerStore interface {
	// GetOrCreate loads the player record for userID, creating a fresh one
	// with starting resources if none exists.
	GetOrCreate(ctx context.Context, userID string) (*game.Player, error)

	// Save writes the full player record back.
	Save(ctx context.Context, p *game.Player) error
}
