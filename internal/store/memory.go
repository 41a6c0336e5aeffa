// internal/store/memory.go
//
// In-memory implementation of PlayerStore.
// Used by handler tests and anywhere durability is not required.
//
// Characteristics:
//   - Stores *game.Player objects keyed by user ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"

	"github.com/bananablitz/go-server/internal/game"
)

// memory is a map-based PlayerStore implementation.
type memory struct {
	mu      sync.RWMutex            // guards players map
	players map[string]*game.Player // keyed by Player.UserID
}

// NewMemoryStore constructs a new in-memory PlayerStore.
func NewMemoryStore() PlayerStore {
	return &memory{players: make(map[string]*game.Player)}
}

// GetOrCreate returns the stored record or creates a fresh one.
func (m *memory) GetOrCreate(ctx context.Context, userID string) (*game.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.players[userID]; ok {
		return p, nil
	}
	p := game.NewPlayer(userID)
	m.players[userID] = p
	return p, nil
}

// Save adds or updates the record in the map.
func (m *memory) Save(ctx context.Context, p *game.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[p.UserID] = p
	return nil
}
