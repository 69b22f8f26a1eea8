// Package card resolves the selected creature through the persisted cache or
// the network and renders it as a terminal card.
package card

import (
	"context"
	"encoding/json"

	"github.com/smileynet/pokecard/internal/pokedex"
)

// --- Consumer-side interfaces ---

// Fetcher retrieves the raw payload for an API lookup key.
type Fetcher interface {
	Pokemon(ctx context.Context, key string) (json.RawMessage, error)
}

// --- tea.Msg types ---

// RecordFetchedMsg carries the result of a network fetch. Generation is the
// controller generation at the time the fetch started.
type RecordFetchedMsg struct {
	Selection  pokedex.Selection
	Generation uint64
	Raw        json.RawMessage
	Record     pokedex.Record
	Err        error
}
