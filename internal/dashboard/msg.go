// Package dashboard implements a two-pane TUI for browsing creature cards.
// Separate from internal/tui which handles the one-shot show display.
package dashboard

import "github.com/smileynet/pokecard/internal/pokedex"

// Focus represents which pane has keyboard focus.
type Focus int

const (
	PaneLeft  Focus = iota // Left pane (cached history) has focus.
	PaneRight              // Right pane (card viewport) has focus.
)

// HistoryEntry is one cached selection listed in the left pane.
type HistoryEntry struct {
	Selection pokedex.Selection
	Name      string
}
