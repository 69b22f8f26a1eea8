package dashboard

import (
	"fmt"
	"strings"

	"github.com/smileynet/pokecard/internal/cache"
	"github.com/smileynet/pokecard/internal/card"
	"github.com/smileynet/pokecard/internal/pokedex"
)

// CursorMarker is the prefix shown on the highlighted history row.
const CursorMarker = "▸ "

// historyState lists the selections already in the cache, with a cursor.
type historyState struct {
	entries []HistoryEntry
	cursor  int
}

// loadHistory reads the in-memory cache contents. The cache is loaded by
// the controller on every resolution, so no storage access happens here.
func loadHistory(c *cache.Cache) []HistoryEntry {
	if c == nil {
		return nil
	}
	var entries []HistoryEntry
	for _, sel := range c.Selections() {
		e := HistoryEntry{Selection: sel}
		if rec, ok := c.Record(sel); ok {
			e.Name = rec.Name
		}
		entries = append(entries, e)
	}
	return entries
}

// withEntries replaces the list, keeping the cursor on the same selection
// when it is still present.
func (hs historyState) withEntries(entries []HistoryEntry) historyState {
	var current pokedex.Selection
	if sel, ok := hs.selected(); ok {
		current = sel
	}
	hs.entries = entries
	hs.cursor = 0
	for i, e := range entries {
		if e.Selection == current {
			hs.cursor = i
			break
		}
	}
	return hs
}

// up moves the cursor up, wrapping to the bottom.
func (hs historyState) up() historyState {
	if len(hs.entries) > 0 {
		hs.cursor--
		if hs.cursor < 0 {
			hs.cursor = len(hs.entries) - 1
		}
	}
	return hs
}

// down moves the cursor down, wrapping to the top.
func (hs historyState) down() historyState {
	if len(hs.entries) > 0 {
		hs.cursor++
		if hs.cursor >= len(hs.entries) {
			hs.cursor = 0
		}
	}
	return hs
}

// selected returns the selection under the cursor.
func (hs historyState) selected() (pokedex.Selection, bool) {
	if len(hs.entries) == 0 || hs.cursor < 0 || hs.cursor >= len(hs.entries) {
		return 0, false
	}
	return hs.entries[hs.cursor].Selection, true
}

// View renders the history list. current is highlighted wherever it appears.
func (hs historyState) View(current pokedex.Selection) string {
	if len(hs.entries) == 0 {
		return mutedText.Render("Nothing cached yet")
	}

	var b strings.Builder
	for i, e := range hs.entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i == hs.cursor {
			b.WriteString(CursorMarker)
		} else {
			b.WriteString("  ")
		}
		line := fmt.Sprintf("#%s %s", pokedex.FullNumber(e.Selection), card.DisplayName(e.Name))
		if e.Selection == current {
			b.WriteString(selectionText.Render(line))
		} else {
			b.WriteString(line)
		}
	}
	return b.String()
}
