// Package pokedex defines the creature record served by PokéAPI and the
// helpers that turn a national dex number into lookup keys and display text.
package pokedex

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxSelection is the highest national dex number the browser steps to.
const MaxSelection = 1025

// ErrInvalidSelection indicates a selection that is not a positive dex number.
var ErrInvalidSelection = errors.New("pokedex: invalid selection")

// Selection identifies the creature currently being viewed by its national
// dex number. It is the cache key and the trigger for re-resolving data.
type Selection int

// String returns the cache key form of s, e.g. "25".
func (s Selection) String() string {
	return strconv.Itoa(int(s))
}

// ParseSelection parses a dex number such as "1" or "025".
func ParseSelection(raw string) (Selection, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSelection, raw)
	}
	return Selection(n), nil
}

// LookupKey returns the API path segment for s.
func LookupKey(s Selection) string {
	return strconv.Itoa(int(s))
}

// FullNumber returns s zero-padded to three digits ("001", "025", "1025").
func FullNumber(s Selection) string {
	return fmt.Sprintf("%03d", int(s))
}
