package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/smileynet/pokecard/internal/cache"
	"github.com/smileynet/pokecard/internal/card"
	"github.com/smileynet/pokecard/internal/storage"
)

const bulbasaurJSON = `{"name":"bulbasaur","types":[{"type":{"name":"grass"}}],"stats":[{"stat":{"name":"hp"},"base_stat":45}],"moves":[{"move":{"name":"razor-wind"}}],"sprites":{"front_default":"u"}}`

var errNetwork = errors.New("network down")

// fakeFetcher serves canned bodies by lookup key and counts calls.
type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	err    error
	calls  int
}

func (f *fakeFetcher) Pokemon(_ context.Context, key string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.bodies[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return json.RawMessage(body), nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// newTestController returns a controller over a fresh memory store that
// knows bulbasaur.
func newTestController(t *testing.T) (*card.Controller, *fakeFetcher, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	f := &fakeFetcher{bodies: map[string]string{"1": bulbasaurJSON}}
	return card.NewController(cache.New(store), f), f, store
}

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	var out []byte
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 'A' || s[j] > 'Z') && (s[j] < 'a' || s[j] > 'z') {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j
		} else {
			out = append(out, s[i])
			i++
		}
	}
	return string(out)
}

// containsPlainText checks if s contains sub after stripping ANSI escapes.
func containsPlainText(s, sub string) bool {
	return strings.Contains(stripANSI(s), sub)
}
