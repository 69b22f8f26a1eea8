package card

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/pokecard/internal/cache"
	"github.com/smileynet/pokecard/internal/storage"
)

const bulbasaurJSON = `{"name":"bulbasaur","types":[{"type":{"name":"grass"}}],"stats":[{"stat":{"name":"hp"},"base_stat":45}],"moves":[],"sprites":{"front_default":"u"}}`

const ivysaurJSON = `{"name":"ivysaur","types":[{"type":{"name":"grass"}},{"type":{"name":"poison"}}],"stats":[{"stat":{"name":"special-attack"},"base_stat":80}],"moves":[{"move":{"name":"hyper-beam"}}],"sprites":{"front_default":"u2","back_default":null,"versions":{},"other":{}}}`

var errNetwork = errors.New("network down")

// fakeFetcher serves canned bodies by lookup key and records every call.
type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	err    error
	calls  []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{bodies: map[string]string{
		"1": bulbasaurJSON,
		"2": ivysaurJSON,
	}}
}

func (f *fakeFetcher) Pokemon(_ context.Context, key string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, key)
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
	return len(f.calls)
}

// failingStore reports every operation as unavailable.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, storage.ErrUnavailable
}

func (failingStore) Set(context.Context, string, string) error {
	return storage.ErrUnavailable
}

// newTestController returns a controller over a fresh memory store.
func newTestController(t *testing.T) (*Controller, *fakeFetcher, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	f := newFakeFetcher()
	return NewController(cache.New(store), f), f, store
}

// runCmd executes a command and returns its message, failing on nil.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	return cmd()
}

// persisted returns the decoded cache slot from store.
func persisted(t *testing.T, store storage.Storage) map[string]json.RawMessage {
	t.Helper()
	raw, found, err := store.Get(context.Background(), cache.Key)
	if err != nil {
		t.Fatalf("store.Get() error = %v", err)
	}
	m := map[string]json.RawMessage{}
	if !found {
		return m
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("persisted cache is not JSON: %v", err)
	}
	return m
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
