package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/pokecard/internal/cache"
	"github.com/smileynet/pokecard/internal/card"
	"github.com/smileynet/pokecard/internal/storage"
)

var testBodies = map[string]string{
	"1": `{"name":"bulbasaur","types":[{"type":{"name":"grass"}}],"stats":[{"stat":{"name":"hp"},"base_stat":45}],"moves":[],"sprites":{"front_default":"u"}}`,
	"2": `{"name":"ivysaur","types":[{"type":{"name":"grass"}}],"stats":[{"stat":{"name":"special-attack"},"base_stat":80}],"moves":[{"move":{"name":"hyper-beam"}}],"sprites":{}}`,
	"3": `{"name":"venusaur","types":[{"type":{"name":"grass"}}],"stats":[],"moves":[],"sprites":{}}`,
}

// fakeFetcher serves testBodies and records requested keys.
type fakeFetcher struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeFetcher) Pokemon(_ context.Context, key string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, key)
	body, ok := testBodies[key]
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

// newTestModel returns a model wired to a memory-backed controller.
func newTestModel(t *testing.T, opts ...Option) (Model, *fakeFetcher) {
	t.Helper()
	c := cache.New(storage.NewMemoryStore())
	f := &fakeFetcher{}
	ctrl := card.NewController(c, f)
	return NewModel(ctrl, append([]Option{WithCache(c)}, opts...)...), f
}

// newSizedModel returns a test model that has received a window size.
func newSizedModel(t *testing.T, w, h int, opts ...Option) (Model, *fakeFetcher) {
	t.Helper()
	m, f := newTestModel(t, opts...)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return updated.(Model), f
}

// drain runs cmd and feeds fetch results back into the model until no
// fetch is outstanding. Spinner ticks and batches are unwrapped.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case card.RecordFetchedMsg:
			updated, next := m.Update(msg)
			m = updated.(Model)
			queue = append(queue, next)
		}
	}
	return m
}

// press sends a key and drains the resulting command.
func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	updated, cmd := m.Update(k)
	return drain(t, updated.(Model), cmd)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
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
