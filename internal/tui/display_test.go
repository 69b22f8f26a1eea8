package tui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/smileynet/pokecard/internal/cache"
	"github.com/smileynet/pokecard/internal/card"
	"github.com/smileynet/pokecard/internal/pokedex"
	"github.com/smileynet/pokecard/internal/storage"
)

// --- isTTY ---

func TestIsTTY_NonFileWriter(t *testing.T) {
	var buf bytes.Buffer
	if isTTY(&buf) {
		t.Error("non-*os.File writer should not be a TTY")
	}
}

func TestIsTTY_RegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "test")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	if isTTY(f) {
		t.Error("regular file should not be a TTY")
	}
}

// --- NewDisplay ---

func TestNewDisplay_BufferIsPlain(t *testing.T) {
	var buf bytes.Buffer
	d := NewDisplay(DisplayOptions{Writer: &buf})
	if _, ok := d.(*PlainDisplay); !ok {
		t.Errorf("NewDisplay(buffer) = %T, want *PlainDisplay", d)
	}
}

func TestNewDisplay_ForcePlain(t *testing.T) {
	d := NewDisplay(DisplayOptions{Writer: os.Stdout, ForcePlain: true})
	if _, ok := d.(*PlainDisplay); !ok {
		t.Errorf("NewDisplay(ForcePlain) = %T, want *PlainDisplay", d)
	}
}

// --- PlainDisplay ---

func TestPlainDisplay_FetchesAndPrintsCard(t *testing.T) {
	// Given: an empty cache
	ctrl, f, _ := newTestController(t)
	var buf bytes.Buffer
	d := NewDisplay(DisplayOptions{Writer: &buf})

	// When: selection 1 is shown
	if err := d.Run(context.Background(), ctrl, 1); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Then: one fetch happened and the card was printed
	if got := f.callCount(); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}
	out := buf.String()
	for _, want := range []string{"#001", "bulbasaur", "razor wind", "/pokemon/001.png"} {
		if !containsPlainText(out, want) {
			t.Errorf("output missing %q:\n%s", want, stripANSI(out))
		}
	}
}

func TestPlainDisplay_SecondRunServedFromCache(t *testing.T) {
	// Given: a store shared by two runs
	store := storage.NewMemoryStore()
	f := &fakeFetcher{bodies: map[string]string{"1": bulbasaurJSON}}

	for i := 0; i < 2; i++ {
		ctrl := card.NewController(cache.New(store), f)
		var buf bytes.Buffer
		if err := NewDisplay(DisplayOptions{Writer: &buf}).Run(context.Background(), ctrl, 1); err != nil {
			t.Fatalf("run %d: Run() error = %v", i, err)
		}
	}

	// Then: only the first run touched the network
	if got := f.callCount(); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}
}

func TestPlainDisplay_FetchFailureReturnsErrNoData(t *testing.T) {
	ctrl, f, _ := newTestController(t)
	f.err = errNetwork
	var buf bytes.Buffer

	err := NewDisplay(DisplayOptions{Writer: &buf}).Run(context.Background(), ctrl, 1)

	if !errors.Is(err, ErrNoData) {
		t.Fatalf("Run() error = %v, want ErrNoData", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be printed on failure, got %q", buf.String())
	}
}

func TestPlainDisplay_CanceledContext(t *testing.T) {
	ctrl, f, _ := newTestController(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewDisplay(DisplayOptions{Writer: &bytes.Buffer{}}).Run(ctx, ctrl, pokedex.Selection(1))

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if got := f.callCount(); got != 0 {
		t.Errorf("fetch calls = %d, want 0", got)
	}
}
