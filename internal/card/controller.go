package card

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/smileynet/pokecard/internal/cache"
	"github.com/smileynet/pokecard/internal/pokedex"
)

// Controller decides, for each selection change, whether the card is served
// from the persisted cache or fetched from the network, and tracks the
// loading flag for the current selection.
//
// All methods must be called from a single goroutine (the Bubble Tea update
// loop). The network call itself runs inside the returned tea.Cmd and reports
// back through RecordFetchedMsg.
type Controller struct {
	ctx     context.Context
	cache   *cache.Cache
	fetcher Fetcher
	logger  zerolog.Logger

	selection  pokedex.Selection
	selected   bool
	generation uint64
	data       *pokedex.Record
	loading    bool
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithContext sets the context used for storage access and fetches.
func WithContext(ctx context.Context) ControllerOption {
	return func(c *Controller) { c.ctx = ctx }
}

// WithLogger sets the controller logger.
func WithLogger(l zerolog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

// NewController creates a Controller. A nil cache means persistent storage
// is unavailable and every resolution is skipped.
func NewController(c *cache.Cache, f Fetcher, opts ...ControllerOption) *Controller {
	ctrl := &Controller{
		ctx:     context.Background(),
		cache:   c,
		fetcher: f,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(ctrl)
	}
	return ctrl
}

// Selection returns the current selection.
func (c *Controller) Selection() pokedex.Selection {
	return c.selection
}

// Data returns the record resolved for the current selection, if any.
func (c *Controller) Data() (pokedex.Record, bool) {
	if c.data == nil {
		return pokedex.Record{}, false
	}
	return *c.data, true
}

// Loading reports whether a fetch for the current selection is outstanding.
func (c *Controller) Loading() bool {
	return c.loading
}

// Select changes the selection and re-evaluates data availability.
// Selecting the current selection again does nothing.
func (c *Controller) Select(sel pokedex.Selection) tea.Cmd {
	if c.selected && sel == c.selection {
		return nil
	}
	c.selection = sel
	c.selected = true
	c.generation++
	c.data = nil
	return c.resolve()
}

// Update applies messages produced by commands returned from Select.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(RecordFetchedMsg); ok {
		return c.applyFetched(msg)
	}
	return nil
}

// resolve serves the current selection from the cache or starts a fetch.
func (c *Controller) resolve() tea.Cmd {
	if c.loading || c.cache == nil {
		return nil
	}

	if err := c.cache.Load(c.ctx); err != nil {
		c.logger.Debug().Err(err).Msg("storage unavailable, skipping cache lookup")
		return nil
	}

	if rec, ok := c.cache.Record(c.selection); ok {
		c.data = &rec
		c.logger.Debug().Stringer("selection", c.selection).Msg("found pokemon in cache")
		return nil
	}

	c.loading = true
	return fetch(c.ctx, c.fetcher, c.selection, c.generation)
}

// applyFetched commits a fetch result. Results are always cached; a result
// for a superseded generation is not shown and the current selection is
// resolved instead.
func (c *Controller) applyFetched(msg RecordFetchedMsg) tea.Cmd {
	c.loading = false
	stale := msg.Generation != c.generation

	if msg.Err != nil {
		c.logger.Error().Err(msg.Err).Stringer("selection", msg.Selection).Msg("fetching pokemon failed")
	} else {
		if c.cache != nil {
			c.cache.Put(msg.Selection, msg.Raw)
			if err := c.cache.Save(c.ctx); err != nil {
				c.logger.Error().Err(err).Msg("persisting cache failed")
			}
		}
		if !stale {
			rec := msg.Record
			c.data = &rec
			return nil
		}
	}

	if stale {
		c.logger.Debug().
			Stringer("fetched", msg.Selection).
			Stringer("current", c.selection).
			Msg("discarding stale fetch result")
		return c.resolve()
	}
	return nil
}

// fetch returns a command that requests sel and decodes the payload.
func fetch(ctx context.Context, f Fetcher, sel pokedex.Selection, gen uint64) tea.Cmd {
	key := pokedex.LookupKey(sel)
	return func() tea.Msg {
		raw, err := f.Pokemon(ctx, key)
		if err != nil {
			return RecordFetchedMsg{Selection: sel, Generation: gen, Err: err}
		}
		rec, err := pokedex.Decode(raw)
		if err != nil {
			return RecordFetchedMsg{Selection: sel, Generation: gen, Err: err}
		}
		return RecordFetchedMsg{Selection: sel, Generation: gen, Raw: raw, Record: rec}
	}
}
