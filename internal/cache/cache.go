// Package cache holds the pokedex cache: one JSON object that maps selection
// keys to raw creature payloads, persisted as a whole under a single storage
// slot. Reads and writes always cover the full object; the last writer wins.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/smileynet/pokecard/internal/pokedex"
	"github.com/smileynet/pokecard/internal/storage"
)

// Key is the storage slot that holds the serialized cache.
const Key = "pokedex"

// Cache stores raw creature records keyed by selection.
// It is not safe for concurrent use; callers must synchronize externally
// or confine access to a single goroutine (e.g., the Bubble Tea update loop).
type Cache struct {
	store   storage.Storage
	key     string
	logger  zerolog.Logger
	entries map[string]json.RawMessage
}

// Option configures a Cache.
type Option func(*Cache)

// WithKey overrides the storage slot name.
func WithKey(key string) Option {
	return func(c *Cache) { c.key = key }
}

// WithLogger sets the logger used for parse warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// New creates an empty cache backed by store. Call Load to read persisted entries.
func New(store storage.Storage, opts ...Option) *Cache {
	c := &Cache{
		store:   store,
		key:     Key,
		logger:  zerolog.Nop(),
		entries: make(map[string]json.RawMessage),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the in-memory entries with the persisted object.
// A missing slot or content that does not parse yields an empty cache.
// Storage errors are returned and leave the entries untouched.
func (c *Cache) Load(ctx context.Context) error {
	raw, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		return fmt.Errorf("cache: loading %q: %w", c.key, err)
	}

	entries := make(map[string]json.RawMessage)
	if found && raw != "" {
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			c.logger.Warn().Err(err).Str("key", c.key).Msg("persisted cache is unreadable, starting empty")
			entries = make(map[string]json.RawMessage)
		}
	}
	// A persisted "null" decodes without error into a nil map.
	if entries == nil {
		entries = make(map[string]json.RawMessage)
	}
	c.entries = entries
	return nil
}

// Lookup returns the raw payload cached for sel.
func (c *Cache) Lookup(sel pokedex.Selection) (json.RawMessage, bool) {
	raw, ok := c.entries[sel.String()]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}
	return raw, true
}

// Record returns the decoded record cached for sel. An entry that no longer
// decodes is reported as a miss.
func (c *Cache) Record(sel pokedex.Selection) (pokedex.Record, bool) {
	raw, ok := c.Lookup(sel)
	if !ok {
		return pokedex.Record{}, false
	}
	rec, err := pokedex.Decode(raw)
	if err != nil {
		c.logger.Warn().Err(err).Stringer("selection", sel).Msg("cached record is unreadable")
		return pokedex.Record{}, false
	}
	return rec, true
}

// Put stores raw under sel, replacing any existing entry. It does not persist.
func (c *Cache) Put(sel pokedex.Selection, raw json.RawMessage) {
	if c.entries == nil {
		c.entries = make(map[string]json.RawMessage)
	}
	c.entries[sel.String()] = raw
}

// Save writes the whole cache object to storage.
func (c *Cache) Save(ctx context.Context) error {
	data, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("cache: marshaling: %w", err)
	}
	if err := c.store.Set(ctx, c.key, string(data)); err != nil {
		return fmt.Errorf("cache: saving %q: %w", c.key, err)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Selections returns the cached selections in ascending order.
// Keys that are not dex numbers are skipped.
func (c *Cache) Selections() []pokedex.Selection {
	out := make([]pokedex.Selection, 0, len(c.entries))
	for k := range c.entries {
		n, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		out = append(out, pokedex.Selection(n))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
