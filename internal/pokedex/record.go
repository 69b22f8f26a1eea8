package pokedex

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Record is the creature payload returned by GET /pokemon/{id}.
// Only the fields the card displays are decoded; the cache keeps the raw
// payload so nothing else is lost.
type Record struct {
	Name      string        `json:"name"`
	Height    int           `json:"height"`
	Abilities []AbilitySlot `json:"abilities"`
	Stats     []StatSlot    `json:"stats"`
	Types     []TypeSlot    `json:"types"`
	Moves     []MoveSlot    `json:"moves"`
	Sprites   Sprites       `json:"sprites"`
}

// NamedResource is PokéAPI's {name, url} reference.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// GetName returns the resource name, or "" for a nil resource.
func (r *NamedResource) GetName() string {
	if r == nil {
		return ""
	}
	return r.Name
}

// AbilitySlot wraps one ability.
type AbilitySlot struct {
	Ability  *NamedResource `json:"ability"`
	IsHidden bool           `json:"is_hidden"`
	Slot     int            `json:"slot"`
}

// StatSlot pairs a stat with its base value.
type StatSlot struct {
	Stat     *NamedResource `json:"stat"`
	BaseStat int            `json:"base_stat"`
}

// TypeSlot wraps one elemental type.
type TypeSlot struct {
	Slot int            `json:"slot"`
	Type *NamedResource `json:"type"`
}

// MoveSlot wraps one learnable move.
type MoveSlot struct {
	Move *NamedResource `json:"move"`
}

// Decode parses a raw API payload into a Record.
func Decode(raw []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("pokedex: decoding record: %w", err)
	}
	return rec, nil
}

// SpriteEntry is one variant in the sprites object. Value is kept raw
// because variants are URLs, nulls, or nested namespaces.
type SpriteEntry struct {
	Key   string
	Value json.RawMessage
}

// Truthy reports whether the value would display: null, false, any
// spelling of numeric zero and the empty string do not.
func (e SpriteEntry) Truthy() bool {
	raw := bytes.TrimSpace(e.Value)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 'n':
		return string(raw) != "null"
	case 'f':
		return string(raw) != "false"
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return true
		}
		return s != ""
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return true
		}
		return f != 0
	}
	return true
}

// URL returns the entry's value when it is a JSON string, or "".
func (e SpriteEntry) URL() string {
	var s string
	if err := json.Unmarshal(e.Value, &s); err != nil {
		return ""
	}
	return s
}

// Sprites is the sprites object with its key order preserved.
type Sprites []SpriteEntry

var errSpritesNotObject = errors.New("pokedex: sprites is not an object")

// UnmarshalJSON reads the object token by token so insertion order survives.
func (s *Sprites) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("pokedex: decoding sprites: %w", err)
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errSpritesNotObject
	}

	var out Sprites
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("pokedex: decoding sprites: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return errSpritesNotObject
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("pokedex: decoding sprite %q: %w", key, err)
		}
		out = append(out, SpriteEntry{Key: key, Value: raw})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("pokedex: decoding sprites: %w", err)
	}
	*s = out
	return nil
}

// MarshalJSON writes the entries back in their original order.
func (s Sprites) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(e.Value) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(e.Value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the entry stored under key.
func (s Sprites) Get(key string) (SpriteEntry, bool) {
	for _, e := range s {
		if e.Key == key {
			return e, true
		}
	}
	return SpriteEntry{}, false
}
