package card

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/pokecard/internal/pokedex"
)

// LoadingText is shown while no data is available for the selection.
const LoadingText = "Loading..."

// DefaultImageCategory is the static asset directory for primary images.
const DefaultImageCategory = "pokemon"

// reservedSpriteKeys are nested namespaces that never display as a sprite.
var reservedSpriteKeys = map[string]bool{
	"versions": true,
	"other":    true,
}

// Options controls card layout.
type Options struct {
	ImageCategory string // Primary image directory; DefaultImageCategory when empty.
	Width         int    // Layout width; moves wrap to fit.
}

// Sprite is one displayable sprite variant.
type Sprite struct {
	Variant string
	URL     string
}

// StatRow is one displayed stat.
type StatRow struct {
	Name  string
	Value int
}

// Card is the display-ready breakdown of a record.
type Card struct {
	Number    string
	Name      string
	Height    int
	Abilities []string
	Types     []string
	Image     string
	Sprites   []Sprite
	Stats     []StatRow
	Moves     []string
}

// DisplayName replaces the separators in API names with spaces
// ("special-attack" becomes "special attack").
func DisplayName(name string) string {
	return strings.ReplaceAll(name, "-", " ")
}

// FilterSprites returns the sprite keys to display, in document order:
// falsy values and the reserved namespaces are dropped.
func FilterSprites(sprites pokedex.Sprites) []string {
	var keys []string
	for _, e := range sprites {
		if !e.Truthy() || reservedSpriteKeys[e.Key] {
			continue
		}
		keys = append(keys, e.Key)
	}
	return keys
}

// ImagePath returns the static path of the primary image for sel.
func ImagePath(category string, sel pokedex.Selection) string {
	if category == "" {
		category = DefaultImageCategory
	}
	return "/" + category + "/" + pokedex.FullNumber(sel) + ".png"
}

// NewCard derives the display breakdown for rec shown as sel.
func NewCard(sel pokedex.Selection, rec pokedex.Record, opts Options) Card {
	c := Card{
		Number: pokedex.FullNumber(sel),
		Name:   rec.Name,
		Height: rec.Height,
		Image:  ImagePath(opts.ImageCategory, sel),
	}
	for _, a := range rec.Abilities {
		c.Abilities = append(c.Abilities, DisplayName(a.Ability.GetName()))
	}
	for _, t := range rec.Types {
		c.Types = append(c.Types, t.Type.GetName())
	}
	for _, key := range FilterSprites(rec.Sprites) {
		e, _ := rec.Sprites.Get(key)
		c.Sprites = append(c.Sprites, Sprite{Variant: key, URL: e.URL()})
	}
	for _, s := range rec.Stats {
		c.Stats = append(c.Stats, StatRow{Name: DisplayName(s.Stat.GetName()), Value: s.BaseStat})
	}
	for _, m := range rec.Moves {
		c.Moves = append(c.Moves, DisplayName(m.Move.GetName()))
	}
	return c
}

// View renders the controller's current state: the card once data is
// resolved, otherwise the loading placeholder.
func View(ctrl *Controller, opts Options) string {
	rec, ok := ctrl.Data()
	if ctrl.Loading() || !ok {
		return LoadingText
	}
	return NewCard(ctrl.Selection(), rec, opts).Render(opts.Width)
}

// Render lays the card out for the given width.
func (c Card) Render(width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	var b strings.Builder
	b.WriteString(numberStyle.Render("#" + c.Number))
	b.WriteString("\n")
	b.WriteString(nameStyle.Render(c.Name))
	b.WriteString("\n")

	meta := fmt.Sprintf("height %d", c.Height)
	if len(c.Abilities) > 0 {
		meta += " · " + strings.Join(c.Abilities, ", ")
	}
	b.WriteString(dimStyle.Render(meta))
	b.WriteString("\n")

	if len(c.Types) > 0 {
		badges := make([]string, len(c.Types))
		for i, t := range c.Types {
			badges[i] = TypeBadge(t)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, badges...))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("image " + c.Image))
	b.WriteString("\n")

	if len(c.Sprites) > 0 {
		b.WriteString(sectionStyle.Render("Sprites"))
		b.WriteString("\n")
		for _, s := range c.Sprites {
			fmt.Fprintf(&b, "  %s  %s\n", s.Variant, dimStyle.Render(s.URL))
		}
	}

	b.WriteString(sectionStyle.Render("Stats"))
	b.WriteString("\n")
	nameWidth := 0
	for _, s := range c.Stats {
		if w := lipgloss.Width(s.Name); w > nameWidth {
			nameWidth = w
		}
	}
	for _, s := range c.Stats {
		pad := strings.Repeat(" ", nameWidth-lipgloss.Width(s.Name))
		fmt.Fprintf(&b, "  %s%s  %s\n", s.Name, pad, statValueStyle.Render(fmt.Sprint(s.Value)))
	}

	b.WriteString(sectionStyle.Render("Moves"))
	b.WriteString("\n")
	b.WriteString(moveGrid(c.Moves, width))

	return strings.TrimRight(b.String(), "\n")
}

// moveGrid wraps move buttons into rows no wider than width.
func moveGrid(moves []string, width int) string {
	if len(moves) == 0 {
		return ""
	}

	var (
		rows    []string
		row     []string
		rowSize int
	)
	for _, m := range moves {
		cell := moveStyle.Render(m)
		w := lipgloss.Width(cell)
		if len(row) > 0 && rowSize+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowSize = nil, 0
		}
		row = append(row, cell)
		rowSize += w
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
