package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/pokecard/internal/card"
	"github.com/smileynet/pokecard/internal/pokedex"
)

// ErrNoData is returned when a selection could not be resolved to a record.
var ErrNoData = errors.New("tui: no data")

// Display resolves one selection through a controller and prints its card.
type Display interface {
	Run(ctx context.Context, ctrl *card.Controller, sel pokedex.Selection) error
}

// DisplayOptions configures display creation.
type DisplayOptions struct {
	Writer     io.Writer    // Output destination (default: os.Stdout).
	ForcePlain bool         // Force plain text even if TTY.
	Card       card.Options // Layout passed to the card renderer.
}

// NewDisplay returns a TUI display when stdout is a TTY, or a plain text
// display otherwise. ForcePlain overrides TTY detection.
func NewDisplay(opts DisplayOptions) Display {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	if opts.ForcePlain || !isTTY(opts.Writer) {
		return &PlainDisplay{w: opts.Writer, opts: opts.Card}
	}

	return &TUIDisplay{w: opts.Writer, opts: opts.Card}
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainDisplay runs the controller's commands inline and prints the card
// once, without a spinner or terminal control sequences.
type PlainDisplay struct {
	w    io.Writer
	opts card.Options
}

// Run selects sel and drives any resulting fetch to completion.
func (d *PlainDisplay) Run(ctx context.Context, ctrl *card.Controller, sel pokedex.Selection) error {
	cmd := ctrl.Select(sel)
	for cmd != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		cmd = ctrl.Update(cmd())
	}

	if _, ok := ctrl.Data(); !ok {
		return noData(sel)
	}
	_, err := fmt.Fprintln(d.w, card.View(ctrl, d.opts))
	return err
}

// TUIDisplay shows a spinner while the record loads, then leaves the card
// on screen.
type TUIDisplay struct {
	w    io.Writer
	opts card.Options
}

// Run starts the Bubble Tea program and waits for the selection to resolve.
func (d *TUIDisplay) Run(ctx context.Context, ctrl *card.Controller, sel pokedex.Selection) error {
	p := tea.NewProgram(NewModel(ctrl, sel, d.opts), tea.WithOutput(d.w), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	if m, ok := final.(Model); ok && m.aborted {
		return context.Canceled
	}

	if _, ok := ctrl.Data(); !ok {
		return noData(sel)
	}
	return nil
}

func noData(sel pokedex.Selection) error {
	return fmt.Errorf("%w for #%s", ErrNoData, pokedex.FullNumber(sel))
}
