package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/pokecard/internal/card"
	"github.com/smileynet/pokecard/internal/pokedex"
)

// Model is the Bubble Tea model for the one-shot card display. It quits as
// soon as the controller stops loading.
type Model struct {
	ctrl    *card.Controller
	sel     pokedex.Selection
	opts    card.Options
	spinner spinner.Model
	width   int
	aborted bool
}

// NewModel creates a Model that will resolve sel through ctrl.
func NewModel(ctrl *card.Controller, sel pokedex.Selection, opts card.Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		ctrl:    ctrl,
		sel:     sel,
		opts:    opts,
		spinner: s,
	}
}

// Init selects the record. A cache hit finishes immediately.
func (m Model) Init() tea.Cmd {
	cmd := m.ctrl.Select(m.sel)
	if !m.ctrl.Loading() {
		return tea.Quit
	}
	return tea.Batch(cmd, m.spinner.Tick)
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case card.RecordFetchedMsg:
		cmd := m.ctrl.Update(msg)
		if m.ctrl.Loading() {
			return m, cmd
		}
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the spinner while loading, otherwise the card.
func (m Model) View() string {
	if m.ctrl.Loading() {
		return m.spinner.View() + " " + card.LoadingText + "\n"
	}
	opts := m.opts
	if opts.Width == 0 && m.width > 0 {
		opts.Width = m.width
	}
	return card.View(m.ctrl, opts) + "\n"
}
