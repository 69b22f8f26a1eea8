package dashboard

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/pokecard/internal/cache"
	"github.com/smileynet/pokecard/internal/card"
	"github.com/smileynet/pokecard/internal/pokedex"
)

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// Model is the root Bubble Tea model for the dashboard TUI.
// The left pane lists cached selections; the right pane shows the card for
// the current selection in a scrollable viewport.
type Model struct {
	focus    Focus
	width    int
	height   int
	viewport viewport.Model
	help     help.Model
	spinner  spinner.Model

	ctrl    *card.Controller
	cache   *cache.Cache
	sel     pokedex.Selection
	cardOpt card.Options
	history historyState
}

// Option configures a Model.
type Option func(*Model)

// WithInitialSelection sets the selection shown at startup.
func WithInitialSelection(sel pokedex.Selection) Option {
	return func(m *Model) { m.sel = clamp(sel) }
}

// WithCache sets the cache listed in the history pane. It should be the
// same cache the controller resolves through.
func WithCache(c *cache.Cache) Option {
	return func(m *Model) { m.cache = c }
}

// WithImageCategory sets the primary image directory shown on cards.
func WithImageCategory(category string) Option {
	return func(m *Model) { m.cardOpt.ImageCategory = category }
}

// NewModel creates a dashboard Model with left-pane focus, starting at
// selection 1 unless WithInitialSelection says otherwise.
func NewModel(ctrl *card.Controller, opts ...Option) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := Model{
		focus:    PaneLeft,
		viewport: viewport.New(0, 0),
		help:     help.New(),
		spinner:  s,
		ctrl:     ctrl,
		sel:      1,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init resolves the initial selection and starts the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.ctrl.Select(m.sel), m.spinner.Tick)
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		_, rightWidth := PaneWidths(msg.Width)
		vpWidth := rightWidth - borderChrome
		if vpWidth < 0 {
			vpWidth = 0
		}
		m.viewport.Width = vpWidth
		m.viewport.Height = m.contentHeight()
		m.refresh()
		return m, nil

	case card.RecordFetchedMsg:
		cmd := m.ctrl.Update(msg)
		m.refresh()
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey processes key messages with focus-specific routing.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := BrowseKeyMap(m.focus)

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		if m.focus == PaneLeft {
			m.focus = PaneRight
		} else {
			m.focus = PaneLeft
		}
		return m, nil

	case key.Matches(msg, keys.Prev):
		return m.selectSelection(m.sel - 1)

	case key.Matches(msg, keys.Next):
		return m.selectSelection(m.sel + 1)

	case key.Matches(msg, keys.Enter):
		if sel, ok := m.history.selected(); ok {
			return m.selectSelection(sel)
		}
		return m, nil
	}

	if m.focus == PaneRight {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Up):
		m.history = m.history.up()
	case key.Matches(msg, keys.Down):
		m.history = m.history.down()
	}
	return m, nil
}

// selectSelection moves to sel, clamped to the valid range, and hands the
// change to the controller.
func (m Model) selectSelection(sel pokedex.Selection) (tea.Model, tea.Cmd) {
	sel = clamp(sel)
	if sel == m.sel {
		return m, nil
	}
	m.sel = sel
	cmd := m.ctrl.Select(sel)
	m.viewport.GotoTop()
	m.refresh()
	return m, cmd
}

// refresh re-renders the card into the viewport and reloads the history.
func (m *Model) refresh() {
	opts := m.cardOpt
	opts.Width = m.viewport.Width
	m.viewport.SetContent(card.View(m.ctrl, opts))
	m.history = m.history.withEntries(loadHistory(m.cache))
}

// contentHeight returns the usable height for pane content,
// accounting for border chrome and the help bar.
func (m Model) contentHeight() int {
	h := m.height - borderChrome - helpBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// View renders the two-pane layout with help bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	leftWidth, rightWidth := PaneWidths(m.width)
	contentHeight := m.contentHeight()

	var leftStyle, rightStyle lipgloss.Style
	if m.focus == PaneLeft {
		leftStyle = FocusedBorder()
		rightStyle = UnfocusedBorder()
	} else {
		leftStyle = UnfocusedBorder()
		rightStyle = FocusedBorder()
	}

	leftStyle = leftStyle.
		Width(leftWidth - borderChrome).
		Height(contentHeight)
	rightStyle = rightStyle.
		Width(rightWidth - borderChrome).
		Height(contentHeight)

	leftPane := leftStyle.Render(m.viewLeft())
	rightPane := rightStyle.Render(m.viewport.View())
	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
	helpView := m.help.View(HelpBindings(m.focus))

	return lipgloss.JoinVertical(lipgloss.Left, panes, helpView)
}

// viewLeft renders the current selection status above the history list.
func (m Model) viewLeft() string {
	status := fmt.Sprintf("Selected #%s", pokedex.FullNumber(m.sel))
	if m.ctrl.Loading() {
		status = m.spinner.View() + " " + status
	}
	return selectionText.Render(status) + "\n\n" + m.history.View(m.sel)
}

// clamp keeps sel inside the national dex.
func clamp(sel pokedex.Selection) pokedex.Selection {
	if sel < 1 {
		return 1
	}
	if sel > pokedex.MaxSelection {
		return pokedex.MaxSelection
	}
	return sel
}
