package dashboard

import "github.com/charmbracelet/bubbles/key"

// browseKeys holds the dashboard key bindings.
type browseKeys struct {
	Prev  key.Binding
	Next  key.Binding
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Tab   key.Binding
	Quit  key.Binding
}

// ShortHelp returns the bindings for the help bar.
func (k browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Up, k.Down, k.Enter, k.Tab, k.Quit}
}

// FullHelp returns the bindings grouped for expanded help.
func (k browseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next},
		{k.Up, k.Down, k.Enter},
		{k.Tab, k.Quit},
	}
}

// BrowseKeyMap returns the key bindings for the given focus. Up and down
// move the history cursor on the left and scroll the card on the right.
func BrowseKeyMap(focus Focus) browseKeys {
	upDesc, downDesc := "up", "down"
	if focus == PaneRight {
		upDesc, downDesc = "scroll up", "scroll down"
	}

	km := browseKeys{
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", upDesc),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", downDesc),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
	if focus == PaneRight {
		km.Enter.SetEnabled(false)
	}
	return km
}
