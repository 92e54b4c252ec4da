package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Enter      key.Binding
	Open       key.Binding
	Close      key.Binding
	Toggle     key.Binding
	Deselect   key.Binding
	Sensitive  key.Binding
	ExpandAll  key.Binding
	Collapse   key.Binding
	SelectAll  key.Binding
	ClearAll   key.Binding
	Save       key.Binding
	Search     key.Binding
	Escape     key.Binding
	Refresh    key.Binding
	Reload     key.Binding
	NextPane   key.Binding
	PrevPane   key.Binding
	Send       key.Binding
	Raw        key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Open:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "open")),
		Close:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "close")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "include")),
		Deselect:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "deselect branch")),
		Sensitive: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sensitive")),
		ExpandAll: key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
		Collapse:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),
		SelectAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		ClearAll:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear all")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh services")),
		Reload:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload fields")),
		NextPane:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		PrevPane:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous pane")),
		Send:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "test request")),
		Raw:       key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "raw JSON")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPane, k.Toggle, k.Sensitive, k.Save, k.Search, k.Send, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.NextPane, k.PrevPane},
		{k.Toggle, k.Deselect, k.Sensitive, k.SelectAll, k.ClearAll},
		{k.Open, k.Close, k.ExpandAll, k.Collapse, k.Search, k.Escape},
		{k.Save, k.Send, k.Raw, k.Refresh, k.Reload},
		{k.Help, k.Quit},
	}
}
