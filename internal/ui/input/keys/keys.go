// Package keys defines the normal-mode key bindings shared by the input modes and the help footer.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the normal-mode bindings
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	Query      key.Binding
	Author     key.Binding
	DateFrom   key.Binding
	DateTo     key.Binding
	Exact      key.Binding
	Sort       key.Binding
	Type       key.Binding
	Video      key.Binding
	Clear      key.Binding
	Refresh    key.Binding
	OpenDetail key.Binding
	Watch      key.Binding

	Help key.Binding
	Quit key.Binding
}

// Default is the key map used by the TUI
var Default = KeyMap{
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Top:      key.NewBinding(key.WithKeys("home"), key.WithHelp("gg/home", "top")),
	Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G/end", "bottom")),

	Query:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Author:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "author")),
	DateFrom:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "from date")),
	DateTo:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "to date")),
	Exact:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "exact")),
	Sort:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort")),
	Type:       key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "type")),
	Video:      key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "video")),
	Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
	OpenDetail: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Watch:      key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "watch")),

	Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Query, k.Video, k.Author, k.Exact, k.OpenDetail, k.Watch, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Query, k.Author, k.DateFrom, k.DateTo, k.Video},
		{k.Exact, k.Sort, k.Type, k.Clear, k.Refresh},
		{k.OpenDetail, k.Watch, k.Help, k.Quit},
	}
}
