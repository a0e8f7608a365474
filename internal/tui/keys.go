package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Inbox   key.Binding
	Sent    key.Binding
	Archive key.Binding
	Compose key.Binding
	Drafts  key.Binding
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Back    key.Binding
	Refresh key.Binding
	Quit    key.Binding

	Reply         key.Binding
	ToggleRead    key.Binding
	ToggleArchive key.Binding

	NextField key.Binding
	PrevField key.Binding
	Send      key.Binding
	SaveDraft key.Binding
	Editor    key.Binding
	Cancel    key.Binding
	ForceQuit key.Binding

	DeleteDraft key.Binding
}

var keys = keyMap{
	Inbox: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "inbox"),
	),
	Sent: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "sent"),
	),
	Archive: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "archive"),
	),
	Compose: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "compose"),
	),
	Drafts: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "drafts"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter", "right", "l"),
		key.WithHelp("enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "left", "h"),
		key.WithHelp("esc", "back"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Reply: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reply"),
	),
	ToggleRead: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "read/unread"),
	),
	ToggleArchive: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "archive/unarchive"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev field"),
	),
	Send: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "send"),
	),
	SaveDraft: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "save draft"),
	),
	Editor: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "$EDITOR"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	DeleteDraft: key.NewBinding(
		key.WithKeys("x", "delete"),
		key.WithHelp("x", "delete draft"),
	),
}

// bindings returns the help line for a screen.
func (k keyMap) bindings(state sessionState, draftsEnabled bool) []key.Binding {
	nav := []key.Binding{k.Inbox, k.Sent, k.Archive, k.Compose}
	if draftsEnabled {
		nav = append(nav, k.Drafts)
	}

	switch state {
	case viewDetail:
		return append([]key.Binding{k.Back, k.Reply, k.ToggleRead, k.ToggleArchive}, append(nav, k.Quit)...)
	case viewCompose:
		b := []key.Binding{k.NextField, k.Send, k.Editor, k.Cancel}
		if draftsEnabled {
			b = append(b, k.SaveDraft)
		}
		return append(b, k.ForceQuit)
	case viewDrafts:
		return append([]key.Binding{k.Up, k.Down, k.Open, k.DeleteDraft, k.Back}, append(nav, k.Quit)...)
	default:
		return append([]key.Binding{k.Up, k.Down, k.Open, k.Refresh}, append(nav, k.Quit)...)
	}
}
