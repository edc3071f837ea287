package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding the program reacts to.
type KeyMap struct {
	Up, Down                key.Binding
	Add, Edit, Toggle       key.Binding
	Delete, Summarize       key.Binding
	Reload, Help, Quit      key.Binding
	Submit, Save, NextField key.Binding
	Cancel, ToggleInEdit    key.Binding
	ForceQuit               key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:          key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:         key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Toggle:       key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Delete:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Summarize:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "summarize")),
		Reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:         key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		Submit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Save:         key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		NextField:    key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		Cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		ToggleInEdit: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "toggle done")),
		ForceQuit:    key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Toggle, k.Delete, k.Summarize, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Add, k.Edit, k.Toggle, k.Delete},
		{k.Summarize, k.Reload},
		{k.Help, k.Quit},
	}
}

// editHelp is shown under the form and under a row being edited.
type editHelp struct {
	keys   KeyMap
	toggle bool
}

func (h editHelp) ShortHelp() []key.Binding {
	b := []key.Binding{h.keys.Submit, h.keys.Save, h.keys.NextField, h.keys.Cancel}
	if h.toggle {
		b = append(b, h.keys.ToggleInEdit)
	}
	return b
}

func (h editHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }
