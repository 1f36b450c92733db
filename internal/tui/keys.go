package tui

import "github.com/charmbracelet/bubbles/key"

// ListKeyMap defines the appointment list bindings with built-in help text.
type ListKeyMap struct {
	Enter   key.Binding
	Webhook key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultListKeyMap returns the default list bindings.
func DefaultListKeyMap() ListKeyMap {
	return ListKeyMap{
		Enter: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter", "enter consultation"),
		),
		Webhook: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "run automated flow"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k ListKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Webhook, k.Help, k.Quit}
}

func (k ListKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Enter, k.Webhook}, {k.Help, k.Quit}}
}

// NoteKeyMap defines the note form bindings. Plain letters are not bound
// because they belong to the text fields.
type NoteKeyMap struct {
	NextField    key.Binding
	PrevField    key.Binding
	Save         key.Binding
	Back         key.Binding
	ReturnToList key.Binding
}

// DefaultNoteKeyMap returns the default note form bindings.
func DefaultNoteKeyMap() NoteKeyMap {
	return NoteKeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save consultation"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		ReturnToList: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "return to list"),
			key.WithDisabled(),
		),
	}
}

func (k NoteKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Save, k.Back, k.ReturnToList}
}

func (k NoteKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.NextField, k.PrevField}, {k.Save, k.Back, k.ReturnToList}}
}
