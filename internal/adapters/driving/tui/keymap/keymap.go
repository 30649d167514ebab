// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the help view.
	Help key.Binding

	// Back returns to the previous view or cancels a stream.
	Back key.Binding

	// Submit sends the prompt or confirms a selection.
	Submit key.Binding

	// Up navigates up in a list or completion dropdown.
	Up key.Binding

	// Down navigates down in a list or completion dropdown.
	Down key.Binding

	// Accept takes the highlighted completion candidate.
	Accept key.Binding

	// Format formats the SQL composite in the editor.
	Format key.Binding

	// Save splices the composite back into the file.
	Save key.Binding

	// Delete removes the selected session.
	Delete key.Binding

	// Sessions opens the session list.
	Sessions key.Binding

	// Editor switches to the editor view.
	Editor key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back/cancel"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Accept: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "accept"),
		),
		Format: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "format"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Sessions: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "sessions"),
		),
		Editor: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "editor"),
		),
	}
}

// ChatHelp returns keybindings shown in the chat view.
func (k *KeyMap) ChatHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Accept, k.Back, k.Sessions, k.Quit}
}

// EditorHelp returns keybindings shown in the editor view.
func (k *KeyMap) EditorHelp() []key.Binding {
	return []key.Binding{k.Format, k.Save, k.Back, k.Quit}
}

// SessionsHelp returns keybindings shown in the session list.
func (k *KeyMap) SessionsHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Submit, k.Delete, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Accept, k.Back},
		{k.Format, k.Save, k.Delete},
		{k.Sessions, k.Editor, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
