// Package editor implements the fragment editor view: the SQL
// composite of an annotated file in a textarea, with format, save and
// external-change reload.
package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/keymap"
	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/messages"
	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/styles"
	"github.com/telar-labs/weave-cli/internal/core/ports/driving"
)

// View is the editor view model.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	editor driving.EditorService
	sync   driving.SyncService

	file     *driving.SourceFileView
	textarea textarea.Model

	dirty  bool
	saving bool
	flash  string
	err    error
	width  int
	height int
}

// NewView creates the editor view.
func NewView(s *styles.Styles, km *keymap.KeyMap, editor driving.EditorService, sync driving.SyncService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	ta := textarea.New()
	ta.Placeholder = "no file open"
	ta.ShowLineNumbers = true

	return &View{
		styles:   s,
		keymap:   km,
		editor:   editor,
		sync:     sync,
		textarea: ta,
	}
}

// SetFile loads a file view into the editor.
func (v *View) SetFile(file *driving.SourceFileView) {
	v.file = file
	v.dirty = false
	v.err = nil
	if file != nil {
		v.textarea.SetValue(file.Composite)
		v.textarea.Focus()
	}
}

// File returns the currently open file view.
func (v *View) File() *driving.SourceFileView {
	return v.file
}

// Dirty reports whether the composite has unsaved edits.
func (v *View) Dirty() bool {
	return v.dirty
}

// Init initialises the editor view.
func (v *View) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the editor view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.resize(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.FileChanged:
		return v, v.reload()

	case messages.FileReloaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		if v.dirty {
			// Keep the user's edits; tell them the file moved on.
			v.flash = "file changed on disk, save will overwrite"
			v.file = msg.View
			return v, nil
		}
		v.SetFile(msg.View)
		v.flash = "reloaded"
		return v, nil

	case messages.FileSaved:
		v.saving = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.dirty = false
		v.flash = "saved"
		return v, v.reload()
	}

	before := v.textarea.Value()
	var cmd tea.Cmd
	v.textarea, cmd = v.textarea.Update(msg)
	if v.textarea.Value() != before {
		v.dirty = true
		v.flash = ""
	}
	return v, cmd
}

// handleKey routes editor key presses.
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Format):
		if v.file == nil {
			return v, nil
		}
		v.textarea.SetValue(v.sync.Format(v.textarea.Value()))
		v.dirty = true
		v.flash = "formatted"
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Save):
		return v, v.save()
	}

	before := v.textarea.Value()
	var cmd tea.Cmd
	v.textarea, cmd = v.textarea.Update(msg)
	if v.textarea.Value() != before {
		v.dirty = true
		v.flash = ""
	}
	return v, cmd
}

// save splices the composite back into the file.
func (v *View) save() tea.Cmd {
	if v.file == nil || v.saving {
		return nil
	}
	v.saving = true
	v.err = nil

	editor := v.editor
	path := v.file.Path
	edited := v.textarea.Value()
	return func() tea.Msg {
		return messages.FileSaved{Err: editor.SaveComposite(path, edited)}
	}
}

// reload re-reads the open file from disk.
func (v *View) reload() tea.Cmd {
	if v.file == nil {
		return nil
	}
	editor := v.editor
	path := v.file.Path
	return func() tea.Msg {
		view, err := editor.OpenFile(path)
		return messages.FileReloaded{View: view, Err: err}
	}
}

// View renders the editor view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.renderHeader())
	b.WriteString("\n")
	b.WriteString(v.textarea.View())
	b.WriteString("\n")
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(v.err.Error()))
	} else if v.flash != "" {
		b.WriteString(v.styles.Muted.Render(v.flash))
	}
	return b.String()
}

// renderHeader shows the file path and fragment count.
func (v *View) renderHeader() string {
	if v.file == nil {
		return v.styles.Muted.Render("no file open")
	}
	header := fmt.Sprintf("%s — %d fragments", v.file.Path, len(v.file.Fragments))
	if v.dirty {
		header += " *"
	}
	return v.styles.Title.Render(header)
}

// resize adjusts the layout to the terminal size.
func (v *View) resize(width, height int) {
	v.width = width
	v.height = height
	v.textarea.SetWidth(width)

	bodyHeight := height - 4
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	v.textarea.SetHeight(bodyHeight)
}
