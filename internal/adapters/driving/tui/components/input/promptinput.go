// Package input provides the prompt input component for the TUI,
// including the inline completion dropdown for @mentions and
// /commands.
package input

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/styles"
	"github.com/telar-labs/weave-cli/internal/core/domain"
)

// maxDropdownRows caps how many candidates are shown at once.
const maxDropdownRows = 6

// PromptInput wraps a bubbles textinput with completion dropdown
// state. The component only renders; deciding when completion is open
// is the session's job (Complete/Accept on the chat session).
type PromptInput struct {
	textinput  textinput.Model
	styles     *styles.Styles
	completion *domain.Completion
	selected   int
	width      int
}

// NewPromptInput creates a new prompt input component.
func NewPromptInput(s *styles.Styles) *PromptInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask about your data... @ mentions, / commands"
	ti.Focus()
	ti.CharLimit = 2048
	ti.Width = 60

	return &PromptInput{
		textinput: ti,
		styles:    s,
		width:     60,
	}
}

// Init initialises the prompt input.
func (p *PromptInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (p *PromptInput) Update(msg tea.Msg) (*PromptInput, tea.Cmd) {
	var cmd tea.Cmd
	p.textinput, cmd = p.textinput.Update(msg)
	return p, cmd
}

// View renders the input box with the dropdown above it when open.
func (p *PromptInput) View() string {
	box := p.styles.InputField.Width(p.width).Render(p.textinput.View())
	if !p.DropdownOpen() {
		return box
	}
	return p.renderDropdown() + "\n" + box
}

// renderDropdown renders the candidate list, highlighted row first.
func (p *PromptInput) renderDropdown() string {
	candidates := p.completion.Candidates
	if len(candidates) > maxDropdownRows {
		candidates = candidates[:maxDropdownRows]
	}

	rows := make([]string, len(candidates))
	for i, candidate := range candidates {
		line := candidate.DisplayName()
		if candidate.Detail != "" {
			line = fmt.Sprintf("%s  %s", line, p.styles.Muted.Render(candidate.Detail))
		}
		if i == p.selected {
			line = p.styles.Selected.Render(candidate.DisplayName()) + strings.TrimPrefix(line, candidate.DisplayName())
		}
		rows[i] = line
	}
	return p.styles.Dropdown.Render(strings.Join(rows, "\n"))
}

// Value returns the current input value.
func (p *PromptInput) Value() string {
	return p.textinput.Value()
}

// SetValue sets the input value and moves the cursor to the end.
func (p *PromptInput) SetValue(value string) {
	p.textinput.SetValue(value)
	p.textinput.CursorEnd()
}

// Cursor returns the byte offset of the cursor in the value. The
// underlying textinput tracks a rune position; callers slice the
// value by bytes, so the position is converted here.
func (p *PromptInput) Cursor() int {
	runes := []rune(p.textinput.Value())
	pos := p.textinput.Position()
	if pos > len(runes) {
		pos = len(runes)
	}
	return len(string(runes[:pos]))
}

// SetCursor places the cursor at the given byte offset.
func (p *PromptInput) SetCursor(pos int) {
	value := p.textinput.Value()
	if pos > len(value) {
		pos = len(value)
	}
	p.textinput.SetCursor(len([]rune(value[:pos])))
}

// SetCompletion replaces the dropdown state. Nil closes it.
func (p *PromptInput) SetCompletion(completion *domain.Completion) {
	p.completion = completion
	p.selected = 0
}

// DropdownOpen reports whether candidates are showing.
func (p *PromptInput) DropdownOpen() bool {
	return p.completion != nil && len(p.completion.Candidates) > 0
}

// MoveSelection moves the dropdown highlight, clamped to the list.
func (p *PromptInput) MoveSelection(delta int) {
	if !p.DropdownOpen() {
		return
	}
	limit := len(p.completion.Candidates)
	if limit > maxDropdownRows {
		limit = maxDropdownRows
	}
	p.selected += delta
	if p.selected < 0 {
		p.selected = 0
	}
	if p.selected >= limit {
		p.selected = limit - 1
	}
}

// SelectedCandidate returns the highlighted candidate, or nil when
// the dropdown is closed.
func (p *PromptInput) SelectedCandidate() *domain.Candidate {
	if !p.DropdownOpen() {
		return nil
	}
	candidate := p.completion.Candidates[p.selected]
	return &candidate
}

// Focus sets focus on the input.
func (p *PromptInput) Focus() tea.Cmd {
	return p.textinput.Focus()
}

// Blur removes focus from the input.
func (p *PromptInput) Blur() {
	p.textinput.Blur()
}

// Focused returns whether the input is focused.
func (p *PromptInput) Focused() bool {
	return p.textinput.Focused()
}

// SetWidth sets the rendered width of the input.
func (p *PromptInput) SetWidth(width int) {
	p.width = width
	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	p.textinput.Width = inner
}

// Reset clears the input and closes the dropdown.
func (p *PromptInput) Reset() {
	p.textinput.Reset()
	p.completion = nil
	p.selected = 0
}
