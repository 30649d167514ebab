// Package status provides the status bar component for the TUI.
package status

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/keymap"
	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateStreaming State = "streaming"
	StateSaving    State = "saving"
	StateError     State = "error"
)

// Bar displays session context, state and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	context string
	message string
	hints   []key.Binding
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		hints:  km.ChatHelp(),
		width:  80,
	}
}

// Init initialises the status bar.
func (b *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages. The bar is passive; state is
// pushed through the Set methods.
func (b *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	return b, nil
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderHints()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders context, state and any transient message.
func (b *Bar) renderLeft() string {
	var parts []string
	if b.context != "" {
		parts = append(parts, b.styles.Subtitle.Render(b.context))
	}

	switch b.state {
	case StateStreaming:
		parts = append(parts, b.styles.Warning.Render("streaming"))
	case StateSaving:
		parts = append(parts, b.styles.Warning.Render("saving"))
	case StateError:
		parts = append(parts, b.styles.Error.Render("error"))
	}

	if b.message != "" {
		parts = append(parts, b.styles.Muted.Render(b.message))
	}
	return strings.Join(parts, "  ")
}

// renderHints renders the keybinding hints for the active view.
func (b *Bar) renderHints() string {
	parts := make([]string, 0, len(b.hints))
	for _, binding := range b.hints {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return b.styles.Help.Render(strings.Join(parts, " · "))
}

// SetState updates the displayed state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// SetContext sets the left-hand context label (session title, file).
func (b *Bar) SetContext(context string) {
	b.context = context
}

// SetMessage sets a transient message, empty clears it.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// SetHints replaces the keybinding hints.
func (b *Bar) SetHints(hints []key.Binding) {
	b.hints = hints
}

// SetWidth sets the bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}
