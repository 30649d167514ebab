// Package sessions implements the session picker view: stored chat
// sessions, most recent first, with resume and delete.
package sessions

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/keymap"
	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/messages"
	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/styles"
	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driving"
)

// View is the session picker view model.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	chat   driving.ChatService

	sessions []domain.Session
	cursor   int
	loading  bool
	err      error
	width    int
	height   int
}

// NewView creates the session picker.
func NewView(s *styles.Styles, km *keymap.KeyMap, chat driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:  s,
		keymap:  km,
		chat:    chat,
		loading: true,
	}
}

// Init loads the stored sessions.
func (v *View) Init() tea.Cmd {
	return v.load()
}

// load fetches the session list.
func (v *View) load() tea.Cmd {
	chat := v.chat
	return func() tea.Msg {
		sessions, err := chat.ListSessions(context.Background())
		return messages.SessionsLoaded{Sessions: sessions, Err: err}
	}
}

// Update handles messages for the session picker.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case messages.SessionsLoaded:
		v.loading = false
		v.err = msg.Err
		v.sessions = msg.Sessions
		if v.cursor >= len(v.sessions) {
			v.cursor = 0
		}
		return v, nil

	case messages.SessionDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.load()

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

// handleKey routes picker key presses.
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Down):
		if v.cursor < len(v.sessions)-1 {
			v.cursor++
		}
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Submit):
		if selected := v.Selected(); selected != nil {
			id := selected.ID
			return v, func() tea.Msg { return messages.SessionPicked{ID: id} }
		}
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Delete):
		if selected := v.Selected(); selected != nil {
			return v, v.deleteSession(selected.ID)
		}
		return v, nil

	case keyStr == "n":
		// Empty ID asks the app for a fresh session.
		return v, func() tea.Msg { return messages.SessionPicked{ID: ""} }
	}
	return v, nil
}

// deleteSession removes a stored session.
func (v *View) deleteSession(id string) tea.Cmd {
	chat := v.chat
	return func() tea.Msg {
		return messages.SessionDeleted{ID: id, Err: chat.DeleteSession(context.Background(), id)}
	}
}

// Selected returns the session under the cursor, or nil.
func (v *View) Selected() *domain.Session {
	if v.cursor < 0 || v.cursor >= len(v.sessions) {
		return nil
	}
	return &v.sessions[v.cursor]
}

// View renders the session list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("sessions"))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(v.err.Error()))
	case v.loading:
		b.WriteString(v.styles.Muted.Render("loading..."))
	case len(v.sessions) == 0:
		b.WriteString(v.styles.Muted.Render("no sessions yet — press n to start one"))
	default:
		for i, session := range v.sessions {
			b.WriteString(v.renderRow(session, i == v.cursor))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderRow renders one session line.
func (v *View) renderRow(session domain.Session, selected bool) string {
	title := session.Title
	if title == "" {
		title = "(untitled)"
	}
	line := fmt.Sprintf("%s  %s  %s",
		session.UpdatedAt.Local().Format("2006-01-02 15:04"),
		scopeLabel(session),
		title,
	)
	if selected {
		return v.styles.Selected.Render("> " + line)
	}
	return v.styles.Normal.Render("  " + line)
}

// scopeLabel renders a session's scope with its target ID.
func scopeLabel(session domain.Session) string {
	switch session.Scope {
	case domain.ScopeBoard:
		return "board:" + session.BoardID
	case domain.ScopeQuery:
		return "query:" + session.QueryID
	case domain.ScopeDatastore:
		return "datastore:" + session.DatastoreID
	default:
		return string(session.Scope)
	}
}
