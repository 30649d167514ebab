package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/components/status"
	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/keymap"
	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/messages"
	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/styles"
	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/views/chat"
	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/views/editor"
	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/views/sessions"
	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driving"
)

// Options configures the app at startup.
type Options struct {
	// Scope is the chat scope for new sessions.
	Scope domain.ChatScope

	// BoardID, QueryID and DatastoreID are the scope targets; the ones
	// that don't apply stay empty.
	BoardID     string
	QueryID     string
	DatastoreID string

	// SessionID resumes an existing session instead of creating one.
	SessionID string

	// FilePath opens the editor on this file at startup.
	FilePath string
}

// App is the root bubbletea model. It owns the views, routes messages
// between them and renders the active one above the status bar.
type App struct {
	ports   Ports
	options Options
	styles  *styles.Styles
	keymap  *keymap.KeyMap

	active   messages.ViewType
	previous messages.ViewType

	chatView     *chat.View
	editorView   *editor.View
	sessionsView *sessions.View
	statusBar    *status.Bar

	watchCancel context.CancelFunc
	width       int
	height      int
	err         error
}

// NewApp creates the application model. The chat session and any
// watched file are set up lazily in Init.
func NewApp(ports Ports, options Options) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	if options.Scope == "" {
		options.Scope = domain.ScopeGeneral
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	app := &App{
		ports:        ports,
		options:      options,
		styles:       s,
		keymap:       km,
		active:       messages.ViewChat,
		previous:     messages.ViewChat,
		chatView:     chat.NewView(s, km, nil, ports.Sync, ports.Tester),
		editorView:   editor.NewView(s, km, ports.Editor, ports.Sync),
		sessionsView: sessions.NewView(s, km, ports.Chat),
		statusBar:    status.NewBar(s, km),
	}
	if options.FilePath != "" {
		app.active = messages.ViewEditor
	}
	return app, nil
}

// Init opens the startup session and file.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("weave"),
		a.openSession(a.options.SessionID),
	}
	if a.options.FilePath != "" {
		cmds = append(cmds, a.openFile(a.options.FilePath))
	}
	return tea.Batch(cmds...)
}

// openSession resumes the given session, or creates a fresh one in the
// configured scope when id is empty.
func (a *App) openSession(id string) tea.Cmd {
	ports := a.ports
	options := a.options
	return func() tea.Msg {
		var (
			session driving.ChatSession
			err     error
		)
		if id != "" {
			session, err = ports.Chat.ResumeSession(context.Background(), id)
		} else {
			session, err = ports.Chat.CreateSession(context.Background(),
				options.Scope, options.BoardID, options.QueryID, options.DatastoreID)
		}
		return sessionOpened{session: session, err: err}
	}
}

// openFile loads a file into the editor and starts watching it.
func (a *App) openFile(path string) tea.Cmd {
	editorPort := a.ports.Editor
	return func() tea.Msg {
		view, err := editorPort.OpenFile(path)
		return messages.FileReloaded{View: view, Err: err}
	}
}

// watchFile subscribes to external changes of the open file.
func (a *App) watchFile(path string) tea.Cmd {
	if a.ports.Watcher == nil {
		return nil
	}
	if a.watchCancel != nil {
		a.watchCancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.watchCancel = cancel

	changes, err := a.ports.Watcher.Watch(ctx, path)
	if err != nil {
		cancel()
		a.watchCancel = nil
		return nil
	}
	return waitForChange(changes)
}

// waitForChange forwards one watcher emission as a message.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return fileChangeSeen{changes: changes}
	}
}

// sessionOpened reports the startup or switched chat session.
type sessionOpened struct {
	session driving.ChatSession
	err     error
}

// fileChangeSeen carries the watcher channel so the wait can be
// re-armed after delivery.
type fileChangeSeen struct {
	changes <-chan struct{}
}

// Update routes messages to the active view and handles app-level
// concerns: view switching, session swaps, quitting.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.statusBar.SetWidth(msg.Width)
		body := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 1}
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.chatView, cmd = a.chatView.Update(body)
		cmds = append(cmds, cmd)
		a.editorView, cmd = a.editorView.Update(body)
		cmds = append(cmds, cmd)
		a.sessionsView, cmd = a.sessionsView.Update(body)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		if cmd, handled := a.handleGlobalKey(msg); handled {
			return a, cmd
		}

	case sessionOpened:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		if previous := a.chatView.Session(); previous != nil {
			previous.Close()
		}
		a.chatView.SetSession(msg.session)
		a.refreshStatus()
		return a, a.chatView.Init()

	case messages.ViewChanged:
		a.switchView(msg.View)
		return a, a.activateCmd(msg.View)

	case messages.SessionPicked:
		a.switchView(messages.ViewChat)
		if msg.ID != "" && a.chatView.Session() != nil &&
			a.chatView.Session().Session().ID == msg.ID {
			return a, nil
		}
		return a, a.openSession(msg.ID)

	case fileChangeSeen:
		var cmd tea.Cmd
		a.editorView, cmd = a.editorView.Update(messages.FileChanged{})
		return a, tea.Batch(cmd, waitForChange(msg.changes))

	case messages.FileReloaded:
		var cmds []tea.Cmd
		firstOpen := a.editorView.File() == nil && msg.Err == nil
		var cmd tea.Cmd
		a.editorView, cmd = a.editorView.Update(msg)
		cmds = append(cmds, cmd)
		if firstOpen {
			cmds = append(cmds, a.watchFile(msg.View.Path))
		}
		a.refreshStatus()
		return a, tea.Batch(cmds...)
	}

	return a, a.routeToActive(msg)
}

// handleGlobalKey handles keys that work in every view.
func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, a.keymap.Quit):
		return a.quit(), true

	case keymap.Matches(keyStr, a.keymap.Help):
		if a.active == messages.ViewHelp {
			a.switchView(a.previous)
		} else {
			a.switchView(messages.ViewHelp)
		}
		return nil, true

	case keymap.Matches(keyStr, a.keymap.Sessions):
		a.switchView(messages.ViewSessions)
		return a.sessionsView.Init(), true

	case keymap.Matches(keyStr, a.keymap.Editor):
		if a.editorView.File() != nil {
			a.switchView(messages.ViewEditor)
			return nil, true
		}
		return nil, false

	case keymap.Matches(keyStr, a.keymap.Back):
		// Esc leaves overlay views; the chat view handles it itself
		// for stream cancellation.
		if a.active == messages.ViewHelp || a.active == messages.ViewSessions {
			a.switchView(a.previous)
			return nil, true
		}
		return nil, false
	}
	return nil, false
}

// quit tears down the session and watcher before exiting.
func (a *App) quit() tea.Cmd {
	if session := a.chatView.Session(); session != nil {
		session.Close()
	}
	if a.watchCancel != nil {
		a.watchCancel()
	}
	if a.ports.Watcher != nil {
		a.ports.Watcher.Close()
	}
	return tea.Quit
}

// switchView activates a view and updates the status bar hints.
func (a *App) switchView(view messages.ViewType) {
	if view == a.active {
		return
	}
	if a.active != messages.ViewHelp {
		a.previous = a.active
	}
	a.active = view
	a.refreshStatus()
}

// activateCmd returns the init command for a freshly shown view.
func (a *App) activateCmd(view messages.ViewType) tea.Cmd {
	if view == messages.ViewSessions {
		return a.sessionsView.Init()
	}
	return nil
}

// routeToActive forwards a message to the active view.
func (a *App) routeToActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.active {
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewEditor:
		a.editorView, cmd = a.editorView.Update(msg)
	case messages.ViewSessions:
		a.sessionsView, cmd = a.sessionsView.Update(msg)
	}

	// Stream updates arrive regardless of the visible view.
	if _, ok := msg.(messages.SessionUpdated); ok && a.active != messages.ViewChat {
		a.chatView, cmd = a.chatView.Update(msg)
	}
	a.refreshStatus()
	return cmd
}

// refreshStatus re-derives the status bar from the active view.
func (a *App) refreshStatus() {
	switch a.active {
	case messages.ViewChat:
		a.statusBar.SetHints(a.keymap.ChatHelp())
		if session := a.chatView.Session(); session != nil {
			record := session.Session()
			a.statusBar.SetContext(scopeContext(record))
			if record.Model != "" {
				a.statusBar.SetMessage(record.Model)
			}
		}
	case messages.ViewEditor:
		a.statusBar.SetHints(a.keymap.EditorHelp())
		if file := a.editorView.File(); file != nil {
			context := file.Path
			if a.editorView.Dirty() {
				context += " *"
			}
			a.statusBar.SetContext(context)
		}
	case messages.ViewSessions:
		a.statusBar.SetHints(a.keymap.SessionsHelp())
		a.statusBar.SetContext("sessions")
	case messages.ViewHelp:
		a.statusBar.SetHints(nil)
		a.statusBar.SetContext("help")
	}
}

// scopeContext formats a session's scope for the status bar.
func scopeContext(record domain.Session) string {
	switch record.Scope {
	case domain.ScopeBoard:
		return "board " + record.BoardID
	case domain.ScopeQuery:
		return "query " + record.QueryID
	case domain.ScopeDatastore:
		return "datastore " + record.DatastoreID
	default:
		return "chat"
	}
}

// View renders the active view above the status bar.
func (a *App) View() string {
	if a.err != nil {
		return a.styles.Error.Render("error: "+a.err.Error()) + "\n"
	}

	var body string
	switch a.active {
	case messages.ViewChat:
		body = a.chatView.View()
	case messages.ViewEditor:
		body = a.editorView.View()
	case messages.ViewSessions:
		body = a.sessionsView.View()
	case messages.ViewHelp:
		body = a.renderHelp()
	}
	return body + "\n" + a.statusBar.View()
}

// renderHelp renders the full keybinding reference.
func (a *App) renderHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("keybindings"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			help := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n",
				a.styles.Selected.Render(help.Key), help.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Muted.Render("slash commands: /format /test /clear /model /help /quit"))
	return b.String()
}

// Run starts the TUI in the alternate screen and blocks until exit.
func Run(ports Ports, options Options) error {
	app, err := NewApp(ports, options)
	if err != nil {
		return err
	}
	program := tea.NewProgram(app, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
