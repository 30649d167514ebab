// Package chat implements the conversation view: transcript,
// streaming progress, the prompt input and its completion dropdown.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/components/input"
	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/keymap"
	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/messages"
	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/styles"
	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
	"github.com/telar-labs/weave-cli/internal/core/ports/driving"
)

// testRowLimit is how many sample rows a /test run asks for.
const testRowLimit = 10

// View is the chat view model.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	session driving.ChatSession
	sync    driving.SyncService
	tester  driven.QueryTester

	viewport viewport.Model
	prompt   *input.PromptInput
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	streaming bool
	flash     string
	err       error
	width     int
	height    int
	ready     bool
}

// NewView creates the chat view for a session.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.ChatSession, sync driving.SyncService, tester driven.QueryTester) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &View{
		styles:  s,
		keymap:  km,
		session: session,
		sync:    sync,
		tester:  tester,
		prompt:  input.NewPromptInput(s),
		spinner: sp,
	}
}

// SetSession swaps the conversation this view renders.
func (v *View) SetSession(session driving.ChatSession) {
	v.session = session
	v.streaming = false
	v.err = nil
	v.prompt.Reset()
	v.refreshTranscript()
}

// Session returns the session this view renders.
func (v *View) Session() driving.ChatSession {
	return v.session
}

// Init starts the cursor blink and the update listener.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.prompt.Init(), v.waitForUpdate())
}

// waitForUpdate blocks on the session's update channel and forwards
// one snapshot as a message. Re-issued after every receipt.
func (v *View) waitForUpdate() tea.Cmd {
	session := v.session
	if session == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-session.Updates()
		if !ok {
			return nil
		}
		return messages.SessionUpdated{Update: update}
	}
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.resize(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.SessionUpdated:
		v.streaming = !msg.Update.Done && msg.Update.State == domain.SessionStreaming
		v.refreshTranscript()
		return v, v.waitForUpdate()

	case messages.SubmitFailed:
		v.err = msg.Err
		return v, nil

	case messages.CompletionReady:
		if msg.Err == nil {
			v.prompt.SetCompletion(msg.Completion)
		}
		return v, nil

	case messages.TestFinished:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.flash = testSummary(msg.Result)
		}
		return v, nil

	case messages.StatusFlash:
		v.flash = msg.Text
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		if v.streaming {
			return v, cmd
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

// handleKey routes key presses: dropdown first, then submit/cancel,
// then plain typing.
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	if v.prompt.DropdownOpen() {
		switch {
		case keymap.Matches(keyStr, v.keymap.Up):
			v.prompt.MoveSelection(-1)
			return v, nil
		case keymap.Matches(keyStr, v.keymap.Down):
			v.prompt.MoveSelection(1)
			return v, nil
		case keymap.Matches(keyStr, v.keymap.Accept), keymap.Matches(keyStr, v.keymap.Submit):
			return v, v.acceptCandidate()
		case keymap.Matches(keyStr, v.keymap.Back):
			v.prompt.SetCompletion(nil)
			return v, nil
		}
	}

	switch {
	case keymap.Matches(keyStr, v.keymap.Submit):
		return v, v.submit()

	case keymap.Matches(keyStr, v.keymap.Back):
		if v.streaming && v.session != nil {
			v.session.Cancel()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, tea.Batch(cmd, v.requestCompletion())
}

// acceptCandidate splices the highlighted candidate into the input.
func (v *View) acceptCandidate() tea.Cmd {
	candidate := v.prompt.SelectedCandidate()
	if candidate == nil || v.session == nil {
		return nil
	}
	text, cursor := v.session.Accept(v.prompt.Value(), v.prompt.Cursor(), *candidate)
	v.prompt.SetValue(text)
	v.prompt.SetCursor(cursor)
	v.prompt.SetCompletion(nil)
	return nil
}

// requestCompletion re-evaluates inline completion for the current
// input and cursor.
func (v *View) requestCompletion() tea.Cmd {
	if v.session == nil {
		return nil
	}
	session := v.session
	value := v.prompt.Value()
	cursor := v.prompt.Cursor()
	return func() tea.Msg {
		completion, err := session.Complete(context.Background(), value, cursor)
		return messages.CompletionReady{Completion: completion, Err: err}
	}
}

// submit sends the prompt, or runs it as a slash command.
func (v *View) submit() tea.Cmd {
	text := strings.TrimSpace(v.prompt.Value())
	if text == "" || v.session == nil {
		return nil
	}

	if strings.HasPrefix(text, "/") {
		return v.runCommand(text)
	}

	v.prompt.Reset()
	v.err = nil
	session := v.session
	return tea.Batch(
		v.spinner.Tick,
		func() tea.Msg {
			if err := session.Submit(context.Background(), text); err != nil {
				return messages.SubmitFailed{Err: err}
			}
			return nil
		},
	)
}

// runCommand executes a slash command from the fixed catalog.
func (v *View) runCommand(text string) tea.Cmd {
	fields := strings.Fields(text)
	command := strings.TrimPrefix(fields[0], "/")
	v.prompt.Reset()

	switch command {
	case "format":
		code := v.session.Code()
		if strings.TrimSpace(code) == "" {
			v.flash = "nothing to format"
			return nil
		}
		v.session.SetCode(v.sync.Format(code))
		v.flash = "formatted"
		return nil

	case "test":
		return v.runTest()

	case "clear":
		// An empty ID asks the app for a fresh session in this scope.
		return func() tea.Msg {
			return messages.SessionPicked{ID: ""}
		}

	case "model":
		if len(fields) < 2 {
			v.flash = "usage: /model <name>"
			return nil
		}
		v.session.SetModel(fields[1])
		v.flash = "model set to " + fields[1]
		return nil

	case "help":
		return func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewHelp}
		}

	case "quit":
		return tea.Quit

	default:
		v.flash = "unknown command: /" + command
		return nil
	}
}

// runTest asks the backend to test-execute the current document.
func (v *View) runTest() tea.Cmd {
	if v.tester == nil {
		v.flash = "query testing is not available"
		return nil
	}
	code := v.session.Code()
	if strings.TrimSpace(code) == "" {
		v.flash = "no code to test"
		return nil
	}
	tester := v.tester
	return func() tea.Msg {
		result, err := tester.TestQuery(context.Background(), code, testRowLimit)
		return messages.TestFinished{Result: result, Err: err}
	}
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(v.viewport.View())
	b.WriteString("\n")
	if v.streaming {
		b.WriteString(v.spinner.View() + " " + v.styles.Muted.Render("thinking..."))
		b.WriteString("\n")
	}
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(v.err.Error()))
		b.WriteString("\n")
	} else if v.flash != "" {
		b.WriteString(v.styles.Muted.Render(v.flash))
		b.WriteString("\n")
	}
	b.WriteString(v.prompt.View())
	return b.String()
}

// resize adjusts the layout to the terminal size.
func (v *View) resize(width, height int) {
	v.width = width
	v.height = height
	v.prompt.SetWidth(width)

	transcriptHeight := height - 6
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}
	if !v.ready {
		v.viewport = viewport.New(width, transcriptHeight)
		v.ready = true
	} else {
		v.viewport.Width = width
		v.viewport.Height = transcriptHeight
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-2),
	)
	if err == nil {
		v.renderer = renderer
	}
	v.refreshTranscript()
}

// refreshTranscript re-renders the transcript into the viewport and
// follows the tail.
func (v *View) refreshTranscript() {
	if !v.ready || v.session == nil {
		return
	}

	var b strings.Builder
	for _, message := range v.session.Messages() {
		b.WriteString(v.renderMessage(message))
		b.WriteString("\n")
	}
	v.viewport.SetContent(b.String())
	v.viewport.GotoBottom()
}

// renderMessage renders one transcript message.
func (v *View) renderMessage(message domain.Message) string {
	var b strings.Builder

	switch message.Role {
	case domain.RoleUser:
		b.WriteString(v.styles.UserMessage.Render("you"))
		b.WriteString("\n")
		b.WriteString(message.Content)
		b.WriteString("\n")

	case domain.RoleAssistant:
		b.WriteString(v.styles.AssistantMessage.Render("weave"))
		b.WriteString("\n")
		if message.Thinking != "" && message.IsStreaming {
			b.WriteString(v.styles.Thinking.Render(message.Thinking))
			b.WriteString("\n")
		}
		for _, call := range message.ToolCalls {
			b.WriteString(v.styles.ToolCall.Render(toolCallLine(call)))
			b.WriteString("\n")
		}
		if message.Content != "" {
			b.WriteString(v.renderMarkdown(message.Content))
		}
		if message.NeedsUserInput != nil {
			b.WriteString(v.styles.Warning.Render("input needed: " + message.NeedsUserInput.Message))
			b.WriteString("\n")
		}
		if message.TestResult != nil {
			b.WriteString(v.styles.Muted.Render(testSummary(*message.TestResult)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderMarkdown renders assistant markdown, falling back to the raw
// text when the renderer is unavailable.
func (v *View) renderMarkdown(content string) string {
	if v.renderer == nil {
		return content + "\n"
	}
	rendered, err := v.renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return rendered
}

// toolCallLine formats one tool invocation for the transcript.
func toolCallLine(call domain.ToolCall) string {
	switch call.Status {
	case domain.ToolCallFinished:
		return fmt.Sprintf("✓ %s", call.Tool)
	case domain.ToolCallFailed:
		return fmt.Sprintf("✗ %s: %s", call.Tool, call.Error)
	default:
		return fmt.Sprintf("⋯ %s", call.Tool)
	}
}

// testSummary formats a test outcome for the status line.
func testSummary(result domain.TestResult) string {
	if !result.Success {
		return "test failed: " + result.Error
	}
	return fmt.Sprintf("test passed: %d rows", result.RowCount)
}
