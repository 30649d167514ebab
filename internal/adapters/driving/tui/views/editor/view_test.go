package editor

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/messages"
	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driving"
)

// --- Mocks ---

type mockEditor struct {
	opened    []string
	saved     map[string]string
	openView  *driving.SourceFileView
	openErr   error
	saveErr   error
	formatted string
}

func (m *mockEditor) OpenFile(path string) (*driving.SourceFileView, error) {
	m.opened = append(m.opened, path)
	return m.openView, m.openErr
}

func (m *mockEditor) SaveComposite(path, edited string) error {
	if m.saved == nil {
		m.saved = map[string]string{}
	}
	m.saved[path] = edited
	return m.saveErr
}

func (m *mockEditor) FormatComposite(path string) (string, error) {
	return m.formatted, nil
}

func (m *mockEditor) Pull(ctx context.Context, queryID, path string) error {
	return nil
}

func (m *mockEditor) Push(ctx context.Context, path, queryID string) (domain.Query, error) {
	return domain.Query{}, nil
}

type mockSync struct{}

func (mockSync) Locate(source string) []domain.Fragment     { return nil }
func (mockSync) Combine(fragments []domain.Fragment) string { return "" }
func (mockSync) Format(sql string) string                   { return "SELECT 1" }
func (mockSync) Nodes(source string) []domain.Node          { return nil }

func (mockSync) Split(source string, fragments []domain.Fragment, edited string) string {
	return source
}

func testFile() *driving.SourceFileView {
	return &driving.SourceFileView{
		Path:      "dash.py",
		Source:    "# @query: select 1\n",
		Fragments: []domain.Fragment{{Text: "select 1"}},
		Composite: "select 1",
	}
}

// --- Tests ---

func TestView_SetFile_LoadsComposite(t *testing.T) {
	v := NewView(nil, nil, &mockEditor{}, mockSync{})

	v.SetFile(testFile())

	assert.Equal(t, "select 1", v.textarea.Value())
	assert.False(t, v.Dirty())
}

func TestView_Typing_MarksDirty(t *testing.T) {
	v := NewView(nil, nil, &mockEditor{}, mockSync{})
	v.SetFile(testFile())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	assert.True(t, v.Dirty())
}

func TestView_Format_ReplacesComposite(t *testing.T) {
	v := NewView(nil, nil, &mockEditor{}, mockSync{})
	v.SetFile(testFile())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyCtrlF})

	assert.Equal(t, "SELECT 1", v.textarea.Value())
	assert.True(t, v.Dirty())
}

func TestView_Save_CallsEditor(t *testing.T) {
	editor := &mockEditor{}
	v := NewView(nil, nil, editor, mockSync{})
	v.SetFile(testFile())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)

	msg := cmd()
	saved, ok := msg.(messages.FileSaved)
	require.True(t, ok)
	assert.NoError(t, saved.Err)
	assert.Equal(t, "select 1", editor.saved["dash.py"])
}

func TestView_Save_WithoutFileIsNoop(t *testing.T) {
	v := NewView(nil, nil, &mockEditor{}, mockSync{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Nil(t, cmd)
}

func TestView_FileSaved_ClearsDirtyAndReloads(t *testing.T) {
	editor := &mockEditor{openView: testFile()}
	v := NewView(nil, nil, editor, mockSync{})
	v.SetFile(testFile())
	v.dirty = true
	v.saving = true

	v, cmd := v.Update(messages.FileSaved{})

	assert.False(t, v.Dirty())
	assert.Equal(t, "saved", v.flash)
	require.NotNil(t, cmd)
	_, ok := cmd().(messages.FileReloaded)
	assert.True(t, ok)
}

func TestView_FileSaved_Error(t *testing.T) {
	v := NewView(nil, nil, &mockEditor{}, mockSync{})
	v.SetFile(testFile())

	v, _ = v.Update(messages.FileSaved{Err: errors.New("disk full")})

	require.Error(t, v.err)
	assert.Contains(t, v.View(), "disk full")
}

func TestView_FileChanged_ReloadsWhenClean(t *testing.T) {
	changed := testFile()
	changed.Composite = "select 2"
	editor := &mockEditor{openView: changed}
	v := NewView(nil, nil, editor, mockSync{})
	v.SetFile(testFile())

	_, cmd := v.Update(tea.Msg(messages.FileChanged{}))
	require.NotNil(t, cmd)

	v, _ = v.Update(cmd())

	assert.Equal(t, "select 2", v.textarea.Value())
	assert.False(t, v.Dirty())
}

func TestView_FileChanged_KeepsDirtyEdits(t *testing.T) {
	changed := testFile()
	changed.Composite = "select 2"
	editor := &mockEditor{openView: changed}
	v := NewView(nil, nil, editor, mockSync{})
	v.SetFile(testFile())
	v.textarea.SetValue("select 9")
	v.dirty = true

	v, _ = v.Update(messages.FileReloaded{View: changed})

	assert.Equal(t, "select 9", v.textarea.Value())
	assert.True(t, v.Dirty())
	assert.Contains(t, v.flash, "changed on disk")
}

func TestView_View_ShowsHeader(t *testing.T) {
	v := NewView(nil, nil, &mockEditor{}, mockSync{})
	v.SetFile(testFile())
	v.resize(80, 24)

	out := v.View()

	assert.Contains(t, out, "dash.py")
	assert.Contains(t, out, "1 fragments")
}

func TestView_View_NoFile(t *testing.T) {
	v := NewView(nil, nil, &mockEditor{}, mockSync{})

	assert.Contains(t, v.View(), "no file open")
}
