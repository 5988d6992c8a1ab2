package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"vinylchat/internal/service"
	"vinylchat/internal/service/mocks"
)

func typeText(t *testing.T, m tea.Model, text string) tea.Model {
	t.Helper()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestModel_AskAndAnswer(t *testing.T) {
	ctrl := gomock.NewController(t)
	chat := mocks.NewMockChatService(ctrl)
	chat.EXPECT().
		ProcessChat(gomock.Any(), service.ChatRequest{Message: "stats", Mode: "deterministic", SessionID: "tui"}).
		Return(service.ChatResponse{
			Answer:   "Collection Statistics:",
			ToolName: "stats_summary",
			Intent:   "stats",
			RoutedBy: "router",
		}, nil)

	var m tea.Model = NewModel(chat, "deterministic", "tui")
	m = typeText(t, m, "stats")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	model := m.(Model)
	assert.True(t, model.waiting)
	require.Len(t, model.Exchanges(), 1)
	assert.Equal(t, "stats", model.Exchanges()[0].Question)

	// Run the request directly rather than through the batched command.
	msg := model.ask("stats")()
	m, _ = m.Update(msg)
	model = m.(Model)

	assert.False(t, model.waiting)
	ex := model.Exchanges()[0]
	assert.Equal(t, "Collection Statistics:", ex.Answer)
	assert.Equal(t, "stats · router · stats_summary", ex.Meta)
	assert.Contains(t, model.View(), "Collection Statistics:")
}

func TestModel_AnswerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	chat := mocks.NewMockChatService(ctrl)

	var m tea.Model = NewModel(chat, "auto", "")
	m = typeText(t, m, "hello")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(answerMsg{err: errors.New("collection unavailable")})

	model := m.(Model)
	require.Len(t, model.Exchanges(), 1)
	assert.EqualError(t, model.Exchanges()[0].Err, "collection unavailable")
	assert.Contains(t, model.View(), "collection unavailable")
}

func TestModel_IgnoresBlankAndBusyInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	chat := mocks.NewMockChatService(ctrl)

	var m tea.Model = NewModel(chat, "auto", "")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, m.(Model).Exchanges())

	m = typeText(t, m, "first")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = typeText(t, m, "second")
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Len(t, m.(Model).Exchanges(), 1)
}

func TestModel_Quit(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		ctrl := gomock.NewController(t)
		m := NewModel(mocks.NewMockChatService(ctrl), "auto", "")
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
		assert.Error(t, m.ctx.Err(), "context should be canceled on quit")
	}
}

func TestModel_WindowResize(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _ := NewModel(mocks.NewMockChatService(ctrl), "auto", "").Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	model := m.(Model)
	assert.Equal(t, 100, model.transcript.Width)
	assert.Equal(t, 40-chromeHeight, model.transcript.Height)
	assert.True(t, strings.Contains(model.View(), "Vinyl Chat"))
}
