// Package tui provides a Bubble Tea terminal chat client for the collection.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vinylchat/internal/service"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500")).
			MarginBottom(1)

	questionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))

	answerStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	metaStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.Color("#6C757D"))

	errorStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

const (
	defaultWidth  = 80
	defaultHeight = 20
	// rows used by the title, input line and help footer
	chromeHeight = 6
)

// Exchange is one question and its answer in the transcript.
type Exchange struct {
	Question string
	Answer   string
	Meta     string
	Err      error
}

// answerMsg carries the result of a chat request back to Update.
type answerMsg struct {
	resp service.ChatResponse
	err  error
}

// Model is the Bubble Tea model for the chat client.
type Model struct {
	chat    service.ChatService
	mode    string
	session string

	input      textinput.Model
	spinner    spinner.Model
	transcript viewport.Model
	exchanges  []Exchange
	waiting    bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewModel creates a chat model backed by chat. mode is passed through on
// every request; session tags the chat log entries.
func NewModel(chat service.ChatService, mode, session string) Model {
	ti := textinput.New()
	ti.Placeholder = "what do I have by Grimes?"
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = defaultWidth - 4

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#F8B500"))

	vp := viewport.New(defaultWidth, defaultHeight)

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		chat:       chat,
		mode:       mode,
		session:    session,
		input:      ti,
		spinner:    sp,
		transcript: vp,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Exchanges returns the transcript so far.
func (m Model) Exchanges() []Exchange {
	return m.exchanges
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.transcript.Width = msg.Width
		m.transcript.Height = max(msg.Height-chromeHeight, 3)
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancel()
			return m, tea.Quit

		case tea.KeyEnter:
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.waiting {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			m.exchanges = append(m.exchanges, Exchange{Question: question})
			m.refresh()
			return m, tea.Batch(m.ask(question), m.spinner.Tick)

		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.transcript, cmd = m.transcript.Update(msg)
			return m, cmd
		}

	case answerMsg:
		m.waiting = false
		last := &m.exchanges[len(m.exchanges)-1]
		if msg.err != nil {
			last.Err = msg.err
		} else {
			last.Answer = msg.resp.Answer
			last.Meta = describe(msg.resp)
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) ask(question string) tea.Cmd {
	ctx := m.ctx
	chat := m.chat
	req := service.ChatRequest{Message: question, Mode: m.mode, SessionID: m.session}
	return func() tea.Msg {
		resp, err := chat.ProcessChat(ctx, req)
		return answerMsg{resp: resp, err: err}
	}
}

func describe(resp service.ChatResponse) string {
	parts := []string{resp.Intent, resp.RoutedBy}
	if resp.ToolName != "" {
		parts = append(parts, resp.ToolName)
	}
	if resp.Model != "" {
		parts = append(parts, resp.Model)
	}
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " · ")
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (m *Model) refresh() {
	var b strings.Builder
	for i, ex := range m.exchanges {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("> " + ex.Question))
		b.WriteByte('\n')
		switch {
		case ex.Err != nil:
			b.WriteString(errorStyle.Render("error: " + ex.Err.Error()))
		case ex.Answer == "" && m.waiting && i == len(m.exchanges)-1:
			b.WriteString(answerStyle.Render(m.spinner.View() + " thinking"))
		default:
			b.WriteString(answerStyle.Render(ex.Answer))
			if ex.Meta != "" {
				b.WriteByte('\n')
				b.WriteString(metaStyle.Render(ex.Meta))
			}
		}
	}
	m.transcript.SetContent(b.String())
	m.transcript.GotoBottom()
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Vinyl Chat"))
	b.WriteByte('\n')
	b.WriteString(m.transcript.View())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render("enter: ask • pgup/pgdn: scroll • esc: quit"))
	return b.String()
}
