// Package tui renders the interactive chat surface in the terminal.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kailas-cloud/guidechat/pkg/sdk"
)

// SessionClient is the TUI-facing subset of the guidechat SDK.
type SessionClient interface {
	SendMessage(ctx context.Context, id, content string) (sdk.Message, error)
	ClearSession(ctx context.Context, id string) (sdk.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type replyMsg struct {
	msg sdk.Message
	err error
}

type clearedMsg struct {
	sess sdk.Session
	err  error
}

// Model is the Bubble Tea model for the chat client.
type Model struct {
	client    SessionClient
	sessionID string
	messages  []sdk.Message
	input     textinput.Model
	viewport  viewport.Model
	status    string
	busy      bool
	ready     bool
}

// New creates a chat model over an existing session.
func New(client SessionClient, sess sdk.Session) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type your question here..."
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		client:    client,
		sessionID: sess.ID,
		messages:  sess.Messages,
		input:     ti,
		viewport:  vp,
		status:    "Ready. Ctrl+L clears the conversation, Ctrl+C quits.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + 1 + ih + 1 // header + topics, status, input frame, spacer
		vh := msg.Height - reserved - th
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = vh
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			// Best-effort session teardown before quitting.
			_ = m.client.DeleteSession(context.Background(), m.sessionID)
			return m, tea.Quit
		}
		if msg.Type == tea.KeyCtrlL && !m.busy {
			m.busy = true
			m.status = "Clearing conversation..."
			return m, m.clearCmd()
		}
		if msg.String() == "enter" && !m.busy {
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.messages = append(m.messages, sdk.Message{Role: sdk.RoleHuman, Content: q})
			m.input.Reset()
			m.busy = true
			m.status = "Thinking..."
			m.refreshTranscript()
			return m, m.sendCmd(q)
		}

	case replyMsg:
		m.busy = false
		if msg.err != nil {
			m.status = errorStyle.Render("Error: " + msg.err.Error())
		} else {
			m.messages = append(m.messages, msg.msg)
			m.status = "Ready. Ctrl+L clears the conversation, Ctrl+C quits."
		}
		m.refreshTranscript()
		return m, nil

	case clearedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = errorStyle.Render("Error: " + msg.err.Error())
		} else {
			m.messages = msg.sess.Messages
			m.status = "Conversation cleared."
		}
		m.refreshTranscript()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Guide Support Assistant")
	topics := topicsStyle.Render("Data packages · Home broadband · Troubleshooting · Hotlines")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + topics + "\n" + transcript + "\n" + input + "\n" + status
}

func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	var sb strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		label := aiLabelStyle.Render("Assistant")
		if msg.Role == sdk.RoleHuman {
			label = humanLabelStyle.Render("You")
		}
		sb.WriteString(label)
		sb.WriteString("\n")
		sb.WriteString(wrap(msg.Content, m.viewport.Width))
	}
	return sb.String()
}

func (m Model) sendCmd(content string) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.client.SendMessage(context.Background(), m.sessionID, content)
		return replyMsg{msg: reply, err: err}
	}
}

func (m Model) clearCmd() tea.Cmd {
	return func() tea.Msg {
		sess, err := m.client.ClearSession(context.Background(), m.sessionID)
		return clearedMsg{sess: sess, err: err}
	}
}

func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
