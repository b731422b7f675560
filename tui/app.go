package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	session "github.com/koscakluka/crew-core/core"
	"github.com/koscakluka/crew-core/core/backends/bridge"
	"github.com/koscakluka/crew-core/core/events"
)

const healthPollInterval = 15 * time.Second

type connectivity int

const (
	statusChecking connectivity = iota
	statusConnected
	statusError
)

type chatEntry struct {
	role     string // "user" or "assistant"
	text     string // user entries only
	exchange *exchangeView
}

type healthResultMsg struct {
	status *bridge.HealthStatus
	err    error
}

type healthTickMsg struct{}

type exchangeEventMsg struct {
	event events.Event
}

type exchangeDoneMsg struct {
	err error
}

type Model struct {
	session *session.Session
	client  *bridge.Client
	config  Config

	textarea textarea.Model
	spinner  spinner.Model
	viewport viewport.Model
	ready    bool

	entries    []chatEntry
	current    *exchangeView
	generating bool

	connectivity connectivity
	modelName    string

	confirmingReset bool
	flash           string

	updates chan tea.Msg

	width  int
	height int
}

func NewModel(sess *session.Session, client *bridge.Client, config Config) Model {
	ta := textarea.New()
	ta.Placeholder = "ask anything..."
	ta.CharLimit = 0
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		session:      sess,
		client:       client,
		config:       config,
		textarea:     ta,
		spinner:      sp,
		connectivity: statusChecking,
		updates:      make(chan tea.Msg),
		width:        100,
		height:       30,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.checkHealth(), healthTick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshConversation(true)
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case healthResultMsg:
		if msg.err != nil || msg.status == nil || !msg.status.Healthy() {
			m.connectivity = statusError
		} else {
			m.connectivity = statusConnected
			m.modelName = msg.status.Model
		}
		return m, nil

	case healthTickMsg:
		m.connectivity = statusChecking
		return m, tea.Batch(m.checkHealth(), healthTick())

	case exchangeEventMsg:
		if m.current != nil {
			m.current.apply(msg.event)
			m.refreshConversation(true)
		}
		return m, waitForUpdate(m.updates)

	case exchangeDoneMsg:
		m.generating = false
		if m.current != nil {
			if msg.err != nil && m.current.errMessage == "" {
				m.current.errMessage = msg.err.Error()
			}
			m.entries = append(m.entries, chatEntry{role: "assistant", exchange: m.current})
			m.current = nil
		}
		m.refreshConversation(true)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""

	if m.confirmingReset {
		switch msg.String() {
		case "y", "Y":
			m.session.Transcript().Reset()
			m.entries = nil
			m.confirmingReset = false
			m.refreshConversation(false)
		case "n", "N", "esc":
			m.confirmingReset = false
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "enter":
		if m.generating {
			return m, nil
		}
		prompt := strings.TrimSpace(m.textarea.Value())
		if prompt == "" {
			return m, nil
		}
		m.textarea.Reset()
		return m.submit(prompt)

	case "alt+enter", "ctrl+j":
		m.textarea.InsertString("\n")
		return m, nil

	case "ctrl+t":
		if m.generating {
			return m, nil
		}
		if m.session.Mode() == session.ModeTeam {
			m.session.SetMode(session.ModeSolo)
			m.config.Mode = "solo"
		} else {
			m.session.SetMode(session.ModeTeam)
			m.config.Mode = "team"
		}
		if err := m.config.Save(); err != nil {
			m.flash = "could not save settings: " + err.Error()
		}
		return m, nil

	case "ctrl+r":
		if m.generating {
			return m, nil
		}
		if m.session.Transcript().Len() == 0 {
			m.flash = "transcript already empty"
			return m, nil
		}
		m.confirmingReset = true
		return m, nil

	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil

	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) submit(prompt string) (tea.Model, tea.Cmd) {
	m.entries = append(m.entries, chatEntry{role: "user", text: prompt})
	m.current = newExchangeView(m.session.Mode())
	m.generating = true
	m.refreshConversation(true)

	sess := m.session
	updates := m.updates
	start := func() tea.Msg {
		go func() {
			_, err := sess.Send(context.Background(), prompt,
				session.WithEventHandler(func(event events.Event) {
					updates <- exchangeEventMsg{event: event}
				}),
			)
			updates <- exchangeDoneMsg{err: err}
		}()
		return nil
	}

	return m, tea.Batch(m.spinner.Tick, start, waitForUpdate(updates))
}

func waitForUpdate(updates chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func (m *Model) checkHealth() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		status, err := client.Health(ctx)
		return healthResultMsg{status: status, err: err}
	}
}

func healthTick() tea.Cmd {
	return tea.Tick(healthPollInterval, func(time.Time) tea.Msg {
		return healthTickMsg{}
	})
}

func (m *Model) layout() {
	chatHeight := m.height - m.textarea.Height() - 4
	if chatHeight < 3 {
		chatHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(m.width, chatHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = chatHeight
	}
	m.textarea.SetWidth(m.width)
}

func (m *Model) refreshConversation(follow bool) {
	if !m.ready {
		m.layout()
	}
	m.viewport.SetContent(m.renderConversation())
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderConversation() string {
	width := m.width - 2
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	for i, entry := range m.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if entry.role == "user" {
			b.WriteString(userRoleStyle.Render("you"))
			b.WriteString("\n")
			b.WriteString(wordwrap.String(entry.text, width))
			continue
		}
		b.WriteString(assistantRoleStyle.Render("assistant"))
		b.WriteString("\n")
		b.WriteString(entry.exchange.render(width))
	}

	if m.current != nil {
		if len(m.entries) > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(assistantRoleStyle.Render("assistant"))
		b.WriteString("\n")
		b.WriteString(m.current.render(width))
	}

	return b.String()
}

func (m Model) statusBar() string {
	var status string
	switch m.connectivity {
	case statusConnected:
		status = statusConnectedStyle.Render("● connected")
	case statusError:
		status = statusErrorStyle.Render("● error")
	default:
		status = statusCheckingStyle.Render("● checking")
	}

	mode := "solo"
	if m.session.Mode() == session.ModeTeam {
		mode = "team"
	}

	parts := []string{"crew", status, "mode: " + mode}
	if m.modelName != "" {
		parts = append(parts, m.modelName)
	}
	if m.generating {
		parts = append(parts, m.spinner.View()+"generating")
	}
	return statusBarStyle.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var footer string
	switch {
	case m.confirmingReset:
		footer = confirmStyle.Render("start a new conversation and clear the transcript? (y/n)")
	case m.flash != "":
		footer = helpStyle.Render(m.flash)
	default:
		footer = helpStyle.Render("enter send · alt+enter newline · ctrl+t mode · ctrl+r new conversation · ctrl+c quit")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.statusBar(),
		m.viewport.View(),
		m.textarea.View(),
		footer,
	)
}

