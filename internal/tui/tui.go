package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/guessthenumber/internal/client"
	"github.com/lox/guessthenumber/internal/client/commands"
)

// Conn is the server connection the TUI drives.
type Conn interface {
	PlaceBet(name string, number, amount int) error
	SendRaw(payload []byte) error
	Messages() <-chan string
}

// ServerMsg carries one text from the server into the update loop.
type ServerMsg string

// DisconnectedMsg is delivered once the server connection ends.
type DisconnectedMsg struct{}

// Model is the Bubble Tea model of the interactive client.
type Model struct {
	conn        Conn
	defaultName string
	logger      *log.Logger

	logViewport viewport.Model
	betInput    textinput.Model

	gameLog      []string
	disconnected bool
	quitting     bool

	width  int
	height int
}

// NewModel creates a TUI bound to conn. defaultName is used for bets typed
// as "<number> <amount>".
func NewModel(conn Conn, defaultName string, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "<name> <number> <amount>, e.g. alice 7 10 (help for more)"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 80
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "> "

	return &Model{
		conn:        conn,
		defaultName: defaultName,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		betInput:    ti,
	}
}

// Init starts listening for server messages.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForServer())
}

func (m *Model) waitForServer() tea.Cmd {
	return func() tea.Msg {
		text, ok := <-m.conn.Messages()
		if !ok {
			return DisconnectedMsg{}
		}
		return ServerMsg(text)
	}
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case ServerMsg:
		text := string(msg)
		m.AddLogEntry(StyleFor(client.Classify(text)).Render(text))
		cmds = append(cmds, m.waitForServer())

	case DisconnectedMsg:
		m.disconnected = true
		m.AddLogEntry(ErrorStyle.Render("Disconnected from server. Press esc to exit."))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			line := m.betInput.Value()
			m.betInput.SetValue("")
			if m.processInput(line) {
				m.quitting = true
				return m, tea.Quit
			}
		case "pgup":
			m.logViewport.HalfPageUp()
		case "pgdown":
			m.logViewport.HalfPageDown()
		}
	}

	var cmd tea.Cmd
	m.betInput, cmd = m.betInput.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// processInput acts on a typed line and reports whether the user asked to
// quit.
func (m *Model) processInput(line string) bool {
	cmd, err := commands.Parse(line, m.defaultName)
	if err != nil {
		if err != commands.ErrEmpty {
			m.AddLogEntry(ErrorStyle.Render(err.Error()))
		}
		return false
	}

	switch cmd.Type {
	case commands.Quit:
		return true
	case commands.Help:
		m.AddLogEntry(InfoStyle.Render(commands.Usage))
		return false
	}

	if m.disconnected {
		m.AddLogEntry(ErrorStyle.Render("Not connected."))
		return false
	}

	switch cmd.Type {
	case commands.Bet:
		m.AddLogEntry(YouStyle.Render("you: " + line))
		err = m.conn.PlaceBet(cmd.Name, cmd.Number, cmd.Amount)
	case commands.Raw:
		m.AddLogEntry(YouStyle.Render("you (raw): " + cmd.Payload))
		err = m.conn.SendRaw([]byte(cmd.Payload))
	}
	if err != nil {
		m.logger.Error("Failed to send", "error", err)
		m.AddLogEntry(ErrorStyle.Render("send failed: " + err.Error()))
	}
	return false
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := HeaderStyle.Render("Guess the Number")
	status := InfoStyle.Render("connected")
	if m.disconnected {
		status = ErrorStyle.Render("disconnected")
	}
	top := lipgloss.JoinHorizontal(lipgloss.Center, header, " ", status)

	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		LogPaneStyle.Render(m.logViewport.View()),
		m.betInput.View(),
		InfoStyle.Render("enter: send  pgup/pgdown: scroll  esc: quit"),
	)
}

// AddLogEntry appends a line to the log and scrolls to it.
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns every entry shown so far.
func (m *Model) Log() []string {
	return append([]string(nil), m.gameLog...)
}

func (m *Model) resize() {
	// header, input and help lines plus the pane border
	const chrome = 5
	w := max(m.width-2, 10)
	h := max(m.height-chrome, 3)

	m.logViewport.Width = w
	m.logViewport.Height = h
	m.betInput.Width = w - len(m.betInput.Prompt)
	m.logViewport.GotoBottom()
}
