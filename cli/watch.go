package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/morikuni/failure/v2"
	"github.com/spf13/cobra"

	"github.com/umcp/umcp/editor"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	playModeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	editModeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40"))

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Watch editor state live",
		Long:  "Subscribe to the bridge's state port and display editor snapshots as they arrive",
		RunE:  runWatch,
	}
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

// snapshotMsg delivers one state line to the UI.
type snapshotMsg editor.Snapshot

// feedClosedMsg ends the session when the bridge goes away.
type feedClosedMsg struct{ err error }

// watchModel represents the state for the watcher UI
type watchModel struct {
	viewport viewport.Model
	ready    bool

	scanner *bufio.Scanner
	current *editor.Snapshot
	history []string
}

// maxHistory bounds the event log shown in the viewport.
const maxHistory = 200

func newWatchModel(scanner *bufio.Scanner) *watchModel {
	return &watchModel{scanner: scanner}
}

// Init starts reading the state feed
func (m *watchModel) Init() tea.Cmd {
	return m.readNext()
}

// readNext blocks on the next snapshot line off the feed.
func (m *watchModel) readNext() tea.Cmd {
	return func() tea.Msg {
		if !m.scanner.Scan() {
			return feedClosedMsg{err: m.scanner.Err()}
		}
		var snap editor.Snapshot
		if err := json.Unmarshal(m.scanner.Bytes(), &snap); err != nil {
			return feedClosedMsg{err: err}
		}
		return snapshotMsg(snap)
	}
}

// Update handles user input and feed events
func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			m.viewport.ScrollDown(1)
		case "k", "up":
			m.viewport.ScrollUp(1)
		case "g", "home":
			m.viewport.GotoTop()
		case "G", "end":
			m.viewport.GotoBottom()
		}

	case snapshotMsg:
		snap := editor.Snapshot(msg)
		m.current = &snap
		m.history = append(m.history, describeSnapshot(snap))
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
		if m.ready {
			atBottom := m.viewport.AtBottom()
			m.viewport.SetContent(strings.Join(m.history, "\n"))
			if atBottom {
				m.viewport.GotoBottom()
			}
		}
		cmds = append(cmds, m.readNext())

	case feedClosedMsg:
		return m, tea.Quit

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-3)
			m.viewport.Style = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				PaddingLeft(2).
				PaddingRight(2)
			m.viewport.SetContent(strings.Join(m.history, "\n"))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 3
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the current state of the model
func (m *watchModel) View() string {
	if !m.ready {
		return "\nConnecting..."
	}

	header := headerStyle.Render("editor state")
	if m.current != nil {
		mode := m.current.RunMode.DisplayString()
		switch m.current.RunMode {
		case editor.PlayMode:
			mode = playModeStyle.Render(mode)
		case editor.EditMode:
			mode = editModeStyle.Render(mode)
		}
		header = fmt.Sprintf("%s  %s  assets:%d", header, mode, m.current.AssetGeneration)
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		PaddingLeft(2)
	help := helpStyle.Render("↑/k up • ↓/j down • g/home top • G/end bottom • q quit")

	return header + "\n" + m.viewport.View() + "\n" + help
}

func describeSnapshot(snap editor.Snapshot) string {
	scene := "no scene"
	if snap.Scene != nil {
		scene = snap.Scene.Name
		if snap.Scene.Dirty {
			scene += "*"
		}
	}
	ts := snap.UpdatedAt.Format("15:04:05")
	if snap.UpdatedAt.IsZero() {
		ts = "--:--:--"
	}
	return fmt.Sprintf("%s  %-9s  %-24s  assets:%d updates:%d repaints:%d",
		ts, snap.RunMode.DisplayString(), scene,
		snap.AssetGeneration, snap.UpdateCount, snap.RepaintCount)
}

func runWatch(cmd *cobra.Command, args []string) error {
	settings, _, err := loadSettings()
	if err != nil {
		return err
	}

	conn, err := net.DialTimeout("tcp", settings.StateAddr(), 5*time.Second)
	if err != nil {
		return failure.Translate(err, BridgeUnreachable,
			failure.Message("Failed to connect to the state port"),
			failure.Context{"addr": settings.StateAddr()},
		)
	}
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	p := tea.NewProgram(
		newWatchModel(scanner),
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
