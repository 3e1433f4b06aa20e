package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/helena/scitutor/internal/api"
	"github.com/helena/scitutor/internal/config"
	"github.com/helena/scitutor/internal/history"
	"github.com/helena/scitutor/internal/logger"
	"github.com/helena/scitutor/internal/models"
	"github.com/helena/scitutor/internal/render"
	"github.com/helena/scitutor/internal/session"
)

// Message types for the TUI
type (
	replyMsg struct {
		text string
	}
	replyErrMsg struct {
		err error
	}
)

// Model represents the TUI state. All conversation state lives in the
// session; the model owns presentation only.
type Model struct {
	client  api.TutorClientInterface
	session *session.Session
	cfg     config.Config

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	ready      bool
	darkMode   bool
	statusNote string

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(client api.TutorClientInterface, cfg config.Config) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask a science question..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		client:   client,
		session:  session.New(),
		cfg:      cfg,
		textarea: ta,
		spinner:  s,
		darkMode: render.IsDarkMode(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 1
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.textarea.SetWidth(contentWidth - 4)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
			m.textarea.SetWidth(contentWidth - 4)
		}
		m.updateViewport()
		m.viewport.GotoBottom()

	case tea.KeyMsg:
		m.statusNote = ""

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			// No cancellation: once a request is out, we wait for it
			if !m.session.IsLoading() {
				return m, tea.Quit
			}
			return m, nil

		case "enter":
			input := strings.TrimSpace(m.textarea.Value())
			if input == "exit" || input == "quit" || input == "/exit" || input == "/quit" {
				return m, tea.Quit
			}

			m.session.SetInput(m.textarea.Value())
			historyTurns, ok := m.session.Submit()
			if ok {
				m.textarea.Reset()
				m.updateViewport()
				m.viewport.GotoBottom()

				return m, tea.Batch(
					m.ask(historyTurns),
					m.spinner.Tick,
				)
			}
			// Rejected submit (empty or in flight) falls through to
			// plain buffer editing below.

		case "ctrl+s":
			m.toggleFeature(session.FeatureSummarize)
			return m, nil

		case "ctrl+e":
			m.toggleFeature(session.FeatureExperiment)
			return m, nil

		case "ctrl+t":
			m.toggleTheme()
			return m, nil

		case "ctrl+y":
			if reply, ok := m.session.LastReply(); ok {
				if err := clipboard.WriteAll(reply); err != nil {
					m.statusNote = "copy failed"
				} else {
					m.statusNote = "reply copied"
				}
			}
			return m, nil

		case "ctrl+o":
			m.exportTranscript()
			return m, nil
		}

	case replyMsg:
		m.session.Resolve(msg.text)
		m.updateViewport()
		m.viewport.GotoBottom()
		m.textarea.Focus()

	case replyErrMsg:
		m.session.Fail(msg.err)
		m.updateViewport()
		m.viewport.GotoBottom()
		m.textarea.Focus()

	case spinner.TickMsg:
		if m.session.IsLoading() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// The input buffer stays editable while a request is in flight;
	// only submitting is guarded.
	if _, ok := msg.(tea.KeyMsg); ok {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
		m.session.SetInput(m.textarea.Value())
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// toggleFeature flips a quick prompt and syncs the textarea with the
// session's buffer (activation overwrites it, deactivation keeps it).
func (m *Model) toggleFeature(kind session.Feature) {
	m.session.ToggleFeature(kind)
	m.textarea.SetValue(m.session.Input())
	m.textarea.CursorEnd()
}

// toggleTheme flips dark mode, reapplies styles and persists the
// preference. A failed write keeps the in-memory flip and is only
// logged; it never surfaces to the user.
func (m *Model) toggleTheme() {
	m.darkMode = !m.darkMode
	render.SetDarkMode(m.darkMode)
	UpdateTheme()

	m.cfg.SetTheme(m.darkMode)
	if err := config.SaveConfig(m.cfg); err != nil {
		logger.Warn().Err(err).Msg("failed to persist theme preference")
	}
	m.updateViewport()
}

// exportTranscript writes the transcript to the exports directory
func (m *Model) exportTranscript() {
	dir, err := config.GetConfigDir()
	if err != nil {
		m.statusNote = "export failed"
		return
	}

	path, err := history.ExportTranscript(filepath.Join(dir, "exports"), m.session.Messages())
	if err != nil {
		logger.Error().Err(err).Msg("transcript export failed")
		m.statusNote = "export failed"
		return
	}
	m.statusNote = "saved " + filepath.Base(path)
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	themeName := config.ThemeLight
	if m.darkMode {
		themeName = config.ThemeDark
	}
	headerParts := []string{
		titleStyle.Render("✦ Science Tutor"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(themeName),
	}
	if feature := m.session.ActiveFeature(); feature != session.FeatureNone {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			featureStyle.Render(string(feature)),
		)
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// Messages area; the welcome message guarantees it is never empty
	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View())
	sections = append(sections, messagesPanel)

	// Input area
	inputLabel := inputLabelStyle.Render("You")
	if m.session.IsLoading() {
		inputLabel = lipgloss.JoinHorizontal(
			lipgloss.Center,
			m.spinner.View(),
			loadingStyle.Render(" Tutor is thinking..."),
		)
	}
	inputContent := lipgloss.JoinVertical(
		lipgloss.Left,
		inputLabel,
		m.textarea.View(),
	)
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	// Status bar
	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"^S", "Summarize"},
		{"^E", "Experiment"},
		{"^T", "Theme"},
		{"^Y", "Copy"},
		{"^O", "Export"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		item := lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		)
		items = append(items, item)
	}

	bar := strings.Join(items, "  │  ")
	if m.statusNote != "" {
		bar += statusNoteStyle.Render("  •  " + m.statusNote)
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// ask creates a command that sends the captured history to the tutor
// service. Exactly one of replyMsg or replyErrMsg comes back; the
// session resolves strictly after the user's message was displayed.
func (m Model) ask(historyTurns []api.Turn) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.client.Ask(context.Background(), historyTurns)
		if err != nil {
			return replyErrMsg{err: err}
		}
		return replyMsg{text: reply}
	}
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	for i, msg := range m.session.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.Role == models.RoleUser {
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := tutorLabelStyle.Render("✦ Tutor")
			bubble := tutorBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI
func RunChat(client api.TutorClientInterface, cfg config.Config) error {
	m := NewChatModel(client, cfg)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	if err != nil {
		return fmt.Errorf("chat session failed: %w", err)
	}
	return nil
}
