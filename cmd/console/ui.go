package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/storyweaver/pkg/narrative"
	"github.com/jwebster45206/storyweaver/pkg/state"
	"github.com/muesli/reflow/wordwrap"
)

const AppName = "STORYWEAVER"

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	ctx           context.Context
	game          *Game
	storyViewport viewport.Model
	metaViewport  viewport.Model
	ready         bool
	width         int
	height        int
	err           error
	status        string

	// Cursor over the current answers or choices
	selected int

	// Quit confirmation state
	showQuitModal bool
}

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Italic(true)

	flavorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")). // green
			Italic(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

// choiceStyles colours choices by their authored style.
var choiceStyles = map[string]lipgloss.Style{
	"danger": lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	"mystic": lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
	"calm":   lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
	"bold":   lipgloss.NewStyle().Bold(true),
}

func NewConsoleUI(ctx context.Context, game *Game) ConsoleUI {
	storyVp := viewport.New(50, 20)
	storyVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		ctx:           ctx,
		game:          game,
		storyViewport: storyVp,
		metaViewport:  metaVp,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return nil
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.storyViewport, vpCmd = m.storyViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selected > 0 {
				m.selected--
			}
			m.refresh()
			return m, nil
		case tea.KeyDown:
			if m.selected < m.optionCount()-1 {
				m.selected++
			}
			m.refresh()
			return m, nil
		case tea.KeyEnter:
			m.pick(m.selected)
			return m, nil
		case tea.KeyCtrlR:
			m.err = m.game.Restart(m.ctx)
			m.status = "Save cleared. Starting over."
			m.selected = 0
			m.refresh()
			return m, nil
		}

		switch key := msg.String(); key {
		case "y":
			m.copyPersona()
			m.refresh()
			return m, nil
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			m.pick(int(key[0] - '1'))
			return m, nil
		}
	}

	m.storyViewport, vpCmd = m.storyViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)
	return m, tea.Batch(vpCmd, mvCmd)
}

// pick answers the survey or selects a story choice.
func (m *ConsoleUI) pick(i int) {
	if i < 0 || i >= m.optionCount() {
		return
	}
	m.status = ""
	if m.game.InSurvey() {
		m.err = m.game.Answer(m.ctx, i)
	} else {
		m.err = m.game.Choose(m.ctx, i)
	}
	m.selected = 0
	m.refresh()
}

func (m *ConsoleUI) copyPersona() {
	text := m.game.PersonaText()
	if text == "" {
		m.status = "Nothing to copy yet."
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.status = "Clipboard unavailable."
		return
	}
	m.status = "Persona copied to clipboard."
}

// optionCount is the number of selectable entries on screen.
func (m ConsoleUI) optionCount() int {
	if m.game.InSurvey() {
		q, ok := m.game.Survey().Current()
		if !ok {
			return 0
		}
		return len(q.Answers)
	}
	if m.game.Ended() {
		return 1
	}
	if scene := m.game.Scene(); scene != nil {
		return len(scene.Choices)
	}
	return 0
}

func (m *ConsoleUI) resize() {
	storyWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - storyWidth - 6

	m.storyViewport.Width = storyWidth - 2
	m.storyViewport.Height = m.height - 5
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
}

// refresh rebuilds both panels for the current width.
func (m *ConsoleUI) refresh() {
	if !m.ready {
		return
	}
	m.storyViewport.SetContent(m.writeStoryContent())
	m.metaViewport.SetContent(writeMetadata(m.game.View(), m.metaViewport.Width))
}

func (m ConsoleUI) writeStoryContent() string {
	width := m.storyViewport.Width - 6 // Account for left(3) + right(3) padding
	if width < 20 {
		width = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render(AppName) + "\n\n")

	if m.game.InSurvey() {
		m.writeSurvey(&content, width)
	} else {
		m.writeScene(&content, width)
	}

	if m.err != nil {
		content.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}
	if m.status != "" {
		content.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}
	return content.String()
}

func (m ConsoleUI) writeSurvey(content *strings.Builder, width int) {
	s := m.game.Survey()
	q, ok := s.Current()
	if !ok {
		return
	}
	content.WriteString(promptStyle.Render(s.Progress()) + "\n\n")
	content.WriteString(wordwrap.String(q.Text, width) + "\n\n")
	for i, answer := range q.Answers {
		content.WriteString(renderOption(i, answer, i == m.selected, itemStyle) + "\n")
	}
}

func (m ConsoleUI) writeScene(content *strings.Builder, width int) {
	if title := m.game.Title(); title != "" {
		content.WriteString(titleStyle.Render(title) + "\n")
	}
	if subtitle := m.game.Subtitle(); subtitle != "" {
		content.WriteString(subtitleStyle.Render(wordwrap.String(subtitle, width)) + "\n")
	}
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	if m.game.Ended() {
		content.WriteString(titleStyle.Render("The End") + "\n\n")
		content.WriteString(renderOption(0, narrative.RestartText, true, itemStyle) + "\n")
		return
	}

	scene := m.game.Scene()
	if scene == nil {
		return
	}
	if scene.Missing {
		content.WriteString(errorStyle.Render("The path fades here.") + "\n\n")
	}
	if scene.Title != "" {
		content.WriteString(titleStyle.Render(scene.Title) + "\n\n")
	}
	if scene.Text != "" {
		content.WriteString(wordwrap.String(scene.Text, width) + "\n\n")
	}
	if scene.Flavor != "" {
		content.WriteString(flavorStyle.Render(wordwrap.String(scene.Flavor, width)) + "\n\n")
	}

	for i, c := range scene.Choices {
		style, ok := choiceStyles[c.Style]
		if !ok {
			style = itemStyle
		}
		content.WriteString(renderOption(i, c.Text, i == m.selected, style) + "\n")
		if c.Hint != "" {
			content.WriteString("     " + hintStyle.Render(wordwrap.String(c.Hint, width-5)) + "\n")
		}
	}
}

func renderOption(i int, text string, selected bool, style lipgloss.Style) string {
	label := fmt.Sprintf("%d. %s", i+1, text)
	if selected {
		return selectedItemStyle.Render("▶ " + label)
	}
	return style.Render("  " + label)
}

func writeMetadata(v narrative.View, width int) string {
	if width < 10 {
		width = 10
	}
	var content strings.Builder

	content.WriteString(titleStyle.Render("CHARACTER") + "\n\n")
	if v.Identity.Epithet != "" {
		content.WriteString(wordwrap.String(v.Identity.Epithet, width) + "\n")
	}
	if v.Identity.Summary != "" {
		content.WriteString(promptStyle.Render(wordwrap.String(v.Identity.Summary, width)) + "\n")
	}
	content.WriteString("\n")

	content.WriteString("Stats:\n")
	if len(v.Stats) == 0 {
		content.WriteString("None yet\n")
	}
	for _, s := range v.Stats {
		content.WriteString(fmt.Sprintf("• %s: %d\n", s.Label, s.Value))
	}
	content.WriteString("\n")

	content.WriteString("Inventory:\n")
	if len(v.Inventory) == 0 {
		content.WriteString("Empty\n")
	}
	for _, item := range v.Inventory {
		content.WriteString("• " + item + "\n")
	}
	content.WriteString("\n")

	if len(v.ActiveQuests) > 0 || len(v.CompletedQuests) > 0 {
		content.WriteString("Quests:\n")
		for _, q := range v.ActiveQuests {
			content.WriteString(wordwrap.String("• "+q.Title, width) + "\n")
		}
		for _, q := range v.CompletedQuests {
			content.WriteString(promptStyle.Render(wordwrap.String("✓ "+q.Title, width)) + "\n")
		}
		content.WriteString("\n")
	}

	if len(v.Codex) > 0 {
		content.WriteString("Codex:\n")
		for _, c := range v.Codex {
			content.WriteString(wordwrap.String("• "+c.Title, width) + "\n")
		}
		content.WriteString("\n")
	}

	if len(v.History) > 0 {
		content.WriteString("Recent:\n")
		for _, h := range v.History {
			if h.Type == state.HistoryNode {
				continue
			}
			content.WriteString(promptStyle.Render(wordwrap.String(h.Text, width)) + "\n")
		}
		content.WriteString("\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• ↑/↓ Enter or 1-9: Choose\n")
	content.WriteString("• y: Copy persona\n")
	content.WriteString("• Ctrl+R: Restart\n")
	content.WriteString("• Esc: Quit\n")

	return content.String()
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Your progress is saved. Quit your adventure?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	// Create the modal
	modal := modalStyle.Width(50).Render(content.String())

	// Center the modal
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	storyWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - storyWidth - 6

	storyPanel := storyPanelStyle.Width(storyWidth).Height(m.height - 3).Render(
		m.storyViewport.View(),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, storyPanel, metaPanel)
}
