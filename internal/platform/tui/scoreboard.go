package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

const (
	minWidthForStats = 84  // stats panel is shown beside the table from this width
	statsPanelWidth  = 24
	maxResults       = 100
)

// resultFilter narrows the table to one outcome.
type resultFilter int

const (
	filterAll resultFilter = iota
	filterWon
	filterGameOver
	filterAbandoned
)

var filterLabels = [...]string{"all", "won", "stuck", "quit"}

func (f resultFilter) next() resultFilter {
	return (f + 1) % resultFilter(len(filterLabels))
}

func (f resultFilter) keep(o storage.Outcome) bool {
	switch f {
	case filterWon:
		return o == storage.OutcomeWon
	case filterGameOver:
		return o == storage.OutcomeGameOver
	case filterAbandoned:
		return o == storage.OutcomeAbandoned
	}
	return true
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Filter key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Filter, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev},
		{k.Filter, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll down")),
		Next:   key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next board")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev board")),
		Filter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter result")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel lists recorded rounds per board preset.
type ScoreboardModel struct {
	boards    []registry.GameInfo
	cursor    int
	filter    resultFilter
	store     *storage.Store
	results   []storage.Result
	stats     *storage.GameStats
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		boards: registry.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.help.Width = width
	m.table = m.newTable()
	m.reload()
	return m
}

func (m ScoreboardModel) showStats() bool {
	return m.width >= minWidthForStats
}

func (m *ScoreboardModel) newTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 8},
		{Title: "Tile", Width: 6},
		{Title: "Result", Width: 7},
		{Title: "Player", Width: 10},
		{Title: "Date", Width: 12},
	}

	room := m.width - 6
	if m.showStats() {
		room -= statsPanelWidth + 4
	}
	used := 0
	for _, c := range columns {
		used += c.Width + 2
	}
	if spare := room - used; spare > 0 {
		columns[4].Width += min(spare, 10)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// reload fetches results and stats for the selected board.
func (m *ScoreboardModel) reload() {
	m.results, m.stats = nil, nil
	if m.store != nil && len(m.boards) > 0 {
		id := m.boards[m.cursor].ID
		if results, err := m.store.TopScores(id, maxResults); err == nil {
			m.results = results
		}
		m.stats, _ = m.store.GetGameStats(id)
	}
	m.fillRows()
}

func (m *ScoreboardModel) fillRows() {
	rows := make([]table.Row, 0, len(m.results))
	for _, r := range m.visible() {
		player := r.Player
		if player == "" {
			player = "local"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(len(rows) + 1),
			strconv.Itoa(r.Score),
			strconv.Itoa(r.MaxTile),
			outcomeLabel(r.Outcome),
			player,
			r.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m ScoreboardModel) visible() []storage.Result {
	if m.filter == filterAll {
		return m.results
	}
	out := make([]storage.Result, 0, len(m.results))
	for _, r := range m.results {
		if m.filter.keep(r.Outcome) {
			out = append(out, r)
		}
	}
	return out
}

func outcomeLabel(o storage.Outcome) string {
	switch o {
	case storage.OutcomeWon:
		return "won"
	case storage.OutcomeAbandoned:
		return "quit"
	default:
		return "stuck"
	}
}

// statsLines summarizes the selected board.
func (m ScoreboardModel) statsLines() []string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return []string{"no rounds yet"}
	}
	lines := []string{
		fmt.Sprintf("rounds    %d", m.stats.GamesCount),
		fmt.Sprintf("won       %d", m.stats.Wins),
		fmt.Sprintf("best      %d", m.stats.HighScore),
		fmt.Sprintf("best tile %d", m.stats.BestTile),
		fmt.Sprintf("average   %.0f", m.stats.AvgScore),
	}
	if !m.stats.LastPlayed.IsZero() {
		lines = append(lines, "last      "+m.stats.LastPlayed.Format("Jan 02"))
	}
	return lines
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Next):
			if len(m.boards) > 0 {
				m.cursor = (m.cursor + 1) % len(m.boards)
				m.reload()
			}
			return m, nil

		case key.Matches(msg, m.keys.Prev):
			if len(m.boards) > 0 {
				m.cursor = (m.cursor + len(m.boards) - 1) % len(m.boards)
				m.reload()
			}
			return m, nil

		case key.Matches(msg, m.keys.Filter):
			m.filter = m.filter.next()
			m.fillRows()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.fillRows()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString(title.Render(centerText("HIGH SCORES", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.tabs(), m.width))
	b.WriteString("\n\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	body := box.Render(m.tableView())
	if m.showStats() {
		panel := box.Width(statsPanelWidth).Render(strings.Join(m.statsLines(), "\n"))
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", panel)
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body))
	b.WriteString("\n")

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(dim.Render("filter: " + filterLabels[m.filter] + "  " + m.help.View(m.keys)))
	return b.String()
}

// tabs renders one tab per board, falling back to "< title >" when narrow.
func (m ScoreboardModel) tabs() string {
	if len(m.boards) == 0 {
		return ""
	}

	idle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	active := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	parts := make([]string, len(m.boards))
	for i, g := range m.boards {
		if i == m.cursor {
			parts[i] = active.Render(g.Title)
		} else {
			parts[i] = idle.Render(g.Title)
		}
	}

	line := strings.Join(parts, " ")
	if lipgloss.Width(line) > m.width-4 {
		return fmt.Sprintf("< %s >", m.boards[m.cursor].Title)
	}
	return line
}

func (m ScoreboardModel) tableView() string {
	if len(m.table.Rows()) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		if len(m.results) > 0 {
			return empty.Render("No " + filterLabels[m.filter] + " rounds.")
		}
		return empty.Render("No rounds recorded yet.\nFinish a board to set a high score!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
