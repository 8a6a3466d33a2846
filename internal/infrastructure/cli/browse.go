package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/D26FORWARD/TaskTree/pkg/domain/planning"
)

var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

// browseModel is a read-only task browser: the table on top, the selected task below.
type browseModel struct {
	table  table.Model
	title  string
	result planning.PlanResult
}

func newBrowseModel(title string, res planning.PlanResult) browseModel {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Task", Width: 40},
		{Title: "Pri", Width: 4},
		{Title: "Deps", Width: 5},
	}
	rows := make([]table.Row, 0, len(res.SuggestedTasks))
	for i, t := range res.SuggestedTasks {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			t.Title,
			strconv.Itoa(t.Priority),
			strconv.Itoa(len(t.Dependencies)),
		})
	}

	height := len(rows) + 1
	if height > 12 {
		height = 12
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))
	t.SetStyles(s)

	return browseModel{table: t, title: title, result: res}
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) selected() (planning.Task, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.result.SuggestedTasks) {
		return planning.Task{}, false
	}
	return m.result.SuggestedTasks[i], true
}

func (m browseModel) View() string {
	header := headerStyle.Render(fmt.Sprintf("%s: %d tasks (%s)", m.title, len(m.result.SuggestedTasks), m.result.Tier))

	detail := "No task selected."
	if t, ok := m.selected(); ok {
		deps := "none"
		if len(t.Dependencies) > 0 {
			deps = strings.Join(t.Dependencies, ", ")
		}
		detail = fmt.Sprintf("%s\n\n%s\n\nDepends on: %s\nPriority: %d",
			headingStyle.Render(t.Title), t.Description, deps, t.Priority)
	}

	cost := ""
	if c := m.result.CostInfo; c != nil {
		cost = mutedStyle.Render(fmt.Sprintf("%s | %d in / %d out tokens | $%.4f", c.Model, c.InputTokens, c.OutputTokens, c.TotalCost))
	}

	return baseStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			m.table.View(),
			"",
			detail,
			"",
			cost,
			"[q] Quit  [Up/Down] Navigate",
		),
	) + "\n"
}

func browseResult(title string, res planning.PlanResult) error {
	if os.Getenv("TASKTREE_SKIP_TUI") == "true" {
		return nil
	}
	p := tea.NewProgram(newBrowseModel(title, res))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("task browser failed: %w", err)
	}
	return nil
}
