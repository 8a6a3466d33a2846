package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/D26FORWARD/TaskTree/pkg/domain/planning"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func staticTable(columns []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Bold(true)
	s.Selected = lipgloss.NewStyle() // Disable selection style for static view
	t.SetStyles(s)
	return t
}

func renderTasks(w io.Writer, tasks []planning.Task) {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Task", Width: 36},
		{Title: "Pri", Width: 4},
		{Title: "Depends on", Width: 30},
		{Title: "Description", Width: 50},
	}

	rows := make([]table.Row, 0, len(tasks))
	for i, t := range tasks {
		deps := "-"
		if len(t.Dependencies) > 0 {
			deps = strings.Join(t.Dependencies, ", ")
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			t.Title,
			strconv.Itoa(t.Priority),
			deps,
			t.Description,
		})
	}

	fmt.Fprintln(w, staticTable(columns, rows).View())
}

func renderUsage(w io.Writer, res planning.PlanResult) {
	if res.CostInfo == nil {
		return
	}
	c := res.CostInfo
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf(
		"Model: %s | Tokens: %d in / %d out | Cost: $%.4f (in $%.4f, out $%.4f)",
		c.Model, c.InputTokens, c.OutputTokens, c.TotalCost, c.InputCost, c.OutputCost)))
}

func renderPlanResult(w io.Writer, res planning.PlanResult, showPlan bool) {
	if showPlan && strings.TrimSpace(res.Plan) != "" {
		fmt.Fprintln(w, headingStyle.Render("Plan"))
		fmt.Fprintln(w, res.Plan)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("Suggested tasks (%d, %s)", len(res.SuggestedTasks), res.Tier)))
	renderTasks(w, res.SuggestedTasks)
	renderUsage(w, res)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
