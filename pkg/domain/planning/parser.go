package planning

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	boldMarker      = "**"
	dependenciesKey = "Dependencies:"
	priorityKey     = "Priority:"
)

// TierFunc extracts tasks from provider text. An empty result means "try the next tier".
type TierFunc func(text string) []Task

type tier struct {
	name  Tier
	parse TierFunc
}

// tiers is ordered from most to least structured. The last tier never returns empty.
var tiers = []tier{
	{TierStructured, ParseStructured},
	{TierHeuristic, ParseHeuristic},
	{TierBootstrap, func(string) []Task { return BootstrapTasks() }},
}

// heuristicKeywords mark a dash bullet as task-like in the heuristic tier.
var heuristicKeywords = []string{"task", "implement", "create", "build"}

// ParseResponse turns provider text into a successful PlanResult. Text that does not
// follow the requested format only degrades the tier; it is never an error.
func ParseResponse(text string) PlanResult {
	tasks, used := ExtractTasks(text)
	return PlanResult{
		Success:        true,
		Plan:           text,
		SuggestedTasks: tasks,
		Tier:           used,
	}
}

// ExtractTasks runs the tiers in order and returns the first non-empty result,
// capped at MaxSuggestedTasks, together with the tier that produced it.
func ExtractTasks(text string) ([]Task, Tier) {
	for _, t := range tiers {
		if tasks := t.parse(text); len(tasks) > 0 {
			if len(tasks) > MaxSuggestedTasks {
				tasks = tasks[:MaxSuggestedTasks]
			}
			return tasks, t.name
		}
	}
	return BootstrapTasks(), TierBootstrap
}

// ParseStructured reads lines of the form
// `- **Title** - Description | Dependencies: [a, b] | Priority: N`.
// Lines that do not match are skipped.
func ParseStructured(text string) []Task {
	var tasks []Task
	for _, line := range strings.Split(text, "\n") {
		if task, ok := parseStructuredLine(line); ok {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

func parseStructuredLine(line string) (Task, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "- "+boldMarker) || !strings.Contains(line[len("- "+boldMarker):], boldMarker) {
		return Task{}, false
	}

	parts := strings.Split(line, boldMarker)
	if len(parts) < 3 {
		return Task{}, false
	}

	title := truncateRunes(strings.TrimSpace(parts[1]), MaxTitleLength)
	if title == "" {
		return Task{}, false
	}

	remaining := strings.TrimSpace(parts[2])
	if strings.HasPrefix(remaining, "-") {
		remaining = strings.TrimSpace(remaining[1:])
	}

	sections := strings.Split(remaining, "|")
	task := Task{
		Title:        title,
		Description:  strings.TrimSpace(sections[0]),
		Dependencies: []string{},
		Priority:     DefaultPriority,
	}

	for _, section := range sections[1:] {
		section = strings.TrimSpace(section)
		switch {
		case strings.HasPrefix(section, dependenciesKey):
			task.Dependencies = parseDependencies(section[len(dependenciesKey):])
		case strings.HasPrefix(section, priorityKey):
			task.Priority = parsePriority(section[len(priorityKey):])
		}
	}
	return task, true
}

func parseDependencies(raw string) []string {
	raw = strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "[]"))
	deps := []string{}
	if raw == "" || strings.EqualFold(raw, "none") {
		return deps
	}
	for _, dep := range strings.Split(raw, ",") {
		if dep = strings.TrimSpace(dep); dep != "" {
			deps = append(deps, dep)
		}
	}
	return deps
}

// parsePriority keeps any parsable integer as-is, including values outside 1-10.
func parsePriority(raw string) int {
	p, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultPriority
	}
	return p
}

// ParseHeuristic picks up plain "- " bullets that read like work items.
func ParseHeuristic(text string) []Task {
	var tasks []Task
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- ") || !containsKeyword(line) {
			continue
		}
		title := line[2:]
		if len([]rune(title)) <= 5 {
			continue
		}
		tasks = append(tasks, Task{
			Title:        truncateRunes(title, MaxTitleLength),
			Description:  fmt.Sprintf("Complete the following task: %s", title),
			Dependencies: []string{},
			Priority:     DefaultPriority,
		})
		if len(tasks) == MaxSuggestedTasks {
			break
		}
	}
	return tasks
}

func containsKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range heuristicKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
