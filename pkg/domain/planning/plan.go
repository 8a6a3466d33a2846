package planning

import (
	"strings"

	"github.com/D26FORWARD/TaskTree/pkg/domain/ai"
	"github.com/D26FORWARD/TaskTree/pkg/domain/billing"
)

const (
	// MaxSuggestedTasks bounds every parse result regardless of tier.
	MaxSuggestedTasks = 15
	// MaxTitleLength is measured in runes.
	MaxTitleLength  = 100
	DefaultPriority = 5
)

// ProjectInfo describes the project a plan is requested for.
type ProjectInfo struct {
	ProjectName     string `json:"project_name" yaml:"project_name"`
	ProjectOverview string `json:"project_overview" yaml:"project_overview"`
	InitialPrompt   string `json:"initial_prompt" yaml:"initial_prompt"`
}

// WithDefaults fills absent fields with fixed placeholders.
func (p ProjectInfo) WithDefaults() ProjectInfo {
	if strings.TrimSpace(p.ProjectName) == "" {
		p.ProjectName = "Unknown"
	}
	if strings.TrimSpace(p.ProjectOverview) == "" {
		p.ProjectOverview = "No overview provided"
	}
	if strings.TrimSpace(p.InitialPrompt) == "" {
		p.InitialPrompt = "No initial prompt provided"
	}
	return p
}

// Task is one suggested unit of work. Dependencies hold other task titles
// verbatim; they are not checked against the produced set.
type Task struct {
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
	Priority     int      `json:"priority" yaml:"priority"`
}

// Tier names the parsing strategy that produced a task list.
type Tier string

const (
	TierStructured Tier = "structured"
	TierHeuristic  Tier = "heuristic"
	TierBootstrap  Tier = "bootstrap"
)

// ErrorKind classifies a failed plan request.
type ErrorKind string

const (
	ErrorConfiguration ErrorKind = "configuration"
	ErrorTimeout       ErrorKind = "timeout"
	ErrorProvider      ErrorKind = "provider"
	ErrorUnexpected    ErrorKind = "unexpected"
)

// Retryable reports whether repeating the same request could succeed.
func (k ErrorKind) Retryable() bool {
	return k == ErrorTimeout || k == ErrorProvider || k == ErrorUnexpected
}

// PlanResult is the outcome of one plan request.
type PlanResult struct {
	Success        bool              `json:"success"`
	Error          string            `json:"error,omitempty"`
	ErrorKind      ErrorKind         `json:"error_kind,omitempty"`
	Plan           string            `json:"plan"`
	SuggestedTasks []Task            `json:"suggested_tasks"`
	Tier           Tier              `json:"tier,omitempty"`
	CostInfo       *billing.CostInfo `json:"cost_info,omitempty"`
	Usage          *ai.UsageInfo     `json:"usage,omitempty"`
}

// FailedResult builds the uniform failure shape: no plan text, no tasks.
func FailedResult(kind ErrorKind, msg string) PlanResult {
	return PlanResult{
		Success:        false,
		Error:          msg,
		ErrorKind:      kind,
		Plan:           "",
		SuggestedTasks: []Task{},
	}
}
