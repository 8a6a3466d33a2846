package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/D26FORWARD/TaskTree/pkg/application"
	"github.com/D26FORWARD/TaskTree/pkg/domain/planning"
)

type planFlags struct {
	name        string
	overview    string
	prompt      string
	promptFile  string
	model       string
	appID       string
	jsonOut     bool
	showPlan    bool
	interactive bool
}

var (
	planOpts      planFlags
	breakdownOpts planFlags
)

type generateFunc func(p application.Planner, ctx context.Context, info planning.ProjectInfo, opts application.PlanOptions) planning.PlanResult

func (f *planFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Project name")
	cmd.Flags().StringVarP(&f.overview, "overview", "o", "", "Project overview")
	cmd.Flags().StringVarP(&f.prompt, "prompt", "p", "", "Initial prompt describing what to build")
	cmd.Flags().StringVar(&f.promptFile, "prompt-file", "", "Read the initial prompt from a file ('-' for stdin)")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "Model override")
	cmd.Flags().StringVar(&f.appID, "app-id", "", "Aliyun Bailian app id")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "Print the full result as JSON")
}

func (f *planFlags) projectInfo(cmd *cobra.Command) (planning.ProjectInfo, error) {
	info := planning.ProjectInfo{
		ProjectName:     f.name,
		ProjectOverview: f.overview,
		InitialPrompt:   f.prompt,
	}
	if f.promptFile == "" {
		return info, nil
	}

	var data []byte
	var err error
	if f.promptFile == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(f.promptFile)
	}
	if err != nil {
		return info, NewCLIError("cannot read prompt file", "Check the --prompt-file path, or pass '-' to read from stdin", err)
	}
	info.InitialPrompt = strings.TrimSpace(string(data))
	return info, nil
}

func runGenerate(cmd *cobra.Command, f *planFlags, generate generateFunc) error {
	services, err := loadServicesForCurrentDir()
	if err != nil {
		return err
	}

	info, err := f.projectInfo(cmd)
	if err != nil {
		return err
	}

	res := generate(services.Planner, cmd.Context(), info, services.DefaultOptions(f.model, f.appID))
	notifyWebhooks(cmd, services, info, res)

	out := cmd.OutOrStdout()
	if f.jsonOut {
		if err := writeJSON(out, res); err != nil {
			return err
		}
	} else if res.Success && f.interactive {
		if err := browseResult(info.WithDefaults().ProjectName, res); err != nil {
			return err
		}
	} else if res.Success {
		renderPlanResult(out, res, f.showPlan)
	}
	return ResultError(res)
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a development plan with suggested tasks",
	Example: `  tasktree plan --name "Bookshelf" --overview "Library catalogue" --prompt "Build a REST API"
  tasktree plan -n Bookshelf --prompt-file idea.md --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, &planOpts, application.Planner.GeneratePlan)
	},
}

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Break a project down into tasks (table only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, &breakdownOpts, application.Planner.GenerateTaskBreakdown)
	},
}

func init() {
	planOpts.register(planCmd)
	planCmd.Flags().BoolVar(&planOpts.showPlan, "show-plan", true, "Print the plan text above the task table")
	planCmd.Flags().BoolVarP(&planOpts.interactive, "interactive", "i", false, "Browse the tasks in a terminal UI")
	breakdownOpts.register(breakdownCmd)
	breakdownCmd.Flags().BoolVarP(&breakdownOpts.interactive, "interactive", "i", false, "Browse the tasks in a terminal UI")

	RootCmd.AddCommand(planCmd)
	RootCmd.AddCommand(breakdownCmd)
}
