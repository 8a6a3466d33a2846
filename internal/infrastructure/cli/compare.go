package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"

	"github.com/D26FORWARD/TaskTree/pkg/application"
	"github.com/D26FORWARD/TaskTree/pkg/domain/ai"
)

var (
	compareOpts      planFlags
	compareProviders []string
)

// parseCompareTarget accepts "provider" or "provider:model".
func parseCompareTarget(target string) (ai.ProviderID, string, error) {
	name, model, _ := strings.Cut(strings.TrimSpace(target), ":")
	id := ai.ParseProviderID(name)
	if id == ai.ProviderUnknown || name == "" {
		return "", "", NewCLIError(fmt.Sprintf("unknown provider %q", name), "Use anthropic, openai, azure or aliyun", nil)
	}
	return id, strings.TrimSpace(model), nil
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Generate the same plan with several providers side by side",
	Long: `Compare sends one request per provider concurrently. Keys are read from
TASKTREE_<PROVIDER>_API_KEY; the configured provider also uses the configured key.`,
	Example: `  tasktree compare -n Bookshelf -p "Build a REST API" --providers anthropic,openai:gpt-4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		info, err := compareOpts.projectInfo(cmd)
		if err != nil {
			return err
		}

		targets := make([]application.CompareTarget, 0, len(compareProviders))
		for _, target := range compareProviders {
			id, model, err := parseCompareTarget(target)
			if err != nil {
				return err
			}
			opts := application.PlanOptions{Model: model, AppID: compareOpts.appID}
			if opts.Model == "" && id == services.Config.ProviderID() {
				opts.Model = services.Config.Model
			}
			targets = append(targets, application.CompareTarget{
				Name:    strings.TrimSpace(target),
				Config:  services.Config.ForProvider(id),
				Options: opts,
			})
		}

		results := services.Compare.CompareProviders(cmd.Context(), info, targets)

		out := cmd.OutOrStdout()
		if compareOpts.jsonOut {
			return writeJSON(out, results)
		}

		columns := []table.Column{
			{Title: "Target", Width: 24},
			{Title: "Result", Width: 40},
			{Title: "Tasks", Width: 6},
			{Title: "Tier", Width: 11},
			{Title: "Cost ($)", Width: 10},
			{Title: "Time", Width: 8},
		}
		rows := make([]table.Row, 0, len(results))
		for _, c := range results {
			status, cost := "ok", "-"
			if !c.Result.Success {
				status = c.Result.Error
			}
			if c.Result.CostInfo != nil {
				cost = strconv.FormatFloat(c.Result.CostInfo.TotalCost, 'f', 4, 64)
			}
			rows = append(rows, table.Row{
				c.Name,
				status,
				strconv.Itoa(len(c.Result.SuggestedTasks)),
				string(c.Result.Tier),
				cost,
				c.Elapsed.Round(100 * time.Millisecond).String(),
			})
		}
		fmt.Fprintln(out, staticTable(columns, rows).View())

		for _, c := range results {
			if !c.Result.Success {
				continue
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, headingStyle.Render(c.Name))
			renderTasks(out, c.Result.SuggestedTasks)
		}
		return nil
	},
}

func init() {
	compareOpts.register(compareCmd)
	compareCmd.Flags().StringSliceVar(&compareProviders, "providers", []string{"anthropic", "openai"}, "Providers to compare, optionally as provider:model")
	RootCmd.AddCommand(compareCmd)
}
