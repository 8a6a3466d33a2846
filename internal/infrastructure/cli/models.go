package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"

	"github.com/D26FORWARD/TaskTree/pkg/domain/ai"
	"github.com/D26FORWARD/TaskTree/pkg/domain/billing"
)

var modelsProvider string

func modelRows(providers []ai.ProviderID, pricing billing.PricingTable) []table.Row {
	rows := []table.Row{}
	for _, p := range providers {
		for _, m := range p.Models() {
			input, output := "-", "-"
			if price, ok := pricing[m.ID]; ok {
				input = fmt.Sprintf("%.2f", price.Input)
				output = fmt.Sprintf("%.2f", price.Output)
			} else if p == ai.ProviderAliyun {
				input, output = "per app", "per app"
			}
			def := ""
			if m.ID == p.DefaultModel() {
				def = "*"
			}
			rows = append(rows, table.Row{string(p), m.ID, m.Name, input, output, def})
		}
	}
	return rows
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List supported models and their prices per million tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		providers := ai.KnownProviders
		if modelsProvider != "" {
			id := ai.ParseProviderID(modelsProvider)
			if id == ai.ProviderUnknown {
				return NewCLIError(fmt.Sprintf("unknown provider %q", modelsProvider), "Use anthropic, openai, azure or aliyun", nil)
			}
			providers = []ai.ProviderID{id}
		}

		columns := []table.Column{
			{Title: "Provider", Width: 10},
			{Title: "Model", Width: 28},
			{Title: "Name", Width: 18},
			{Title: "In $/M", Width: 8},
			{Title: "Out $/M", Width: 8},
			{Title: "Def", Width: 4},
		}
		rows := modelRows(providers, services.Pricing)
		fmt.Fprintln(cmd.OutOrStdout(), staticTable(columns, rows).View())
		return nil
	},
}

func init() {
	modelsCmd.Flags().StringVar(&modelsProvider, "provider", "", "Only list models for this provider")
	RootCmd.AddCommand(modelsCmd)
}
