package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/D26FORWARD/TaskTree/internal/infrastructure/config"
	"github.com/D26FORWARD/TaskTree/pkg/domain/ai"
)

var (
	initProvider   string
	initAPIKey     string
	initModel      string
	initBaseURL    string
	initAPIVersion string
	initAppID      string
	initForce      bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage .tasktree/config.yaml",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a new config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}

		path := config.Path(root)
		if _, err := os.Stat(path); err == nil && !initForce {
			return NewCLIError("config already exists at "+path, "Pass --force to overwrite it", nil)
		}

		provider := ai.ParseProviderID(initProvider)
		cfg := config.Default()
		cfg.Provider = string(provider)
		cfg.APIKey = initAPIKey
		cfg.Model = initModel
		cfg.BaseURL = initBaseURL
		cfg.APIVersion = initAPIVersion
		cfg.AppID = initAppID

		if err := config.Save(root, cfg); err != nil {
			return MapError(fmt.Errorf("failed to save config: %w", err))
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Wrote %s (provider: %s)\n", path, provider)
		if provider == ai.ProviderAzure && initBaseURL == "" {
			fmt.Fprintln(out, "Warning: azure has no default base URL; set base_url to your deployment endpoint.")
		}
		if initAPIKey != "" {
			if err := config.CheckAPIKey(provider, initAPIKey); err != nil {
				fmt.Fprintf(out, "Warning: %v\n", err)
			}
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with the API key masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		cfg, err := config.Load(root)
		if err != nil {
			return MapError(err)
		}

		data, err := yaml.Marshal(cfg.Redacted())
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and the API key format",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		cfg, err := config.Load(root)
		if err != nil {
			return MapError(err)
		}

		out := cmd.OutOrStdout()
		pc := cfg.ProviderConfig()
		fmt.Fprintf(out, "Provider: %s (%s)\n", pc.Provider, pc.Provider.DisplayName())
		fmt.Fprintf(out, "Base URL: %s\n", orDash(pc.ResolvedBaseURL()))

		model := cfg.Model
		if model == "" {
			model = pc.Provider.DefaultModel()
		}
		fmt.Fprintf(out, "Model:    %s\n", model)

		var problems []error
		if pc.ResolvedBaseURL() == "" {
			problems = append(problems, errors.New("no base URL configured"))
		}
		if err := config.CheckAPIKey(pc.Provider, pc.APIKey); err != nil {
			problems = append(problems, err)
		}
		if len(problems) == 0 {
			fmt.Fprintln(out, "OK")
			return nil
		}
		for _, p := range problems {
			fmt.Fprintf(out, "Warning: %v\n", p)
		}
		e := NewCLIError("configuration check found problems", "Run 'tasktree config init --force' with corrected values", errors.Join(problems...))
		e.ExitCode = ExitConfiguration
		return e
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	configInitCmd.Flags().StringVar(&initProvider, "provider", "anthropic", "Provider (anthropic, openai, azure, aliyun)")
	configInitCmd.Flags().StringVar(&initAPIKey, "api-key", "", "API key (stored in plain text)")
	configInitCmd.Flags().StringVar(&initModel, "model", "", "Default model")
	configInitCmd.Flags().StringVar(&initBaseURL, "base-url", "", "API base URL")
	configInitCmd.Flags().StringVar(&initAPIVersion, "api-version", "", "Azure API version")
	configInitCmd.Flags().StringVar(&initAppID, "app-id", "", "Aliyun Bailian app id")
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configCheckCmd)
	RootCmd.AddCommand(configCmd)
}
