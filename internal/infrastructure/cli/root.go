package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var projectPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "tasktree",
	Version: Version,
	Short:   "Turn a project description into an ordered task plan",
	Long: `TaskTree asks an AI provider (Anthropic, OpenAI, Azure OpenAI or Aliyun Bailian)
for a development plan and extracts a list of tasks with dependencies and priorities.
Every request reports its token usage and USD cost.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and prints errors with their hints to stderr.
// This is called by main.main().
func Execute() error {
	err := RootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.ExitCode != 0 {
		return cliErr.ExitCode
	}
	return 1
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.Hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", cliErr.Hint)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&projectPath, "project", "", "Project directory containing .tasktree/config.yaml (default: current directory)")
}
