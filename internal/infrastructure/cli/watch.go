package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/D26FORWARD/TaskTree/internal/infrastructure/watch"
)

var (
	watchOpts     planFlags
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the plan every time the prompt file is saved",
	Long: `Watch generates a plan from --prompt-file, then generates a new one after each
save. Every run is a billed provider request. Stop with Ctrl+C.`,
	Example: `  tasktree watch -n Bookshelf --prompt-file idea.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchOpts.promptFile == "" || watchOpts.promptFile == "-" {
			return NewCLIError("watch needs a prompt file", "Pass --prompt-file <path>", nil)
		}
		if os.Getenv("TASKTREE_SKIP_WATCH_RUN") == "true" {
			return nil
		}

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		var mu sync.Mutex
		run := func() {
			mu.Lock()
			defer mu.Unlock()

			info, err := watchOpts.projectInfo(cmd)
			if err != nil {
				fmt.Fprintf(out, "Warning: %v\n", err)
				return
			}
			res := services.Planner.GeneratePlan(ctx, info, services.DefaultOptions(watchOpts.model, watchOpts.appID))
			notifyWebhooks(cmd, services, info, res)
			fmt.Fprintln(out, mutedStyle.Render(time.Now().Format("15:04:05")+" regenerated"))
			if watchOpts.jsonOut {
				_ = writeJSON(out, res)
				return
			}
			if !res.Success {
				fmt.Fprintf(out, "Error: %s\n", res.Error)
				return
			}
			renderPlanResult(out, res, false)
		}

		w, err := watch.NewFileWatcher(watchOpts.promptFile, watchDebounce, func(string) { run() })
		if err != nil {
			return NewCLIError("cannot watch prompt file", "Check that the --prompt-file directory exists", err)
		}

		run()
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchOpts.register(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Quiet period after a save before regenerating")
	RootCmd.AddCommand(watchCmd)
}
