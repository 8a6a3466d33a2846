package cli

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/D26FORWARD/TaskTree/internal/infrastructure/config"
)

// runCLI executes the root command with args and returns stdout and the error.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	buf := new(bytes.Buffer)
	RootCmd.SetOut(buf)
	RootCmd.SetErr(io.Discard)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetIn(nil)
		RootCmd.SetArgs(nil)
	})

	err := RootCmd.Execute()
	return buf.String(), err
}

func resetFlags() {
	projectPath = ""
	planOpts = planFlags{showPlan: true}
	breakdownOpts = planFlags{}
	compareOpts = planFlags{}
	compareProviders = []string{"anthropic", "openai"}
	modelsProvider = ""
	initProvider, initAPIKey, initModel = "anthropic", "", ""
	initBaseURL, initAPIVersion, initAppID = "", "", ""
	initForce = false
	mcpTransport, mcpAddr = "stdio", ":8080"
	watchOpts = planFlags{}
	watchDebounce = 500 * time.Millisecond
}

// projectWithConfig writes cfg into a fresh project dir and clears key env vars.
func projectWithConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	for _, k := range []string{"TASKTREE_API_KEY", "API_KEY", "TASKTREE_PROVIDER", "TASKTREE_BASE_URL", "TASKTREE_MODEL", "TASKTREE_OPENAI_API_KEY", "TASKTREE_ANTHROPIC_API_KEY"} {
		t.Setenv(k, "")
	}
	root := t.TempDir()
	if cfg != nil {
		if err := config.Save(root, cfg); err != nil {
			t.Fatalf("save config: %v", err)
		}
	}
	return root
}

func providerServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}
