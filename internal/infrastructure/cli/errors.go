package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/D26FORWARD/TaskTree/internal/infrastructure/config"
	"github.com/D26FORWARD/TaskTree/internal/infrastructure/wiring"
	"github.com/D26FORWARD/TaskTree/pkg/domain/planning"
)

// Exit codes by failure class.
const (
	ExitFailure       = 1
	ExitConfiguration = 2
	ExitTimeout       = 3
	ExitProvider      = 4
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: ExitFailure,
	}
}

// MapError converts known errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var verr *config.ValidationError
	if errors.As(err, &verr) {
		e := NewCLIError("configuration is invalid", "Fix "+config.Path(".")+" or run 'tasktree config check'", err)
		e.ExitCode = ExitConfiguration
		return e
	}

	var perr *wiring.PricingFileError
	if errors.As(err, &perr) {
		e := NewCLIError("cannot load pricing file", "Check pricing_file in "+config.Path("."), err)
		e.ExitCode = ExitConfiguration
		return e
	}

	if errors.Is(err, os.ErrNotExist) {
		return NewCLIError("file not found", "Check the path and try again", err)
	}

	return err
}

// ResultError converts a failed plan result into a CLIError. Successful results yield nil.
func ResultError(res planning.PlanResult) error {
	if res.Success {
		return nil
	}

	e := NewCLIError(res.Error, "", nil)
	switch res.ErrorKind {
	case planning.ErrorConfiguration:
		e.Hint = "Set TASKTREE_API_KEY or run 'tasktree config init --api-key <key>'"
		e.ExitCode = ExitConfiguration
	case planning.ErrorTimeout:
		e.Hint = "Try again, or set retries in the config to retry automatically"
		e.ExitCode = ExitTimeout
	case planning.ErrorProvider:
		e.Hint = "Check the model name, quota and base_url for your provider"
		e.ExitCode = ExitProvider
	default:
		e.Hint = "Check network access and base_url; run with TASKTREE_LOG_LEVEL=debug for details"
	}
	return e
}
