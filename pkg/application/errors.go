package application

import (
	"errors"
	"fmt"

	infraai "github.com/D26FORWARD/TaskTree/pkg/ai"
	"github.com/D26FORWARD/TaskTree/pkg/domain/ai"
	"github.com/D26FORWARD/TaskTree/pkg/domain/planning"
)

// Failure messages surfaced in PlanResult.Error.
const (
	MsgNoAPIKey        = "No API key configured. Please add it in Settings."
	MsgTimeout         = "Request timed out. Please try again."
	msgUnknownProvider = "Unknown error"
	prefixProvider     = "API Error: "
	prefixFault        = "Error calling API: "
)

var (
	// ErrNoAPIKey is detected before any network activity.
	ErrNoAPIKey = errors.New("no API key configured")

	// ErrTimeout means the provider did not answer within the request timeout.
	ErrTimeout = infraai.ErrTimeout
)

// ProviderError is a non-2xx answer from the provider.
type ProviderError struct {
	Provider   ai.ProviderID
	StatusCode int
	// Message is the provider's own error text, if it sent one.
	Message string
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = msgUnknownProvider
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, msg)
}

// FaultError wraps any other transport or decoding failure.
type FaultError struct {
	Err error
}

func (e *FaultError) Error() string { return e.Err.Error() }

func (e *FaultError) Unwrap() error { return e.Err }

// Classify maps an error onto its kind and the message shown to callers.
func Classify(err error) (planning.ErrorKind, string) {
	var provErr *ProviderError
	var fault *FaultError

	switch {
	case errors.Is(err, ErrNoAPIKey):
		return planning.ErrorConfiguration, MsgNoAPIKey
	case errors.Is(err, ErrTimeout):
		return planning.ErrorTimeout, MsgTimeout
	case errors.As(err, &provErr):
		msg := provErr.Message
		if msg == "" {
			msg = msgUnknownProvider
		}
		return planning.ErrorProvider, prefixProvider + msg
	case errors.As(err, &fault):
		return planning.ErrorUnexpected, prefixFault + fault.Err.Error()
	default:
		return planning.ErrorUnexpected, prefixFault + err.Error()
	}
}
