// Package webhook posts plan results to user-configured endpoints.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"golang.org/x/sync/errgroup"

	"github.com/D26FORWARD/TaskTree/pkg/domain/planning"
)

// Event types.
const (
	EventPlanGenerated = "plan.generated"
	EventPlanFailed    = "plan.failed"
)

const (
	SignatureHeader = "X-TaskTree-Signature"
	sendTimeout     = 10 * time.Second
)

// Endpoint is one configured webhook.
type Endpoint struct {
	Name   string   `yaml:"name" json:"name"`
	URL    string   `yaml:"url" json:"url"`
	Secret string   `yaml:"secret,omitempty" json:"secret,omitempty"`
	Events []string `yaml:"events,omitempty" json:"events,omitempty"`

	// MaxRetries is the total number of delivery attempts; 0 means 3.
	MaxRetries   int `yaml:"max_retries,omitempty" json:"max_retries,omitempty"`
	RetryDelayMs int `yaml:"retry_delay_ms,omitempty" json:"retry_delay_ms,omitempty"`
}

func (ep Endpoint) accepts(eventType string) bool {
	if len(ep.Events) == 0 {
		return true
	}
	for _, e := range ep.Events {
		if e == eventType {
			return true
		}
	}
	return false
}

// Payload is the JSON body sent to endpoints.
type Payload struct {
	EventType string              `json:"event_type"`
	Timestamp time.Time           `json:"timestamp"`
	Project   string              `json:"project"`
	Result    planning.PlanResult `json:"result"`
}

// Notifier delivers plan results to every matching endpoint.
type Notifier struct {
	endpoints  []Endpoint
	client     *http.Client
	deadLetter *DeadLetterStore
}

// NewNotifier creates a notifier; deadLetter may be nil.
func NewNotifier(endpoints []Endpoint, deadLetter *DeadLetterStore) *Notifier {
	return &Notifier{
		endpoints: endpoints,
		client: &http.Client{
			Timeout: sendTimeout,
		},
		deadLetter: deadLetter,
	}
}

// EventFor returns the event type matching a result.
func EventFor(res planning.PlanResult) string {
	if res.Success {
		return EventPlanGenerated
	}
	return EventPlanFailed
}

// Notify posts the result to all matching endpoints and waits for delivery.
// Deliveries that exhaust their retries are dead-lettered and reported in the error.
func (n *Notifier) Notify(ctx context.Context, project string, res planning.PlanResult) error {
	eventType := EventFor(res)
	body, err := json.Marshal(Payload{
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Project:   project,
		Result:    res,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	errs := make([]error, len(n.endpoints))
	var g errgroup.Group
	for i, ep := range n.endpoints {
		if !ep.accepts(eventType) {
			continue
		}
		g.Go(func() error {
			errs[i] = n.deliver(ctx, ep, eventType, body)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (n *Notifier) deliver(ctx context.Context, ep Endpoint, eventType string, body []byte) error {
	attempts := ep.MaxRetries
	if attempts <= 0 {
		attempts = 3
	}
	delay := time.Duration(ep.RetryDelayMs) * time.Millisecond
	if delay <= 0 {
		delay = time.Second
	}

	r := retry.New[struct{}](retry.Config{
		MaxAttempts:   attempts,
		InitialDelay:  delay,
		BackoffPolicy: retry.BackoffExponential,
	})
	_, err := r.Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, n.send(ctx, ep, body)
	})
	if err == nil {
		return nil
	}

	if n.deadLetter != nil {
		_ = n.deadLetter.Append(DeadLetter{
			Timestamp:   time.Now().UTC(),
			WebhookName: ep.Name,
			URL:         ep.URL,
			EventType:   eventType,
			Payload:     string(body),
			Error:       err.Error(),
			Attempts:    attempts,
		})
	}
	return fmt.Errorf("webhook %s: %w", ep.Name, err)
}

func (n *Notifier) send(ctx context.Context, ep Endpoint, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "TaskTree-Webhook/1.0")

	if ep.Secret != "" {
		req.Header.Set(SignatureHeader, Sign(body, ep.Secret))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Sign computes the HMAC-SHA256 signature header value for payload.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
