package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
)

// RequestTimeout bounds every provider call. Callers cannot change it.
const RequestTimeout = 30 * time.Second

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 16 << 20

// ErrTimeout is returned when a provider call exceeds RequestTimeout.
var ErrTimeout = errors.New("provider request timed out")

// Response is a raw provider reply; the status has not been interpreted.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport performs exactly one POST per call.
type Transport interface {
	Post(ctx context.Context, url string, headers map[string]string, payload any) (*Response, error)
}

// HTTPTransport opens a fresh connection for each call and closes it afterwards,
// so concurrent plan requests share nothing.
type HTTPTransport struct {
	timeout   time.Duration
	newClient func() *http.Client
}

// NewHTTPTransport returns a transport bound to RequestTimeout.
func NewHTTPTransport() *HTTPTransport {
	return newHTTPTransport(RequestTimeout, nil)
}

func newHTTPTransport(d time.Duration, newClient func() *http.Client) *HTTPTransport {
	if newClient == nil {
		newClient = func() *http.Client {
			return &http.Client{Transport: &http.Transport{Proxy: http.ProxyFromEnvironment}}
		}
	}
	return &HTTPTransport{timeout: d, newClient: newClient}
}

func (t *HTTPTransport) Post(ctx context.Context, url string, headers map[string]string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	limiter := timeout.New[*Response](timeout.Config{DefaultTimeout: t.timeout})
	resp, err := limiter.Execute(callCtx, t.timeout, func(ctx context.Context) (*Response, error) {
		return t.do(ctx, url, headers, body)
	})
	if err != nil {
		if deadline, _ := callCtx.Deadline(); !time.Now().Before(deadline) || isTimeout(err) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, t.timeout)
		}
		return nil, err
	}
	return resp, nil
}

func (t *HTTPTransport) do(ctx context.Context, url string, headers map[string]string, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := t.newClient()
	defer client.CloseIdleConnections()

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on read body

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
