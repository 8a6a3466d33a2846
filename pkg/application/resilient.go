package application

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/D26FORWARD/TaskTree/pkg/domain/planning"
)

// RetryConfig controls the optional retry layer. The core never retries on its own.
type RetryConfig struct {
	// Retries is the number of extra attempts after the first one.
	Retries    int
	RetryDelay time.Duration
}

var _ Planner = (*ResilientPlanner)(nil)

// ResilientPlanner repeats failed plan requests whose error kind is retryable.
// Configuration errors are returned immediately.
type ResilientPlanner struct {
	inner Planner
	cfg   retry.Config
}

func NewResilientPlanner(inner Planner, cfg RetryConfig) *ResilientPlanner {
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	return &ResilientPlanner{
		inner: inner,
		cfg: retry.Config{
			MaxAttempts:   cfg.Retries + 1,
			InitialDelay:  cfg.RetryDelay,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

func (p *ResilientPlanner) GeneratePlan(ctx context.Context, info planning.ProjectInfo, opts PlanOptions) planning.PlanResult {
	return p.run(ctx, func(ctx context.Context) planning.PlanResult {
		return p.inner.GeneratePlan(ctx, info, opts)
	})
}

func (p *ResilientPlanner) GenerateTaskBreakdown(ctx context.Context, info planning.ProjectInfo, opts PlanOptions) planning.PlanResult {
	return p.run(ctx, func(ctx context.Context) planning.PlanResult {
		return p.inner.GenerateTaskBreakdown(ctx, info, opts)
	})
}

func (p *ResilientPlanner) run(ctx context.Context, attempt func(context.Context) planning.PlanResult) planning.PlanResult {
	var last planning.PlanResult

	r := retry.New[planning.PlanResult](p.cfg)
	res, err := r.Do(ctx, func(ctx context.Context) (planning.PlanResult, error) {
		last = attempt(ctx)
		if !last.Success && last.ErrorKind.Retryable() {
			return last, errors.New(last.Error)
		}
		return last, nil
	})
	if err != nil {
		if last.Error == "" {
			// no attempt ran, e.g. the context was already done
			kind, msg := Classify(&FaultError{Err: err})
			return planning.FailedResult(kind, msg)
		}
		return last
	}
	return res
}
