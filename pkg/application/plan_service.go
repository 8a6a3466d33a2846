package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	infraai "github.com/D26FORWARD/TaskTree/pkg/ai"
	"github.com/D26FORWARD/TaskTree/pkg/domain/ai"
	"github.com/D26FORWARD/TaskTree/pkg/domain/billing"
	"github.com/D26FORWARD/TaskTree/pkg/domain/planning"
)

// PlanOptions are per-request overrides.
type PlanOptions struct {
	// Model replaces the provider's default model.
	Model string `json:"model,omitempty"`
	// AppID selects an Aliyun Bailian app; it overrides the configured app id
	// and is ignored by every other provider.
	AppID string `json:"app_id,omitempty"`
}

// Planner produces a plan for a project. Implementations never return an error:
// failures are reported inside the PlanResult.
type Planner interface {
	GeneratePlan(ctx context.Context, info planning.ProjectInfo, opts PlanOptions) planning.PlanResult
	GenerateTaskBreakdown(ctx context.Context, info planning.ProjectInfo, opts PlanOptions) planning.PlanResult
}

var _ Planner = (*PlanService)(nil)

// PlanService performs one provider round trip per plan request.
type PlanService struct {
	cfg       ai.ProviderConfig
	transport infraai.Transport
	pricing   billing.PricingTable
	logger    *slog.Logger
}

// ServiceOption configures a PlanService.
type ServiceOption func(*PlanService)

// WithTransport replaces the HTTP transport.
func WithTransport(t infraai.Transport) ServiceOption {
	return func(s *PlanService) { s.transport = t }
}

// WithPricing replaces the built-in pricing table.
func WithPricing(p billing.PricingTable) ServiceOption {
	return func(s *PlanService) { s.pricing = p }
}

// WithLogger sets the logger; nil keeps slog.Default().
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *PlanService) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewPlanService(cfg ai.ProviderConfig, opts ...ServiceOption) *PlanService {
	s := &PlanService{
		cfg:       cfg,
		transport: infraai.NewHTTPTransport(),
		pricing:   billing.DefaultPricing(),
		logger:    slog.Default(),
	}
	for _, fn := range opts {
		fn(s)
	}
	return s
}

// Config returns the provider configuration the service was built with.
func (s *PlanService) Config() ai.ProviderConfig {
	return s.cfg
}

// GeneratePlan asks the configured provider for a plan and parses it into tasks.
func (s *PlanService) GeneratePlan(ctx context.Context, info planning.ProjectInfo, opts PlanOptions) planning.PlanResult {
	log := s.logger.With("request_id", uuid.NewString(), "provider", string(s.cfg.Provider))
	start := time.Now()

	result, err := s.generate(ctx, info, opts, log)
	if err != nil {
		kind, msg := Classify(err)
		log.Warn("plan generation failed",
			"kind", string(kind),
			"error", err.Error(),
			"elapsed", time.Since(start))
		return planning.FailedResult(kind, msg)
	}

	log.Info("plan generated",
		"tier", string(result.Tier),
		"tasks", len(result.SuggestedTasks),
		"total_cost", result.CostInfo.TotalCost,
		"elapsed", time.Since(start))
	return result
}

// GenerateTaskBreakdown currently behaves exactly like GeneratePlan.
func (s *PlanService) GenerateTaskBreakdown(ctx context.Context, info planning.ProjectInfo, opts PlanOptions) planning.PlanResult {
	return s.GeneratePlan(ctx, info, opts)
}

func (s *PlanService) generate(ctx context.Context, info planning.ProjectInfo, opts PlanOptions, log *slog.Logger) (planning.PlanResult, error) {
	if !s.cfg.HasAPIKey() {
		return planning.PlanResult{}, ErrNoAPIKey
	}

	adapter := infraai.NewAdapter(s.cfg, opts.Model, opts.AppID)
	endpoint := adapter.Endpoint(s.cfg.ResolvedBaseURL())
	envelope := adapter.BuildEnvelope(SystemPrompt, BuildUserPrompt(info))

	log.Debug("calling provider", "endpoint", endpoint, "model", adapter.Model())

	resp, err := s.transport.Post(ctx, endpoint, adapter.Headers(), envelope)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return planning.PlanResult{}, err
		}
		return planning.PlanResult{}, &FaultError{Err: err}
	}

	if !resp.OK() {
		return planning.PlanResult{}, &ProviderError{
			Provider:   adapter.Provider(),
			StatusCode: resp.StatusCode,
			Message:    adapter.ErrorMessage(resp.Body),
		}
	}

	if !json.Valid(resp.Body) {
		return planning.PlanResult{}, &FaultError{Err: fmt.Errorf("provider returned invalid JSON (status %d)", resp.StatusCode)}
	}

	content, usage := adapter.ExtractContent(resp.Body)
	cost := s.pricing.Cost(adapter.PricingModel(), usage.InputTokens, usage.OutputTokens)

	result := planning.ParseResponse(content)
	result.CostInfo = &cost
	result.Usage = &usage
	return result, nil
}
