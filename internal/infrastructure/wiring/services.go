package wiring

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/D26FORWARD/TaskTree/internal/infrastructure/config"
	"github.com/D26FORWARD/TaskTree/internal/infrastructure/webhook"
	"github.com/D26FORWARD/TaskTree/pkg/application"
	domainai "github.com/D26FORWARD/TaskTree/pkg/domain/ai"
	"github.com/D26FORWARD/TaskTree/pkg/domain/billing"
	"github.com/D26FORWARD/TaskTree/pkg/domain/planning"
)

// PricingFileError reports a pricing overlay that could not be read or parsed.
type PricingFileError struct {
	Path string
	Err  error
}

func (e *PricingFileError) Error() string {
	return fmt.Sprintf("pricing overlay %s: %v", e.Path, e.Err)
}

func (e *PricingFileError) Unwrap() error { return e.Err }

// AppServices exposes the application layer wired for one configuration.
type AppServices struct {
	Config  *config.Config
	Pricing billing.PricingTable
	Logger  *slog.Logger

	// Planner is the configured provider, wrapped with retries when enabled.
	Planner application.Planner
	Compare *application.CompareService
	// Notifier is nil when no webhooks are configured.
	Notifier *webhook.Notifier

	extra []application.ServiceOption
}

// LoadAppServices reads the config under root, installs the logger and wires services.
func LoadAppServices(root string) (*AppServices, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	cfg.InitLogging()

	s, err := BuildAppServices(cfg)
	if err != nil {
		return nil, err
	}
	if len(cfg.Webhooks) > 0 {
		s.Notifier = webhook.NewNotifier(cfg.Webhooks, webhook.NewDeadLetterStore(config.DeadLetterPath(root)))
	}
	return s, nil
}

// BuildAppServices wires services from an already loaded config. Extra options are
// applied to every PlanService it creates, after the defaults.
func BuildAppServices(cfg *config.Config, extra ...application.ServiceOption) (*AppServices, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	pricing, err := billing.LoadPricing(cfg.PricingFile)
	if err != nil {
		return nil, &PricingFileError{Path: cfg.PricingFile, Err: err}
	}

	s := &AppServices{
		Config:  cfg,
		Pricing: pricing,
		Logger:  slog.Default(),
		extra:   extra,
	}
	s.Planner = s.NewPlanner(cfg.ProviderConfig())
	s.Compare = application.NewCompareService(s.NewPlanner, 0)
	if len(cfg.Webhooks) > 0 {
		s.Notifier = webhook.NewNotifier(cfg.Webhooks, nil)
	}
	return s, nil
}

// NewPlanner builds a planner for pc sharing this wiring's pricing, logger and retries.
func (s *AppServices) NewPlanner(pc domainai.ProviderConfig) application.Planner {
	opts := []application.ServiceOption{
		application.WithPricing(s.Pricing),
		application.WithLogger(s.Logger),
	}
	opts = append(opts, s.extra...)

	var planner application.Planner = application.NewPlanService(pc, opts...)
	if s.Config.Retries > 0 {
		planner = application.NewResilientPlanner(planner, s.Config.RetryConfig())
	}
	return planner
}

// DefaultOptions returns the configured per-request options with overrides applied.
func (s *AppServices) DefaultOptions(model, appID string) application.PlanOptions {
	opts := s.Config.PlanOptions()
	if model != "" {
		opts.Model = model
	}
	if appID != "" {
		opts.AppID = appID
	}
	return opts
}

// Notify forwards a result to the configured webhooks. It is a no-op without any.
func (s *AppServices) Notify(ctx context.Context, info planning.ProjectInfo, res planning.PlanResult) error {
	if s.Notifier == nil {
		return nil
	}
	return s.Notifier.Notify(ctx, info.ProjectName, res)
}
