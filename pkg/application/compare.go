package application

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/D26FORWARD/TaskTree/pkg/domain/ai"
	"github.com/D26FORWARD/TaskTree/pkg/domain/planning"
)

const defaultCompareConcurrency = 4

// CompareTarget is one provider configuration to include in a comparison.
type CompareTarget struct {
	Name    string
	Config  ai.ProviderConfig
	Options PlanOptions
}

// Comparison is the isolated outcome for one target.
type Comparison struct {
	Name     string              `json:"name"`
	Provider ai.ProviderID       `json:"provider"`
	Result   planning.PlanResult `json:"result"`
	Elapsed  time.Duration       `json:"elapsed"`
}

// CompareService fans one project out to several providers.
type CompareService struct {
	newPlanner  func(ai.ProviderConfig) Planner
	concurrency int
}

// NewCompareService builds planners with newPlanner, one per target.
// concurrency <= 0 uses a small default.
func NewCompareService(newPlanner func(ai.ProviderConfig) Planner, concurrency int) *CompareService {
	if concurrency <= 0 {
		concurrency = defaultCompareConcurrency
	}
	return &CompareService{newPlanner: newPlanner, concurrency: concurrency}
}

// CompareProviders runs one GeneratePlan per target. Each call has its own planner,
// envelope and timeout; a failure in one target never affects another.
// Results are returned in target order.
func (c *CompareService) CompareProviders(ctx context.Context, info planning.ProjectInfo, targets []CompareTarget) []Comparison {
	out := make([]Comparison, len(targets))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, target := range targets {
		g.Go(func() error {
			start := time.Now()
			res := c.newPlanner(target.Config).GeneratePlan(ctx, info, target.Options)
			out[i] = Comparison{
				Name:     target.Name,
				Provider: target.Config.Provider,
				Result:   res,
				Elapsed:  time.Since(start),
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
