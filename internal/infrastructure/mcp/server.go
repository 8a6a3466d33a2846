package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/D26FORWARD/TaskTree/internal/infrastructure/wiring"
	"github.com/D26FORWARD/TaskTree/pkg/application"
	"github.com/D26FORWARD/TaskTree/pkg/domain/ai"
	"github.com/D26FORWARD/TaskTree/pkg/domain/planning"
)

type Server struct {
	mcpServer *mcp.Server
	services  *wiring.AppServices
}

var (
	Version     = "dev"
	BuildCommit = "unknown"
	BuildDate   = "unknown"
)

// mcpErr returns a user-friendly error for MCP clients.
func mcpErr(friendly string) error {
	return fmt.Errorf("%s", friendly)
}

// NewServer loads the configuration under root and wires a server around it.
func NewServer(root string) (*Server, error) {
	services, err := wiring.LoadAppServices(root)
	if err != nil {
		return nil, fmt.Errorf("build services: %w", err)
	}
	return NewServerWithServices(services), nil
}

func NewServerWithServices(services *wiring.AppServices) *Server {
	info := mcp.ServerInfo{
		Name:    "tasktree",
		Version: Version,
	}

	s := &Server{
		mcpServer: mcp.NewServer(info,
			mcp.WithTitle("TaskTree MCP Server"),
			mcp.WithDescription("TaskTree turns a project description into an ordered task list with dependencies, priorities and token cost."),
			mcp.WithBuildInfo(BuildCommit, BuildDate),
			mcp.WithInstructions("Call tasktree_generate_plan with a project name, overview and initial prompt. Failures are reported in the result's error field."),
		),
		services: services,
	}

	s.registerTools()
	s.registerCatalogueResource()
	return s
}

type PlanArgs struct {
	ProjectName     string `json:"project_name" jsonschema:"description=Name of the project"`
	ProjectOverview string `json:"project_overview,omitempty" jsonschema:"description=Short description of what the project is"`
	InitialPrompt   string `json:"initial_prompt,omitempty" jsonschema:"description=What the user wants built first"`
	Model           string `json:"model,omitempty" jsonschema:"description=Model override; the configured or provider default is used when empty"`
	AppID           string `json:"app_id,omitempty" jsonschema:"description=Aliyun Bailian app id; ignored by other providers"`
}

type EstimateCostArgs struct {
	Model        string `json:"model" jsonschema:"description=Model id used for pricing"`
	InputTokens  uint64 `json:"input_tokens" jsonschema:"description=Number of prompt tokens"`
	OutputTokens uint64 `json:"output_tokens" jsonschema:"description=Number of completion tokens"`
}

type CompareArgs struct {
	PlanArgs
	Providers []string `json:"providers" jsonschema:"description=Provider ids to compare (anthropic, openai, azure, aliyun)"`
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("tasktree_generate_plan").
		Description("Generate a development plan and suggested tasks for a project").
		Handler(s.handleGeneratePlan)

	s.mcpServer.Tool("tasktree_task_breakdown").
		Description("Break a project down into ordered tasks with dependencies and priorities").
		Handler(s.handleTaskBreakdown)

	s.mcpServer.Tool("tasktree_compare_providers").
		Description("Generate the same plan with several providers and compare tasks and cost").
		Handler(s.handleCompareProviders)

	s.mcpServer.Tool("tasktree_estimate_cost").
		Description("Estimate the USD cost of a request from its token counts").
		Handler(s.handleEstimateCost)
}

func (a PlanArgs) projectInfo() planning.ProjectInfo {
	return planning.ProjectInfo{
		ProjectName:     a.ProjectName,
		ProjectOverview: a.ProjectOverview,
		InitialPrompt:   a.InitialPrompt,
	}
}

func (s *Server) handleGeneratePlan(ctx context.Context, args PlanArgs) (any, error) {
	info := args.projectInfo()
	res := s.services.Planner.GeneratePlan(ctx, info, s.services.DefaultOptions(args.Model, args.AppID))
	s.notify(ctx, info, res)
	return res, nil
}

func (s *Server) handleTaskBreakdown(ctx context.Context, args PlanArgs) (any, error) {
	info := args.projectInfo()
	res := s.services.Planner.GenerateTaskBreakdown(ctx, info, s.services.DefaultOptions(args.Model, args.AppID))
	s.notify(ctx, info, res)
	return res, nil
}

// notify logs webhook failures; the tool result is returned regardless.
func (s *Server) notify(ctx context.Context, info planning.ProjectInfo, res planning.PlanResult) {
	if err := s.services.Notify(ctx, info.WithDefaults(), res); err != nil {
		s.services.Logger.Warn("webhook delivery failed", "error", err)
	}
}

func (s *Server) handleCompareProviders(ctx context.Context, args CompareArgs) (any, error) {
	if len(args.Providers) == 0 {
		return nil, mcpErr("At least one provider is required.")
	}

	targets := make([]application.CompareTarget, 0, len(args.Providers))
	for _, name := range args.Providers {
		id := ai.ParseProviderID(name)
		if id == ai.ProviderUnknown {
			return nil, mcpErr(fmt.Sprintf("Unknown provider %q. Use one of: %s.", name, knownProviderList()))
		}
		opts := application.PlanOptions{Model: args.Model, AppID: args.AppID}
		targets = append(targets, application.CompareTarget{
			Name:    string(id),
			Config:  s.services.Config.ForProvider(id),
			Options: opts,
		})
	}
	return s.services.Compare.CompareProviders(ctx, args.projectInfo(), targets), nil
}

func (s *Server) handleEstimateCost(ctx context.Context, args EstimateCostArgs) (any, error) {
	if strings.TrimSpace(args.Model) == "" {
		return nil, mcpErr("A model id is required.")
	}
	cost := s.services.Pricing.Cost(args.Model, args.InputTokens, args.OutputTokens)
	return cost, nil
}

func knownProviderList() string {
	names := make([]string, 0, len(ai.KnownProviders))
	for _, p := range ai.KnownProviders {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr, mcp.WithDefaultCORS())
}

func (s *Server) ServeWebSocket(ctx context.Context, addr string) error {
	return mcp.ServeWebSocket(ctx, s.mcpServer, addr)
}
