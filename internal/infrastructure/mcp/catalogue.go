package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/felixgeelhaar/mcp-go"

	"github.com/D26FORWARD/TaskTree/pkg/domain/ai"
	"github.com/D26FORWARD/TaskTree/pkg/domain/billing"
)

const catalogueURI = "tasktree://models"

type catalogueModel struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Default bool                `json:"default"`
	Pricing *billing.ModelPrice `json:"pricing,omitempty"`
}

type catalogueProvider struct {
	ID             ai.ProviderID    `json:"id"`
	Name           string           `json:"name"`
	DefaultBaseURL string           `json:"default_base_url"`
	Models         []catalogueModel `json:"models"`
}

func (s *Server) catalogue() []catalogueProvider {
	out := make([]catalogueProvider, 0, len(ai.KnownProviders))
	for _, p := range ai.KnownProviders {
		entry := catalogueProvider{
			ID:             p,
			Name:           p.DisplayName(),
			DefaultBaseURL: p.DefaultBaseURL(),
		}
		for _, m := range p.Models() {
			cm := catalogueModel{ID: m.ID, Name: m.Name, Default: m.ID == p.DefaultModel()}
			if price, ok := s.services.Pricing[m.ID]; ok {
				cm.Pricing = &price
			}
			entry.Models = append(entry.Models, cm)
		}
		out = append(out, entry)
	}
	return out
}

func (s *Server) registerCatalogueResource() {
	s.mcpServer.Resource(catalogueURI).
		Name(catalogueURI).
		Description("Supported providers, their models and per-million-token prices").
		MimeType("application/json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
			data, err := json.Marshal(s.catalogue())
			if err != nil {
				return nil, err
			}
			return &mcplib.ResourceContent{
				URI:      catalogueURI,
				MimeType: "application/json",
				Text:     string(data),
			}, nil
		})
}
