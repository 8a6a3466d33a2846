package ai

import "github.com/D26FORWARD/TaskTree/pkg/domain/ai"

const anthropicVersion = "2023-06-01"

// anthropicAdapter also serves ProviderUnknown.
type anthropicAdapter struct {
	id     ai.ProviderID
	apiKey string
	model  string
}

type anthropicRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	System      string        `json:"system"`
	Messages    []chatMessage `json:"messages"`
}

func (a *anthropicAdapter) Provider() ai.ProviderID { return a.id }
func (a *anthropicAdapter) Model() string           { return a.model }
func (a *anthropicAdapter) PricingModel() string    { return a.model }

func (a *anthropicAdapter) Headers() map[string]string {
	h := jsonHeaders()
	h["x-api-key"] = a.apiKey
	h["anthropic-version"] = anthropicVersion
	return h
}

func (a *anthropicAdapter) Endpoint(baseURL string) string {
	return JoinEndpoint(baseURL, "messages")
}

func (a *anthropicAdapter) BuildEnvelope(systemPrompt, userPrompt string) any {
	return anthropicRequest{
		Model:       a.model,
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
		System:      systemPrompt,
		Messages:    []chatMessage{{Role: "user", Content: userPrompt}},
	}
}

func (a *anthropicAdapter) ExtractContent(body []byte) (string, ai.UsageInfo) {
	return stringAt(body, "content.0.text"), ai.UsageInfo{
		InputTokens:  uintAt(body, "usage.input_tokens"),
		OutputTokens: uintAt(body, "usage.output_tokens"),
	}
}

func (a *anthropicAdapter) ErrorMessage(body []byte) string {
	return stringAt(body, "error.message")
}
