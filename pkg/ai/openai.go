package ai

import "github.com/D26FORWARD/TaskTree/pkg/domain/ai"

// openAIAdapter serves both OpenAI and Azure OpenAI; they share the
// chat/completions wire format and differ only in authentication.
type openAIAdapter struct {
	apiKey     string
	model      string
	azure      bool
	apiVersion string
}

type openAIRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

func (a *openAIAdapter) Provider() ai.ProviderID {
	if a.azure {
		return ai.ProviderAzure
	}
	return ai.ProviderOpenAI
}

func (a *openAIAdapter) Model() string        { return a.model }
func (a *openAIAdapter) PricingModel() string { return a.model }

func (a *openAIAdapter) Headers() map[string]string {
	h := jsonHeaders()
	if !a.azure {
		h["Authorization"] = "Bearer " + a.apiKey
		return h
	}
	h["api-key"] = a.apiKey
	if a.apiVersion != "" {
		h["Authorization"] = "Bearer " + a.apiKey
	}
	return h
}

func (a *openAIAdapter) Endpoint(baseURL string) string {
	return JoinEndpoint(baseURL, "chat/completions")
}

func (a *openAIAdapter) BuildEnvelope(systemPrompt, userPrompt string) any {
	return openAIRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	}
}

func (a *openAIAdapter) ExtractContent(body []byte) (string, ai.UsageInfo) {
	return stringAt(body, "choices.0.message.content"), ai.UsageInfo{
		InputTokens:  uintAt(body, "usage.prompt_tokens"),
		OutputTokens: uintAt(body, "usage.completion_tokens"),
	}
}

func (a *openAIAdapter) ErrorMessage(body []byte) string {
	return stringAt(body, "error.message")
}
