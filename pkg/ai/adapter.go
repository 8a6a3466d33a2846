package ai

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/D26FORWARD/TaskTree/pkg/domain/ai"
)

const (
	defaultMaxTokens   = 4096
	defaultTemperature = 0.7
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewAdapter selects the adapter variant for cfg.Provider. model overrides the
// provider default; appID (Aliyun only) overrides cfg.AppID and switches Aliyun to
// app mode when non-blank. Unknown providers get the Anthropic adapter.
func NewAdapter(cfg ai.ProviderConfig, model, appID string) ai.Adapter {
	model = strings.TrimSpace(model)
	if model == "" {
		model = cfg.Provider.DefaultModel()
	}

	switch cfg.Provider {
	case ai.ProviderOpenAI:
		return &openAIAdapter{apiKey: cfg.APIKey, model: model}
	case ai.ProviderAzure:
		return &openAIAdapter{apiKey: cfg.APIKey, model: model, azure: true, apiVersion: cfg.APIVersion}
	case ai.ProviderAliyun:
		if strings.TrimSpace(appID) == "" {
			appID = cfg.AppID
		}
		return &aliyunAdapter{apiKey: cfg.APIKey, model: model, appID: strings.TrimSpace(appID)}
	case ai.ProviderAnthropic:
		return &anthropicAdapter{apiKey: cfg.APIKey, model: model, id: ai.ProviderAnthropic}
	default:
		return &anthropicAdapter{apiKey: cfg.APIKey, model: model, id: ai.ProviderUnknown}
	}
}

// JoinEndpoint concatenates a base URL and a path with exactly one slash between them.
func JoinEndpoint(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func jsonHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

// stringAt returns the string at path, or "" when absent or not a string.
func stringAt(body []byte, path string) string {
	r := gjson.GetBytes(body, path)
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

// uintAt returns the non-negative integer at path, or 0 when absent, null or mistyped.
func uintAt(body []byte, path string) uint64 {
	r := gjson.GetBytes(body, path)
	if r.Type != gjson.Number || r.Num < 0 {
		return 0
	}
	return r.Uint()
}
