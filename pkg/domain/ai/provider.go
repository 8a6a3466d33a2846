package ai

import "strings"

// ProviderID identifies a text-generation backend. The set is closed:
// anything unrecognised parses to ProviderUnknown, which is served like Anthropic.
type ProviderID string

const (
	ProviderAnthropic ProviderID = "anthropic"
	ProviderOpenAI    ProviderID = "openai"
	ProviderAzure     ProviderID = "azure"
	ProviderAliyun    ProviderID = "aliyun"
	ProviderUnknown   ProviderID = "unknown"
)

// KnownProviders lists the providers with a dedicated adapter, in display order.
var KnownProviders = []ProviderID{ProviderAnthropic, ProviderOpenAI, ProviderAzure, ProviderAliyun}

// ParseProviderID maps a user-supplied name onto a ProviderID.
// Matching is case-insensitive; "" and "default" resolve to Anthropic.
func ParseProviderID(name string) ProviderID {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "anthropic", "default", "":
		return ProviderAnthropic
	case "openai":
		return ProviderOpenAI
	case "azure":
		return ProviderAzure
	case "aliyun":
		return ProviderAliyun
	default:
		return ProviderUnknown
	}
}

// DefaultBaseURL returns the API root used when none is configured.
// Azure has no public default; callers must configure their resource URL.
func (p ProviderID) DefaultBaseURL() string {
	switch p {
	case ProviderOpenAI:
		return "https://api.openai.com/v1"
	case ProviderAzure:
		return ""
	case ProviderAliyun:
		return "https://dashscope.aliyuncs.com/api/v1"
	default:
		return "https://api.anthropic.com/v1"
	}
}

// DefaultModel returns the model requested when the caller gives none.
func (p ProviderID) DefaultModel() string {
	switch p {
	case ProviderOpenAI, ProviderAzure:
		return "gpt-4-turbo"
	case ProviderAliyun:
		return "qwen-plus"
	default:
		return "claude-sonnet-4-20250514"
	}
}

// ProviderConfig is built once from configuration and only read afterwards.
type ProviderConfig struct {
	Provider   ProviderID `json:"provider" yaml:"provider"`
	APIKey     string     `json:"-" yaml:"api_key,omitempty"`
	BaseURL    string     `json:"base_url" yaml:"base_url,omitempty"`
	APIVersion string     `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	AppID      string     `json:"app_id,omitempty" yaml:"app_id,omitempty"`
}

// ResolvedBaseURL returns the configured base URL or the provider default.
func (c ProviderConfig) ResolvedBaseURL() string {
	if strings.TrimSpace(c.BaseURL) != "" {
		return strings.TrimSpace(c.BaseURL)
	}
	return c.Provider.DefaultBaseURL()
}

// HasAPIKey reports whether a credential is configured.
func (c ProviderConfig) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// UsageInfo is the token count of one call, normalised across providers.
type UsageInfo struct {
	InputTokens  uint64 `json:"input_tokens"`
	OutputTokens uint64 `json:"output_tokens"`
}

// Adapter hides one provider's wire format. Implementations are pure:
// they perform no I/O and never fail; malformed input degrades to zero values.
type Adapter interface {
	Provider() ProviderID
	// Model is the model id sent to the provider ("" when the provider picks it).
	Model() string
	// PricingModel is the key looked up in the pricing table.
	PricingModel() string
	Headers() map[string]string
	Endpoint(baseURL string) string
	BuildEnvelope(systemPrompt, userPrompt string) any
	ExtractContent(body []byte) (string, UsageInfo)
	// ErrorMessage pulls the provider's own error text out of a non-2xx body.
	ErrorMessage(body []byte) string
}
