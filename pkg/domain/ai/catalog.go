package ai

// ModelInfo describes a selectable model.
type ModelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var catalogue = map[ProviderID][]ModelInfo{
	ProviderAnthropic: {
		{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4"},
		{ID: "claude-opus-4-20250514", Name: "Claude Opus 4"},
		{ID: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet"},
		{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku"},
		{ID: "claude-3-opus-20240229", Name: "Claude 3 Opus"},
		{ID: "claude-3-haiku-20240307", Name: "Claude 3 Haiku"},
	},
	ProviderOpenAI: {
		{ID: "gpt-4-turbo", Name: "GPT-4 Turbo"},
		{ID: "gpt-4", Name: "GPT-4"},
		{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo"},
	},
	ProviderAliyun: {
		{ID: "qwen-plus", Name: "Qwen Plus"},
		{ID: "qwen-turbo", Name: "Qwen Turbo"},
		{ID: "qwen-max", Name: "Qwen Max"},
		{ID: "qwen-long", Name: "Qwen Long"},
	},
}

// Models lists the catalogue entries for a provider, default model first.
// Azure deployments share the OpenAI catalogue.
func (p ProviderID) Models() []ModelInfo {
	if p == ProviderAzure {
		p = ProviderOpenAI
	}
	models, ok := catalogue[p]
	if !ok {
		models = catalogue[ProviderAnthropic]
	}
	out := make([]ModelInfo, len(models))
	copy(out, models)
	return out
}

// DisplayName is the human readable provider name.
func (p ProviderID) DisplayName() string {
	switch p {
	case ProviderAnthropic:
		return "Anthropic"
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderAzure:
		return "Azure OpenAI"
	case ProviderAliyun:
		return "Aliyun Bailian"
	default:
		return "Custom Provider"
	}
}
