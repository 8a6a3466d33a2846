package ai_test

import (
	"encoding/json"
	"testing"

	infraAI "github.com/D26FORWARD/TaskTree/pkg/ai"
	"github.com/D26FORWARD/TaskTree/pkg/domain/ai"
)

func envelopeJSON(t *testing.T, a ai.Adapter) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(a.BuildEnvelope("SYS", "USER"))
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return out
}

func TestNewAdapter_Selection(t *testing.T) {
	tests := []struct {
		provider ai.ProviderID
		want     ai.ProviderID
		model    string
	}{
		{ai.ProviderAnthropic, ai.ProviderAnthropic, "claude-sonnet-4-20250514"},
		{ai.ProviderUnknown, ai.ProviderUnknown, "claude-sonnet-4-20250514"},
		{ai.ProviderOpenAI, ai.ProviderOpenAI, "gpt-4-turbo"},
		{ai.ProviderAzure, ai.ProviderAzure, "gpt-4-turbo"},
		{ai.ProviderAliyun, ai.ProviderAliyun, "qwen-plus"},
	}
	for _, tt := range tests {
		a := infraAI.NewAdapter(ai.ProviderConfig{Provider: tt.provider, APIKey: "k"}, "", "")
		if a.Provider() != tt.want {
			t.Errorf("%s: Provider() = %s", tt.provider, a.Provider())
		}
		if a.Model() != tt.model {
			t.Errorf("%s: Model() = %s, want %s", tt.provider, a.Model(), tt.model)
		}
	}
}

func TestNewAdapter_ModelOverride(t *testing.T) {
	a := infraAI.NewAdapter(ai.ProviderConfig{Provider: ai.ProviderAnthropic}, " claude-3-haiku-20240307 ", "")
	if a.Model() != "claude-3-haiku-20240307" || a.PricingModel() != "claude-3-haiku-20240307" {
		t.Errorf("override not applied: model=%s pricing=%s", a.Model(), a.PricingModel())
	}
}

func TestJoinEndpoint(t *testing.T) {
	tests := []struct{ base, path, want string }{
		{"https://api.example.com/v1", "messages", "https://api.example.com/v1/messages"},
		{"https://api.example.com/v1/", "/messages", "https://api.example.com/v1/messages"},
		{"https://api.example.com/v1//", "//chat/completions", "https://api.example.com/v1/chat/completions"},
	}
	for _, tt := range tests {
		if got := infraAI.JoinEndpoint(tt.base, tt.path); got != tt.want {
			t.Errorf("JoinEndpoint(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestAnthropicAdapter(t *testing.T) {
	for _, id := range []ai.ProviderID{ai.ProviderAnthropic, ai.ProviderUnknown} {
		a := infraAI.NewAdapter(ai.ProviderConfig{Provider: id, APIKey: "test-key"}, "", "")

		h := a.Headers()
		if h["x-api-key"] != "test-key" || h["anthropic-version"] != "2023-06-01" {
			t.Errorf("%s: unexpected headers %v", id, h)
		}
		if _, ok := h["Authorization"]; ok {
			t.Errorf("%s: Authorization header should not be set", id)
		}
		if got := a.Endpoint("https://api.anthropic.com/v1"); got != "https://api.anthropic.com/v1/messages" {
			t.Errorf("%s: endpoint = %s", id, got)
		}

		env := envelopeJSON(t, a)
		if env["system"] != "SYS" || env["max_tokens"] != float64(4096) || env["temperature"] != 0.7 {
			t.Errorf("%s: unexpected envelope %v", id, env)
		}
		msgs := env["messages"].([]interface{})
		if len(msgs) != 1 || msgs[0].(map[string]interface{})["role"] != "user" {
			t.Errorf("%s: expected a single user message, got %v", id, msgs)
		}
	}
}

func TestOpenAIAdapter(t *testing.T) {
	a := infraAI.NewAdapter(ai.ProviderConfig{Provider: ai.ProviderOpenAI, APIKey: "test-key"}, "gpt-4", "")

	if a.Headers()["Authorization"] != "Bearer test-key" {
		t.Errorf("unexpected headers %v", a.Headers())
	}
	if got := a.Endpoint("https://api.openai.com/v1"); got != "https://api.openai.com/v1/chat/completions" {
		t.Errorf("endpoint = %s", got)
	}

	env := envelopeJSON(t, a)
	if env["model"] != "gpt-4" {
		t.Errorf("model = %v", env["model"])
	}
	msgs := env["messages"].([]interface{})
	if len(msgs) != 2 {
		t.Fatalf("expected system+user messages, got %v", msgs)
	}
	if msgs[0].(map[string]interface{})["role"] != "system" || msgs[1].(map[string]interface{})["content"] != "USER" {
		t.Errorf("unexpected messages %v", msgs)
	}
}

func TestAzureAdapter_Headers(t *testing.T) {
	a := infraAI.NewAdapter(ai.ProviderConfig{Provider: ai.ProviderAzure, APIKey: "az"}, "", "")
	h := a.Headers()
	if h["api-key"] != "az" {
		t.Errorf("api-key = %q", h["api-key"])
	}
	if _, ok := h["Authorization"]; ok {
		t.Error("Authorization should only be set when an API version is configured")
	}

	a = infraAI.NewAdapter(ai.ProviderConfig{Provider: ai.ProviderAzure, APIKey: "az", APIVersion: "2024-05-01-preview"}, "", "")
	if a.Headers()["Authorization"] != "Bearer az" {
		t.Errorf("expected bearer header with API version, got %v", a.Headers())
	}
}

func TestAliyunAdapter_ModelMode(t *testing.T) {
	a := infraAI.NewAdapter(ai.ProviderConfig{Provider: ai.ProviderAliyun, APIKey: "ak"}, "qwen-max", "   ")

	h := a.Headers()
	if h["Authorization"] != "Bearer ak" || h["X-DashScope-DataInspection"] != "enable" {
		t.Errorf("unexpected headers %v", h)
	}
	if got := a.Endpoint("https://dashscope.aliyuncs.com/api/v1"); got != "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation" {
		t.Errorf("endpoint = %s", got)
	}
	if a.PricingModel() != "aliyun-default" {
		t.Errorf("pricing model = %s", a.PricingModel())
	}

	env := envelopeJSON(t, a)
	if env["model"] != "qwen-max" {
		t.Errorf("model = %v", env["model"])
	}
	input := env["input"].(map[string]interface{})
	if len(input["messages"].([]interface{})) != 2 {
		t.Errorf("expected two messages, got %v", input)
	}
	if env["parameters"].(map[string]interface{})["enable_moderation"] != true {
		t.Error("moderation flag missing")
	}
}

func TestAliyunAdapter_AppMode(t *testing.T) {
	cfg := ai.ProviderConfig{Provider: ai.ProviderAliyun, APIKey: "ak", AppID: "cfg-app"}

	a := infraAI.NewAdapter(cfg, "", "")
	if got := a.Endpoint("https://dashscope.aliyuncs.com/api/v1/"); got != "https://dashscope.aliyuncs.com/api/v1/apps/cfg-app/completion" {
		t.Errorf("endpoint = %s", got)
	}

	a = infraAI.NewAdapter(cfg, "", "req-app")
	if got := a.Endpoint("https://x/api/v1"); got != "https://x/api/v1/apps/req-app/completion" {
		t.Errorf("request app id should win, endpoint = %s", got)
	}
	if a.Model() != "" {
		t.Errorf("app mode sends no model, got %q", a.Model())
	}

	env := envelopeJSON(t, a)
	if _, ok := env["model"]; ok {
		t.Error("app mode envelope must not carry a model")
	}
	input := env["input"].(map[string]interface{})
	if input["prompt"] != "USER" {
		t.Errorf("prompt = %v", input["prompt"])
	}
	if _, ok := input["messages"]; ok {
		t.Error("app mode must not send messages")
	}
	if env["parameters"].(map[string]interface{})["enable_moderation"] != true {
		t.Error("moderation flag missing")
	}
}

func TestExtractContent(t *testing.T) {
	tests := []struct {
		name     string
		provider ai.ProviderID
		body     string
		wantText string
		wantIn   uint64
		wantOut  uint64
	}{
		{
			name:     "anthropic",
			provider: ai.ProviderAnthropic,
			body:     `{"content":[{"type":"text","text":"hello"}],"usage":{"input_tokens":15,"output_tokens":8}}`,
			wantText: "hello", wantIn: 15, wantOut: 8,
		},
		{
			name:     "anthropic empty content",
			provider: ai.ProviderAnthropic,
			body:     `{"content":[],"usage":{}}`,
		},
		{
			name:     "openai",
			provider: ai.ProviderOpenAI,
			body:     `{"choices":[{"message":{"role":"assistant","content":"hi"}}],"usage":{"prompt_tokens":10,"completion_tokens":5}}`,
			wantText: "hi", wantIn: 10, wantOut: 5,
		},
		{
			name:     "azure missing usage",
			provider: ai.ProviderAzure,
			body:     `{"choices":[{"message":{"content":"az"}}]}`,
			wantText: "az",
		},
		{
			name:     "aliyun null usage",
			provider: ai.ProviderAliyun,
			body:     `{"output":{"text":"qwen"},"usage":{"input_tokens":null,"output_tokens":7}}`,
			wantText: "qwen", wantOut: 7,
		},
		{
			name:     "mistyped fields default",
			provider: ai.ProviderOpenAI,
			body:     `{"choices":[{"message":{"content":42}}],"usage":{"prompt_tokens":"ten","completion_tokens":-3}}`,
		},
		{
			name:     "not json",
			provider: ai.ProviderAliyun,
			body:     `<html>oops</html>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := infraAI.NewAdapter(ai.ProviderConfig{Provider: tt.provider}, "", "")
			text, usage := a.ExtractContent([]byte(tt.body))
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if usage.InputTokens != tt.wantIn || usage.OutputTokens != tt.wantOut {
				t.Errorf("usage = %+v, want %d/%d", usage, tt.wantIn, tt.wantOut)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	anthropic := infraAI.NewAdapter(ai.ProviderConfig{Provider: ai.ProviderAnthropic}, "", "")
	if got := anthropic.ErrorMessage([]byte(`{"error":{"type":"authentication_error","message":"invalid x-api-key"}}`)); got != "invalid x-api-key" {
		t.Errorf("anthropic error = %q", got)
	}

	aliyun := infraAI.NewAdapter(ai.ProviderConfig{Provider: ai.ProviderAliyun}, "", "")
	if got := aliyun.ErrorMessage([]byte(`{"code":"InvalidApiKey","message":"Invalid API-key provided."}`)); got != "Invalid API-key provided." {
		t.Errorf("aliyun error = %q", got)
	}
	if got := aliyun.ErrorMessage([]byte(`{"error":{"message":"wrong shape"}}`)); got != "" {
		t.Errorf("aliyun should only read top-level message, got %q", got)
	}
}
