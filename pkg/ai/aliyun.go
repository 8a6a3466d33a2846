package ai

import (
	"github.com/D26FORWARD/TaskTree/pkg/domain/ai"
	"github.com/D26FORWARD/TaskTree/pkg/domain/billing"
)

// aliyunAdapter talks to Aliyun Bailian (DashScope). A non-empty appID selects the
// app completion API, which takes only the user prompt; otherwise the model
// generation API is used with a system+user message pair.
type aliyunAdapter struct {
	apiKey string
	model  string
	appID  string
}

type aliyunParameters struct {
	EnableModeration bool `json:"enable_moderation"`
}

type aliyunAppRequest struct {
	Input struct {
		Prompt string `json:"prompt"`
	} `json:"input"`
	Parameters aliyunParameters `json:"parameters"`
}

type aliyunModelRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []chatMessage `json:"messages"`
	} `json:"input"`
	Parameters aliyunParameters `json:"parameters"`
}

func (a *aliyunAdapter) Provider() ai.ProviderID { return ai.ProviderAliyun }

func (a *aliyunAdapter) appMode() bool { return a.appID != "" }

// Model is empty in app mode: the app decides which model runs.
func (a *aliyunAdapter) Model() string {
	if a.appMode() {
		return ""
	}
	return a.model
}

func (a *aliyunAdapter) PricingModel() string { return billing.AliyunPricingModel }

func (a *aliyunAdapter) Headers() map[string]string {
	h := jsonHeaders()
	h["Authorization"] = "Bearer " + a.apiKey
	h["X-DashScope-DataInspection"] = "enable"
	return h
}

func (a *aliyunAdapter) Endpoint(baseURL string) string {
	if a.appMode() {
		return JoinEndpoint(baseURL, "apps/"+a.appID+"/completion")
	}
	return JoinEndpoint(baseURL, "services/aigc/text-generation/generation")
}

func (a *aliyunAdapter) BuildEnvelope(systemPrompt, userPrompt string) any {
	if a.appMode() {
		var req aliyunAppRequest
		req.Input.Prompt = userPrompt
		req.Parameters.EnableModeration = true
		return req
	}

	var req aliyunModelRequest
	req.Model = a.model
	req.Input.Messages = []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}
	req.Parameters.EnableModeration = true
	return req
}

func (a *aliyunAdapter) ExtractContent(body []byte) (string, ai.UsageInfo) {
	return stringAt(body, "output.text"), ai.UsageInfo{
		InputTokens:  uintAt(body, "usage.input_tokens"),
		OutputTokens: uintAt(body, "usage.output_tokens"),
	}
}

func (a *aliyunAdapter) ErrorMessage(body []byte) string {
	return stringAt(body, "message")
}
