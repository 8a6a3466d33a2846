package config

import (
	"fmt"
	"strings"

	"github.com/D26FORWARD/TaskTree/pkg/domain/ai"
)

// CheckAPIKey reports whether key looks like a credential for provider.
// The result is advisory; requests are still sent with any non-blank key.
func CheckAPIKey(provider ai.ProviderID, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("no API key configured")
	}

	switch provider {
	case ai.ProviderAnthropic:
		if !strings.HasPrefix(key, "sk-ant-") || len(key) <= 20 {
			return fmt.Errorf("anthropic keys start with sk-ant- and are longer than 20 characters")
		}
	case ai.ProviderOpenAI:
		if !strings.HasPrefix(key, "sk-") || len(key) <= 20 {
			return fmt.Errorf("openai keys start with sk- and are longer than 20 characters")
		}
	case ai.ProviderAzure:
		if len(key) <= 10 {
			return fmt.Errorf("azure keys are longer than 10 characters")
		}
	default:
		if len(key) <= 5 {
			return fmt.Errorf("API key is too short")
		}
	}
	return nil
}
