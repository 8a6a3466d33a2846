package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const configSchemaJSON = `{
  "type": "object",
  "properties": {
    "provider":     { "type": "string" },
    "api_key":      { "type": "string" },
    "base_url":     { "type": "string", "pattern": "^https?://" },
    "api_version":  { "type": "string" },
    "app_id":       { "type": "string", "pattern": "^[A-Za-z0-9_-]+$" },
    "model":        { "type": "string" },
    "log_level":    { "enum": ["debug", "info", "warn", "warning", "error"] },
    "log_format":   { "enum": ["text", "json"] },
    "pricing_file": { "type": "string" },
    "retries":        { "type": "integer", "minimum": 0, "maximum": 10 },
    "retry_delay_ms": { "type": "integer", "minimum": 0, "maximum": 60000 },
    "webhooks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "url"],
        "properties": {
          "name":           { "type": "string", "minLength": 1 },
          "url":            { "type": "string", "pattern": "^https?://" },
          "secret":         { "type": "string" },
          "events":         { "type": "array", "items": { "enum": ["plan.generated", "plan.failed"] } },
          "max_retries":    { "type": "integer", "minimum": 0, "maximum": 10 },
          "retry_delay_ms": { "type": "integer", "minimum": 0, "maximum": 60000 }
        }
      }
    }
  }
}`

var configSchemaLoader = gojsonschema.NewStringLoader(configSchemaJSON)

// ValidationError lists every schema violation in a config.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + strings.Join(e.Issues, "; ")
}

// Validate checks the config against its JSON schema.
func (c *Config) Validate() error {
	result, err := gojsonschema.Validate(configSchemaLoader, gojsonschema.NewGoLoader(c))
	if err != nil {
		return fmt.Errorf("failed to validate config: %w", err)
	}
	if result.Valid() {
		return nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return &ValidationError{Issues: issues}
}
