package llm

import (
	"fmt"
	"strings"
)

// localEndpointMarker identifies the locally-hosted inference family purely
// by URL pattern; those endpoints need no real credential.
const localEndpointMarker = "localhost:11434"

// placeholderAPIKey is sent to local endpoints, which ignore it but reject
// an empty Authorization header.
const placeholderAPIKey = "ollama"

// Config holds the configuration for the chat-completion client.
// Works against any OpenAI-compatible provider, hosted or local.
type Config struct {
	APIKey      string  `json:"api_key"`
	APIURL      string  `json:"api_url"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Timeout     int     `json:"timeout"` // seconds
}

// IsLocal reports whether the endpoint belongs to the local inference family.
func (c *Config) IsLocal() bool {
	return strings.Contains(c.APIURL, localEndpointMarker)
}

// Validate checks the configuration. Local endpoints get a placeholder
// credential substituted; remote endpoints fail fast without one.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("API URL is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.IsLocal() {
		if c.APIKey == "" {
			c.APIKey = placeholderAPIKey
		}
	} else if c.APIKey == "" {
		return fmt.Errorf("API key is required for remote endpoint %s", c.APIURL)
	}
	if c.Timeout < 1 {
		return fmt.Errorf("timeout must be greater than 0")
	}
	return nil
}

// GetHeaders returns the headers for the chat-completion request.
func (c *Config) GetHeaders() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.APIKey,
		"Content-Type":  "application/json",
	}
}
