package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ServerStatus is the result of an Ollama liveness probe.
type ServerStatus struct {
	Available bool
	Models    []string
	Err       error
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// CheckServer probes a local Ollama server's /api/tags endpoint. The base
// URL may carry an OpenAI-compat /v1 suffix; it is stripped for the probe.
func CheckServer(ctx context.Context, baseURL string) ServerStatus {
	ollamaURL := strings.TrimSuffix(strings.Replace(baseURL, "/v1", "", 1), "/")

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ollamaURL+"/api/tags", nil)
	if err != nil {
		return ServerStatus{Err: err}
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return ServerStatus{Err: fmt.Errorf("cannot reach Ollama server, is 'ollama serve' running? %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ServerStatus{Err: fmt.Errorf("Ollama server returned HTTP %d", resp.StatusCode)}
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return ServerStatus{Err: fmt.Errorf("parse Ollama model list: %w", err)}
	}

	models := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		models = append(models, m.Name)
	}
	return ServerStatus{Available: true, Models: models}
}

// CheckModel verifies the named model is loaded on a local Ollama server.
// Model names are matched on the base name so "gemma3" matches
// "gemma3:latest".
func CheckModel(ctx context.Context, baseURL, model string) error {
	status := CheckServer(ctx, baseURL)
	if !status.Available {
		return status.Err
	}

	modelBase := strings.SplitN(model, ":", 2)[0]
	for _, available := range status.Models {
		if strings.HasPrefix(available, modelBase) {
			return nil
		}
	}
	return fmt.Errorf("model %q is not available, run 'ollama pull %s'", model, model)
}
