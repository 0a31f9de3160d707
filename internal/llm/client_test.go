package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate_LocalSubstitutesPlaceholderKey(t *testing.T) {
	cfg := &Config{
		APIURL:  "http://localhost:11434/v1",
		Model:   "gemma3:latest",
		Timeout: 180,
	}

	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.IsLocal())
	assert.Equal(t, "ollama", cfg.APIKey)
}

func TestConfigValidate_RemoteRequiresKey(t *testing.T) {
	cfg := &Config{
		APIURL:  "https://api.example.com/v1",
		Model:   "some-model",
		Timeout: 180,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")

	cfg.APIKey = "sk-test"
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.IsLocal())
}

func TestConfigValidate_MissingFields(t *testing.T) {
	assert.Error(t, (&Config{Model: "m", Timeout: 10}).Validate())
	assert.Error(t, (&Config{APIURL: "http://localhost:11434", Timeout: 10}).Validate())
	assert.Error(t, (&Config{APIURL: "http://localhost:11434", Model: "m"}).Validate())
}

func TestConfigGetHeaders(t *testing.T) {
	cfg := &Config{APIKey: "sk-test"}
	headers := cfg.GetHeaders()
	assert.Equal(t, "Bearer sk-test", headers["Authorization"])
	assert.Equal(t, "application/json", headers["Content-Type"])
}

func TestSimpleChat(t *testing.T) {
	var gotRequest ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		_ = json.NewEncoder(w).Encode(ChatResponse{
			Choices: []Choice{{Message: Message{Role: "assistant", Content: "안녕하세요"}}},
		})
	}))
	defer server.Close()

	client, err := NewClient(&Config{
		APIKey:  "sk-test",
		APIURL:  server.URL,
		Model:   "test-model",
		Timeout: 10,
	})
	require.NoError(t, err)

	reply, err := client.SimpleChat(context.Background(), "hello", "be brief", 0.3)
	require.NoError(t, err)
	assert.Equal(t, "안녕하세요", reply)

	// System prompt is prepended to the message list.
	require.Len(t, gotRequest.Messages, 2)
	assert.Equal(t, "system", gotRequest.Messages[0].Role)
	assert.Equal(t, "be brief", gotRequest.Messages[0].Content)
	assert.Equal(t, "user", gotRequest.Messages[1].Role)
	assert.Equal(t, "test-model", gotRequest.Model)
	assert.Equal(t, 0.3, gotRequest.Temperature)
}

func TestChatCompletion_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(ChatResponse{
			Error: &Error{Message: "rate limited", Type: "rate_limit"},
		})
	}))
	defer server.Close()

	client, err := NewClient(&Config{APIKey: "sk", APIURL: server.URL, Model: "m", Timeout: 10})
	require.NoError(t, err)

	_, err = client.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "hi"}}, "", 0.3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestCheckServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"gemma3:latest"},{"name":"llama3:8b"}]}`))
	}))
	defer server.Close()

	// The OpenAI-compat /v1 suffix is stripped for the probe.
	status := CheckServer(context.Background(), server.URL+"/v1")
	require.NoError(t, status.Err)
	assert.True(t, status.Available)
	assert.Equal(t, []string{"gemma3:latest", "llama3:8b"}, status.Models)
}

func TestCheckServer_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	status := CheckServer(context.Background(), server.URL)
	assert.False(t, status.Available)
	require.Error(t, status.Err)
	assert.Contains(t, status.Err.Error(), "ollama serve")
}

func TestCheckModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"gemma3:latest"}]}`))
	}))
	defer server.Close()

	// Base-name match: "gemma3" matches "gemma3:latest".
	assert.NoError(t, CheckModel(context.Background(), server.URL, "gemma3"))
	assert.NoError(t, CheckModel(context.Background(), server.URL, "gemma3:latest"))

	err := CheckModel(context.Background(), server.URL, "mistral:7b")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "ollama pull mistral:7b"))
}
