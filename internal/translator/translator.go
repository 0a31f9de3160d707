// Package translator drives the chunked, resumable, context-aware
// translation of a transcript against a chat-completion endpoint.
package translator

import (
	"context"
	"fmt"
	"strings"

	"ytdub/internal/llm"
	"ytdub/pkg/log"
)

// translationTemperature keeps output stable across retries.
const translationTemperature = 0.3

// Request is one translation call. Ephemeral; never persisted.
type Request struct {
	Text string
	// PrevContext is the tail of the preceding chunk's original text,
	// passed along for continuity and explicitly tagged as
	// context-only so the model does not re-translate it.
	PrevContext string
}

// Options configure a Translator.
type Options struct {
	Style      Style
	Tone       Tone
	SourceLang string
	TargetLang string
	MaxRetries int
}

// Translator is a stateless translation client with retry on transient
// connectivity errors and a pre-flight check for local inference servers.
type Translator struct {
	client *llm.Client
	opts   Options
}

func New(client *llm.Client, opts Options) *Translator {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &Translator{client: client, opts: opts}
}

// Translate translates text in one request/response exchange. Empty input
// short-circuits to empty output without a network call. Timeout and
// connection errors are retried up to MaxRetries additional attempts with no
// backoff; any other error fails immediately.
func (t *Translator) Translate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", nil
	}

	cfg := t.client.Config()
	if cfg.IsLocal() {
		if err := llm.CheckModel(ctx, cfg.APIURL, cfg.Model); err != nil {
			return "", fmt.Errorf("local model check failed: %w", err)
		}
	}

	systemPrompt := SystemPrompt(t.opts.Style, t.opts.Tone, t.opts.SourceLang, t.opts.TargetLang)
	userContent := req.Text
	if req.PrevContext != "" {
		userContent = fmt.Sprintf(
			"[이전 번역 컨텍스트 - 문맥 연결용, 다시 번역하지 마세요]\n%s\n\n[번역할 자막]\n%s",
			req.PrevContext, req.Text)
	}

	var lastErr error
	for attempt := 0; attempt <= t.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Info("Translation retry %d/%d", attempt, t.opts.MaxRetries)
		}

		translated, err := t.client.SimpleChat(ctx, userContent, systemPrompt, translationTemperature)
		if err == nil {
			return strings.TrimSpace(translated), nil
		}

		lastErr = err
		if !IsRetryable(err) {
			return "", err
		}
		log.Warn("Translation attempt %d failed: %v", attempt+1, err)
	}

	return "", fmt.Errorf("translation failed after %d retries: %w", t.opts.MaxRetries, lastErr)
}

// IsRetryable classifies an error as a transient connectivity failure by its
// message text, mirroring the endpoint's loose error surface: only timeouts
// and connection failures are worth re-attempting.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "timed out") ||
		strings.Contains(msg, "connection")
}
