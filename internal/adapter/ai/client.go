// Package ai implements the LLM and embeddings client plus the primary
// candidate source built on top of it.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avichal16/moodmatch-api/internal/adapter/observability"
	"github.com/avichal16/moodmatch-api/internal/config"
	"github.com/avichal16/moodmatch-api/internal/domain"
)

// Client implements domain.AIClient against an OpenAI-compatible API.
// Every call is single-attempt: provider failures degrade at the pipeline
// level instead of being retried.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a Client. The HTTP timeout is a backstop; callers bound
// individual calls with the configured provider timeout.
func New(cfg config.Config) *Client {
	return &Client{cfg: cfg, hc: &http.Client{Timeout: cfg.ProviderTimeout + 5*time.Second}}
}

// ChatJSON calls the chat completions endpoint and returns the raw message
// content of the first choice.
func (c *Client) ChatJSON(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	if c.cfg.OpenAIAPIKey == "" {
		return "", fmt.Errorf("%w: OPENAI_API_KEY missing", domain.ErrInvalidArgument)
	}
	body := map[string]any{
		"model":       c.cfg.ChatModel,
		"temperature": 0.7,
		"max_tokens":  maxTokens,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
	}
	b, _ := json.Marshal(body)

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.post(ctx, "chat", "/chat/completions", b, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices from chat provider", domain.ErrUpstream)
	}
	return out.Choices[0].Message.Content, nil
}

// Embed returns one embedding per input text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if c.cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY missing", domain.ErrInvalidArgument)
	}
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	body := map[string]any{
		"model": c.cfg.EmbeddingsModel,
		"input": texts,
	}
	b, _ := json.Marshal(body)

	var out struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := c.post(ctx, "embed", "/embeddings", b, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("%w: empty data from embeddings provider", domain.ErrUpstream)
	}
	res := make([][]float32, len(out.Data))
	for i := range out.Data {
		v := make([]float32, len(out.Data[i].Embedding))
		for j := range out.Data[i].Embedding {
			v[j] = float32(out.Data[i].Embedding[j])
		}
		res[i] = v
	}
	return res, nil
}

func (c *Client) post(ctx context.Context, op, path string, payload []byte, out any) error {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenAIBaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.OpenAIAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	observability.ProviderRequestsTotal.WithLabelValues("openai", op).Inc()
	observability.ProviderRequestDuration.WithLabelValues("openai", op).Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			slog.Warn("ai provider timed out", slog.String("op", op))
		}
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Warn("ai provider non-2xx",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
			slog.String("endpoint", c.cfg.OpenAIBaseURL+path),
			slog.String("body", string(snippet)))
		return fmt.Errorf("%w: %s status %d", domain.ErrUpstream, op, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Error("ai provider decode error", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%w: decode %s response: %v", domain.ErrUpstream, op, err)
	}
	return nil
}
