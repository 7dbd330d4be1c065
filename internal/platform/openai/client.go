package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vael-labs/vael-backend/internal/pkg/httpx"
	"github.com/vael-labs/vael-backend/internal/pkg/logger"
	"github.com/vael-labs/vael-backend/internal/platform/envutil"
)

// Client talks to any OpenAI-compatible inference endpoint.
type Client interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
	ChatCompletion(ctx context.Context, system, userMsg string) (string, error)
}

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	EmbedModel string
	Timeout    time.Duration
	MaxRetries int
}

func LoadConfig(log *logger.Logger) (Config, error) {
	apiKey := envutil.GetEnv("OPENAI_API_KEY", "", log)
	if apiKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is required")
	}
	return Config{
		APIKey:     apiKey,
		BaseURL:    envutil.GetEnv("OPENAI_BASE_URL", "https://api.groq.com/openai/v1", log),
		Model:      envutil.GetEnv("OPENAI_MODEL", "llama-3.3-70b-versatile", log),
		EmbedModel: envutil.GetEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small", log),
		Timeout:    time.Duration(envutil.GetEnvAsInt("OPENAI_TIMEOUT_SECONDS", 60, log)) * time.Second,
		MaxRetries: envutil.GetEnvAsInt("OPENAI_MAX_RETRIES", 4, log),
	}, nil
}

type client struct {
	cfg  Config
	http *http.Client
	log  *logger.Logger
}

func NewClient(cfg Config, log *logger.Logger) Client {
	return &client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("openai api status %d: %s", e.StatusCode, e.Body)
}

func (e *apiError) HTTPStatusCode() int { return e.StatusCode }

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (c *client) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	body, err := c.do(ctx, "/embeddings", embeddingsRequest{
		Model: c.cfg.EmbedModel,
		Input: inputs,
	})
	if err != nil {
		return nil, err
	}
	var parsed embeddingsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding embeddings response: %w", err)
	}
	if len(parsed.Data) != len(inputs) {
		return nil, fmt.Errorf("embeddings response returned %d vectors for %d inputs", len(parsed.Data), len(inputs))
	}
	out := make([][]float32, len(inputs))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("embeddings response index %d out of range", d.Index)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *client) ChatCompletion(ctx context.Context, system, userMsg string) (string, error) {
	body, err := c.do(ctx, "/chat/completions", chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: userMsg},
		},
	})
	if err != nil {
		return "", err
	}
	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decoding chat completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

// do posts the payload and retries transient failures with jittered
// exponential backoff.
func (c *client) do(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request payload: %w", err)
	}

	var lastErr error
	backoff := 500 * time.Millisecond
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			sleepFor := httpx.JitterSleep(backoff)
			c.log.Warn("Retrying openai request", "path", path, "attempt", attempt, "sleep", sleepFor, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(sleepFor):
			}
			backoff *= 2
		}

		body, resp, err := c.doOnce(ctx, path, raw)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !httpx.IsRetryableError(err) {
			return nil, err
		}
		if resp != nil {
			backoff = httpx.RetryAfterDuration(resp, backoff, 30*time.Second)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("openai request exhausted retries: %w", lastErr)
}

func (c *client) doOnce(ctx context.Context, path string, raw []byte) ([]byte, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, resp, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp, &apiError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}
	return body, resp, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
