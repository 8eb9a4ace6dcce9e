package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// LLMClient define la interfaz para generar respuestas con un LLM.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrDisabled indica que no hay proveedor de LLM configurado.
var ErrDisabled = errors.New("llm disabled")

// HTTPClient implementa LLMClient contra una API compatible con OpenAI chat completions.
type HTTPClient struct {
	model  string
	client *resty.Client
	logger *zap.Logger
}

// NewHTTPClient construye un cliente apuntando a {baseURL}/chat/completions.
func NewHTTPClient(baseURL, apiKey, model string, logger *zap.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(60*time.Second).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")

	return &HTTPClient{
		model:  model,
		client: client,
		logger: logger,
	}
}

func (c *HTTPClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "user", Content: prompt},
			},
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	body := resp.String()
	if resp.StatusCode() >= 400 {
		c.logger.Warn("llm error response", zap.Int("status", resp.StatusCode()), zap.String("body", body))
		return "", fmt.Errorf("llm http error: status=%d", resp.StatusCode())
	}

	if msg := gjson.Get(body, "error.message"); msg.Exists() {
		return "", fmt.Errorf("llm api error: %s", msg.String())
	}

	content := gjson.Get(body, "choices.0.message.content").String()
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("llm empty response")
	}
	return content, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// DisabledClient se usa cuando LLM_PROVIDER=disabled o falta la API key.
type DisabledClient struct{}

func (DisabledClient) Generate(context.Context, string) (string, error) {
	return "", ErrDisabled
}
