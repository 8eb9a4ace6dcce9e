package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiClient implementa LLMClient con el SDK de Google GenAI.
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiClient(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: model, logger: logger}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt cannot be empty")
	}
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.4)),
	})
	if err != nil {
		c.logger.Warn("gemini generate failed", zap.Error(err), zap.String("model", c.model))
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("llm empty response")
	}
	return text, nil
}
