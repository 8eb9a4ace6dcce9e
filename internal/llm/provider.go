package llm

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"career-advisor/internal/config"
)

const (
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderDisabled = "disabled"
)

// NewFromConfig elige el proveedor segun LLM_PROVIDER. Si falta la clave o el proveedor
// falla al iniciar, devuelve DisabledClient y el servicio sigue sin IA.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (LLMClient, string) {
	provider := strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	switch provider {
	case ProviderGemini:
		client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			logger.Warn("gemini init failed, llm disabled", zap.Error(err))
			return DisabledClient{}, ProviderDisabled
		}
		return client, ProviderGemini
	case ProviderOpenAI, "":
		if strings.TrimSpace(cfg.LLMAPIKey) == "" {
			logger.Warn("llm api key not configured, llm disabled")
			return DisabledClient{}, ProviderDisabled
		}
		return NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger), ProviderOpenAI
	default:
		return DisabledClient{}, ProviderDisabled
	}
}
