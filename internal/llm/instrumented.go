package llm

import (
	"context"
	"time"

	"career-advisor/internal/metrics"
)

// InstrumentedClient registra llamadas y latencia por proveedor.
type InstrumentedClient struct {
	next     LLMClient
	provider string
}

func NewInstrumentedClient(next LLMClient, provider string) *InstrumentedClient {
	return &InstrumentedClient{next: next, provider: provider}
}

func (c *InstrumentedClient) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	out, err := c.next.Generate(ctx, prompt)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.LLMCalls.WithLabelValues(c.provider, outcome).Inc()
	metrics.LLMLatency.WithLabelValues(c.provider).Observe(time.Since(start).Seconds())
	return out, err
}
