package llm

import (
	"context"
	"sync"
)

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response string
	Err      error

	mu      sync.Mutex
	Prompts []string
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()
	return m.Response, m.Err
}

// LastPrompt devuelve el ultimo prompt recibido.
func (m *MockClient) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Prompts) == 0 {
		return ""
	}
	return m.Prompts[len(m.Prompts)-1]
}
