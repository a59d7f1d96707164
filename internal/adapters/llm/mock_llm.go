package llm

import (
	"context"
	"fmt"
	"hash/fnv"
)

// MockLLM is a no-network Completer/Embedder for local development.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	// Enough personality to exercise every flow without an API key.
	return fmt.Sprintf("I hear you. You said %q. Tell me a bit more about how that makes you feel.", userPrompt), nil
}

// Embed returns a deterministic pseudo-embedding so similarity search stays
// stable across runs.
func (m *MockLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, 8)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed>>33)%1000) / 1000
	}
	return vec, nil
}
