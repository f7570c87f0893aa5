package mock

import (
	"context"
	"fmt"

	"github.com/poiesic/campusbuddy/ai"
	"github.com/poiesic/campusbuddy/core"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, uses default deterministic behavior.
	GenerateFunc func(ctx context.Context, system string, history []core.Message, question string) (string, error)

	callCount int
}

var _ ai.Generator = (*MockGenerator)(nil)

// NewMockGenerator creates a mock generator with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via function fields.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns a deterministic answer derived from the question.
func (m *MockGenerator) Generate(ctx context.Context, system string, history []core.Message, question string) (string, error) {
	m.callCount++

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, system, history, question)
	}
	return fmt.Sprintf("answer to: %s", question), nil
}

// Close is a no-op for the mock generator.
func (m *MockGenerator) Close() error {
	return nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.GenerateFunc = nil
}
