package ai

import (
	"context"

	"github.com/poiesic/campusbuddy/core"
)

// Generator produces assistant answers from a grounded prompt.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate produces one completion for the given turn.
	//
	// The system prompt carries the assistant persona and any retrieved
	// context. History is the bounded recent conversation, oldest first;
	// question is the current user query. Roles other than user and
	// assistant are skipped.
	//
	// Returns an error if the provider call fails or yields an empty
	// completion. Generate does not retry; callers own retry policy.
	Generate(ctx context.Context, system string, history []core.Message, question string) (string, error)

	// Close releases resources held by the generator.
	Close() error
}
