package chat

import (
	"errors"
	"time"
)

// DefaultFallbackText is the canned answer returned when generation fails
// twice in a row. The user's question is still recorded.
const DefaultFallbackText = "Sorry, I can't put an answer together right now. Please try again in a minute."

// DefaultSystemPrompt is the assistant persona prepended to every turn.
const DefaultSystemPrompt = "You are a helpful assistant for university students. " +
	"Answer questions using the provided context when it is relevant. " +
	"If the context does not cover the question, say so honestly instead of guessing. " +
	"Keep answers short and practical."

// Config holds configuration for the conversation pipeline.
type Config struct {
	// MaxHistory bounds how many recent messages are loaded into the prompt.
	// Default: 8
	MaxHistory int

	// TopK is how many hits to request from the retrieval service.
	// Default: 5
	TopK int

	// ScoreThreshold drops retrieved hits scored below it.
	// Default: 0.25
	ScoreThreshold float32

	// GenerateTimeout bounds a single generation attempt.
	// Default: 30s
	GenerateTimeout time.Duration

	// RetrievalTimeout bounds the retrieval call.
	// Default: 30s
	RetrievalTimeout time.Duration

	// SystemPrompt is the assistant persona.
	SystemPrompt string

	// FallbackText is returned after two failed generation attempts.
	FallbackText string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithMaxHistory sets the history bound.
func WithMaxHistory(n int) ConfigOption {
	return func(c *Config) {
		c.MaxHistory = n
	}
}

// WithTopK sets the retrieval result count.
func WithTopK(k int) ConfigOption {
	return func(c *Config) {
		c.TopK = k
	}
}

// WithScoreThreshold sets the minimum relevance score for prompt context.
func WithScoreThreshold(threshold float32) ConfigOption {
	return func(c *Config) {
		c.ScoreThreshold = threshold
	}
}

// WithGenerateTimeout sets the per-attempt generation timeout.
func WithGenerateTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.GenerateTimeout = timeout
	}
}

// WithRetrievalTimeout sets the retrieval call timeout.
func WithRetrievalTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.RetrievalTimeout = timeout
	}
}

// WithSystemPrompt overrides the assistant persona.
func WithSystemPrompt(prompt string) ConfigOption {
	return func(c *Config) {
		c.SystemPrompt = prompt
	}
}

// WithFallbackText overrides the canned failure answer.
func WithFallbackText(text string) ConfigOption {
	return func(c *Config) {
		c.FallbackText = text
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxHistory:       8,
		TopK:             5,
		ScoreThreshold:   0.25,
		GenerateTimeout:  30 * time.Second,
		RetrievalTimeout: 30 * time.Second,
		SystemPrompt:     DefaultSystemPrompt,
		FallbackText:     DefaultFallbackText,
	}
}

// NewConfig creates a Config with defaults and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.MaxHistory < 0 {
		return errors.New("chat config: MaxHistory must not be negative")
	}
	if c.TopK < 1 {
		return errors.New("chat config: TopK must be at least 1")
	}
	if c.ScoreThreshold < 0 || c.ScoreThreshold > 1 {
		return errors.New("chat config: ScoreThreshold must be between 0 and 1")
	}
	if c.GenerateTimeout <= 0 {
		return errors.New("chat config: GenerateTimeout must be positive")
	}
	if c.RetrievalTimeout <= 0 {
		return errors.New("chat config: RetrievalTimeout must be positive")
	}
	if c.SystemPrompt == "" {
		return errors.New("chat config: SystemPrompt is required")
	}
	if c.FallbackText == "" {
		return errors.New("chat config: FallbackText is required")
	}
	return nil
}
