// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package openrouter

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/campusbuddy/ai"
	"github.com/poiesic/campusbuddy/core"
)

// Generator implements ai.Generator over OpenAI-compatible chat APIs.
type Generator struct {
	client      llms.Model
	temperature float64
	logger      *slog.Logger
}

// NewGenerator creates a generator from the provided configuration.
// The config is validated and normalized before use.
//
// Returns ai.Generator interface (not *Generator) to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Local OpenAI-compatible servers ignore the token but langchaingo
	// requires a non-empty one.
	token := config.APIKey
	if token == "" {
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:      client,
		temperature: config.Temperature,
		logger:      slog.Default().With("component", "openrouter-generator"),
	}, nil
}

// Generate produces one completion for the given turn.
func (g *Generator) Generate(ctx context.Context, system string, history []core.Message, question string) (string, error) {
	content := make([]llms.MessageContent, 0, len(history)+2)
	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeSystem,
		Parts: []llms.ContentPart{llms.TextPart(system)},
	})

	for _, msg := range history {
		var role llms.ChatMessageType
		switch msg.Role {
		case core.RoleUser:
			role = llms.ChatMessageTypeHuman
		case core.RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			continue
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Contents)},
		})
	}

	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(question)},
	})

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(g.temperature))
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		g.logger.Debug("no choices returned from model")
		return "", ai.ErrEmptyCompletion
	}

	answer := strings.TrimSpace(response.Choices[0].Content)
	if answer == "" {
		return "", ai.ErrEmptyCompletion
	}

	g.logger.Debug("generated answer",
		"history_len", len(history),
		"answer_len", len(answer))
	return answer, nil
}

// Close releases resources held by the generator.
// Currently a no-op as the underlying client doesn't require explicit cleanup.
func (g *Generator) Close() error {
	g.logger.Debug("closing generator")
	return nil
}
