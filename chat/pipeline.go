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

package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/campusbuddy/ai"
	"github.com/poiesic/campusbuddy/core"
	"github.com/poiesic/campusbuddy/rag"
	"github.com/poiesic/campusbuddy/storage"
)

// Pipeline runs one conversation turn: bounded history, retrieval,
// generation with retry and fallback, then persistence.
type Pipeline struct {
	sessions  storage.SessionRepository
	messages  storage.MessageRepository
	retrieval rag.Client
	generator ai.Generator
	config    *Config
	logger    *slog.Logger

	mu    sync.Mutex
	locks map[core.ID]*sync.Mutex
}

// NewPipeline creates a conversation pipeline.
func NewPipeline(
	sessions storage.SessionRepository,
	messages storage.MessageRepository,
	retrieval rag.Client,
	generator ai.Generator,
	config *Config,
) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Pipeline{
		sessions:  sessions,
		messages:  messages,
		retrieval: retrieval,
		generator: generator,
		config:    config,
		logger:    slog.Default().With("component", "chat-pipeline"),
		locks:     make(map[core.ID]*sync.Mutex),
	}, nil
}

// Handle answers one user turn for a session.
//
// Turns for the same session are serialized; a second Handle call waits for
// the first to finish. Turns for different sessions run independently.
//
// Retrieval failure degrades to an ungrounded answer. Generation failure is
// retried once; a second failure yields the configured fallback text, with
// only the user message persisted.
func (p *Pipeline) Handle(ctx context.Context, sessionId core.ID, userText string) (*core.AnswerResult, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return nil, ErrEmptyQuery
	}

	lock := p.sessionLock(sessionId)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := p.sessions.GetSession(ctx, sessionId); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidSession, sessionId)
		}
		return nil, err
	}

	history, err := p.messages.GetRecentMessages(ctx, sessionId, p.config.MaxHistory)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	snippets := p.retrieve(ctx, userText)
	system := buildSystemPrompt(p.config.SystemPrompt, snippets)

	answer, retried, fallback := p.generate(ctx, system, history, userText)

	// Late results are worthless once the caller has given up.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	toPersist := []*core.Message{{
		SessionId: sessionId,
		Role:      core.RoleUser,
		Contents:  userText,
		Timestamp: now,
	}}
	if !fallback {
		toPersist = append(toPersist, &core.Message{
			SessionId: sessionId,
			Role:      core.RoleAssistant,
			Contents:  answer,
			Timestamp: now,
		})
	}

	if _, err := p.messages.AppendMessages(ctx, sessionId, toPersist...); err != nil {
		return nil, fmt.Errorf("persisting turn: %w", err)
	}
	if err := p.sessions.TouchSession(ctx, sessionId); err != nil {
		p.logger.Warn("failed to touch session", "session", sessionId, "err", err)
	}

	p.logger.Info("turn handled",
		"session", sessionId,
		"grounded", len(snippets) > 0,
		"retried", retried,
		"fallback", fallback)

	return &core.AnswerResult{
		Text:     answer,
		Grounded: len(snippets) > 0,
		Retried:  retried,
		Fallback: fallback,
	}, nil
}

// retrieve queries the knowledge base and filters hits by score.
// Failures and empty results degrade to no context.
func (p *Pipeline) retrieve(ctx context.Context, query string) []rag.SearchHit {
	searchCtx, cancel := context.WithTimeout(ctx, p.config.RetrievalTimeout)
	defer cancel()

	hits, err := p.retrieval.Search(searchCtx, query, p.config.TopK)
	if err != nil {
		p.logger.Warn("retrieval failed, answering without context", "err", err)
		return nil
	}
	return filterHits(hits, p.config.ScoreThreshold)
}

// generate runs up to two generation attempts and falls back to the canned
// answer when both fail.
func (p *Pipeline) generate(ctx context.Context, system string, history []*core.Message, question string) (answer string, retried, fallback bool) {
	prompt := make([]core.Message, len(history))
	for i, msg := range history {
		prompt[i] = *msg
	}

	for attempt := 0; attempt < 2; attempt++ {
		genCtx, cancel := context.WithTimeout(ctx, p.config.GenerateTimeout)
		answer, err := p.generator.Generate(genCtx, system, prompt, question)
		cancel()
		if err == nil {
			return answer, attempt > 0, false
		}
		p.logger.Warn("generation attempt failed", "attempt", attempt+1, "err", err)
		if ctx.Err() != nil {
			break
		}
	}

	return p.config.FallbackText, true, true
}

// sessionLock returns the mutex serializing turns for a session.
func (p *Pipeline) sessionLock(sessionId core.ID) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()

	lock, ok := p.locks[sessionId]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[sessionId] = lock
	}
	return lock
}
