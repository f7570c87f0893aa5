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

package campusbuddy

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/campusbuddy/ai"
	"github.com/poiesic/campusbuddy/ai/openrouter"
	"github.com/poiesic/campusbuddy/chat"
	"github.com/poiesic/campusbuddy/core"
	"github.com/poiesic/campusbuddy/harvest"
	"github.com/poiesic/campusbuddy/ingestion"
	"github.com/poiesic/campusbuddy/rag"
	"github.com/poiesic/campusbuddy/scheduler"
	"github.com/poiesic/campusbuddy/storage"
	"github.com/poiesic/campusbuddy/storage/badger"
)

// Assistant wires the whole system together: local storage, the retrieval
// and generation clients, both pipelines, and the background scheduler.
type Assistant struct {
	backend   *badger.Backend
	sessions  storage.SessionRepository
	messages  storage.MessageRepository
	dedupRepo storage.DedupRepository
	cursors   storage.CursorRepository
	attempts  storage.AttemptRepository

	retrieval rag.Client
	generator ai.Generator

	chatPipeline   *chat.Pipeline
	ingestPipeline *ingestion.Pipeline
	sched          *scheduler.Scheduler

	harvestInterval time.Duration
	logger          *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	ragConfig  *rag.Config
	aiConfig   *ai.Config
	chatConfig *chat.Config

	retrieval rag.Client
	generator ai.Generator

	dedupByContent   bool
	harvestInterval  time.Duration
	maxRetryInterval time.Duration
	poolSize         int
}

// WithRAGConfig sets the retrieval service configuration.
func WithRAGConfig(cfg *rag.Config) AssistantOption {
	return func(o *assistantOptions) {
		o.ragConfig = cfg
	}
}

// WithAIConfig sets the generation provider configuration.
func WithAIConfig(cfg *ai.Config) AssistantOption {
	return func(o *assistantOptions) {
		o.aiConfig = cfg
	}
}

// WithChatConfig sets the conversation pipeline configuration.
func WithChatConfig(cfg *chat.Config) AssistantOption {
	return func(o *assistantOptions) {
		o.chatConfig = cfg
	}
}

// WithRetrievalClient injects a retrieval client, bypassing ragConfig.
func WithRetrievalClient(client rag.Client) AssistantOption {
	return func(o *assistantOptions) {
		o.retrieval = client
	}
}

// WithGenerator injects a generation client, bypassing aiConfig.
func WithGenerator(generator ai.Generator) AssistantOption {
	return func(o *assistantOptions) {
		o.generator = generator
	}
}

// WithDedupByContent switches ingestion deduplication from source identity
// to normalized content. Default is identity-based.
func WithDedupByContent(byContent bool) AssistantOption {
	return func(o *assistantOptions) {
		o.dedupByContent = byContent
	}
}

// WithHarvestInterval sets the default cadence for monitored sources.
// Default is 15 minutes.
func WithHarvestInterval(interval time.Duration) AssistantOption {
	return func(o *assistantOptions) {
		if interval > 0 {
			o.harvestInterval = interval
		}
	}
}

// WithMaxRetryInterval caps scheduler backoff for failing sources.
func WithMaxRetryInterval(max time.Duration) AssistantOption {
	return func(o *assistantOptions) {
		o.maxRetryInterval = max
	}
}

// WithPoolSize sets the background worker pool size.
func WithPoolSize(size int) AssistantOption {
	return func(o *assistantOptions) {
		o.poolSize = size
	}
}

// NewAssistant opens storage at filePath and wires all components.
// Pass an empty filePath with in-memory test doubles injected via
// WithRetrievalClient/WithGenerator for tests.
func NewAssistant(filePath string, opts ...AssistantOption) (*Assistant, error) {
	options := &assistantOptions{
		ragConfig:        rag.DefaultConfig(),
		aiConfig:         ai.DefaultConfig(),
		chatConfig:       chat.DefaultConfig(),
		harvestInterval:  15 * time.Minute,
		maxRetryInterval: time.Hour,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, filePath == "")
	if err != nil {
		return nil, err
	}

	sessions, err := badger.NewSessionRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	messages, err := badger.NewMessageRepository(backend)
	if err != nil {
		sessions.Close()
		backend.Close()
		return nil, err
	}
	dedupRepo := badger.NewDedupRepository(backend)
	cursors := badger.NewCursorRepository(backend)
	attempts, err := badger.NewAttemptRepository(backend)
	if err != nil {
		messages.Close()
		sessions.Close()
		backend.Close()
		return nil, err
	}

	closeAll := func() {
		attempts.Close()
		messages.Close()
		sessions.Close()
		backend.Close()
	}

	retrieval := options.retrieval
	if retrieval == nil {
		retrieval, err = rag.NewClient(options.ragConfig)
		if err != nil {
			closeAll()
			return nil, err
		}
	}

	generator := options.generator
	if generator == nil {
		generator, err = openrouter.NewGenerator(options.aiConfig)
		if err != nil {
			retrieval.Close()
			closeAll()
			return nil, err
		}
	}

	chatPipeline, err := chat.NewPipeline(sessions, messages, retrieval, generator, options.chatConfig)
	if err != nil {
		generator.Close()
		retrieval.Close()
		closeAll()
		return nil, err
	}

	dedup, err := ingestion.NewDeduplicator(dedupRepo, options.dedupByContent)
	if err != nil {
		generator.Close()
		retrieval.Close()
		closeAll()
		return nil, err
	}
	ingestPipeline, err := ingestion.NewPipeline(dedup, retrieval, cursors, attempts)
	if err != nil {
		generator.Close()
		retrieval.Close()
		closeAll()
		return nil, err
	}

	schedOpts := []scheduler.Option{scheduler.WithMaxRetryInterval(options.maxRetryInterval)}
	if options.poolSize > 0 {
		schedOpts = append(schedOpts, scheduler.WithPoolSize(options.poolSize))
	}
	sched, err := scheduler.NewScheduler(schedOpts...)
	if err != nil {
		generator.Close()
		retrieval.Close()
		closeAll()
		return nil, err
	}

	return &Assistant{
		backend:         backend,
		sessions:        sessions,
		messages:        messages,
		dedupRepo:       dedupRepo,
		cursors:         cursors,
		attempts:        attempts,
		retrieval:       retrieval,
		generator:       generator,
		chatPipeline:    chatPipeline,
		ingestPipeline:  ingestPipeline,
		sched:           sched,
		harvestInterval: options.harvestInterval,
		logger:          slog.Default(),
	}, nil
}

// Ask answers one question for a user, creating their session on first
// contact.
func (a *Assistant) Ask(ctx context.Context, ownerId, question string) (*core.AnswerResult, error) {
	session, err := a.sessions.GetOrCreateActiveSession(ctx, ownerId)
	if err != nil {
		return nil, err
	}
	return a.chatPipeline.Handle(ctx, session.Id, question)
}

// ResetConversation starts a fresh session for a user. History of the old
// session is kept but no longer feeds prompts.
func (a *Assistant) ResetConversation(ctx context.Context, ownerId string) error {
	_, err := a.sessions.ResetSession(ctx, ownerId)
	return err
}

// Monitor registers a channel source for periodic harvest-and-ingest.
// Must be called before StartScheduler.
func (a *Assistant) Monitor(sourceId string, fetcher harvest.Fetcher, opts ...harvest.Option) error {
	harvester, err := harvest.NewHarvester(fetcher, opts...)
	if err != nil {
		return err
	}

	return a.sched.Register("harvest:"+sourceId, a.harvestInterval, func(ctx context.Context) error {
		_, err := a.harvestAndIngest(ctx, sourceId, harvester)
		return err
	})
}

// HarvestOnce runs a single synchronous harvest-and-ingest cycle for a
// source. Returns nil when the source yielded nothing new.
func (a *Assistant) HarvestOnce(ctx context.Context, sourceId string, fetcher harvest.Fetcher, opts ...harvest.Option) (*ingestion.BatchReport, error) {
	harvester, err := harvest.NewHarvester(fetcher, opts...)
	if err != nil {
		return nil, err
	}
	return a.harvestAndIngest(ctx, sourceId, harvester)
}

// harvestAndIngest runs one harvest cycle for a source. Partially
// harvested items are still ingested; the partial error propagates so the
// scheduler backs off and retries the remainder.
func (a *Assistant) harvestAndIngest(ctx context.Context, sourceId string, harvester *harvest.Harvester) (*ingestion.BatchReport, error) {
	var position int64
	cursor, err := a.cursors.LoadCursor(ctx, sourceId)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		position = cursor.Position
	}

	items, harvestErr := harvester.HarvestSince(ctx, sourceId, position)
	var report *ingestion.BatchReport
	if len(items) > 0 {
		report, err = a.ingestPipeline.IngestBatch(ctx, sourceId, items)
		if err != nil {
			return report, err
		}
		a.ingestLinkedPages(ctx, items)
	}
	return report, harvestErr
}

// ingestLinkedPages queues URL ingestion for links found in harvested
// items. Runs inline when the scheduler is not up. Best-effort; failures
// only log.
func (a *Assistant) ingestLinkedPages(ctx context.Context, items []*core.HarvestedItem) {
	for _, item := range items {
		for _, url := range harvest.ExtractURLs(item.Contents) {
			url := url
			err := a.sched.Submit("ingest-url", func(ctx context.Context) error {
				_, _, err := a.ingestPipeline.IngestURL(ctx, url)
				return err
			})
			if err != nil {
				if _, _, err := a.ingestPipeline.IngestURL(ctx, url); err != nil {
					a.logger.Warn("failed to ingest linked page", "url", url, "err", err)
				}
			}
		}
	}
}

// RequestReprocess queues an asynchronous reindex of a document.
func (a *Assistant) RequestReprocess(documentId string) error {
	return a.sched.Submit("reprocess:"+documentId, func(ctx context.Context) error {
		return a.ingestPipeline.Reprocess(ctx, documentId)
	})
}

// StartScheduler launches the registered background jobs.
func (a *Assistant) StartScheduler() error {
	return a.sched.Start()
}

// IngestionPipeline exposes the ingestion entry points for the admin
// surface.
func (a *Assistant) IngestionPipeline() *ingestion.Pipeline {
	return a.ingestPipeline
}

// SessionRepository exposes session storage.
func (a *Assistant) SessionRepository() storage.SessionRepository {
	return a.sessions
}

// MessageRepository exposes message storage.
func (a *Assistant) MessageRepository() storage.MessageRepository {
	return a.messages
}

// AttemptRepository exposes the ingestion audit log.
func (a *Assistant) AttemptRepository() storage.AttemptRepository {
	return a.attempts
}

// Close stops background work and releases all resources.
func (a *Assistant) Close() error {
	a.sched.Stop()

	if err := a.generator.Close(); err != nil {
		a.logger.Error("error closing generator", "err", err)
	}
	if err := a.retrieval.Close(); err != nil {
		a.logger.Error("error closing retrieval client", "err", err)
	}

	if err := a.attempts.Close(); err != nil {
		a.logger.Error("error closing attempt repository", "err", err)
		return err
	}
	if err := a.messages.Close(); err != nil {
		a.logger.Error("error closing message repository", "err", err)
		return err
	}
	if err := a.sessions.Close(); err != nil {
		a.logger.Error("error closing session repository", "err", err)
		return err
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
