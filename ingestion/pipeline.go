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

package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/campusbuddy/core"
	"github.com/poiesic/campusbuddy/rag"
	"github.com/poiesic/campusbuddy/storage"
)

// Pipeline feeds harvested items and uploads into the knowledge base with
// deduplication, audit records, and cursor tracking.
type Pipeline struct {
	dedup     *Deduplicator
	retrieval rag.Client
	cursors   storage.CursorRepository
	attempts  storage.AttemptRepository
	logger    *slog.Logger
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	dedup *Deduplicator,
	retrieval rag.Client,
	cursors storage.CursorRepository,
	attempts storage.AttemptRepository,
) (*Pipeline, error) {
	if dedup == nil {
		return nil, ErrDedupRepositoryRequired
	}
	if retrieval == nil {
		return nil, ErrRetrievalClientRequired
	}
	if cursors == nil {
		return nil, ErrCursorRepositoryRequired
	}
	if attempts == nil {
		return nil, ErrAttemptRepositoryRequired
	}

	return &Pipeline{
		dedup:     dedup,
		retrieval: retrieval,
		cursors:   cursors,
		attempts:  attempts,
		logger:    slog.Default().With("component", "ingestion-pipeline"),
	}, nil
}

// ItemResult is the per-item outcome of a batch.
type ItemResult struct {
	NativeId   int64
	Outcome    core.AttemptOutcome
	DocumentId string
	Err        error
}

// BatchReport summarizes one IngestBatch run.
type BatchReport struct {
	SourceId string
	Results  []ItemResult
	Ingested int
	Skipped  int
	Failed   int

	// CursorPosition is the cursor after the run. When a failed item stalls
	// the batch, the cursor stops just before it so the next harvest picks
	// the item up again; items after the failure are still attempted.
	CursorPosition int64
	CursorAdvanced bool
}

// IngestBatch processes harvested items in order.
//
// Each item is fingerprinted and claimed. Already-known items are recorded
// as skipped duplicates. New items are sent to the retrieval service; on
// success the claim is confirmed, on failure it is released so a later run
// retries the item. Every item produces an audit attempt record.
func (p *Pipeline) IngestBatch(ctx context.Context, sourceId string, items []*core.HarvestedItem) (*BatchReport, error) {
	if sourceId == "" {
		return nil, core.ErrEmptySourceId
	}

	cursor, err := p.cursors.LoadCursor(ctx, sourceId)
	if err != nil {
		return nil, fmt.Errorf("loading cursor: %w", err)
	}
	var position int64
	if cursor != nil {
		position = cursor.Position
	}

	report := &BatchReport{
		SourceId:       sourceId,
		Results:        make([]ItemResult, 0, len(items)),
		CursorPosition: position,
	}
	attempts := make([]*core.IngestionAttempt, 0, len(items))

	advanceTo := position
	stalled := false
	for _, item := range items {
		result := p.ingestOne(ctx, item)
		report.Results = append(report.Results, result)

		attempt := &core.IngestionAttempt{
			SourceId:   sourceId,
			NativeId:   item.NativeId,
			Outcome:    result.Outcome,
			DocumentId: result.DocumentId,
		}
		switch result.Outcome {
		case core.OutcomeIngested:
			report.Ingested++
		case core.OutcomeSkippedDuplicate:
			report.Skipped++
		case core.OutcomeFailed:
			report.Failed++
			attempt.Error = result.Err.Error()
			stalled = true
		}
		attempts = append(attempts, attempt)

		// The cursor may only cover items up to the first failure.
		if !stalled && item.NativeId > advanceTo {
			advanceTo = item.NativeId
		}
	}

	if _, err := p.attempts.AppendAttempts(ctx, attempts...); err != nil {
		return report, fmt.Errorf("recording attempts: %w", err)
	}

	if advanceTo > position {
		err := p.cursors.SaveCursor(ctx, &core.SourceCursor{
			SourceId:  sourceId,
			Position:  advanceTo,
			LastRunAt: time.Now().UTC(),
		})
		if err != nil {
			return report, fmt.Errorf("advancing cursor: %w", err)
		}
		report.CursorPosition = advanceTo
		report.CursorAdvanced = true
	}

	p.logger.Info("batch ingested",
		"source", sourceId,
		"items", len(items),
		"ingested", report.Ingested,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"cursor", report.CursorPosition)
	return report, nil
}

// ingestOne runs the claim/ingest/confirm cycle for a single item.
func (p *Pipeline) ingestOne(ctx context.Context, item *core.HarvestedItem) ItemResult {
	result := ItemResult{NativeId: item.NativeId}

	if err := core.ValidateHarvestedItem(item); err != nil {
		result.Outcome = core.OutcomeFailed
		result.Err = err
		return result
	}

	fingerprint := p.dedup.FingerprintItem(item)
	isNew, existingDocId, err := p.dedup.CheckAndClaim(ctx, fingerprint)
	if err != nil {
		result.Outcome = core.OutcomeFailed
		result.Err = fmt.Errorf("claiming fingerprint: %w", err)
		return result
	}
	if !isNew {
		result.Outcome = core.OutcomeSkippedDuplicate
		result.DocumentId = existingDocId
		return result
	}

	documentId, err := p.retrieval.IngestChannelMessage(ctx, item)
	if err != nil {
		if relErr := p.dedup.Release(ctx, fingerprint); relErr != nil {
			p.logger.Error("failed to release claim", "fingerprint", fingerprint, "err", relErr)
		}
		result.Outcome = core.OutcomeFailed
		result.Err = fmt.Errorf("%w: %w", ErrIngestFailed, err)
		return result
	}

	if err := p.dedup.Confirm(ctx, fingerprint, documentId); err != nil {
		result.Outcome = core.OutcomeFailed
		result.Err = fmt.Errorf("confirming claim: %w", err)
		return result
	}

	result.Outcome = core.OutcomeIngested
	result.DocumentId = documentId
	return result
}

// IngestDocument uploads a text document, deduplicated by content.
// Returns the document ID, or the existing document's ID when the same
// content was ingested before.
func (p *Pipeline) IngestDocument(ctx context.Context, title, content string) (string, bool, error) {
	if core.NormalizeText(content) == "" {
		return "", false, core.ErrEmptyContent
	}

	fingerprint := p.dedup.FingerprintText(content)
	isNew, existingDocId, err := p.dedup.CheckAndClaim(ctx, fingerprint)
	if err != nil {
		return "", false, err
	}
	if !isNew {
		return existingDocId, false, nil
	}

	documentId, err := p.retrieval.IngestText(ctx, title, content, core.SourceDescriptor{Kind: core.SourceManual})
	if err != nil {
		if relErr := p.dedup.Release(ctx, fingerprint); relErr != nil {
			p.logger.Error("failed to release claim", "fingerprint", fingerprint, "err", relErr)
		}
		return "", false, fmt.Errorf("%w: %w", ErrIngestFailed, err)
	}
	if err := p.dedup.Confirm(ctx, fingerprint, documentId); err != nil {
		return "", false, err
	}
	return documentId, true, nil
}

// IngestURL has the retrieval service fetch and ingest a web page.
// Deduplicated by the URL itself.
func (p *Pipeline) IngestURL(ctx context.Context, url string) (string, bool, error) {
	if url == "" {
		return "", false, core.ErrEmptyContent
	}

	fingerprint := p.dedup.FingerprintText(url)
	isNew, existingDocId, err := p.dedup.CheckAndClaim(ctx, fingerprint)
	if err != nil {
		return "", false, err
	}
	if !isNew {
		return existingDocId, false, nil
	}

	documentId, err := p.retrieval.IngestFromURL(ctx, url, core.SourceDescriptor{Kind: core.SourceURL, URL: url})
	if err != nil {
		if relErr := p.dedup.Release(ctx, fingerprint); relErr != nil {
			p.logger.Error("failed to release claim", "fingerprint", fingerprint, "err", relErr)
		}
		return "", false, fmt.Errorf("%w: %w", ErrIngestFailed, err)
	}
	if err := p.dedup.Confirm(ctx, fingerprint, documentId); err != nil {
		return "", false, err
	}
	return documentId, true, nil
}

// Reprocess re-indexes an already ingested document. Safe to call more
// than once; reindexing unchanged content leaves the same indexed state.
func (p *Pipeline) Reprocess(ctx context.Context, documentId string) error {
	if err := p.retrieval.Reprocess(ctx, documentId); err != nil {
		return fmt.Errorf("reprocessing %s: %w", documentId, err)
	}
	return nil
}
