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

package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/campusbuddy/core"
)

// Harvester incrementally pulls new messages from a channel source,
// filters out noise, and shapes the survivors into harvestable items.
type Harvester struct {
	fetcher    Fetcher
	batchSize  int
	minWords   int
	adKeywords []string
	logger     *slog.Logger
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithBatchSize sets the page size for fetch calls. Default is 100.
func WithBatchSize(size int) Option {
	return func(h *Harvester) {
		if size > 0 {
			h.batchSize = size
		}
	}
}

// WithMinWords sets the relevance floor: messages with fewer words are
// skipped. Default is 10.
func WithMinWords(n int) Option {
	return func(h *Harvester) {
		h.minWords = n
	}
}

// WithAdKeywords replaces the keyword list used to drop advertising posts.
func WithAdKeywords(keywords []string) Option {
	return func(h *Harvester) {
		h.adKeywords = keywords
	}
}

// NewHarvester creates a harvester over the given fetcher.
func NewHarvester(fetcher Fetcher, opts ...Option) (*Harvester, error) {
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}

	h := &Harvester{
		fetcher:    fetcher,
		batchSize:  100,
		minWords:   10,
		adKeywords: []string{"advertisement", "sponsored", "promo code", "discount", "order now"},
		logger:     slog.Default().With("component", "harvester"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// HarvestSince fetches messages with Id greater than the cursor, in source
// order, and returns the relevant ones as harvested items.
//
// On a mid-harvest fetch failure the items gathered so far are returned
// together with an error wrapping ErrHarvestPartial; the caller ingests the
// partial batch and retries the remainder next run, since the cursor has
// not moved past anything unfetched.
func (h *Harvester) HarvestSince(ctx context.Context, sourceId string, cursor int64) ([]*core.HarvestedItem, error) {
	if sourceId == "" {
		return nil, core.ErrEmptySourceId
	}

	var items []*core.HarvestedItem
	position := cursor
	fetched := 0

	for {
		from := position
		batch, fetchErr := h.fetcher.FetchSince(ctx, sourceId, position, h.batchSize)

		// A failing fetch may still carry a partial page; shape whatever
		// arrived before reporting the failure so the caller can ingest it.
		for _, raw := range batch {
			position = raw.Id
			fetched++
			if !h.isRelevant(raw) {
				continue
			}
			if item := h.shape(sourceId, raw); item != nil {
				items = append(items, item)
			}
		}

		if fetchErr != nil {
			h.logger.Warn("fetch stopped early",
				"source", sourceId,
				"position", from,
				"gathered", len(items),
				"err", fetchErr)
			return items, fmt.Errorf("%w: source %s after id %d: %w", ErrHarvestPartial, sourceId, from, fetchErr)
		}
		if len(batch) < h.batchSize {
			break
		}
	}

	h.logger.Debug("harvest run complete",
		"source", sourceId,
		"fetched", fetched,
		"relevant", len(items))
	return items, nil
}

// isRelevant decides whether a message is worth ingesting: long enough,
// not a reply, not an obvious advertisement.
func (h *Harvester) isRelevant(raw RawMessage) bool {
	if raw.IsReply {
		return false
	}
	if len(strings.Fields(raw.Text)) < h.minWords {
		return false
	}
	lowered := strings.ToLower(raw.Text)
	for _, keyword := range h.adKeywords {
		if strings.Contains(lowered, keyword) {
			return false
		}
	}
	return true
}

// shape cleans a raw message into a harvested item, or nil when nothing
// survives cleaning.
func (h *Harvester) shape(sourceId string, raw RawMessage) *core.HarvestedItem {
	cleaned := CleanText(raw.Text)
	if cleaned == "" {
		return nil
	}

	return &core.HarvestedItem{
		SourceId:    sourceId,
		NativeId:    raw.Id,
		Title:       MakeTitle(cleaned),
		Contents:    cleaned,
		SourceURL:   raw.Link,
		PublishedAt: raw.SentAt,
	}
}
