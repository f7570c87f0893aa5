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
	"log/slog"

	"github.com/poiesic/campusbuddy/core"
	"github.com/poiesic/campusbuddy/storage"
)

// Deduplicator guards the knowledge base against double ingestion.
//
// Claims are atomic per fingerprint: of two concurrent CheckAndClaim calls
// for the same fingerprint, exactly one observes isNew=true. The claimant
// must either Confirm the claim with the resulting document ID or Release
// it so the item can be retried later.
type Deduplicator struct {
	records   storage.DedupRepository
	byContent bool
	logger    *slog.Logger
}

// NewDeduplicator creates a deduplicator. When byContent is true, harvested
// items are fingerprinted by their normalized text instead of their source
// identity, so identical text arriving through different routes collides.
func NewDeduplicator(records storage.DedupRepository, byContent bool) (*Deduplicator, error) {
	if records == nil {
		return nil, ErrDedupRepositoryRequired
	}

	return &Deduplicator{
		records:   records,
		byContent: byContent,
		logger:    slog.Default().With("component", "deduplicator"),
	}, nil
}

// FingerprintItem derives the dedup fingerprint for a harvested item
// according to the configured mode.
func (d *Deduplicator) FingerprintItem(item *core.HarvestedItem) core.Fingerprint {
	if d.byContent {
		return core.FingerprintFromContent(item.Contents)
	}
	return core.FingerprintFromIdentity(item.SourceId, item.NativeId)
}

// FingerprintText derives the content fingerprint for directly uploaded
// text. Uploads always dedup by content; they have no source identity.
func (d *Deduplicator) FingerprintText(text string) core.Fingerprint {
	return core.FingerprintFromContent(text)
}

// CheckAndClaim atomically claims a fingerprint for ingestion.
//
// isNew=true means the caller owns the fingerprint and must Confirm or
// Release it. isNew=false means the fingerprint is already ingested;
// existingDocId carries the known document, empty if the prior claim was
// never confirmed.
func (d *Deduplicator) CheckAndClaim(ctx context.Context, fingerprint core.Fingerprint) (isNew bool, existingDocId string, err error) {
	claimed, existing, err := d.records.ClaimFingerprint(ctx, fingerprint)
	if err != nil {
		return false, "", err
	}
	if claimed {
		return true, "", nil
	}

	if existing != nil {
		existingDocId = existing.DocumentId
	}
	d.logger.Debug("fingerprint already claimed", "fingerprint", fingerprint, "document", existingDocId)
	return false, existingDocId, nil
}

// Confirm binds the document ID to a claimed fingerprint.
func (d *Deduplicator) Confirm(ctx context.Context, fingerprint core.Fingerprint, documentId string) error {
	return d.records.ConfirmFingerprint(ctx, fingerprint, documentId)
}

// Release abandons an unconfirmed claim so the item can be retried.
func (d *Deduplicator) Release(ctx context.Context, fingerprint core.Fingerprint) error {
	return d.records.ReleaseFingerprint(ctx, fingerprint)
}
