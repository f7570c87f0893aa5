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


package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/campusbuddy/core"
	"github.com/poiesic/campusbuddy/storage"
)

// claimRetryLimit bounds the conflict-retry loops on the dedup key.
const claimRetryLimit = 5

// claimTakeoverAge is how old an unconfirmed claim must be before another
// claimant may take it over. Younger claims belong to an ingest that is
// still in flight; only a claim orphaned by a crash between claim and
// confirm outlives this window without being confirmed or released.
const claimTakeoverAge = 5 * time.Minute

// DedupRepository implements storage.DedupRepository for BadgerDB.
//
// Atomicity of ClaimFingerprint relies on BadgerDB's SSI conflict detection:
// two transactions that read-then-write the same fingerprint key cannot both
// commit; the loser observes badger.ErrConflict and re-reads the winner's
// record.
type DedupRepository struct {
	backend *Backend
}

var _ storage.DedupRepository = (*DedupRepository)(nil)

// NewDedupRepository creates a new DedupRepository.
func NewDedupRepository(backend *Backend) *DedupRepository {
	return &DedupRepository{
		backend: backend,
	}
}

// Close is a no-op; the repository holds no sequence.
func (r *DedupRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *DedupRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// ClaimFingerprint attempts to claim a fingerprint. Exactly one of two
// concurrent claimants observes claimed=true.
func (r *DedupRepository) ClaimFingerprint(ctx context.Context, fingerprint core.Fingerprint) (bool, *core.DedupRecord, error) {
	key := makeDedupKey(fingerprint)

	for attempt := 0; attempt < claimRetryLimit; attempt++ {
		var claimed bool
		var existing *core.DedupRecord

		err := r.backend.WithTx(func(tx *badger.Txn) error {
			record, err := readDedupRecord(tx, key)
			if err != nil {
				return err
			}
			if record != nil {
				if record.DocumentId != "" {
					// Confirmed claim: the fingerprint is taken.
					existing = record
					return nil
				}
				if time.Since(record.ClaimedAt) < claimTakeoverAge {
					// Unconfirmed but fresh: the owner's ingest is still
					// in flight. Blocks until confirmed or released.
					existing = record
					return nil
				}
			}

			// Unclaimed, or a claim orphaned by a crash between claim
			// and confirm: take it over.
			claim := &core.DedupRecord{
				Fingerprint: fingerprint,
				ClaimedAt:   time.Now().UTC(),
			}
			if err := tx.Set(key, storage.MarshalDedupRecord(claim)); err != nil {
				return err
			}
			claimed = true
			existing = claim
			return tx.Commit()
		}, true)

		if err == nil {
			return claimed, existing, nil
		}
		if !errors.Is(err, badger.ErrConflict) {
			return false, nil, err
		}
		// Lost the race; re-read the winner's record on the next pass.
	}

	// Repeated conflicts mean another claimant won; report its record.
	record, err := r.GetDedupRecord(ctx, fingerprint)
	if err != nil {
		return false, nil, err
	}
	return false, record, nil
}

// ConfirmFingerprint binds the knowledge document ID to a claimed fingerprint.
func (r *DedupRepository) ConfirmFingerprint(ctx context.Context, fingerprint core.Fingerprint, documentId string) error {
	key := makeDedupKey(fingerprint)
	return r.updateWithRetry(func(tx *badger.Txn) error {
		record, err := readDedupRecord(tx, key)
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}
		record.DocumentId = documentId
		return tx.Set(key, storage.MarshalDedupRecord(record))
	})
}

// ReleaseFingerprint removes an unconfirmed claim.
func (r *DedupRepository) ReleaseFingerprint(ctx context.Context, fingerprint core.Fingerprint) error {
	key := makeDedupKey(fingerprint)
	return r.updateWithRetry(func(tx *badger.Txn) error {
		record, err := readDedupRecord(tx, key)
		if err != nil {
			return err
		}
		if record == nil {
			return nil
		}
		if record.DocumentId != "" {
			return storage.ErrClaimConfirmed
		}
		return tx.Delete(key)
	})
}

// updateWithRetry runs fn through Backend.Update, retrying commit-time
// conflicts. Confirm and release race against concurrent claimants reading
// the same key; the read-modify-write itself is idempotent, so retrying on
// a conflict is safe.
func (r *DedupRepository) updateWithRetry(fn func(tx *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < claimRetryLimit; attempt++ {
		err = r.backend.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// GetDedupRecord retrieves the record for a fingerprint.
// Returns nil, nil if no record exists.
func (r *DedupRepository) GetDedupRecord(ctx context.Context, fingerprint core.Fingerprint) (*core.DedupRecord, error) {
	var result *core.DedupRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		record, err := readDedupRecord(tx, makeDedupKey(fingerprint))
		if err != nil {
			return err
		}
		result = record
		return nil
	}, false)
	return result, err
}

// readDedupRecord reads a dedup record from the transaction.
func readDedupRecord(tx *badger.Txn, key []byte) (*core.DedupRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.DedupRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalDedupRecord(val)
		return unmarshalErr
	})
	return record, err
}
