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
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/campusbuddy/core"
	"github.com/poiesic/campusbuddy/storage"
)

// CursorRepository implements storage.CursorRepository for BadgerDB.
type CursorRepository struct {
	backend *Backend
}

var _ storage.CursorRepository = (*CursorRepository)(nil)

// NewCursorRepository creates a new CursorRepository.
func NewCursorRepository(backend *Backend) *CursorRepository {
	return &CursorRepository{
		backend: backend,
	}
}

// Close is a no-op; the repository holds no sequence.
func (r *CursorRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *CursorRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveCursor persists a cursor for a source. Positions are monotonically
// non-decreasing.
func (r *CursorRepository) SaveCursor(ctx context.Context, cursor *core.SourceCursor) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCursorKey(cursor.SourceId)

		current, err := readCursor(tx, key)
		if err != nil {
			return err
		}
		if current != nil && cursor.Position < current.Position {
			return storage.ErrCursorRegression
		}

		cursor.LastRunAt = time.Now().UTC()
		if err := tx.Set(key, storage.MarshalCursor(cursor)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadCursor retrieves the cursor for a source.
// Returns nil, nil if no cursor exists.
func (r *CursorRepository) LoadCursor(ctx context.Context, sourceId string) (*core.SourceCursor, error) {
	var cursor *core.SourceCursor
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var readErr error
		cursor, readErr = readCursor(tx, makeCursorKey(sourceId))
		return readErr
	}, false)

	return cursor, err
}

// readCursor reads a cursor from the transaction.
func readCursor(tx *badger.Txn, key []byte) (*core.SourceCursor, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var cursor *core.SourceCursor
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		cursor, unmarshalErr = storage.UnmarshalCursor(val)
		return unmarshalErr
	})
	return cursor, err
}
