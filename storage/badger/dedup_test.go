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
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/campusbuddy/core"
	"github.com/poiesic/campusbuddy/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimFingerprintLifecycle(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	fp := core.Fingerprint(12345)

	claimed, record, err := stores.Dedup.ClaimFingerprint(ctx, fp)
	require.NoError(t, err)
	assert.True(t, claimed)
	require.NotNil(t, record)
	assert.Empty(t, record.DocumentId)
	assert.False(t, record.ClaimedAt.IsZero())

	require.NoError(t, stores.Dedup.ConfirmFingerprint(ctx, fp, "doc-1"))

	// A confirmed claim blocks later claimants and reports the document
	claimed, record, err = stores.Dedup.ClaimFingerprint(ctx, fp)
	require.NoError(t, err)
	assert.False(t, claimed)
	require.NotNil(t, record)
	assert.Equal(t, "doc-1", record.DocumentId)
}

func TestClaimFingerprintInFlightBlocks(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	fp := core.Fingerprint(777)

	// First claimant has not confirmed yet; its ingest is in flight
	claimed, _, err := stores.Dedup.ClaimFingerprint(ctx, fp)
	require.NoError(t, err)
	require.True(t, claimed)

	// A second claimant must not win while the claim is fresh
	claimed, record, err := stores.Dedup.ClaimFingerprint(ctx, fp)
	require.NoError(t, err)
	assert.False(t, claimed)
	require.NotNil(t, record)
	assert.Empty(t, record.DocumentId)
}

func TestClaimFingerprintStaleTakeover(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	fp := core.Fingerprint(888)

	// Seed a claim orphaned by a crash between claim and confirm
	orphan := &core.DedupRecord{
		Fingerprint: fp,
		ClaimedAt:   time.Now().UTC().Add(-claimTakeoverAge - time.Minute),
	}
	require.NoError(t, stores.Backend.Update(func(tx *badger.Txn) error {
		return tx.Set(makeDedupKey(fp), storage.MarshalDedupRecord(orphan))
	}))

	// The next claimant takes the orphaned claim over
	claimed, record, err := stores.Dedup.ClaimFingerprint(ctx, fp)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Empty(t, record.DocumentId)
}

func TestReleaseFingerprint(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	fp := core.Fingerprint(42)

	claimed, _, err := stores.Dedup.ClaimFingerprint(ctx, fp)
	require.NoError(t, err)
	require.True(t, claimed)

	require.NoError(t, stores.Dedup.ReleaseFingerprint(ctx, fp))

	record, err := stores.Dedup.GetDedupRecord(ctx, fp)
	require.NoError(t, err)
	assert.Nil(t, record)

	// Releasing an absent claim is a no-op
	require.NoError(t, stores.Dedup.ReleaseFingerprint(ctx, fp))
}

func TestReleaseConfirmedFingerprint(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	fp := core.Fingerprint(42)

	claimed, _, err := stores.Dedup.ClaimFingerprint(ctx, fp)
	require.NoError(t, err)
	require.True(t, claimed)
	require.NoError(t, stores.Dedup.ConfirmFingerprint(ctx, fp, "doc-9"))

	err = stores.Dedup.ReleaseFingerprint(ctx, fp)
	assert.ErrorIs(t, err, storage.ErrClaimConfirmed)
}

func TestConfirmUnclaimedFingerprint(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	err = stores.Dedup.ConfirmFingerprint(context.Background(), core.Fingerprint(1), "doc-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestConcurrentClaimsOneWinner(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	fp := core.Fingerprint(9001)

	const claimants = 8
	var winners atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, _, err := stores.Dedup.ClaimFingerprint(ctx, fp)
			assert.NoError(t, err)
			if claimed {
				winners.Add(1)
				assert.NoError(t, stores.Dedup.ConfirmFingerprint(ctx, fp, "doc-winner"))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load(), "exactly one concurrent claimant wins")

	record, err := stores.Dedup.GetDedupRecord(ctx, fp)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "doc-winner", record.DocumentId)
}
