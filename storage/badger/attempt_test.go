package badger

import (
	"context"
	"testing"

	"github.com/poiesic/campusbuddy/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAttempts(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()

	appended, err := stores.Attempts.AppendAttempts(ctx,
		&core.IngestionAttempt{SourceId: "channel-a", NativeId: 1, Outcome: core.OutcomeIngested, DocumentId: "doc-1"},
		&core.IngestionAttempt{SourceId: "channel-a", NativeId: 2, Outcome: core.OutcomeFailed, Error: "service down"},
	)
	require.NoError(t, err)
	require.Len(t, appended, 2)

	assert.NotZero(t, appended[0].Id)
	assert.NotZero(t, appended[1].Id)
	assert.NotEqual(t, appended[0].Id, appended[1].Id)
	assert.False(t, appended[0].At.IsZero())
}

func TestGetAttemptsBySource(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		_, err := stores.Attempts.AppendAttempts(ctx,
			&core.IngestionAttempt{SourceId: "channel-a", NativeId: i, Outcome: core.OutcomeIngested},
		)
		require.NoError(t, err)
	}
	_, err = stores.Attempts.AppendAttempts(ctx,
		&core.IngestionAttempt{SourceId: "channel-b", NativeId: 1, Outcome: core.OutcomeSkippedDuplicate},
	)
	require.NoError(t, err)

	// Newest first, bounded by limit, scoped to the source
	attempts, err := stores.Attempts.GetAttemptsBySource(ctx, "channel-a", 3)
	require.NoError(t, err)
	require.Len(t, attempts, 3)

	assert.Equal(t, int64(5), attempts[0].NativeId)
	assert.Equal(t, int64(3), attempts[2].NativeId)
	for _, attempt := range attempts {
		assert.Equal(t, "channel-a", attempt.SourceId)
	}

	all, err := stores.Attempts.GetAttemptsBySource(ctx, "channel-a", 100)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	none, err := stores.Attempts.GetAttemptsBySource(ctx, "channel-a", 0)
	require.NoError(t, err)
	assert.Nil(t, none)
}
