package ingestion_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/campusbuddy/core"
	"github.com/poiesic/campusbuddy/ingestion"
	ragmock "github.com/poiesic/campusbuddy/rag/mock"
	"github.com/poiesic/campusbuddy/storage/badger"
)

type fixture struct {
	stores    *badger.MemoryStores
	retrieval *ragmock.MockClient
	dedup     *ingestion.Deduplicator
	pipeline  *ingestion.Pipeline
}

func newFixture(t *testing.T, byContent bool) *fixture {
	t.Helper()

	stores, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })

	retrieval := ragmock.NewMockClient()

	dedup, err := ingestion.NewDeduplicator(stores.Dedup, byContent)
	require.NoError(t, err)

	pipeline, err := ingestion.NewPipeline(dedup, retrieval, stores.Cursors, stores.Attempts)
	require.NoError(t, err)

	return &fixture{stores: stores, retrieval: retrieval, dedup: dedup, pipeline: pipeline}
}

func item(sourceId string, nativeId int64, text string) *core.HarvestedItem {
	return &core.HarvestedItem{
		SourceId:    sourceId,
		NativeId:    nativeId,
		Title:       "post",
		Contents:    text,
		PublishedAt: time.Now().UTC(),
	}
}

func TestIngestBatchHappyPath(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	report, err := f.pipeline.IngestBatch(ctx, "campus_news", []*core.HarvestedItem{
		item("campus_news", 1, "Exam schedule posted for winter term."),
		item("campus_news", 2, "Cafeteria switches to summer hours."),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Ingested)
	assert.Equal(t, 0, report.Failed)
	assert.True(t, report.CursorAdvanced)
	assert.EqualValues(t, 2, report.CursorPosition)

	cursor, err := f.stores.Cursors.LoadCursor(ctx, "campus_news")
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.EqualValues(t, 2, cursor.Position)

	attempts, err := f.stores.Attempts.GetAttemptsBySource(ctx, "campus_news", 10)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	for _, attempt := range attempts {
		assert.Equal(t, core.OutcomeIngested, attempt.Outcome)
		assert.NotEmpty(t, attempt.DocumentId)
	}
}

func TestIngestBatchSecondRunSkipsDuplicates(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	items := []*core.HarvestedItem{item("campus_news", 1, "Exam schedule posted.")}

	first, err := f.pipeline.IngestBatch(ctx, "campus_news", items)
	require.NoError(t, err)
	require.Equal(t, 1, first.Ingested)
	docId := first.Results[0].DocumentId

	second, err := f.pipeline.IngestBatch(ctx, "campus_news", items)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Ingested)
	assert.Equal(t, 1, second.Skipped)
	assert.False(t, second.CursorAdvanced)
	assert.Equal(t, docId, second.Results[0].DocumentId, "skip reports the winner's document id")
	assert.Equal(t, 1, f.retrieval.IngestCount(), "duplicate never reaches the retrieval service")
}

func TestIngestBatchFailureStallsCursor(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	f.retrieval.IngestChannelMessageFunc = func(ctx context.Context, it *core.HarvestedItem) (string, error) {
		if it.NativeId == 2 {
			return "", errors.New("service unavailable")
		}
		return "doc-" + it.Title, nil
	}

	items := []*core.HarvestedItem{
		item("campus_news", 1, "item A"),
		item("campus_news", 2, "item B"),
		item("campus_news", 3, "item C"),
	}

	report, err := f.pipeline.IngestBatch(ctx, "campus_news", items)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Ingested, "items after the failure are still attempted")
	assert.Equal(t, 1, report.Failed)
	assert.EqualValues(t, 1, report.CursorPosition, "cursor freezes before the failed item")

	// The failed item's claim was released, so the next run retries it and
	// the cursor catches up.
	f.retrieval.IngestChannelMessageFunc = nil
	retry, err := f.pipeline.IngestBatch(ctx, "campus_news", items)
	require.NoError(t, err)
	assert.Equal(t, 1, retry.Ingested)
	assert.Equal(t, 2, retry.Skipped)
	assert.EqualValues(t, 3, retry.CursorPosition)

	attempts, err := f.stores.Attempts.GetAttemptsBySource(ctx, "campus_news", 10)
	require.NoError(t, err)
	assert.Len(t, attempts, 6)
}

func TestIngestBatchInvalidItemFails(t *testing.T) {
	f := newFixture(t, false)

	report, err := f.pipeline.IngestBatch(context.Background(), "campus_news", []*core.HarvestedItem{
		item("campus_news", 1, ""),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.False(t, report.CursorAdvanced)
}

func TestCheckAndClaimBlocksWhileIngestInFlight(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	fingerprint := core.FingerprintFromIdentity("campus_news", 11)

	isNew, _, err := f.dedup.CheckAndClaim(ctx, fingerprint)
	require.NoError(t, err)
	require.True(t, isNew)

	// The claim is held but not yet confirmed; a second attempt for the
	// same item must not ingest again.
	isNew, docId, err := f.dedup.CheckAndClaim(ctx, fingerprint)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Empty(t, docId)

	// Releasing the claim reopens the fingerprint
	require.NoError(t, f.dedup.Release(ctx, fingerprint))
	isNew, _, err = f.dedup.CheckAndClaim(ctx, fingerprint)
	require.NoError(t, err)
	assert.True(t, isNew)
}

func TestConcurrentClaimsExactlyOneWinner(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	fingerprint := core.FingerprintFromIdentity("campus_news", 42)

	const claimants = 8
	winners := make(chan bool, claimants)
	var wg sync.WaitGroup
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			isNew, _, err := f.dedup.CheckAndClaim(ctx, fingerprint)
			assert.NoError(t, err)
			winners <- isNew
		}()
	}
	wg.Wait()
	close(winners)

	won := 0
	for isNew := range winners {
		if isNew {
			won++
		}
	}
	assert.Equal(t, 1, won, "exactly one concurrent claimant wins")

	require.NoError(t, f.dedup.Confirm(ctx, fingerprint, "doc-42"))

	isNew, docId, err := f.dedup.CheckAndClaim(ctx, fingerprint)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, "doc-42", docId, "loser observes the winner's document id")
}

func TestContentDedupAcrossRoutes(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	text := "The library is open until midnight during exam weeks."

	docId, created, err := f.pipeline.IngestDocument(ctx, "Library hours", text)
	require.NoError(t, err)
	require.True(t, created)

	// Same text arrives later as a harvested channel message. Extra
	// whitespace must not defeat the content fingerprint.
	report, err := f.pipeline.IngestBatch(ctx, "campus_news", []*core.HarvestedItem{
		item("campus_news", 7, "The library is open   until midnight\nduring exam weeks."),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, docId, report.Results[0].DocumentId)
}

func TestIngestDocumentDedup(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	first, created, err := f.pipeline.IngestDocument(ctx, "FAQ", "How do I enroll?")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := f.pipeline.IngestDocument(ctx, "FAQ copy", "How do I enroll?")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first, second)
}

func TestReprocessIsIdempotent(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	calls := 0
	f.retrieval.ReprocessFunc = func(ctx context.Context, documentId string) error {
		calls++
		assert.Equal(t, "doc-1", documentId)
		return nil
	}

	require.NoError(t, f.pipeline.Reprocess(ctx, "doc-1"))
	require.NoError(t, f.pipeline.Reprocess(ctx, "doc-1"))
	assert.Equal(t, 2, calls)
}

func TestIngestFailureReleasesClaim(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	f.retrieval.IngestTextFunc = func(ctx context.Context, title, content string, desc core.SourceDescriptor) (string, error) {
		return "", errors.New("boom")
	}

	_, _, err := f.pipeline.IngestDocument(ctx, "t", "some content")
	require.ErrorIs(t, err, ingestion.ErrIngestFailed)

	// Claim must be gone so a retry can succeed.
	f.retrieval.IngestTextFunc = nil
	docId, created, err := f.pipeline.IngestDocument(ctx, "t", "some content")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, docId)
}
