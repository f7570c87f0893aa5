package campusbuddy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aimock "github.com/poiesic/campusbuddy/ai/mock"
	"github.com/poiesic/campusbuddy/core"
	"github.com/poiesic/campusbuddy/harvest"
	ragmock "github.com/poiesic/campusbuddy/rag/mock"
)

func newTestAssistant(t *testing.T, opts ...AssistantOption) (*Assistant, *ragmock.MockClient, *aimock.MockGenerator) {
	t.Helper()

	retrieval := ragmock.NewMockClient()
	generator := aimock.NewMockGenerator()

	opts = append([]AssistantOption{
		WithRetrievalClient(retrieval),
		WithGenerator(generator),
	}, opts...)

	assistant, err := NewAssistant("", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { assistant.Close() })

	return assistant, retrieval, generator
}

func TestNewAssistant(t *testing.T) {
	assistant, _, _ := newTestAssistant(t)

	assert.NotNil(t, assistant.IngestionPipeline())
	assert.NotNil(t, assistant.SessionRepository())
	assert.NotNil(t, assistant.MessageRepository())
	assert.NotNil(t, assistant.AttemptRepository())
}

func TestAskCreatesSessionAndPersistsTurn(t *testing.T) {
	assistant, _, _ := newTestAssistant(t)
	ctx := context.Background()

	result, err := assistant.Ask(ctx, "student-7", "where is building 3?")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Text)

	session, err := assistant.SessionRepository().GetOrCreateActiveSession(ctx, "student-7")
	require.NoError(t, err)

	msgs, err := assistant.MessageRepository().GetRecentMessages(ctx, session.Id, 10)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestResetConversationStartsFreshHistory(t *testing.T) {
	assistant, _, _ := newTestAssistant(t)
	ctx := context.Background()

	_, err := assistant.Ask(ctx, "student-7", "first question")
	require.NoError(t, err)

	require.NoError(t, assistant.ResetConversation(ctx, "student-7"))

	session, err := assistant.SessionRepository().GetOrCreateActiveSession(ctx, "student-7")
	require.NoError(t, err)

	msgs, err := assistant.MessageRepository().GetRecentMessages(ctx, session.Id, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs, "new session starts with no history")
}

// staticFetcher serves a fixed message list for scheduler wiring tests.
type staticFetcher struct {
	messages []harvest.RawMessage
}

func (f *staticFetcher) FetchSince(ctx context.Context, sourceId string, afterId int64, limit int) ([]harvest.RawMessage, error) {
	var page []harvest.RawMessage
	for _, m := range f.messages {
		if m.Id > afterId {
			page = append(page, m)
		}
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

func TestMonitorHarvestsAndIngests(t *testing.T) {
	assistant, retrieval, _ := newTestAssistant(t, WithHarvestInterval(10*time.Millisecond))
	ctx := context.Background()

	fetcher := &staticFetcher{messages: []harvest.RawMessage{{
		Id:     1,
		Text:   "Winter exam schedule has been published on the student portal today.",
		SentAt: time.Now().UTC(),
	}}}

	require.NoError(t, assistant.Monitor("campus_news", fetcher))
	require.NoError(t, assistant.StartScheduler())

	require.Eventually(t, func() bool {
		return retrieval.IngestCount() >= 1
	}, 3*time.Second, 10*time.Millisecond)

	// Harvest repeats but dedup keeps the knowledge base clean.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, retrieval.IngestCount())

	attempts, err := assistant.AttemptRepository().GetAttemptsBySource(ctx, "campus_news", 100)
	require.NoError(t, err)
	require.NotEmpty(t, attempts)
	assert.Equal(t, core.OutcomeIngested, attempts[len(attempts)-1].Outcome)
}

func TestRequestReprocess(t *testing.T) {
	assistant, retrieval, _ := newTestAssistant(t)

	done := make(chan string, 1)
	retrieval.ReprocessFunc = func(ctx context.Context, documentId string) error {
		done <- documentId
		return nil
	}

	require.NoError(t, assistant.StartScheduler())
	require.NoError(t, assistant.RequestReprocess("doc-3"))

	select {
	case id := <-done:
		assert.Equal(t, "doc-3", id)
	case <-time.After(2 * time.Second):
		t.Fatal("reprocess request never ran")
	}
}
