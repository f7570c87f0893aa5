package rag

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/campusbuddy/core"
)

func TestSearchDecodesHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/knowledge/search/", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "library hours", req.Query)
		assert.Equal(t, 5, req.TopK)

		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"text": "Open 8am to midnight", "title": "Library", "score": 0.91},
				{"content": "Weekend hours differ", "score": 0.4},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(NewConfig(
		WithBaseURL(server.URL),
		WithAPIKey("test-key"),
	))
	require.NoError(t, err)
	defer client.Close()

	hits, err := client.Search(context.Background(), "library hours", 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Open 8am to midnight", hits[0].Content)
	assert.Equal(t, "Library", hits[0].Title)
	assert.InDelta(t, 0.91, hits[0].Score, 0.001)
	assert.Equal(t, "Weekend hours differ", hits[1].Content)
}

func TestIngestChannelMessagePayload(t *testing.T) {
	var got ingestRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/knowledge/documents/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"id": "doc-42"})
	}))
	defer server.Close()

	client, err := NewClient(NewConfig(WithBaseURL(server.URL)))
	require.NoError(t, err)
	defer client.Close()

	item := &core.HarvestedItem{
		SourceId:    "campus_news",
		NativeId:    17,
		Title:       "Exam schedule posted",
		Contents:    "The winter exam schedule is now available.",
		SourceURL:   "https://example.org/campus_news/17",
		PublishedAt: time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC),
	}

	docId, err := client.IngestChannelMessage(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, "doc-42", docId)

	assert.Equal(t, "Exam schedule posted", got.Title)
	assert.Equal(t, "The winter exam schedule is now available.", got.Content)
	assert.Equal(t, "channel_message", got.Metadata["source"])
	assert.Equal(t, "campus_news", got.Metadata["channel"])
	assert.Equal(t, "17", got.Metadata["message_id"])
	assert.Equal(t, "channel:campus_news:17", got.Metadata["external_id"])
	assert.Equal(t, "2025-11-03T10:00:00Z", got.PublishedAt)
}

func TestIngestAcceptsDocumentIdKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"document_id": "doc-7"})
	}))
	defer server.Close()

	client, err := NewClient(NewConfig(WithBaseURL(server.URL)))
	require.NoError(t, err)
	defer client.Close()

	docId, err := client.IngestText(context.Background(), "t", "c", core.SourceDescriptor{Kind: core.SourceManual})
	require.NoError(t, err)
	assert.Equal(t, "doc-7", docId)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"client error is rejected", http.StatusUnprocessableEntity, ErrRejected},
		{"server error is unavailable", http.StatusBadGateway, ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client, err := NewClient(NewConfig(WithBaseURL(server.URL)))
			require.NoError(t, err)
			defer client.Close()

			_, err = client.Search(context.Background(), "anything", 3)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client, err := NewClient(NewConfig(WithBaseURL(server.URL)))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Search(context.Background(), "anything", 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestReprocessHitsDocumentEndpoint(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client, err := NewClient(NewConfig(WithBaseURL(server.URL)))
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Reprocess(context.Background(), "doc-9"))
	assert.Equal(t, "/knowledge/documents/doc-9/reprocess/", path)
}
