package mock

import (
	"context"
	"fmt"

	"github.com/poiesic/campusbuddy/core"
	"github.com/poiesic/campusbuddy/rag"
)

// MockClient is a test double for rag.Client.
// It allows custom behavior injection via function fields.
type MockClient struct {
	// SearchFunc is called by Search if set.
	// If nil, returns no hits.
	SearchFunc func(ctx context.Context, query string, topK int) ([]rag.SearchHit, error)

	// IngestTextFunc is called by IngestText if set.
	IngestTextFunc func(ctx context.Context, title, content string, desc core.SourceDescriptor) (string, error)

	// IngestFromURLFunc is called by IngestFromURL if set.
	IngestFromURLFunc func(ctx context.Context, url string, desc core.SourceDescriptor) (string, error)

	// IngestChannelMessageFunc is called by IngestChannelMessage if set.
	// If nil, returns a deterministic document ID derived from the item.
	IngestChannelMessageFunc func(ctx context.Context, item *core.HarvestedItem) (string, error)

	// ReprocessFunc is called by Reprocess if set.
	ReprocessFunc func(ctx context.Context, documentId string) error

	// DeleteFunc is called by Delete if set.
	DeleteFunc func(ctx context.Context, documentId string) error

	searchCount int
	ingestCount int
}

// NewMockClient creates a mock retrieval client with default behavior.
// Note: Returns concrete type to allow test assertions via function
// fields and call counts.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Search returns canned hits, or none by default.
func (m *MockClient) Search(ctx context.Context, query string, topK int) ([]rag.SearchHit, error) {
	m.searchCount++

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, topK)
	}
	return nil, nil
}

// IngestText records the call and returns a deterministic document ID.
func (m *MockClient) IngestText(ctx context.Context, title, content string, desc core.SourceDescriptor) (string, error) {
	m.ingestCount++

	if m.IngestTextFunc != nil {
		return m.IngestTextFunc(ctx, title, content, desc)
	}
	return fmt.Sprintf("doc-text-%d", m.ingestCount), nil
}

// IngestFromURL records the call and returns a deterministic document ID.
func (m *MockClient) IngestFromURL(ctx context.Context, url string, desc core.SourceDescriptor) (string, error) {
	m.ingestCount++

	if m.IngestFromURLFunc != nil {
		return m.IngestFromURLFunc(ctx, url, desc)
	}
	return fmt.Sprintf("doc-url-%d", m.ingestCount), nil
}

// IngestChannelMessage records the call and returns a document ID derived
// from the item's identity.
func (m *MockClient) IngestChannelMessage(ctx context.Context, item *core.HarvestedItem) (string, error) {
	m.ingestCount++

	if m.IngestChannelMessageFunc != nil {
		return m.IngestChannelMessageFunc(ctx, item)
	}
	return fmt.Sprintf("doc-%s-%d", item.SourceId, item.NativeId), nil
}

// Reprocess invokes the injected behavior or succeeds.
func (m *MockClient) Reprocess(ctx context.Context, documentId string) error {
	if m.ReprocessFunc != nil {
		return m.ReprocessFunc(ctx, documentId)
	}
	return nil
}

// Delete invokes the injected behavior or succeeds.
func (m *MockClient) Delete(ctx context.Context, documentId string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, documentId)
	}
	return nil
}

// Close is a no-op for the mock client.
func (m *MockClient) Close() error {
	return nil
}

// SearchCount returns the number of Search calls.
func (m *MockClient) SearchCount() int {
	return m.searchCount
}

// IngestCount returns the number of ingestion calls of any kind.
func (m *MockClient) IngestCount() int {
	return m.ingestCount
}

// Reset clears call counts and injected behavior.
func (m *MockClient) Reset() {
	m.searchCount = 0
	m.ingestCount = 0
	m.SearchFunc = nil
	m.IngestTextFunc = nil
	m.IngestFromURLFunc = nil
	m.IngestChannelMessageFunc = nil
	m.ReprocessFunc = nil
	m.DeleteFunc = nil
}
