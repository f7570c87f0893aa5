package rag

import (
	"context"

	"github.com/poiesic/campusbuddy/core"
)

// SearchHit is one retrieval result from the knowledge service.
type SearchHit struct {
	// Content is the matched document chunk text.
	Content string

	// Title is the document title, when the service provides one.
	Title string

	// URL is the document's source link, empty for internal documents.
	URL string

	// SourceId identifies the knowledge document the chunk belongs to.
	SourceId string

	// Score is the service-assigned relevance score.
	Score float32
}

// Client is the typed contract to the external retrieval/indexing service.
// Implementations must be thread-safe for concurrent use; every call is
// bounded by the configured timeout.
type Client interface {
	// Search returns up to topK hits relevant to the query, in the order the
	// service ranked them.
	Search(ctx context.Context, query string, topK int) ([]SearchHit, error)

	// IngestText submits a text document and returns the knowledge document
	// ID assigned by the service.
	IngestText(ctx context.Context, title, content string, desc core.SourceDescriptor) (string, error)

	// IngestFromURL has the service fetch and ingest a document from a URL.
	IngestFromURL(ctx context.Context, url string, desc core.SourceDescriptor) (string, error)

	// IngestChannelMessage submits one harvested channel message.
	IngestChannelMessage(ctx context.Context, item *core.HarvestedItem) (string, error)

	// Reprocess re-indexes an existing document. Idempotent: repeated calls
	// with unchanged content produce the same indexed result and are safe to
	// retry blindly.
	Reprocess(ctx context.Context, documentId string) error

	// Delete removes a document from the knowledge store.
	Delete(ctx context.Context, documentId string) error

	// Close releases the underlying HTTP resources.
	Close() error
}
