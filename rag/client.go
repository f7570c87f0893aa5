package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/poiesic/campusbuddy/core"
)

// httpClient implements Client over the retrieval service's HTTP API.
type httpClient struct {
	config *Config
	http   *http.Client
	logger *slog.Logger
}

var _ Client = (*httpClient)(nil)

// NewClient creates a retrieval service client from the provided
// configuration.
//
// Returns the Client interface (not the concrete type) to enforce
// abstraction.
func NewClient(config *Config) (Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &httpClient{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		logger: slog.Default().With("component", "rag-client"),
	}, nil
}

// searchRequest is the wire payload for search calls.
type searchRequest struct {
	Query          string  `json:"query"`
	TopK           int     `json:"top_k"`
	ScoreThreshold float32 `json:"score_threshold"`
	UserId         string  `json:"user_id,omitempty"`
	Microservice   string  `json:"microservice,omitempty"`
}

// searchResult mirrors the service's result item. The service has used both
// "text" and "content" for chunk text across versions; we accept either.
type searchResult struct {
	Text     string            `json:"text"`
	Chunk    string            `json:"chunk"`
	Content  string            `json:"content"`
	Title    string            `json:"title"`
	URL      string            `json:"url"`
	Score    float32           `json:"score"`
	Source   string            `json:"source_id"`
	Metadata map[string]string `json:"metadata"`
}

// searchResponse accepts both "results" and "data" envelope keys.
type searchResponse struct {
	Results []searchResult `json:"results"`
	Data    []searchResult `json:"data"`
}

// ingestRequest is the wire payload for document ingestion.
type ingestRequest struct {
	Title        string            `json:"title,omitempty"`
	Content      string            `json:"content,omitempty"`
	URL          string            `json:"url,omitempty"`
	PublishedAt  string            `json:"published_at,omitempty"`
	SourceURL    string            `json:"source_url,omitempty"`
	UserId       string            `json:"user_id,omitempty"`
	Microservice string            `json:"microservice,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// ingestResponse accepts both "id" and "document_id" forms.
type ingestResponse struct {
	Id         string `json:"id"`
	DocumentId string `json:"document_id"`
}

// Search returns up to topK hits relevant to the query.
func (c *httpClient) Search(ctx context.Context, query string, topK int) ([]SearchHit, error) {
	payload := searchRequest{
		Query:          query,
		TopK:           topK,
		ScoreThreshold: c.config.ScoreThreshold,
		UserId:         c.config.UserId,
		Microservice:   c.config.Microservice,
	}

	var resp searchResponse
	if err := c.post(ctx, "/knowledge/search/", payload, &resp); err != nil {
		return nil, err
	}

	items := resp.Results
	if len(items) == 0 {
		items = resp.Data
	}

	hits := make([]SearchHit, 0, len(items))
	for _, item := range items {
		text := item.Text
		if text == "" {
			text = item.Chunk
		}
		if text == "" {
			text = item.Content
		}
		if text == "" {
			continue
		}

		title := item.Title
		if title == "" {
			title = item.Metadata["title"]
		}
		url := item.URL
		if url == "" {
			url = item.Metadata["source_url"]
		}

		hits = append(hits, SearchHit{
			Content:  text,
			Title:    title,
			URL:      url,
			SourceId: item.Source,
			Score:    item.Score,
		})
	}

	c.logger.Debug("search completed", "query_len", len(query), "hits", len(hits))
	return hits, nil
}

// IngestText submits a text document.
func (c *httpClient) IngestText(ctx context.Context, title, content string, desc core.SourceDescriptor) (string, error) {
	payload := ingestRequest{
		Title:        title,
		Content:      content,
		UserId:       c.config.UserId,
		Microservice: c.config.Microservice,
		Metadata:     descriptorMetadata(desc),
	}

	var resp ingestResponse
	if err := c.post(ctx, "/knowledge/documents/", payload, &resp); err != nil {
		return "", err
	}
	return documentId(resp)
}

// IngestFromURL has the service fetch and ingest a document from a URL.
func (c *httpClient) IngestFromURL(ctx context.Context, url string, desc core.SourceDescriptor) (string, error) {
	payload := ingestRequest{
		URL:          url,
		UserId:       c.config.UserId,
		Microservice: c.config.Microservice,
		Metadata:     descriptorMetadata(desc),
	}

	var resp ingestResponse
	if err := c.post(ctx, "/knowledge/documents/ingest-url/", payload, &resp); err != nil {
		return "", err
	}
	return documentId(resp)
}

// IngestChannelMessage submits one harvested channel message.
func (c *httpClient) IngestChannelMessage(ctx context.Context, item *core.HarvestedItem) (string, error) {
	desc := core.SourceDescriptor{
		Kind:            core.SourceChannel,
		Channel:         item.SourceId,
		NativeMessageId: item.NativeId,
		URL:             item.SourceURL,
		ExternalId:      fmt.Sprintf("channel:%s:%d", item.SourceId, item.NativeId),
	}

	payload := ingestRequest{
		Title:        item.Title,
		Content:      item.Contents,
		SourceURL:    item.SourceURL,
		UserId:       c.config.UserId,
		Microservice: c.config.Microservice,
		Metadata:     descriptorMetadata(desc),
	}
	if !item.PublishedAt.IsZero() {
		payload.PublishedAt = item.PublishedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}

	var resp ingestResponse
	if err := c.post(ctx, "/knowledge/documents/", payload, &resp); err != nil {
		return "", err
	}
	return documentId(resp)
}

// Reprocess re-indexes an existing document.
func (c *httpClient) Reprocess(ctx context.Context, documentId string) error {
	return c.post(ctx, "/knowledge/documents/"+documentId+"/reprocess/", nil, nil)
}

// Delete removes a document from the knowledge store.
func (c *httpClient) Delete(ctx context.Context, documentId string) error {
	return c.do(ctx, http.MethodDelete, "/knowledge/documents/"+documentId+"/", nil, nil)
}

// Close releases the underlying HTTP resources.
func (c *httpClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// post issues a POST request with an optional JSON body.
func (c *httpClient) post(ctx context.Context, path string, payload any, out any) error {
	return c.do(ctx, http.MethodPost, path, payload, out)
}

// do issues one bounded HTTP call and decodes the JSON response into out
// when out is non-nil.
func (c *httpClient) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("retrieval call failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %w", ErrUnavailable, err)
	}
	return nil
}

// documentId extracts the assigned document ID from an ingest response.
func documentId(resp ingestResponse) (string, error) {
	if resp.Id != "" {
		return resp.Id, nil
	}
	if resp.DocumentId != "" {
		return resp.DocumentId, nil
	}
	return "", ErrNoDocumentId
}

// descriptorMetadata flattens a source descriptor into the metadata map the
// retrieval service stores alongside the document.
func descriptorMetadata(desc core.SourceDescriptor) map[string]string {
	metadata := make(map[string]string)
	switch desc.Kind {
	case core.SourceManual:
		metadata["source"] = "manual_upload"
	case core.SourceURL:
		metadata["source"] = "url"
	case core.SourceChannel:
		metadata["source"] = "channel_message"
	}
	if desc.Channel != "" {
		metadata["channel"] = desc.Channel
	}
	if desc.NativeMessageId != 0 {
		metadata["message_id"] = strconv.FormatInt(desc.NativeMessageId, 10)
	}
	if desc.URL != "" {
		metadata["source_url"] = desc.URL
	}
	if desc.ExternalId != "" {
		metadata["external_id"] = desc.ExternalId
	}
	return metadata
}
