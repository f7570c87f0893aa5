package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/urfave/cli/v2"

	campusbuddy "github.com/poiesic/campusbuddy"
	"github.com/poiesic/campusbuddy/harvest"
)

// dumpMessage is one channel message in a JSON dump file.
type dumpMessage struct {
	Id      int64     `json:"id"`
	Text    string    `json:"text"`
	SentAt  time.Time `json:"sent_at"`
	IsReply bool      `json:"is_reply"`
	Link    string    `json:"link"`
}

// fileFetcher serves a message dump as a harvest source. Useful for
// backfills and for ingesting channel exports without a live connection.
type fileFetcher struct {
	messages []dumpMessage
}

func newFileFetcher(path string) (*fileFetcher, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var messages []dumpMessage
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Id < messages[j].Id
	})
	return &fileFetcher{messages: messages}, nil
}

func (f *fileFetcher) FetchSince(ctx context.Context, sourceId string, afterId int64, limit int) ([]harvest.RawMessage, error) {
	var page []harvest.RawMessage
	for _, m := range f.messages {
		if m.Id <= afterId {
			continue
		}
		page = append(page, harvest.RawMessage{
			Id:      m.Id,
			Text:    m.Text,
			SentAt:  m.SentAt,
			IsReply: m.IsReply,
			Link:    m.Link,
		})
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

func harvestCommand(c *cli.Context) error {
	fetcher, err := newFileFetcher(c.String("input"))
	if err != nil {
		return err
	}

	assistant, err := buildAssistant(c,
		campusbuddy.WithDedupByContent(c.Bool("dedup-by-content")),
	)
	if err != nil {
		return fmt.Errorf("failed to build assistant: %w", err)
	}
	defer assistant.Close()

	report, err := assistant.HarvestOnce(context.Background(), c.String("source"), fetcher)
	if err != nil {
		return err
	}
	if report == nil {
		fmt.Fprintln(os.Stderr, "Nothing new to harvest")
		return nil
	}

	fmt.Fprintf(os.Stderr, "Source %s: %d ingested, %d skipped, %d failed, cursor at %d\n",
		report.SourceId, report.Ingested, report.Skipped, report.Failed, report.CursorPosition)
	return nil
}
