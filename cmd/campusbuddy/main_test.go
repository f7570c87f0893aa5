package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
			set := flag.NewFlagSet("test", 0)
			set.String("log-level", level, "")
			ctx := cli.NewContext(nil, set, nil)
			assert.NoError(t, setupLogger(ctx), level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		set := flag.NewFlagSet("test", 0)
		set.String("log-level", "verbose", "")
		ctx := cli.NewContext(nil, set, nil)
		err := setupLogger(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestFileFetcher(t *testing.T) {
	dump := []dumpMessage{
		{Id: 3, Text: "third", SentAt: time.Now().UTC()},
		{Id: 1, Text: "first", SentAt: time.Now().UTC()},
		{Id: 2, Text: "second", SentAt: time.Now().UTC()},
	}
	raw, err := json.Marshal(dump)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, os.WriteFile(path, raw, 0644))

	fetcher, err := newFileFetcher(path)
	require.NoError(t, err)

	page, err := fetcher.FetchSince(context.Background(), "campus_news", 1, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.EqualValues(t, 2, page[0].Id, "dump is served in id order")
	assert.EqualValues(t, 3, page[1].Id)
}

func TestFileFetcherRejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := newFileFetcher(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}
