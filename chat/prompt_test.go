package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/campusbuddy/rag"
)

func TestBuildSystemPromptWithoutSnippets(t *testing.T) {
	prompt := buildSystemPrompt("persona", nil)
	assert.Equal(t, "persona", prompt)
}

func TestBuildSystemPromptNumbersSnippets(t *testing.T) {
	prompt := buildSystemPrompt("persona", []rag.SearchHit{
		{Content: "alpha", Title: "Handbook", URL: "https://example.org/h"},
		{Content: "beta"},
	})

	assert.Contains(t, prompt, "persona")
	assert.Contains(t, prompt, "[1] Handbook: alpha (https://example.org/h)")
	assert.Contains(t, prompt, "[2] beta")
}

func TestFilterHitsThresholdAndOrder(t *testing.T) {
	hits := filterHits([]rag.SearchHit{
		{Content: "low", Score: 0.1},
		{Content: "mid", Score: 0.5},
		{Content: "high", Score: 0.9},
		{Content: "exact", Score: 0.25},
	}, 0.25)

	assert.Len(t, hits, 3)
	assert.Equal(t, "high", hits[0].Content)
	assert.Equal(t, "mid", hits[1].Content)
	assert.Equal(t, "exact", hits[2].Content, "threshold is inclusive")
}
