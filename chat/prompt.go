package chat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/poiesic/campusbuddy/rag"
)

// filterHits drops hits below the threshold and orders survivors by
// descending score. Equal scores keep their retrieval order.
func filterHits(hits []rag.SearchHit, threshold float32) []rag.SearchHit {
	kept := make([]rag.SearchHit, 0, len(hits))
	for _, hit := range hits {
		if hit.Score >= threshold {
			kept = append(kept, hit)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	return kept
}

// buildSystemPrompt assembles the persona and the retrieved context block.
// With no snippets the persona is used alone.
func buildSystemPrompt(persona string, snippets []rag.SearchHit) string {
	if len(snippets) == 0 {
		return persona
	}

	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\nContext:\n")
	for i, snippet := range snippets {
		fmt.Fprintf(&b, "[%d]", i+1)
		if snippet.Title != "" {
			fmt.Fprintf(&b, " %s:", snippet.Title)
		}
		b.WriteString(" ")
		b.WriteString(strings.TrimSpace(snippet.Content))
		if snippet.URL != "" {
			fmt.Fprintf(&b, " (%s)", snippet.URL)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
