package harvest

import (
	"regexp"
	"strings"
)

const titleLimit = 100

var (
	handleLine    = regexp.MustCompile(`^[^\w@]*@[\w\d_]+$`)
	labelledLine  = regexp.MustCompile(`^.{0,10}@[\w\d_]+$`)
	boldMarkup    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicMarkup  = regexp.MustCompile(`__(.*?)__`)
	codeMarkup    = regexp.MustCompile("`([^`]+)`")
	excessNewline = regexp.MustCompile(`\n{3,}`)
	urlPattern    = regexp.MustCompile(`https?://[^\s]+`)
)

// CleanText prepares a raw channel message for ingestion.
//
// Channel signature lines (a bare @handle, or a short label plus a handle)
// are dropped, basic markdown markers are stripped while keeping their
// content, and runs of blank lines are collapsed.
func CleanText(raw string) string {
	if raw == "" {
		return ""
	}

	lines := make([]string, 0, strings.Count(raw, "\n")+1)
	for _, line := range strings.Split(raw, "\n") {
		stripped := strings.TrimSpace(line)
		if handleLine.MatchString(stripped) || labelledLine.MatchString(stripped) {
			continue
		}
		lines = append(lines, strings.TrimRight(line, " \t"))
	}
	text := strings.Join(lines, "\n")

	text = boldMarkup.ReplaceAllString(text, "$1")
	text = italicMarkup.ReplaceAllString(text, "$1")
	text = codeMarkup.ReplaceAllString(text, "$1")
	text = excessNewline.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// MakeTitle derives a document title from cleaned text: the first line,
// truncated at the title limit.
func MakeTitle(cleaned string) string {
	title := cleaned
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = title[:idx]
	}
	runes := []rune(title)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit]) + "..."
	}
	return title
}

// ExtractURLs pulls http/https links out of a raw message, before cleaning.
// Links into the source platform itself are skipped; trailing punctuation
// the pattern tends to swallow is trimmed.
func ExtractURLs(raw string) []string {
	matches := urlPattern.FindAllString(raw, -1)
	urls := make([]string, 0, len(matches))
	for _, url := range matches {
		url = strings.TrimRight(url, `.,;:!?"')>]|`)
		if strings.Contains(url, "t.me/") || strings.Contains(url, "telegram.me/") {
			continue
		}
		urls = append(urls, url)
	}
	return urls
}
