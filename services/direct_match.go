package services

import (
	"regexp"
	"strings"

	"pdf-chat-platform/models"
)

// FindDirectMatch tries a literal substring match of the answer snippet
// against each candidate chunk, in the order supplied by the caller.
// Comparison happens in normalized space; the returned span is recovered from
// the raw chunk content so it keeps the document's original casing and
// whitespace. Returns nil when no chunk contains the snippet, which is the
// usual outcome when the answer paraphrases instead of quoting.
func FindDirectMatch(chunks []models.Chunk, snippet string) *models.Highlight {
	needle := NormalizeText(snippet)
	if needle == "" {
		return nil
	}

	for _, chunk := range chunks {
		if !strings.Contains(NormalizeText(chunk.Content), needle) {
			continue
		}
		if span := recoverOriginalSpan(chunk.Content, snippet); span != "" {
			return &models.Highlight{Text: span, ChunkID: chunk.ID}
		}
		// The normalized test passed but the regex missed, which happens
		// when the snippet and the chunk differ in dash variants or NBSP.
		// Returning the trimmed snippet still gives the viewer something
		// to highlight.
		return &models.Highlight{Text: strings.TrimSpace(snippet), ChunkID: chunk.ID}
	}
	return nil
}

// recoverOriginalSpan searches the raw content with a whitespace-tolerant
// pattern built from the escaped snippet, so a single-spaced snippet still
// finds a span that the extractor broke across lines.
func recoverOriginalSpan(content, snippet string) string {
	pattern := regexp.QuoteMeta(strings.TrimSpace(snippet))
	pattern = whitespaceRuns.ReplaceAllString(pattern, `[\s\x{00A0}]+`)
	re, err := regexp.Compile(`(?i)` + pattern)
	if err != nil {
		return ""
	}
	return re.FindString(content)
}
