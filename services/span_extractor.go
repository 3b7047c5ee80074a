package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"pdf-chat-platform/internal/logger"
	"pdf-chat-platform/models"
)

// CompletionClient is the synchronous chat-completion call the extractor
// needs from an LLM provider.
type CompletionClient interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

const spanExtractorSystemPrompt = `You locate the source passage that supports a statement.
You are given numbered document chunks and an answer snippet.
Pick the chunk that best supports the snippet and copy the exact supporting sentence or phrase from it, character for character. Never paraphrase.
Respond with only a JSON object of the form {"chunkIndex": <number>, "exactText": "<verbatim text>"}.
If no chunk supports the snippet, respond with {"chunkIndex": -1, "exactText": ""}.
Do not write anything outside the JSON object.`

// SpanExtractor asks a language model to copy the exact supporting span out
// of a candidate chunk, then validates the model's output against the real
// chunk content before trusting it.
type SpanExtractor struct {
	llm     CompletionClient
	timeout time.Duration
}

func NewSpanExtractor(llm CompletionClient, timeout time.Duration) *SpanExtractor {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &SpanExtractor{llm: llm, timeout: timeout}
}

// Extract returns a validated highlight, or nil. All failure modes — no
// client configured, empty snippet, network error, unparseable output, or a
// span that fails validation — degrade to nil so the caller can continue its
// fallback chain.
func (e *SpanExtractor) Extract(ctx context.Context, answerSnippet string, chunks []models.Chunk) *models.Highlight {
	if e == nil || e.llm == nil {
		return nil
	}
	if strings.TrimSpace(answerSnippet) == "" || len(chunks) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.llm.Complete(ctx, spanExtractorSystemPrompt, buildExtractionPrompt(answerSnippet, chunks))
	if err != nil {
		logger.Warn("span extraction call failed", "error", err)
		return nil
	}

	result, err := parseExtractionResult(raw)
	if err != nil {
		logger.Warn("span extraction output unparseable", "error", err, "output_preview", preview(raw, 120))
		return nil
	}

	// Validation gate: an in-range index and a verbatim (modulo
	// normalization) substring of the chosen chunk, otherwise the span is
	// treated as hallucinated and dropped.
	if result.ChunkIndex < 0 || result.ChunkIndex >= len(chunks) {
		return nil
	}
	chunk := chunks[result.ChunkIndex]
	exact := NormalizeText(result.ExactText)
	if exact == "" || !strings.Contains(NormalizeText(chunk.Content), exact) {
		logger.Warn("span extraction failed validation",
			"chunk_id", chunk.ID, "text_preview", preview(result.ExactText, 80))
		return nil
	}

	return &models.Highlight{Text: result.ExactText, ChunkID: chunk.ID}
}

type extractionResult struct {
	ChunkIndex int    `json:"chunkIndex"`
	ExactText  string `json:"exactText"`
}

func buildExtractionPrompt(answerSnippet string, chunks []models.Chunk) string {
	var prompt strings.Builder
	prompt.WriteString("Document chunks:\n\n")
	for i, chunk := range chunks {
		fmt.Fprintf(&prompt, "Chunk %d:\n%s\n\n", i, chunk.Content)
	}
	fmt.Fprintf(&prompt, "Answer snippet:\n%s\n", answerSnippet)
	return prompt.String()
}

// parseExtractionResult pulls the first {...} region out of the raw model
// output. Models wrap JSON in commentary or code fences often enough that
// plain unmarshalling is not an option.
func parseExtractionResult(raw string) (*extractionResult, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var result extractionResult
	if err := json.Unmarshal([]byte(raw[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("invalid extraction JSON: %w", err)
	}
	return &result, nil
}

func preview(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	// Back up to a rune boundary so the cut never splits a multi-byte rune.
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
