package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"pdf-chat-platform/models"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
	prompt   string
}

func (f *fakeLLM) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.response, f.err
}

var extractorChunks = []models.Chunk{
	{ID: 41, Content: "The sandwich method reduces price resistance by emphasizing benefits twice."},
	{ID: 42, Content: "Closing questions should always offer two positive alternatives."},
}

func TestExtractValidSpan(t *testing.T) {
	llm := &fakeLLM{response: `{"chunkIndex": 1, "exactText": "offer two positive alternatives"}`}
	extractor := NewSpanExtractor(llm, time.Second)

	got := extractor.Extract(context.Background(), "you should give the customer two options", extractorChunks)
	if got == nil {
		t.Fatal("expected a highlight, got nil")
	}
	if got.ChunkID != 42 {
		t.Errorf("ChunkID = %d, want 42", got.ChunkID)
	}
	if got.Text != "offer two positive alternatives" {
		t.Errorf("Text = %q", got.Text)
	}
}

func TestExtractToleratesCodeFences(t *testing.T) {
	llm := &fakeLLM{response: "Sure, here is the result:\n```json\n{\"chunkIndex\": 0, \"exactText\": \"reduces price resistance\"}\n```"}
	extractor := NewSpanExtractor(llm, time.Second)

	got := extractor.Extract(context.Background(), "it lowers pushback on pricing", extractorChunks)
	if got == nil {
		t.Fatal("expected a highlight despite wrapped JSON, got nil")
	}
	if got.ChunkID != 41 {
		t.Errorf("ChunkID = %d, want 41", got.ChunkID)
	}
}

func TestExtractRejectsHallucinatedSpan(t *testing.T) {
	// The model invents plausible text that is not in the chunk; the
	// validation gate must drop it.
	llm := &fakeLLM{response: `{"chunkIndex": 0, "exactText": "a sentence that does not appear in the chunk"}`}
	extractor := NewSpanExtractor(llm, time.Second)

	if got := extractor.Extract(context.Background(), "some claim", extractorChunks); got != nil {
		t.Fatalf("hallucinated span surfaced: %+v", got)
	}
}

func TestExtractValidatesWithNormalization(t *testing.T) {
	// Whitespace and casing differences between the model's copy and the
	// stored chunk must not fail validation.
	llm := &fakeLLM{response: `{"chunkIndex": 0, "exactText": "The  Sandwich   method REDUCES price resistance"}`}
	extractor := NewSpanExtractor(llm, time.Second)

	if got := extractor.Extract(context.Background(), "snippet", extractorChunks); got == nil {
		t.Fatal("normalized-equivalent span rejected")
	}
}

func TestExtractNothingRelevant(t *testing.T) {
	llm := &fakeLLM{response: `{"chunkIndex": -1, "exactText": ""}`}
	extractor := NewSpanExtractor(llm, time.Second)

	if got := extractor.Extract(context.Background(), "snippet", extractorChunks); got != nil {
		t.Fatalf("expected nil for chunkIndex -1, got %+v", got)
	}
}

func TestExtractOutOfRangeIndex(t *testing.T) {
	llm := &fakeLLM{response: `{"chunkIndex": 7, "exactText": "reduces price resistance"}`}
	extractor := NewSpanExtractor(llm, time.Second)

	if got := extractor.Extract(context.Background(), "snippet", extractorChunks); got != nil {
		t.Fatalf("expected nil for out-of-range index, got %+v", got)
	}
}

func TestExtractUnparseableOutput(t *testing.T) {
	for _, response := range []string{"", "no json here", "{broken", `{"chunkIndex": "zero"}`} {
		llm := &fakeLLM{response: response}
		extractor := NewSpanExtractor(llm, time.Second)
		if got := extractor.Extract(context.Background(), "snippet", extractorChunks); got != nil {
			t.Errorf("response %q produced %+v, want nil", response, got)
		}
	}
}

func TestExtractCompletionError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("quota exceeded")}
	extractor := NewSpanExtractor(llm, time.Second)

	if got := extractor.Extract(context.Background(), "snippet", extractorChunks); got != nil {
		t.Fatalf("expected nil on completion error, got %+v", got)
	}
}

func TestExtractSkipsEmptySnippet(t *testing.T) {
	llm := &fakeLLM{response: `{"chunkIndex": 0, "exactText": "reduces price resistance"}`}
	extractor := NewSpanExtractor(llm, time.Second)

	if got := extractor.Extract(context.Background(), "   ", extractorChunks); got != nil {
		t.Fatalf("expected nil for empty snippet, got %+v", got)
	}
	if llm.calls != 0 {
		t.Errorf("model called %d times for empty snippet", llm.calls)
	}
}

func TestExtractSkipsWithoutClient(t *testing.T) {
	extractor := NewSpanExtractor(nil, time.Second)
	if got := extractor.Extract(context.Background(), "snippet", extractorChunks); got != nil {
		t.Fatalf("expected nil without a configured client, got %+v", got)
	}
}

func TestPreviewKeepsValidUTF8(t *testing.T) {
	// "Preiswiderstand" with multi-byte dashes; cutting mid-rune would
	// produce invalid UTF-8.
	s := strings.Repeat("Preis–widerstand ", 20)
	for n := 1; n < 40; n++ {
		got := preview(s, n)
		if !utf8.ValidString(got) {
			t.Fatalf("preview(%d) produced invalid UTF-8: %q", n, got)
		}
		if len(got) > n+len("...") {
			t.Fatalf("preview(%d) length = %d", n, len(got))
		}
	}

	if got := preview("short", 120); got != "short" {
		t.Errorf("preview(short) = %q", got)
	}
}

func TestExtractPromptEnumeratesChunks(t *testing.T) {
	llm := &fakeLLM{response: `{"chunkIndex": -1, "exactText": ""}`}
	extractor := NewSpanExtractor(llm, time.Second)
	extractor.Extract(context.Background(), "snippet", extractorChunks)

	for _, want := range []string{"Chunk 0:", "Chunk 1:", extractorChunks[0].Content, "Answer snippet:"} {
		if !strings.Contains(llm.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
