package services

import (
	"strings"
	"testing"

	"pdf-chat-platform/models"
)

func TestFindDirectMatchLiteralSnippet(t *testing.T) {
	chunks := []models.Chunk{
		{ID: 1, Content: "The sandwich method reduces price resistance by emphasizing benefits twice."},
	}

	got := FindDirectMatch(chunks, "sandwich method reduces price resistance")
	if got == nil {
		t.Fatal("expected a match, got nil")
	}
	if got.ChunkID != 1 {
		t.Errorf("ChunkID = %d, want 1", got.ChunkID)
	}
	if got.Text != "sandwich method reduces price resistance" {
		t.Errorf("Text = %q, want the literal span", got.Text)
	}
}

func TestFindDirectMatchPreservesOriginalCasing(t *testing.T) {
	chunks := []models.Chunk{
		{ID: 3, Content: "Die Sandwichmethode reduziert Preiswiderstand nachhaltig."},
	}

	// Extra internal whitespace and different casing must still match,
	// and the returned span must carry the chunk's casing and spacing.
	got := FindDirectMatch(chunks, "sandwichmethode   REDUZIERT    Preiswiderstand")
	if got == nil {
		t.Fatal("expected a match, got nil")
	}
	if got.Text != "Sandwichmethode reduziert Preiswiderstand" {
		t.Errorf("Text = %q, want original-cased span from the chunk", got.Text)
	}
}

func TestFindDirectMatchSoundness(t *testing.T) {
	chunks := []models.Chunk{
		{ID: 1, Content: "Alpha beta gamma."},
		{ID: 2, Content: "The   quick\nbrown fox jumps over the lazy dog."},
	}

	got := FindDirectMatch(chunks, "quick brown fox")
	if got == nil {
		t.Fatal("expected a match, got nil")
	}
	if got.ChunkID != 2 {
		t.Errorf("ChunkID = %d, want 2", got.ChunkID)
	}
	if !strings.Contains(NormalizeText(chunks[1].Content), NormalizeText(got.Text)) {
		t.Errorf("returned text %q is not a normalized substring of the chunk", got.Text)
	}
}

func TestFindDirectMatchDashVariantFallback(t *testing.T) {
	// The normalized substring test passes but the literal regex cannot
	// bridge the unicode hyphen, so the cleaned snippet comes back.
	chunks := []models.Chunk{
		{ID: 5, Content: "Successful co‐operation depends on trust."},
	}

	got := FindDirectMatch(chunks, " co-operation depends ")
	if got == nil {
		t.Fatal("expected a fallback match, got nil")
	}
	if got.ChunkID != 5 {
		t.Errorf("ChunkID = %d, want 5", got.ChunkID)
	}
	if got.Text != "co-operation depends" {
		t.Errorf("Text = %q, want the trimmed snippet", got.Text)
	}
}

func TestFindDirectMatchNoMatch(t *testing.T) {
	chunks := []models.Chunk{
		{ID: 1, Content: "The sandwich method reduces price resistance."},
	}

	// Paraphrases are the common case and must return nil, not error.
	if got := FindDirectMatch(chunks, "pricing objections are softened by framing"); got != nil {
		t.Errorf("expected nil for paraphrase, got %+v", got)
	}
}

func TestFindDirectMatchEmptySnippet(t *testing.T) {
	chunks := []models.Chunk{{ID: 1, Content: "content"}}

	for _, snippet := range []string{"", "   ", "\t\n"} {
		if got := FindDirectMatch(chunks, snippet); got != nil {
			t.Errorf("FindDirectMatch(%q) = %+v, want nil", snippet, got)
		}
	}
}

func TestFindDirectMatchRespectsChunkOrder(t *testing.T) {
	// Both chunks contain the snippet (ingestion overlap); the first one
	// supplied wins.
	chunks := []models.Chunk{
		{ID: 9, Content: "overlap region here, tail of page"},
		{ID: 10, Content: "head of next page, overlap region here"},
	}

	got := FindDirectMatch(chunks, "overlap region here")
	if got == nil {
		t.Fatal("expected a match, got nil")
	}
	if got.ChunkID != 9 {
		t.Errorf("ChunkID = %d, want first supplied chunk 9", got.ChunkID)
	}
}
