package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pdf-chat-platform/internal/config"
	"pdf-chat-platform/models"
	"pdf-chat-platform/services"

	"github.com/gin-gonic/gin"
)

type stubChunkStore struct {
	chunks []models.Chunk
	err    error
}

func (s *stubChunkStore) FindByPage(ctx context.Context, source, page, orgURL string, limit int64) ([]models.Chunk, error) {
	return s.chunks, s.err
}

func (s *stubChunkStore) FindByLocPage(ctx context.Context, source, page, orgURL string, limit int64) ([]models.Chunk, error) {
	return nil, s.err
}

func (s *stubChunkStore) FindBySource(ctx context.Context, source, orgURL string, limit int64) ([]models.Chunk, error) {
	return nil, s.err
}

func newTestRouter(store services.ChunkStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{MaxFallbackChunks: 8}

	locator := services.NewChunkLocator(store, cfg.MaxFallbackChunks)
	extractor := services.NewSpanExtractor(nil, time.Second)
	resolver := services.NewHighlightResolver(locator, extractor, nil, nil)

	router := gin.New()
	SetupHighlightRoutes(router, cfg, resolver, nil, nil)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHighlightEndpointMissingPage(t *testing.T) {
	router := newTestRouter(&stubChunkStore{})

	w := postJSON(t, router, "/highlight", gin.H{
		"filename":      "sales.pdf",
		"answerSnippet": "some snippet",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var body struct {
		ErrorCode string `json:"error_code"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "filename and page are required" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestHighlightEndpointDirectMatch(t *testing.T) {
	router := newTestRouter(&stubChunkStore{chunks: []models.Chunk{
		{ID: 1, Content: "The sandwich method reduces price resistance.", Metadata: models.ChunkMetadata{Source: "sales.pdf", Page: "5"}},
	}})

	w := postJSON(t, router, "/highlight", gin.H{
		"filename":      "sales.pdf",
		"page":          5,
		"answerSnippet": "sandwich method reduces",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var resp models.HighlightResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Highlight == nil || resp.Highlight.ChunkID != 1 {
		t.Fatalf("highlight = %+v, want chunk 1", resp.Highlight)
	}
	if len(resp.Chunks) != 1 {
		t.Errorf("chunks length = %d, want 1", len(resp.Chunks))
	}
}

func TestHighlightEndpointNoMatchStillOK(t *testing.T) {
	router := newTestRouter(&stubChunkStore{chunks: []models.Chunk{
		{ID: 1, Content: "The sandwich method reduces price resistance."},
	}})

	w := postJSON(t, router, "/highlight", gin.H{
		"filename":      "sales.pdf",
		"page":          "5",
		"answerSnippet": "a paraphrase that quotes nothing",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp models.HighlightResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Highlight != nil {
		t.Errorf("highlight = %+v, want null", resp.Highlight)
	}
	if len(resp.Chunks) != 1 {
		t.Errorf("chunks length = %d, want the unhighlighted candidate", len(resp.Chunks))
	}
}

func TestHighlightEndpointStoreFailure(t *testing.T) {
	router := newTestRouter(&stubChunkStore{err: errors.New("no reachable servers")})

	w := postJSON(t, router, "/highlight", gin.H{
		"filename":      "sales.pdf",
		"page":          5,
		"answerSnippet": "anything",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestHighlightEndpointRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(&stubChunkStore{})

	req := httptest.NewRequest(http.MethodPost, "/highlight", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestInvalidateEndpointRequiresFilename(t *testing.T) {
	router := newTestRouter(&stubChunkStore{})

	w := postJSON(t, router, "/highlight/invalidate", gin.H{"orgUrl": "acme"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestInvalidateEndpointWithoutCache(t *testing.T) {
	router := newTestRouter(&stubChunkStore{})

	// No Redis configured: invalidation is a no-op, not an error.
	w := postJSON(t, router, "/highlight/invalidate", gin.H{"filename": "sales.pdf"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
