package services

import (
	"context"
	"errors"
	"strings"

	"pdf-chat-platform/internal/logger"
	"pdf-chat-platform/internal/telemetry"
	"pdf-chat-platform/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrMissingFields signals a client error: the request lacked the filename
// or page required to locate chunks. Distinct from "no match found", which is
// a normal null-highlight response.
var ErrMissingFields = errors.New("filename and page are required")

// ResponseCache is the read/write surface the resolver needs from the
// highlight cache.
type ResponseCache interface {
	Get(ctx context.Context, orgURL, filename, page, snippet string) (*models.HighlightResponse, bool)
	Set(ctx context.Context, orgURL, filename, page, snippet string, resp *models.HighlightResponse)
}

// HighlightResolver runs the resolution pipeline: locate candidate chunks,
// ask the LLM extractor for a validated span, fall back to the direct
// matcher, and finally return the bare candidates when neither produced a
// highlight. The LLM goes first: citation snippets are usually paraphrases,
// so the direct matcher alone would miss most of them.
type HighlightResolver struct {
	locator   *ChunkLocator
	extractor *SpanExtractor
	cache     ResponseCache
	metrics   *telemetry.Metrics
}

func NewHighlightResolver(locator *ChunkLocator, extractor *SpanExtractor, cache ResponseCache, metrics *telemetry.Metrics) *HighlightResolver {
	return &HighlightResolver{
		locator:   locator,
		extractor: extractor,
		cache:     cache,
		metrics:   metrics,
	}
}

// Resolve produces the highlight response for one query. The only error
// conditions are missing required fields (ErrMissingFields) and a chunk-store
// failure; every internal failure inside the fallback chain degrades to a
// null highlight instead.
func (r *HighlightResolver) Resolve(ctx context.Context, query models.HighlightQuery) (*models.HighlightResponse, error) {
	filename := strings.TrimSpace(query.Filename)
	page := models.PageValueString(query.Page)
	if filename == "" || page == "" {
		return nil, ErrMissingFields
	}

	tracer := otel.Tracer("highlight-resolver")
	ctx, span := tracer.Start(ctx, "highlight.resolve")
	defer span.End()
	span.SetAttributes(
		attribute.String("highlight.filename", filename),
		attribute.String("highlight.page", page),
		attribute.Int("highlight.snippet_length", len(query.AnswerSnippet)),
	)

	if r.cache != nil {
		if cached, ok := r.cache.Get(ctx, query.OrgURL, filename, page, query.AnswerSnippet); ok {
			r.record(span, "cache", len(cached.Chunks))
			return cached, nil
		}
	}

	chunks, err := r.locator.Locate(ctx, filename, page, query.OrgURL)
	if err != nil {
		span.SetAttributes(attribute.Bool("highlight.store_error", true))
		return nil, err
	}
	if len(chunks) == 0 {
		logger.Debug("no chunks located", "filename", filename, "page", page)
		r.record(span, "empty", 0)
		return &models.HighlightResponse{Chunks: []models.ChunkView{}}, nil
	}

	if highlight := r.extractor.Extract(ctx, query.AnswerSnippet, chunks); highlight != nil {
		resp := buildResponse(highlight, chunks)
		r.cacheSet(ctx, query, filename, page, resp)
		r.record(span, "llm", len(chunks))
		return resp, nil
	}

	if highlight := FindDirectMatch(chunks, query.AnswerSnippet); highlight != nil {
		resp := buildResponse(highlight, chunks)
		r.cacheSet(ctx, query, filename, page, resp)
		r.record(span, "direct", len(chunks))
		return resp, nil
	}

	// Established fallback: hand the viewer every candidate chunk without
	// a highlight and let the user scan the page.
	logger.Debug("no highlight resolved", "filename", filename, "page", page, "candidates", len(chunks))
	r.record(span, "none", len(chunks))
	return buildResponse(nil, chunks), nil
}

// cacheSet stores a response with a validated highlight. Null-highlight
// responses never reach here, so they are recomputed on every request.
func (r *HighlightResolver) cacheSet(ctx context.Context, query models.HighlightQuery, filename, page string, resp *models.HighlightResponse) {
	if r.cache != nil {
		r.cache.Set(ctx, query.OrgURL, filename, page, query.AnswerSnippet, resp)
	}
}

func (r *HighlightResolver) record(span trace.Span, outcome string, candidates int) {
	span.SetAttributes(attribute.String("highlight.outcome", outcome))
	if r.metrics != nil {
		r.metrics.RecordResolution(outcome, candidates)
	}
}

func buildResponse(highlight *models.Highlight, chunks []models.Chunk) *models.HighlightResponse {
	views := make([]models.ChunkView, 0, len(chunks))
	for _, chunk := range chunks {
		views = append(views, models.NewChunkView(chunk))
	}
	return &models.HighlightResponse{Highlight: highlight, Chunks: views}
}
