package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCounter       metric.Int64Counter
	RequestDuration      metric.Float64Histogram
	HighlightResolutions metric.Int64Counter
	CandidateChunks      metric.Int64Histogram
	GeminiTokensUsed     metric.Int64Counter
	CacheInvalidations   metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("pdf-chat-platform")

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	highlightResolutions, err := meter.Int64Counter(
		"highlight.resolutions.total",
		metric.WithDescription("Highlight resolutions by outcome"),
	)
	if err != nil {
		return nil, err
	}

	candidateChunks, err := meter.Int64Histogram(
		"highlight.candidate_chunks",
		metric.WithDescription("Candidate chunks located per resolution"),
	)
	if err != nil {
		return nil, err
	}

	geminiTokensUsed, err := meter.Int64Counter(
		"gemini.tokens.used",
		metric.WithDescription("Total Gemini tokens used"),
	)
	if err != nil {
		return nil, err
	}

	cacheInvalidations, err := meter.Int64Counter(
		"highlight.cache.invalidations",
		metric.WithDescription("Highlight cache invalidations"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:       requestCounter,
		RequestDuration:      requestDuration,
		HighlightResolutions: highlightResolutions,
		CandidateChunks:      candidateChunks,
		GeminiTokensUsed:     geminiTokensUsed,
		CacheInvalidations:   cacheInvalidations,
	}, nil
}

// RecordRequest records HTTP request metrics
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("http.status", status),
	}

	m.RequestCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.RequestDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordResolution records one highlight resolution and its candidate count.
// Outcome is one of: cache, llm, direct, none, empty.
func (m *Metrics) RecordResolution(outcome string, candidates int) {
	attrs := []attribute.KeyValue{
		attribute.String("highlight.outcome", outcome),
	}

	m.HighlightResolutions.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.CandidateChunks.Record(context.Background(), int64(candidates), metric.WithAttributes(attrs...))
}

// RecordTokensUsed records Gemini token usage
func (m *Metrics) RecordTokensUsed(tokens int64, model string) {
	attrs := []attribute.KeyValue{
		attribute.String("gemini.model", model),
		attribute.String("service", "gemini"),
	}

	m.GeminiTokensUsed.Add(context.Background(), tokens, metric.WithAttributes(attrs...))
}

// RecordCacheInvalidation records a document-level cache invalidation
func (m *Metrics) RecordCacheInvalidation() {
	m.CacheInvalidations.Add(context.Background(), 1)
}
