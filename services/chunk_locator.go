package services

import (
	"context"

	"pdf-chat-platform/internal/logger"
	"pdf-chat-platform/models"
)

// DefaultMaxFallbackChunks caps how many chunks the page-less fallback query
// may return.
const DefaultMaxFallbackChunks = 8

// ChunkLocator resolves the candidate chunk set for a (filename, page, org)
// tuple with a three-tier fallback, each tier broader than the last. The
// first non-empty tier wins.
type ChunkLocator struct {
	store             ChunkStore
	maxFallbackChunks int64
}

func NewChunkLocator(store ChunkStore, maxFallbackChunks int) *ChunkLocator {
	if maxFallbackChunks <= 0 {
		maxFallbackChunks = DefaultMaxFallbackChunks
	}
	return &ChunkLocator{store: store, maxFallbackChunks: int64(maxFallbackChunks)}
}

// Locate returns the candidate chunks for filename/page, scoped to orgURL
// when provided. An empty result means "nothing to highlight", not an error;
// errors are reserved for chunk-store failures.
func (l *ChunkLocator) Locate(ctx context.Context, filename, page, orgURL string) ([]models.Chunk, error) {
	// Tier 1: exact page match.
	chunks, err := l.store.FindByPage(ctx, filename, page, orgURL, 0)
	if err != nil {
		return nil, err
	}
	if len(chunks) > 0 {
		return chunks, nil
	}

	// Tier 2: some loaders store the page inside a nested loc object.
	if digits := models.PageDigits(page); digits != "" {
		chunks, err = l.store.FindByLocPage(ctx, filename, digits, orgURL, 0)
		if err != nil {
			return nil, err
		}
		if len(chunks) > 0 {
			logger.Debug("chunk locator fell back to loc.pageNumber",
				"filename", filename, "page", page, "chunks", len(chunks))
			return chunks, nil
		}
	}

	// Tier 3: drop the page filter so the viewer still has something to
	// show when page metadata is missing or inconsistent.
	chunks, err = l.store.FindBySource(ctx, filename, orgURL, l.maxFallbackChunks)
	if err != nil {
		return nil, err
	}
	if len(chunks) > 0 {
		logger.Debug("chunk locator fell back to filename-only query",
			"filename", filename, "page", page, "chunks", len(chunks))
	}
	return chunks, nil
}
