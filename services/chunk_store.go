package services

import (
	"context"
	"fmt"
	"strconv"

	"pdf-chat-platform/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChunkStore is the queryable chunk collection the locator runs against.
// Implementations must treat "no chunks found" as an empty slice, not an
// error.
type ChunkStore interface {
	// FindByPage matches on the flat metadata.page field.
	FindByPage(ctx context.Context, source, page, orgURL string, limit int64) ([]models.Chunk, error)
	// FindByLocPage matches on the nested metadata.loc.pageNumber field
	// written by loaders that encode the page inside a location object.
	FindByLocPage(ctx context.Context, source, page, orgURL string, limit int64) ([]models.Chunk, error)
	// FindBySource drops the page filter entirely.
	FindBySource(ctx context.Context, source, orgURL string, limit int64) ([]models.Chunk, error)
}

// MongoChunkStore queries the chunks collection with equality filters on the
// JSON-nested metadata fields.
type MongoChunkStore struct {
	collection *mongo.Collection
}

func NewMongoChunkStore(collection *mongo.Collection) *MongoChunkStore {
	return &MongoChunkStore{collection: collection}
}

func (s *MongoChunkStore) FindByPage(ctx context.Context, source, page, orgURL string, limit int64) ([]models.Chunk, error) {
	filter := baseFilter(source, orgURL)
	filter["metadata.page"] = bson.M{"$in": pageValues(page)}
	return s.find(ctx, filter, limit)
}

func (s *MongoChunkStore) FindByLocPage(ctx context.Context, source, page, orgURL string, limit int64) ([]models.Chunk, error) {
	filter := baseFilter(source, orgURL)
	filter["metadata.loc.pageNumber"] = bson.M{"$in": pageValues(page)}
	return s.find(ctx, filter, limit)
}

func (s *MongoChunkStore) FindBySource(ctx context.Context, source, orgURL string, limit int64) ([]models.Chunk, error) {
	return s.find(ctx, baseFilter(source, orgURL), limit)
}

func (s *MongoChunkStore) find(ctx context.Context, filter bson.M, limit int64) ([]models.Chunk, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("chunk query failed: %w", err)
	}
	defer cursor.Close(ctx)

	chunks := make([]models.Chunk, 0)
	if err := cursor.All(ctx, &chunks); err != nil {
		return nil, fmt.Errorf("chunk decode failed: %w", err)
	}
	return chunks, nil
}

func baseFilter(source, orgURL string) bson.M {
	filter := bson.M{"metadata.source": source}
	if orgURL != "" {
		filter["metadata.orgUrl"] = orgURL
	}
	return filter
}

// pageValues builds the candidate equality values for a page filter. Stored
// page metadata may be a string or a number depending on the loader, so both
// representations are matched.
func pageValues(page string) []interface{} {
	values := []interface{}{page}
	if n, err := strconv.Atoi(page); err == nil {
		values = append(values, n, int64(n), float64(n))
	}
	return values
}
