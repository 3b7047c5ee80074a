package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongoDB(cfg *Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Test connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	// Create indexes
	err = createIndexes(client, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexes: %v", err)
	}

	return client, nil
}

func createIndexes(client *mongo.Client, cfg *Config) error {
	db := client.Database(cfg.DBName)

	// Chunks collection indexes covering the locator's three query shapes:
	// exact page, loc.pageNumber fallback, and filename-only fallback, all
	// optionally scoped by org.
	chunksCollection := db.Collection(cfg.ChunksCollection)
	chunkIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "metadata.source", Value: 1}, {Key: "metadata.page", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "metadata.source", Value: 1}, {Key: "metadata.loc.pageNumber", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "metadata.orgUrl", Value: 1}, {Key: "metadata.source", Value: 1}},
		},
	}
	_, err := chunksCollection.Indexes().CreateMany(context.Background(), chunkIndexes)
	if err != nil {
		return err
	}

	return nil
}
