package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ShortURLsCollection = "short_urls"

func (m *MongoInstance) createIndexes() {
	shortURLsIndex := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "hash", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	opts := options.CreateIndexes()
	_, err := m.GetCollection(ShortURLsCollection).Indexes().CreateMany(context.Background(), shortURLsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
