package database

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/relay/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoInstance struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// ConnectMongoDB returns nil without error when no connection string is configured
func ConnectMongoDB(cfg config.MongoDBConfig) (*MongoInstance, error) {
	if cfg.Connection == "" {
		log.Info().Msg("Skipping MongoDB setup")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Connection))
	if err != nil {
		return nil, err
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		if disconnectErr := client.Disconnect(context.Background()); disconnectErr != nil {
			log.Error().Err(disconnectErr).Msg("Failed to disconnect MongoDB")
		}
		return nil, err
	}

	instance := &MongoInstance{
		Client:   client,
		Database: client.Database(cfg.Database),
	}

	instance.createIndexes()

	log.Info().Str("database", cfg.Database).Msg("MongoDB client setup")

	return instance, nil
}

func (m *MongoInstance) GetCollection(collectionName string) *mongo.Collection {
	return m.Database.Collection(collectionName)
}

func (m *MongoInstance) Disconnect(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
