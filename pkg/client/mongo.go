package client

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reservio/pkg/logger"
)

// Mongo holds the shared driver client for the mongo storage backend.
type Mongo struct {
	Client *mongo.Client
}

func NewMongo(log *logger.Logger, uri string, connTimeout time.Duration) *Mongo {
	ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Connected to MongoDB")
	return &Mongo{Client: client}
}

func (m *Mongo) Disconnect(ctx context.Context, log *logger.Logger) {
	if m == nil || m.Client == nil {
		return
	}
	if err := m.Client.Disconnect(ctx); err != nil {
		log.Error("Failed to disconnect from MongoDB", "error", err)
	}
}
