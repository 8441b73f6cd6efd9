package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	migrations "reservio/internal/migrations/mongo"
	"reservio/pkg/client"
	"reservio/pkg/config"
)

const jobName = "reservio-migrate"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(jobName)
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg.Log.Info("Starting Mongo migration job")

	mongoConn := client.NewMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
	defer mongoConn.Disconnect(ctx, cfg.Log)

	db := mongoConn.Client.Database(cfg.MongoDatabaseName)
	if err := migrations.RunMigration(ctx, db, cfg.Log); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}

	cfg.Log.Info("Migration completed")
}
