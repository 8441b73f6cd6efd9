package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reservio/internal/migrations/mongo/validators"
	"reservio/pkg/logger"
)

var (
	ObjectIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "type", Value: 1},
			{Key: "is_active", Value: 1},
		}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}

	// The conflict scan filters on object, status and both window bounds.
	ReservationIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "object_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "start_date_time", Value: 1},
			{Key: "end_date_time", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "status", Value: 1},
		}},
	}

	// Expired advisory locks are reclaimed by the TTL monitor.
	LockIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

// RunMigration ensures every collection exists with its JSON-schema
// validator and indexes. It is idempotent and safe to rerun.
func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	collections := []struct {
		Name      string
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		{
			Name:      "reservable_objects",
			Indexes:   ObjectIndexes,
			Validator: validators.ReservableObjectValidator,
		},
		{
			Name:      "reservations",
			Indexes:   ReservationIndexes,
			Validator: validators.ReservationValidator,
		},
		{
			Name:    "reservation_object_locks",
			Indexes: LockIndexes,
		},
	}

	log.Info("Running Mongo migrations", "database", db.Name())

	for _, def := range collections {
		if err := ensureCollection(ctx, db, def.Name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, def.Name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
	}

	log.Info("All migrations applied")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	if validator == nil {
		return nil
	}

	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name)
	return nil
}
