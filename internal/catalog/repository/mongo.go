package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	catalogerrors "reservio/internal/catalog/errors"
	"reservio/pkg/model"
)

const objectCollection = "reservable_objects"

type mongoObjectRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewMongoObjectRepository(db *mongo.Database, timeout time.Duration) ObjectRepository {
	return &mongoObjectRepository{
		collection: db.Collection(objectCollection),
		timeout:    timeout,
	}
}

// withTimeout bounds standalone calls; session contexts pass through so
// transaction semantics stay intact.
func (r *mongoObjectRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, has := ctx.Deadline(); has {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *mongoObjectRepository) Create(ctx context.Context, obj *model.ReservableObject) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	obj.ID = uuid.NewString()
	obj.IsActive = true
	obj.CreatedAt = now
	obj.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, obj); err != nil {
		return fmt.Errorf("failed to create reservable object: %w", err)
	}
	return nil
}

func (r *mongoObjectRepository) FindByID(ctx context.Context, id string) (*model.ReservableObject, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var obj model.ReservableObject
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&obj)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservable object: %w", err)
	}
	return &obj, nil
}

func (r *mongoObjectRepository) FindAll(ctx context.Context, typeFilter model.ObjectType, includeInactive bool, limit int, offset int64) ([]*model.ReservableObject, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(offset)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, listFilter(typeFilter, includeInactive), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservable objects: %w", err)
	}
	defer cursor.Close(ctx)

	var objects []*model.ReservableObject
	if err := cursor.All(ctx, &objects); err != nil {
		return nil, fmt.Errorf("failed to decode reservable objects: %w", err)
	}
	return objects, nil
}

func (r *mongoObjectRepository) Count(ctx context.Context, typeFilter model.ObjectType, includeInactive bool) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, listFilter(typeFilter, includeInactive))
	if err != nil {
		return 0, fmt.Errorf("failed to count reservable objects: %w", err)
	}
	return count, nil
}

func listFilter(typeFilter model.ObjectType, includeInactive bool) bson.M {
	filter := bson.M{}
	if !includeInactive {
		filter["is_active"] = true
	}
	if typeFilter != "" {
		filter["type"] = typeFilter
	}
	return filter
}

func (r *mongoObjectRepository) Update(ctx context.Context, id string, obj *model.ReservableObject) (*model.ReservableObject, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"type":        obj.Type,
		"name":        obj.Name,
		"location":    obj.Location,
		"description": obj.Description,
		"is_active":   obj.IsActive,
		"updated_at":  time.Now().UTC().Truncate(time.Millisecond),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated model.ReservableObject
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update reservable object: %w", err)
	}
	return &updated, nil
}

func (r *mongoObjectRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"is_active":  false,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to soft delete reservable object: %w", err)
	}
	if result.MatchedCount == 0 {
		return catalogerrors.ErrNotFound
	}
	return nil
}

func (r *mongoObjectRepository) Search(ctx context.Context, query string) ([]*model.ReservableObject, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"location": pattern},
		bson.M{"description": pattern},
	}}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search reservable objects: %w", err)
	}
	defer cursor.Close(ctx)

	var objects []*model.ReservableObject
	if err := cursor.All(ctx, &objects); err != nil {
		return nil, fmt.Errorf("failed to decode reservable objects: %w", err)
	}
	return objects, nil
}
