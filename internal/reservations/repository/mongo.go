package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	reservationerrors "reservio/internal/reservations/errors"
	mongotx "reservio/pkg/db/mongo"
	"reservio/pkg/model"
)

const (
	reservationCollection = "reservations"
	objectLockCollection  = "reservation_object_locks"
)

type mongoReservationRepository struct {
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
	timeout    time.Duration
}

func NewMongoReservationRepository(db *mongo.Database, txManager mongotx.TransactionManager, timeout time.Duration) ReservationRepository {
	return &mongoReservationRepository{
		collection: db.Collection(reservationCollection),
		txManager:  txManager,
		timeout:    timeout,
	}
}

// withTimeout bounds standalone calls; session contexts pass through so
// transaction semantics stay intact.
func (r *mongoReservationRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, has := ctx.Deadline(); has {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	reservation.ID = uuid.NewString()
	reservation.CreatedAt = now
	reservation.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, reservation); err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var reservation model.Reservation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return &reservation, nil
}

func (r *mongoReservationRepository) FindByUser(ctx context.Context, userID string, includeInactive bool, limit int, offset int64) ([]*model.Reservation, error) {
	return r.find(ctx, userFilter(userID, includeInactive), limit, offset)
}

func (r *mongoReservationRepository) CountByUser(ctx context.Context, userID string, includeInactive bool) (int64, error) {
	return r.count(ctx, userFilter(userID, includeInactive))
}

func (r *mongoReservationRepository) FindByObject(ctx context.Context, objectID string, window *model.Interval, includeInactive bool, limit int, offset int64) ([]*model.Reservation, error) {
	return r.find(ctx, objectFilter(objectID, window, includeInactive), limit, offset)
}

func (r *mongoReservationRepository) CountByObject(ctx context.Context, objectID string, window *model.Interval, includeInactive bool) (int64, error) {
	return r.count(ctx, objectFilter(objectID, window, includeInactive))
}

func userFilter(userID string, includeInactive bool) bson.M {
	filter := bson.M{"user_id": userID}
	if !includeInactive {
		filter["status"] = model.ReservationStatusActive
	}
	return filter
}

func objectFilter(objectID string, window *model.Interval, includeInactive bool) bson.M {
	filter := bson.M{"object_id": objectID}
	if !includeInactive {
		filter["status"] = model.ReservationStatusActive
	}
	if window != nil {
		filter["start_date_time"] = bson.M{"$lt": window.End}
		filter["end_date_time"] = bson.M{"$gt": window.Start}
	}
	return filter
}

// FindConflicts translates the half-open overlap rule into the query:
// start < window.End AND end > window.Start, restricted to statuses that
// count toward conflicts.
func (r *mongoReservationRepository) FindConflicts(ctx context.Context, objectID string, window model.Interval, excludeID string) ([]*model.Reservation, error) {
	filter := bson.M{
		"object_id":       objectID,
		"status":          model.ReservationStatusActive,
		"start_date_time": bson.M{"$lt": window.End},
		"end_date_time":   bson.M{"$gt": window.Start},
	}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	return r.find(ctx, filter, 0, 0)
}

func (r *mongoReservationRepository) find(ctx context.Context, filter bson.M, limit int, offset int64) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_date_time", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(offset)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer cursor.Close(ctx)

	results := make([]*model.Reservation, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}
	return results, nil
}

func (r *mongoReservationRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}

func (r *mongoReservationRepository) Update(ctx context.Context, id string, reservation *model.Reservation) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"start_date_time": reservation.StartDateTime,
		"end_date_time":   reservation.EndDateTime,
		"notes":           reservation.Notes,
		"updated_at":      time.Now().UTC().Truncate(time.Millisecond),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated model.Reservation
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}
	return &updated, nil
}

func (r *mongoReservationRepository) UpdateStatus(ctx context.Context, id string, status model.ReservationStatus) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated model.Reservation
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update reservation status: %w", err)
	}
	return &updated, nil
}

func (r *mongoReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

type mongoObjectLockRepository struct {
	collection *mongo.Collection
}

func NewMongoObjectLockRepository(db *mongo.Database) ObjectLockRepository {
	return &mongoObjectLockRepository{
		collection: db.Collection(objectLockCollection),
	}
}

// EnsureLockIndexes creates the TTL index that reclaims expired locks.
func EnsureLockIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(objectLockCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("failed to create lock TTL index: %w", err)
	}
	return nil
}

func (r *mongoObjectLockRepository) Acquire(ctx context.Context, lock *model.ObjectLock) error {
	lock.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return reservationerrors.ErrLockHeld
		}
		return fmt.Errorf("failed to acquire object lock: %w", err)
	}
	return nil
}

func (r *mongoObjectLockRepository) Release(ctx context.Context, lockID string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID}); err != nil {
		return fmt.Errorf("failed to release object lock: %w", err)
	}
	return nil
}
