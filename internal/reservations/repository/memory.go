package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	reservationerrors "reservio/internal/reservations/errors"
	mongotx "reservio/pkg/db/mongo"
	"reservio/pkg/model"
)

// memoryReservationRepository is the authoritative volatile store. All
// reads return copies so callers never observe a record mid-update.
type memoryReservationRepository struct {
	mu           sync.RWMutex
	reservations map[string]*model.Reservation
}

func NewMemoryReservationRepository() ReservationRepository {
	return &memoryReservationRepository{
		reservations: make(map[string]*model.Reservation),
	}
}

func (r *memoryReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	reservation.ID = uuid.NewString()
	reservation.CreatedAt = now
	reservation.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *reservation
	r.reservations[reservation.ID] = &stored
	return nil
}

func (r *memoryReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reservation, ok := r.reservations[id]
	if !ok {
		return nil, reservationerrors.ErrNotFound
	}

	found := *reservation
	return &found, nil
}

func (r *memoryReservationRepository) FindByUser(ctx context.Context, userID string, includeInactive bool, limit int, offset int64) ([]*model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*model.Reservation, 0)
	for _, reservation := range r.reservations {
		if !matchesUser(reservation, userID, includeInactive) {
			continue
		}
		found := *reservation
		results = append(results, &found)
	}

	sortReservations(results)
	return pageReservations(results, limit, offset), nil
}

func (r *memoryReservationRepository) CountByUser(ctx context.Context, userID string, includeInactive bool) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, reservation := range r.reservations {
		if matchesUser(reservation, userID, includeInactive) {
			count++
		}
	}
	return count, nil
}

func (r *memoryReservationRepository) FindByObject(ctx context.Context, objectID string, window *model.Interval, includeInactive bool, limit int, offset int64) ([]*model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*model.Reservation, 0)
	for _, reservation := range r.reservations {
		if !matchesObject(reservation, objectID, window, includeInactive) {
			continue
		}
		found := *reservation
		results = append(results, &found)
	}

	sortReservations(results)
	return pageReservations(results, limit, offset), nil
}

func (r *memoryReservationRepository) CountByObject(ctx context.Context, objectID string, window *model.Interval, includeInactive bool) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, reservation := range r.reservations {
		if matchesObject(reservation, objectID, window, includeInactive) {
			count++
		}
	}
	return count, nil
}

func (r *memoryReservationRepository) FindConflicts(ctx context.Context, objectID string, window model.Interval, excludeID string) ([]*model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*model.Reservation, 0)
	for _, reservation := range r.reservations {
		if reservation.ObjectID != objectID || reservation.ID == excludeID {
			continue
		}
		if !reservation.Status.Counts() {
			continue
		}
		if !window.Overlaps(reservation.Interval()) {
			continue
		}
		found := *reservation
		results = append(results, &found)
	}

	sortReservations(results)
	return results, nil
}

func (r *memoryReservationRepository) Update(ctx context.Context, id string, reservation *model.Reservation) (*model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.reservations[id]
	if !ok {
		return nil, reservationerrors.ErrNotFound
	}

	updated := *reservation
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	r.reservations[id] = &updated

	found := updated
	return &found, nil
}

func (r *memoryReservationRepository) UpdateStatus(ctx context.Context, id string, status model.ReservationStatus) (*model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.reservations[id]
	if !ok {
		return nil, reservationerrors.ErrNotFound
	}

	existing.Status = status
	existing.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	found := *existing
	return &found, nil
}

// ExecuteTransaction runs fn directly. Atomicity of check-then-act comes
// from the per-object advisory lock held by the caller.
func (r *memoryReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

func matchesUser(reservation *model.Reservation, userID string, includeInactive bool) bool {
	if reservation.UserID != userID {
		return false
	}
	return includeInactive || reservation.Status.Counts()
}

func matchesObject(reservation *model.Reservation, objectID string, window *model.Interval, includeInactive bool) bool {
	if reservation.ObjectID != objectID {
		return false
	}
	if !includeInactive && !reservation.Status.Counts() {
		return false
	}
	return window == nil || window.Overlaps(reservation.Interval())
}

func pageReservations(reservations []*model.Reservation, limit int, offset int64) []*model.Reservation {
	if offset >= int64(len(reservations)) {
		return []*model.Reservation{}
	}
	reservations = reservations[offset:]
	if limit > 0 && limit < len(reservations) {
		reservations = reservations[:limit]
	}
	return reservations
}

func sortReservations(reservations []*model.Reservation) {
	sort.Slice(reservations, func(i, j int) bool {
		if !reservations[i].StartDateTime.Equal(reservations[j].StartDateTime) {
			return reservations[i].StartDateTime.Before(reservations[j].StartDateTime)
		}
		return reservations[i].ID < reservations[j].ID
	})
}

// memoryObjectLockRepository implements advisory locks for the volatile
// backend. Expired locks are reclaimed on the next Acquire.
type memoryObjectLockRepository struct {
	mu    sync.Mutex
	locks map[string]*model.ObjectLock
}

func NewMemoryObjectLockRepository() ObjectLockRepository {
	return &memoryObjectLockRepository{
		locks: make(map[string]*model.ObjectLock),
	}
}

func (r *memoryObjectLockRepository) Acquire(ctx context.Context, lock *model.ObjectLock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if existing, ok := r.locks[lock.ID]; ok && existing.ExpiresAt.After(now) {
		return reservationerrors.ErrLockHeld
	}

	lock.CreatedAt = now
	stored := *lock
	r.locks[lock.ID] = &stored
	return nil
}

func (r *memoryObjectLockRepository) Release(ctx context.Context, lockID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.locks, lockID)
	return nil
}
