package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	catalogerrors "reservio/internal/catalog/errors"
	"reservio/pkg/model"
)

// memoryObjectRepository is the authoritative volatile store. All reads
// return copies so callers never observe a record mid-update.
type memoryObjectRepository struct {
	mu      sync.RWMutex
	objects map[string]*model.ReservableObject
}

func NewMemoryObjectRepository() ObjectRepository {
	return &memoryObjectRepository{
		objects: make(map[string]*model.ReservableObject),
	}
}

func (r *memoryObjectRepository) Create(ctx context.Context, obj *model.ReservableObject) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	obj.ID = uuid.NewString()
	obj.IsActive = true
	obj.CreatedAt = now
	obj.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *obj
	r.objects[obj.ID] = &stored
	return nil
}

func (r *memoryObjectRepository) FindByID(ctx context.Context, id string) (*model.ReservableObject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, ok := r.objects[id]
	if !ok {
		return nil, catalogerrors.ErrNotFound
	}

	found := *obj
	return &found, nil
}

func (r *memoryObjectRepository) FindAll(ctx context.Context, typeFilter model.ObjectType, includeInactive bool, limit int, offset int64) ([]*model.ReservableObject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.ReservableObject, 0, len(r.objects))
	for _, obj := range r.objects {
		if !matchesFilter(obj, typeFilter, includeInactive) {
			continue
		}
		found := *obj
		out = append(out, &found)
	}

	sortObjects(out)
	return pageObjects(out, limit, offset), nil
}

func (r *memoryObjectRepository) Count(ctx context.Context, typeFilter model.ObjectType, includeInactive bool) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, obj := range r.objects {
		if matchesFilter(obj, typeFilter, includeInactive) {
			count++
		}
	}
	return count, nil
}

func (r *memoryObjectRepository) Update(ctx context.Context, id string, obj *model.ReservableObject) (*model.ReservableObject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.objects[id]
	if !ok {
		return nil, catalogerrors.ErrNotFound
	}

	updated := *obj
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	touch(&updated, time.Now())
	r.objects[id] = &updated

	found := updated
	return &found, nil
}

func (r *memoryObjectRepository) SoftDelete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.objects[id]
	if !ok {
		return catalogerrors.ErrNotFound
	}

	updated := *existing
	updated.IsActive = false
	touch(&updated, time.Now())
	r.objects[id] = &updated
	return nil
}

func (r *memoryObjectRepository) Search(ctx context.Context, query string) ([]*model.ReservableObject, error) {
	needle := strings.ToLower(strings.TrimSpace(query))

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.ReservableObject
	for _, obj := range r.objects {
		if matchesQuery(obj, needle) {
			found := *obj
			out = append(out, &found)
		}
	}

	sortObjects(out)
	return out, nil
}

func matchesFilter(obj *model.ReservableObject, typeFilter model.ObjectType, includeInactive bool) bool {
	if !includeInactive && !obj.IsActive {
		return false
	}
	return typeFilter == "" || obj.Type == typeFilter
}

func pageObjects(objs []*model.ReservableObject, limit int, offset int64) []*model.ReservableObject {
	if offset >= int64(len(objs)) {
		return []*model.ReservableObject{}
	}
	objs = objs[offset:]
	if limit > 0 && limit < len(objs) {
		objs = objs[:limit]
	}
	return objs
}

func matchesQuery(obj *model.ReservableObject, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(obj.Name), needle) ||
		strings.Contains(strings.ToLower(obj.Location), needle) ||
		strings.Contains(strings.ToLower(obj.Description), needle)
}

func sortObjects(objs []*model.ReservableObject) {
	sort.Slice(objs, func(i, j int) bool {
		if objs[i].CreatedAt.Equal(objs[j].CreatedAt) {
			return objs[i].ID < objs[j].ID
		}
		return objs[i].CreatedAt.Before(objs[j].CreatedAt)
	})
}
