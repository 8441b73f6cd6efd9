package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"reservio/pkg/model"
)

var ErrNotFound = errors.New("user not found")

// UserRepository owns user accounts. Lookups by email are
// case-insensitive.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type memoryUserRepository struct {
	mu      sync.RWMutex
	users   map[string]*model.User
	byEmail map[string]string
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		users:   make(map[string]*model.User),
		byEmail: make(map[string]string),
	}
}

func (r *memoryUserRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.byEmail[key]; exists {
		return errors.New("email already registered: " + user.Email)
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	stored := *user
	r.users[user.ID] = &stored
	r.byEmail[key] = user.ID
	return nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	found := *user
	return &found, nil
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	found := *r.users[id]
	return &found, nil
}
