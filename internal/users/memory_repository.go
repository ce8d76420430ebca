package users

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	users   map[string]User
	nextIdx int64
}

// NewMemoryRepository builds an in-memory user store for tests and
// database-less development runs.
func NewMemoryRepository() Repository {
	return &memoryRepository{users: make(map[string]User)}
}

func (r *memoryRepository) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.ID]; exists {
		return ErrDuplicateID
	}
	r.nextIdx++
	user.Idx = r.nextIdx
	r.users[user.ID] = *user
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}
