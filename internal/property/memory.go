package property

import (
	"context"
	"sync"

	"github.com/treadbook/treadbook/internal/catalog"
	"github.com/treadbook/treadbook/internal/users"
)

// MemoryStore is an in-memory Store for tests and database-less development
// runs. Transactions work on staged copies: Commit swaps them in, Rollback
// discards them, so aborted batches leave no trace.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[string]users.User
	tires    []Tire
	props    []Property
	nextTire int64
	nextProp int64
	nextUser int64
}

// NewMemoryStore builds an empty in-memory property store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]users.User)}
}

// SeedUser registers a user directly in the store and returns it with its
// assigned idx. Test helper.
func (m *MemoryStore) SeedUser(user users.User) users.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.Idx == 0 {
		m.nextUser++
		user.Idx = m.nextUser
	}
	m.users[user.ID] = user
	return user
}

// Tires returns a copy of all stored tires. Test helper.
func (m *MemoryStore) Tires() []Tire {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Tire(nil), m.tires...)
}

// Ownerships returns a copy of all stored properties. Test helper.
func (m *MemoryStore) Ownerships() []Property {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Property(nil), m.props...)
}

// Create implements users.Repository so a single MemoryStore can back both
// the user endpoints and the registration workflow in database-less runs.
func (m *MemoryStore) Create(_ context.Context, user *users.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.ID]; exists {
		return users.ErrDuplicateID
	}
	m.nextUser++
	user.Idx = m.nextUser
	m.users[user.ID] = *user
	return nil
}

// FindByID implements users.Repository.
func (m *MemoryStore) FindByID(_ context.Context, id string) (users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return user, nil
}

// Begin opens a transaction. The store lock is held until Commit or
// Rollback, serializing writers; good enough for tests and dev.
func (m *MemoryStore) Begin(_ context.Context) (Tx, error) {
	m.mu.Lock()
	return &memoryTx{
		store:    m,
		tires:    append([]Tire(nil), m.tires...),
		props:    append([]Property(nil), m.props...),
		nextTire: m.nextTire,
		nextProp: m.nextProp,
	}, nil
}

// ListByOwner returns one page of the user's properties plus the total count.
func (m *MemoryStore) ListByOwner(_ context.Context, ownerIdx int64, page, limit int) ([]Record, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	owned := make([]Record, 0)
	for _, p := range m.props {
		if p.UserIdx == ownerIdx {
			owned = append(owned, Record{Idx: p.Idx, Tire: m.tireByIdx(p.TireIdx)})
		}
	}

	count := int64(len(owned))
	start := (page - 1) * limit
	if start >= len(owned) {
		return []Record{}, count, nil
	}
	end := start + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[start:end], count, nil
}

// GetByIdx returns a single property scoped to its owner.
func (m *MemoryStore) GetByIdx(_ context.Context, idx, ownerIdx int64) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.props {
		if p.Idx == idx && p.UserIdx == ownerIdx {
			return Record{Idx: p.Idx, Tire: m.tireByIdx(p.TireIdx)}, nil
		}
	}
	return Record{}, ErrNoRecord
}

func (m *MemoryStore) tireByIdx(idx int64) Tire {
	for _, t := range m.tires {
		if t.Idx == idx {
			return t
		}
	}
	return Tire{}
}

type memoryTx struct {
	store    *MemoryStore
	tires    []Tire
	props    []Property
	nextTire int64
	nextProp int64
	done     bool
}

func (t *memoryTx) FindUser(_ context.Context, id string) (users.User, bool, error) {
	user, ok := t.store.users[id]
	return user, ok, nil
}

func (t *memoryTx) FindTire(_ context.Context, dims catalog.Dimensions) (Tire, bool, error) {
	for _, tire := range t.tires {
		if tire.Dims() == dims {
			return tire, true, nil
		}
	}
	return Tire{}, false, nil
}

func (t *memoryTx) CreateTire(_ context.Context, dims catalog.Dimensions) (Tire, error) {
	t.nextTire++
	tire := Tire{Idx: t.nextTire, Width: dims.Width, AspectRatio: dims.AspectRatio, WheelSize: dims.WheelSize}
	t.tires = append(t.tires, tire)
	return tire, nil
}

func (t *memoryTx) OwnershipExists(_ context.Context, userIdx, tireIdx int64) (bool, error) {
	for _, p := range t.props {
		if p.UserIdx == userIdx && p.TireIdx == tireIdx {
			return true, nil
		}
	}
	return false, nil
}

func (t *memoryTx) CreateOwnership(_ context.Context, userIdx, tireIdx int64) error {
	t.nextProp++
	t.props = append(t.props, Property{Idx: t.nextProp, UserIdx: userIdx, TireIdx: tireIdx})
	return nil
}

func (t *memoryTx) Commit(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.tires = t.tires
	t.store.props = t.props
	t.store.nextTire = t.nextTire
	t.store.nextProp = t.nextProp
	t.store.mu.Unlock()
	return nil
}

func (t *memoryTx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}
