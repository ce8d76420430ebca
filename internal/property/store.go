package property

import (
	"context"
	"errors"

	"github.com/treadbook/treadbook/internal/catalog"
	"github.com/treadbook/treadbook/internal/users"
)

// ErrNoRecord indicates no property matches the requested idx for the
// requesting user.
var ErrNoRecord = errors.New("no matching property")

// Store is the persistence contract for the registration workflow and the
// read-side queries.
type Store interface {
	// Begin opens the transaction one batch registration runs inside.
	Begin(ctx context.Context) (Tx, error)
	// ListByOwner returns one page of the user's properties plus the total count.
	ListByOwner(ctx context.Context, ownerIdx int64, page, limit int) ([]Record, int64, error)
	// GetByIdx returns a single property scoped to its owner, or ErrNoRecord.
	GetByIdx(ctx context.Context, idx, ownerIdx int64) (Record, error)
}

// Tx carries all storage operations of one batch registration pass. Either
// Commit or Rollback must be called exactly once to release it; Rollback
// after Commit is a no-op.
//
// FindTire and CreateTire are deliberately not combined into an atomic
// upsert: the lookup-then-insert window matches the accepted duplicate
// tolerance under concurrent batches.
type Tx interface {
	FindUser(ctx context.Context, id string) (users.User, bool, error)
	FindTire(ctx context.Context, dims catalog.Dimensions) (Tire, bool, error)
	CreateTire(ctx context.Context, dims catalog.Dimensions) (Tire, error)
	OwnershipExists(ctx context.Context, userIdx, tireIdx int64) (bool, error)
	CreateOwnership(ctx context.Context, userIdx, tireIdx int64) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
