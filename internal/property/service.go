package property

import (
	"context"
	"fmt"
	"net/http"

	"github.com/treadbook/treadbook/internal/catalog"
	"github.com/treadbook/treadbook/internal/users"
)

// MaxBatchSize bounds one registration request. The handler rejects empty
// and oversized batches before the service runs.
const MaxBatchSize = 5

// RegistrationInput is one (user id, trim id) pair of a registration batch.
type RegistrationInput struct {
	UserID string `json:"id" validate:"required"`
	TrimID int64  `json:"trimId" validate:"required"`
}

// Outcome reports the result of one batch registration. On failure,
// HTTPStatus and Error carry the classification of the first step that
// failed, in input order.
type Outcome struct {
	OK         bool
	HTTPStatus int
	Error      string
}

// Service drives the registration workflow and the read-side queries.
type Service struct {
	store   Store
	catalog catalog.Client
}

// NewService builds a property service.
func NewService(store Store, catalogClient catalog.Client) *Service {
	return &Service{store: store, catalog: catalogClient}
}

// CreateProperties registers a batch of (user id, trim id) pairs inside one
// transaction. For each item it validates the user, resolves tire dimensions
// through the catalog, finds or creates the tire row, and finds or creates
// the ownership row. The first failure aborts the pass and rolls back the
// whole batch; nothing is committed partially.
//
// Lookups are memoized per batch so a user id or trim id repeated within one
// request costs one lookup. The memo maps live and die with this call.
func (s *Service) CreateProperties(ctx context.Context, batch []RegistrationInput) Outcome {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return Outcome{HTTPStatus: http.StatusInternalServerError, Error: "failed to start registration"}
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	resolvedUsers := make(map[string]users.User)
	resolvedDims := make(map[int64]catalog.Dimensions)

	for _, item := range batch {
		user, seen := resolvedUsers[item.UserID]
		if !seen {
			found := false
			user, found, err = tx.FindUser(ctx, item.UserID)
			if err != nil {
				return Outcome{
					HTTPStatus: http.StatusInternalServerError,
					Error:      fmt.Sprintf("failed to look up account %s", item.UserID),
				}
			}
			if !found {
				return Outcome{
					HTTPStatus: http.StatusBadRequest,
					Error:      fmt.Sprintf("account %s does not exist", item.UserID),
				}
			}
			resolvedUsers[item.UserID] = user
		}

		dims, seen := resolvedDims[item.TrimID]
		if !seen {
			dims, err = s.catalog.ResolveTireInfo(ctx, item.TrimID)
			if err != nil {
				return Outcome{
					HTTPStatus: http.StatusBadRequest,
					Error:      fmt.Sprintf("%d is not a valid trim id", item.TrimID),
				}
			}
			resolvedDims[item.TrimID] = dims
		}

		tire, found, err := tx.FindTire(ctx, dims)
		if err != nil {
			return Outcome{HTTPStatus: http.StatusInternalServerError, Error: "failed to resolve tire"}
		}
		if !found {
			if tire, err = tx.CreateTire(ctx, dims); err != nil {
				return Outcome{HTTPStatus: http.StatusInternalServerError, Error: "failed to resolve tire"}
			}
		}

		exists, err := tx.OwnershipExists(ctx, user.Idx, tire.Idx)
		if err != nil {
			return Outcome{HTTPStatus: http.StatusInternalServerError, Error: "failed to register property"}
		}
		if !exists {
			if err := tx.CreateOwnership(ctx, user.Idx, tire.Idx); err != nil {
				return Outcome{HTTPStatus: http.StatusInternalServerError, Error: "failed to register property"}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Outcome{HTTPStatus: http.StatusInternalServerError, Error: "failed to commit registration"}
	}

	return Outcome{OK: true}
}

// GetProperties returns one page of the user's registered tires. Page
// numbers start at 1; a non-positive limit falls back to the default of 5.
func (s *Service) GetProperties(ctx context.Context, ownerIdx int64, page, limit int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 5
	}

	records, count, err := s.store.ListByOwner(ctx, ownerIdx, page, limit)
	if err != nil {
		return Page{}, err
	}
	return Page{Count: count, Data: records}, nil
}

// GetProperty returns a single registered tire scoped to its owner.
func (s *Service) GetProperty(ctx context.Context, idx, ownerIdx int64) (Record, error) {
	return s.store.GetByIdx(ctx, idx, ownerIdx)
}
