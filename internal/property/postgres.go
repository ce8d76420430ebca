package property

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/treadbook/treadbook/internal/catalog"
	"github.com/treadbook/treadbook/internal/users"
)

// PostgresStore persists tires and properties in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a Postgres-backed property store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Begin opens a registration transaction.
func (s *PostgresStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	return &postgresTx{tx: tx}, nil
}

// ListByOwner returns one page of the user's properties joined with their
// tires, plus the total count.
func (s *PostgresStore) ListByOwner(ctx context.Context, ownerIdx int64, page, limit int) ([]Record, int64, error) {
	var count int64
	if err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM properties WHERE user_idx = $1`, ownerIdx,
	).Scan(&count); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(ctx, `
        SELECT p.idx, t.idx, t.width, t.aspect_ratio, t.wheel_size
        FROM properties p
        INNER JOIN tires t ON t.idx = p.tire_idx
        WHERE p.user_idx = $1
        ORDER BY p.idx
        LIMIT $2 OFFSET $3`,
		ownerIdx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := make([]Record, 0, limit)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Idx, &rec.Tire.Idx, &rec.Tire.Width, &rec.Tire.AspectRatio, &rec.Tire.WheelSize); err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, count, nil
}

// GetByIdx returns a single property scoped to its owner.
func (s *PostgresStore) GetByIdx(ctx context.Context, idx, ownerIdx int64) (Record, error) {
	row := s.db.QueryRow(ctx, `
        SELECT p.idx, t.idx, t.width, t.aspect_ratio, t.wheel_size
        FROM properties p
        INNER JOIN tires t ON t.idx = p.tire_idx
        WHERE p.idx = $1 AND p.user_idx = $2`,
		idx, ownerIdx)

	var rec Record
	if err := row.Scan(&rec.Idx, &rec.Tire.Idx, &rec.Tire.Width, &rec.Tire.AspectRatio, &rec.Tire.WheelSize); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNoRecord
		}
		return Record{}, err
	}
	return rec, nil
}

type postgresTx struct {
	tx pgx.Tx
}

func (t *postgresTx) FindUser(ctx context.Context, id string) (users.User, bool, error) {
	row := t.tx.QueryRow(ctx,
		`SELECT idx, id, password_hash, created_at FROM users WHERE id = $1`, id)

	var (
		user      users.User
		createdAt time.Time
	)
	if err := row.Scan(&user.Idx, &user.ID, &user.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return users.User{}, false, nil
		}
		return users.User{}, false, err
	}
	user.CreatedAt = createdAt.UTC()
	return user, true, nil
}

func (t *postgresTx) FindTire(ctx context.Context, dims catalog.Dimensions) (Tire, bool, error) {
	// Exact-match lookup, no row lock: see the Tx doc comment.
	row := t.tx.QueryRow(ctx, `
        SELECT idx, width, aspect_ratio, wheel_size FROM tires
        WHERE width = $1 AND aspect_ratio = $2 AND wheel_size = $3`,
		dims.Width, dims.AspectRatio, dims.WheelSize)

	var tire Tire
	if err := row.Scan(&tire.Idx, &tire.Width, &tire.AspectRatio, &tire.WheelSize); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tire{}, false, nil
		}
		return Tire{}, false, err
	}
	return tire, true, nil
}

func (t *postgresTx) CreateTire(ctx context.Context, dims catalog.Dimensions) (Tire, error) {
	tire := Tire{Width: dims.Width, AspectRatio: dims.AspectRatio, WheelSize: dims.WheelSize}
	err := t.tx.QueryRow(ctx,
		`INSERT INTO tires (width, aspect_ratio, wheel_size) VALUES ($1, $2, $3) RETURNING idx`,
		dims.Width, dims.AspectRatio, dims.WheelSize,
	).Scan(&tire.Idx)
	if err != nil {
		return Tire{}, err
	}
	return tire, nil
}

func (t *postgresTx) OwnershipExists(ctx context.Context, userIdx, tireIdx int64) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM properties WHERE user_idx = $1 AND tire_idx = $2)`,
		userIdx, tireIdx,
	).Scan(&exists)
	return exists, err
}

func (t *postgresTx) CreateOwnership(ctx context.Context, userIdx, tireIdx int64) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO properties (user_idx, tire_idx) VALUES ($1, $2)`,
		userIdx, tireIdx)
	return err
}

func (t *postgresTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *postgresTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}
