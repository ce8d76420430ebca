package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates no user matches the requested id.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateID indicates the requested login id is already taken.
	ErrDuplicateID = errors.New("id already exists")
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (User, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user and fills in the generated row index.
func (r *PostgresRepository) Create(ctx context.Context, user *User) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO users (id, password_hash, created_at) VALUES ($1, $2, $3) RETURNING idx`,
		user.ID, user.PasswordHash, user.CreatedAt.UTC(),
	).Scan(&user.Idx)
}

// FindByID fetches a user by login id.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT idx, id, password_hash, created_at FROM users WHERE id = $1`, id)

	var (
		user      User
		createdAt time.Time
	)
	if err := row.Scan(&user.Idx, &user.ID, &user.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.CreatedAt = createdAt.UTC()
	return user, nil
}
