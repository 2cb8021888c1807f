package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/handmade-storefront/internal/domain/auth"
)

const (
	findUserSQL = `SELECT id, username, password_hash, role, created_at FROM users WHERE username = $1`

	upsertUserSQL = `INSERT INTO users (id, username, password_hash, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role`
)

var _ auth.Repository = (*UserRepository)(nil)

// UserRepository implements auth.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	var u auth.User
	err := r.pool.QueryRow(ctx, findUserSQL, username).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("finding user %q: %w", username, err)
	}
	return &u, nil
}

func (r *UserRepository) UpsertUser(ctx context.Context, u *auth.User) error {
	_, err := r.pool.Exec(ctx, upsertUserSQL, u.ID, u.Username, u.PasswordHash, u.Role)
	if err != nil {
		return fmt.Errorf("upserting user %q: %w", u.Username, err)
	}
	return nil
}
