package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicdesk/grievance-service/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// CreateAll inserts every user in one transaction; nothing is written if any insert fails.
	CreateAll(ctx context.Context, users []*domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const insertUserQuery = `
        INSERT INTO users (username, email, password_hash, is_admin, department)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return translate(insertUser(ctx, r.pool, user))
}

func (r *userRepository) CreateAll(ctx context.Context, users []*domain.User) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, user := range users {
		if err := insertUser(ctx, tx, user); err != nil {
			return translate(err)
		}
	}
	return tx.Commit(ctx)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertUser(ctx context.Context, q queryRower, user *domain.User) error {
	return q.QueryRow(ctx, insertUserQuery,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsAdmin,
		user.Department,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
        SELECT id, username, email, password_hash, is_admin, department, created_at
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `
        SELECT id, username, email, password_hash, is_admin, department, created_at
        FROM users WHERE username=$1`
	return r.fetchSingle(ctx, query, username)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.Department,
		&user.CreatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
