package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicdesk/grievance-service/internal/domain"
)

// GrievanceFilter narrows list queries. Nil fields are ignored.
type GrievanceFilter struct {
	UserID     *int64
	Department *domain.Department
	Status     *domain.GrievanceStatus
}

// GrievanceRepository encapsulates grievance persistence.
type GrievanceRepository interface {
	Create(ctx context.Context, grievance *domain.Grievance) error
	Update(ctx context.Context, grievance *domain.Grievance) error
	GetByID(ctx context.Context, id int64) (*domain.Grievance, error)
	List(ctx context.Context, filter GrievanceFilter) ([]domain.Grievance, error)
}

type grievanceRepository struct {
	pool *pgxpool.Pool
}

// NewGrievanceRepository instantiates the Postgres repository.
func NewGrievanceRepository(pool *pgxpool.Pool) GrievanceRepository {
	return &grievanceRepository{pool: pool}
}

const grievanceColumns = `id, title, description, status, department, user_id, response, created_at, updated_at`

func (r *grievanceRepository) Create(ctx context.Context, grievance *domain.Grievance) error {
	const query = `
        INSERT INTO grievances (title, description, status, department, user_id, response)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		grievance.Title,
		grievance.Description,
		grievance.Status,
		grievance.Department,
		grievance.UserID,
		grievance.Response,
	).Scan(&grievance.ID, &grievance.CreatedAt, &grievance.UpdatedAt)
	return translate(err)
}

func (r *grievanceRepository) Update(ctx context.Context, grievance *domain.Grievance) error {
	const query = `
        UPDATE grievances SET title=$1, description=$2, status=$3, department=$4, response=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		grievance.Title,
		grievance.Description,
		grievance.Status,
		grievance.Department,
		grievance.Response,
		grievance.ID,
	).Scan(&grievance.UpdatedAt)
	return translate(err)
}

func (r *grievanceRepository) GetByID(ctx context.Context, id int64) (*domain.Grievance, error) {
	query := `SELECT ` + grievanceColumns + ` FROM grievances WHERE id=$1`
	var g domain.Grievance
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&g.ID,
		&g.Title,
		&g.Description,
		&g.Status,
		&g.Department,
		&g.UserID,
		&g.Response,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *grievanceRepository) List(ctx context.Context, filter GrievanceFilter) ([]domain.Grievance, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM grievances WHERE %s ORDER BY id ASC`,
		grievanceColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGrievances(rows)
}

func scanGrievances(rows pgx.Rows) ([]domain.Grievance, error) {
	var result []domain.Grievance
	for rows.Next() {
		var g domain.Grievance
		if err := rows.Scan(
			&g.ID,
			&g.Title,
			&g.Description,
			&g.Status,
			&g.Department,
			&g.UserID,
			&g.Response,
			&g.CreatedAt,
			&g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	return result, rows.Err()
}
