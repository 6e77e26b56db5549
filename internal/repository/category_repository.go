package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-ticketing/internal/domain"
)

// CategoryRepository manages knowledgebase categories. Delete has no
// cascade: articles referencing a removed category keep the dangling id.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Category, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository builds repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `INSERT INTO categories (title) VALUES ($1) RETURNING id`
	return r.pool.QueryRow(ctx, query, category.Title).Scan(&category.ID)
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, title FROM categories ORDER BY title ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Title); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}
