package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-ticketing/internal/domain"
)

// ArticleSort carries a validated sort column and direction. Construction is
// the service's responsibility; the repository trusts the canonical values.
type ArticleSort struct {
	Field string
	Desc  bool
}

// sortColumns maps canonical sort fields to SQL expressions.
var sortColumns = map[string]string{
	"title":        "a.title",
	"category":     "c.title",
	"date_created": "a.date_created",
}

// ArticleRepository manages knowledgebase articles.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	Search(ctx context.Context, words []string, sort ArticleSort) ([]domain.Article, error)
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository builds repository.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	const query = `
        INSERT INTO articles (author_id, title, text, category_id, attachments)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, date_created`
	return r.pool.QueryRow(ctx, query,
		article.AuthorID,
		article.Title,
		article.Text,
		article.CategoryID,
		article.Attachments,
	).Scan(&article.ID, &article.DateCreated)
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) error {
	const query = `
        UPDATE articles SET title=$1, text=$2, category_id=$3, attachments=$4
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		article.Title,
		article.Text,
		article.CategoryID,
		article.Attachments,
		article.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	const query = `
        SELECT a.id, a.author_id, a.title, a.text, a.category_id, COALESCE(c.title, ''), a.attachments, a.date_created
        FROM articles a
        LEFT JOIN categories c ON c.id = a.category_id
        WHERE a.id=$1`
	var article domain.Article
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&article.ID,
		&article.AuthorID,
		&article.Title,
		&article.Text,
		&article.CategoryID,
		&article.CategoryTitle,
		&article.Attachments,
		&article.DateCreated,
	); err != nil {
		return nil, err
	}
	return &article, nil
}

// Search matches every article whose title or body contains ANY of the
// given words (broad recall, no ranking). Articles with a dangling category
// reference still appear: the category join is a LEFT JOIN.
func (r *articleRepository) Search(ctx context.Context, words []string, sort ArticleSort) ([]domain.Article, error) {
	base := `SELECT a.id, a.author_id, a.title, a.text, a.category_id, COALESCE(c.title, ''), a.attachments, a.date_created
             FROM articles a
             LEFT JOIN categories c ON c.id = a.category_id`

	clauses := []string{}
	args := []any{}
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		args = append(args, "%"+strings.ToLower(word)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(a.title) LIKE %s OR LOWER(a.text) LIKE %s)", placeholder, placeholder))
	}

	query := base
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " OR ")
	}

	column, ok := sortColumns[sort.Field]
	if !ok {
		column = "a.date_created"
	}
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", column, direction)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Article
	for rows.Next() {
		var article domain.Article
		if err := rows.Scan(
			&article.ID,
			&article.AuthorID,
			&article.Title,
			&article.Text,
			&article.CategoryID,
			&article.CategoryTitle,
			&article.Attachments,
			&article.DateCreated,
		); err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}
