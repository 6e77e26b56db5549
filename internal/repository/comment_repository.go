package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-ticketing/internal/domain"
)

// CommentRepository manages ticket comment rows.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	UpdateText(ctx context.Context, id, text string) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.CommentWithAuthor, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (ticket_id, user_id, text)
        VALUES ($1,$2,$3)
        RETURNING id, date_created`
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.UserID,
		comment.Text,
	).Scan(&comment.ID, &comment.DateCreated)
}

func (r *commentRepository) UpdateText(ctx context.Context, id, text string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE comments SET text=$1 WHERE id=$2`, text, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	const query = `
        SELECT id, ticket_id, user_id, text, date_created
        FROM comments WHERE id=$1`
	var comment domain.Comment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.TicketID,
		&comment.UserID,
		&comment.Text,
		&comment.DateCreated,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.CommentWithAuthor, error) {
	const query = `
        SELECT c.id, c.ticket_id, c.user_id, c.text, c.date_created,
               COALESCE(u.username, ''), COALESCE(u.profile_picture, '')
        FROM comments c
        LEFT JOIN users u ON u.id = c.user_id
        WHERE c.ticket_id=$1
        ORDER BY c.date_created DESC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CommentWithAuthor
	for rows.Next() {
		var comment domain.CommentWithAuthor
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.UserID,
			&comment.Text,
			&comment.DateCreated,
			&comment.AuthorUsername,
			&comment.AuthorProfilePicture,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
