package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-ticketing/internal/domain"
)

// StatsRepository exposes aggregate reads over current ticket state. Every
// call recomputes from the live rows; nothing is cached or materialized.
type StatsRepository interface {
	CountByStatus(ctx context.Context, status domain.TicketStatus) (int64, error)
	CountByPriority(ctx context.Context, priority domain.TicketPriority) (int64, error)
	CountTotal(ctx context.Context) (int64, error)
	CreatedPerDay(ctx context.Context, from, to time.Time) (map[string]int64, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository builds repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) CountByStatus(ctx context.Context, status domain.TicketStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE status=$1`, status).Scan(&count)
	return count, err
}

func (r *statsRepository) CountByPriority(ctx context.Context, priority domain.TicketPriority) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE priority=$1`, priority).Scan(&count)
	return count, err
}

func (r *statsRepository) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&count)
	return count, err
}

// CreatedPerDay returns ticket creation counts keyed by UTC calendar day
// ("2006-01-02") within [from, to). Days with no tickets are absent from
// the map; the caller zero-fills the window. Bucketing is forced to UTC
// so the keys match the caller's labels regardless of the DB session
// timezone.
func (r *statsRepository) CreatedPerDay(ctx context.Context, from, to time.Time) (map[string]int64, error) {
	const query = `
        SELECT TO_CHAR(date_created AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
        FROM tickets
        WHERE date_created >= $1 AND date_created < $2
        GROUP BY day`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var day string
		var count int64
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		result[day] = count
	}
	return result, rows.Err()
}
