package service

import (
	"context"
	"time"

	"github.com/spec-kit/crm-ticketing/internal/domain"
	"github.com/spec-kit/crm-ticketing/internal/repository"
	apperrors "github.com/spec-kit/crm-ticketing/pkg/util"
)

// openedSeriesDays is the trailing window length for the opened-tickets
// series, today inclusive.
const openedSeriesDays = 10

// DayCount is one point of the opened-tickets series.
type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// StatsService derives dashboard numbers from current ticket state. Every
// call recomputes; nothing is cached or incrementally maintained.
type StatsService struct {
	stats repository.StatsRepository
	now   func() time.Time
}

// NewStatsService builds the service.
func NewStatsService(stats repository.StatsRepository) *StatsService {
	return &StatsService{stats: stats, now: time.Now}
}

// OpenCount counts tickets currently Open.
func (s *StatsService) OpenCount(ctx context.Context) (int64, error) {
	count, err := s.stats.CountByStatus(ctx, domain.TicketStatusOpen)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// InProgressCount counts tickets currently In Progress.
func (s *StatsService) InProgressCount(ctx context.Context) (int64, error) {
	count, err := s.stats.CountByStatus(ctx, domain.TicketStatusInProgress)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// TotalCount counts all tickets.
func (s *StatsService) TotalCount(ctx context.Context) (int64, error) {
	count, err := s.stats.CountTotal(ctx)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// UrgentCount counts tickets at Urgent priority.
func (s *StatsService) UrgentCount(ctx context.Context) (int64, error) {
	count, err := s.stats.CountByPriority(ctx, domain.TicketPriorityUrgent)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// OpenedSeries returns the count of tickets created per calendar day for
// the trailing 10 days, oldest first. The series is calendar-complete:
// days with no tickets appear with count zero. Days are UTC calendar
// days so window boundaries and bucket labels always agree, whatever
// the host timezone.
func (s *StatsService) OpenedSeries(ctx context.Context) ([]DayCount, error) {
	now := s.now().In(time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -(openedSeriesDays - 1))
	to := today.AddDate(0, 0, 1)

	counts, err := s.stats.CreatedPerDay(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	series := make([]DayCount, 0, openedSeriesDays)
	for i := 0; i < openedSeriesDays; i++ {
		day := from.AddDate(0, 0, i).Format("2006-01-02")
		series = append(series, DayCount{Day: day, Count: counts[day]})
	}
	return series, nil
}
