// Package memory provides in-memory implementations of the repository
// interfaces. They back unit and handler tests, mirroring the row-level
// contract of the Postgres repositories without a database.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-ticketing/internal/domain"
	"github.com/spec-kit/crm-ticketing/internal/repository"
)

// Store holds all collections behind one lock so cross-entity reads (comment
// author joins, article category joins, ticket aggregates) stay consistent.
type Store struct {
	mu         sync.Mutex
	nextID     int
	users      map[string]domain.User
	tickets    map[string]domain.Ticket
	comments   map[string]domain.Comment
	articles   map[string]domain.Article
	categories map[string]domain.Category
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]domain.User),
		tickets:    make(map[string]domain.Ticket),
		comments:   make(map[string]domain.Comment),
		articles:   make(map[string]domain.Article),
		categories: make(map[string]domain.Category),
	}
}

func (s *Store) newID() string {
	s.nextID++
	return strconv.Itoa(s.nextID)
}

// Users returns the user repository view.
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

// Tickets returns the ticket repository view.
func (s *Store) Tickets() repository.TicketRepository { return &ticketRepo{s} }

// Comments returns the comment repository view.
func (s *Store) Comments() repository.CommentRepository { return &commentRepo{s} }

// Articles returns the article repository view.
func (s *Store) Articles() repository.ArticleRepository { return &articleRepo{s} }

// Categories returns the category repository view.
func (s *Store) Categories() repository.CategoryRepository { return &categoryRepo{s} }

// Stats returns the statistics repository view.
func (s *Store) Stats() repository.StatsRepository { return &statsRepo{s} }

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.ID = r.s.newID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.users, id)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *userRepo) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]domain.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

type ticketRepo struct{ s *Store }

func (r *ticketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket.ID = r.s.newID()
	if ticket.DateCreated.IsZero() {
		ticket.DateCreated = time.Now()
	}
	r.s.tickets[ticket.ID] = *ticket
	return nil
}

func (r *ticketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.CreatedBy = existing.CreatedBy
	ticket.DateCreated = existing.DateCreated
	r.s.tickets[ticket.ID] = *ticket
	return nil
}

func (r *ticketRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.tickets, id)
	return nil
}

func (r *ticketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *ticketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []domain.Ticket
	for _, ticket := range r.s.tickets {
		if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
			needle := strings.ToLower(strings.TrimSpace(*filter.Search))
			if !strings.Contains(strings.ToLower(ticket.Title), needle) {
				continue
			}
		} else if len(filter.Statuses) > 0 {
			match := false
			for _, status := range filter.Statuses {
				if ticket.Status == status {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, ticket)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DateCreated.Before(result[j].DateCreated) })
	return result, nil
}

type commentRepo struct{ s *Store }

func (r *commentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	comment.ID = r.s.newID()
	if comment.DateCreated.IsZero() {
		comment.DateCreated = time.Now()
	}
	r.s.comments[comment.ID] = *comment
	return nil
}

func (r *commentRepo) UpdateText(_ context.Context, id, text string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	comment, ok := r.s.comments[id]
	if !ok {
		return pgx.ErrNoRows
	}
	comment.Text = text
	r.s.comments[id] = comment
	return nil
}

func (r *commentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.comments, id)
	return nil
}

func (r *commentRepo) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	comment, ok := r.s.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &comment, nil
}

func (r *commentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.CommentWithAuthor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []domain.CommentWithAuthor
	for _, comment := range r.s.comments {
		if comment.TicketID != ticketID {
			continue
		}
		entry := domain.CommentWithAuthor{Comment: comment}
		if author, ok := r.s.users[comment.UserID]; ok {
			entry.AuthorUsername = author.Username
			entry.AuthorProfilePicture = author.ProfilePicture
		}
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DateCreated.After(result[j].DateCreated) })
	return result, nil
}

type articleRepo struct{ s *Store }

func (r *articleRepo) Create(_ context.Context, article *domain.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	article.ID = r.s.newID()
	if article.DateCreated.IsZero() {
		article.DateCreated = time.Now()
	}
	r.s.articles[article.ID] = *article
	return nil
}

func (r *articleRepo) Update(_ context.Context, article *domain.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.articles[article.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	article.AuthorID = existing.AuthorID
	article.DateCreated = existing.DateCreated
	r.s.articles[article.ID] = *article
	return nil
}

func (r *articleRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.articles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.articles, id)
	return nil
}

func (r *articleRepo) GetByID(_ context.Context, id string) (*domain.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	article, ok := r.s.articles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	r.joinCategory(&article)
	return &article, nil
}

func (r *articleRepo) Search(_ context.Context, words []string, sortBy repository.ArticleSort) ([]domain.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []domain.Article
	for _, article := range r.s.articles {
		if !domain.ArticleMatchesWords(article, words) {
			continue
		}
		r.joinCategory(&article)
		result = append(result, article)
	}
	sort.Slice(result, func(i, j int) bool {
		var less bool
		switch sortBy.Field {
		case "title":
			less = result[i].Title < result[j].Title
		case "category":
			less = result[i].CategoryTitle < result[j].CategoryTitle
		default:
			less = result[i].DateCreated.Before(result[j].DateCreated)
		}
		if sortBy.Desc {
			return !less
		}
		return less
	})
	return result, nil
}

func (r *articleRepo) joinCategory(article *domain.Article) {
	article.CategoryTitle = ""
	if article.CategoryID == nil {
		return
	}
	if category, ok := r.s.categories[*article.CategoryID]; ok {
		article.CategoryTitle = category.Title
	}
}

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Create(_ context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	category.ID = r.s.newID()
	r.s.categories[category.ID] = *category
	return nil
}

func (r *categoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.categories, id)
	return nil
}

func (r *categoryRepo) List(_ context.Context) ([]domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]domain.Category, 0, len(r.s.categories))
	for _, category := range r.s.categories {
		result = append(result, category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result, nil
}

type statsRepo struct{ s *Store }

func (r *statsRepo) CountByStatus(_ context.Context, status domain.TicketStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, ticket := range r.s.tickets {
		if ticket.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *statsRepo) CountByPriority(_ context.Context, priority domain.TicketPriority) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, ticket := range r.s.tickets {
		if ticket.Priority == priority {
			count++
		}
	}
	return count, nil
}

func (r *statsRepo) CountTotal(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.tickets)), nil
}

func (r *statsRepo) CreatedPerDay(_ context.Context, from, to time.Time) (map[string]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make(map[string]int64)
	for _, ticket := range r.s.tickets {
		if ticket.DateCreated.Before(from) || !ticket.DateCreated.Before(to) {
			continue
		}
		result[ticket.DateCreated.In(time.UTC).Format("2006-01-02")]++
	}
	return result, nil
}
