package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-ticketing/internal/domain"
	"github.com/spec-kit/crm-ticketing/internal/repository"
	apperrors "github.com/spec-kit/crm-ticketing/pkg/util"
)

// validSortFields is the allow-list for article search ordering.
var validSortFields = map[string]struct{}{
	"title":        {},
	"category":     {},
	"date_created": {},
}

// KnowledgebaseService manages articles and their categories.
type KnowledgebaseService struct {
	articles   repository.ArticleRepository
	categories repository.CategoryRepository
}

// ArticleCreateInput describes a new article. Attachments are stored file
// references in display order; upload mechanics live elsewhere.
type ArticleCreateInput struct {
	AuthorID    string
	Title       string
	Text        string
	CategoryID  *string
	Attachments []string
}

// ArticleUpdateInput describes a partial article update.
type ArticleUpdateInput struct {
	Title       *string
	Text        *string
	CategoryID  *string
	Attachments []string
}

// NewKnowledgebaseService constructs the service.
func NewKnowledgebaseService(articles repository.ArticleRepository, categories repository.CategoryRepository) *KnowledgebaseService {
	return &KnowledgebaseService{articles: articles, categories: categories}
}

// Search splits the query on whitespace and returns every article whose
// title or body contains any of the words (union, no ranking). The sort
// field must be one of title, category, date_created and the order ASC or
// DESC; anything else is rejected.
func (s *KnowledgebaseService) Search(ctx context.Context, query, sortField, sortOrder string) ([]domain.Article, error) {
	if _, ok := validSortFields[sortField]; !ok {
		return nil, apperrors.NewValidationError("invalid field or order parameter", map[string]any{"field": sortField})
	}
	order := strings.ToUpper(sortOrder)
	if order != "ASC" && order != "DESC" {
		return nil, apperrors.NewValidationError("invalid field or order parameter", map[string]any{"order": sortOrder})
	}

	words := strings.Fields(query)
	articles, err := s.articles.Search(ctx, words, repository.ArticleSort{
		Field: sortField,
		Desc:  order == "DESC",
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return articles, nil
}

// GetArticle fetches a single article with its category title joined in.
func (s *KnowledgebaseService) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("article", map[string]any{"article_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// CreateArticle stores a new article authored by the caller.
func (s *KnowledgebaseService) CreateArticle(ctx context.Context, input ArticleCreateInput) (*domain.Article, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Text) == "" {
		return nil, apperrors.NewValidationError("title and text are required", nil)
	}
	article := &domain.Article{
		AuthorID:    input.AuthorID,
		Title:       strings.TrimSpace(input.Title),
		Text:        input.Text,
		CategoryID:  input.CategoryID,
		Attachments: input.Attachments,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// UpdateArticle applies a partial update. Only the author or an admin may
// edit; the gate is enforced here, against the stored author id.
func (s *KnowledgebaseService) UpdateArticle(ctx context.Context, id string, actorID string, actorRole domain.UserRole, input ArticleUpdateInput) (*domain.Article, error) {
	article, err := s.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorRole != domain.RoleAdmin && article.AuthorID != actorID {
		return nil, apperrors.NewForbidden("only the author or an admin may edit this article")
	}

	if input.Title != nil {
		article.Title = strings.TrimSpace(*input.Title)
	}
	if input.Text != nil {
		article.Text = *input.Text
	}
	if input.CategoryID != nil {
		article.CategoryID = input.CategoryID
	}
	if input.Attachments != nil {
		article.Attachments = input.Attachments
	}
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// DeleteArticle removes an article.
func (s *KnowledgebaseService) DeleteArticle(ctx context.Context, id string) error {
	if err := s.articles.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("article", map[string]any{"article_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ListCategories returns all categories.
func (s *KnowledgebaseService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// CreateCategory stores a category. The title must be non-empty and at most
// 30 characters: exactly 30 is accepted, 31 is rejected. The bound counts
// characters, not bytes, matching VARCHAR(30).
func (s *KnowledgebaseService) CreateCategory(ctx context.Context, title string) (*domain.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > domain.MaxCategoryTitleLength {
		return nil, apperrors.NewValidationError("please provide a valid title", map[string]any{"max_length": domain.MaxCategoryTitleLength})
	}
	category := &domain.Category{Title: title}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// DeleteCategory removes a category without touching articles that
// reference it; those keep a dangling category id.
func (s *KnowledgebaseService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}
