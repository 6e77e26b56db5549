package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-ticketing/internal/api/dto"
	"github.com/spec-kit/crm-ticketing/internal/auth"
	"github.com/spec-kit/crm-ticketing/internal/domain"
	"github.com/spec-kit/crm-ticketing/internal/service"
	apperrors "github.com/spec-kit/crm-ticketing/pkg/util"
)

// KnowledgebaseHandler exposes article search and category management.
type KnowledgebaseHandler struct {
	kb *service.KnowledgebaseService
}

// NewKnowledgebaseHandler constructs handler.
func NewKnowledgebaseHandler(kbService *service.KnowledgebaseService) *KnowledgebaseHandler {
	return &KnowledgebaseHandler{kb: kbService}
}

// Search handles GET /api/knowledgebase with ?search=, ?field= and
// ?order=. Field and order fall back to newest-first when absent; values
// outside the allow-list are rejected.
func (h *KnowledgebaseHandler) Search(c *fiber.Ctx) error {
	field := c.Query("field", "date_created")
	order := c.Query("order", "DESC")

	articles, err := h.kb.Search(c.Context(), c.Query("search"), field, order)
	if err != nil {
		return err
	}
	items := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, articleResponse(&articles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetArticle handles GET /api/knowledgebase/:id.
func (h *KnowledgebaseHandler) GetArticle(c *fiber.Ctx) error {
	article, err := h.kb.GetArticle(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponse(article)})
}

// CreateArticle handles POST /api/knowledgebase. The author is taken from
// the token claims.
func (h *KnowledgebaseHandler) CreateArticle(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authorization token is required")
	}

	var req dto.CreateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	article, err := h.kb.CreateArticle(c.Context(), service.ArticleCreateInput{
		AuthorID:    claims.UserID,
		Title:       req.Title,
		Text:        req.Text,
		CategoryID:  req.CategoryID,
		Attachments: req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": articleResponse(article)})
}

// UpdateArticle handles PUT /api/knowledgebase/:id. Only the author or an
// admin may modify an article.
func (h *KnowledgebaseHandler) UpdateArticle(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authorization token is required")
	}

	var req dto.UpdateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	article, err := h.kb.UpdateArticle(c.Context(), c.Params("id"), claims.UserID, claims.Role, service.ArticleUpdateInput{
		Title:       req.Title,
		Text:        req.Text,
		CategoryID:  req.CategoryID,
		Attachments: req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponse(article)})
}

// DeleteArticle handles DELETE /api/knowledgebase/:id.
func (h *KnowledgebaseHandler) DeleteArticle(c *fiber.Ctx) error {
	if err := h.kb.DeleteArticle(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListCategories handles GET /api/knowledgebase/categories.
func (h *KnowledgebaseHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.kb.ListCategories(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, dto.CategoryResponse{ID: category.ID, Title: category.Title})
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateCategory handles POST /api/knowledgebase/categories.
func (h *KnowledgebaseHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	category, err := h.kb.CreateCategory(c.Context(), req.Title)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.CategoryResponse{ID: category.ID, Title: category.Title}})
}

// DeleteCategory handles DELETE /api/knowledgebase/categories/:id.
// Articles referencing the category keep their reference.
func (h *KnowledgebaseHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.kb.DeleteCategory(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func articleResponse(article *domain.Article) dto.ArticleResponse {
	return dto.ArticleResponse{
		ID:          article.ID,
		AuthorID:    article.AuthorID,
		Title:       article.Title,
		Text:        article.Text,
		CategoryID:  article.CategoryID,
		Category:    article.CategoryTitle,
		Attachments: article.Attachments,
		DateCreated: article.DateCreated,
	}
}
