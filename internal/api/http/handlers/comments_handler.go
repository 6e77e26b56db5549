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

// CommentsHandler exposes the ticket discussion endpoints.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: commentService}
}

// Create handles POST /api/comments. The author is taken from the token
// claims.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authorization token is required")
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.comments.Add(c.Context(), req.TicketID, claims.UserID, req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// ListByTicket handles GET /api/comments/ticket/:ticketId, newest first.
func (h *CommentsHandler) ListByTicket(c *fiber.Ctx) error {
	comments, err := h.comments.ListByTicket(c.Context(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, commentWithAuthorResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Update handles PUT /api/comments/:id.
func (h *CommentsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.comments.Update(c.Context(), c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": commentResponse(comment)})
}

// Delete handles DELETE /api/comments/:id.
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.comments.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:          comment.ID,
		TicketID:    comment.TicketID,
		UserID:      comment.UserID,
		Text:        comment.Text,
		DateCreated: comment.DateCreated,
	}
}

func commentWithAuthorResponse(comment *domain.CommentWithAuthor) dto.CommentResponse {
	resp := commentResponse(&comment.Comment)
	resp.Username = comment.AuthorUsername
	resp.ProfilePicture = comment.AuthorProfilePicture
	return resp
}
