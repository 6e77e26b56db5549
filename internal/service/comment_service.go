package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-ticketing/internal/domain"
	"github.com/spec-kit/crm-ticketing/internal/events"
	"github.com/spec-kit/crm-ticketing/internal/repository"
	apperrors "github.com/spec-kit/crm-ticketing/pkg/util"
)

// CommentService manages ticket comment threads. Edit and delete carry no
// ownership check: any authenticated caller may mutate any comment.
type CommentService struct {
	comments   repository.CommentRepository
	tickets    repository.TicketRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(comments repository.CommentRepository, tickets repository.TicketRepository, users repository.UserRepository, dispatcher events.Dispatcher) *CommentService {
	return &CommentService{comments: comments, tickets: tickets, users: users, dispatcher: dispatcher}
}

// Add appends a comment to a ticket thread, timestamped at server time. The
// ticket and author must both exist.
func (s *CommentService) Add(ctx context.Context, ticketID, userID, text string) (*domain.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("text is required", nil)
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("commenting user does not exist", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}

	comment := &domain.Comment{
		TicketID: ticketID,
		UserID:   userID,
		Text:     strings.TrimSpace(text),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCommentAdded,
			TicketID:  ticketID,
			ActorID:   userID,
			Timestamp: time.Now(),
			Payload: events.CommentAddedPayload{
				CommentID:   comment.ID,
				TextPreview: textPreview(comment.Text, 120),
			},
		})
	}
	return comment, nil
}

// ListByTicket returns the thread newest first, with author display fields
// joined in.
func (s *CommentService) ListByTicket(ctx context.Context, ticketID string) ([]domain.CommentWithAuthor, error) {
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}

// Update overwrites a comment's text.
func (s *CommentService) Update(ctx context.Context, id, text string) (*domain.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("text is required", nil)
	}
	if err := s.comments.UpdateText(ctx, id, strings.TrimSpace(text)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comment", map[string]any{"comment_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

// Delete removes a comment.
func (s *CommentService) Delete(ctx context.Context, id string) error {
	if err := s.comments.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("comment", map[string]any{"comment_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func textPreview(text string, max int) string {
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	if max <= 3 {
		return text[:max]
	}
	return text[:max-3] + "..."
}
