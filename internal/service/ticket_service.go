package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-ticketing/internal/domain"
	"github.com/spec-kit/crm-ticketing/internal/events"
	"github.com/spec-kit/crm-ticketing/internal/repository"
	apperrors "github.com/spec-kit/crm-ticketing/pkg/util"
)

// TicketService owns the ticket lifecycle. Status and priority are two
// independent enumerations with no transition graph: every value may move to
// every other value, including out of Closed.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	CreatedBy   string
}

// TicketUpdateInput describes the admin partial update; nil fields are left
// untouched.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Status      *domain.TicketStatus
}

// TicketListFilter describes listing filters. A search term disables status
// filtering entirely.
type TicketListFilter struct {
	Search   string
	Statuses []domain.TicketStatus
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, users repository.UserRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, users: users, dispatcher: dispatcher}
}

// Create opens a new ticket. Status defaults to Open, priority to Low, and
// the assignee to the creator. The creator must exist.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("title and description are required", nil)
	}
	if _, err := s.users.GetByID(ctx, input.CreatedBy); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("creating user does not exist", map[string]any{"user_id": input.CreatedBy})
		}
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
		Priority:    domain.TicketPriorityLow,
		CreatedBy:   input.CreatedBy,
		AssignedTo:  input.CreatedBy,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  input.CreatedBy,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Status:   ticket.Status,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// UpdateFields applies an admin partial update. Only supplied fields are
// written; a supplied status must be in the 4-value set.
func (s *TicketService) UpdateFields(ctx context.Context, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	if input.Status != nil && !domain.ValidStatus(*input.Status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
	}
	ticket, err := s.getTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	if input.Title != nil {
		ticket.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		ticket.Status = *input.Status
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if input.Status != nil && oldStatus != ticket.Status {
		s.publishStatusChange(ctx, ticket, oldStatus)
	}
	return ticket, nil
}

// SetStatus moves a ticket to any member of the status set.
func (s *TicketService) SetStatus(ctx context.Context, id string, newStatus domain.TicketStatus, actorID string) (*domain.Ticket, error) {
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}
	ticket, err := s.getTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStatus := ticket.Status
	ticket.Status = newStatus
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if oldStatus != newStatus {
		s.publishStatusChange(ctx, ticket, oldStatus)
	}
	return ticket, nil
}

// SetPriority moves a ticket to any member of the priority set.
func (s *TicketService) SetPriority(ctx context.Context, id string, newPriority domain.TicketPriority, actorID string) (*domain.Ticket, error) {
	if !domain.ValidPriority(newPriority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": newPriority})
	}
	ticket, err := s.getTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	oldPriority := ticket.Priority
	ticket.Priority = newPriority
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if oldPriority != newPriority {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketPriorityChanged,
			TicketID: ticket.ID,
			ActorID:  actorID,
			Payload: events.TicketPriorityChangedPayload{
				OldPriority: oldPriority,
				NewPriority: newPriority,
			},
		})
	}
	return ticket, nil
}

// Delete removes a ticket permanently. No soft delete or tombstone.
func (s *TicketService) Delete(ctx context.Context, id string) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{Type: events.EventTicketDeleted, TicketID: id})
	return nil
}

// List returns tickets in triage order: status rank, then priority rank,
// then oldest first. A search term filters by title substring; otherwise an
// optional status set filters, filters never combine.
func (s *TicketService) List(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{}
	if strings.TrimSpace(filter.Search) != "" {
		search := filter.Search
		repoFilter.Search = &search
	} else if len(filter.Statuses) > 0 {
		for _, status := range filter.Statuses {
			if !domain.ValidStatus(status) {
				return nil, apperrors.NewValidationError("invalid status filter", map[string]any{"status": status})
			}
		}
		repoFilter.Statuses = filter.Statuses
	}

	tickets, err := s.tickets.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		return domain.TriageLess(tickets[i], tickets[j])
	})
	return tickets, nil
}

// GetByID fetches a single ticket.
func (s *TicketService) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.getTicket(ctx, id)
}

func (s *TicketService) getTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) publishStatusChange(ctx context.Context, ticket *domain.Ticket, oldStatus domain.TicketStatus) {
	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
		},
	})
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
