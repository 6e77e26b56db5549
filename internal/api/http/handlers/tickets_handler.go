package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-ticketing/internal/api/dto"
	"github.com/spec-kit/crm-ticketing/internal/auth"
	"github.com/spec-kit/crm-ticketing/internal/domain"
	"github.com/spec-kit/crm-ticketing/internal/service"
	apperrors "github.com/spec-kit/crm-ticketing/pkg/util"
)

// TicketsHandler exposes the ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService}
}

// Create handles POST /api/tickets. The creator is taken from the token
// claims, never from the payload.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authorization token is required")
	}

	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.Create(c.Context(), service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   claims.UserID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// List handles GET /api/tickets with optional ?search= and ?status= (a
// comma separated list). A search term takes precedence over statuses.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	filter := service.TicketListFilter{Search: strings.TrimSpace(c.Query("search"))}
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(part))
		}
	}

	tickets, err := h.tickets.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /api/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.tickets.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Update handles PUT /api/tickets/:id, the admin partial update.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.UpdateFields(c.Context(), c.Params("id"), service.TicketUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateStatus handles PUT /api/tickets/update-status/:id.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authorization token is required")
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.SetStatus(c.Context(), c.Params("id"), req.Status, claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdatePriority handles PUT /api/tickets/update-priority/:id.
func (h *TicketsHandler) UpdatePriority(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authorization token is required")
	}

	var req dto.UpdatePriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.SetPriority(c.Context(), c.Params("id"), req.Priority, claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Delete handles DELETE /api/tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	if err := h.tickets.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		CreatedBy:   ticket.CreatedBy,
		AssignedTo:  ticket.AssignedTo,
		DateCreated: ticket.DateCreated,
	}
}
