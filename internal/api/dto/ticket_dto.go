package dto

import (
	"time"

	"github.com/spec-kit/crm-ticketing/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTicketRequest is the admin partial update; absent fields are left
// untouched.
type UpdateTicketRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *domain.TicketStatus `json:"status"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority domain.TicketPriority `json:"priority"`
}

// TicketResponse response.
type TicketResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	CreatedBy   string                `json:"created_by"`
	AssignedTo  string                `json:"assigned_to"`
	DateCreated time.Time             `json:"date_created"`
}
