package dto

import "time"

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	TicketID string `json:"ticket_id"`
	Text     string `json:"text"`
}

// UpdateCommentRequest payload.
type UpdateCommentRequest struct {
	Text string `json:"text"`
}

// CommentResponse includes the author's display fields for thread rendering.
type CommentResponse struct {
	ID             string    `json:"id"`
	TicketID       string    `json:"ticket_id"`
	UserID         string    `json:"user_id"`
	Text           string    `json:"text"`
	DateCreated    time.Time `json:"date_created"`
	Username       string    `json:"username,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
}
