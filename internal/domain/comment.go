package domain

import "time"

// Comment is an append-only note attached to a ticket.
type Comment struct {
	ID          string
	TicketID    string
	UserID      string
	Text        string
	DateCreated time.Time
}

// CommentWithAuthor carries the author's display fields joined in for
// listing a ticket thread.
type CommentWithAuthor struct {
	Comment
	AuthorUsername       string
	AuthorProfilePicture string
}
