package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-ticketing/internal/domain"
	"github.com/spec-kit/crm-ticketing/internal/repository/memory"
	apperrors "github.com/spec-kit/crm-ticketing/pkg/util"
)

func newCommentFixture(t *testing.T) (*memory.Store, *CommentService, *domain.User, *domain.Ticket) {
	t.Helper()
	store := memory.NewStore()
	author := seedUser(t, store, "alice", domain.RoleUser)
	ticketSvc := newTicketService(store)
	ticket, err := ticketSvc.Create(context.Background(), TicketCreateInput{Title: "t", Description: "d", CreatedBy: author.ID})
	require.NoError(t, err)
	svc := NewCommentService(store.Comments(), store.Tickets(), store.Users(), nil)
	return store, svc, author, ticket
}

func TestCommentAdd(t *testing.T) {
	_, svc, author, ticket := newCommentFixture(t)

	comment, err := svc.Add(context.Background(), ticket.ID, author.ID, "  looking into it  ")
	require.NoError(t, err)
	assert.Equal(t, "looking into it", comment.Text)
	assert.Equal(t, ticket.ID, comment.TicketID)
	assert.Equal(t, author.ID, comment.UserID)
	assert.False(t, comment.DateCreated.IsZero())
}

func TestCommentAddUnknownTicket(t *testing.T) {
	_, svc, author, _ := newCommentFixture(t)

	_, err := svc.Add(context.Background(), "missing", author.ID, "hello")
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestCommentAddEmptyText(t *testing.T) {
	_, svc, author, ticket := newCommentFixture(t)

	_, err := svc.Add(context.Background(), ticket.ID, author.ID, "   ")
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestCommentThreadNewestFirst(t *testing.T) {
	store, svc, author, ticket := newCommentFixture(t)

	first, err := svc.Add(context.Background(), ticket.ID, author.ID, "first")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := svc.Add(context.Background(), ticket.ID, author.ID, "second")
	require.NoError(t, err)

	thread, err := svc.ListByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, second.ID, thread[0].ID)
	assert.Equal(t, first.ID, thread[1].ID)
	assert.Equal(t, "alice", thread[0].AuthorUsername)

	// author display fields survive even after the account is removed
	require.NoError(t, store.Users().Delete(context.Background(), author.ID))
	thread, err = svc.ListByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Empty(t, thread[0].AuthorUsername)
}

func TestCommentUpdateAndDelete(t *testing.T) {
	_, svc, author, ticket := newCommentFixture(t)

	comment, err := svc.Add(context.Background(), ticket.ID, author.ID, "typo herre")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), comment.ID, "typo here")
	require.NoError(t, err)
	assert.Equal(t, "typo here", updated.Text)

	require.NoError(t, svc.Delete(context.Background(), comment.ID))

	err = svc.Delete(context.Background(), comment.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}
