package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-ticketing/internal/domain"
	"github.com/spec-kit/crm-ticketing/internal/repository/memory"
	apperrors "github.com/spec-kit/crm-ticketing/pkg/util"
)

func seedUser(t *testing.T, store *memory.Store, username string, role domain.UserRole) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Email: username + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func newTicketService(store *memory.Store) *TicketService {
	return NewTicketService(store.Tickets(), store.Users(), nil)
}

func TestTicketCreateDefaults(t *testing.T) {
	store := memory.NewStore()
	svc := newTicketService(store)
	creator := seedUser(t, store, "alice", domain.RoleUser)

	ticket, err := svc.Create(context.Background(), TicketCreateInput{
		Title:       "Printer is on fire",
		Description: "Smoke coming out of the office printer.",
		CreatedBy:   creator.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityLow, ticket.Priority)
	assert.Equal(t, creator.ID, ticket.CreatedBy)
	assert.Equal(t, creator.ID, ticket.AssignedTo)
	assert.False(t, ticket.DateCreated.IsZero())

	stored, err := svc.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.Status, stored.Status)
}

func TestTicketCreateUnknownCreator(t *testing.T) {
	store := memory.NewStore()
	svc := newTicketService(store)

	_, err := svc.Create(context.Background(), TicketCreateInput{
		Title:       "t",
		Description: "d",
		CreatedBy:   "nope",
	})
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 400, domainErr.HTTPStatus)
}

func TestTicketSetStatusAnyTransition(t *testing.T) {
	store := memory.NewStore()
	svc := newTicketService(store)
	creator := seedUser(t, store, "alice", domain.RoleUser)

	ticket, err := svc.Create(context.Background(), TicketCreateInput{Title: "t", Description: "d", CreatedBy: creator.ID})
	require.NoError(t, err)

	// there is no transition graph; Closed may reopen
	for _, status := range []domain.TicketStatus{
		domain.TicketStatusClosed,
		domain.TicketStatusOpen,
		domain.TicketStatusResolved,
		domain.TicketStatusInProgress,
	} {
		updated, err := svc.SetStatus(context.Background(), ticket.ID, status, creator.ID)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}
}

func TestTicketSetStatusRejectsUnknownValue(t *testing.T) {
	store := memory.NewStore()
	svc := newTicketService(store)
	creator := seedUser(t, store, "alice", domain.RoleUser)

	ticket, err := svc.Create(context.Background(), TicketCreateInput{Title: "t", Description: "d", CreatedBy: creator.ID})
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), ticket.ID, "Pending", creator.ID)
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)

	// the rejected write leaves the ticket untouched
	stored, err := svc.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, stored.Status)
}

func TestTicketSetPriority(t *testing.T) {
	store := memory.NewStore()
	svc := newTicketService(store)
	creator := seedUser(t, store, "alice", domain.RoleUser)

	ticket, err := svc.Create(context.Background(), TicketCreateInput{Title: "t", Description: "d", CreatedBy: creator.ID})
	require.NoError(t, err)

	updated, err := svc.SetPriority(context.Background(), ticket.ID, domain.TicketPriorityUrgent, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityUrgent, updated.Priority)

	_, err = svc.SetPriority(context.Background(), ticket.ID, "Critical", creator.ID)
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestTicketListTriageOrder(t *testing.T) {
	store := memory.NewStore()
	svc := newTicketService(store)
	creator := seedUser(t, store, "alice", domain.RoleUser)

	mk := func(title string, status domain.TicketStatus, priority domain.TicketPriority) string {
		t.Helper()
		ticket, err := svc.Create(context.Background(), TicketCreateInput{Title: title, Description: "d", CreatedBy: creator.ID})
		require.NoError(t, err)
		if status != domain.TicketStatusOpen {
			_, err = svc.SetStatus(context.Background(), ticket.ID, status, creator.ID)
			require.NoError(t, err)
		}
		if priority != domain.TicketPriorityLow {
			_, err = svc.SetPriority(context.Background(), ticket.ID, priority, creator.ID)
			require.NoError(t, err)
		}
		return ticket.ID
	}

	closedUrgent := mk("closed urgent", domain.TicketStatusClosed, domain.TicketPriorityUrgent)
	openLow := mk("open low", domain.TicketStatusOpen, domain.TicketPriorityLow)
	openUrgent := mk("open urgent", domain.TicketStatusOpen, domain.TicketPriorityUrgent)
	inProgress := mk("in progress", domain.TicketStatusInProgress, domain.TicketPriorityHigh)

	tickets, err := svc.List(context.Background(), TicketListFilter{})
	require.NoError(t, err)
	require.Len(t, tickets, 4)

	got := []string{tickets[0].ID, tickets[1].ID, tickets[2].ID, tickets[3].ID}
	assert.Equal(t, []string{openUrgent, openLow, inProgress, closedUrgent}, got)
}

func TestTicketListSearchWinsOverStatuses(t *testing.T) {
	store := memory.NewStore()
	svc := newTicketService(store)
	creator := seedUser(t, store, "alice", domain.RoleUser)

	ticket, err := svc.Create(context.Background(), TicketCreateInput{Title: "VPN outage", Description: "d", CreatedBy: creator.ID})
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), ticket.ID, domain.TicketStatusClosed, creator.ID)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), TicketCreateInput{Title: "Printer jam", Description: "d", CreatedBy: creator.ID})
	require.NoError(t, err)

	// the search term matches the Closed ticket even though the status
	// filter asks for Open only
	tickets, err := svc.List(context.Background(), TicketListFilter{
		Search:   "vpn",
		Statuses: []domain.TicketStatus{domain.TicketStatusOpen},
	})
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "VPN outage", tickets[0].Title)
}

func TestTicketListStatusFilter(t *testing.T) {
	store := memory.NewStore()
	svc := newTicketService(store)
	creator := seedUser(t, store, "alice", domain.RoleUser)

	open, err := svc.Create(context.Background(), TicketCreateInput{Title: "a", Description: "d", CreatedBy: creator.ID})
	require.NoError(t, err)
	closed, err := svc.Create(context.Background(), TicketCreateInput{Title: "b", Description: "d", CreatedBy: creator.ID})
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), closed.ID, domain.TicketStatusClosed, creator.ID)
	require.NoError(t, err)

	tickets, err := svc.List(context.Background(), TicketListFilter{Statuses: []domain.TicketStatus{domain.TicketStatusOpen}})
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, open.ID, tickets[0].ID)

	_, err = svc.List(context.Background(), TicketListFilter{Statuses: []domain.TicketStatus{"Bogus"}})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestTicketListAllStatusesKeepsTriageOrder(t *testing.T) {
	store := memory.NewStore()
	svc := newTicketService(store)
	creator := seedUser(t, store, "alice", domain.RoleUser)

	statuses := []domain.TicketStatus{
		domain.TicketStatusResolved,
		domain.TicketStatusOpen,
		domain.TicketStatusClosed,
		domain.TicketStatusInProgress,
		domain.TicketStatusOpen,
	}
	priorities := []domain.TicketPriority{
		domain.TicketPriorityLow,
		domain.TicketPriorityMedium,
		domain.TicketPriorityUrgent,
		domain.TicketPriorityHigh,
		domain.TicketPriorityUrgent,
	}
	for i := range statuses {
		ticket, err := svc.Create(context.Background(), TicketCreateInput{Title: "t", Description: "d", CreatedBy: creator.ID})
		require.NoError(t, err)
		_, err = svc.SetStatus(context.Background(), ticket.ID, statuses[i], creator.ID)
		require.NoError(t, err)
		_, err = svc.SetPriority(context.Background(), ticket.ID, priorities[i], creator.ID)
		require.NoError(t, err)
	}

	tickets, err := svc.List(context.Background(), TicketListFilter{Statuses: []domain.TicketStatus{
		domain.TicketStatusOpen,
		domain.TicketStatusInProgress,
		domain.TicketStatusResolved,
		domain.TicketStatusClosed,
	}})
	require.NoError(t, err)
	require.Len(t, tickets, 5)

	for i := 1; i < len(tickets); i++ {
		prev, cur := tickets[i-1], tickets[i]
		ps, cs := domain.StatusRank(prev.Status), domain.StatusRank(cur.Status)
		require.LessOrEqual(t, ps, cs)
		if ps == cs {
			pp, cp := domain.PriorityRank(prev.Priority), domain.PriorityRank(cur.Priority)
			require.LessOrEqual(t, pp, cp)
			if pp == cp {
				require.False(t, cur.DateCreated.Before(prev.DateCreated))
			}
		}
	}
}

func TestTicketDelete(t *testing.T) {
	store := memory.NewStore()
	svc := newTicketService(store)
	creator := seedUser(t, store, "alice", domain.RoleUser)

	ticket, err := svc.Create(context.Background(), TicketCreateInput{Title: "t", Description: "d", CreatedBy: creator.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), ticket.ID))

	_, err = svc.GetByID(context.Background(), ticket.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)

	err = svc.Delete(context.Background(), ticket.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestTicketUpdateFieldsPartial(t *testing.T) {
	store := memory.NewStore()
	svc := newTicketService(store)
	creator := seedUser(t, store, "alice", domain.RoleUser)

	ticket, err := svc.Create(context.Background(), TicketCreateInput{Title: "orig", Description: "desc", CreatedBy: creator.ID})
	require.NoError(t, err)

	newTitle := "renamed"
	updated, err := svc.UpdateFields(context.Background(), ticket.ID, TicketUpdateInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "desc", updated.Description)
	assert.Equal(t, domain.TicketStatusOpen, updated.Status)
}
