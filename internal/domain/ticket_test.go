package domain

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidStatus(t *testing.T) {
	for _, status := range []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed} {
		assert.True(t, ValidStatus(status), "%s should be valid", status)
	}

	assert.False(t, ValidStatus("open"), "status values are case sensitive")
	assert.False(t, ValidStatus("Pending"))
	assert.False(t, ValidStatus(""))
}

func TestValidPriority(t *testing.T) {
	for _, priority := range []TicketPriority{TicketPriorityUrgent, TicketPriorityHigh, TicketPriorityMedium, TicketPriorityLow} {
		assert.True(t, ValidPriority(priority), "%s should be valid", priority)
	}

	assert.False(t, ValidPriority("urgent"))
	assert.False(t, ValidPriority("Critical"))
}

func TestStatusRankOrdering(t *testing.T) {
	assert.Less(t, StatusRank(TicketStatusOpen), StatusRank(TicketStatusInProgress))
	assert.Less(t, StatusRank(TicketStatusInProgress), StatusRank(TicketStatusResolved))
	assert.Less(t, StatusRank(TicketStatusResolved), StatusRank(TicketStatusClosed))

	// unknown values sort after every known one
	assert.Greater(t, StatusRank("Bogus"), StatusRank(TicketStatusClosed))
}

func TestPriorityRankOrdering(t *testing.T) {
	assert.Less(t, PriorityRank(TicketPriorityUrgent), PriorityRank(TicketPriorityHigh))
	assert.Less(t, PriorityRank(TicketPriorityHigh), PriorityRank(TicketPriorityMedium))
	assert.Less(t, PriorityRank(TicketPriorityMedium), PriorityRank(TicketPriorityLow))
	assert.Greater(t, PriorityRank("Bogus"), PriorityRank(TicketPriorityLow))
}

func TestTriageLess(t *testing.T) {
	now := time.Now()

	openLow := Ticket{ID: "a", Status: TicketStatusOpen, Priority: TicketPriorityLow, DateCreated: now}
	closedUrgent := Ticket{ID: "b", Status: TicketStatusClosed, Priority: TicketPriorityUrgent, DateCreated: now.Add(-time.Hour)}

	// status dominates priority: an Open Low ticket outranks a Closed Urgent one
	assert.True(t, TriageLess(openLow, closedUrgent))
	assert.False(t, TriageLess(closedUrgent, openLow))

	openUrgent := Ticket{ID: "c", Status: TicketStatusOpen, Priority: TicketPriorityUrgent, DateCreated: now}
	assert.True(t, TriageLess(openUrgent, openLow), "priority breaks status ties")

	older := Ticket{ID: "d", Status: TicketStatusOpen, Priority: TicketPriorityUrgent, DateCreated: now.Add(-time.Minute)}
	assert.True(t, TriageLess(older, openUrgent), "creation time breaks full ties")
}

func TestTriageSortOrder(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tickets := []Ticket{
		{ID: "1", Status: TicketStatusClosed, Priority: TicketPriorityUrgent, DateCreated: base},
		{ID: "2", Status: TicketStatusOpen, Priority: TicketPriorityLow, DateCreated: base.Add(time.Hour)},
		{ID: "3", Status: TicketStatusOpen, Priority: TicketPriorityLow, DateCreated: base},
		{ID: "4", Status: TicketStatusInProgress, Priority: TicketPriorityUrgent, DateCreated: base},
		{ID: "5", Status: TicketStatusOpen, Priority: TicketPriorityHigh, DateCreated: base},
	}

	sort.SliceStable(tickets, func(i, j int) bool { return TriageLess(tickets[i], tickets[j]) })

	got := make([]string, 0, len(tickets))
	for _, ticket := range tickets {
		got = append(got, ticket.ID)
	}
	require.Equal(t, []string{"5", "3", "2", "4", "1"}, got)
}
