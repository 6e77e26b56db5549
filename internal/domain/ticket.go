package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityUrgent TicketPriority = "Urgent"
	TicketPriorityHigh   TicketPriority = "High"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityLow    TicketPriority = "Low"
)

// statusRank and priorityRank fix the triage sort order: most urgent,
// oldest-first work surfaces first. Unknown values sort last.
var statusRank = map[TicketStatus]int{
	TicketStatusOpen:       0,
	TicketStatusInProgress: 1,
	TicketStatusResolved:   2,
	TicketStatusClosed:     3,
}

var priorityRank = map[TicketPriority]int{
	TicketPriorityUrgent: 0,
	TicketPriorityHigh:   1,
	TicketPriorityMedium: 2,
	TicketPriorityLow:    3,
}

// ValidStatus reports whether the value is in the fixed 4-value status set.
func ValidStatus(status TicketStatus) bool {
	_, ok := statusRank[status]
	return ok
}

// ValidPriority reports whether the value is in the fixed 4-value priority set.
func ValidPriority(priority TicketPriority) bool {
	_, ok := priorityRank[priority]
	return ok
}

// StatusRank returns the ordinal position of a status for sorting.
func StatusRank(status TicketStatus) int {
	if rank, ok := statusRank[status]; ok {
		return rank
	}
	return len(statusRank)
}

// PriorityRank returns the ordinal position of a priority for sorting.
func PriorityRank(priority TicketPriority) int {
	if rank, ok := priorityRank[priority]; ok {
		return rank
	}
	return len(priorityRank)
}

// Ticket is the aggregate for support requests. Status and priority are
// independently mutable enumerations; there is no transition graph, so any
// value may move to any other value directly.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	CreatedBy   string
	AssignedTo  string
	DateCreated time.Time
}

// TriageLess orders tickets by status rank, then priority rank, then
// creation time ascending.
func TriageLess(a, b Ticket) bool {
	if sa, sb := StatusRank(a.Status), StatusRank(b.Status); sa != sb {
		return sa < sb
	}
	if pa, pb := PriorityRank(a.Priority), PriorityRank(b.Priority); pa != pb {
		return pa < pb
	}
	return a.DateCreated.Before(b.DateCreated)
}
