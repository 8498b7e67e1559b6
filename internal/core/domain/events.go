package domain

import "time"

// EventKind names a domain event emitted by the escrow core.
type EventKind string

const (
	EventMilestoneStarted    EventKind = "milestone.started"
	EventWorkSubmitted       EventKind = "milestone.work_submitted"
	EventMilestoneApproved   EventKind = "milestone.approved"
	EventRevisionRequested   EventKind = "milestone.revision_requested"
	EventPaymentReleased     EventKind = "payment.released"
	EventWithdrawalInitiated EventKind = "withdrawal.initiated"
	EventMilestoneDisputed   EventKind = "milestone.disputed"
	EventMilestoneCancelled  EventKind = "milestone.cancelled"
)

// Event is a best-effort notification about something that happened in the
// core. Delivery is fire-and-forget; no operation depends on it succeeding.
type Event struct {
	Kind        EventKind `json:"kind"`
	WorkspaceID string    `json:"workspaceID,omitempty"`
	MilestoneID string    `json:"milestoneID,omitempty"`
	EntryID     string    `json:"entryID,omitempty"`
	ActorID     string    `json:"actorID"`
	OccurredAt  time.Time `json:"occurredAt"`
}
