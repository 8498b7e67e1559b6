package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MilestoneStatus is the persisted milestone lifecycle state.
type MilestoneStatus string

const (
	MilestoneNotStarted       MilestoneStatus = "NOT_STARTED"
	MilestoneInProgress       MilestoneStatus = "IN_PROGRESS"
	MilestoneAwaitingApproval MilestoneStatus = "AWAITING_APPROVAL"
	MilestoneApproved         MilestoneStatus = "APPROVED"
	MilestonePaid             MilestoneStatus = "PAID"
	MilestoneCancelled        MilestoneStatus = "CANCELLED"
	MilestoneDisputed         MilestoneStatus = "DISPUTED"
)

// SubmissionEntry is one persisted work handover. The submissions and
// revisions slices are stored as JSONB on the milestone row.
type SubmissionEntry struct {
	Artifacts   []string  `json:"artifacts"`
	Notes       string    `json:"notes"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// RevisionEntry is one persisted client revision request.
type RevisionEntry struct {
	RequestedBy string    `json:"requestedBy"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requestedAt"`
}

// Milestone represents one phase of a workspace's delivery plan.
type Milestone struct {
	MilestoneID    string            `json:"milestoneID"` // Primary Key (e.g., UUID)
	WorkspaceID    string            `json:"workspaceID"` // FK -> Workspace.workspaceID (Not Null)
	PhaseNumber    int               `json:"phaseNumber"` // Unique per workspace (Not Null)
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	DueDate        *time.Time        `json:"dueDate"` // Nullable
	Amount         decimal.Decimal   `json:"amount"`  // Precise decimal type
	Status         MilestoneStatus   `json:"status"`
	StartedAt      *time.Time        `json:"startedAt"` // Nullable
	Submissions    []SubmissionEntry `json:"submissions"`
	ClientFeedback string            `json:"clientFeedback"`
	RevisionCount  int               `json:"revisionCount"`
	Revisions      []RevisionEntry   `json:"revisions"`
	ClientApproved bool              `json:"clientApproved"`
	ApprovedAt     *time.Time        `json:"approvedAt"`      // Nullable
	PaymentRelease bool              `json:"paymentReleased"` // Flips false->true at most once
	ReleasedAt     *time.Time        `json:"releasedAt"`      // Nullable
	LedgerEntryID  *string           `json:"ledgerEntryID"`   // FK -> LedgerEntry.entryID, set on release
	AuditFields
}
