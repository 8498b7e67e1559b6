package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MilestoneStatus indicates where a milestone sits in its delivery cycle.
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

// MaxPhases is the highest phase number a workspace's delivery plan may have.
const MaxPhases = 5

// legalTransitions is the milestone state machine. Cancelled and Disputed are
// additionally reachable from every non-terminal state (see CanTransitionTo).
var legalTransitions = map[MilestoneStatus][]MilestoneStatus{
	MilestoneNotStarted:       {MilestoneInProgress},
	MilestoneInProgress:       {MilestoneAwaitingApproval},
	MilestoneAwaitingApproval: {MilestoneApproved, MilestoneInProgress},
	MilestoneApproved:         {MilestonePaid},
}

// IsTerminal reports whether no further transitions are allowed from s.
// Disputed milestones stay frozen until resolved out of band, so they are
// treated as terminal by the state machine as well.
func (s MilestoneStatus) IsTerminal() bool {
	return s == MilestonePaid || s == MilestoneCancelled || s == MilestoneDisputed
}

// CanTransitionTo reports whether the state machine permits moving from s to target.
func (s MilestoneStatus) CanTransitionTo(target MilestoneStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == MilestoneCancelled || target == MilestoneDisputed {
		return true
	}
	for _, next := range legalTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// SubmissionEntry is one piece of work handed over by the freelancer.
type SubmissionEntry struct {
	Artifacts   []string  `json:"artifacts"` // opaque file/URL references
	Notes       string    `json:"notes"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// RevisionEntry records one revision request made by the client.
type RevisionEntry struct {
	RequestedBy string    `json:"requestedBy"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requestedAt"`
}

// MilestoneProgress tracks the submission/review loop of a milestone.
type MilestoneProgress struct {
	Submissions    []SubmissionEntry `json:"submissions"`
	ClientFeedback string            `json:"clientFeedback"`
	RevisionCount  int               `json:"revisionCount"`
	Revisions      []RevisionEntry   `json:"revisions"`
	ClientApproved bool              `json:"clientApproved"`
	ApprovedAt     *time.Time        `json:"approvedAt"`
}

// MilestonePayment tracks escrow release for a milestone. Released flips to
// true at most once, and only after the milestone is approved.
type MilestonePayment struct {
	Released      bool       `json:"released"`
	ReleasedAt    *time.Time `json:"releasedAt"`
	LedgerEntryID *string    `json:"ledgerEntryID"`
}

// Milestone is one contracted phase of a project's delivery plan.
type Milestone struct {
	MilestoneID   string            `json:"milestoneID"` // Primary Key (UUID)
	WorkspaceID   string            `json:"workspaceID"` // FK -> Workspace
	PhaseNumber   int               `json:"phaseNumber"` // 1..MaxPhases, unique per workspace
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	DueDate       *time.Time        `json:"dueDate"`
	Amount        decimal.Decimal   `json:"amount"` // escrowed phase amount, >= 0
	Status        MilestoneStatus   `json:"status"`
	StartedAt     *time.Time        `json:"startedAt"`
	Progress      MilestoneProgress `json:"progress"`
	Payment       MilestonePayment  `json:"payment"`
	AuditFields
}

// NextPhase returns the phase number following this milestone, or 0 if this is
// the final phase.
func (m *Milestone) NextPhase() int {
	if m.PhaseNumber >= MaxPhases {
		return 0
	}
	return m.PhaseNumber + 1
}
