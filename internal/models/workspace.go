package models

// WorkspaceStatus is the persisted workspace lifecycle state.
type WorkspaceStatus string

// Workspace represents a client/freelancer collaboration with its derived
// progress fields.
type Workspace struct {
	WorkspaceID     string          `json:"workspaceID"` // Primary Key (e.g., UUID)
	ProjectID       string          `json:"projectID"`
	ClientID        string          `json:"clientID"`     // UserID Reference (Not Null)
	FreelancerID    string          `json:"freelancerID"` // UserID Reference (Not Null)
	CurrencyCode    string          `json:"currencyCode"`
	Status          WorkspaceStatus `json:"status"`
	CurrentPhase    int             `json:"currentPhase"`    // Derived
	OverallProgress int             `json:"overallProgress"` // Derived, 0..100
	AuditFields
}
