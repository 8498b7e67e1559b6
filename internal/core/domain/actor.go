package domain

// MarketplaceRole identifies which side of a workspace a user is acting as.
type MarketplaceRole string

const (
	RoleClient     MarketplaceRole = "CLIENT"
	RoleFreelancer MarketplaceRole = "FREELANCER"
	RoleAdmin      MarketplaceRole = "ADMIN"
)

// ActorContext carries the authenticated identity performing an operation.
// It is threaded explicitly into every state-machine and orchestrator call;
// nothing in the core reads identity from ambient/global state.
type ActorContext struct {
	UserID string
	Role   MarketplaceRole
}

// IsClient reports whether the actor is the given workspace's client.
func (a ActorContext) IsClient(w *Workspace) bool {
	return a.UserID == w.ClientID
}

// IsFreelancer reports whether the actor is the given workspace's freelancer.
func (a ActorContext) IsFreelancer(w *Workspace) bool {
	return a.UserID == w.FreelancerID
}
