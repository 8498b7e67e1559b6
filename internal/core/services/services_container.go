package services

import (
	portsrepo "github.com/gigbridge/gigbridge_backend/internal/core/ports/repositories"
	portssvc "github.com/gigbridge/gigbridge_backend/internal/core/ports/services"
	"github.com/gigbridge/gigbridge_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Events = NewLogEventPublisher()

	// Workspace service first since the others depend on it
	container.Workspace = NewWorkspaceService(repos.WorkspaceRepo, repos.MilestoneRepo)

	container.Ledger = NewLedgerService(repos.LedgerRepo)

	container.Payment = NewPaymentService(
		repos.LedgerRepo,
		repos.MilestoneRepo,
		repos.WorkspaceRepo,
		container.Workspace,
		container.Events,
		cfg.PlatformFeeRate,
	)

	container.Milestone = NewMilestoneService(
		repos.MilestoneRepo,
		container.Workspace,
		container.Payment,
		container.Events,
		cfg.MaxRevisionRequests,
	)

	return container
}
