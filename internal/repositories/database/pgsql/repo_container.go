package pgsql

import (
	portsrepo "github.com/gigbridge/gigbridge_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	workspaceRepo := newPgxWorkspaceRepository(dbPool)
	milestoneRepo := newPgxMilestoneRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)

	return portsrepo.RepositoryProvider{
		WorkspaceRepo: workspaceRepo,
		MilestoneRepo: milestoneRepo,
		LedgerRepo:    ledgerRepo,
	}
}
