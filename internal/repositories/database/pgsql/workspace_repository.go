package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/gigbridge/gigbridge_backend/internal/apperrors"
	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	portsrepo "github.com/gigbridge/gigbridge_backend/internal/core/ports/repositories"
	"github.com/gigbridge/gigbridge_backend/internal/models"
	"github.com/gigbridge/gigbridge_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxWorkspaceRepository struct {
	BaseRepository
}

// newPgxWorkspaceRepository creates a new repository for workspace data.
func newPgxWorkspaceRepository(pool *pgxpool.Pool) portsrepo.WorkspaceRepositoryFacade {
	return &PgxWorkspaceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxWorkspaceRepository implements portsrepo.WorkspaceRepositoryFacade
var _ portsrepo.WorkspaceRepositoryFacade = (*PgxWorkspaceRepository)(nil)

// FindWorkspaceByID retrieves a workspace by its ID.
func (r *PgxWorkspaceRepository) FindWorkspaceByID(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	query := `
		SELECT workspace_id, project_id, client_id, freelancer_id, currency_code, status,
		       current_phase, overall_progress,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM workspaces
		WHERE workspace_id = $1;`

	var m models.Workspace
	err := r.Pool.QueryRow(ctx, query, workspaceID).Scan(
		&m.WorkspaceID,
		&m.ProjectID,
		&m.ClientID,
		&m.FreelancerID,
		&m.CurrencyCode,
		&m.Status,
		&m.CurrentPhase,
		&m.OverallProgress,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find workspace by ID "+workspaceID, err)
	}

	domainWorkspace := mapping.ToDomainWorkspace(m)
	return &domainWorkspace, nil
}

// SaveWorkspace persists a new workspace together with its full milestone plan
// in a single database transaction.
func (r *PgxWorkspaceRepository) SaveWorkspace(ctx context.Context, workspace domain.Workspace, milestones []domain.Milestone) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	mw := mapping.ToModelWorkspace(workspace)
	workspaceQuery := `
		INSERT INTO workspaces (
			workspace_id, project_id, client_id, freelancer_id, currency_code, status,
			current_phase, overall_progress,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	_, err = tx.Exec(ctx, workspaceQuery,
		mw.WorkspaceID,
		mw.ProjectID,
		mw.ClientID,
		mw.FreelancerID,
		mw.CurrencyCode,
		mw.Status,
		mw.CurrentPhase,
		mw.OverallProgress,
		mw.CreatedAt,
		mw.CreatedBy,
		mw.LastUpdatedAt,
		mw.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert workspace "+mw.WorkspaceID, err)
	}

	batch := &pgx.Batch{}
	milestoneQuery := `
		INSERT INTO milestones (
			milestone_id, workspace_id, phase_number, title, description, due_date, amount, status,
			started_at, submissions, client_feedback, revision_count, revisions, client_approved, approved_at,
			payment_released, released_at, ledger_entry_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);`

	for _, milestone := range milestones {
		m := mapping.ToModelMilestone(milestone)
		batch.Queue(milestoneQuery,
			m.MilestoneID,
			m.WorkspaceID,
			m.PhaseNumber,
			m.Title,
			m.Description,
			m.DueDate,
			m.Amount,
			m.Status,
			m.StartedAt,
			m.Submissions,
			m.ClientFeedback,
			m.RevisionCount,
			m.Revisions,
			m.ClientApproved,
			m.ApprovedAt,
			m.PaymentRelease,
			m.ReleasedAt,
			m.LedgerEntryID,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to execute milestone batch for workspace "+mw.WorkspaceID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateWorkspaceProgress stores the derived progress columns.
func (r *PgxWorkspaceRepository) UpdateWorkspaceProgress(ctx context.Context, workspaceID string, overallProgress, currentPhase int, status domain.WorkspaceStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE workspaces SET
			overall_progress = $2,
			current_phase = $3,
			status = $4,
			last_updated_at = $5,
			last_updated_by = $6
		WHERE workspace_id = $1;`

	tag, err := r.Pool.Exec(ctx, query, workspaceID, overallProgress, currentPhase, models.WorkspaceStatus(status), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update progress of workspace "+workspaceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
