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
	"github.com/jackc/pgx/v5/pgxpool"
)

const milestoneColumns = `
	milestone_id, workspace_id, phase_number, title, description, due_date, amount, status,
	started_at, submissions, client_feedback, revision_count, revisions, client_approved, approved_at,
	payment_released, released_at, ledger_entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxMilestoneRepository struct {
	BaseRepository
}

// newPgxMilestoneRepository creates a new repository for milestone data.
func newPgxMilestoneRepository(pool *pgxpool.Pool) portsrepo.MilestoneRepositoryFacade {
	return &PgxMilestoneRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxMilestoneRepository implements portsrepo.MilestoneRepositoryFacade
var _ portsrepo.MilestoneRepositoryFacade = (*PgxMilestoneRepository)(nil)

func scanMilestone(row pgx.Row) (*models.Milestone, error) {
	var m models.Milestone
	err := row.Scan(
		&m.MilestoneID,
		&m.WorkspaceID,
		&m.PhaseNumber,
		&m.Title,
		&m.Description,
		&m.DueDate,
		&m.Amount,
		&m.Status,
		&m.StartedAt,
		&m.Submissions,
		&m.ClientFeedback,
		&m.RevisionCount,
		&m.Revisions,
		&m.ClientApproved,
		&m.ApprovedAt,
		&m.PaymentRelease,
		&m.ReleasedAt,
		&m.LedgerEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindMilestoneByID retrieves a milestone by its ID.
func (r *PgxMilestoneRepository) FindMilestoneByID(ctx context.Context, milestoneID string) (*domain.Milestone, error) {
	query := `SELECT` + milestoneColumns + `
		FROM milestones
		WHERE milestone_id = $1;`

	m, err := scanMilestone(r.Pool.QueryRow(ctx, query, milestoneID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find milestone by ID "+milestoneID, err)
	}

	domainMilestone := mapping.ToDomainMilestone(*m)
	return &domainMilestone, nil
}

// ListMilestonesByWorkspace retrieves all milestones of a workspace ordered by phase number.
func (r *PgxMilestoneRepository) ListMilestonesByWorkspace(ctx context.Context, workspaceID string) ([]domain.Milestone, error) {
	query := `SELECT` + milestoneColumns + `
		FROM milestones
		WHERE workspace_id = $1
		ORDER BY phase_number;`

	rows, err := r.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query milestones for workspace "+workspaceID, err)
	}
	defer rows.Close()

	milestones := []models.Milestone{}
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan milestone row for workspace "+workspaceID, err)
		}
		milestones = append(milestones, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating milestone rows for workspace "+workspaceID, err)
	}

	return mapping.ToDomainMilestoneSlice(milestones), nil
}

// UpdateMilestone persists status and progress changes of a milestone. The
// payment columns are deliberately absent from this statement; they change only
// through the ledger repository's release transaction.
func (r *PgxMilestoneRepository) UpdateMilestone(ctx context.Context, milestone domain.Milestone) error {
	m := mapping.ToModelMilestone(milestone)
	query := `
		UPDATE milestones SET
			status = $2,
			started_at = $3,
			submissions = $4,
			client_feedback = $5,
			revision_count = $6,
			revisions = $7,
			client_approved = $8,
			approved_at = $9,
			last_updated_at = $10,
			last_updated_by = $11
		WHERE milestone_id = $1;`

	tag, err := r.Pool.Exec(ctx, query,
		m.MilestoneID,
		m.Status,
		m.StartedAt,
		m.Submissions,
		m.ClientFeedback,
		m.RevisionCount,
		m.Revisions,
		m.ClientApproved,
		m.ApprovedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update milestone "+m.MilestoneID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateMilestoneStatus updates only the status and audit columns.
func (r *PgxMilestoneRepository) UpdateMilestoneStatus(ctx context.Context, milestoneID string, status domain.MilestoneStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE milestones SET
			status = $2,
			last_updated_at = $3,
			last_updated_by = $4
		WHERE milestone_id = $1;`

	tag, err := r.Pool.Exec(ctx, query, milestoneID, models.MilestoneStatus(status), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of milestone "+milestoneID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
