package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gigbridge/gigbridge_backend/internal/apperrors"
	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	portsrepo "github.com/gigbridge/gigbridge_backend/internal/core/ports/repositories"
	"github.com/gigbridge/gigbridge_backend/internal/models"
	"github.com/gigbridge/gigbridge_backend/internal/utils/mapping"
	"github.com/gigbridge/gigbridge_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const ledgerEntryColumns = `
	entry_id, type, from_user_id, from_role, to_user_id, to_role,
	amount, platform_fee, net_amount, currency_code, status,
	project_id, workspace_id, milestone_id, method, description, flagged,
	processed_at, completed_at, failed_at,
	created_at, created_by, last_updated_at, last_updated_by`

const insertLedgerEntryQuery = `
	INSERT INTO ledger_entries (
		entry_id, type, from_user_id, from_role, to_user_id, to_role,
		amount, platform_fee, net_amount, currency_code, status,
		project_id, workspace_id, milestone_id, method, description, flagged,
		processed_at, completed_at, failed_at,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24);`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger entry data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func scanLedgerEntry(row pgx.Row) (*models.LedgerEntry, error) {
	var e models.LedgerEntry
	err := row.Scan(
		&e.EntryID,
		&e.Type,
		&e.FromUserID,
		&e.FromRole,
		&e.ToUserID,
		&e.ToRole,
		&e.Amount,
		&e.PlatformFee,
		&e.NetAmount,
		&e.CurrencyCode,
		&e.Status,
		&e.ProjectID,
		&e.WorkspaceID,
		&e.MilestoneID,
		&e.Method,
		&e.Description,
		&e.Flagged,
		&e.ProcessedAt,
		&e.CompletedAt,
		&e.FailedAt,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func insertEntryArgs(m models.LedgerEntry) []interface{} {
	return []interface{}{
		m.EntryID,
		m.Type,
		m.FromUserID,
		m.FromRole,
		m.ToUserID,
		m.ToRole,
		m.Amount,
		m.PlatformFee,
		m.NetAmount,
		m.CurrencyCode,
		m.Status,
		m.ProjectID,
		m.WorkspaceID,
		m.MilestoneID,
		m.Method,
		m.Description,
		m.Flagged,
		m.ProcessedAt,
		m.CompletedAt,
		m.FailedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

// FindEntryByID retrieves a ledger entry by its ID.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE entry_id = $1;`

	e, err := scanLedgerEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find ledger entry by ID "+entryID, err)
	}

	domainEntry := mapping.ToDomainLedgerEntry(*e)
	return &domainEntry, nil
}

// FindCompletedMilestonePayment returns the completed payment entry for a
// milestone. The partial unique index guarantees at most one such row.
func (r *PgxLedgerRepository) FindCompletedMilestonePayment(ctx context.Context, milestoneID string) (*domain.LedgerEntry, error) {
	query := `SELECT` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE milestone_id = $1 AND type = 'MILESTONE_PAYMENT' AND status = 'COMPLETED';`

	e, err := scanLedgerEntry(r.Pool.QueryRow(ctx, query, milestoneID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment entry for milestone "+milestoneID, err)
	}

	domainEntry := mapping.ToDomainLedgerEntry(*e)
	return &domainEntry, nil
}

// ListCompletedEntriesByUser retrieves every COMPLETED entry in which the user
// appears as sender or receiver, oldest first.
func (r *PgxLedgerRepository) ListCompletedEntriesByUser(ctx context.Context, userID string) ([]domain.LedgerEntry, error) {
	query := `SELECT` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE (from_user_id = $1 OR to_user_id = $1) AND status = 'COMPLETED'
		ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query completed entries for user "+userID, err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger entry row for user "+userID, err)
		}
		entries = append(entries, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger entry rows for user "+userID, err)
	}

	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

// ListEntriesByUser retrieves a paginated list of the user's entries using token-based pagination.
// It returns the entries, a token for the next page, and an error.
func (r *PgxLedgerRepository) ListEntriesByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE (from_user_id = $1 OR to_user_id = $1)`
	// Ordering must be stable; entry_id breaks created_at ties.
	orderByClause := `ORDER BY created_at DESC, entry_id DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{userID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastEntryID, decodeErr := pagination.DecodeEntryToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (created_at, entry_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastEntryID)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger entries for user "+userID, err)
	}
	defer rows.Close()

	entries := make([]models.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entry row for user "+userID, err)
		}
		entries = append(entries, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger entry rows for user "+userID, err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		last := entries[limit-1] // the last item included in this page
		token := pagination.EncodeEntryToken(last.CreatedAt, last.EntryID)
		nextTokenVal = &token
		entries = entries[:limit]
	}

	return mapping.ToDomainLedgerEntrySlice(entries), nextTokenVal, nil
}

// AppendEntry persists a new immutable ledger entry.
func (r *PgxLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	_, err := r.Pool.Exec(ctx, insertLedgerEntryQuery, insertEntryArgs(m)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert ledger entry "+m.EntryID, err)
	}
	return nil
}

// ReleaseMilestonePayment atomically releases escrow for a milestone: the
// released flag flips false->true with a conditional update, the completed
// payment entry is inserted, and the milestone is marked PAID, all in one
// database transaction. The conditional update is the compare-and-swap; of N
// concurrent callers exactly one sees a row change and the rest get
// ErrAlreadyPaid. The partial unique index on payment entries backstops the
// flag should it ever be reset out of band.
func (r *PgxLedgerRepository) ReleaseMilestonePayment(ctx context.Context, milestone domain.Milestone, entry domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	releaseQuery := `
		UPDATE milestones SET
			payment_released = TRUE,
			released_at = $2,
			ledger_entry_id = $3,
			status = $4,
			last_updated_at = $5,
			last_updated_by = $6
		WHERE milestone_id = $1 AND payment_released = FALSE;`

	now := entry.CreatedAt
	tag, err := tx.Exec(ctx, releaseQuery,
		milestone.MilestoneID,
		entry.CompletedAt,
		entry.EntryID,
		models.MilestonePaid,
		now,
		entry.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to flip release flag for milestone "+milestone.MilestoneID, err)
	}
	if tag.RowsAffected() == 0 {
		// Another caller released this milestone first.
		return apperrors.ErrAlreadyPaid
	}

	m := mapping.ToModelLedgerEntry(entry)
	if _, err := tx.Exec(ctx, insertLedgerEntryQuery, insertEntryArgs(m)...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrAlreadyPaid
		}
		return apperrors.NewAppError(500, "failed to insert payment entry for milestone "+milestone.MilestoneID, err)
	}

	return r.Commit(ctx, tx)
}

// InitiateWithdrawal appends a pending withdrawal after a balance check. The
// advisory lock serializes withdrawals per user so two concurrent requests
// cannot both pass the check; pending and processing withdrawals count as
// already reserved.
func (r *PgxLedgerRepository) InitiateWithdrawal(ctx context.Context, entry domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	userID := entry.FromUserID
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('withdrawal:' || $1));`, userID); err != nil {
		return apperrors.NewAppError(500, "failed to acquire withdrawal lock for user "+userID, err)
	}

	balanceQuery := `
		SELECT
			COALESCE(SUM(CASE WHEN to_user_id = $1 AND type <> 'WITHDRAWAL' AND status = 'COMPLETED' THEN net_amount ELSE 0 END), 0)
			- COALESCE(SUM(CASE WHEN from_user_id = $1 AND type = 'WITHDRAWAL' AND status IN ('PENDING', 'PROCESSING', 'COMPLETED') THEN ABS(amount) ELSE 0 END), 0)
		FROM ledger_entries
		WHERE from_user_id = $1 OR to_user_id = $1;`

	var available decimal.Decimal
	if err := tx.QueryRow(ctx, balanceQuery, userID).Scan(&available); err != nil {
		return apperrors.NewAppError(500, "failed to compute balance for user "+userID, err)
	}

	requested := entry.Amount.Abs()
	if available.LessThan(requested) {
		return apperrors.ErrInsufficientBalance
	}

	m := mapping.ToModelLedgerEntry(entry)
	if _, err := tx.Exec(ctx, insertLedgerEntryQuery, insertEntryArgs(m)...); err != nil {
		return apperrors.NewAppError(500, "failed to insert withdrawal entry "+m.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateEntryStatus applies a status transition with its timestamp column.
func (r *PgxLedgerRepository) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, at time.Time, updatedBy string) error {
	var timestampColumn string
	switch status {
	case domain.EntryProcessing:
		timestampColumn = "processed_at"
	case domain.EntryCompleted:
		timestampColumn = "completed_at"
	case domain.EntryFailed:
		timestampColumn = "failed_at"
	}

	query := `
		UPDATE ledger_entries SET
			status = $2,
			last_updated_at = $3,
			last_updated_by = $4
		WHERE entry_id = $1;`
	if timestampColumn != "" {
		query = `
		UPDATE ledger_entries SET
			status = $2,
			last_updated_at = $3,
			last_updated_by = $4,
			` + timestampColumn + ` = $3
		WHERE entry_id = $1;`
	}

	tag, err := r.Pool.Exec(ctx, query, entryID, models.EntryStatus(status), at, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of ledger entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetEntryReviewMetadata updates flag and review status columns only.
func (r *PgxLedgerRepository) SetEntryReviewMetadata(ctx context.Context, entryID string, flagged bool, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE ledger_entries SET
			flagged = $2,
			status = $3,
			last_updated_at = $4,
			last_updated_by = $5
		WHERE entry_id = $1;`

	tag, err := r.Pool.Exec(ctx, query, entryID, flagged, models.EntryStatus(status), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update review metadata of ledger entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
