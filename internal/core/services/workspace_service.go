package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/gigbridge/gigbridge_backend/internal/apperrors"
	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	portsrepo "github.com/gigbridge/gigbridge_backend/internal/core/ports/repositories"
	portssvc "github.com/gigbridge/gigbridge_backend/internal/core/ports/services"
	"github.com/gigbridge/gigbridge_backend/internal/dto"
	"github.com/gigbridge/gigbridge_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

var (
	ErrPhasesNotContiguous = errors.New("milestone phase numbers must be contiguous starting at 1")
	ErrSelfContract        = errors.New("client and freelancer must be different users")
)

// workspaceService manages workspaces and derives their progress from the
// milestone set. It is also the authorization point the state machine and
// orchestrator consult before acting.
type workspaceService struct {
	workspaceRepo portsrepo.WorkspaceRepositoryFacade
	milestoneRepo portsrepo.MilestoneReader
}

// NewWorkspaceService creates a new workspace service.
func NewWorkspaceService(workspaceRepo portsrepo.WorkspaceRepositoryFacade, milestoneRepo portsrepo.MilestoneReader) portssvc.WorkspaceSvcFacade {
	return &workspaceService{
		workspaceRepo: workspaceRepo,
		milestoneRepo: milestoneRepo,
	}
}

var _ portssvc.WorkspaceSvcFacade = (*workspaceService)(nil)

// CreateWorkspace establishes a workspace and its full milestone plan in one
// transaction. The acting user becomes the workspace's client.
func (s *workspaceService) CreateWorkspace(ctx context.Context, actor domain.ActorContext, req dto.CreateWorkspaceRequest) (*domain.Workspace, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if actor.UserID == req.FreelancerID {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrSelfContract)
	}

	// Phase numbers must be unique and contiguous from 1.
	plan := make([]dto.CreateMilestonePlanEntry, len(req.Milestones))
	copy(plan, req.Milestones)
	sort.Slice(plan, func(i, j int) bool { return plan[i].PhaseNumber < plan[j].PhaseNumber })
	for i, entry := range plan {
		if entry.PhaseNumber != i+1 {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrPhasesNotContiguous)
		}
		if entry.Amount.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: milestone amount must not be negative for phase %d", apperrors.ErrValidation, entry.PhaseNumber)
		}
	}

	now := time.Now().UTC()
	workspaceID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actor.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: actor.UserID,
	}

	workspace := domain.Workspace{
		WorkspaceID:     workspaceID,
		ProjectID:       req.ProjectID,
		ClientID:        actor.UserID,
		FreelancerID:    req.FreelancerID,
		CurrencyCode:    req.CurrencyCode,
		Status:          domain.WorkspaceActive,
		CurrentPhase:    1,
		OverallProgress: 0,
		AuditFields:     audit,
	}

	milestones := make([]domain.Milestone, len(plan))
	for i, entry := range plan {
		milestones[i] = domain.Milestone{
			MilestoneID: uuid.NewString(),
			WorkspaceID: workspaceID,
			PhaseNumber: entry.PhaseNumber,
			Title:       entry.Title,
			Description: entry.Description,
			DueDate:     entry.DueDate,
			Amount:      entry.Amount,
			Status:      domain.MilestoneNotStarted,
			AuditFields: audit,
		}
	}

	if err := s.workspaceRepo.SaveWorkspace(ctx, workspace, milestones); err != nil {
		logger.Error("Failed to save workspace", slog.String("error", err.Error()), slog.String("project_id", req.ProjectID))
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	logger.Info("Workspace created", slog.String("workspace_id", workspaceID), slog.Int("milestones", len(milestones)))
	return &workspace, nil
}

// GetWorkspace returns a workspace with progress derived at read time,
// together with its milestone plan.
func (s *workspaceService) GetWorkspace(ctx context.Context, actor domain.ActorContext, workspaceID string) (*domain.Workspace, []domain.Milestone, error) {
	workspace, err := s.AuthorizeActor(ctx, actor, workspaceID, "")
	if err != nil {
		return nil, nil, err
	}

	milestones, err := s.milestoneRepo.ListMilestonesByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load milestones for workspace %s: %w", workspaceID, err)
	}

	// Derived fields are never trusted from storage on reads.
	workspace.OverallProgress = domain.ComputeOverallProgress(milestones)
	if phase := domain.ComputeCurrentPhase(milestones); phase > workspace.CurrentPhase {
		workspace.CurrentPhase = phase
	}

	return workspace, milestones, nil
}

// RecomputeProgress re-derives overallProgress and currentPhase from the
// milestone set and persists them. Safe to call after every milestone
// mutation; calling it redundantly is a no-op.
func (s *workspaceService) RecomputeProgress(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	workspace, err := s.workspaceRepo.FindWorkspaceByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	milestones, err := s.milestoneRepo.ListMilestonesByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load milestones for workspace %s: %w", workspaceID, err)
	}

	progress := domain.ComputeOverallProgress(milestones)
	phase := domain.ComputeCurrentPhase(milestones)
	// currentPhase only ever advances; a revision never regresses it.
	if phase < workspace.CurrentPhase {
		phase = workspace.CurrentPhase
	}

	status := workspace.Status
	if status == domain.WorkspaceActive && allPaid(milestones) {
		status = domain.WorkspaceCompleted
	}

	now := time.Now().UTC()
	if err := s.workspaceRepo.UpdateWorkspaceProgress(ctx, workspaceID, progress, phase, status, workspace.LastUpdatedBy, now); err != nil {
		logger.Error("Failed to persist workspace progress", slog.String("error", err.Error()), slog.String("workspace_id", workspaceID))
		return nil, fmt.Errorf("failed to update workspace progress: %w", err)
	}

	workspace.OverallProgress = progress
	workspace.CurrentPhase = phase
	workspace.Status = status
	workspace.LastUpdatedAt = now

	logger.Debug("Workspace progress recomputed", slog.String("workspace_id", workspaceID), slog.Int("progress", progress), slog.Int("current_phase", phase))
	return workspace, nil
}

// AuthorizeActor verifies the actor is a party to the workspace with the
// required role. An empty required role admits either party. Admins are always
// authorized. Unknown workspaces surface as ErrNotFound; known workspaces the
// actor has no business with surface as ErrNotFound as well, to avoid leaking
// their existence.
func (s *workspaceService) AuthorizeActor(ctx context.Context, actor domain.ActorContext, workspaceID string, required domain.MarketplaceRole) (*domain.Workspace, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	workspace, err := s.workspaceRepo.FindWorkspaceByID(ctx, workspaceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find workspace for authorization", slog.String("error", err.Error()), slog.String("workspace_id", workspaceID))
		}
		return nil, err
	}

	if actor.Role == domain.RoleAdmin {
		return workspace, nil
	}

	if !actor.IsClient(workspace) && !actor.IsFreelancer(workspace) {
		logger.Warn("Authorization failed: user is not a party to the workspace", slog.String("workspace_id", workspaceID))
		return nil, apperrors.ErrNotFound
	}

	switch required {
	case domain.RoleClient:
		if !actor.IsClient(workspace) {
			logger.Warn("Authorization failed: client action attempted by non-client", slog.String("workspace_id", workspaceID))
			return nil, apperrors.ErrForbidden
		}
	case domain.RoleFreelancer:
		if !actor.IsFreelancer(workspace) {
			logger.Warn("Authorization failed: freelancer action attempted by non-freelancer", slog.String("workspace_id", workspaceID))
			return nil, apperrors.ErrForbidden
		}
	}

	return workspace, nil
}

func allPaid(milestones []domain.Milestone) bool {
	if len(milestones) == 0 {
		return false
	}
	for _, m := range milestones {
		if m.Status != domain.MilestonePaid {
			return false
		}
	}
	return true
}
