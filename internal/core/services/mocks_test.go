package services_test

import (
	"context"
	"time"

	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	portsrepo "github.com/gigbridge/gigbridge_backend/internal/core/ports/repositories"
	portssvc "github.com/gigbridge/gigbridge_backend/internal/core/ports/services"
	"github.com/gigbridge/gigbridge_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock MilestoneRepository ---
type MockMilestoneRepository struct {
	mock.Mock
}

var _ portsrepo.MilestoneRepositoryFacade = (*MockMilestoneRepository)(nil)

func (m *MockMilestoneRepository) FindMilestoneByID(ctx context.Context, milestoneID string) (*domain.Milestone, error) {
	args := m.Called(ctx, milestoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Milestone), args.Error(1)
}

func (m *MockMilestoneRepository) ListMilestonesByWorkspace(ctx context.Context, workspaceID string) ([]domain.Milestone, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Milestone), args.Error(1)
}

func (m *MockMilestoneRepository) UpdateMilestone(ctx context.Context, milestone domain.Milestone) error {
	args := m.Called(ctx, milestone)
	return args.Error(0)
}

func (m *MockMilestoneRepository) UpdateMilestoneStatus(ctx context.Context, milestoneID string, status domain.MilestoneStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, milestoneID, status, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindCompletedMilestonePayment(ctx context.Context, milestoneID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, milestoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListCompletedEntriesByUser(ctx context.Context, userID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerEntry), returnedNextToken, args.Error(2)
}

func (m *MockLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) ReleaseMilestonePayment(ctx context.Context, milestone domain.Milestone, entry domain.LedgerEntry) error {
	args := m.Called(ctx, milestone, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) InitiateWithdrawal(ctx context.Context, entry domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, at time.Time, updatedBy string) error {
	args := m.Called(ctx, entryID, status, at, updatedBy)
	return args.Error(0)
}

func (m *MockLedgerRepository) SetEntryReviewMetadata(ctx context.Context, entryID string, flagged bool, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, entryID, flagged, status, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock WorkspaceRepository ---
type MockWorkspaceRepository struct {
	mock.Mock
}

var _ portsrepo.WorkspaceRepositoryFacade = (*MockWorkspaceRepository)(nil)

func (m *MockWorkspaceRepository) FindWorkspaceByID(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) SaveWorkspace(ctx context.Context, workspace domain.Workspace, milestones []domain.Milestone) error {
	args := m.Called(ctx, workspace, milestones)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) UpdateWorkspaceProgress(ctx context.Context, workspaceID string, overallProgress, currentPhase int, status domain.WorkspaceStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, workspaceID, overallProgress, currentPhase, status, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock WorkspaceService ---
type MockWorkspaceService struct {
	mock.Mock
}

var _ portssvc.WorkspaceSvcFacade = (*MockWorkspaceService)(nil)

func (m *MockWorkspaceService) CreateWorkspace(ctx context.Context, actor domain.ActorContext, req dto.CreateWorkspaceRequest) (*domain.Workspace, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) GetWorkspace(ctx context.Context, actor domain.ActorContext, workspaceID string) (*domain.Workspace, []domain.Milestone, error) {
	args := m.Called(ctx, actor, workspaceID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Workspace), args.Get(1).([]domain.Milestone), args.Error(2)
}

func (m *MockWorkspaceService) RecomputeProgress(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) AuthorizeActor(ctx context.Context, actor domain.ActorContext, workspaceID string, required domain.MarketplaceRole) (*domain.Workspace, error) {
	args := m.Called(ctx, actor, workspaceID, required)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

func (m *MockPaymentService) ReleasePayment(ctx context.Context, milestoneID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, milestoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockPaymentService) InitiateWithdrawal(ctx context.Context, actor domain.ActorContext, req dto.WithdrawalRequest) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

// stubPublisher records published events without any behavior behind them.
type stubPublisher struct {
	events []domain.Event
}

var _ portssvc.EventPublisher = (*stubPublisher)(nil)

func (p *stubPublisher) Publish(_ context.Context, event domain.Event) {
	p.events = append(p.events, event)
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
