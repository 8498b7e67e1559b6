package services_test

import (
	"context"
	"testing"

	"github.com/gigbridge/gigbridge_backend/internal/apperrors"
	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	portssvc "github.com/gigbridge/gigbridge_backend/internal/core/ports/services"
	"github.com/gigbridge/gigbridge_backend/internal/core/services"
	"github.com/gigbridge/gigbridge_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo *MockLedgerRepository
	service        portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewLedgerService(suite.mockLedgerRepo)
}

func (suite *LedgerServiceTestSuite) newAdmin() domain.ActorContext {
	return domain.ActorContext{UserID: uuid.NewString(), Role: domain.RoleAdmin}
}

func (suite *LedgerServiceTestSuite) newEntry() domain.LedgerEntry {
	return domain.LedgerEntry{
		Type:         domain.EntryBonus,
		FromUserID:   uuid.NewString(),
		FromRole:     domain.RoleClient,
		ToUserID:     uuid.NewString(),
		ToRole:       domain.RoleFreelancer,
		Amount:       mustDecimal("150"),
		PlatformFee:  mustDecimal("15"),
		CurrencyCode: "USD",
	}
}

func (suite *LedgerServiceTestSuite) TestAppendEntryAssignsIdentityAndNet() {
	var appended domain.LedgerEntry
	suite.mockLedgerRepo.On("AppendEntry", mock.Anything, mock.AnythingOfType("domain.LedgerEntry")).
		Run(func(args mock.Arguments) { appended = args.Get(1).(domain.LedgerEntry) }).
		Return(nil).Once()

	entry := suite.newEntry()
	entry.EntryID = "caller-supplied-id"

	saved, err := suite.service.AppendEntry(context.Background(), suite.newAdmin(), entry)

	suite.Require().NoError(err)
	suite.NotEqual("caller-supplied-id", saved.EntryID, "identity is never taken from the caller")
	suite.Equal(domain.EntryPending, saved.Status)
	suite.True(saved.NetAmount.Equal(mustDecimal("135")))
	suite.Equal(saved.EntryID, appended.EntryID)
	suite.False(saved.CreatedAt.IsZero())
}

func (suite *LedgerServiceTestSuite) TestAppendEntryRequiresAdmin() {
	for _, role := range []domain.MarketplaceRole{domain.RoleClient, domain.RoleFreelancer} {
		actor := domain.ActorContext{UserID: uuid.NewString(), Role: role}

		_, err := suite.service.AppendEntry(context.Background(), actor, suite.newEntry())

		suite.ErrorIs(err, apperrors.ErrForbidden)
	}
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "AppendEntry", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestAppendEntryAttributesAuthorToActor() {
	suite.mockLedgerRepo.On("AppendEntry", mock.Anything, mock.Anything).Return(nil).Once()

	admin := suite.newAdmin()
	entry := suite.newEntry()
	entry.CreatedBy = "caller-supplied-author"
	entry.LastUpdatedBy = "caller-supplied-author"

	saved, err := suite.service.AppendEntry(context.Background(), admin, entry)

	suite.Require().NoError(err)
	suite.Equal(admin.UserID, saved.CreatedBy)
	suite.Equal(admin.UserID, saved.LastUpdatedBy)
}

func (suite *LedgerServiceTestSuite) TestAppendEntryRejectsOrchestratedTypes() {
	for _, entryType := range []domain.EntryType{domain.EntryMilestonePayment, domain.EntryWithdrawal} {
		entry := suite.newEntry()
		entry.Type = entryType

		_, err := suite.service.AppendEntry(context.Background(), suite.newAdmin(), entry)

		suite.ErrorIs(err, apperrors.ErrValidation, "only adjustments may be appended directly")
	}
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "AppendEntry", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestAppendEntryCompletedGetsTimestamp() {
	suite.mockLedgerRepo.On("AppendEntry", mock.Anything, mock.Anything).Return(nil).Once()

	entry := suite.newEntry()
	entry.Status = domain.EntryCompleted

	saved, err := suite.service.AppendEntry(context.Background(), suite.newAdmin(), entry)

	suite.Require().NoError(err)
	suite.Require().NotNil(saved.CompletedAt)
}

func (suite *LedgerServiceTestSuite) TestAppendEntryRejectsUnknownType() {
	entry := suite.newEntry()
	entry.Type = "GIFT_CARD"

	_, err := suite.service.AppendEntry(context.Background(), suite.newAdmin(), entry)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrUnknownEntryType)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "AppendEntry", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestAppendEntryRejectsZeroAmount() {
	entry := suite.newEntry()
	entry.Amount = decimal.Zero

	_, err := suite.service.AppendEntry(context.Background(), suite.newAdmin(), entry)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestAppendEntryRejectsNegativeFee() {
	entry := suite.newEntry()
	entry.PlatformFee = mustDecimal("-1")

	_, err := suite.service.AppendEntry(context.Background(), suite.newAdmin(), entry)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestComputeBalance() {
	userID := uuid.NewString()
	entries := []domain.LedgerEntry{
		{Type: domain.EntryMilestonePayment, ToUserID: userID, Status: domain.EntryCompleted, Amount: mustDecimal("1000"), PlatformFee: mustDecimal("100"), NetAmount: mustDecimal("900")},
		{Type: domain.EntryWithdrawal, FromUserID: userID, ToUserID: userID, Status: domain.EntryCompleted, Amount: mustDecimal("-300"), NetAmount: mustDecimal("-300")},
	}
	suite.mockLedgerRepo.On("ListCompletedEntriesByUser", mock.Anything, userID).Return(entries, nil).Once()

	balance, err := suite.service.ComputeBalance(context.Background(), userID)

	suite.Require().NoError(err)
	suite.True(balance.Equal(mustDecimal("600")), "900 net in minus 300 withdrawn")
}

func (suite *LedgerServiceTestSuite) TestTransitionEntryStatus() {
	admin := suite.newAdmin()
	entry := &domain.LedgerEntry{EntryID: uuid.NewString(), Type: domain.EntryWithdrawal, Status: domain.EntryProcessing}
	suite.mockLedgerRepo.On("FindEntryByID", mock.Anything, entry.EntryID).Return(entry, nil).Once()
	suite.mockLedgerRepo.On("UpdateEntryStatus", mock.Anything, entry.EntryID, domain.EntryCompleted, mock.Anything, admin.UserID).Return(nil).Once()

	updated, err := suite.service.TransitionEntryStatus(context.Background(), admin, entry.EntryID, domain.EntryCompleted)

	suite.Require().NoError(err)
	suite.Equal(domain.EntryCompleted, updated.Status)
	suite.Equal(admin.UserID, updated.LastUpdatedBy, "the acting credential is recorded, not the previous updater")
	suite.Require().NotNil(updated.CompletedAt)
}

func (suite *LedgerServiceTestSuite) TestTransitionEntryStatusRequiresAdmin() {
	victimEntryID := uuid.NewString()
	for _, role := range []domain.MarketplaceRole{domain.RoleClient, domain.RoleFreelancer} {
		actor := domain.ActorContext{UserID: uuid.NewString(), Role: role}

		_, err := suite.service.TransitionEntryStatus(context.Background(), actor, victimEntryID, domain.EntryFailed)

		suite.ErrorIs(err, apperrors.ErrForbidden, "users must not drive entry statuses; failing a withdrawal would release its balance reservation")
	}
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "FindEntryByID", mock.Anything, mock.Anything)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "UpdateEntryStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestTransitionEntryStatusRejectsReopeningCompleted() {
	admin := suite.newAdmin()
	entry := &domain.LedgerEntry{EntryID: uuid.NewString(), Type: domain.EntryMilestonePayment, Status: domain.EntryCompleted}
	suite.mockLedgerRepo.On("FindEntryByID", mock.Anything, entry.EntryID).Return(entry, nil).Times(3)

	for _, target := range []domain.EntryStatus{domain.EntryPending, domain.EntryProcessing, domain.EntryFailed} {
		_, err := suite.service.TransitionEntryStatus(context.Background(), admin, entry.EntryID, target)
		suite.ErrorIs(err, apperrors.ErrInvalidTransition, "completed entries are financially frozen")
	}
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "UpdateEntryStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestReviewEntryRequiresAdmin() {
	actor := domain.ActorContext{UserID: uuid.NewString(), Role: domain.RoleClient}

	_, err := suite.service.ReviewEntry(context.Background(), actor, uuid.NewString(), dto.EntryReviewRequest{Flagged: true})

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "FindEntryByID", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestReviewEntryFlagsCompletedEntry() {
	admin := domain.ActorContext{UserID: uuid.NewString(), Role: domain.RoleAdmin}
	entry := &domain.LedgerEntry{EntryID: uuid.NewString(), Type: domain.EntryMilestonePayment, Status: domain.EntryCompleted}
	suite.mockLedgerRepo.On("FindEntryByID", mock.Anything, entry.EntryID).Return(entry, nil).Once()
	suite.mockLedgerRepo.On("SetEntryReviewMetadata", mock.Anything, entry.EntryID, true, domain.EntryUnderReview, admin.UserID, mock.Anything).Return(nil).Once()

	reviewed, err := suite.service.ReviewEntry(context.Background(), admin, entry.EntryID, dto.EntryReviewRequest{Flagged: true})

	suite.Require().NoError(err)
	suite.True(reviewed.Flagged)
	suite.Equal(domain.EntryUnderReview, reviewed.Status)
	suite.Equal(admin.UserID, reviewed.LastUpdatedBy)
}

func (suite *LedgerServiceTestSuite) TestReviewEntryVerifiesFlaggedEntry() {
	admin := domain.ActorContext{UserID: uuid.NewString(), Role: domain.RoleAdmin}
	entry := &domain.LedgerEntry{EntryID: uuid.NewString(), Type: domain.EntryMilestonePayment, Status: domain.EntryUnderReview, Flagged: true}
	suite.mockLedgerRepo.On("FindEntryByID", mock.Anything, entry.EntryID).Return(entry, nil).Once()
	suite.mockLedgerRepo.On("SetEntryReviewMetadata", mock.Anything, entry.EntryID, false, domain.EntryVerified, admin.UserID, mock.Anything).Return(nil).Once()

	reviewed, err := suite.service.ReviewEntry(context.Background(), admin, entry.EntryID, dto.EntryReviewRequest{Verified: true})

	suite.Require().NoError(err)
	suite.False(reviewed.Flagged)
	suite.Equal(domain.EntryVerified, reviewed.Status)
}

func (suite *LedgerServiceTestSuite) TestListUserEntriesDefaultsLimit() {
	userID := uuid.NewString()
	entries := []domain.LedgerEntry{{EntryID: uuid.NewString(), Type: domain.EntryBonus, Status: domain.EntryCompleted}}
	suite.mockLedgerRepo.On("ListEntriesByUser", mock.Anything, userID, 20, (*string)(nil)).Return(entries, "next-page", nil).Once()

	resp, err := suite.service.ListUserEntries(context.Background(), userID, dto.ListEntriesParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Entries, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next-page", *resp.NextToken)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
