package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gigbridge/gigbridge_backend/internal/apperrors"
	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	"github.com/gigbridge/gigbridge_backend/internal/dto"
	"github.com/gigbridge/gigbridge_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testJWTSecret = "test-secret"

type MockMilestoneService struct {
	mock.Mock
}

func (m *MockMilestoneService) StartMilestone(ctx context.Context, actor domain.ActorContext, milestoneID string) (*domain.Milestone, error) {
	args := m.Called(ctx, actor, milestoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Milestone), args.Error(1)
}

func (m *MockMilestoneService) SubmitWork(ctx context.Context, actor domain.ActorContext, milestoneID string, req dto.SubmitWorkRequest) (*domain.Milestone, error) {
	args := m.Called(ctx, actor, milestoneID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Milestone), args.Error(1)
}

func (m *MockMilestoneService) ApproveMilestone(ctx context.Context, actor domain.ActorContext, milestoneID string, feedback string) (*domain.Milestone, error) {
	args := m.Called(ctx, actor, milestoneID, feedback)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Milestone), args.Error(1)
}

func (m *MockMilestoneService) RequestRevision(ctx context.Context, actor domain.ActorContext, milestoneID string, reason string) (*domain.Milestone, error) {
	args := m.Called(ctx, actor, milestoneID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Milestone), args.Error(1)
}

func (m *MockMilestoneService) MarkDisputed(ctx context.Context, actor domain.ActorContext, milestoneID string) (*domain.Milestone, error) {
	args := m.Called(ctx, actor, milestoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Milestone), args.Error(1)
}

func (m *MockMilestoneService) MarkCancelled(ctx context.Context, actor domain.ActorContext, milestoneID string) (*domain.Milestone, error) {
	args := m.Called(ctx, actor, milestoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Milestone), args.Error(1)
}

func (m *MockMilestoneService) GetMilestone(ctx context.Context, actor domain.ActorContext, milestoneID string) (*domain.Milestone, error) {
	args := m.Called(ctx, actor, milestoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Milestone), args.Error(1)
}

type MilestoneHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockMilestoneService

	freelancer domain.ActorContext
	client     domain.ActorContext
}

func (suite *MilestoneHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockService = new(MockMilestoneService)

	suite.router = gin.New()
	api := suite.router.Group("/api/v1", middleware.AuthMiddleware(testJWTSecret))
	registerMilestoneRoutes(api, suite.mockService)

	suite.freelancer = domain.ActorContext{UserID: uuid.NewString(), Role: domain.RoleFreelancer}
	suite.client = domain.ActorContext{UserID: uuid.NewString(), Role: domain.RoleClient}
}

// signToken issues a short-lived HS256 token the way the identity service does.
func (suite *MilestoneHandlerTestSuite) signToken(actor domain.ActorContext) string {
	claims := jwt.MapClaims{
		"sub":  actor.UserID,
		"role": string(actor.Role),
		"exp":  time.Now().Add(time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	suite.Require().NoError(err)
	return token
}

func (suite *MilestoneHandlerTestSuite) doRequest(actor *domain.ActorContext, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req.Header.Set("Authorization", "Bearer "+suite.signToken(*actor))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *MilestoneHandlerTestSuite) newMilestone(status domain.MilestoneStatus) *domain.Milestone {
	return &domain.Milestone{
		MilestoneID: uuid.NewString(),
		WorkspaceID: uuid.NewString(),
		PhaseNumber: 1,
		Title:       "Design mockups",
		Status:      status,
	}
}

func (suite *MilestoneHandlerTestSuite) TestStartMilestone() {
	milestone := suite.newMilestone(domain.MilestoneInProgress)
	suite.mockService.On("StartMilestone", mock.Anything, suite.freelancer, milestone.MilestoneID).Return(milestone, nil).Once()

	w := suite.doRequest(&suite.freelancer, http.MethodPost, "/api/v1/milestones/"+milestone.MilestoneID+"/start", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.MilestoneResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(milestone.MilestoneID, resp.MilestoneID)
	suite.Equal(string(domain.MilestoneInProgress), resp.Status)
}

func (suite *MilestoneHandlerTestSuite) TestStartMilestoneWithoutTokenIsUnauthorized() {
	w := suite.doRequest(nil, http.MethodPost, "/api/v1/milestones/"+uuid.NewString()+"/start", nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "StartMilestone", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MilestoneHandlerTestSuite) TestSubmitWorkRequiresArtifacts() {
	w := suite.doRequest(&suite.freelancer, http.MethodPost, "/api/v1/milestones/"+uuid.NewString()+"/submit", gin.H{"notes": "done"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "SubmitWork", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MilestoneHandlerTestSuite) TestSubmitWork() {
	milestone := suite.newMilestone(domain.MilestoneAwaitingApproval)
	req := dto.SubmitWorkRequest{Artifacts: []string{"https://files.example/design-v1.fig"}, Notes: "first pass"}
	suite.mockService.On("SubmitWork", mock.Anything, suite.freelancer, milestone.MilestoneID, req).Return(milestone, nil).Once()

	w := suite.doRequest(&suite.freelancer, http.MethodPost, "/api/v1/milestones/"+milestone.MilestoneID+"/submit", req)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *MilestoneHandlerTestSuite) TestApproveMilestoneWithEmptyBody() {
	milestone := suite.newMilestone(domain.MilestonePaid)
	milestone.Payment.Released = true
	suite.mockService.On("ApproveMilestone", mock.Anything, suite.client, milestone.MilestoneID, "").Return(milestone, nil).Once()

	w := suite.doRequest(&suite.client, http.MethodPost, "/api/v1/milestones/"+milestone.MilestoneID+"/approve", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.MilestoneResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.PaymentReleased)
}

func (suite *MilestoneHandlerTestSuite) TestApproveMilestoneReleaseFailureIsBadGateway() {
	milestone := suite.newMilestone(domain.MilestoneApproved)
	suite.mockService.On("ApproveMilestone", mock.Anything, suite.client, milestone.MilestoneID, "").
		Return(milestone, apperrors.ErrInternal).Once()

	w := suite.doRequest(&suite.client, http.MethodPost, "/api/v1/milestones/"+milestone.MilestoneID+"/approve", nil)

	suite.Equal(http.StatusBadGateway, w.Code, "client should retry the approve call")
}

func (suite *MilestoneHandlerTestSuite) TestRequestRevisionConflictOnBadState() {
	milestoneID := uuid.NewString()
	suite.mockService.On("RequestRevision", mock.Anything, suite.client, milestoneID, "wrong palette").
		Return(nil, apperrors.ErrInvalidTransition).Once()

	w := suite.doRequest(&suite.client, http.MethodPost, "/api/v1/milestones/"+milestoneID+"/revision", gin.H{"reason": "wrong palette"})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *MilestoneHandlerTestSuite) TestGetMilestoneNotFound() {
	milestoneID := uuid.NewString()
	suite.mockService.On("GetMilestone", mock.Anything, suite.client, milestoneID).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(&suite.client, http.MethodGet, "/api/v1/milestones/"+milestoneID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func TestMilestoneHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(MilestoneHandlerTestSuite))
}
