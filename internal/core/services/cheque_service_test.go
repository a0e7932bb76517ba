package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ledger_settlement/internal/apperrors"
	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_settlement/internal/core/ports/services"
	"github.com/SscSPs/ledger_settlement/internal/core/services"
	"github.com/SscSPs/ledger_settlement/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ChequeRepository ---
type MockChequeRepository struct {
	mock.Mock
}

// Ensure MockChequeRepository implements portsrepo.ChequeRepositoryFacade
var _ portsrepo.ChequeRepositoryFacade = (*MockChequeRepository)(nil)

func (m *MockChequeRepository) FindChequeByID(ctx context.Context, chequeID string) (*domain.Cheque, error) {
	args := m.Called(ctx, chequeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Hand out a copy so the service cannot mutate the fixture.
	c := *args.Get(0).(*domain.Cheque)
	return &c, args.Error(1)
}

func (m *MockChequeRepository) ListChequesByStatus(ctx context.Context, status domain.ChequeStatus, limit int, nextToken *string) ([]domain.Cheque, *string, error) {
	args := m.Called(ctx, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Cheque), returnedNextToken, args.Error(2)
}

func (m *MockChequeRepository) SaveCheque(ctx context.Context, cheque domain.Cheque) error {
	args := m.Called(ctx, cheque)
	return args.Error(0)
}

func (m *MockChequeRepository) UpdateChequeStatus(ctx context.Context, cheque domain.Cheque, from domain.ChequeStatus) error {
	args := m.Called(ctx, cheque, from)
	return args.Error(0)
}

func (m *MockChequeRepository) DeleteCheque(ctx context.Context, chequeID string, expectedStatus domain.ChequeStatus) error {
	args := m.Called(ctx, chequeID, expectedStatus)
	return args.Error(0)
}

// --- Test Suite Setup ---
type ChequeServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockChequeRepository
	chequeSvc portssvc.ChequeSvcFacade
	ctx       context.Context
	now       time.Time
	userID    string
}

func (suite *ChequeServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockChequeRepository)
	suite.now = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	suite.chequeSvc = services.NewChequeService(suite.mockRepo,
		services.WithClock(func() time.Time { return suite.now }),
		services.WithConflictRetryLimit(2))
	suite.ctx = context.Background()
	suite.userID = "user-1"
}

func TestChequeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ChequeServiceTestSuite))
}

func (suite *ChequeServiceTestSuite) cheque(status domain.ChequeStatus) *domain.Cheque {
	return &domain.Cheque{
		ChequeID:       "chq-1",
		ChequeNumber:   "000123",
		ClientName:     "acme",
		Status:         status,
		Direction:      domain.ChequeIncoming,
		AccountingType: domain.ChequeAccountingPostponed,
		Amount:         decimal.NewFromInt(500),
		BankName:       "NBE",
		DueDate:        suite.now.AddDate(0, 1, 0),
	}
}

func (suite *ChequeServiceTestSuite) TestCreateCheque_Success() {
	req := dto.CreateChequeRequest{
		ChequeNumber:   " 000123 ",
		ClientName:     "acme",
		Direction:      domain.ChequeIncoming,
		AccountingType: domain.ChequeAccountingPostponed,
		Amount:         decimal.RequireFromString("500.005"),
		BankName:       "NBE",
		DueDate:        suite.now.AddDate(0, 1, 0),
	}
	suite.mockRepo.On("SaveCheque", suite.ctx, mock.MatchedBy(func(c domain.Cheque) bool {
		return c.Status == domain.ChequePending && c.ChequeNumber == "000123" && c.CreatedBy == suite.userID
	})).Return(nil).Once()

	cheque, err := suite.chequeSvc.CreateCheque(suite.ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ChequePending, cheque.Status)
	suite.True(cheque.Amount.Equal(decimal.RequireFromString("500.01")))
	suite.NotEmpty(cheque.ChequeID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ChequeServiceTestSuite) TestCreateCheque_Validation() {
	req := dto.CreateChequeRequest{ChequeNumber: "1", ClientName: "acme", Direction: "sideways"}
	_, err := suite.chequeSvc.CreateCheque(suite.ctx, req, suite.userID)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCheque", mock.Anything, mock.Anything)
}

func (suite *ChequeServiceTestSuite) TestTransitionCheque_Success() {
	suite.mockRepo.On("FindChequeByID", suite.ctx, "chq-1").Return(suite.cheque(domain.ChequePending), nil).Once()
	suite.mockRepo.On("UpdateChequeStatus", suite.ctx, mock.MatchedBy(func(c domain.Cheque) bool {
		return c.Status == domain.ChequeCashed && c.LastUpdatedBy == suite.userID
	}), domain.ChequePending).Return(nil).Once()

	cheque, err := suite.chequeSvc.TransitionCheque(suite.ctx, "chq-1", dto.TransitionChequeRequest{Status: domain.ChequeCashed}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ChequeCashed, cheque.Status)
	suite.Equal(suite.now, cheque.LastUpdatedAt)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ChequeServiceTestSuite) TestTransitionCheque_Illegal() {
	suite.mockRepo.On("FindChequeByID", suite.ctx, "chq-1").Return(suite.cheque(domain.ChequeCashed), nil).Once()

	name := "third party"
	_, err := suite.chequeSvc.TransitionCheque(suite.ctx, "chq-1",
		dto.TransitionChequeRequest{Status: domain.ChequeEndorsed, EndorseeName: &name}, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidChequeTransition)
	var transitionErr *apperrors.InvalidChequeTransitionError
	suite.Require().ErrorAs(err, &transitionErr)
	suite.Equal("cashed", transitionErr.From)
	suite.Equal("endorsed", transitionErr.To)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateChequeStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ChequeServiceTestSuite) TestTransitionCheque_EndorseNeedsName() {
	_, err := suite.chequeSvc.TransitionCheque(suite.ctx, "chq-1", dto.TransitionChequeRequest{Status: domain.ChequeEndorsed}, suite.userID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.chequeSvc.TransitionCheque(suite.ctx, "chq-1", dto.TransitionChequeRequest{Status: domain.ChequeDeleted}, suite.userID)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindChequeByID", mock.Anything, mock.Anything)
}

func (suite *ChequeServiceTestSuite) TestTransitionCheque_RetriesLostRace() {
	// First read sees pending, but someone cashes it before our write lands.
	suite.mockRepo.On("FindChequeByID", suite.ctx, "chq-1").Return(suite.cheque(domain.ChequePending), nil).Once()
	suite.mockRepo.On("UpdateChequeStatus", suite.ctx, mock.Anything, domain.ChequePending).Return(apperrors.ErrConflict).Once()
	suite.mockRepo.On("FindChequeByID", suite.ctx, "chq-1").Return(suite.cheque(domain.ChequeCashed), nil).Once()
	suite.mockRepo.On("UpdateChequeStatus", suite.ctx, mock.Anything, domain.ChequeCashed).Return(nil).Once()

	cheque, err := suite.chequeSvc.TransitionCheque(suite.ctx, "chq-1", dto.TransitionChequeRequest{Status: domain.ChequeBounced}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ChequeBounced, cheque.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ChequeServiceTestSuite) TestTransitionCheque_RetryRevalidates() {
	// After the race the cheque is endorsed, which is terminal.
	suite.mockRepo.On("FindChequeByID", suite.ctx, "chq-1").Return(suite.cheque(domain.ChequePending), nil).Once()
	suite.mockRepo.On("UpdateChequeStatus", suite.ctx, mock.Anything, domain.ChequePending).Return(apperrors.ErrConflict).Once()
	suite.mockRepo.On("FindChequeByID", suite.ctx, "chq-1").Return(suite.cheque(domain.ChequeEndorsed), nil).Once()

	_, err := suite.chequeSvc.TransitionCheque(suite.ctx, "chq-1", dto.TransitionChequeRequest{Status: domain.ChequeCashed}, suite.userID)

	suite.ErrorIs(err, apperrors.ErrInvalidChequeTransition)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ChequeServiceTestSuite) TestDeleteCheque() {
	suite.mockRepo.On("FindChequeByID", suite.ctx, "chq-1").Return(suite.cheque(domain.ChequePending), nil).Once()
	suite.mockRepo.On("DeleteCheque", suite.ctx, "chq-1", domain.ChequePending).Return(nil).Once()

	suite.NoError(suite.chequeSvc.DeleteCheque(suite.ctx, "chq-1", suite.userID))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ChequeServiceTestSuite) TestDeleteCheque_NotPending() {
	suite.mockRepo.On("FindChequeByID", suite.ctx, "chq-1").Return(suite.cheque(domain.ChequeCashed), nil).Once()

	err := suite.chequeSvc.DeleteCheque(suite.ctx, "chq-1", suite.userID)

	suite.ErrorIs(err, apperrors.ErrInvalidChequeTransition)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteCheque", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ChequeServiceTestSuite) TestGetCheque_NotFound() {
	suite.mockRepo.On("FindChequeByID", suite.ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.chequeSvc.GetCheque(suite.ctx, "missing")
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func (suite *ChequeServiceTestSuite) TestListCheques() {
	next := "tok"
	suite.mockRepo.On("ListChequesByStatus", suite.ctx, domain.ChequePending, 20, (*string)(nil)).
		Return([]domain.Cheque{*suite.cheque(domain.ChequePending)}, next, nil).Once()

	res, err := suite.chequeSvc.ListCheques(suite.ctx, dto.ListChequesParams{})

	suite.Require().NoError(err)
	suite.Require().Len(res.Cheques, 1)
	suite.Contains(res.Cheques[0].ValidTransitions, "cashed")
	suite.Equal(&next, res.NextToken)

	_, err = suite.chequeSvc.ListCheques(suite.ctx, dto.ListChequesParams{Status: "lost"})
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertExpectations(suite.T())
}
