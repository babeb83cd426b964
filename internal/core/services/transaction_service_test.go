package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/ports"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockTransactionRepository
	mockEvents *MockEventPublisher
	now        time.Time
	service    portssvc.TransactionSvcFacade
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTransactionRepository)
	suite.mockEvents = new(MockEventPublisher)
	suite.now = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewTransactionService(
		suite.mockRepo,
		services.WithEventPublisher(suite.mockEvents),
		services.WithClock(func() time.Time { return suite.now }),
	)
}

func amountPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (suite *TransactionServiceTestSuite) TestListTransactions_NilBecomesEmpty() {
	ctx := context.Background()
	suite.mockRepo.On("ListTransactions", ctx).Return(nil, nil).Once()

	txns, err := suite.service.ListTransactions(ctx)

	suite.Require().NoError(err)
	suite.NotNil(txns)
	suite.Empty(txns)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestListTransactions_RepoError() {
	ctx := context.Background()
	suite.mockRepo.On("ListTransactions", ctx).Return(nil, assert.AnError).Once()

	txns, err := suite.service.ListTransactions(ctx)

	suite.Require().Error(err)
	suite.Nil(txns)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_Success() {
	ctx := context.Background()
	creator := uuid.NewString()
	req := dto.CreateTransactionRequest{
		Date:        "2024-01-01T00:00:00.000Z",
		Description: "  Coffee Shop ",
		Amount:      amountPtr("-5.00"),
		Category:    "Food",
	}

	suite.mockRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Description == "Coffee Shop" &&
			t.Date.String() == "2024-01-01" &&
			t.Amount.Valid && t.Amount.Decimal.Equal(decimal.RequireFromString("-5")) &&
			!t.Balance.Valid &&
			t.CreatedBy == creator && t.CreatedAt.Equal(suite.now)
	})).Return(nil).Once()
	suite.mockEvents.On("Publish", ctx, mock.MatchedBy(func(e ports.TransactionEvent) bool {
		return e.Type == ports.EventTransactionCreated && len(e.TransactionIDs) == 1 && e.Actor == creator
	})).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, req, creator)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	_, parseErr := uuid.Parse(txn.TransactionID)
	suite.NoError(parseErr)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockEvents.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_KeepsClientID() {
	ctx := context.Background()
	id := uuid.NewString()
	req := dto.CreateTransactionRequest{
		ID:          id,
		Date:        "2024-01-15",
		Description: "Rent",
		Amount:      amountPtr("-1000"),
		Balance:     amountPtr("200"),
	}

	suite.mockRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.TransactionID == id && t.Balance.Valid
	})).Return(nil).Once()
	suite.mockEvents.On("Publish", ctx, mock.Anything).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, req, "anonymous")

	suite.Require().NoError(err)
	suite.Equal(id, txn.TransactionID)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ValidationErrors() {
	ctx := context.Background()
	tests := []dto.CreateTransactionRequest{
		{Date: "not-a-date", Description: "x", Amount: amountPtr("1")},
		{Date: "2024-01-01", Description: "   ", Amount: amountPtr("1")},
		{Date: "2024-01-01", Description: "x"},
		{ID: "txn_1", Date: "2024-01-01", Description: "x", Amount: amountPtr("1")},
	}

	for _, req := range tests {
		txn, err := suite.service.CreateTransaction(ctx, req, "anonymous")
		suite.Nil(txn)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_PublishFailureIsIgnored() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{Date: "2024-01-01", Description: "Tea", Amount: amountPtr("-2")}

	suite.mockRepo.On("SaveTransaction", ctx, mock.Anything).Return(nil).Once()
	suite.mockEvents.On("Publish", ctx, mock.Anything).Return(assert.AnError).Once()

	txn, err := suite.service.CreateTransaction(ctx, req, "anonymous")

	suite.NoError(err)
	suite.NotNil(txn)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_Duplicate() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{ID: uuid.NewString(), Date: "2024-01-01", Description: "Tea", Amount: amountPtr("-2")}

	suite.mockRepo.On("SaveTransaction", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	txn, err := suite.service.CreateTransaction(ctx, req, "anonymous")

	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockEvents.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction() {
	ctx := context.Background()
	id := uuid.NewString()

	suite.mockRepo.On("DeleteTransaction", ctx, id).Return(nil).Once()
	suite.mockEvents.On("Publish", ctx, mock.MatchedBy(func(e ports.TransactionEvent) bool {
		return e.Type == ports.EventTransactionDeleted && e.TransactionIDs[0] == id
	})).Return(nil).Once()

	suite.NoError(suite.service.DeleteTransaction(ctx, id, "anonymous"))
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockEvents.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_NotFound() {
	ctx := context.Background()
	id := uuid.NewString()
	suite.mockRepo.On("DeleteTransaction", ctx, id).Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeleteTransaction(ctx, id, "anonymous")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_InvalidID() {
	err := suite.service.DeleteTransaction(context.Background(), "7", "anonymous")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransactionAt() {
	ctx := context.Background()
	id := uuid.NewString()

	suite.mockRepo.On("FindTransactionIDAtPosition", ctx, 2).Return(id, nil).Once()
	suite.mockRepo.On("DeleteTransaction", ctx, id).Return(nil).Once()
	suite.mockEvents.On("Publish", ctx, mock.Anything).Return(nil).Once()

	suite.NoError(suite.service.DeleteTransactionAt(ctx, 2, "anonymous"))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeleteTransactionAt_OutOfRange() {
	ctx := context.Background()
	suite.mockRepo.On("FindTransactionIDAtPosition", ctx, 9).Return("", apperrors.ErrNotFound).Once()

	suite.ErrorIs(suite.service.DeleteTransactionAt(ctx, 9, "anonymous"), apperrors.ErrNotFound)
	suite.ErrorIs(suite.service.DeleteTransactionAt(ctx, -1, "anonymous"), apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestImportTransactions_Success() {
	ctx := context.Background()
	csv := "date,description,amount,category\n2024-01-01,Coffee Shop,-5,Food\n2024-01-02,Salary,3000,Income\n"

	suite.mockRepo.On("SaveTransactions", ctx, mock.MatchedBy(func(txns []domain.Transaction) bool {
		return len(txns) == 2 && txns[0].TransactionID != "" && txns[0].CreatedAt.Equal(suite.now)
	})).Return(nil).Once()
	suite.mockEvents.On("Publish", ctx, mock.MatchedBy(func(e ports.TransactionEvent) bool {
		return e.Type == ports.EventTransactionImported && len(e.TransactionIDs) == 2
	})).Return(nil).Once()

	txns, err := suite.service.ImportTransactions(ctx, "statement.CSV", strings.NewReader(csv), "anonymous")

	suite.Require().NoError(err)
	suite.Len(txns, 2)
	suite.Equal("Salary", txns[1].Description)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockEvents.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestImportTransactions_RejectsNonCSV() {
	txns, err := suite.service.ImportTransactions(context.Background(), "statement.xlsx", strings.NewReader(""), "anonymous")

	suite.Nil(txns)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTransactions", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestImportTransactions_MalformedRow() {
	csv := "date,amount\n2024-01-01,oops\n"
	txns, err := suite.service.ImportTransactions(context.Background(), "a.csv", strings.NewReader(csv), "anonymous")

	suite.Nil(txns)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "line 2")
}

func (suite *TransactionServiceTestSuite) TestImportTransactions_EmptyFile() {
	txns, err := suite.service.ImportTransactions(context.Background(), "a.csv", strings.NewReader("date,amount\n"), "anonymous")

	suite.NoError(err)
	suite.NotNil(txns)
	suite.Empty(txns)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTransactions", mock.Anything, mock.Anything)
}

func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
