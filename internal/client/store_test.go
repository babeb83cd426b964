package client_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/client"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	svc   *MockTransactionService
	store *client.Store
	ctx   context.Context
}

func (s *StoreTestSuite) SetupTest() {
	s.svc = new(MockTransactionService)
	s.store = client.NewStore(s.svc, nil)
	s.ctx = context.Background()
}

func txn(id, date, desc, amount, category string) domain.Transaction {
	t := domain.Transaction{TransactionID: id, Description: desc, Category: category}
	if date != "" {
		d, err := domain.ParseDate(date)
		if err != nil {
			panic(err)
		}
		t.Date = d
	}
	if amount != "" {
		t.Amount = nd(amount)
	}
	return t
}

func ids(txns []domain.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.TransactionID
	}
	return out
}

func (s *StoreTestSuite) TestLoad() {
	s.svc.On("FetchAll", s.ctx).Return([]domain.Transaction{txn("a", "", "A", "", "")}, nil).Once()
	s.svc.On("FetchAll", s.ctx).Return(nil, errors.New("boom")).Once()

	s.Require().NoError(s.store.Load(s.ctx))
	s.Equal([]string{"a"}, ids(s.store.Snapshot()))

	s.Error(s.store.Load(s.ctx))
	s.Equal([]string{"a"}, ids(s.store.Snapshot()), "failed load keeps the previous list")
}

func (s *StoreTestSuite) TestLoad_FirstFailureLeavesEmpty() {
	s.svc.On("FetchAll", s.ctx).Return(nil, errors.New("boom")).Once()

	s.Error(s.store.Load(s.ctx))
	s.NotNil(s.store.Snapshot())
	s.Zero(s.store.Len())
}

func (s *StoreTestSuite) TestMutationsNotifySubscribersWithSameList() {
	var tableSeen, chartSeen []domain.Transaction
	s.store.Subscribe(func(l []domain.Transaction) { tableSeen = l })
	s.store.Subscribe(func(l []domain.Transaction) { chartSeen = l })

	s.store.Append(txn("a", "", "A", "", ""), txn("b", "", "B", "", ""))
	s.Equal([]string{"a", "b"}, ids(tableSeen))
	s.Same(&tableSeen[0], &chartSeen[0])
	s.Same(&tableSeen[0], &s.store.Snapshot()[0])

	s.store.ReplaceAll([]domain.Transaction{txn("c", "", "C", "", "")})
	s.Equal([]string{"c"}, ids(chartSeen))

	s.Require().NoError(s.store.RemoveAt(0))
	s.Empty(tableSeen)
	s.ErrorIs(s.store.RemoveAt(0), apperrors.ErrNotFound)
	s.ErrorIs(s.store.RemoveByID("zzz"), apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestSnapshotIsNotMutatedByLaterChanges() {
	s.store.Append(txn("a", "", "A", "", ""), txn("b", "", "B", "", ""))
	before := s.store.Snapshot()

	s.Require().NoError(s.store.RemoveByID("a"))
	s.store.Append(txn("c", "", "C", "", ""))

	s.Equal([]string{"a", "b"}, ids(before))
	s.Equal([]string{"b", "c"}, ids(s.store.Snapshot()))
}

func (s *StoreTestSuite) TestAdd_Optimistic() {
	rec := txn("", "2024-01-15", "Rent", "-1000", "Housing")
	var seenDuringCall int
	s.svc.On("Add", s.ctx, mock.AnythingOfType("domain.Transaction")).
		Run(func(mock.Arguments) { seenDuringCall = s.store.Len() }).
		Return("id-1", nil).Once()

	added, err := s.store.Add(s.ctx, rec)

	s.Require().NoError(err)
	s.NotEmpty(added.TransactionID)
	s.Equal(1, seenDuringCall, "record is visible before the backend confirms")
	s.Equal([]string{added.TransactionID}, ids(s.store.Snapshot()))
}

func (s *StoreTestSuite) TestAdd_RollbackOnFailure() {
	s.store.Append(txn("a", "", "A", "", ""))
	s.svc.On("Add", s.ctx, mock.Anything).Return("", &client.APIError{Status: 500}).Once()

	_, err := s.store.Add(s.ctx, txn("", "2024-01-15", "Rent", "-1000", ""))

	var apiErr *client.APIError
	s.ErrorAs(err, &apiErr)
	s.Equal([]string{"a"}, ids(s.store.Snapshot()))
}

func (s *StoreTestSuite) TestAdd_ValidationBlocksCall() {
	_, err := s.store.Add(s.ctx, txn("", "", "Rent", "-1000", ""))

	s.ErrorIs(err, apperrors.ErrValidation)
	s.Zero(s.store.Len())
	s.svc.AssertNotCalled(s.T(), "Add", mock.Anything, mock.Anything)
}

func (s *StoreTestSuite) TestDelete_ReconcilesWithBackend() {
	s.store.Append(txn("a", "", "A", "", ""), txn("b", "", "B", "", ""), txn("c", "", "C", "", ""))
	s.svc.On("Delete", s.ctx, "b").Return(nil).Once()
	// The backend also lost "c" to another client.
	s.svc.On("FetchAll", s.ctx).Return([]domain.Transaction{txn("a", "", "A", "", "")}, nil).Once()

	s.Require().NoError(s.store.Delete(s.ctx, "b"))

	s.Equal([]string{"a"}, ids(s.store.Snapshot()))
	s.svc.AssertExpectations(s.T())
}

func (s *StoreTestSuite) TestDelete_NotRemovedUntilConfirmed() {
	s.store.Append(txn("a", "", "A", "", ""))
	s.svc.On("Delete", s.ctx, "a").Return(&client.APIError{Status: 404}).Once()

	s.Error(s.store.Delete(s.ctx, "a"))
	s.Equal([]string{"a"}, ids(s.store.Snapshot()))
}

func (s *StoreTestSuite) TestImport_AppendsReturnedRows() {
	s.store.Append(txn("a", "", "A", "", ""))
	body := strings.NewReader("csv")
	s.svc.On("Upload", s.ctx, "bank.csv", body).Return([]domain.Transaction{txn("b", "2024-01-01", "B", "-1", "")}, nil).Once()
	s.svc.On("Upload", s.ctx, "bad.csv", mock.Anything).Return(nil, errors.New("bad")).Once()

	rows, err := s.store.Import(s.ctx, "bank.csv", body)
	s.Require().NoError(err)
	s.Len(rows, 1)
	s.Equal([]string{"a", "b"}, ids(s.store.Snapshot()))

	_, err = s.store.Import(s.ctx, "bad.csv", strings.NewReader(""))
	s.Error(err)
	s.Equal(2, s.store.Len())
}

func TestStore(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
