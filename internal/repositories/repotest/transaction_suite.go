// Package repotest holds a behavioural test suite shared by every
// TransactionRepositoryFacade implementation.
package repotest

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// TransactionRepositorySuite exercises ordering, atomic import, lookup and delete.
// NewRepo must return an empty repository for every test.
type TransactionRepositorySuite struct {
	suite.Suite
	NewRepo func() portsrepo.TransactionRepositoryFacade

	repo portsrepo.TransactionRepositoryFacade
	ctx  context.Context
}

func (s *TransactionRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = s.NewRepo()
}

// NewTransaction builds a complete record stamped at a fixed instant.
func NewTransaction(description, amount string) domain.Transaction {
	now := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)
	return domain.Transaction{
		TransactionID: uuid.NewString(),
		Date:          domain.NewDate(2024, time.January, 1),
		Description:   description,
		Amount:        decimal.NewNullDecimal(decimal.RequireFromString(amount)),
		Category:      "Food",
		AuditFields:   domain.NewAuditFields("tester", now),
	}
}

func (s *TransactionRepositorySuite) descriptions() []string {
	txns, err := s.repo.ListTransactions(s.ctx)
	s.Require().NoError(err)
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.Description
	}
	return out
}

func (s *TransactionRepositorySuite) TestListEmpty() {
	txns, err := s.repo.ListTransactions(s.ctx)
	s.Require().NoError(err)
	s.Empty(txns)
}

func (s *TransactionRepositorySuite) TestSaveAndFindRoundTrip() {
	txn := NewTransaction("Coffee Shop", "-5.25")
	txn.Balance = decimal.NewNullDecimal(decimal.RequireFromString("100.75"))
	s.Require().NoError(s.repo.SaveTransaction(s.ctx, txn))

	got, err := s.repo.FindTransactionByID(s.ctx, txn.TransactionID)
	s.Require().NoError(err)
	s.Equal(txn.TransactionID, got.TransactionID)
	s.Equal("2024-01-01", got.Date.String())
	s.Equal("Coffee Shop", got.Description)
	s.True(got.Amount.Valid)
	s.True(decimal.RequireFromString("-5.25").Equal(got.Amount.Decimal))
	s.True(decimal.RequireFromString("100.75").Equal(got.Balance.Decimal))
	s.Equal("Food", got.Category)
	s.Equal("tester", got.CreatedBy)
	s.True(txn.CreatedAt.Equal(got.CreatedAt))
}

func (s *TransactionRepositorySuite) TestAmountsKeepFullPrecision() {
	txn := NewTransaction("FX fee", "-0.123456789")
	txn.Balance = decimal.NewNullDecimal(decimal.RequireFromString("123456789012345678901.5"))
	s.Require().NoError(s.repo.SaveTransaction(s.ctx, txn))

	got, err := s.repo.FindTransactionByID(s.ctx, txn.TransactionID)
	s.Require().NoError(err)
	s.True(txn.Amount.Decimal.Equal(got.Amount.Decimal), "amount %s", got.Amount.Decimal)
	s.True(txn.Balance.Decimal.Equal(got.Balance.Decimal), "balance %s", got.Balance.Decimal)
}

func (s *TransactionRepositorySuite) TestSparseRecordKeepsMissingFields() {
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		Description:   "Imported row",
		AuditFields:   domain.NewAuditFields("tester", time.Now().UTC()),
	}
	s.Require().NoError(s.repo.SaveTransaction(s.ctx, txn))

	got, err := s.repo.FindTransactionByID(s.ctx, txn.TransactionID)
	s.Require().NoError(err)
	s.True(got.Date.IsZero())
	s.False(got.Amount.Valid)
	s.False(got.Balance.Valid)
	s.Empty(got.Category)
}

func (s *TransactionRepositorySuite) TestInsertionOrderAndPosition() {
	for _, d := range []string{"first", "second", "third"} {
		s.Require().NoError(s.repo.SaveTransaction(s.ctx, NewTransaction(d, "-1")))
	}
	s.Equal([]string{"first", "second", "third"}, s.descriptions())

	txns, err := s.repo.ListTransactions(s.ctx)
	s.Require().NoError(err)
	id, err := s.repo.FindTransactionIDAtPosition(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(txns[1].TransactionID, id)

	_, err = s.repo.FindTransactionIDAtPosition(s.ctx, 3)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *TransactionRepositorySuite) TestDeleteShiftsPositions() {
	a, b, c := NewTransaction("a", "-1"), NewTransaction("b", "-2"), NewTransaction("c", "-3")
	s.Require().NoError(s.repo.SaveTransactions(s.ctx, []domain.Transaction{a, b, c}))

	s.Require().NoError(s.repo.DeleteTransaction(s.ctx, b.TransactionID))
	s.Equal([]string{"a", "c"}, s.descriptions())

	id, err := s.repo.FindTransactionIDAtPosition(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(c.TransactionID, id)

	s.ErrorIs(s.repo.DeleteTransaction(s.ctx, b.TransactionID), apperrors.ErrNotFound)
	_, err = s.repo.FindTransactionByID(s.ctx, b.TransactionID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *TransactionRepositorySuite) TestDuplicateID() {
	txn := NewTransaction("a", "-1")
	s.Require().NoError(s.repo.SaveTransaction(s.ctx, txn))
	s.ErrorIs(s.repo.SaveTransaction(s.ctx, txn), apperrors.ErrDuplicate)
}

func (s *TransactionRepositorySuite) TestSaveTransactionsIsAtomic() {
	existing := NewTransaction("existing", "-1")
	s.Require().NoError(s.repo.SaveTransaction(s.ctx, existing))

	batch := []domain.Transaction{NewTransaction("new", "-2"), existing}
	s.Error(s.repo.SaveTransactions(s.ctx, batch))
	s.Equal([]string{"existing"}, s.descriptions())
}
