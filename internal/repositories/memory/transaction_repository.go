// Package memory keeps transaction records in process memory. Data is lost on restart.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
)

// TransactionRepository is a mutex-guarded ordered slice of records.
type TransactionRepository struct {
	mu   sync.RWMutex
	txns []domain.Transaction
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

var _ portsrepo.TransactionRepositoryFacade = (*TransactionRepository)(nil)

func (r *TransactionRepository) indexOf(transactionID string) int {
	return slices.IndexFunc(r.txns, func(t domain.Transaction) bool {
		return t.TransactionID == transactionID
	})
}

func (r *TransactionRepository) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.txns), nil
}

func (r *TransactionRepository) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(transactionID)
	if i < 0 {
		return nil, apperrors.ErrNotFound
	}
	txn := r.txns[i]
	return &txn, nil
}

func (r *TransactionRepository) FindTransactionIDAtPosition(_ context.Context, index int) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.txns) {
		return "", apperrors.ErrNotFound
	}
	return r.txns[index].TransactionID, nil
}

func (r *TransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return r.SaveTransactions(ctx, []domain.Transaction{txn})
}

// SaveTransactions appends all records, or none when any ID is already taken.
func (r *TransactionRepository) SaveTransactions(_ context.Context, txns []domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(txns))
	for _, t := range txns {
		if _, dup := seen[t.TransactionID]; dup || r.indexOf(t.TransactionID) >= 0 {
			return fmt.Errorf("transaction %s: %w", t.TransactionID, apperrors.ErrDuplicate)
		}
		seen[t.TransactionID] = struct{}{}
	}
	r.txns = append(r.txns, txns...)
	return nil
}

func (r *TransactionRepository) DeleteTransaction(_ context.Context, transactionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(transactionID)
	if i < 0 {
		return apperrors.ErrNotFound
	}
	r.txns = slices.Delete(slices.Clone(r.txns), i, i+1)
	return nil
}
