package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/google/uuid"
)

// TransactionService is the backend surface the Store depends on.
type TransactionService interface {
	FetchAll(ctx context.Context) ([]domain.Transaction, error)
	Add(ctx context.Context, t domain.Transaction) (string, error)
	Delete(ctx context.Context, id string) error
	Upload(ctx context.Context, filename string, data io.Reader) ([]domain.Transaction, error)
}

// Store is the client-held ordered list of transactions.
//
// The list is copy-on-write: every mutation installs a fresh slice and hands
// that same slice to all subscribers, so readers never observe a partial update
// and the table and chart always render from one reference.
type Store struct {
	svc    TransactionService
	logger *slog.Logger

	mu      sync.RWMutex
	records []domain.Transaction
	subs    []func([]domain.Transaction)
}

// NewStore creates an empty Store backed by svc.
func NewStore(svc TransactionService, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		svc:     svc,
		logger:  logger,
		records: []domain.Transaction{},
	}
}

// Subscribe registers fn to receive the list after every mutation.
func (s *Store) Subscribe(fn func([]domain.Transaction)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Snapshot returns the current list. Callers must not modify it.
func (s *Store) Snapshot() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Load replaces the list with the backend's records. On failure the error is
// logged and the list is left as it was.
func (s *Store) Load(ctx context.Context) error {
	txns, err := s.svc.FetchAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load transactions", slog.String("error", err.Error()))
		return err
	}
	s.ReplaceAll(txns)
	s.logger.DebugContext(ctx, "Transactions loaded", slog.Int("count", len(txns)))
	return nil
}

// Append adds records to the end of the list.
func (s *Store) Append(records ...domain.Transaction) {
	if len(records) == 0 {
		return
	}
	s.update(func(cur []domain.Transaction) []domain.Transaction {
		return append(slices.Clip(cur), records...)
	})
}

// ReplaceAll installs records as the whole list.
func (s *Store) ReplaceAll(records []domain.Transaction) {
	next := slices.Clone(records)
	if next == nil {
		next = []domain.Transaction{}
	}
	s.update(func([]domain.Transaction) []domain.Transaction { return next })
}

// SortStableFunc reorders the list by cmp while holding the store lock, so
// records appended during the sort are kept.
func (s *Store) SortStableFunc(cmp func(a, b domain.Transaction) int) {
	s.update(func(cur []domain.Transaction) []domain.Transaction {
		next := slices.Clone(cur)
		slices.SortStableFunc(next, cmp)
		return next
	})
}

// RemoveAt removes the record at index.
func (s *Store) RemoveAt(index int) error {
	var err error
	s.update(func(cur []domain.Transaction) []domain.Transaction {
		if index < 0 || index >= len(cur) {
			err = fmt.Errorf("%w: no transaction at index %d", apperrors.ErrNotFound, index)
			return nil
		}
		return slices.Delete(slices.Clone(cur), index, index+1)
	})
	return err
}

// RemoveByID removes the record with the given ID.
func (s *Store) RemoveByID(id string) error {
	var err error
	s.update(func(cur []domain.Transaction) []domain.Transaction {
		i := indexOf(cur, id)
		if i < 0 {
			err = fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, id)
			return nil
		}
		return slices.Delete(slices.Clone(cur), i, i+1)
	})
	return err
}

// Add appends t optimistically, then confirms it with the backend. The local
// record is rolled back when the backend rejects it. Incomplete records are
// rejected before any request is made.
func (s *Store) Add(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	if err := t.RequireComplete(); err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	if t.TransactionID == "" {
		t.TransactionID = uuid.NewString()
	}

	s.Append(t)
	if _, err := s.svc.Add(ctx, t); err != nil {
		s.logger.WarnContext(ctx, "Add rejected, rolling back", slog.String("transaction_id", t.TransactionID), slog.String("error", err.Error()))
		_ = s.RemoveByID(t.TransactionID)
		return domain.Transaction{}, err
	}
	return t, nil
}

// Delete removes id at the backend, drops it locally once confirmed and then
// reloads so the list matches what the backend reports.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.svc.Delete(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "Delete failed", slog.String("transaction_id", id), slog.String("error", err.Error()))
		return err
	}
	_ = s.RemoveByID(id)
	if err := s.Load(ctx); err != nil {
		s.logger.WarnContext(ctx, "Reload after delete failed", slog.String("error", err.Error()))
	}
	return nil
}

// Import uploads a CSV file and appends the rows the backend imported.
func (s *Store) Import(ctx context.Context, filename string, data io.Reader) ([]domain.Transaction, error) {
	rows, err := s.svc.Upload(ctx, filename, data)
	if err != nil {
		s.logger.WarnContext(ctx, "Import failed", slog.String("filename", filename), slog.String("error", err.Error()))
		return nil, err
	}
	s.Append(rows...)
	return rows, nil
}

// update applies fn to the current list. A nil result leaves the list unchanged.
func (s *Store) update(fn func([]domain.Transaction) []domain.Transaction) {
	s.mu.Lock()
	next := fn(s.records)
	if next == nil {
		s.mu.Unlock()
		return
	}
	s.records = next
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(next)
	}
}

func indexOf(records []domain.Transaction, id string) int {
	return slices.IndexFunc(records, func(t domain.Transaction) bool {
		return t.TransactionID == id
	})
}
