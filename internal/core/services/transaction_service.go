package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/ports"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/utils/csvimport"
	"github.com/google/uuid"
)

// transactionService implements portssvc.TransactionSvcFacade
type transactionService struct {
	BaseService
	transactionRepo portsrepo.TransactionRepositoryFacade
	now             func() time.Time
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithEventPublisher sets the publisher notified after each successful mutation.
func WithEventPublisher(publisher ports.EventPublisher) TransactionServiceOption {
	return func(s *transactionService) {
		s.Events = publisher
	}
}

// WithClock overrides the time source used for audit fields.
func WithClock(now func() time.Time) TransactionServiceOption {
	return func(s *transactionService) {
		s.now = now
	}
}

// NewTransactionService creates a new transaction service with the provided options
func NewTransactionService(repo portsrepo.TransactionRepositoryFacade, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		transactionRepo: repo,
		now:             time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	txns, err := s.transactionRepo.ListTransactions(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, fmt.Errorf("failed to list transactions in service: %w", err)
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}

func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	txn := domain.Transaction{
		TransactionID: req.ID,
		Date:          date,
		Description:   strings.TrimSpace(req.Description),
		Category:      strings.TrimSpace(req.Category),
		AuditFields:   domain.NewAuditFields(creatorUserID, s.now()),
	}
	if txn.TransactionID == "" {
		txn.TransactionID = uuid.NewString()
	}
	if req.Amount != nil {
		txn.Amount.Decimal, txn.Amount.Valid = *req.Amount, true
	}
	if req.Balance != nil {
		txn.Balance.Decimal, txn.Balance.Valid = *req.Balance, true
	}

	if err := txn.RequireComplete(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("transaction_id", txn.TransactionID))
		return nil, fmt.Errorf("failed to create transaction in service: %w", err)
	}

	s.LogInfo(ctx, "Transaction created", slog.String("transaction_id", txn.TransactionID))
	s.Publish(ctx, ports.TransactionEvent{
		Type:           ports.EventTransactionCreated,
		TransactionIDs: []string{txn.TransactionID},
		Actor:          creatorUserID,
		OccurredAt:     txn.CreatedAt,
	})
	return &txn, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string, actorUserID string) error {
	if _, err := uuid.Parse(transactionID); err != nil {
		return apperrors.Validationf("invalid transaction id %q", transactionID)
	}
	if err := s.transactionRepo.DeleteTransaction(ctx, transactionID); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction in service: %w", err)
	}

	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	s.Publish(ctx, ports.TransactionEvent{
		Type:           ports.EventTransactionDeleted,
		TransactionIDs: []string{transactionID},
		Actor:          actorUserID,
		OccurredAt:     s.now(),
	})
	return nil
}

func (s *transactionService) DeleteTransactionAt(ctx context.Context, index int, actorUserID string) error {
	if index < 0 {
		return apperrors.Validationf("index must not be negative, got %d", index)
	}
	transactionID, err := s.transactionRepo.FindTransactionIDAtPosition(ctx, index)
	if err != nil {
		s.LogDebug(ctx, "No transaction at index", slog.Int("index", index), slog.String("error", err.Error()))
		return fmt.Errorf("failed to resolve transaction at index %d: %w", index, err)
	}
	return s.DeleteTransaction(ctx, transactionID, actorUserID)
}

func (s *transactionService) ImportTransactions(ctx context.Context, filename string, r io.Reader, creatorUserID string) ([]domain.Transaction, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return nil, apperrors.Validationf("invalid file type. Only CSV files are allowed")
	}

	txns, err := csvimport.Parse(r)
	if err != nil {
		s.LogDebug(ctx, "CSV import rejected", slog.String("filename", filename), slog.String("error", err.Error()))
		return nil, fmt.Errorf("error processing file: %w", err)
	}
	if len(txns) == 0 {
		return []domain.Transaction{}, nil
	}

	audit := domain.NewAuditFields(creatorUserID, s.now())
	ids := make([]string, len(txns))
	for i := range txns {
		txns[i].TransactionID = uuid.NewString()
		txns[i].AuditFields = audit
		if err := txns[i].Validate(); err != nil {
			return nil, apperrors.Validationf("row %d: %v", i+1, err)
		}
		ids[i] = txns[i].TransactionID
	}

	if err := s.transactionRepo.SaveTransactions(ctx, txns); err != nil {
		s.LogError(ctx, err, "Failed to save imported transactions", slog.String("filename", filename), slog.Int("row_count", len(txns)))
		return nil, fmt.Errorf("failed to import transactions in service: %w", err)
	}

	s.LogInfo(ctx, "Transactions imported", slog.String("filename", filename), slog.Int("row_count", len(txns)))
	s.Publish(ctx, ports.TransactionEvent{
		Type:           ports.EventTransactionImported,
		TransactionIDs: ids,
		Actor:          creatorUserID,
		OccurredAt:     audit.CreatedAt,
	})
	return txns, nil
}
