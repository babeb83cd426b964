package services

import (
	"context"
	"io"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

// TransactionReaderSvc defines read operations for transaction data
type TransactionReaderSvc interface {
	// ListTransactions returns all records in stored order, never nil.
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines write operations for transaction data
type TransactionWriterSvc interface {
	// CreateTransaction validates and appends a single record.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error)

	// DeleteTransaction removes the record with the given ID.
	DeleteTransaction(ctx context.Context, transactionID string, actorUserID string) error

	// DeleteTransactionAt removes the index-th record in stored order.
	DeleteTransactionAt(ctx context.Context, index int, actorUserID string) error
}

// TransactionImportSvc defines bulk import of transaction data
type TransactionImportSvc interface {
	// ImportTransactions parses a CSV file and appends every row atomically,
	// returning the appended records.
	ImportTransactions(ctx context.Context, filename string, r io.Reader, creatorUserID string) ([]domain.Transaction, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
	TransactionImportSvc
}
