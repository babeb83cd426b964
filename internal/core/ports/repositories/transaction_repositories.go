package repositories

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// TransactionReader defines read operations for transaction records
type TransactionReader interface {
	// ListTransactions returns every record in insertion order.
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)

	// FindTransactionByID retrieves a record by its ID.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionIDAtPosition resolves the ID of the index-th record (0-based)
	// in ListTransactions order.
	FindTransactionIDAtPosition(ctx context.Context, index int) (string, error)
}

// TransactionWriter defines write operations for transaction records
type TransactionWriter interface {
	// SaveTransaction appends a single record.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// SaveTransactions appends all records or none of them.
	SaveTransactions(ctx context.Context, txns []domain.Transaction) error

	// DeleteTransaction removes a record by ID.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
