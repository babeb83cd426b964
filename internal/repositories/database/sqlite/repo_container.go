package sqlite

import (
	"database/sql"

	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every SQLite-backed repository.
func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: NewTransactionRepository(db),
	}
}
