package memory

import portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"

// NewRepositoryProvider wires every in-memory repository.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: NewTransactionRepository(),
	}
}
