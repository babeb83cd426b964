package services

import (
	"github.com/SscSPs/finance_tracker/internal/core/ports"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
)

// Gateways bundles the outbound adapters services depend on besides storage.
type Gateways struct {
	LanguageModel ports.LanguageModel
	Events        ports.EventPublisher
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, gateways Gateways) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Transaction: NewTransactionService(repos.TransactionRepo, WithEventPublisher(gateways.Events)),
		Chat:        NewChatService(gateways.LanguageModel),
	}
}
