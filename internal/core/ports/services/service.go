package services

// ServiceContainer holds instances of all the application services.
// It is the main entry point for handlers.
type ServiceContainer struct {
	Transaction TransactionSvcFacade
	Chat        ChatSvc
}
