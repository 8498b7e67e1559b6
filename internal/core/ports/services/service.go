package services

// ServiceContainer holds all service interfaces needed by the handlers.
// This is the main entry point for accessing service functionality.
type ServiceContainer struct {
	Workspace WorkspaceSvcFacade
	Milestone MilestoneSvcFacade
	Payment   PaymentSvcFacade
	Ledger    LedgerSvcFacade
	Events    EventPublisher
}
