package handlers

import (
	"github.com/ywpark/brickpay-api/internal/jobs"
	"github.com/ywpark/brickpay-api/internal/repository"
	"github.com/ywpark/brickpay-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Contract *ContractHandler
	Ledger   *LedgerHandler
	Export   *ExportHandler
	Job      *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, repos *repository.Repositories, worker *jobs.Worker) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(),
		Auth:     NewAuthHandler(svcs.Auth),
		Contract: NewContractHandler(svcs.Contract, svcs.Installment, svcs.Adjustment, repos),
		Ledger:   NewLedgerHandler(svcs.Reconciliation, repos),
		Export:   NewExportHandler(svcs.Export, svcs.Installment, svcs.Adjustment, repos),
		Job:      NewJobHandler(worker),
	}
}
