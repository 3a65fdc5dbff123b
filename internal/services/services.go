package services

import (
	"github.com/ywpark/brickpay-api/internal/config"
	"github.com/ywpark/brickpay-api/internal/jobs"
	"github.com/ywpark/brickpay-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Auth           *AuthService
	Pricing        *PricingService
	Installment    *InstallmentService
	Adjustment     *AdjustmentService
	Reconciliation *ReconciliationService
	Contract       *ContractService
	Export         *ExportService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config) *Services {
	pricingSvc := NewPricingService(repos.Contract, repos.Pricing, repos.Project)
	installmentSvc := NewInstallmentService(repos.Contract, repos.Pricing, pricingSvc)
	adjustmentSvc := NewAdjustmentService(repos.Contract, repos.Pricing, repos.Payment, installmentSvc)

	return &Services{
		Auth:           NewAuthService(repos.User, cfg),
		Pricing:        pricingSvc,
		Installment:    installmentSvc,
		Adjustment:     adjustmentSvc,
		Reconciliation: NewReconciliationService(repos),
		Contract:       NewContractService(repos, installmentSvc, worker),
		Export:         NewExportService(),
	}
}
