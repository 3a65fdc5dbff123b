package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ywpark/brickpay-api/internal/jobs"
	"github.com/ywpark/brickpay-api/internal/models"
	"github.com/ywpark/brickpay-api/internal/repository"
	"github.com/ywpark/brickpay-api/internal/statemachine"
	"github.com/ywpark/brickpay-api/pkg/logger"
)

// CreateContractRequest carries the input for a new contract
type CreateContractRequest struct {
	ProjectID    uint       `json:"project_id" binding:"required"`
	OrderGroupID uint       `json:"order_group_id" binding:"required"`
	UnitTypeID   uint       `json:"unit_type_id" binding:"required"`
	KeyUnitID    uint       `json:"key_unit_id"`
	Serial       string     `json:"serial"`
	Contractor   string     `json:"contractor"`
	ContractDate *time.Time `json:"contract_date"`
	Note         *string    `json:"note"`
}

// ContractService manages the contract lifecycle. Every mutation that can
// change the resolved price rewrites the price cache, either inline (in the
// same transaction) or through the background worker.
type ContractService struct {
	repos          *repository.Repositories
	installmentSvc *InstallmentService
	worker         *jobs.Worker
}

// NewContractService creates a new contract service
func NewContractService(repos *repository.Repositories, installmentSvc *InstallmentService, worker *jobs.Worker) *ContractService {
	return &ContractService{
		repos:          repos,
		installmentSvc: installmentSvc,
		worker:         worker,
	}
}

// Create registers a contract, binds its key unit and writes the initial
// payment plan, all in one transaction
func (s *ContractService) Create(ctx context.Context, req *CreateContractRequest) (*models.Contract, error) {
	if _, err := s.repos.Project.FindByID(ctx, req.ProjectID); err != nil {
		return nil, fmt.Errorf("%w: project %d", ErrNotFound, req.ProjectID)
	}

	contract := &models.Contract{
		ProjectID:    req.ProjectID,
		OrderGroupID: req.OrderGroupID,
		UnitTypeID:   req.UnitTypeID,
		Serial:       req.Serial,
		Contractor:   req.Contractor,
		Status:       models.ContractStatusPending,
		ContractDate: req.ContractDate,
		Note:         req.Note,
	}
	if contract.Serial == "" {
		contract.Serial = newSerial(req.ProjectID, req.OrderGroupID)
	}

	err := s.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Contract.Create(ctx, contract); err != nil {
			return fmt.Errorf("failed to create contract: %w", err)
		}
		if req.KeyUnitID != 0 {
			if err := txRepos.Contract.BindKeyUnit(ctx, req.KeyUnitID, contract.ID); err != nil {
				return fmt.Errorf("failed to bind key unit: %w", err)
			}
		}

		planner := NewInstallmentService(txRepos.Contract, txRepos.Pricing,
			NewPricingService(txRepos.Contract, txRepos.Pricing, txRepos.Project))
		loaded, err := txRepos.Contract.FindByIDWithDetails(ctx, contract.ID)
		if err != nil {
			return fmt.Errorf("failed to reload contract: %w", err)
		}
		return planner.WritePlan(ctx, loaded)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("contract created", "contract_id", contract.ID, "serial", contract.Serial)
	return contract, nil
}

// Activate moves a pending contract to active and rewrites its plan
func (s *ContractService) Activate(ctx context.Context, contractID uint) (*models.Contract, error) {
	contract, err := s.repos.Contract.FindByIDWithDetails(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("%w: contract %d", ErrNotFound, contractID)
	}

	fsm := statemachine.NewContractFSM(contract)
	if err := fsm.Activate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	contract.Active = true

	if err := s.repos.Contract.Update(ctx, contract); err != nil {
		return nil, fmt.Errorf("failed to update contract: %w", err)
	}
	if err := s.installmentSvc.WritePlan(ctx, contract); err != nil {
		return nil, err
	}

	logger.Info("contract activated", "contract_id", contract.ID, "serial", contract.Serial)
	return contract, nil
}

// Terminate soft-cancels a contract: the row stays, the serial gets a
// termination marker so the original serial can be reissued, the key unit is
// released and the price cache invalidated.
func (s *ContractService) Terminate(ctx context.Context, contractID uint) (*models.Contract, error) {
	contract, err := s.repos.Contract.FindByIDWithDetails(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("%w: contract %d", ErrNotFound, contractID)
	}

	fsm := statemachine.NewContractFSM(contract)
	if err := fsm.Terminate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	now := time.Now()
	contract.Active = false
	contract.TerminatedAt = &now
	contract.Serial = terminatedSerial(contract.Serial)

	releasedUnit := contract.HouseUnit()

	err = s.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Contract.Update(ctx, contract); err != nil {
			return fmt.Errorf("failed to update contract: %w", err)
		}
		if err := txRepos.Contract.ReleaseKeyUnit(ctx, contract.ID); err != nil {
			return fmt.Errorf("failed to release key unit: %w", err)
		}
		if err := txRepos.Contract.InvalidatePrice(ctx, contract.ID); err != nil {
			return err
		}

		// The freed unit goes back to inventory with a cached asking price
		if releasedUnit != nil {
			pricing := NewPricingService(txRepos.Contract, txRepos.Pricing, txRepos.Project)
			if err := pricing.WriteUnitPrice(ctx, releasedUnit, contract.OrderGroupID); err != nil {
				logger.Warn("failed to reprice released unit",
					"house_unit_id", releasedUnit.ID, "error", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("contract terminated", "contract_id", contract.ID, "serial", contract.Serial)
	return contract, nil
}

// AssignUnit rebinds a contract to a different key unit and rewrites the
// plan, since the unit's floor type can change the explicit price match
func (s *ContractService) AssignUnit(ctx context.Context, contractID, keyUnitID uint) error {
	contract, err := s.repos.Contract.FindByID(ctx, contractID)
	if err != nil {
		return fmt.Errorf("%w: contract %d", ErrNotFound, contractID)
	}

	err = s.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Contract.ReleaseKeyUnit(ctx, contract.ID); err != nil {
			return fmt.Errorf("failed to release key unit: %w", err)
		}
		if err := txRepos.Contract.BindKeyUnit(ctx, keyUnitID, contract.ID); err != nil {
			return fmt.Errorf("failed to bind key unit: %w", err)
		}

		planner := NewInstallmentService(txRepos.Contract, txRepos.Pricing,
			NewPricingService(txRepos.Contract, txRepos.Pricing, txRepos.Project))
		loaded, err := txRepos.Contract.FindByIDWithDetails(ctx, contract.ID)
		if err != nil {
			return fmt.Errorf("failed to reload contract: %w", err)
		}
		return planner.WritePlan(ctx, loaded)
	})
	return err
}

// EnqueueProjectRecompute schedules a project-wide plan rewrite on the
// background worker. Used after schedule or price table changes, where
// hundreds of contracts may be affected.
func (s *ContractService) EnqueueProjectRecompute(projectID uint) {
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		_, err := s.installmentSvc.RecomputeProject(ctx, projectID)
		return err
	})
}

// newSerial builds a serial for contracts created without one
func newSerial(projectID, orderGroupID uint) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%d-%d-%s", projectID, orderGroupID, strings.ToUpper(suffix))
}

// terminatedSerial marks a serial as terminated while keeping it unique, so
// the original serial can be assigned to a replacement contract
func terminatedSerial(serial string) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s-T-%s", serial, suffix)
}
