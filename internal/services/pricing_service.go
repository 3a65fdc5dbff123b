package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ywpark/brickpay-api/internal/models"
	"github.com/ywpark/brickpay-api/internal/repository"
)

// UnitPrice is the resolved price tuple for one contract
type UnitPrice struct {
	Price int64 `json:"price"`
	Build int64 `json:"price_build"`
	Land  int64 `json:"price_land"`
	Tax   int64 `json:"price_tax"`

	// Source names the rule that produced the tuple: cache, sales_price,
	// project_budget, unit_type_average or none
	Source string `json:"source"`

	// SalesPrice carries the matched explicit price row so the planner can
	// apply its payment overrides. Nil for every other source.
	SalesPrice *models.SalesPrice `json:"-"`
}

// PricingService resolves the price of a contract's unit. Reads serve the
// cached projection; writes walk the explicit fallback chain:
// sales price by (order group, unit type, floor type), then project budget
// average, then unit type average, then zero.
type PricingService struct {
	contractRepo repository.ContractRepository
	pricingRepo  repository.PricingRepository
	projectRepo  repository.ProjectRepository
}

// NewPricingService creates a new pricing service
func NewPricingService(contractRepo repository.ContractRepository, pricingRepo repository.PricingRepository, projectRepo repository.ProjectRepository) *PricingService {
	return &PricingService{
		contractRepo: contractRepo,
		pricingRepo:  pricingRepo,
		projectRepo:  projectRepo,
	}
}

// Resolve returns the price tuple for a contract. houseUnit may be nil when
// no physical unit is assigned yet. When forWrite is false and a valid cache
// exists the cached tuple is returned without touching the price tables.
func (s *PricingService) Resolve(ctx context.Context, contract *models.Contract, houseUnit *models.HouseUnit, forWrite bool) (*UnitPrice, error) {
	if !forWrite {
		cached, found, err := s.contractRepo.FindPrice(ctx, contract.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read price cache: %w", err)
		}
		if found && cached.IsCacheValid {
			return &UnitPrice{
				Price:  cached.Price,
				Build:  cached.PriceBuild,
				Land:   cached.PriceLand,
				Tax:    cached.PriceTax,
				Source: "cache",
			}, nil
		}
	}

	return s.resolveFresh(ctx, contract.ProjectID, contract.OrderGroupID, contract.UnitTypeID, houseUnit)
}

// WriteUnitPrice caches an asking price for an unsold house unit, resolved
// through the same fallback chain contracts use. Called when a termination
// returns a unit to inventory.
func (s *PricingService) WriteUnitPrice(ctx context.Context, houseUnit *models.HouseUnit, orderGroupID uint) error {
	price, err := s.resolveFresh(ctx, houseUnit.ProjectID, orderGroupID, houseUnit.UnitTypeID, houseUnit)
	if err != nil {
		return err
	}

	now := time.Now()
	houseUnitID := houseUnit.ID
	return s.contractRepo.SavePrice(ctx, &models.ContractPrice{
		HouseUnitID:  &houseUnitID,
		Price:        price.Price,
		PriceBuild:   price.Build,
		PriceLand:    price.Land,
		PriceTax:     price.Tax,
		IsCacheValid: true,
		CalculatedAt: &now,
	})
}

// resolveFresh walks the fallback chain. Each lookup is a soft miss; only a
// storage failure is an error.
func (s *PricingService) resolveFresh(ctx context.Context, projectID, orderGroupID, unitTypeID uint, houseUnit *models.HouseUnit) (*UnitPrice, error) {
	// 1. Explicit sales price, keyed by the assigned unit's floor type
	if houseUnit != nil && houseUnit.FloorTypeID != nil {
		salesPrice, found, err := s.pricingRepo.FindSalesPrice(ctx, orderGroupID, unitTypeID, *houseUnit.FloorTypeID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up sales price: %w", err)
		}
		if found {
			return &UnitPrice{
				Price:      salesPrice.Price,
				Build:      salesPrice.PriceBuild,
				Land:       salesPrice.PriceLand,
				Tax:        salesPrice.PriceTax,
				Source:     "sales_price",
				SalesPrice: salesPrice,
			}, nil
		}
	}

	// 2. Project budget average for the (order group, unit type) pair
	budget, found, err := s.projectRepo.FindBudget(ctx, projectID, orderGroupID, unitTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up project budget: %w", err)
	}
	if found && budget.AveragePrice != nil {
		return &UnitPrice{Price: *budget.AveragePrice, Source: "project_budget"}, nil
	}

	// 3. Unit type average
	unitType, err := s.projectRepo.FindUnitType(ctx, unitTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up unit type: %w", err)
	}
	if unitType.AveragePrice != nil {
		return &UnitPrice{Price: *unitType.AveragePrice, Source: "unit_type_average"}, nil
	}

	// 4. Nothing configured yet
	return &UnitPrice{Source: "none"}, nil
}
