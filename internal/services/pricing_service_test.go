package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ywpark/brickpay-api/internal/models"
)

func testContract() *models.Contract {
	return &models.Contract{
		ID:           1,
		ProjectID:    10,
		OrderGroupID: 20,
		UnitTypeID:   30,
		Status:       models.ContractStatusActive,
	}
}

func TestResolveReturnsValidCache(t *testing.T) {
	contractRepo := &mockContractRepo{
		mockFindPrice: func(ctx context.Context, contractID uint) (*models.ContractPrice, bool, error) {
			return &models.ContractPrice{
				Price:        100_000_000,
				PriceBuild:   60_000_000,
				PriceLand:    35_000_000,
				PriceTax:     5_000_000,
				IsCacheValid: true,
			}, true, nil
		},
	}
	svc := NewPricingService(contractRepo, &mockPricingRepo{}, &mockProjectRepo{})

	price, err := svc.Resolve(context.Background(), testContract(), nil, false)
	assert.NoError(t, err)
	assert.Equal(t, "cache", price.Source)
	assert.Equal(t, int64(100_000_000), price.Price)
	assert.Equal(t, int64(60_000_000), price.Build)
	assert.Equal(t, int64(35_000_000), price.Land)
	assert.Equal(t, int64(5_000_000), price.Tax)
}

func TestResolveSkipsInvalidCache(t *testing.T) {
	contractRepo := &mockContractRepo{
		mockFindPrice: func(ctx context.Context, contractID uint) (*models.ContractPrice, bool, error) {
			return &models.ContractPrice{Price: 999, IsCacheValid: false}, true, nil
		},
	}
	projectRepo := &mockProjectRepo{
		mockFindUnitType: func(ctx context.Context, id uint) (*models.UnitType, error) {
			return &models.UnitType{ID: id, AveragePrice: int64Ptr(80_000_000)}, nil
		},
	}
	svc := NewPricingService(contractRepo, &mockPricingRepo{}, projectRepo)

	price, err := svc.Resolve(context.Background(), testContract(), nil, false)
	assert.NoError(t, err)
	assert.Equal(t, "unit_type_average", price.Source)
	assert.Equal(t, int64(80_000_000), price.Price)
}

func TestResolveSalesPriceWins(t *testing.T) {
	pricingRepo := &mockPricingRepo{
		mockFindSalesPrice: func(ctx context.Context, orderGroupID, unitTypeID, floorTypeID uint) (*models.SalesPrice, bool, error) {
			assert.Equal(t, uint(20), orderGroupID)
			assert.Equal(t, uint(30), unitTypeID)
			assert.Equal(t, uint(7), floorTypeID)
			return &models.SalesPrice{
				Price:      120_000_000,
				PriceBuild: 70_000_000,
				PriceLand:  45_000_000,
				PriceTax:   5_000_000,
			}, true, nil
		},
	}
	projectRepo := &mockProjectRepo{
		mockFindBudget: func(ctx context.Context, projectID, orderGroupID, unitTypeID uint) (*models.ProjectBudget, bool, error) {
			t.Fatal("budget lookup should not run when sales price matches")
			return nil, false, nil
		},
	}
	svc := NewPricingService(&mockContractRepo{}, pricingRepo, projectRepo)

	houseUnit := &models.HouseUnit{FloorTypeID: uintPtr(7)}
	price, err := svc.Resolve(context.Background(), testContract(), houseUnit, true)
	assert.NoError(t, err)
	assert.Equal(t, "sales_price", price.Source)
	assert.Equal(t, int64(120_000_000), price.Price)
	assert.NotNil(t, price.SalesPrice)
}

func TestResolveFallsBackToBudget(t *testing.T) {
	projectRepo := &mockProjectRepo{
		mockFindBudget: func(ctx context.Context, projectID, orderGroupID, unitTypeID uint) (*models.ProjectBudget, bool, error) {
			return &models.ProjectBudget{AveragePrice: int64Ptr(95_000_000)}, true, nil
		},
	}
	svc := NewPricingService(&mockContractRepo{}, &mockPricingRepo{}, projectRepo)

	// House unit without a floor type cannot match an explicit price
	houseUnit := &models.HouseUnit{}
	price, err := svc.Resolve(context.Background(), testContract(), houseUnit, true)
	assert.NoError(t, err)
	assert.Equal(t, "project_budget", price.Source)
	assert.Equal(t, int64(95_000_000), price.Price)
	assert.Nil(t, price.SalesPrice)
}

func TestResolveZeroWhenNothingConfigured(t *testing.T) {
	svc := NewPricingService(&mockContractRepo{}, &mockPricingRepo{}, &mockProjectRepo{})

	price, err := svc.Resolve(context.Background(), testContract(), nil, true)
	assert.NoError(t, err)
	assert.Equal(t, "none", price.Source)
	assert.Equal(t, int64(0), price.Price)
}

func TestWriteUnitPriceStoresInventoryRow(t *testing.T) {
	var saved *models.ContractPrice
	contractRepo := &mockContractRepo{
		mockSavePrice: func(ctx context.Context, price *models.ContractPrice) error {
			saved = price
			return nil
		},
	}
	pricingRepo := &mockPricingRepo{
		mockFindSalesPrice: func(ctx context.Context, orderGroupID, unitTypeID, floorTypeID uint) (*models.SalesPrice, bool, error) {
			assert.Equal(t, uint(20), orderGroupID)
			assert.Equal(t, uint(30), unitTypeID)
			assert.Equal(t, uint(7), floorTypeID)
			return &models.SalesPrice{
				Price:      120_000_000,
				PriceBuild: 70_000_000,
				PriceLand:  45_000_000,
				PriceTax:   5_000_000,
			}, true, nil
		},
	}
	svc := NewPricingService(contractRepo, pricingRepo, &mockProjectRepo{})

	houseUnit := &models.HouseUnit{ID: 42, ProjectID: 10, UnitTypeID: 30, FloorTypeID: uintPtr(7)}
	err := svc.WriteUnitPrice(context.Background(), houseUnit, 20)
	assert.NoError(t, err)
	assert.NotNil(t, saved)
	assert.Nil(t, saved.ContractID)
	assert.Equal(t, uintPtr(42), saved.HouseUnitID)
	assert.Equal(t, int64(120_000_000), saved.Price)
	assert.Equal(t, int64(70_000_000), saved.PriceBuild)
	assert.True(t, saved.IsCacheValid)
	assert.NotNil(t, saved.CalculatedAt)
}
