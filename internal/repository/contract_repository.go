package repository

import (
	"context"
	"errors"

	"github.com/ywpark/brickpay-api/internal/models"

	"gorm.io/gorm"
)

// ContractQuery holds list filters for contracts
type ContractQuery struct {
	ProjectID    uint
	OrderGroupID uint
	UnitTypeID   uint
	Status       string
	ActiveOnly   bool
	Page         int
	PerPage      int
}

// ContractRepository defines data access for contracts and their cached
// price projections
type ContractRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Contract, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Contract, error)
	List(ctx context.Context, query *ContractQuery) ([]models.Contract, int64, error)
	ListActiveByProject(ctx context.Context, projectID uint) ([]models.Contract, error)
	ListInvalidPrice(ctx context.Context) ([]models.Contract, error)
	Create(ctx context.Context, contract *models.Contract) error
	Update(ctx context.Context, contract *models.Contract) error

	FindPrice(ctx context.Context, contractID uint) (*models.ContractPrice, bool, error)
	SavePrice(ctx context.Context, price *models.ContractPrice) error
	InvalidatePrice(ctx context.Context, contractID uint) error

	BindKeyUnit(ctx context.Context, keyUnitID, contractID uint) error
	ReleaseKeyUnit(ctx context.Context, contractID uint) error
}

type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) FindByID(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("OrderGroup").
		Preload("UnitType").
		Preload("KeyUnit").
		Preload("KeyUnit.HouseUnit").
		Preload("ContractPrice").
		First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) List(ctx context.Context, query *ContractQuery) ([]models.Contract, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Contract{})

	if query.ProjectID != 0 {
		db = db.Where("project_id = ?", query.ProjectID)
	}
	if query.OrderGroupID != 0 {
		db = db.Where("order_group_id = ?", query.OrderGroupID)
	}
	if query.UnitTypeID != 0 {
		db = db.Where("unit_type_id = ?", query.UnitTypeID)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.ActiveOnly {
		db = db.Where("active = ?", true)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	perPage := query.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var contracts []models.Contract
	err := db.
		Preload("OrderGroup").
		Preload("UnitType").
		Preload("ContractPrice").
		Order("serial ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&contracts).Error
	return contracts, total, err
}

func (r *contractRepository) ListActiveByProject(ctx context.Context, projectID uint) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND active = ?", projectID, true).
		Preload("KeyUnit").
		Preload("KeyUnit.HouseUnit").
		Order("id ASC").
		Find(&contracts).Error
	return contracts, err
}

// ListInvalidPrice returns active contracts whose price cache was
// invalidated by a failed computation, for the periodic sweep.
func (r *contractRepository) ListInvalidPrice(ctx context.Context) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.WithContext(ctx).
		Joins("JOIN contract_prices ON contract_prices.contract_id = contracts.id").
		Where("contract_prices.is_cache_valid = ? AND contracts.active = ?", false, true).
		Preload("KeyUnit").
		Preload("KeyUnit.HouseUnit").
		Order("contracts.id ASC").
		Find(&contracts).Error
	return contracts, err
}

func (r *contractRepository) Create(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *contractRepository) Update(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Save(contract).Error
}

func (r *contractRepository) FindPrice(ctx context.Context, contractID uint) (*models.ContractPrice, bool, error) {
	var price models.ContractPrice
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &price, true, nil
}

// SavePrice upserts the cached price projection, keyed by contract for
// contracted units and by house unit for inventory rows
func (r *contractRepository) SavePrice(ctx context.Context, price *models.ContractPrice) error {
	if price.ID != 0 {
		return r.db.WithContext(ctx).Save(price).Error
	}

	var query *gorm.DB
	switch {
	case price.ContractID != nil:
		query = r.db.WithContext(ctx).Where("contract_id = ?", *price.ContractID)
	case price.HouseUnitID != nil:
		query = r.db.WithContext(ctx).Where("house_unit_id = ?", *price.HouseUnitID)
	}
	if query != nil {
		var existing models.ContractPrice
		err := query.First(&existing).Error
		if err == nil {
			price.ID = existing.ID
			price.CreatedAt = existing.CreatedAt
			return r.db.WithContext(ctx).Save(price).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return r.db.WithContext(ctx).Create(price).Error
}

// InvalidatePrice clears the cache validity flag without touching the
// stored figures, deferring the error to the next reader.
func (r *contractRepository) InvalidatePrice(ctx context.Context, contractID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.ContractPrice{}).
		Where("contract_id = ?", contractID).
		Update("is_cache_valid", false).Error
}

func (r *contractRepository) BindKeyUnit(ctx context.Context, keyUnitID, contractID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.KeyUnit{}).
		Where("id = ?", keyUnitID).
		Update("contract_id", contractID).Error
}

func (r *contractRepository) ReleaseKeyUnit(ctx context.Context, contractID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.KeyUnit{}).
		Where("contract_id = ?", contractID).
		Update("contract_id", nil).Error
}
