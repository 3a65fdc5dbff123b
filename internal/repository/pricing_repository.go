package repository

import (
	"context"
	"errors"

	"github.com/ywpark/brickpay-api/internal/models"

	"gorm.io/gorm"
)

// PricingRepository defines data access for the installment schedule and
// the explicit price/override tables. Override lookups return
// (value, found, error) so the resolver can walk its fallback chain without
// treating a miss as a failure.
type PricingRepository interface {
	InstallmentOrders(ctx context.Context, projectID uint) ([]models.InstallmentOrder, error)
	FindInstallmentOrder(ctx context.Context, id uint) (*models.InstallmentOrder, bool, error)
	FindSalesPrice(ctx context.Context, orderGroupID, unitTypeID, floorTypeID uint) (*models.SalesPrice, bool, error)
	FindDownPayment(ctx context.Context, orderGroupID, unitTypeID uint) (*models.DownPayment, bool, error)
}

type pricingRepository struct {
	db *gorm.DB
}

// NewPricingRepository creates a new pricing repository
func NewPricingRepository(db *gorm.DB) PricingRepository {
	return &pricingRepository{db: db}
}

// InstallmentOrders returns the project's schedule ordered by pay_code then
// pay_time, the order installments fall due in.
func (r *pricingRepository) InstallmentOrders(ctx context.Context, projectID uint) ([]models.InstallmentOrder, error) {
	var orders []models.InstallmentOrder
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("pay_code ASC, pay_time ASC").
		Find(&orders).Error
	return orders, err
}

func (r *pricingRepository) FindInstallmentOrder(ctx context.Context, id uint) (*models.InstallmentOrder, bool, error) {
	var order models.InstallmentOrder
	err := r.db.WithContext(ctx).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &order, true, nil
}

func (r *pricingRepository) FindSalesPrice(ctx context.Context, orderGroupID, unitTypeID, floorTypeID uint) (*models.SalesPrice, bool, error) {
	var price models.SalesPrice
	err := r.db.WithContext(ctx).
		Where("order_group_id = ? AND unit_type_id = ? AND floor_type_id = ?", orderGroupID, unitTypeID, floorTypeID).
		First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &price, true, nil
}

func (r *pricingRepository) FindDownPayment(ctx context.Context, orderGroupID, unitTypeID uint) (*models.DownPayment, bool, error) {
	var downPayment models.DownPayment
	err := r.db.WithContext(ctx).
		Where("order_group_id = ? AND unit_type_id = ?", orderGroupID, unitTypeID).
		First(&downPayment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &downPayment, true, nil
}
