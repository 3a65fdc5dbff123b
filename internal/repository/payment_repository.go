package repository

import (
	"context"
	"errors"

	"github.com/ywpark/brickpay-api/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository defines data access for the denormalized
// ContractPayment projection rows
type PaymentRepository interface {
	FindByContract(ctx context.Context, contractID uint) ([]models.ContractPayment, error)
	FindByEntry(ctx context.Context, accountingEntryID uint) (*models.ContractPayment, bool, error)
	Create(ctx context.Context, payment *models.ContractPayment) error
	Update(ctx context.Context, payment *models.ContractPayment) error
	Delete(ctx context.Context, id uint) error
	ListMismatched(ctx context.Context, projectID uint) ([]models.ContractPayment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// FindByContract returns payments ordered by income date, the order the
// adjustment calculator consumes them in.
func (r *paymentRepository) FindByContract(ctx context.Context, contractID uint) ([]models.ContractPayment, error) {
	var payments []models.ContractPayment
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("income_date ASC, id ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) FindByEntry(ctx context.Context, accountingEntryID uint) (*models.ContractPayment, bool, error) {
	var payment models.ContractPayment
	err := r.db.WithContext(ctx).
		Where("accounting_entry_id = ?", accountingEntryID).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &payment, true, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.ContractPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.ContractPayment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *paymentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ContractPayment{}, id).Error
}

func (r *paymentRepository) ListMismatched(ctx context.Context, projectID uint) ([]models.ContractPayment, error) {
	var payments []models.ContractPayment
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND is_payment_mismatch = ?", projectID, true).
		Preload("AccountingEntry").
		Preload("AccountingEntry.Account").
		Order("income_date ASC, id ASC").
		Find(&payments).Error
	return payments, err
}
