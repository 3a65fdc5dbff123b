package repository

import (
	"context"

	"github.com/ywpark/brickpay-api/internal/models"

	"gorm.io/gorm"
)

// LedgerRepository defines data access for the double-entry ledger
// primitives (bank transactions + accounting entries) and the flat cash
// book kept for unmigrated projects
type LedgerRepository interface {
	CreateTransaction(ctx context.Context, txn *models.BankTransaction) error
	FindTransaction(ctx context.Context, id uint) (*models.BankTransaction, error)
	FindTransactionWithEntries(ctx context.Context, id uint) (*models.BankTransaction, error)
	SetTransactionBalanced(ctx context.Context, id uint, balanced bool) error

	CreateEntry(ctx context.Context, entry *models.AccountingEntry) error
	UpdateEntry(ctx context.Context, entry *models.AccountingEntry) error
	DeleteEntry(ctx context.Context, id uint) error
	FindEntry(ctx context.Context, id uint) (*models.AccountingEntry, error)
	SumEntries(ctx context.Context, bankTransactionID uint) (int64, error)

	FindAccount(ctx context.Context, id uint) (*models.Account, error)
	ListCashBook(ctx context.Context, projectID uint) ([]models.ProjectCashBook, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) CreateTransaction(ctx context.Context, txn *models.BankTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *ledgerRepository) FindTransaction(ctx context.Context, id uint) (*models.BankTransaction, error) {
	var txn models.BankTransaction
	err := r.db.WithContext(ctx).First(&txn, id).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *ledgerRepository) FindTransactionWithEntries(ctx context.Context, id uint) (*models.BankTransaction, error) {
	var txn models.BankTransaction
	err := r.db.WithContext(ctx).
		Preload("Entries").
		Preload("Entries.Account").
		Preload("Children").
		First(&txn, id).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *ledgerRepository) SetTransactionBalanced(ctx context.Context, id uint, balanced bool) error {
	return r.db.WithContext(ctx).
		Model(&models.BankTransaction{}).
		Where("id = ?", id).
		Update("is_balanced", balanced).Error
}

func (r *ledgerRepository) CreateEntry(ctx context.Context, entry *models.AccountingEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ledgerRepository) UpdateEntry(ctx context.Context, entry *models.AccountingEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *ledgerRepository) DeleteEntry(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.AccountingEntry{}, id).Error
}

func (r *ledgerRepository) FindEntry(ctx context.Context, id uint) (*models.AccountingEntry, error) {
	var entry models.AccountingEntry
	err := r.db.WithContext(ctx).
		Preload("Account").
		Preload("BankTransaction").
		First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *ledgerRepository) SumEntries(ctx context.Context, bankTransactionID uint) (int64, error) {
	var result struct {
		Total int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.AccountingEntry{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("bank_transaction_id = ?", bankTransactionID).
		Scan(&result).Error
	return result.Total, err
}

func (r *ledgerRepository) FindAccount(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *ledgerRepository) ListCashBook(ctx context.Context, projectID uint) ([]models.ProjectCashBook, error) {
	var rows []models.ProjectCashBook
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND separated_id IS NULL", projectID).
		Preload("Account").
		Preload("Children").
		Order("deal_date ASC, id ASC").
		Find(&rows).Error
	return rows, err
}
