package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	db *gorm.DB

	User     UserRepository
	Project  ProjectRepository
	Pricing  PricingRepository
	Contract ContractRepository
	Payment  PaymentRepository
	Ledger   LedgerRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:       db,
		User:     NewUserRepository(db),
		Project:  NewProjectRepository(db),
		Pricing:  NewPricingRepository(db),
		Contract: NewContractRepository(db),
		Payment:  NewPaymentRepository(db),
		Ledger:   NewLedgerRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single database
// transaction. Used by bulk import and by contract mutations that must
// rewrite the price cache atomically.
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
