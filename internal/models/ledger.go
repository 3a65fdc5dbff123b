package models

import (
	"time"
)

// Account is a ledger account classification. IsPayment marks accounts
// whose entries represent contract payments and therefore project into
// ContractPayment rows.
type Account struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"not null;uniqueIndex" json:"code"`
	Name      string    `gorm:"not null" json:"name"`
	Sort      string    `gorm:"default:income;index" json:"sort"` // income, outlay
	IsPayment bool      `gorm:"default:false;index" json:"is_payment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}

// BankTransaction is the bank-side row of the double-entry model. One
// transaction carries one or more classified accounting entries, and may be
// split into children via SeparatedID (one withdrawal broken into multiple
// classified rows).
type BankTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectID   uint      `gorm:"not null;index" json:"project_id"`
	DealDate    time.Time `gorm:"type:date;not null;index" json:"deal_date"`
	Income      *int64    `gorm:"type:bigint" json:"income"`
	Outlay      *int64    `gorm:"type:bigint" json:"outlay"`
	Note        string    `gorm:"type:text" json:"note"`
	SeparatedID *uint     `gorm:"index" json:"separated_id"`
	IsBalanced  bool      `gorm:"default:true;index" json:"is_balanced"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Project   Project           `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Separated *BankTransaction  `gorm:"foreignKey:SeparatedID" json:"separated,omitempty"`
	Children  []BankTransaction `gorm:"foreignKey:SeparatedID" json:"children,omitempty"`
	Entries   []AccountingEntry `gorm:"foreignKey:BankTransactionID" json:"entries,omitempty"`
}

// TableName specifies the table name for BankTransaction
func (BankTransaction) TableName() string {
	return "bank_transactions"
}

// Amount returns the transaction amount regardless of direction
func (t *BankTransaction) Amount() int64 {
	if t.Income != nil {
		return *t.Income
	}
	if t.Outlay != nil {
		return *t.Outlay
	}
	return 0
}

// ChildrenBalanced reports whether the loaded split children sum to the
// parent amount. Derived at read time; there is no database constraint.
func (t *BankTransaction) ChildrenBalanced() bool {
	if len(t.Children) == 0 {
		return true
	}
	var sum int64
	for i := range t.Children {
		sum += t.Children[i].Amount()
	}
	return sum == t.Amount()
}

// EntriesBalanced reports whether the loaded accounting entries sum to the
// transaction amount.
func (t *BankTransaction) EntriesBalanced() bool {
	var sum int64
	for i := range t.Entries {
		sum += t.Entries[i].Amount
	}
	return sum == t.Amount()
}

// AccountingEntry is one classified leg of a bank transaction. Payment
// entries carry an explicit contract and installment order reference; the
// adjustment calculator never infers the allocation by amount matching.
type AccountingEntry struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	BankTransactionID  uint      `gorm:"not null;index" json:"bank_transaction_id"`
	AccountID          uint      `gorm:"not null;index" json:"account_id"`
	ContractID         *uint     `gorm:"index" json:"contract_id"`
	InstallmentOrderID *uint     `gorm:"index" json:"installment_order_id"`
	Amount             int64     `gorm:"type:bigint;not null" json:"amount"`
	EntryDate          time.Time `gorm:"type:date;not null;index" json:"entry_date"`
	Note               string    `gorm:"type:text" json:"note"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Associations
	BankTransaction  BankTransaction   `gorm:"foreignKey:BankTransactionID" json:"bank_transaction,omitempty"`
	Account          Account           `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Contract         *Contract         `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
	InstallmentOrder *InstallmentOrder `gorm:"foreignKey:InstallmentOrderID" json:"installment_order,omitempty"`
}

// TableName specifies the table name for AccountingEntry
func (AccountingEntry) TableName() string {
	return "accounting_entries"
}

// ContractPayment is the denormalized 1:1 projection onto a
// payment-classified accounting entry. IsPaymentMismatch is raised when the
// entry's account is reclassified to a non-payment account after the
// projection was created; mismatches are surfaced, never auto-corrected.
type ContractPayment struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	AccountingEntryID  uint      `gorm:"not null;uniqueIndex" json:"accounting_entry_id"`
	ProjectID          uint      `gorm:"not null;index" json:"project_id"`
	ContractID         *uint     `gorm:"index" json:"contract_id"`
	InstallmentOrderID *uint     `gorm:"index" json:"installment_order_id"`
	Amount             int64     `gorm:"type:bigint;not null" json:"amount"`
	IncomeDate         time.Time `gorm:"type:date;not null;index" json:"income_date"`
	IsPaymentMismatch  bool      `gorm:"default:false;index" json:"is_payment_mismatch"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Associations
	AccountingEntry  AccountingEntry   `gorm:"foreignKey:AccountingEntryID" json:"accounting_entry,omitempty"`
	Contract         *Contract         `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
	InstallmentOrder *InstallmentOrder `gorm:"foreignKey:InstallmentOrderID" json:"installment_order,omitempty"`
}

// TableName specifies the table name for ContractPayment
func (ContractPayment) TableName() string {
	return "contract_payments"
}

// ProjectCashBook is the flat single-row ledger kept for projects that have
// not migrated to the double-entry model: income/outlay plus account
// classification on one row, with the same parent/child split relation.
type ProjectCashBook struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	ProjectID          uint      `gorm:"not null;index" json:"project_id"`
	AccountID          uint      `gorm:"not null;index" json:"account_id"`
	ContractID         *uint     `gorm:"index" json:"contract_id"`
	InstallmentOrderID *uint     `gorm:"index" json:"installment_order_id"`
	Income             *int64    `gorm:"type:bigint" json:"income"`
	Outlay             *int64    `gorm:"type:bigint" json:"outlay"`
	DealDate           time.Time `gorm:"type:date;not null;index" json:"deal_date"`
	Note               string    `gorm:"type:text" json:"note"`
	SeparatedID        *uint     `gorm:"index" json:"separated_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Associations
	Account   Account           `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Separated *ProjectCashBook  `gorm:"foreignKey:SeparatedID" json:"separated,omitempty"`
	Children  []ProjectCashBook `gorm:"foreignKey:SeparatedID" json:"children,omitempty"`
}

// TableName specifies the table name for ProjectCashBook
func (ProjectCashBook) TableName() string {
	return "project_cash_books"
}

// Amount returns the row amount regardless of direction
func (b *ProjectCashBook) Amount() int64 {
	if b.Income != nil {
		return *b.Income
	}
	if b.Outlay != nil {
		return *b.Outlay
	}
	return 0
}

// ChildrenBalanced reports whether the loaded split children sum to the
// parent amount
func (b *ProjectCashBook) ChildrenBalanced() bool {
	if len(b.Children) == 0 {
		return true
	}
	var sum int64
	for i := range b.Children {
		sum += b.Children[i].Amount()
	}
	return sum == b.Amount()
}

// ProjectCashBookResponse is the JSON response format for cash book rows
type ProjectCashBookResponse struct {
	ID          uint      `json:"id"`
	ProjectID   uint      `json:"project_id"`
	AccountCode string    `json:"account_code"`
	AccountName string    `json:"account_name"`
	Income      *int64    `json:"income"`
	Outlay      *int64    `json:"outlay"`
	DealDate    time.Time `json:"deal_date"`
	Note        string    `json:"note"`
	SeparatedID *uint     `json:"separated_id"`
	Balanced    bool      `json:"balanced"`
}

// ToResponse converts ProjectCashBook to ProjectCashBookResponse
func (b *ProjectCashBook) ToResponse() ProjectCashBookResponse {
	return ProjectCashBookResponse{
		ID:          b.ID,
		ProjectID:   b.ProjectID,
		AccountCode: b.Account.Code,
		AccountName: b.Account.Name,
		Income:      b.Income,
		Outlay:      b.Outlay,
		DealDate:    b.DealDate,
		Note:        b.Note,
		SeparatedID: b.SeparatedID,
		Balanced:    b.ChildrenBalanced(),
	}
}
