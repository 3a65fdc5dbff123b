package services

import (
	"context"
	"time"

	"github.com/ywpark/brickpay-api/internal/models"
	"github.com/ywpark/brickpay-api/internal/repository"
)

// Hand-rolled mocks: embed the repository interface and override only the
// methods each test exercises.

type mockContractRepo struct {
	repository.ContractRepository
	mockFindPrice           func(ctx context.Context, contractID uint) (*models.ContractPrice, bool, error)
	mockSavePrice           func(ctx context.Context, price *models.ContractPrice) error
	mockInvalidatePrice     func(ctx context.Context, contractID uint) error
	mockListActiveByProject func(ctx context.Context, projectID uint) ([]models.Contract, error)
	mockListInvalidPrice    func(ctx context.Context) ([]models.Contract, error)
}

func (m *mockContractRepo) FindPrice(ctx context.Context, contractID uint) (*models.ContractPrice, bool, error) {
	if m.mockFindPrice != nil {
		return m.mockFindPrice(ctx, contractID)
	}
	return nil, false, nil
}

func (m *mockContractRepo) SavePrice(ctx context.Context, price *models.ContractPrice) error {
	if m.mockSavePrice != nil {
		return m.mockSavePrice(ctx, price)
	}
	return nil
}

func (m *mockContractRepo) InvalidatePrice(ctx context.Context, contractID uint) error {
	if m.mockInvalidatePrice != nil {
		return m.mockInvalidatePrice(ctx, contractID)
	}
	return nil
}

func (m *mockContractRepo) ListActiveByProject(ctx context.Context, projectID uint) ([]models.Contract, error) {
	if m.mockListActiveByProject != nil {
		return m.mockListActiveByProject(ctx, projectID)
	}
	return nil, nil
}

func (m *mockContractRepo) ListInvalidPrice(ctx context.Context) ([]models.Contract, error) {
	if m.mockListInvalidPrice != nil {
		return m.mockListInvalidPrice(ctx)
	}
	return nil, nil
}

type mockPricingRepo struct {
	repository.PricingRepository
	mockInstallmentOrders    func(ctx context.Context, projectID uint) ([]models.InstallmentOrder, error)
	mockFindInstallmentOrder func(ctx context.Context, id uint) (*models.InstallmentOrder, bool, error)
	mockFindSalesPrice       func(ctx context.Context, orderGroupID, unitTypeID, floorTypeID uint) (*models.SalesPrice, bool, error)
	mockFindDownPayment      func(ctx context.Context, orderGroupID, unitTypeID uint) (*models.DownPayment, bool, error)
}

func (m *mockPricingRepo) InstallmentOrders(ctx context.Context, projectID uint) ([]models.InstallmentOrder, error) {
	if m.mockInstallmentOrders != nil {
		return m.mockInstallmentOrders(ctx, projectID)
	}
	return nil, nil
}

func (m *mockPricingRepo) FindInstallmentOrder(ctx context.Context, id uint) (*models.InstallmentOrder, bool, error) {
	if m.mockFindInstallmentOrder != nil {
		return m.mockFindInstallmentOrder(ctx, id)
	}
	return &models.InstallmentOrder{ID: id}, true, nil
}

func (m *mockPricingRepo) FindSalesPrice(ctx context.Context, orderGroupID, unitTypeID, floorTypeID uint) (*models.SalesPrice, bool, error) {
	if m.mockFindSalesPrice != nil {
		return m.mockFindSalesPrice(ctx, orderGroupID, unitTypeID, floorTypeID)
	}
	return nil, false, nil
}

func (m *mockPricingRepo) FindDownPayment(ctx context.Context, orderGroupID, unitTypeID uint) (*models.DownPayment, bool, error) {
	if m.mockFindDownPayment != nil {
		return m.mockFindDownPayment(ctx, orderGroupID, unitTypeID)
	}
	return nil, false, nil
}

type mockProjectRepo struct {
	repository.ProjectRepository
	mockFindBudget   func(ctx context.Context, projectID, orderGroupID, unitTypeID uint) (*models.ProjectBudget, bool, error)
	mockFindUnitType func(ctx context.Context, id uint) (*models.UnitType, error)
}

func (m *mockProjectRepo) FindBudget(ctx context.Context, projectID, orderGroupID, unitTypeID uint) (*models.ProjectBudget, bool, error) {
	if m.mockFindBudget != nil {
		return m.mockFindBudget(ctx, projectID, orderGroupID, unitTypeID)
	}
	return nil, false, nil
}

func (m *mockProjectRepo) FindUnitType(ctx context.Context, id uint) (*models.UnitType, error) {
	if m.mockFindUnitType != nil {
		return m.mockFindUnitType(ctx, id)
	}
	return &models.UnitType{}, nil
}

type mockPaymentRepo struct {
	repository.PaymentRepository
	mockFindByContract func(ctx context.Context, contractID uint) ([]models.ContractPayment, error)
	mockFindByEntry    func(ctx context.Context, accountingEntryID uint) (*models.ContractPayment, bool, error)
	mockCreate         func(ctx context.Context, payment *models.ContractPayment) error
	mockUpdate         func(ctx context.Context, payment *models.ContractPayment) error
	mockDelete         func(ctx context.Context, id uint) error
}

func (m *mockPaymentRepo) FindByContract(ctx context.Context, contractID uint) ([]models.ContractPayment, error) {
	if m.mockFindByContract != nil {
		return m.mockFindByContract(ctx, contractID)
	}
	return nil, nil
}

func (m *mockPaymentRepo) FindByEntry(ctx context.Context, accountingEntryID uint) (*models.ContractPayment, bool, error) {
	if m.mockFindByEntry != nil {
		return m.mockFindByEntry(ctx, accountingEntryID)
	}
	return nil, false, nil
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *models.ContractPayment) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, payment)
	}
	return nil
}

func (m *mockPaymentRepo) Update(ctx context.Context, payment *models.ContractPayment) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, payment)
	}
	return nil
}

func (m *mockPaymentRepo) Delete(ctx context.Context, id uint) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, id)
	}
	return nil
}

type mockLedgerRepo struct {
	repository.LedgerRepository
	mockFindAccount            func(ctx context.Context, id uint) (*models.Account, error)
	mockFindTransaction        func(ctx context.Context, id uint) (*models.BankTransaction, error)
	mockFindEntry              func(ctx context.Context, id uint) (*models.AccountingEntry, error)
	mockDeleteEntry            func(ctx context.Context, id uint) error
	mockSumEntries             func(ctx context.Context, bankTransactionID uint) (int64, error)
	mockSetTransactionBalanced func(ctx context.Context, id uint, balanced bool) error
}

func (m *mockLedgerRepo) FindAccount(ctx context.Context, id uint) (*models.Account, error) {
	if m.mockFindAccount != nil {
		return m.mockFindAccount(ctx, id)
	}
	return &models.Account{}, nil
}

func (m *mockLedgerRepo) FindTransaction(ctx context.Context, id uint) (*models.BankTransaction, error) {
	if m.mockFindTransaction != nil {
		return m.mockFindTransaction(ctx, id)
	}
	return &models.BankTransaction{}, nil
}

func (m *mockLedgerRepo) FindEntry(ctx context.Context, id uint) (*models.AccountingEntry, error) {
	if m.mockFindEntry != nil {
		return m.mockFindEntry(ctx, id)
	}
	return &models.AccountingEntry{ID: id}, nil
}

func (m *mockLedgerRepo) DeleteEntry(ctx context.Context, id uint) error {
	if m.mockDeleteEntry != nil {
		return m.mockDeleteEntry(ctx, id)
	}
	return nil
}

func (m *mockLedgerRepo) SumEntries(ctx context.Context, bankTransactionID uint) (int64, error) {
	if m.mockSumEntries != nil {
		return m.mockSumEntries(ctx, bankTransactionID)
	}
	return 0, nil
}

func (m *mockLedgerRepo) SetTransactionBalanced(ctx context.Context, id uint, balanced bool) error {
	if m.mockSetTransactionBalanced != nil {
		return m.mockSetTransactionBalanced(ctx, id, balanced)
	}
	return nil
}

// date builds a UTC date without a time component, matching date columns
func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func uintPtr(v uint) *uint           { return &v }
func int64Ptr(v int64) *int64        { return &v }
func float64Ptr(v float64) *float64  { return &v }
func timePtr(t time.Time) *time.Time { return &t }
