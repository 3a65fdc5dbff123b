package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ywpark/brickpay-api/internal/models"

	"gorm.io/datatypes"
)

func newTestAdjustmentService(contractRepo *mockContractRepo, pricingRepo *mockPricingRepo, paymentRepo *mockPaymentRepo) *AdjustmentService {
	installmentSvc := newTestInstallmentService(contractRepo, pricingRepo, &mockProjectRepo{})
	return NewAdjustmentService(contractRepo, pricingRepo, paymentRepo, installmentSvc)
}

// cachedPrice returns a valid cache mapping pay_time "1" to the amount
func cachedPrice(amount int64) *models.ContractPrice {
	return &models.ContractPrice{
		Price:          amount,
		PaymentAmounts: datatypes.JSONMap{"1": amount},
		IsCacheValid:   true,
	}
}

func TestSummaryPrepaymentDiscount(t *testing.T) {
	dueDate := date(2026, time.March, 1)
	orders := []models.InstallmentOrder{
		{
			ID: 1, ProjectID: 10, PaySort: models.PaySortDown, PayCode: 1, PayTime: 1,
			PayDueDate:        &dueDate,
			IsPrepDiscount:    true,
			PrepDiscountRatio: float64Ptr(5),
		},
	}
	contractRepo := &mockContractRepo{
		mockFindPrice: func(ctx context.Context, contractID uint) (*models.ContractPrice, bool, error) {
			return cachedPrice(10_000_000), true, nil
		},
	}
	pricingRepo := &mockPricingRepo{
		mockInstallmentOrders: func(ctx context.Context, projectID uint) ([]models.InstallmentOrder, error) {
			return orders, nil
		},
	}
	paymentRepo := &mockPaymentRepo{
		mockFindByContract: func(ctx context.Context, contractID uint) ([]models.ContractPayment, error) {
			// Paid in full 10 days before the due date
			return []models.ContractPayment{
				{InstallmentOrderID: uintPtr(1), Amount: 10_000_000, IncomeDate: date(2026, time.February, 19)},
			}, nil
		},
	}
	svc := newTestAdjustmentService(contractRepo, pricingRepo, paymentRepo)

	summary, err := svc.Summary(context.Background(), testContract(), date(2026, time.June, 1))
	assert.NoError(t, err)
	assert.Len(t, summary.Lines, 1)

	line := summary.Lines[0]
	// 10,000,000 * 5% / 365 * 10 days = 13,698.63 -> 13,699
	assert.Equal(t, int64(13_699), line.Discount)
	assert.Equal(t, 10, line.EarlyDays)
	assert.Equal(t, int64(0), line.Penalty)
	assert.Equal(t, int64(0), line.Unpaid)
	assert.Equal(t, int64(13_699), summary.TotalDiscount)
}

func TestSummaryNoDiscountOnOrAfterRefDate(t *testing.T) {
	dueDate := date(2026, time.March, 1)
	orders := []models.InstallmentOrder{
		{
			ID: 1, ProjectID: 10, PaySort: models.PaySortDown, PayCode: 1, PayTime: 1,
			PayDueDate:        &dueDate,
			IsPrepDiscount:    true,
			PrepDiscountRatio: float64Ptr(5),
		},
	}
	contractRepo := &mockContractRepo{
		mockFindPrice: func(ctx context.Context, contractID uint) (*models.ContractPrice, bool, error) {
			return cachedPrice(10_000_000), true, nil
		},
	}
	pricingRepo := &mockPricingRepo{
		mockInstallmentOrders: func(ctx context.Context, projectID uint) ([]models.InstallmentOrder, error) {
			return orders, nil
		},
	}
	paymentRepo := &mockPaymentRepo{
		mockFindByContract: func(ctx context.Context, contractID uint) ([]models.ContractPayment, error) {
			return []models.ContractPayment{
				{InstallmentOrderID: uintPtr(1), Amount: 10_000_000, IncomeDate: dueDate},
			}, nil
		},
	}
	svc := newTestAdjustmentService(contractRepo, pricingRepo, paymentRepo)

	summary, err := svc.Summary(context.Background(), testContract(), date(2026, time.June, 1))
	assert.NoError(t, err)
	assert.Equal(t, int64(0), summary.Lines[0].Discount)
	assert.Equal(t, 0, summary.Lines[0].EarlyDays)
}

func TestSummaryLatePenaltyDecliningBalance(t *testing.T) {
	dueDate := date(2026, time.January, 1)
	orders := []models.InstallmentOrder{
		{
			ID: 1, ProjectID: 10, PaySort: models.PaySortMiddle, PayCode: 1, PayTime: 1,
			PayDueDate:       &dueDate,
			IsLatePenalty:    true,
			LatePenaltyRatio: float64Ptr(10),
		},
	}
	contractRepo := &mockContractRepo{
		mockFindPrice: func(ctx context.Context, contractID uint) (*models.ContractPrice, bool, error) {
			return cachedPrice(10_000_000), true, nil
		},
	}
	pricingRepo := &mockPricingRepo{
		mockInstallmentOrders: func(ctx context.Context, projectID uint) ([]models.InstallmentOrder, error) {
			return orders, nil
		},
	}
	paymentRepo := &mockPaymentRepo{
		mockFindByContract: func(ctx context.Context, contractID uint) ([]models.ContractPayment, error) {
			return []models.ContractPayment{
				{InstallmentOrderID: uintPtr(1), Amount: 4_000_000, IncomeDate: date(2026, time.January, 11)},
				{InstallmentOrderID: uintPtr(1), Amount: 6_000_000, IncomeDate: date(2026, time.January, 31)},
			}, nil
		},
	}
	svc := newTestAdjustmentService(contractRepo, pricingRepo, paymentRepo)

	summary, err := svc.Summary(context.Background(), testContract(), date(2026, time.June, 1))
	assert.NoError(t, err)

	line := summary.Lines[0]
	// First payment 10 days late on 10,000,000 outstanding:
	//   10,000,000 * 10% / 365 * 10 = 27,397.26 -> 27,397
	// Second payment 30 days late on 6,000,000 outstanding:
	//   6,000,000 * 10% / 365 * 30 = 49,315.07 -> 49,315
	assert.Equal(t, int64(27_397+49_315), line.Penalty)
	assert.Equal(t, 30, line.LateDays)
	assert.Equal(t, int64(0), line.Unpaid)
	assert.Equal(t, int64(10_000_000), line.PaidAmount)
}

func TestSummaryPenaltyUsesExtraDueDate(t *testing.T) {
	dueDate := date(2026, time.January, 1)
	extraDueDate := date(2026, time.January, 21)
	orders := []models.InstallmentOrder{
		{
			ID: 1, ProjectID: 10, PaySort: models.PaySortMiddle, PayCode: 1, PayTime: 1,
			PayDueDate:       &dueDate,
			ExtraDueDate:     &extraDueDate,
			IsLatePenalty:    true,
			LatePenaltyRatio: float64Ptr(10),
		},
	}
	contractRepo := &mockContractRepo{
		mockFindPrice: func(ctx context.Context, contractID uint) (*models.ContractPrice, bool, error) {
			return cachedPrice(10_000_000), true, nil
		},
	}
	pricingRepo := &mockPricingRepo{
		mockInstallmentOrders: func(ctx context.Context, projectID uint) ([]models.InstallmentOrder, error) {
			return orders, nil
		},
	}
	paymentRepo := &mockPaymentRepo{
		mockFindByContract: func(ctx context.Context, contractID uint) ([]models.ContractPayment, error) {
			// 10 days past the original due date but within the grace window
			return []models.ContractPayment{
				{InstallmentOrderID: uintPtr(1), Amount: 10_000_000, IncomeDate: date(2026, time.January, 11)},
			}, nil
		},
	}
	svc := newTestAdjustmentService(contractRepo, pricingRepo, paymentRepo)

	summary, err := svc.Summary(context.Background(), testContract(), date(2026, time.June, 1))
	assert.NoError(t, err)
	assert.Equal(t, int64(0), summary.Lines[0].Penalty)
}

func TestSummaryUnpaidAndNotYetDue(t *testing.T) {
	pastDue := date(2026, time.January, 1)
	futureDue := date(2026, time.December, 1)
	orders := []models.InstallmentOrder{
		{ID: 1, ProjectID: 10, PaySort: models.PaySortDown, PayCode: 1, PayTime: 1, PayDueDate: &pastDue},
		{ID: 2, ProjectID: 10, PaySort: models.PaySortRemain, PayCode: 2, PayTime: 2, PayDueDate: &futureDue},
	}
	contractRepo := &mockContractRepo{
		mockFindPrice: func(ctx context.Context, contractID uint) (*models.ContractPrice, bool, error) {
			return &models.ContractPrice{
				Price:          100_000_000,
				PaymentAmounts: datatypes.JSONMap{"1": int64(10_000_000), "2": int64(90_000_000)},
				IsCacheValid:   true,
			}, true, nil
		},
	}
	pricingRepo := &mockPricingRepo{
		mockInstallmentOrders: func(ctx context.Context, projectID uint) ([]models.InstallmentOrder, error) {
			return orders, nil
		},
	}
	paymentRepo := &mockPaymentRepo{
		mockFindByContract: func(ctx context.Context, contractID uint) ([]models.ContractPayment, error) {
			return []models.ContractPayment{
				{InstallmentOrderID: uintPtr(1), Amount: 4_000_000, IncomeDate: date(2026, time.February, 1)},
			}, nil
		},
	}
	svc := newTestAdjustmentService(contractRepo, pricingRepo, paymentRepo)

	summary, err := svc.Summary(context.Background(), testContract(), date(2026, time.June, 1))
	assert.NoError(t, err)

	assert.Equal(t, int64(6_000_000), summary.Lines[0].Unpaid)
	assert.False(t, summary.Lines[0].NotYetDue)
	assert.True(t, summary.Lines[1].NotYetDue)
	assert.Equal(t, int64(90_000_000), summary.Lines[1].Unpaid)

	assert.Equal(t, int64(10_000_000), summary.TotalDue)
	assert.Equal(t, int64(4_000_000), summary.TotalPaid)
	assert.Equal(t, int64(6_000_000), summary.TotalUnpaid)
	assert.Equal(t, int64(90_000_000), summary.NotYetDueAmount)
}

func TestSummaryIgnoresUnattributedPayments(t *testing.T) {
	dueDate := date(2026, time.January, 1)
	orders := []models.InstallmentOrder{
		{ID: 1, ProjectID: 10, PaySort: models.PaySortDown, PayCode: 1, PayTime: 1, PayDueDate: &dueDate},
	}
	contractRepo := &mockContractRepo{
		mockFindPrice: func(ctx context.Context, contractID uint) (*models.ContractPrice, bool, error) {
			return cachedPrice(10_000_000), true, nil
		},
	}
	pricingRepo := &mockPricingRepo{
		mockInstallmentOrders: func(ctx context.Context, projectID uint) ([]models.InstallmentOrder, error) {
			return orders, nil
		},
	}
	paymentRepo := &mockPaymentRepo{
		mockFindByContract: func(ctx context.Context, contractID uint) ([]models.ContractPayment, error) {
			// No installment order reference: never matched by amount
			return []models.ContractPayment{
				{InstallmentOrderID: nil, Amount: 10_000_000, IncomeDate: date(2026, time.January, 1)},
			}, nil
		},
	}
	svc := newTestAdjustmentService(contractRepo, pricingRepo, paymentRepo)

	summary, err := svc.Summary(context.Background(), testContract(), date(2026, time.June, 1))
	assert.NoError(t, err)
	assert.Equal(t, int64(0), summary.Lines[0].PaidAmount)
	assert.Equal(t, int64(10_000_000), summary.Lines[0].Unpaid)
}
