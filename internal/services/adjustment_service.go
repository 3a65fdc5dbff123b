package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ywpark/brickpay-api/internal/models"
	"github.com/ywpark/brickpay-api/internal/repository"
)

var daysPerYear = decimal.NewFromInt(365)

// AdjustmentLine is the computed position of one installment as of a
// reference date
type AdjustmentLine struct {
	InstallmentOrderID uint       `json:"installment_order_id"`
	PaySort            string     `json:"pay_sort"`
	PayName            string     `json:"pay_name"`
	DueDate            *time.Time `json:"due_date"`
	DueAmount          int64      `json:"due_amount"`
	PaidAmount         int64      `json:"paid_amount"`
	Discount           int64      `json:"discount"`
	Penalty            int64      `json:"penalty"`
	Unpaid             int64      `json:"unpaid"`
	EarlyDays          int        `json:"early_days"`
	LateDays           int        `json:"late_days"`
	NotYetDue          bool       `json:"not_yet_due"`
}

// AdjustmentSummary aggregates a contract's installment positions
type AdjustmentSummary struct {
	ContractID      uint             `json:"contract_id"`
	AsOf            time.Time        `json:"as_of"`
	Lines           []AdjustmentLine `json:"lines"`
	TotalDue        int64            `json:"total_due"`
	TotalPaid       int64            `json:"total_paid"`
	TotalDiscount   int64            `json:"total_discount"`
	TotalPenalty    int64            `json:"total_penalty"`
	TotalUnpaid     int64            `json:"total_unpaid"`
	NotYetDueAmount int64            `json:"not_yet_due_amount"`
}

// AdjustmentService computes prepayment discounts and late penalties per
// installment. Payments attach to installments only through their explicit
// installment order reference; amounts are never matched by inference.
//
// Interest math runs in decimal at daily resolution (annual ratio / 365)
// and rounds half up to whole currency units per line.
type AdjustmentService struct {
	contractRepo   repository.ContractRepository
	pricingRepo    repository.PricingRepository
	paymentRepo    repository.PaymentRepository
	installmentSvc *InstallmentService
}

// NewAdjustmentService creates a new adjustment service
func NewAdjustmentService(contractRepo repository.ContractRepository, pricingRepo repository.PricingRepository, paymentRepo repository.PaymentRepository, installmentSvc *InstallmentService) *AdjustmentService {
	return &AdjustmentService{
		contractRepo:   contractRepo,
		pricingRepo:    pricingRepo,
		paymentRepo:    paymentRepo,
		installmentSvc: installmentSvc,
	}
}

// daysBetween counts whole calendar days from a to b, negative when b is
// before a. Date columns carry no time component.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// dailyInterest computes round_half_up(amount * annualRatio/100 / 365 * days)
func dailyInterest(amount int64, annualRatio float64, days int) int64 {
	if days <= 0 || amount <= 0 {
		return 0
	}
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromFloat(annualRatio)).
		Div(oneHundred).
		Div(daysPerYear).
		Mul(decimal.NewFromInt(int64(days))).
		Round(0).
		IntPart()
}

// Summary computes the per-installment adjustment position of a contract as
// of the given date
func (s *AdjustmentService) Summary(ctx context.Context, contract *models.Contract, asOf time.Time) (*AdjustmentSummary, error) {
	orders, err := s.pricingRepo.InstallmentOrders(ctx, contract.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load installment orders: %w", err)
	}

	amounts, err := s.dueAmounts(ctx, contract, orders)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindByContract(ctx, contract.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	byOrder := make(map[uint][]models.ContractPayment)
	for _, p := range payments {
		if p.InstallmentOrderID == nil {
			continue
		}
		byOrder[*p.InstallmentOrderID] = append(byOrder[*p.InstallmentOrderID], p)
	}

	summary := &AdjustmentSummary{
		ContractID: contract.ID,
		AsOf:       asOf,
		Lines:      make([]AdjustmentLine, 0, len(orders)),
	}

	for i := range orders {
		line := s.buildLine(&orders[i], amounts[orders[i].ID], byOrder[orders[i].ID], asOf)
		summary.Lines = append(summary.Lines, line)

		summary.TotalPaid += line.PaidAmount
		summary.TotalDiscount += line.Discount
		summary.TotalPenalty += line.Penalty
		if line.NotYetDue {
			summary.NotYetDueAmount += line.Unpaid
		} else {
			summary.TotalDue += line.DueAmount
			summary.TotalUnpaid += line.Unpaid
		}
	}

	return summary, nil
}

// dueAmounts returns the due amount per installment order, preferring the
// cached plan and rebuilding it in memory when the cache is invalid
func (s *AdjustmentService) dueAmounts(ctx context.Context, contract *models.Contract, orders []models.InstallmentOrder) (map[uint]int64, error) {
	amounts := make(map[uint]int64, len(orders))

	cached, found, err := s.contractRepo.FindPrice(ctx, contract.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read price cache: %w", err)
	}
	if found && cached.IsCacheValid {
		for i := range orders {
			amounts[orders[i].ID] = cached.AmountFor(strconv.Itoa(orders[i].PayTime))
		}
		return amounts, nil
	}

	plan, _, err := s.installmentSvc.PlanFor(ctx, contract)
	if err != nil {
		return nil, err
	}
	for i := range plan {
		amounts[plan[i].Order.ID] = plan[i].Amount
	}
	return amounts, nil
}

// buildLine computes one installment's position. payments arrive ordered by
// income date.
func (s *AdjustmentService) buildLine(order *models.InstallmentOrder, due int64, payments []models.ContractPayment, asOf time.Time) AdjustmentLine {
	line := AdjustmentLine{
		InstallmentOrderID: order.ID,
		PaySort:            order.PaySort,
		PayName:            order.PayName,
		DueDate:            order.PayDueDate,
		DueAmount:          due,
	}

	if order.PayDueDate != nil && order.PayDueDate.After(asOf) {
		line.NotYetDue = true
	}

	outstanding := due
	var fullPaidAt *time.Time

	for i := range payments {
		p := &payments[i]
		line.PaidAmount += p.Amount

		// Late penalty accrues per payment row on the balance outstanding
		// before that payment
		if order.IsLatePenalty && order.LatePenaltyRatio != nil {
			if base := order.PenaltyBaseDate(); base != nil {
				days := daysBetween(*base, p.IncomeDate)
				if days > 0 {
					line.Penalty += dailyInterest(outstanding, *order.LatePenaltyRatio, days)
					if days > line.LateDays {
						line.LateDays = days
					}
				}
			}
		}

		outstanding -= p.Amount
		if outstanding <= 0 && fullPaidAt == nil {
			fullPaidAt = &p.IncomeDate
		}
	}

	if outstanding > 0 {
		line.Unpaid = outstanding
	}

	// Prepayment discount applies only when the installment was settled in
	// full before the reference date
	if order.IsPrepDiscount && order.PrepDiscountRatio != nil && fullPaidAt != nil {
		if ref := order.DiscountRefDate(); ref != nil {
			days := daysBetween(*fullPaidAt, *ref)
			if days > 0 {
				line.Discount = dailyInterest(due, *order.PrepDiscountRatio, days)
				line.EarlyDays = days
			}
		}
	}

	return line
}
