package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ywpark/brickpay-api/internal/models"
	"github.com/ywpark/brickpay-api/internal/repository"
	"github.com/ywpark/brickpay-api/pkg/logger"

	"gorm.io/datatypes"
)

// defaultPayRatio applies when an installment order carries no explicit
// ratio: 10 percent of the total price.
const defaultPayRatio = 10.0

var oneHundred = decimal.NewFromInt(100)

// Breakdown summarizes the payment composition of a contract:
// representative per-installment amounts for the down and middle buckets,
// the residual remain bucket total, and the agency fee flags.
type Breakdown struct {
	DownPay       int64 `json:"down_pay"`   // per down installment
	MiddlePay     int64 `json:"middle_pay"` // per middle installment
	RemainPay     int64 `json:"remain_pay"` // remain bucket total
	BizAgencyFee  int64 `json:"biz_agency_fee"`
	IsIncludedBaf bool  `json:"is_included_baf"`
}

// PlanLine is one installment of a contract's payment plan
type PlanLine struct {
	Order  models.InstallmentOrder `json:"order"`
	Amount int64                   `json:"amount"`
}

// InstallmentService builds and persists per-contract payment plans from the
// project's installment schedule and the resolved unit price.
//
// Rounding policy: per-installment amounts are floored to whole currency
// units and the last installment of each bucket absorbs the remainder, so a
// plan always sums exactly to the resolved price.
type InstallmentService struct {
	contractRepo repository.ContractRepository
	pricingRepo  repository.PricingRepository
	pricingSvc   *PricingService
}

// NewInstallmentService creates a new installment service
func NewInstallmentService(contractRepo repository.ContractRepository, pricingRepo repository.PricingRepository, pricingSvc *PricingService) *InstallmentService {
	return &InstallmentService{
		contractRepo: contractRepo,
		pricingRepo:  pricingRepo,
		pricingSvc:   pricingSvc,
	}
}

// ratioAmount computes floor(price * ratio / 100) in whole currency units
func ratioAmount(price int64, ratio float64) int64 {
	return decimal.NewFromInt(price).
		Mul(decimal.NewFromFloat(ratio)).
		Div(oneHundred).
		Floor().
		IntPart()
}

// orderRatio returns the order's ratio, or the 10 percent default
func orderRatio(order *models.InstallmentOrder) float64 {
	if order.PayRatio != nil {
		return *order.PayRatio
	}
	return defaultPayRatio
}

// BuildPlan computes the full per-installment plan for a contract against
// the given price tuple and schedule. The schedule must already be in
// pay_code, pay_time order.
//
// Down and middle amounts come from the override chain: explicit down
// payment row, then non-zero sales price override, then the order's ratio.
// The remain bucket is the residual, split evenly with the last installment
// absorbing the rounding remainder. When the schedule has no remain
// installments the residual folds into the final middle installment, and
// failing that into the final down installment, keeping the plan lossless.
func (s *InstallmentService) BuildPlan(ctx context.Context, contract *models.Contract, price *UnitPrice, orders []models.InstallmentOrder) ([]PlanLine, error) {
	if len(orders) == 0 {
		if price.Price == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: project %d", ErrEmptySchedule, contract.ProjectID)
	}

	downPayment, hasDownPayment, err := s.pricingRepo.FindDownPayment(ctx, contract.OrderGroupID, contract.UnitTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up down payment override: %w", err)
	}

	lines := make([]PlanLine, len(orders))
	lastDown, lastMiddle, lastRemain := -1, -1, -1
	remainCount := 0

	var allocated int64
	for i := range orders {
		order := orders[i]
		lines[i] = PlanLine{Order: order}

		switch order.PaySort {
		case models.PaySortDown:
			amount := ratioAmount(price.Price, orderRatio(&order))
			if hasDownPayment {
				amount = downPayment.PaymentAmount
			} else if price.SalesPrice != nil && price.SalesPrice.DownPay != 0 {
				amount = price.SalesPrice.DownPay
			}
			lines[i].Amount = amount
			allocated += amount
			lastDown = i

		case models.PaySortMiddle:
			amount := ratioAmount(price.Price, orderRatio(&order))
			if price.SalesPrice != nil && price.SalesPrice.MiddlePay != 0 {
				amount = price.SalesPrice.MiddlePay
			}
			lines[i].Amount = amount
			allocated += amount
			lastMiddle = i

		case models.PaySortRemain:
			remainCount++
			lastRemain = i

		default:
			return nil, fmt.Errorf("%w: unknown pay sort %q", ErrInvalidInput, order.PaySort)
		}
	}

	residual := price.Price - allocated

	if remainCount > 0 {
		base := decimal.NewFromInt(residual).
			Div(decimal.NewFromInt(int64(remainCount))).
			Floor().
			IntPart()
		distributed := int64(0)
		for i := range lines {
			if lines[i].Order.PaySort != models.PaySortRemain {
				continue
			}
			if i == lastRemain {
				lines[i].Amount = residual - distributed
			} else {
				lines[i].Amount = base
				distributed += base
			}
		}
		return lines, nil
	}

	// No remain installments: fold the residual into the tail of the
	// schedule so the plan still sums to the price
	switch {
	case lastMiddle >= 0:
		lines[lastMiddle].Amount += residual
	case lastDown >= 0:
		lines[lastDown].Amount += residual
	}
	return lines, nil
}

// BuildBreakdown derives the bucket summary from a computed plan
func (s *InstallmentService) BuildBreakdown(plan []PlanLine, price *UnitPrice) *Breakdown {
	breakdown := &Breakdown{}
	if price.SalesPrice != nil {
		breakdown.BizAgencyFee = price.SalesPrice.BizAgencyFee
		breakdown.IsIncludedBaf = price.SalesPrice.IsIncludedBaf
	}

	for i := range plan {
		switch plan[i].Order.PaySort {
		case models.PaySortDown:
			if breakdown.DownPay == 0 {
				breakdown.DownPay = plan[i].Amount
			}
		case models.PaySortMiddle:
			if breakdown.MiddlePay == 0 {
				breakdown.MiddlePay = plan[i].Amount
			}
		case models.PaySortRemain:
			breakdown.RemainPay += plan[i].Amount
		}
	}
	return breakdown
}

// PlanFor resolves the price and builds the plan for one contract. The
// contract must have its key unit association loaded when a physical unit
// is assigned, otherwise explicit sales prices cannot match.
func (s *InstallmentService) PlanFor(ctx context.Context, contract *models.Contract) ([]PlanLine, *UnitPrice, error) {
	price, err := s.pricingSvc.Resolve(ctx, contract, contract.HouseUnit(), true)
	if err != nil {
		return nil, nil, err
	}

	orders, err := s.pricingRepo.InstallmentOrders(ctx, contract.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load installment orders: %w", err)
	}

	plan, err := s.BuildPlan(ctx, contract, price, orders)
	if err != nil {
		return nil, nil, err
	}
	return plan, price, nil
}

// WritePlan recomputes and persists the contract's price cache. A
// computation failure does not surface to the caller: the cache is marked
// invalid instead, deferring the problem to the next reader.
func (s *InstallmentService) WritePlan(ctx context.Context, contract *models.Contract) error {
	plan, price, err := s.PlanFor(ctx, contract)
	if err != nil {
		logger.Warn("payment plan computation failed, invalidating cache",
			"contract_id", contract.ID, "error", err)
		if invErr := s.contractRepo.InvalidatePrice(ctx, contract.ID); invErr != nil {
			return fmt.Errorf("failed to invalidate price cache: %w", invErr)
		}
		return nil
	}

	amounts := make(datatypes.JSONMap, len(plan))
	for i := range plan {
		amounts[strconv.Itoa(plan[i].Order.PayTime)] = plan[i].Amount
	}

	breakdown := s.BuildBreakdown(plan, price)
	now := time.Now()
	contractID := contract.ID

	record := &models.ContractPrice{
		ContractID:     &contractID,
		Price:          price.Price,
		PriceBuild:     price.Build,
		PriceLand:      price.Land,
		PriceTax:       price.Tax,
		DownPay:        breakdown.DownPay,
		MiddlePay:      breakdown.MiddlePay,
		RemainPay:      breakdown.RemainPay,
		BizAgencyFee:   breakdown.BizAgencyFee,
		IsIncludedBaf:  breakdown.IsIncludedBaf,
		PaymentAmounts: amounts,
		IsCacheValid:   true,
		CalculatedAt:   &now,
	}

	if err := s.contractRepo.SavePrice(ctx, record); err != nil {
		return fmt.Errorf("failed to save price cache: %w", err)
	}
	return nil
}

// RecomputeProject rewrites the price cache of every active contract in a
// project. Called after price tables or the installment schedule change, and
// by the nightly job. Individual failures are logged and skipped.
func (s *InstallmentService) RecomputeProject(ctx context.Context, projectID uint) (int, error) {
	contracts, err := s.contractRepo.ListActiveByProject(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to list active contracts: %w", err)
	}

	recomputed := 0
	for i := range contracts {
		if err := s.WritePlan(ctx, &contracts[i]); err != nil {
			logger.Error("failed to recompute contract price",
				"contract_id", contracts[i].ID, "project_id", projectID, "error", err)
			continue
		}
		recomputed++
	}

	logger.Info("project price recompute finished",
		"project_id", projectID, "contracts", len(contracts), "recomputed", recomputed)
	return recomputed, nil
}

// RecomputeInvalid rewrites the plan of every active contract whose price
// cache is flagged invalid. Run periodically so a failed computation does not
// leave a contract without trusted figures for long.
func (s *InstallmentService) RecomputeInvalid(ctx context.Context) (int, error) {
	contracts, err := s.contractRepo.ListInvalidPrice(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list invalidated contracts: %w", err)
	}

	recomputed := 0
	for i := range contracts {
		if err := s.WritePlan(ctx, &contracts[i]); err != nil {
			logger.Error("failed to recompute invalidated price",
				"contract_id", contracts[i].ID, "error", err)
			continue
		}
		recomputed++
	}

	if len(contracts) > 0 {
		logger.Info("stale price sweep finished",
			"contracts", len(contracts), "recomputed", recomputed)
	}
	return recomputed, nil
}
