package models

import (
	"time"
)

// Pay sort constants classify an installment occasion
const (
	PaySortDown   = "down"
	PaySortMiddle = "middle"
	PaySortRemain = "remain"
)

// InstallmentOrder is one scheduled payment occasion for a project
// (e.g. "2nd middle payment"), with its due date, ratio and the optional
// prepayment-discount / late-penalty policies.
type InstallmentOrder struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProjectID uint   `gorm:"not null;index" json:"project_id"`
	PaySort   string `gorm:"not null;index" json:"pay_sort"` // down, middle, remain
	PayCode   int    `gorm:"not null" json:"pay_code"`       // ordering key
	PayTime   int    `gorm:"not null" json:"pay_time"`       // JSON cache key
	PayName   string `gorm:"not null" json:"pay_name"`

	PayRatio     *float64   `json:"pay_ratio"` // percentage of total price
	PayDueDate   *time.Time `gorm:"type:date" json:"pay_due_date"`
	ExtraDueDate *time.Time `gorm:"type:date" json:"extra_due_date"`

	IsPrepDiscount    bool       `gorm:"default:false" json:"is_prep_discount"`
	PrepDiscountRatio *float64   `json:"prep_discount_ratio"` // annual percentage
	PrepRefDate       *time.Time `gorm:"type:date" json:"prep_ref_date"`

	IsLatePenalty    bool     `gorm:"default:false" json:"is_late_penalty"`
	LatePenaltyRatio *float64 `json:"late_penalty_ratio"` // annual percentage

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// TableName specifies the table name for InstallmentOrder
func (InstallmentOrder) TableName() string {
	return "installment_orders"
}

// DiscountRefDate returns the reference date for the prepayment discount:
// the configured PrepRefDate when present, otherwise the due date.
func (o *InstallmentOrder) DiscountRefDate() *time.Time {
	if o.PrepRefDate != nil {
		return o.PrepRefDate
	}
	return o.PayDueDate
}

// PenaltyBaseDate returns the date past which late penalty accrues:
// the configured ExtraDueDate when present, otherwise the due date.
func (o *InstallmentOrder) PenaltyBaseDate() *time.Time {
	if o.ExtraDueDate != nil {
		return o.ExtraDueDate
	}
	return o.PayDueDate
}

// SalesPrice is the explicit per (order group, unit type, floor type) sale
// price table. When present for a contract's assigned house unit it takes
// precedence over average-price fallbacks, and its non-zero payment
// overrides replace the ratio-computed defaults.
type SalesPrice struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	ProjectID    uint `gorm:"not null;index" json:"project_id"`
	OrderGroupID uint `gorm:"not null;index:idx_sales_price_key" json:"order_group_id"`
	UnitTypeID   uint `gorm:"not null;index:idx_sales_price_key" json:"unit_type_id"`
	FloorTypeID  uint `gorm:"not null;index:idx_sales_price_key" json:"floor_type_id"`

	Price      int64 `gorm:"type:bigint;not null" json:"price"`
	PriceBuild int64 `gorm:"type:bigint;default:0" json:"price_build"`
	PriceLand  int64 `gorm:"type:bigint;default:0" json:"price_land"`
	PriceTax   int64 `gorm:"type:bigint;default:0" json:"price_tax"`

	// Per-installment payment overrides; zero means "use the computed default"
	DownPay       int64 `gorm:"type:bigint;default:0" json:"down_pay"`
	MiddlePay     int64 `gorm:"type:bigint;default:0" json:"middle_pay"`
	RemainPay     int64 `gorm:"type:bigint;default:0" json:"remain_pay"`
	BizAgencyFee  int64 `gorm:"type:bigint;default:0" json:"biz_agency_fee"`
	IsIncludedBaf bool  `gorm:"default:false" json:"is_included_baf"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Project    Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	OrderGroup OrderGroup `gorm:"foreignKey:OrderGroupID" json:"order_group,omitempty"`
	UnitType   UnitType   `gorm:"foreignKey:UnitTypeID" json:"unit_type,omitempty"`
	FloorType  FloorType  `gorm:"foreignKey:FloorTypeID" json:"floor_type,omitempty"`
}

// TableName specifies the table name for SalesPrice
func (SalesPrice) TableName() string {
	return "sales_prices"
}

// DownPayment is the explicit per (order group, unit type) down-payment
// override. PaymentAmount is the amount due at EACH down installment, used
// verbatim instead of the ratio-based default.
type DownPayment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProjectID     uint      `gorm:"not null;index" json:"project_id"`
	OrderGroupID  uint      `gorm:"not null;index:idx_down_payment_key" json:"order_group_id"`
	UnitTypeID    uint      `gorm:"not null;index:idx_down_payment_key" json:"unit_type_id"`
	PaymentAmount int64     `gorm:"type:bigint;not null" json:"payment_amount"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Project    Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	OrderGroup OrderGroup `gorm:"foreignKey:OrderGroupID" json:"order_group,omitempty"`
	UnitType   UnitType   `gorm:"foreignKey:UnitTypeID" json:"unit_type,omitempty"`
}

// TableName specifies the table name for DownPayment
func (DownPayment) TableName() string {
	return "down_payments"
}
