package models

import (
	"time"

	"gorm.io/datatypes"
)

// ContractPrice is the cached pricing projection for a contract, or for an
// unsold house unit. PaymentAmounts maps installment pay_time (as a string
// key) to the amount due at that installment. When IsCacheValid is true the
// map values sum to Price, subject to rounding absorbed by the final
// installment of each payment bucket.
type ContractPrice struct {
	ID          uint  `gorm:"primaryKey" json:"id"`
	ContractID  *uint `gorm:"uniqueIndex" json:"contract_id"`
	HouseUnitID *uint `gorm:"uniqueIndex" json:"house_unit_id"`

	Price      int64 `gorm:"type:bigint;not null" json:"price"`
	PriceBuild int64 `gorm:"type:bigint;default:0" json:"price_build"`
	PriceLand  int64 `gorm:"type:bigint;default:0" json:"price_land"`
	PriceTax   int64 `gorm:"type:bigint;default:0" json:"price_tax"`

	DownPay       int64 `gorm:"type:bigint;default:0" json:"down_pay"`
	MiddlePay     int64 `gorm:"type:bigint;default:0" json:"middle_pay"`
	RemainPay     int64 `gorm:"type:bigint;default:0" json:"remain_pay"`
	BizAgencyFee  int64 `gorm:"type:bigint;default:0" json:"biz_agency_fee"`
	IsIncludedBaf bool  `gorm:"default:false" json:"is_included_baf"`

	PaymentAmounts datatypes.JSONMap `json:"payment_amounts"`
	IsCacheValid   bool              `gorm:"default:false;index" json:"is_cache_valid"`
	CalculatedAt   *time.Time        `json:"calculated_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Contract  *Contract  `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
	HouseUnit *HouseUnit `gorm:"foreignKey:HouseUnitID" json:"house_unit,omitempty"`
}

// TableName specifies the table name for ContractPrice
func (ContractPrice) TableName() string {
	return "contract_prices"
}

// AmountFor returns the cached amount for an installment pay_time key.
// Values round-trip through JSON, so they come back as float64.
func (p *ContractPrice) AmountFor(payTime string) int64 {
	if p.PaymentAmounts == nil {
		return 0
	}
	switch v := p.PaymentAmounts[payTime].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// AmountTotal sums all cached installment amounts
func (p *ContractPrice) AmountTotal() int64 {
	var total int64
	for key := range p.PaymentAmounts {
		total += p.AmountFor(key)
	}
	return total
}

// ContractPriceResponse is the JSON response format for contract prices
type ContractPriceResponse struct {
	Price          int64            `json:"price"`
	PriceBuild     int64            `json:"price_build"`
	PriceLand      int64            `json:"price_land"`
	PriceTax       int64            `json:"price_tax"`
	DownPay        int64            `json:"down_pay"`
	MiddlePay      int64            `json:"middle_pay"`
	RemainPay      int64            `json:"remain_pay"`
	BizAgencyFee   int64            `json:"biz_agency_fee"`
	IsIncludedBaf  bool             `json:"is_included_baf"`
	PaymentAmounts map[string]int64 `json:"payment_amounts"`
	IsCacheValid   bool             `json:"is_cache_valid"`
	CalculatedAt   *time.Time       `json:"calculated_at"`
}

// ToResponse converts ContractPrice to ContractPriceResponse
func (p *ContractPrice) ToResponse() ContractPriceResponse {
	amounts := make(map[string]int64, len(p.PaymentAmounts))
	for key := range p.PaymentAmounts {
		amounts[key] = p.AmountFor(key)
	}
	return ContractPriceResponse{
		Price:          p.Price,
		PriceBuild:     p.PriceBuild,
		PriceLand:      p.PriceLand,
		PriceTax:       p.PriceTax,
		DownPay:        p.DownPay,
		MiddlePay:      p.MiddlePay,
		RemainPay:      p.RemainPay,
		BizAgencyFee:   p.BizAgencyFee,
		IsIncludedBaf:  p.IsIncludedBaf,
		PaymentAmounts: amounts,
		IsCacheValid:   p.IsCacheValid,
		CalculatedAt:   p.CalculatedAt,
	}
}
