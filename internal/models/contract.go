package models

import (
	"time"
)

// Contract represents a unit reservation/sale agreement
type Contract struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ProjectID    uint       `gorm:"not null;index" json:"project_id"`
	OrderGroupID uint       `gorm:"not null;index" json:"order_group_id"`
	UnitTypeID   uint       `gorm:"not null;index" json:"unit_type_id"`
	Serial       string     `gorm:"not null;uniqueIndex" json:"serial"`
	Contractor   string     `json:"contractor"`
	Status       string     `gorm:"default:pending;index" json:"status"`
	Active       bool       `gorm:"default:false;index" json:"active"`
	ContractDate *time.Time `gorm:"type:date" json:"contract_date"`
	TerminatedAt *time.Time `json:"terminated_at"`
	Note         *string    `gorm:"type:text" json:"note"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Associations
	Project       Project           `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	OrderGroup    OrderGroup        `gorm:"foreignKey:OrderGroupID" json:"order_group,omitempty"`
	UnitType      UnitType          `gorm:"foreignKey:UnitTypeID" json:"unit_type,omitempty"`
	KeyUnit       *KeyUnit          `gorm:"foreignKey:ContractID" json:"key_unit,omitempty"`
	ContractPrice *ContractPrice    `gorm:"foreignKey:ContractID" json:"contract_price,omitempty"`
	Payments      []ContractPayment `gorm:"foreignKey:ContractID" json:"payments,omitempty"`
}

// TableName specifies the table name for Contract
func (Contract) TableName() string {
	return "contracts"
}

// Contract status constants
const (
	ContractStatusPending    = "pending"
	ContractStatusActive     = "active"
	ContractStatusTerminated = "terminated"
)

// MayActivate returns true if contract can be activated
func (c *Contract) MayActivate() bool {
	return c.Status == ContractStatusPending
}

// MayTerminate returns true if contract can be terminated
func (c *Contract) MayTerminate() bool {
	return c.Status == ContractStatusPending || c.Status == ContractStatusActive
}

// HouseUnit returns the assigned physical unit, or nil when the key unit
// has no house unit yet
func (c *Contract) HouseUnit() *HouseUnit {
	if c.KeyUnit == nil {
		return nil
	}
	return c.KeyUnit.HouseUnit
}

// ContractResponse is the JSON response format for contracts
type ContractResponse struct {
	ID            uint       `json:"id"`
	ProjectID     uint       `json:"project_id"`
	ProjectName   string     `json:"project_name"`
	OrderGroupID  uint       `json:"order_group_id"`
	OrderGroup    string     `json:"order_group"`
	UnitTypeID    uint       `json:"unit_type_id"`
	UnitType      string     `json:"unit_type"`
	Serial        string     `json:"serial"`
	Contractor    string     `json:"contractor"`
	Status        string     `json:"status"`
	Active        bool       `json:"active"`
	UnitCode      string     `json:"unit_code,omitempty"`
	HouseUnitName string     `json:"house_unit_name,omitempty"`
	ContractDate  *time.Time `json:"contract_date"`
	TerminatedAt  *time.Time `json:"terminated_at"`
	Note          *string    `json:"note"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Price *ContractPriceResponse `json:"price,omitempty"`
}

// ToResponse converts Contract to ContractResponse
func (c *Contract) ToResponse() ContractResponse {
	resp := ContractResponse{
		ID:           c.ID,
		ProjectID:    c.ProjectID,
		ProjectName:  c.Project.Name,
		OrderGroupID: c.OrderGroupID,
		OrderGroup:   c.OrderGroup.Name,
		UnitTypeID:   c.UnitTypeID,
		UnitType:     c.UnitType.Name,
		Serial:       c.Serial,
		Contractor:   c.Contractor,
		Status:       c.Status,
		Active:       c.Active,
		ContractDate: c.ContractDate,
		TerminatedAt: c.TerminatedAt,
		Note:         c.Note,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}

	if c.KeyUnit != nil {
		resp.UnitCode = c.KeyUnit.UnitCode
		if c.KeyUnit.HouseUnit != nil {
			resp.HouseUnitName = c.KeyUnit.HouseUnit.Name()
		}
	}

	if c.ContractPrice != nil {
		priceResp := c.ContractPrice.ToResponse()
		resp.Price = &priceResp
	}

	return resp
}
