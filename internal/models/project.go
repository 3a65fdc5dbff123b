package models

import (
	"time"
)

// Project represents a real estate development project
type Project struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Kind           string    `gorm:"default:apartment" json:"kind"`
	Address        string    `json:"address"`
	StartYear      int       `json:"start_year"`
	IsDirectManage bool      `gorm:"default:false" json:"is_direct_manage"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Associations
	OrderGroups       []OrderGroup       `gorm:"foreignKey:ProjectID" json:"order_groups,omitempty"`
	UnitTypes         []UnitType         `gorm:"foreignKey:ProjectID" json:"unit_types,omitempty"`
	InstallmentOrders []InstallmentOrder `gorm:"foreignKey:ProjectID" json:"installment_orders,omitempty"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// OrderGroup represents a subscription/sale phase grouping contracts
// under a shared pricing and installment schedule
type OrderGroup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	Name      string    `gorm:"not null" json:"name"`
	SortCode  string    `gorm:"default:sale" json:"sort_code"` // subscription, sale
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// TableName specifies the table name for OrderGroup
func (OrderGroup) TableName() string {
	return "order_groups"
}

// UnitType represents a unit classification (e.g. 84A) within a project
type UnitType struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProjectID    uint      `gorm:"not null;index" json:"project_id"`
	Name         string    `gorm:"not null" json:"name"`
	Sort         string    `gorm:"default:residential" json:"sort"`
	AveragePrice *int64    `gorm:"type:bigint" json:"average_price"`
	NumUnit      int       `json:"num_unit"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// TableName specifies the table name for UnitType
func (UnitType) TableName() string {
	return "unit_types"
}

// FloorType represents a floor band (e.g. low, mid, royal) used to key
// explicit sales prices
type FloorType struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProjectID  uint      `gorm:"not null;index" json:"project_id"`
	StartFloor int       `json:"start_floor"`
	EndFloor   int       `json:"end_floor"`
	Alias      string    `gorm:"not null" json:"alias"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// TableName specifies the table name for FloorType
func (FloorType) TableName() string {
	return "floor_types"
}

// ProjectBudget holds the projected average sale price per
// (project, order group, unit type), used as a pricing fallback when a
// contract has no assigned house unit yet
type ProjectBudget struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProjectID    uint      `gorm:"not null;index" json:"project_id"`
	OrderGroupID uint      `gorm:"not null;index" json:"order_group_id"`
	UnitTypeID   uint      `gorm:"not null;index" json:"unit_type_id"`
	AveragePrice *int64    `gorm:"type:bigint" json:"average_price"`
	Quantity     int       `json:"quantity"`
	BudgetAmount int64     `gorm:"type:bigint;default:0" json:"budget_amount"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Project    Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	OrderGroup OrderGroup `gorm:"foreignKey:OrderGroupID" json:"order_group,omitempty"`
	UnitType   UnitType   `gorm:"foreignKey:UnitTypeID" json:"unit_type,omitempty"`
}

// TableName specifies the table name for ProjectBudget
func (ProjectBudget) TableName() string {
	return "project_budgets"
}
