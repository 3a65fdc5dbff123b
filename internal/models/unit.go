package models

import (
	"time"
)

// KeyUnit is the abstract unit slot a contract binds to. It may or may not
// have a physical house unit assigned yet.
type KeyUnit struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProjectID  uint      `gorm:"not null;index" json:"project_id"`
	UnitTypeID uint      `gorm:"not null;index" json:"unit_type_id"`
	UnitCode   string    `gorm:"not null;index" json:"unit_code"`
	ContractID *uint     `gorm:"uniqueIndex" json:"contract_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Associations
	Project   Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UnitType  UnitType   `gorm:"foreignKey:UnitTypeID" json:"unit_type,omitempty"`
	HouseUnit *HouseUnit `gorm:"foreignKey:KeyUnitID" json:"house_unit,omitempty"`
}

// TableName specifies the table name for KeyUnit
func (KeyUnit) TableName() string {
	return "key_units"
}

// HouseUnit is a physical unit (building/floor/room) in a project
type HouseUnit struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectID   uint      `gorm:"not null;index" json:"project_id"`
	UnitTypeID  uint      `gorm:"not null;index" json:"unit_type_id"`
	FloorTypeID *uint     `gorm:"index" json:"floor_type_id"`
	KeyUnitID   *uint     `gorm:"uniqueIndex" json:"key_unit_id"`
	BldgNo      string    `json:"bldg_no"`
	HohoNo      string    `json:"hoho_no"`
	FloorNo     int       `json:"floor_no"`
	IsHold      bool      `gorm:"default:false" json:"is_hold"`
	HoldReason  *string   `gorm:"type:text" json:"hold_reason"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Project   Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UnitType  UnitType   `gorm:"foreignKey:UnitTypeID" json:"unit_type,omitempty"`
	FloorType *FloorType `gorm:"foreignKey:FloorTypeID" json:"floor_type,omitempty"`
}

// TableName specifies the table name for HouseUnit
func (HouseUnit) TableName() string {
	return "house_units"
}

// Name returns the display name of the unit (building-room)
func (h *HouseUnit) Name() string {
	if h.BldgNo == "" {
		return h.HohoNo
	}
	return h.BldgNo + "-" + h.HohoNo
}
