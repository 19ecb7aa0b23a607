package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Product is one purchasable pharmacy SKU (vial or dispenser).
type Product struct {
	ID              snowflake.ID      `json:"id" gorm:"primaryKey"`
	PharmacyID      snowflake.ID      `json:"pharmacy_id" gorm:"column:pharmacy_id;not null;index"`
	MedicationCode  string            `json:"medication_code" gorm:"type:text;not null;index"`
	Name            string            `json:"name" gorm:"type:text;not null"`
	Concentration   float64           `json:"concentration" gorm:"type:numeric;not null"`
	FillVolume      float64           `json:"fill_volume" gorm:"type:numeric;not null"`
	UnitCost        float64           `json:"unit_cost" gorm:"type:numeric;not null"`
	UnitRetailPrice float64           `json:"unit_retail_price" gorm:"type:numeric;not null"`
	Active          bool              `json:"active" gorm:"not null;default:true"`
	Metadata        datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt       time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

// Item is a catalog row joined with its pharmacy name, the shape handed to
// the optimizer and to API consumers.
type Item struct {
	Product
	PharmacyName string `json:"pharmacy_name" gorm:"column:pharmacy_name"`
}

// Validate enforces the catalog-boundary invariants the optimizer relies on.
func Validate(p *Product) error {
	if p.Name == "" {
		return ErrInvalidName
	}
	if p.Concentration <= 0 {
		return ErrInvalidConcentration
	}
	if p.FillVolume <= 0 {
		return ErrInvalidFillVolume
	}
	if p.UnitCost < 0 {
		return ErrInvalidUnitCost
	}
	if p.UnitRetailPrice < 0 {
		return ErrInvalidRetailPrice
	}
	return nil
}
