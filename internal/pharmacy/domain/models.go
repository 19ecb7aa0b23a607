package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Pharmacy struct {
	ID        snowflake.ID      `json:"id" gorm:"primaryKey"`
	Name      string            `json:"name" gorm:"type:text;not null"`
	Slug      string            `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Active    bool              `json:"active" gorm:"not null;default:true"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Pharmacy) TableName() string { return "pharmacies" }

// ShippingRule is an explicit per-state verdict for one pharmacy.
type ShippingRule struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	PharmacyID snowflake.ID `json:"pharmacy_id" gorm:"column:pharmacy_id;not null;index;uniqueIndex:idx_pharmacy_state"`
	StateCode  string       `json:"state_code" gorm:"type:text;not null;uniqueIndex:idx_pharmacy_state"`
	CanShip    bool         `json:"can_ship" gorm:"not null"`
	Notes      *string      `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt  time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ShippingRule) TableName() string { return "shipping_rules" }

// CanShipTo resolves a pharmacy's verdict for a state from its full rule set.
//
// An explicit rule for the state wins. With no explicit rule, a pharmacy that
// has declared at least one positive rule anywhere is treated as
// allow-list-only and cannot ship; a pharmacy with zero positive rules ships
// by default.
func CanShipTo(rules []ShippingRule, stateCode string) bool {
	hasAllowList := false
	for _, r := range rules {
		if r.StateCode == stateCode {
			return r.CanShip
		}
		if r.CanShip {
			hasAllowList = true
		}
	}
	return !hasAllowList
}
