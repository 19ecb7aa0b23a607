package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Form describes how a medication is administered.
type Form string

var (
	Injectable Form = "INJECTABLE"
	Topical    Form = "TOPICAL"
)

// PeriodUnit is the dosing interval a schedule counts in.
type PeriodUnit string

var (
	Week PeriodUnit = "WEEK"
	Day  PeriodUnit = "DAY"
)

type Medication struct {
	ID              snowflake.ID `json:"id" gorm:"primaryKey"`
	Code            string       `json:"code" gorm:"type:text;not null;uniqueIndex"`
	Name            string       `json:"name" gorm:"type:text;not null"`
	Form            Form         `json:"form" gorm:"type:text;not null"`
	PeriodUnit      PeriodUnit   `json:"period_unit" gorm:"type:text;not null"`
	TitrationPreset string       `json:"titration_preset" gorm:"type:text;not null"`
	Active          bool         `json:"active" gorm:"not null;default:true"`
	CreatedAt       time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Medication) TableName() string { return "medications" }
