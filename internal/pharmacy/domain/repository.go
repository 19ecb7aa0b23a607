package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertPharmacy(ctx context.Context, db *gorm.DB, pharmacy *Pharmacy) error
	FindPharmacyByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Pharmacy, error)
	ListPharmacies(ctx context.Context, db *gorm.DB) ([]Pharmacy, error)
	UpsertRule(ctx context.Context, db *gorm.DB, rule *ShippingRule) error
	ListRulesByPharmacy(ctx context.Context, db *gorm.DB, pharmacyID snowflake.ID) ([]ShippingRule, error)
	ListRules(ctx context.Context, db *gorm.DB) ([]ShippingRule, error)
}
