package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	pharmacydomain "github.com/smallbiznis/doseplan/internal/pharmacy/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() pharmacydomain.Repository {
	return &repo{}
}

func (r *repo) InsertPharmacy(ctx context.Context, db *gorm.DB, p *pharmacydomain.Pharmacy) error {
	return db.WithContext(ctx).Create(p).Error
}

func (r *repo) FindPharmacyByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*pharmacydomain.Pharmacy, error) {
	var p pharmacydomain.Pharmacy
	err := db.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) ListPharmacies(ctx context.Context, db *gorm.DB) ([]pharmacydomain.Pharmacy, error) {
	var items []pharmacydomain.Pharmacy
	err := db.WithContext(ctx).Order("name ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpsertRule(ctx context.Context, db *gorm.DB, rule *pharmacydomain.ShippingRule) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pharmacy_id"}, {Name: "state_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"can_ship", "notes", "updated_at"}),
	}).Create(rule).Error
}

func (r *repo) ListRulesByPharmacy(ctx context.Context, db *gorm.DB, pharmacyID snowflake.ID) ([]pharmacydomain.ShippingRule, error) {
	var items []pharmacydomain.ShippingRule
	err := db.WithContext(ctx).
		Where("pharmacy_id = ?", pharmacyID).
		Order("state_code ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListRules(ctx context.Context, db *gorm.DB) ([]pharmacydomain.ShippingRule, error) {
	var items []pharmacydomain.ShippingRule
	err := db.WithContext(ctx).Order("pharmacy_id ASC, state_code ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
