package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/doseplan/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() catalogdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, p *catalogdomain.Product) error {
	return db.WithContext(ctx).Create(p).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*catalogdomain.Product, error) {
	var p catalogdomain.Product
	err := db.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) ListActiveByMedication(ctx context.Context, db *gorm.DB, medicationCode string) ([]catalogdomain.Item, error) {
	var items []catalogdomain.Item
	err := db.WithContext(ctx).Raw(
		`SELECT p.id, p.pharmacy_id, p.medication_code, p.name,
		 p.concentration, p.fill_volume, p.unit_cost, p.unit_retail_price,
		 p.active, p.created_at, p.updated_at,
		 ph.name AS pharmacy_name
		 FROM products p
		 JOIN pharmacies ph ON ph.id = p.pharmacy_id
		 WHERE p.active = ? AND ph.active = ? AND p.medication_code = ?
		 ORDER BY p.concentration ASC, p.fill_volume DESC, p.id ASC`,
		true, true, strings.TrimSpace(medicationCode),
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
