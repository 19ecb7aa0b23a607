package repository

import (
	"context"
	"strings"

	medicationdomain "github.com/smallbiznis/doseplan/internal/medication/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() medicationdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, m *medicationdomain.Medication) error {
	return db.WithContext(ctx).Create(m).Error
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*medicationdomain.Medication, error) {
	var m medicationdomain.Medication
	err := db.WithContext(ctx).Where("code = ?", strings.TrimSpace(code)).Take(&m).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]medicationdomain.Medication, error) {
	var items []medicationdomain.Medication
	err := db.WithContext(ctx).Order("code ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
