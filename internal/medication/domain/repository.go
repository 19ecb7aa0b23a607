package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, medication *Medication) error
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Medication, error)
	List(ctx context.Context, db *gorm.DB) ([]Medication, error)
}
