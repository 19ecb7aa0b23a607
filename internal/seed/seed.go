// Package seed provisions the baseline catalog so a fresh install can quote
// immediately, mirroring the pharmacy price lists the product launched with.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/doseplan/internal/catalog/domain"
	medicationdomain "github.com/smallbiznis/doseplan/internal/medication/domain"
	pharmacydomain "github.com/smallbiznis/doseplan/internal/pharmacy/domain"
	"github.com/smallbiznis/doseplan/internal/titration"
	"gorm.io/gorm"
)

const (
	defaultMedicationCode = "tirzepatide"
	defaultMedicationName = "Tirzepatide"
)

type seedSKU struct {
	Name          string
	Concentration float64
	FillVolume    float64
	UnitCost      float64
	RetailPrice   float64
}

type seedPharmacy struct {
	Name string
	Slug string
	SKUs []seedSKU
}

var basePharmacies = []seedPharmacy{
	{
		Name: "Wellvi/Reviv", Slug: "wellvi",
		SKUs: []seedSKU{
			{"Tirzepatide 10mg/ml 1ml", 10, 1, 74, 74},
			{"Tirzepatide 10mg/ml 2ml", 10, 2, 94, 94},
			{"Tirzepatide 10mg/ml 3ml", 10, 3, 105, 105},
			{"Tirzepatide 20mg/ml 2ml", 20, 2, 120, 120},
			{"Tirzepatide 20mg/ml 3ml", 20, 3, 169, 169},
		},
	},
	{
		Name: "Wells FL", Slug: "wells-fl",
		SKUs: []seedSKU{
			{"Tirzepatide 10mg/ml 2ml", 10, 2, 264, 264},
			{"Tirzepatide 16.6mg/ml 2ml", 16.6, 2, 264, 264},
			{"Tirzepatide 16.6mg/ml 4.5ml", 16.6, 4.5, 491, 491},
		},
	},
	{
		Name: "Wells TX", Slug: "wells-tx",
		SKUs: []seedSKU{
			{"Tirzepatide 16.6mg/ml 2ml", 16.6, 2, 264, 264},
			{"Tirzepatide 16.6mg/ml 4.5ml", 16.6, 4.5, 491, 491},
		},
	},
	{
		Name: "Brooksville", Slug: "brooksville",
		SKUs: []seedSKU{
			{"Tirzepatide 10mg/ml 2ml", 10, 2, 200, 200},
		},
	},
	{
		Name: "Hallandale", Slug: "hallandale",
		SKUs: []seedSKU{
			{"Tirzepatide 10mg/ml 2ml", 10, 2, 187.50, 187.50},
			{"Tirzepatide 10mg/ml 3ml", 10, 3, 250, 250},
		},
	},
	{
		Name: "Hometown", Slug: "hometown",
		SKUs: []seedSKU{
			{"Tirzepatide 17mg/ml 2ml", 17, 2, 246.82, 246.82},
			{"Tirzepatide 17mg/ml 4ml", 17, 4, 447.37, 447.37},
		},
	},
	{
		Name: "Empower", Slug: "empower",
		SKUs: []seedSKU{
			{"Tirzepatide 17mg/ml 2ml", 17, 2, 246.82, 246.82},
			{"Tirzepatide 17mg/ml 4ml", 17, 4, 447.37, 447.37},
		},
	},
	{Name: "SouthLake", Slug: "southlake"},
	{Name: "CRE8", Slug: "cre8"},
}

// EnsureBaseline seeds the default medication, pharmacies and their price
// lists. Existing rows are left untouched, so the seed is safe on restart.
func EnsureBaseline(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureMedicationTx(ctx, tx, node); err != nil {
			return err
		}
		for _, p := range basePharmacies {
			if err := ensurePharmacyTx(ctx, tx, node, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureMedicationTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var existing medicationdomain.Medication
	err := tx.WithContext(ctx).Where("code = ?", defaultMedicationCode).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	return tx.WithContext(ctx).Create(&medicationdomain.Medication{
		ID:              node.Generate(),
		Code:            defaultMedicationCode,
		Name:            defaultMedicationName,
		Form:            medicationdomain.Injectable,
		PeriodUnit:      medicationdomain.Week,
		TitrationPreset: titration.PresetMonthly,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}).Error
}

func ensurePharmacyTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, p seedPharmacy) error {
	var existing pharmacydomain.Pharmacy
	err := tx.WithContext(ctx).Where("slug = ?", p.Slug).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	pharmacy := pharmacydomain.Pharmacy{
		ID:        node.Generate(),
		Name:      p.Name,
		Slug:      p.Slug,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&pharmacy).Error; err != nil {
		return err
	}

	for _, s := range p.SKUs {
		product := catalogdomain.Product{
			ID:              node.Generate(),
			PharmacyID:      pharmacy.ID,
			MedicationCode:  defaultMedicationCode,
			Name:            s.Name,
			Concentration:   s.Concentration,
			FillVolume:      s.FillVolume,
			UnitCost:        s.UnitCost,
			UnitRetailPrice: s.RetailPrice,
			Active:          true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.WithContext(ctx).Create(&product).Error; err != nil {
			return err
		}
	}
	return nil
}
