package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalogdomain "github.com/smallbiznis/doseplan/internal/catalog/domain"
	catalogrepository "github.com/smallbiznis/doseplan/internal/catalog/repository"
	catalogservice "github.com/smallbiznis/doseplan/internal/catalog/service"
	"github.com/smallbiznis/doseplan/internal/clock"
	medicationdomain "github.com/smallbiznis/doseplan/internal/medication/domain"
	medicationrepository "github.com/smallbiznis/doseplan/internal/medication/repository"
	medicationservice "github.com/smallbiznis/doseplan/internal/medication/service"
	"github.com/smallbiznis/doseplan/internal/observability/metrics"
	pharmacydomain "github.com/smallbiznis/doseplan/internal/pharmacy/domain"
	pharmacyrepository "github.com/smallbiznis/doseplan/internal/pharmacy/repository"
	pharmacyservice "github.com/smallbiznis/doseplan/internal/pharmacy/service"
	quotedomain "github.com/smallbiznis/doseplan/internal/quote/domain"
	"github.com/smallbiznis/doseplan/internal/titration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

var quoteNow = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

type quoteFixture struct {
	svc         quotedomain.Service
	pharmacySvc pharmacydomain.Service
	catalogSvc  catalogdomain.Service
}

func setupQuote(t *testing.T, dsn string) quoteFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&medicationdomain.Medication{},
		&pharmacydomain.Pharmacy{},
		&pharmacydomain.ShippingRule{},
		&catalogdomain.Product{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zaptest.NewLogger(t)

	medicationSvc := medicationservice.New(medicationservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  medicationrepository.Provide(),
	})
	pharmacySvc := pharmacyservice.New(pharmacyservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  pharmacyrepository.Provide(),
	})
	catalogSvc := catalogservice.New(catalogservice.Params{
		DB:            db,
		Log:           log,
		GenID:         node,
		Repo:          catalogrepository.Provide(),
		PharmacySvc:   pharmacySvc,
		MedicationSvc: medicationSvc,
	})

	m, err := metrics.New()
	require.NoError(t, err)

	svc := New(Params{
		Log:           log,
		Clock:         clock.NewFakeClock(quoteNow),
		Metrics:       m,
		MedicationSvc: medicationSvc,
		CatalogSvc:    catalogSvc,
	})

	_, err = medicationSvc.Create(context.Background(), medicationdomain.CreateRequest{
		Code:            "tirzepatide",
		Name:            "Tirzepatide",
		Form:            medicationdomain.Injectable,
		PeriodUnit:      medicationdomain.Week,
		TitrationPreset: titration.PresetMonthly,
	})
	require.NoError(t, err)

	return quoteFixture{svc: svc, pharmacySvc: pharmacySvc, catalogSvc: catalogSvc}
}

func (f quoteFixture) seedPharmacy(t *testing.T, name, slug string, skus ...catalogdomain.CreateRequest) *pharmacydomain.PharmacyResponse {
	t.Helper()
	ctx := context.Background()

	p, err := f.pharmacySvc.CreatePharmacy(ctx, pharmacydomain.CreatePharmacyRequest{Name: name, Slug: slug})
	require.NoError(t, err)

	for _, sku := range skus {
		sku.PharmacyID = p.ID.String()
		sku.MedicationCode = "tirzepatide"
		_, err := f.catalogSvc.Create(ctx, sku)
		require.NoError(t, err)
	}
	return p
}

func TestComputeStandardMonthlyQuote(t *testing.T) {
	f := setupQuote(t, "file:quote_standard?mode=memory&cache=shared")
	f.seedPharmacy(t, "Wellvi/Reviv", "wellvi", catalogdomain.CreateRequest{
		Name:            "Tirzepatide 10mg/ml 2ml",
		Concentration:   10,
		FillVolume:      2,
		UnitCost:        94,
		UnitRetailPrice: 349,
	})

	resp, err := f.svc.Compute(context.Background(), quotedomain.Request{
		MedicationCode:  "tirzepatide",
		DurationPeriods: 10,
		Mode:            quotedomain.StandardMonthly,
		StateCode:       "ca",
	})
	require.NoError(t, err)

	assert.Equal(t, "CA", resp.StateCode)
	assert.Equal(t, 45.0, resp.TotalDose)
	assert.Equal(t, quoteNow, resp.GeneratedAt)
	require.Len(t, resp.Plans, 1)

	plan := resp.Plans[0]
	assert.Equal(t, 10.0, plan.Concentration)
	assert.Equal(t, 4.5, plan.VolumeNeeded)
	// Two 2ml vials leave 0.5ml; the last SKU overshoots with a third.
	assert.Equal(t, 3, plan.Items[0].Quantity)
	assert.Equal(t, 282.0, plan.TotalCost)

	assert.Equal(t, 10.0, resp.SelectedConcentration)
	require.Len(t, resp.Schedule, 10)
	assert.Equal(t, 2.5, resp.Schedule[0].Dose)
	assert.Equal(t, 0.25, resp.Schedule[0].Volume)
	assert.Equal(t, 25.0, resp.Schedule[0].SyringeUnits)
	assert.Equal(t, 7.5, resp.Schedule[9].Dose)

	assert.Contains(t, resp.Summary, "Tirzepatide (tirzepatide)")
	assert.Contains(t, resp.Summary, "Total dose: 45.00 mg")
	assert.Contains(t, resp.Summary, "3 x Tirzepatide 10mg/ml 2ml (Wellvi/Reviv)")
	assert.Contains(t, resp.Summary, "Total cost: $282.00")
	assert.Empty(t, resp.Message)
}

func TestComputeCarriesCatalogIdentityIntoPlans(t *testing.T) {
	f := setupQuote(t, "file:quote_identity?mode=memory&cache=shared")
	pharmacy := f.seedPharmacy(t, "Wellvi/Reviv", "wellvi", catalogdomain.CreateRequest{
		Name:            "Tirzepatide 10mg/ml 2ml",
		Concentration:   10,
		FillVolume:      2,
		UnitCost:        94,
		UnitRetailPrice: 349,
	})

	resp, err := f.svc.Compute(context.Background(), quotedomain.Request{
		MedicationCode:  "tirzepatide",
		DurationPeriods: 4,
		Mode:            quotedomain.StandardMonthly,
		StateCode:       "CA",
	})
	require.NoError(t, err)
	require.Len(t, resp.Plans, 1)
	require.Len(t, resp.Plans[0].Items, 1)

	sku := resp.Plans[0].Items[0].SKU
	assert.Equal(t, int64(pharmacy.ID), sku.PharmacyID)
	assert.Equal(t, "Wellvi/Reviv", sku.PharmacyName)
	assert.Equal(t, "Tirzepatide 10mg/ml 2ml", sku.Name)
	assert.NotZero(t, sku.ID)
	assert.Equal(t, 2.0, sku.FillVolume)
	assert.Equal(t, 94.0, sku.UnitCost)
	assert.Equal(t, 349.0, sku.UnitRetailPrice)
}

func TestComputeRanksConcentrations(t *testing.T) {
	f := setupQuote(t, "file:quote_rank?mode=memory&cache=shared")
	f.seedPharmacy(t, "Wellvi/Reviv", "wellvi",
		catalogdomain.CreateRequest{
			Name:            "Tirzepatide 10mg/ml 2ml",
			Concentration:   10,
			FillVolume:      2,
			UnitCost:        94,
			UnitRetailPrice: 349,
		},
		catalogdomain.CreateRequest{
			Name:            "Tirzepatide 20mg/ml 3ml",
			Concentration:   20,
			FillVolume:      3,
			UnitCost:        169,
			UnitRetailPrice: 499,
		},
	)

	resp, err := f.svc.Compute(context.Background(), quotedomain.Request{
		MedicationCode:  "tirzepatide",
		DurationPeriods: 10,
		Mode:            quotedomain.StandardMonthly,
		StateCode:       "CA",
	})
	require.NoError(t, err)
	require.Len(t, resp.Plans, 2)

	// 45mg: 20mg/ml needs 2.25ml (one 3ml vial, 0.75ml over); 10mg/ml needs
	// 4.5ml (three 2ml vials, 1.5ml over).
	assert.Equal(t, 20.0, resp.Plans[0].Concentration)
	assert.Less(t, resp.Plans[0].Overage, resp.Plans[1].Overage)
	assert.Equal(t, 20.0, resp.SelectedConcentration)
}

func TestComputeSelectedConcentrationPinsSchedule(t *testing.T) {
	f := setupQuote(t, "file:quote_selected?mode=memory&cache=shared")
	f.seedPharmacy(t, "Wellvi/Reviv", "wellvi",
		catalogdomain.CreateRequest{
			Name:            "Tirzepatide 10mg/ml 2ml",
			Concentration:   10,
			FillVolume:      2,
			UnitCost:        94,
			UnitRetailPrice: 349,
		},
		catalogdomain.CreateRequest{
			Name:            "Tirzepatide 20mg/ml 3ml",
			Concentration:   20,
			FillVolume:      3,
			UnitCost:        169,
			UnitRetailPrice: 499,
		},
	)

	selected := 10.0
	resp, err := f.svc.Compute(context.Background(), quotedomain.Request{
		MedicationCode:        "tirzepatide",
		DurationPeriods:       4,
		Mode:                  quotedomain.StandardMonthly,
		StateCode:             "CA",
		SelectedConcentration: &selected,
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, resp.SelectedConcentration)
	assert.Equal(t, 0.25, resp.Schedule[0].Volume)

	missing := 16.6
	_, err = f.svc.Compute(context.Background(), quotedomain.Request{
		MedicationCode:        "tirzepatide",
		DurationPeriods:       4,
		Mode:                  quotedomain.StandardMonthly,
		StateCode:             "CA",
		SelectedConcentration: &missing,
	})
	assert.ErrorIs(t, err, quotedomain.ErrInvalidConcentration)
}

func TestComputeCustomModeBackfillsAndCoerces(t *testing.T) {
	f := setupQuote(t, "file:quote_custom?mode=memory&cache=shared")
	f.seedPharmacy(t, "Wellvi/Reviv", "wellvi", catalogdomain.CreateRequest{
		Name:            "Tirzepatide 10mg/ml 2ml",
		Concentration:   10,
		FillVolume:      2,
		UnitCost:        94,
		UnitRetailPrice: 349,
	})

	resp, err := f.svc.Compute(context.Background(), quotedomain.Request{
		MedicationCode:  "tirzepatide",
		DurationPeriods: 4,
		Mode:            quotedomain.Custom,
		CustomDoses:     []float64{5, -1},
		StateCode:       "CA",
	})
	require.NoError(t, err)

	// 5 + 0 (coerced) + 2.5 + 2.5 backfilled from the preset ladder.
	assert.Equal(t, 10.0, resp.TotalDose)
	assert.Equal(t, 5.0, resp.Schedule[0].Dose)
	assert.Equal(t, 0.0, resp.Schedule[1].Dose)
	assert.Equal(t, 2.5, resp.Schedule[2].Dose)
}

func TestComputeZeroDoseSkipsFulfillment(t *testing.T) {
	f := setupQuote(t, "file:quote_zero?mode=memory&cache=shared")

	resp, err := f.svc.Compute(context.Background(), quotedomain.Request{
		MedicationCode:  "tirzepatide",
		DurationPeriods: 3,
		Mode:            quotedomain.Custom,
		CustomDoses:     []float64{0, 0, 0},
		StateCode:       "CA",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Plans)
	assert.NotEmpty(t, resp.Message)
	assert.Empty(t, resp.Summary)
}

func TestComputeNoEligibleProducts(t *testing.T) {
	f := setupQuote(t, "file:quote_empty?mode=memory&cache=shared")

	allowListed := f.seedPharmacy(t, "Wells FL", "wells-fl", catalogdomain.CreateRequest{
		Name:            "Tirzepatide 10mg/ml 2ml",
		Concentration:   10,
		FillVolume:      2,
		UnitCost:        264,
		UnitRetailPrice: 264,
	})
	_, err := f.pharmacySvc.UpsertShippingRule(context.Background(), pharmacydomain.UpsertRuleRequest{
		PharmacyID: allowListed.ID.String(),
		StateCode:  "FL",
		CanShip:    true,
	})
	require.NoError(t, err)

	resp, err := f.svc.Compute(context.Background(), quotedomain.Request{
		MedicationCode:  "tirzepatide",
		DurationPeriods: 4,
		Mode:            quotedomain.StandardMonthly,
		StateCode:       "TX",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Plans)
	assert.True(t, strings.Contains(resp.Message, "no products"))
}

func TestComputeRequestValidation(t *testing.T) {
	f := setupQuote(t, "file:quote_invalid?mode=memory&cache=shared")
	ctx := context.Background()

	_, err := f.svc.Compute(ctx, quotedomain.Request{
		MedicationCode:  "tirzepatide",
		DurationPeriods: 0,
		StateCode:       "CA",
	})
	assert.ErrorIs(t, err, quotedomain.ErrInvalidDuration)

	_, err = f.svc.Compute(ctx, quotedomain.Request{
		MedicationCode:  "unknown",
		DurationPeriods: 4,
		StateCode:       "CA",
	})
	assert.ErrorIs(t, err, quotedomain.ErrInvalidMedication)

	_, err = f.svc.Compute(ctx, quotedomain.Request{
		MedicationCode:  "tirzepatide",
		DurationPeriods: 4,
		Mode:            "bogus",
		StateCode:       "CA",
	})
	assert.ErrorIs(t, err, quotedomain.ErrInvalidMode)

	_, err = f.svc.Compute(ctx, quotedomain.Request{
		MedicationCode:  "tirzepatide",
		DurationPeriods: 4,
		Mode:            quotedomain.StandardMonthly,
		StateCode:       "CALI",
	})
	assert.ErrorIs(t, err, quotedomain.ErrInvalidState)
}
