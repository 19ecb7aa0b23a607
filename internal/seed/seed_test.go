package seed

import (
	"testing"

	"github.com/glebarez/sqlite"
	catalogdomain "github.com/smallbiznis/doseplan/internal/catalog/domain"
	medicationdomain "github.com/smallbiznis/doseplan/internal/medication/domain"
	pharmacydomain "github.com/smallbiznis/doseplan/internal/pharmacy/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:seed_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&medicationdomain.Medication{},
		&pharmacydomain.Pharmacy{},
		&pharmacydomain.ShippingRule{},
		&catalogdomain.Product{},
	))
	return db
}

func TestEnsureBaselineIsIdempotent(t *testing.T) {
	db := setupDB(t)

	require.NoError(t, EnsureBaseline(db))
	require.NoError(t, EnsureBaseline(db))

	var medications int64
	db.Model(&medicationdomain.Medication{}).Count(&medications)
	assert.Equal(t, int64(1), medications)

	var pharmacies int64
	db.Model(&pharmacydomain.Pharmacy{}).Count(&pharmacies)
	assert.Equal(t, int64(len(basePharmacies)), pharmacies)

	var products int64
	db.Model(&catalogdomain.Product{}).Count(&products)
	want := 0
	for _, p := range basePharmacies {
		want += len(p.SKUs)
	}
	assert.Equal(t, int64(want), products)
}

func TestEnsureBaselineRequiresHandle(t *testing.T) {
	assert.Error(t, EnsureBaseline(nil))
}
