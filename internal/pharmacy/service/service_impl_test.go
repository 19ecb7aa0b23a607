package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	pharmacydomain "github.com/smallbiznis/doseplan/internal/pharmacy/domain"
	"github.com/smallbiznis/doseplan/internal/pharmacy/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func setupService(t *testing.T, dsn string) pharmacydomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&pharmacydomain.Pharmacy{}, &pharmacydomain.ShippingRule{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zaptest.NewLogger(t),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestCreatePharmacyValidation(t *testing.T) {
	svc := setupService(t, "file:pharmacy_create?mode=memory&cache=shared")
	ctx := context.Background()

	_, err := svc.CreatePharmacy(ctx, pharmacydomain.CreatePharmacyRequest{Slug: "x"})
	assert.ErrorIs(t, err, pharmacydomain.ErrInvalidName)

	_, err = svc.CreatePharmacy(ctx, pharmacydomain.CreatePharmacyRequest{Name: "X"})
	assert.ErrorIs(t, err, pharmacydomain.ErrInvalidSlug)

	created, err := svc.CreatePharmacy(ctx, pharmacydomain.CreatePharmacyRequest{
		Name: "Hallandale",
		Slug: "Hallandale",
	})
	require.NoError(t, err)
	assert.Equal(t, "hallandale", created.Slug)
	assert.True(t, created.Active)
}

func TestCreatePharmacyDuplicateSlug(t *testing.T) {
	svc := setupService(t, "file:pharmacy_duplicate?mode=memory&cache=shared")
	ctx := context.Background()

	_, err := svc.CreatePharmacy(ctx, pharmacydomain.CreatePharmacyRequest{Name: "Empower", Slug: "empower"})
	require.NoError(t, err)

	// The slug is normalized before insert, so casing does not dodge the
	// unique index.
	_, err = svc.CreatePharmacy(ctx, pharmacydomain.CreatePharmacyRequest{Name: "Empower Two", Slug: "EMPOWER"})
	assert.ErrorIs(t, err, pharmacydomain.ErrDuplicateSlug)
}

func TestEligibilityAllowListAndOpenWorld(t *testing.T) {
	svc := setupService(t, "file:pharmacy_eligibility?mode=memory&cache=shared")
	ctx := context.Background()

	listed, err := svc.CreatePharmacy(ctx, pharmacydomain.CreatePharmacyRequest{Name: "Wells FL", Slug: "wells-fl"})
	require.NoError(t, err)
	open, err := svc.CreatePharmacy(ctx, pharmacydomain.CreatePharmacyRequest{Name: "Empower", Slug: "empower"})
	require.NoError(t, err)

	_, err = svc.UpsertShippingRule(ctx, pharmacydomain.UpsertRuleRequest{
		PharmacyID: listed.ID.String(),
		StateCode:  "ca",
		CanShip:    true,
	})
	require.NoError(t, err)

	verdicts, err := svc.Eligibility(ctx, "CA")
	require.NoError(t, err)
	require.Len(t, verdicts, 2)
	for _, v := range verdicts {
		assert.True(t, v.CanShip, v.PharmacyName)
	}

	// Unlisted state: the allow-list pharmacy is closed, the rule-free one open.
	verdicts, err = svc.Eligibility(ctx, "NY")
	require.NoError(t, err)
	byID := map[snowflake.ID]bool{}
	for _, v := range verdicts {
		byID[v.PharmacyID] = v.CanShip
	}
	assert.False(t, byID[listed.ID])
	assert.True(t, byID[open.ID])

	eligible, err := svc.EligiblePharmacyIDs(ctx, "NY")
	require.NoError(t, err)
	assert.False(t, eligible[listed.ID])
	assert.True(t, eligible[open.ID])
}

func TestUpsertShippingRuleReplacesVerdict(t *testing.T) {
	svc := setupService(t, "file:pharmacy_upsert?mode=memory&cache=shared")
	ctx := context.Background()

	p, err := svc.CreatePharmacy(ctx, pharmacydomain.CreatePharmacyRequest{Name: "Hometown", Slug: "hometown"})
	require.NoError(t, err)

	_, err = svc.UpsertShippingRule(ctx, pharmacydomain.UpsertRuleRequest{
		PharmacyID: p.ID.String(),
		StateCode:  "TX",
		CanShip:    true,
	})
	require.NoError(t, err)

	_, err = svc.UpsertShippingRule(ctx, pharmacydomain.UpsertRuleRequest{
		PharmacyID: p.ID.String(),
		StateCode:  "TX",
		CanShip:    false,
	})
	require.NoError(t, err)

	rules, err := svc.ListShippingRules(ctx, p.ID.String())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.False(t, rules[0].CanShip)
}

func TestEligibilityRejectsBadState(t *testing.T) {
	svc := setupService(t, "file:pharmacy_state?mode=memory&cache=shared")

	_, err := svc.Eligibility(context.Background(), "CAL")
	assert.ErrorIs(t, err, pharmacydomain.ErrInvalidState)

	_, err = svc.Eligibility(context.Background(), "")
	assert.ErrorIs(t, err, pharmacydomain.ErrInvalidState)
}

func TestInactivePharmacyNeverShips(t *testing.T) {
	svc := setupService(t, "file:pharmacy_inactive?mode=memory&cache=shared")
	ctx := context.Background()

	inactive := false
	p, err := svc.CreatePharmacy(ctx, pharmacydomain.CreatePharmacyRequest{
		Name:   "CRE8",
		Slug:   "cre8",
		Active: &inactive,
	})
	require.NoError(t, err)

	verdicts, err := svc.Eligibility(ctx, "CA")
	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	assert.Equal(t, p.ID, verdicts[0].PharmacyID)
	assert.False(t, verdicts[0].CanShip)
}
