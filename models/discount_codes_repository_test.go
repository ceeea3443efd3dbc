package models_test

import (
	"testing"

	"github.com/arenashop/storefront/database/dbtest"
	"github.com/arenashop/storefront/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountCodesRepository(t *testing.T) {
	ctx := t.Context()
	db := dbtest.Open(t)
	repo := models.NewDiscountCodesRepository(db)

	dc := &models.DiscountCode{Code: " eid25 ", Kind: models.DiscountPercentage, Value: decimal.NewFromInt(25), Active: true}
	require.NoError(t, repo.CreateDiscountCode(ctx, dc))
	assert.Equal(t, "EID25", dc.Code)

	err := repo.CreateDiscountCode(ctx, &models.DiscountCode{Code: "Eid25", Kind: models.DiscountFixed, Value: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, models.ErrDuplicateCode, "codes are unique regardless of case")

	require.NoError(t, db.Model(&models.DiscountCode{}).Where("code = ?", "EID25").Update("used_count", 7).Error)

	limit := 100
	updated, err := repo.UpdateDiscountCode(ctx, "eid25", &models.DiscountCode{
		Kind: models.DiscountFixed, Value: decimal.NewFromInt(30), MaxUses: &limit, Active: false,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.UsedCount, "usage is kept across edits")
	assert.Equal(t, 93, updated.RemainingUses())

	stored, err := repo.GetDiscountCode(ctx, "EID25")
	require.NoError(t, err)
	assert.False(t, stored.Active)
	assert.Equal(t, models.DiscountFixed, stored.Kind)
	assert.True(t, stored.Value.Equal(decimal.NewFromInt(30)))

	all, err := repo.ListDiscountCodes(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.DeleteDiscountCode(ctx, "eid25"))
	_, err = repo.GetDiscountCode(ctx, "EID25")
	assert.ErrorIs(t, err, models.ErrDiscountNotFound)
	assert.ErrorIs(t, repo.DeleteDiscountCode(ctx, "eid25"), models.ErrDiscountNotFound)
	_, err = repo.UpdateDiscountCode(ctx, "eid25", &models.DiscountCode{})
	assert.ErrorIs(t, err, models.ErrDiscountNotFound)
}
