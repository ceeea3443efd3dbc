package models_test

import (
	"testing"

	"github.com/arenashop/storefront/database/dbtest"
	"github.com/arenashop/storefront/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productCodes(products []models.Product) []string {
	codes := make([]string, len(products))
	for i, p := range products {
		codes[i] = p.Code
	}
	return codes
}

func TestProductsRepository_GetFilteredProducts(t *testing.T) {
	db := dbtest.Seeded(t)
	repo := models.NewProductsRepository(db)

	bundle := newProduct("gift_bundle")
	bundle.Kind = models.KindDigital
	require.NoError(t, repo.CreateProduct(t.Context(), bundle, "gift-cards"))

	retired := newProduct("ps4-pro")
	retired.Active = false
	require.NoError(t, repo.CreateProduct(t.Context(), retired, "consoles"))

	price := func(v float64) *float64 { return &v }

	testCases := []struct {
		name          string
		filters       models.ProductFilters
		expectedCodes []string
	}{
		{
			name:          "No filters hides inactive products",
			expectedCodes: []string{"ps5-slim", "psn-card", "steam-wallet", "dualsense-white", "xbox-series-x", "gift_bundle"},
		},
		{
			name:          "Inactive products for admin",
			filters:       models.ProductFilters{CategoryCode: "consoles", IncludeInactive: true},
			expectedCodes: []string{"ps5-slim", "xbox-series-x", "ps4-pro"},
		},
		{
			name:          "Category",
			filters:       models.ProductFilters{CategoryCode: "consoles"},
			expectedCodes: []string{"ps5-slim", "xbox-series-x"},
		},
		{
			name:          "Platform ignores case",
			filters:       models.ProductFilters{Platform: "playstation"},
			expectedCodes: []string{"ps5-slim", "psn-card", "dualsense-white"},
		},
		{
			name:          "Kind",
			filters:       models.ProductFilters{Kind: models.KindDigital},
			expectedCodes: []string{"psn-card", "steam-wallet", "gift_bundle"},
		},
		{
			name:          "Search by English name",
			filters:       models.ProductFilters{Search: "SLIM"},
			expectedCodes: []string{"ps5-slim"},
		},
		{
			name:          "Search by Arabic name",
			filters:       models.ProductFilters{Search: "ستيم"},
			expectedCodes: []string{"steam-wallet"},
		},
		{
			name:          "Underscore is matched literally",
			filters:       models.ProductFilters{Search: "_"},
			expectedCodes: []string{"gift_bundle"},
		},
		{
			name:          "Percent sign is matched literally",
			filters:       models.ProductFilters{Search: "%"},
			expectedCodes: []string{},
		},
		{
			name:          "Price below",
			filters:       models.ProductFilters{PriceLessThan: price(100)},
			expectedCodes: []string{"psn-card", "steam-wallet"},
		},
		{
			name:          "Featured only",
			filters:       models.ProductFilters{FeaturedOnly: true},
			expectedCodes: []string{"ps5-slim"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			products, total, err := repo.GetFilteredProducts(t.Context(), 0, 50, tc.filters)

			require.NoError(t, err)
			assert.Equal(t, int64(len(tc.expectedCodes)), total)
			assert.ElementsMatch(t, tc.expectedCodes, productCodes(products))
			for _, p := range products {
				assert.NotEmpty(t, p.Category.Code, "category is preloaded")
			}
		})
	}
}

func TestProductsRepository_GetFilteredProductsPaginates(t *testing.T) {
	repo := models.NewProductsRepository(dbtest.Seeded(t))

	page, total, err := repo.GetFilteredProducts(t.Context(), 0, 2, models.ProductFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, "ps5-slim", page[0].Code, "featured products come first")

	rest, _, err := repo.GetFilteredProducts(t.Context(), 2, 10, models.ProductFilters{})
	require.NoError(t, err)
	assert.Len(t, rest, 3)
	assert.NotContains(t, productCodes(rest), page[1].Code)
}

func TestProductsRepository_CreateProduct(t *testing.T) {
	ctx := t.Context()
	repo := models.NewProductsRepository(dbtest.Seeded(t))

	hidden := newProduct("switch-oled")
	hidden.Active = false
	hidden.Variants = []models.Variant{{Name: "Neon", SKU: "NSW-OLED-NEON"}}
	require.NoError(t, repo.CreateProduct(ctx, hidden, "consoles"))

	stored, err := repo.GetByCode(ctx, "switch-oled")
	require.NoError(t, err)
	assert.False(t, stored.Active, "inactive products are stored inactive")
	assert.Equal(t, "consoles", stored.Category.Code)
	require.Len(t, stored.Variants, 1)
	assert.True(t, stored.Variants[0].PriceFor(stored).Equal(decimal.NewFromInt(249)))

	err = repo.CreateProduct(ctx, newProduct("ps5-slim"), "consoles")
	assert.ErrorIs(t, err, models.ErrDuplicateCode)

	err = repo.CreateProduct(ctx, newProduct("mystery"), "missing")
	assert.ErrorIs(t, err, models.ErrCategoryNotFound)
}

func TestProductsRepository_UpdateProduct(t *testing.T) {
	ctx := t.Context()
	repo := models.NewProductsRepository(dbtest.Seeded(t))

	current, err := repo.GetByCode(ctx, "psn-card")
	require.NoError(t, err)
	require.Len(t, current.Variants, 3)

	edit := *current
	edit.Name = "PSN Card"
	edit.Variants = nil
	updated, err := repo.UpdateProduct(ctx, "psn-card", &edit, "")
	require.NoError(t, err)
	assert.Equal(t, "PSN Card", updated.Name)
	assert.Len(t, updated.Variants, 3, "variants are kept when not given")
	assert.Equal(t, "gift-cards", updated.Category.Code)

	edit.Variants = []models.Variant{{Name: "50 SAR", SKU: "PSN-SA-50"}}
	updated, err = repo.UpdateProduct(ctx, "psn-card", &edit, "games")
	require.NoError(t, err)
	require.Len(t, updated.Variants, 1, "given variants replace the stored ones")
	assert.Equal(t, "PSN-SA-50", updated.Variants[0].SKU)
	assert.Equal(t, "games", updated.Category.Code)

	_, err = repo.UpdateProduct(ctx, "missing", &edit, "")
	assert.ErrorIs(t, err, models.ErrProductNotFound)

	_, err = repo.UpdateProduct(ctx, "psn-card", &edit, "missing")
	assert.ErrorIs(t, err, models.ErrCategoryNotFound)
}

func TestProductsRepository_UpdateDescription(t *testing.T) {
	ctx := t.Context()
	repo := models.NewProductsRepository(dbtest.Seeded(t))

	require.NoError(t, repo.UpdateDescription(ctx, "steam-wallet", "ar", "رصيد ستيم يصلك فوراً"))
	require.NoError(t, repo.UpdateDescription(ctx, "steam-wallet", "en", "Instant Steam credit."))

	p, err := repo.GetByCode(ctx, "steam-wallet")
	require.NoError(t, err)
	assert.Equal(t, "رصيد ستيم يصلك فوراً", p.DescriptionAr)
	assert.Equal(t, "Instant Steam credit.", p.Description)

	assert.ErrorIs(t, repo.UpdateDescription(ctx, "missing", "en", "x"), models.ErrProductNotFound)
}

func TestProductsRepository_DeleteProduct(t *testing.T) {
	ctx := t.Context()
	repo := models.NewProductsRepository(dbtest.Seeded(t))

	require.NoError(t, repo.DeleteProduct(ctx, "xbox-series-x"))

	_, err := repo.GetByCode(ctx, "xbox-series-x")
	assert.ErrorIs(t, err, models.ErrProductNotFound)

	_, total, err := repo.GetFilteredProducts(ctx, 0, 50, models.ProductFilters{IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	assert.ErrorIs(t, repo.DeleteProduct(ctx, "xbox-series-x"), models.ErrProductNotFound)
}
