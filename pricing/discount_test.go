package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/arenashop/storefront/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestEvaluateDiscount(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name           string
		code           models.DiscountCode
		subtotal       float64
		expectedAmount float64
		expectedReason string
	}{
		{
			name:           "Percentage off",
			code:           models.DiscountCode{Code: "GAMER10", Kind: models.DiscountPercentage, Value: decimal.NewFromInt(10), Active: true},
			subtotal:       249.99,
			expectedAmount: 25.00,
		},
		{
			name:           "Fixed amount",
			code:           models.DiscountCode{Code: "FLAT50", Kind: models.DiscountFixed, Value: decimal.NewFromInt(50), Active: true},
			subtotal:       300,
			expectedAmount: 50,
		},
		{
			name:           "Fixed amount capped at subtotal",
			code:           models.DiscountCode{Code: "FLAT50", Kind: models.DiscountFixed, Value: decimal.NewFromInt(50), Active: true},
			subtotal:       30,
			expectedAmount: 30,
		},
		{
			name:           "Inactive code",
			code:           models.DiscountCode{Code: "OLD", Kind: models.DiscountFixed, Value: decimal.NewFromInt(5), Active: false},
			subtotal:       100,
			expectedReason: ReasonInactive,
		},
		{
			name: "Not started yet",
			code: models.DiscountCode{Code: "EID", Kind: models.DiscountFixed, Value: decimal.NewFromInt(5), Active: true,
				StartsAt: timePtr(now.Add(time.Hour))},
			subtotal:       100,
			expectedReason: ReasonNotStarted,
		},
		{
			name: "Expired exactly now",
			code: models.DiscountCode{Code: "EID", Kind: models.DiscountFixed, Value: decimal.NewFromInt(5), Active: true,
				ExpiresAt: timePtr(now)},
			subtotal:       100,
			expectedReason: ReasonExpired,
		},
		{
			name: "Usage exhausted",
			code: models.DiscountCode{Code: "ONCE", Kind: models.DiscountFixed, Value: decimal.NewFromInt(5), Active: true,
				MaxUses: intPtr(3), UsedCount: 3},
			subtotal:       100,
			expectedReason: ReasonExhausted,
		},
		{
			name: "Below minimum subtotal",
			code: models.DiscountCode{Code: "BIG", Kind: models.DiscountPercentage, Value: decimal.NewFromInt(15), Active: true,
				MinSubtotal: decimal.NewFromInt(500)},
			subtotal:       499.99,
			expectedReason: ReasonBelowMinimum,
		},
		{
			name: "Within window",
			code: models.DiscountCode{Code: "WEEKEND", Kind: models.DiscountPercentage, Value: decimal.NewFromFloat(12.5), Active: true,
				StartsAt: timePtr(now.Add(-time.Hour)), ExpiresAt: timePtr(now.Add(time.Hour)), MaxUses: intPtr(10), UsedCount: 9},
			subtotal:       80,
			expectedAmount: 10,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := EvaluateDiscount(&tc.code, decimal.NewFromFloat(tc.subtotal), now)

			if tc.expectedReason != "" {
				var discountErr *DiscountError
				require.True(t, errors.As(err, &discountErr), "expected a DiscountError, got %v", err)
				assert.Equal(t, tc.expectedReason, discountErr.Reason)
				assert.True(t, amount.IsZero())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedAmount, amount.InexactFloat64())
		})
	}
}

func TestDiscountErrorMessage(t *testing.T) {
	err := &DiscountError{Code: "BIG", Reason: ReasonBelowMinimum, MinSubtotal: decimal.NewFromInt(500)}
	assert.Equal(t, "discount code BIG requires a subtotal of at least 500.00", err.Error())

	err = &DiscountError{Code: "OLD", Reason: ReasonInactive}
	assert.Equal(t, "discount code OLD cannot be used: inactive", err.Error())
}

func TestValidateDiscountTerms(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	valid := models.DiscountCode{Code: "welcome", Kind: models.DiscountPercentage, Value: decimal.NewFromInt(20)}
	assert.Empty(t, ValidateDiscountTerms(&valid))

	invalid := models.DiscountCode{
		Code:        "  ",
		Kind:        "bogus",
		Value:       decimal.Zero,
		MinSubtotal: decimal.NewFromInt(-1),
		MaxUses:     intPtr(0),
		StartsAt:    timePtr(start),
		ExpiresAt:   timePtr(start),
	}
	problems := ValidateDiscountTerms(&invalid)
	assert.Contains(t, problems, "code is required")
	assert.Contains(t, problems, "kind must be percentage or fixed")
	assert.Contains(t, problems, "value must be greater than zero")
	assert.Contains(t, problems, "min_subtotal cannot be negative")
	assert.Contains(t, problems, "max_uses must be at least 1")
	assert.Contains(t, problems, "expires_at must be after starts_at")

	tooMuch := models.DiscountCode{Code: "ALL", Kind: models.DiscountPercentage, Value: decimal.NewFromInt(101)}
	assert.Equal(t, []string{"percentage cannot exceed 100"}, ValidateDiscountTerms(&tooMuch))
}
