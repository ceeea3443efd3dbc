// Package pricing holds the money rules of the storefront: discount code
// evaluation, order quotes and currency conversion.
package pricing

import (
	"fmt"
	"time"

	"github.com/arenashop/storefront/models"
	"github.com/shopspring/decimal"
)

// Reasons a discount code is refused.
const (
	ReasonInactive     = "inactive"
	ReasonNotStarted   = "not_started"
	ReasonExpired      = "expired"
	ReasonExhausted    = "usage_limit_reached"
	ReasonBelowMinimum = "min_subtotal_not_met"
)

var hundred = decimal.NewFromInt(100)

// DiscountError explains why a code cannot be applied to an order.
type DiscountError struct {
	Code   string
	Reason string
	// MinSubtotal is set when Reason is ReasonBelowMinimum.
	MinSubtotal decimal.Decimal
}

func (e *DiscountError) Error() string {
	if e.Reason == ReasonBelowMinimum {
		return fmt.Sprintf("discount code %s requires a subtotal of at least %s", e.Code, e.MinSubtotal.StringFixed(2))
	}
	return fmt.Sprintf("discount code %s cannot be used: %s", e.Code, e.Reason)
}

// EvaluateDiscount returns the amount the code takes off subtotal at time now.
// The amount never exceeds the subtotal and is rounded to two decimals.
func EvaluateDiscount(dc *models.DiscountCode, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	refuse := func(reason string) (decimal.Decimal, error) {
		return decimal.Zero, &DiscountError{Code: dc.Code, Reason: reason, MinSubtotal: dc.MinSubtotal}
	}

	switch {
	case !dc.Active:
		return refuse(ReasonInactive)
	case dc.StartsAt != nil && now.Before(*dc.StartsAt):
		return refuse(ReasonNotStarted)
	case dc.ExpiresAt != nil && !now.Before(*dc.ExpiresAt):
		return refuse(ReasonExpired)
	case dc.MaxUses != nil && dc.UsedCount >= *dc.MaxUses:
		return refuse(ReasonExhausted)
	case subtotal.LessThan(dc.MinSubtotal):
		return refuse(ReasonBelowMinimum)
	}

	var amount decimal.Decimal
	switch dc.Kind {
	case models.DiscountPercentage:
		amount = subtotal.Mul(dc.Value).Div(hundred)
	case models.DiscountFixed:
		amount = dc.Value
	default:
		return decimal.Zero, fmt.Errorf("discount code %s has unknown kind %q", dc.Code, dc.Kind)
	}

	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	return amount.Round(2), nil
}

// ValidateDiscountTerms checks the constraints an admin-entered code must satisfy.
func ValidateDiscountTerms(dc *models.DiscountCode) []string {
	var problems []string
	if models.NormalizeCode(dc.Code) == "" {
		problems = append(problems, "code is required")
	}
	if !dc.Kind.Valid() {
		problems = append(problems, "kind must be percentage or fixed")
	}
	if !dc.Value.IsPositive() {
		problems = append(problems, "value must be greater than zero")
	}
	if dc.Kind == models.DiscountPercentage && dc.Value.GreaterThan(hundred) {
		problems = append(problems, "percentage cannot exceed 100")
	}
	if dc.MinSubtotal.IsNegative() {
		problems = append(problems, "min_subtotal cannot be negative")
	}
	if dc.MaxUses != nil && *dc.MaxUses < 1 {
		problems = append(problems, "max_uses must be at least 1")
	}
	if dc.StartsAt != nil && dc.ExpiresAt != nil && !dc.ExpiresAt.After(*dc.StartsAt) {
		problems = append(problems, "expires_at must be after starts_at")
	}
	return problems
}
