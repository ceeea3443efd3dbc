package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountKind selects how a discount value is applied.
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

func (k DiscountKind) Valid() bool {
	return k == DiscountPercentage || k == DiscountFixed
}

// DiscountCode is a promo code redeemable at checkout.
// Code is unique and stored upper-case. A nil MaxUses means unlimited.
type DiscountCode struct {
	ID          uint            `gorm:"primaryKey"`
	Code        string          `gorm:"uniqueIndex;not null"`
	Description string          `gorm:"type:text"`
	Kind        DiscountKind    `gorm:"type:varchar(16);not null"`
	Value       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MinSubtotal decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	MaxUses     *int
	UsedCount   int  `gorm:"not null;default:0"`
	Active      bool `gorm:"not null"`
	StartsAt    *time.Time
	ExpiresAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (d *DiscountCode) TableName() string {
	return "discount_codes"
}

// RemainingUses returns how many redemptions are left, or -1 when unlimited.
func (d *DiscountCode) RemainingUses() int {
	if d.MaxUses == nil {
		return -1
	}
	if left := *d.MaxUses - d.UsedCount; left > 0 {
		return left
	}
	return 0
}
