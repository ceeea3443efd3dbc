package models

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type DiscountCodesRepository struct {
	db *gorm.DB
}

func NewDiscountCodesRepository(db *gorm.DB) *DiscountCodesRepository {
	return &DiscountCodesRepository{db: db}
}

// NormalizeCode is the canonical form codes are stored and looked up in.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (r *DiscountCodesRepository) ListDiscountCodes(ctx context.Context) ([]DiscountCode, error) {
	var codes []DiscountCode
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *DiscountCodesRepository) GetDiscountCode(ctx context.Context, code string) (*DiscountCode, error) {
	var dc DiscountCode
	if err := r.db.WithContext(ctx).Where("code = ?", NormalizeCode(code)).First(&dc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, err
	}
	return &dc, nil
}

func (r *DiscountCodesRepository) CreateDiscountCode(ctx context.Context, dc *DiscountCode) error {
	dc.Code = NormalizeCode(dc.Code)
	if err := r.db.WithContext(ctx).Create(dc).Error; err != nil {
		return translateDuplicate(err)
	}
	return nil
}

// UpdateDiscountCode edits the terms of a code. The usage counter is left untouched.
func (r *DiscountCodesRepository) UpdateDiscountCode(ctx context.Context, code string, update *DiscountCode) (*DiscountCode, error) {
	dc, err := r.GetDiscountCode(ctx, code)
	if err != nil {
		return nil, err
	}

	dc.Description = update.Description
	dc.Kind = update.Kind
	dc.Value = update.Value
	dc.MinSubtotal = update.MinSubtotal
	dc.MaxUses = update.MaxUses
	dc.Active = update.Active
	dc.StartsAt = update.StartsAt
	dc.ExpiresAt = update.ExpiresAt

	if err := r.db.WithContext(ctx).Save(dc).Error; err != nil {
		return nil, err
	}
	return dc, nil
}

func (r *DiscountCodesRepository) DeleteDiscountCode(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Where("code = ?", NormalizeCode(code)).Delete(&DiscountCode{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDiscountNotFound
	}
	return nil
}
