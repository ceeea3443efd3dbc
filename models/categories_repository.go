package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type CategoriesRepository struct {
	db *gorm.DB
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{db: db}
}

func (r *CategoriesRepository) GetAllCategories(ctx context.Context, includeInactive bool) ([]Category, error) {
	var categories []Category
	query := r.db.WithContext(ctx).Order("sort_order ASC, code ASC")
	if !includeInactive {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoriesRepository) CreateCategory(ctx context.Context, category *Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return translateDuplicate(err)
	}
	return nil
}

func (r *CategoriesRepository) UpdateCategory(ctx context.Context, code string, update *Category) (*Category, error) {
	var category Category
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	category.Name = update.Name
	category.NameAr = update.NameAr
	category.SortOrder = update.SortOrder
	category.Active = update.Active

	if err := r.db.WithContext(ctx).Save(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category that no product references. Soft-deleted
// products still hold their category, so they count as references too.
func (r *CategoriesRepository) DeleteCategory(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := findCategory(tx, code)
		if err != nil {
			return err
		}

		var inUse int64
		if err := tx.Unscoped().Model(&Product{}).Where("category_id = ?", category.ID).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return ErrCategoryInUse
		}
		if err := tx.Delete(category).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return ErrCategoryInUse
			}
			return err
		}
		return nil
	})
}
