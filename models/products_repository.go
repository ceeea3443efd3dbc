package models

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductsRepository struct {
	db *gorm.DB
}

type ProductFilters struct {
	CategoryCode    string
	Platform        string
	Kind            ProductKind
	Search          string
	PriceLessThan   *float64
	FeaturedOnly    bool
	IncludeInactive bool
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func (r *ProductsRepository) GetFilteredProducts(ctx context.Context, offset, limit int, filters ProductFilters) ([]Product, int64, error) {
	var products []Product
	var total int64

	query := r.db.WithContext(ctx).Model(&Product{}).
		Joins("LEFT JOIN categories ON categories.id = products.category_id")

	// Filter
	if !filters.IncludeInactive {
		query = query.Where("products.active = ?", true)
	}
	if filters.CategoryCode != "" {
		query = query.Where("categories.code = ?", filters.CategoryCode)
	}
	if filters.Platform != "" {
		query = query.Where("LOWER(products.platform) = ?", strings.ToLower(filters.Platform))
	}
	if filters.Kind != "" {
		query = query.Where("products.kind = ?", filters.Kind)
	}
	if filters.Search != "" {
		like := containsPattern(strings.ToLower(filters.Search))
		query = query.Where("LOWER(products.name) LIKE ? ESCAPE '\\' OR "+
			"products.name_ar LIKE ? ESCAPE '\\' OR "+
			"LOWER(products.code) LIKE ? ESCAPE '\\'",
			like, containsPattern(filters.Search), like)
	}
	if filters.PriceLessThan != nil {
		query = query.Where("products.price < ?", *filters.PriceLessThan)
	}
	if filters.FeaturedOnly {
		query = query.Where("products.featured = ?", true)
	}

	// Count total after filtering
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply pagination
	if err := query.
		Preload("Category").
		Order("products.featured DESC, products.created_at DESC, products.id DESC").
		Offset(offset).Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *ProductsRepository) GetByCode(ctx context.Context, code string) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Category").
		Where("code = ?", code).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	return &product, nil
}

// CreateProduct inserts the product and its variants. CategoryCode resolves the category.
func (r *ProductsRepository) CreateProduct(ctx context.Context, product *Product, categoryCode string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := findCategory(tx, categoryCode)
		if err != nil {
			return err
		}
		product.CategoryID = category.ID
		product.Category = *category

		if err := tx.Omit("Category").Create(product).Error; err != nil {
			return translateDuplicate(err)
		}
		return nil
	})
}

// UpdateProduct replaces the editable fields of the product identified by code.
// Variants are replaced wholesale when non-nil.
func (r *ProductsRepository) UpdateProduct(ctx context.Context, code string, update *Product, categoryCode string) (*Product, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Product
		if err := tx.Where("code = ?", code).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if categoryCode != "" {
			category, err := findCategory(tx, categoryCode)
			if err != nil {
				return err
			}
			existing.CategoryID = category.ID
		}

		existing.Name = update.Name
		existing.NameAr = update.NameAr
		existing.Description = update.Description
		existing.DescriptionAr = update.DescriptionAr
		existing.Price = update.Price
		existing.SalePrice = update.SalePrice
		existing.Stock = update.Stock
		existing.Kind = update.Kind
		existing.Platform = update.Platform
		existing.ImageURL = update.ImageURL
		existing.Featured = update.Featured
		existing.Active = update.Active
		existing.Attributes = update.Attributes

		if err := tx.Omit(clause.Associations).Save(&existing).Error; err != nil {
			return err
		}

		if update.Variants != nil {
			if err := tx.Where("product_id = ?", existing.ID).Delete(&Variant{}).Error; err != nil {
				return err
			}
			for i := range update.Variants {
				v := update.Variants[i]
				v.ID = 0
				v.ProductID = existing.ID
				if err := tx.Create(&v).Error; err != nil {
					return translateDuplicate(err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByCode(ctx, code)
}

// UpdateDescription stores generated copy for one language ("ar" or "en").
func (r *ProductsRepository) UpdateDescription(ctx context.Context, code, lang, text string) error {
	column := "description"
	if lang == "ar" {
		column = "description_ar"
	}
	res := r.db.WithContext(ctx).Model(&Product{}).Where("code = ?", code).Update(column, text)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct soft-deletes the product.
func (r *ProductsRepository) DeleteProduct(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Where("code = ?", code).Delete(&Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s literally anywhere in a value.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func findCategory(tx *gorm.DB, code string) (*Category, error) {
	var category Category
	if err := tx.Where("code = ?", code).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// translateDuplicate maps unique violations onto ErrDuplicateCode.
// The connection is opened with TranslateError so gorm reports them as ErrDuplicatedKey.
func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateCode
	}
	return err
}
