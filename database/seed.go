package database

import (
	"fmt"

	"github.com/arenashop/storefront/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedData inserts a small sample catalog. Rows are matched by code so the
// seed can be run more than once.
func SeedData(db *gorm.DB, log *zap.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		categories := []models.Category{
			{Code: "consoles", Name: "Consoles", NameAr: "أجهزة الألعاب", SortOrder: 1, Active: true},
			{Code: "gift-cards", Name: "Gift Cards", NameAr: "بطاقات الهدايا", SortOrder: 2, Active: true},
			{Code: "accessories", Name: "Accessories", NameAr: "الإكسسوارات", SortOrder: 3, Active: true},
			{Code: "games", Name: "Games", NameAr: "الألعاب", SortOrder: 4, Active: true},
		}
		byCode := make(map[string]uint, len(categories))
		for i := range categories {
			c := categories[i]
			if err := tx.Where(models.Category{Code: c.Code}).FirstOrCreate(&c).Error; err != nil {
				return fmt.Errorf("seed category %s: %w", c.Code, err)
			}
			byCode[c.Code] = c.ID
		}

		products := []models.Product{
			{
				Code: "ps5-slim", Name: "PlayStation 5 Slim", NameAr: "بلايستيشن 5 سليم",
				Price: decimal.NewFromInt(1999), Stock: 12, Kind: models.KindPhysical, Platform: "PlayStation",
				Featured: true, Active: true, CategoryID: byCode["consoles"],
				Attributes: datatypes.JSONMap{"storage": "1TB", "edition": "disc"},
			},
			{
				Code: "psn-card", Name: "PlayStation Store Gift Card", NameAr: "بطاقة متجر بلايستيشن",
				Price: decimal.NewFromInt(50), Stock: 0, Kind: models.KindDigital, Platform: "PlayStation",
				Active: true, CategoryID: byCode["gift-cards"],
				Attributes: datatypes.JSONMap{"region": "SA", "delivery": "instant"},
				Variants: []models.Variant{
					{Name: "50 SAR", SKU: "PSN-SA-50"},
					{Name: "100 SAR", SKU: "PSN-SA-100", Price: decimal.NewFromInt(100)},
					{Name: "200 SAR", SKU: "PSN-SA-200", Price: decimal.NewFromInt(200)},
				},
			},
			{
				Code: "steam-wallet", Name: "Steam Wallet Code", NameAr: "رصيد محفظة ستيم",
				Price: decimal.NewFromInt(75), Kind: models.KindDigital, Platform: "PC",
				Active: true, CategoryID: byCode["gift-cards"],
				Attributes: datatypes.JSONMap{"region": "global", "delivery": "instant"},
			},
			{
				Code: "dualsense-white", Name: "DualSense Wireless Controller", NameAr: "يد تحكم دوال سنس اللاسلكية",
				Price: decimal.NewFromInt(299), SalePrice: decimal.NewFromInt(259), Stock: 3,
				Kind: models.KindPhysical, Platform: "PlayStation", Active: true, CategoryID: byCode["accessories"],
				Attributes: datatypes.JSONMap{"color": "white"},
			},
			{
				Code: "xbox-series-x", Name: "Xbox Series X", NameAr: "إكس بوكس سيريس إكس",
				Price: decimal.NewFromInt(2099), Stock: 4, Kind: models.KindPhysical, Platform: "Xbox",
				Active: true, CategoryID: byCode["consoles"],
				Attributes: datatypes.JSONMap{"storage": "1TB"},
			},
		}
		for i := range products {
			p := products[i]
			var existing models.Product
			res := tx.Unscoped().Where("code = ?", p.Code).Limit(1).Find(&existing)
			if res.Error != nil {
				return fmt.Errorf("seed product %s: %w", p.Code, res.Error)
			}
			if res.RowsAffected > 0 {
				continue
			}
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("seed product %s: %w", p.Code, err)
			}
		}

		maxUses := 500
		welcome := models.DiscountCode{
			Code: "WELCOME10", Description: "10% off the first order",
			Kind: models.DiscountPercentage, Value: decimal.NewFromInt(10),
			MinSubtotal: decimal.NewFromInt(100), MaxUses: &maxUses, Active: true,
		}
		if err := tx.Where(models.DiscountCode{Code: welcome.Code}).FirstOrCreate(&welcome).Error; err != nil {
			return fmt.Errorf("seed discount code: %w", err)
		}

		log.Info("seed data applied",
			zap.Int("categories", len(categories)),
			zap.Int("products", len(products)))
		return nil
	})
}
