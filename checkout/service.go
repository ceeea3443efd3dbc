// Package checkout turns a cart into a placed order.
package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/arenashop/storefront/models"
	"github.com/arenashop/storefront/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Quote is the priced view of a cart before the order is placed.
type Quote struct {
	Items        []models.OrderItem
	DiscountCode string
	Totals       pricing.Totals
}

type Service struct {
	db    *gorm.DB
	rules pricing.ShippingRules
	log   *zap.Logger
	now   func() time.Time
}

func NewService(db *gorm.DB, rules pricing.ShippingRules, log *zap.Logger) *Service {
	return &Service{
		db:    db,
		rules: rules,
		log:   log.Named("checkout"),
		now:   time.Now,
	}
}

// Quote prices a cart without reserving stock or consuming the discount code.
func (s *Service) Quote(ctx context.Context, req Request) (*Quote, error) {
	if problems := req.validateItems(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	var quote *Quote
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		quote, _, err = s.price(tx, req, false)
		return err
	})
	return quote, err
}

// PlaceOrder prices the cart from the catalog, reserves physical stock,
// consumes the discount code and stores the order, all in one transaction.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (*models.Order, error) {
	if problems := req.validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quote, lines, err := s.price(tx, req, true)
		if err != nil {
			return err
		}

		if needsShipping(lines) && (strings.TrimSpace(req.Customer.Address) == "" || strings.TrimSpace(req.Customer.City) == "") {
			return &ValidationError{Problems: []string{"shipping address and city are required for physical items"}}
		}

		for _, l := range lines {
			if l.product.Kind != models.KindPhysical {
				continue
			}
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", l.product.ID, l.line.Quantity).
				Update("stock", gorm.Expr("stock - ?", l.line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &StockError{ProductCode: l.product.Code, Requested: l.line.Quantity, Available: l.product.Stock}
			}
		}

		if quote.DiscountCode != "" {
			if err := tx.Model(&models.DiscountCode{}).
				Where("code = ?", quote.DiscountCode).
				Update("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
				return err
			}
		}

		order = &models.Order{
			Reference:       uuid.NewString(),
			CustomerName:    strings.TrimSpace(req.Customer.Name),
			CustomerEmail:   strings.ToLower(strings.TrimSpace(req.Customer.Email)),
			CustomerPhone:   strings.TrimSpace(req.Customer.Phone),
			ShippingAddress: strings.TrimSpace(req.Customer.Address),
			City:            strings.TrimSpace(req.Customer.City),
			Country:         strings.ToUpper(strings.TrimSpace(req.Customer.Country)),
			Status:          models.StatusPending,
			Subtotal:        quote.Totals.Subtotal,
			DiscountCode:    quote.DiscountCode,
			DiscountAmount:  quote.Totals.Discount,
			ShippingFee:     quote.Totals.Shipping,
			Total:           quote.Totals.Total,
			Notes:           strings.TrimSpace(req.Notes),
			Items:           quote.Items,
		}
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order placed",
		zap.String("reference", order.Reference),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.Total.StringFixed(2)))
	return order, nil
}

// price loads the products and discount code for req and computes totals.
// With lock set the discount code row is locked for the rest of the transaction.
func (s *Service) price(tx *gorm.DB, req Request, lock bool) (*Quote, []pricedLine, error) {
	var products []models.Product
	if err := tx.Preload("Variants").Where("code IN ?", req.productCodes()).Find(&products).Error; err != nil {
		return nil, nil, err
	}

	lines, err := priceLines(products, req.Items)
	if err != nil {
		return nil, nil, err
	}
	if err := checkStock(lines); err != nil {
		return nil, nil, err
	}

	quote := &Quote{}
	discount := decimal.Zero
	if code := models.NormalizeCode(req.DiscountCode); code != "" {
		query := tx
		if lock {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var dc models.DiscountCode
		if err := query.Where("code = ?", code).First(&dc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, models.ErrDiscountNotFound
			}
			return nil, nil, err
		}
		discount, err = pricing.EvaluateDiscount(&dc, subtotalOf(lines), s.now())
		if err != nil {
			return nil, nil, err
		}
		quote.DiscountCode = dc.Code
	}

	quote.Totals = pricing.Quote(toPricingLines(lines), discount, s.rules)
	quote.Items = make([]models.OrderItem, len(lines))
	for i, l := range lines {
		quote.Items[i] = l.item()
	}
	return quote, lines, nil
}
