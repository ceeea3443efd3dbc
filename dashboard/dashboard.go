// Package dashboard gathers the figures shown on the admin dashboard.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/arenashop/storefront/models"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	recentOrdersLimit = 5
	topSellersLimit   = 5
	lowStockLimit     = 10

	DefaultSalesDays = 30
	MaxSalesDays     = 365
)

type Stats interface {
	ProductCounts(ctx context.Context) (models.ProductCounts, error)
	LowStockProducts(ctx context.Context, threshold, limit int) ([]models.Product, error)
	OrderCountsByStatus(ctx context.Context) (map[models.OrderStatus]int64, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
	CountMessages(ctx context.Context, status models.MessageStatus) (int64, error)
	CountActiveDiscountCodes(ctx context.Context, now time.Time) (int64, error)
	RecentOrders(ctx context.Context, limit int) ([]models.Order, error)
	TopSellers(ctx context.Context, limit int) ([]models.TopSeller, error)
	DailyRevenue(ctx context.Context, since time.Time) ([]models.DailyRevenue, error)
}

// Overview is everything the dashboard shows at once.
type Overview struct {
	Products        models.ProductCounts
	LowStock        []models.Product
	OrdersByStatus  map[models.OrderStatus]int64
	Revenue         decimal.Decimal
	UnreadMessages  int64
	ActiveDiscounts int64
	RecentOrders    []models.Order
	TopSellers      []models.TopSeller
}

type Service struct {
	stats             Stats
	lowStockThreshold int
	now               func() time.Time
}

func NewService(stats Stats, lowStockThreshold int) *Service {
	return &Service{
		stats:             stats,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// Overview runs every aggregate concurrently. The first failure cancels the
// rest and is returned.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	var o Overview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		o.Products, err = s.stats.ProductCounts(ctx)
		return wrap("product counts", err)
	})
	g.Go(func() (err error) {
		o.LowStock, err = s.stats.LowStockProducts(ctx, s.lowStockThreshold, lowStockLimit)
		return wrap("low stock", err)
	})
	g.Go(func() (err error) {
		o.OrdersByStatus, err = s.stats.OrderCountsByStatus(ctx)
		return wrap("order counts", err)
	})
	g.Go(func() (err error) {
		o.Revenue, err = s.stats.Revenue(ctx)
		return wrap("revenue", err)
	})
	g.Go(func() (err error) {
		o.UnreadMessages, err = s.stats.CountMessages(ctx, models.MessageNew)
		return wrap("unread messages", err)
	})
	g.Go(func() (err error) {
		o.ActiveDiscounts, err = s.stats.CountActiveDiscountCodes(ctx, s.now())
		return wrap("active discounts", err)
	})
	g.Go(func() (err error) {
		o.RecentOrders, err = s.stats.RecentOrders(ctx, recentOrdersLimit)
		return wrap("recent orders", err)
	})
	g.Go(func() (err error) {
		o.TopSellers, err = s.stats.TopSellers(ctx, topSellersLimit)
		return wrap("top sellers", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &o, nil
}

// Sales returns one entry per day for the last days days, today included.
// Days without orders are reported with zero revenue.
func (s *Service) Sales(ctx context.Context, days int) ([]models.DailyRevenue, error) {
	if days < 1 {
		days = DefaultSalesDays
	}
	if days > MaxSalesDays {
		days = MaxSalesDays
	}

	today := truncateDay(s.now())
	since := today.AddDate(0, 0, -(days - 1))

	rows, err := s.stats.DailyRevenue(ctx, since)
	if err != nil {
		return nil, wrap("daily revenue", err)
	}

	byDay := make(map[time.Time]models.DailyRevenue, len(rows))
	for _, row := range rows {
		byDay[truncateDay(row.Day)] = row
	}

	series := make([]models.DailyRevenue, days)
	for i := range series {
		day := since.AddDate(0, 0, i)
		row, ok := byDay[day]
		if !ok {
			row = models.DailyRevenue{Revenue: decimal.Zero}
		}
		row.Day = day
		series[i] = row
	}
	return series, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("dashboard %s: %w", what, err)
}
