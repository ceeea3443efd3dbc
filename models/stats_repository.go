package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatsRepository runs the read-only aggregates behind the admin dashboard.
type StatsRepository struct {
	db *gorm.DB
}

type ProductCounts struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

type TopSeller struct {
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type DailyRevenue struct {
	Day     time.Time       `json:"day"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) ProductCounts(ctx context.Context) (ProductCounts, error) {
	var counts ProductCounts
	db := r.db.WithContext(ctx).Model(&Product{})
	if err := db.Count(&counts.Total).Error; err != nil {
		return counts, err
	}
	if err := r.db.WithContext(ctx).Model(&Product{}).Where("active = ?", true).Count(&counts.Active).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

// LowStockProducts lists active physical products at or below threshold.
func (r *StatsRepository) LowStockProducts(ctx context.Context, threshold, limit int) ([]Product, error) {
	var products []Product
	err := r.db.WithContext(ctx).
		Where("active = ? AND kind = ? AND stock <= ?", true, KindPhysical, threshold).
		Order("stock ASC, code ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *StatsRepository) OrderCountsByStatus(ctx context.Context) (map[OrderStatus]int64, error) {
	var rows []struct {
		Status OrderStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := map[OrderStatus]int64{
		StatusPending:    0,
		StatusProcessing: 0,
		StatusShipped:    0,
		StatusDelivered:  0,
		StatusCancelled:  0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Revenue sums the totals of every order that was not cancelled.
func (r *StatsRepository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	err := r.db.WithContext(ctx).Model(&Order{}).
		Select("COALESCE(SUM(total), 0)").
		Where("status <> ?", StatusCancelled).
		Scan(&revenue).Error
	return revenue, err
}

func (r *StatsRepository) CountMessages(ctx context.Context, status MessageStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Message{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *StatsRepository) CountActiveDiscountCodes(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DiscountCode{}).
		Where("active = ?", true).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Where("max_uses IS NULL OR used_count < max_uses").
		Count(&count).Error
	return count, err
}

func (r *StatsRepository) RecentOrders(ctx context.Context, limit int) ([]Order, error) {
	var orders []Order
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&orders).Error
	return orders, err
}

func (r *StatsRepository) TopSellers(ctx context.Context, limit int) ([]TopSeller, error) {
	var sellers []TopSeller
	err := r.db.WithContext(ctx).Table("order_items").
		Select("order_items.product_code, MAX(order_items.product_name) AS product_name, "+
			"SUM(order_items.quantity) AS quantity, SUM(order_items.line_total) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", StatusCancelled).
		Group("order_items.product_code").
		Order("quantity DESC, revenue DESC").
		Limit(limit).
		Scan(&sellers).Error
	return sellers, err
}

// DailyRevenue buckets non-cancelled orders placed since the given time by
// UTC day, oldest first. Days without orders are left out.
func (r *StatsRepository) DailyRevenue(ctx context.Context, since time.Time) ([]DailyRevenue, error) {
	var orders []struct {
		CreatedAt time.Time
		Total     decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&Order{}).
		Select("created_at, total").
		Where("created_at >= ? AND status <> ?", since, StatusCancelled).
		Order("created_at ASC").
		Scan(&orders).Error; err != nil {
		return nil, err
	}

	var days []DailyRevenue
	for _, o := range orders {
		t := o.CreatedAt.UTC()
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		if n := len(days); n == 0 || !days[n-1].Day.Equal(day) {
			days = append(days, DailyRevenue{Day: day, Revenue: decimal.Zero})
		}
		last := &days[len(days)-1]
		last.Orders++
		last.Revenue = last.Revenue.Add(o.Total)
	}
	return days, nil
}
