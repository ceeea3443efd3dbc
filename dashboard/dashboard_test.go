package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arenashop/storefront/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeStats struct {
	failOn string
	block  bool

	lastThreshold int
	lastSince     time.Time
	daily         []models.DailyRevenue
}

func (f *fakeStats) fail(ctx context.Context, name string) error {
	if f.failOn == name {
		return errors.New(name + " failed")
	}
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (f *fakeStats) ProductCounts(ctx context.Context) (models.ProductCounts, error) {
	return models.ProductCounts{Total: 12, Active: 10}, f.fail(ctx, "products")
}

func (f *fakeStats) LowStockProducts(ctx context.Context, threshold, _ int) ([]models.Product, error) {
	f.lastThreshold = threshold
	return []models.Product{{Code: "ps5-slim", Stock: 1}}, f.fail(ctx, "lowstock")
}

func (f *fakeStats) OrderCountsByStatus(ctx context.Context) (map[models.OrderStatus]int64, error) {
	return map[models.OrderStatus]int64{models.StatusPending: 3, models.StatusDelivered: 8}, f.fail(ctx, "orders")
}

func (f *fakeStats) Revenue(ctx context.Context) (decimal.Decimal, error) {
	return decimal.NewFromInt(15400), f.fail(ctx, "revenue")
}

func (f *fakeStats) CountMessages(ctx context.Context, _ models.MessageStatus) (int64, error) {
	return 4, f.fail(ctx, "messages")
}

func (f *fakeStats) CountActiveDiscountCodes(ctx context.Context, _ time.Time) (int64, error) {
	return 2, f.fail(ctx, "discounts")
}

func (f *fakeStats) RecentOrders(ctx context.Context, _ int) ([]models.Order, error) {
	return []models.Order{{Reference: "r1"}}, f.fail(ctx, "recent")
}

func (f *fakeStats) TopSellers(ctx context.Context, _ int) ([]models.TopSeller, error) {
	return []models.TopSeller{{ProductCode: "psn-card", Quantity: 40}}, f.fail(ctx, "top")
}

func (f *fakeStats) DailyRevenue(ctx context.Context, since time.Time) ([]models.DailyRevenue, error) {
	f.lastSince = since
	return f.daily, f.fail(ctx, "daily")
}

func TestOverview(t *testing.T) {
	stats := &fakeStats{}
	svc := NewService(stats, 5)

	o, err := svc.Overview(t.Context())
	require.NoError(t, err)

	assert.Equal(t, int64(12), o.Products.Total)
	assert.Len(t, o.LowStock, 1)
	assert.Equal(t, 5, stats.lastThreshold)
	assert.Equal(t, int64(3), o.OrdersByStatus[models.StatusPending])
	assert.True(t, decimal.NewFromInt(15400).Equal(o.Revenue))
	assert.Equal(t, int64(4), o.UnreadMessages)
	assert.Equal(t, int64(2), o.ActiveDiscounts)
	assert.Len(t, o.RecentOrders, 1)
	assert.Equal(t, "psn-card", o.TopSellers[0].ProductCode)
}

func TestOverviewFailsAsAWhole(t *testing.T) {
	// Every other aggregate blocks until the failing one cancels the group.
	stats := &fakeStats{failOn: "revenue", block: true}
	svc := NewService(stats, 5)

	o, err := svc.Overview(t.Context())
	require.Error(t, err)
	assert.Nil(t, o)
	assert.Equal(t, "dashboard revenue: revenue failed", err.Error())
}

func TestSalesFillsMissingDays(t *testing.T) {
	now := time.Date(2026, 5, 10, 15, 30, 0, 0, time.UTC)
	stats := &fakeStats{daily: []models.DailyRevenue{
		{Day: time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC), Orders: 2, Revenue: decimal.NewFromInt(300)},
		{Day: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), Orders: 1, Revenue: decimal.NewFromInt(99)},
	}}
	svc := NewService(stats, 5)
	svc.now = func() time.Time { return now }

	series, err := svc.Sales(t.Context(), 3)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC), stats.lastSince)
	require.Len(t, series, 3)
	assert.Equal(t, int64(2), series[0].Orders)
	assert.Equal(t, 9, series[1].Day.Day())
	assert.True(t, series[1].Revenue.IsZero())
	assert.Equal(t, int64(0), series[1].Orders)
	assert.True(t, decimal.NewFromInt(99).Equal(series[2].Revenue))
}

func TestSalesClampsDays(t *testing.T) {
	svc := NewService(&fakeStats{}, 5)

	series, err := svc.Sales(t.Context(), 0)
	require.NoError(t, err)
	assert.Len(t, series, DefaultSalesDays)

	series, err = svc.Sales(t.Context(), 10000)
	require.NoError(t, err)
	assert.Len(t, series, MaxSalesDays)
}

func TestSalesError(t *testing.T) {
	_, err := NewService(&fakeStats{failOn: "daily"}, 5).Sales(t.Context(), 7)
	assert.EqualError(t, err, "dashboard daily revenue: daily failed")
}
