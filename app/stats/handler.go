package stats

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/arenashop/storefront/app/render"
	"github.com/arenashop/storefront/dashboard"
	"github.com/arenashop/storefront/models"
	"go.uber.org/zap"
)

type DashboardProvider interface {
	Overview(ctx context.Context) (*dashboard.Overview, error)
	Sales(ctx context.Context, days int) ([]models.DailyRevenue, error)
}

type LowStockProduct struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

type RecentOrder struct {
	Reference    string    `json:"reference"`
	CustomerName string    `json:"customer_name"`
	Status       string    `json:"status"`
	Total        float64   `json:"total"`
	CreatedAt    time.Time `json:"created_at"`
}

type TopSeller struct {
	ProductCode string  `json:"product_code"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

type StatsResponse struct {
	Currency        string            `json:"currency"`
	Products        ProductSummary    `json:"products"`
	OrdersByStatus  map[string]int64  `json:"orders_by_status"`
	Revenue         float64           `json:"revenue"`
	UnreadMessages  int64             `json:"unread_messages"`
	ActiveDiscounts int64             `json:"active_discounts"`
	LowStock        []LowStockProduct `json:"low_stock"`
	RecentOrders    []RecentOrder     `json:"recent_orders"`
	TopSellers      []TopSeller       `json:"top_sellers"`
}

type ProductSummary struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

type SalesPoint struct {
	Day     string  `json:"day"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type SalesResponse struct {
	Currency string       `json:"currency"`
	Days     int          `json:"days"`
	Series   []SalesPoint `json:"series"`
}

type StatsHandler struct {
	dashboard DashboardProvider
	currency  string
	log       *zap.Logger
}

func NewStatsHandler(d DashboardProvider, baseCurrency string, log *zap.Logger) *StatsHandler {
	return &StatsHandler{
		dashboard: d,
		currency:  baseCurrency,
		log:       log,
	}
}

func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	o, err := h.dashboard.Overview(r.Context())
	if err != nil {
		h.log.Error("dashboard overview failed", zap.Error(err))
		render.Error(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	resp := StatsResponse{
		Currency:        h.currency,
		Products:        ProductSummary{Total: o.Products.Total, Active: o.Products.Active},
		OrdersByStatus:  make(map[string]int64, len(o.OrdersByStatus)),
		Revenue:         o.Revenue.InexactFloat64(),
		UnreadMessages:  o.UnreadMessages,
		ActiveDiscounts: o.ActiveDiscounts,
		LowStock:        make([]LowStockProduct, len(o.LowStock)),
		RecentOrders:    make([]RecentOrder, len(o.RecentOrders)),
		TopSellers:      make([]TopSeller, len(o.TopSellers)),
	}
	for status, count := range o.OrdersByStatus {
		resp.OrdersByStatus[string(status)] = count
	}
	for i, p := range o.LowStock {
		resp.LowStock[i] = LowStockProduct{Code: p.Code, Name: p.Name, Stock: p.Stock}
	}
	for i, ord := range o.RecentOrders {
		resp.RecentOrders[i] = RecentOrder{
			Reference:    ord.Reference,
			CustomerName: ord.CustomerName,
			Status:       string(ord.Status),
			Total:        ord.Total.InexactFloat64(),
			CreatedAt:    ord.CreatedAt,
		}
	}
	for i, s := range o.TopSellers {
		resp.TopSellers[i] = TopSeller{
			ProductCode: s.ProductCode,
			ProductName: s.ProductName,
			Quantity:    s.Quantity,
			Revenue:     s.Revenue.InexactFloat64(),
		}
	}
	render.JSON(w, http.StatusOK, resp)
}

func (h *StatsHandler) HandleSales(w http.ResponseWriter, r *http.Request) {
	days := dashboard.DefaultSalesDays
	if dStr := r.URL.Query().Get("days"); dStr != "" {
		d, err := strconv.Atoi(dStr)
		if err != nil || d < 1 {
			render.Error(w, http.StatusBadRequest, "days must be a positive number")
			return
		}
		days = d
	}

	series, err := h.dashboard.Sales(r.Context(), days)
	if err != nil {
		h.log.Error("dashboard sales failed", zap.Error(err))
		render.Error(w, http.StatusInternalServerError, "Failed to load sales")
		return
	}

	points := make([]SalesPoint, len(series))
	for i, d := range series {
		points[i] = SalesPoint{
			Day:     d.Day.Format(time.DateOnly),
			Orders:  d.Orders,
			Revenue: d.Revenue.InexactFloat64(),
		}
	}
	render.JSON(w, http.StatusOK, SalesResponse{Currency: h.currency, Days: len(points), Series: points})
}
