package orders

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/arenashop/storefront/app/render"
	"github.com/arenashop/storefront/checkout"
	"github.com/arenashop/storefront/models"
	"github.com/arenashop/storefront/pricing"
	"go.uber.org/zap"
)

type Checkout interface {
	Quote(ctx context.Context, req checkout.Request) (*checkout.Quote, error)
	PlaceOrder(ctx context.Context, req checkout.Request) (*models.Order, error)
}

type OrderProvider interface {
	ListOrders(ctx context.Context, offset, limit int, filters models.OrderFilters) ([]models.Order, int64, error)
	GetByReference(ctx context.Context, reference string) (*models.Order, error)
	UpdateStatus(ctx context.Context, reference string, next models.OrderStatus) (*models.Order, error)
}

type ItemInput struct {
	ProductCode string `json:"product_code"`
	VariantSKU  string `json:"variant_sku"`
	Quantity    int    `json:"quantity"`
}

type CustomerInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type OrderInput struct {
	Customer     CustomerInput `json:"customer"`
	Items        []ItemInput   `json:"items"`
	DiscountCode string        `json:"discount_code"`
	Notes        string        `json:"notes"`
}

type Item struct {
	ProductCode string  `json:"product_code"`
	ProductName string  `json:"product_name"`
	VariantSKU  string  `json:"variant_sku,omitempty"`
	Kind        string  `json:"kind"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

type QuoteResponse struct {
	Items        []Item `json:"items"`
	DiscountCode string `json:"discount_code,omitempty"`
	Totals       Totals `json:"totals"`
}

type Order struct {
	Reference       string    `json:"reference"`
	Status          string    `json:"status"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerPhone   string    `json:"customer_phone,omitempty"`
	ShippingAddress string    `json:"shipping_address,omitempty"`
	City            string    `json:"city,omitempty"`
	Country         string    `json:"country,omitempty"`
	DiscountCode    string    `json:"discount_code,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	Items           []Item    `json:"items"`
	Totals          Totals    `json:"totals"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ListResponse struct {
	Total  int     `json:"total"`
	Orders []Order `json:"orders"`
}

type OrderHandler struct {
	checkout Checkout
	repo     OrderProvider
	log      *zap.Logger
}

func NewOrderHandler(c Checkout, r OrderProvider, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		checkout: c,
		repo:     r,
		log:      log,
	}
}

// HandleQuote prices a cart without placing it.
func (h *OrderHandler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	var input OrderInput
	if err := render.Decode(r, &input); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	quote, err := h.checkout.Quote(r.Context(), input.toRequest())
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	render.JSON(w, http.StatusOK, QuoteResponse{
		Items:        toItems(quote.Items),
		DiscountCode: quote.DiscountCode,
		Totals: Totals{
			Subtotal: quote.Totals.Subtotal.InexactFloat64(),
			Discount: quote.Totals.Discount.InexactFloat64(),
			Shipping: quote.Totals.Shipping.InexactFloat64(),
			Total:    quote.Totals.Total.InexactFloat64(),
		},
	})
}

func (h *OrderHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input OrderInput
	if err := render.Decode(r, &input); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), input.toRequest())
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}
	render.JSON(w, http.StatusCreated, toOrder(order))
}

// HandleTrack lets a customer look up an order by reference and the email used at checkout.
func (h *OrderHandler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email")))
	if email == "" {
		render.Error(w, http.StatusBadRequest, "Missing email")
		return
	}

	order, err := h.repo.GetByReference(r.Context(), r.PathValue("reference"))
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			render.Error(w, http.StatusNotFound, "Order not found")
			return
		}
		render.Error(w, http.StatusInternalServerError, "Failed to retrieve order")
		return
	}
	// A wrong email looks exactly like a missing order.
	if !strings.EqualFold(order.CustomerEmail, email) {
		render.Error(w, http.StatusNotFound, "Order not found")
		return
	}
	render.JSON(w, http.StatusOK, toOrder(order))
}

func (h *OrderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	offset, limit := render.Page(r)
	filters := models.OrderFilters{
		Status: models.OrderStatus(strings.ToLower(r.URL.Query().Get("status"))),
		Email:  strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email"))),
	}
	if filters.Status != "" && !filters.Status.Valid() {
		render.Error(w, http.StatusBadRequest, "Unknown order status")
		return
	}

	res, total, err := h.repo.ListOrders(r.Context(), offset, limit, filters)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	orders := make([]Order, len(res))
	for i := range res {
		orders[i] = toOrder(&res[i])
	}
	render.JSON(w, http.StatusOK, ListResponse{Total: int(total), Orders: orders})
}

func (h *OrderHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	order, err := h.repo.GetByReference(r.Context(), r.PathValue("reference"))
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			render.Error(w, http.StatusNotFound, "Order not found")
			return
		}
		render.Error(w, http.StatusInternalServerError, "Failed to retrieve order")
		return
	}
	render.JSON(w, http.StatusOK, toOrder(order))
}

func (h *OrderHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	reference := r.PathValue("reference")

	var input struct {
		Status string `json:"status"`
	}
	if err := render.Decode(r, &input); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	next := models.OrderStatus(strings.ToLower(strings.TrimSpace(input.Status)))
	if !next.Valid() {
		render.Invalid(w, []string{"status must be one of pending, processing, shipped, delivered, cancelled"})
		return
	}

	order, err := h.repo.UpdateStatus(r.Context(), reference, next)
	if err != nil {
		var transition *models.TransitionError
		switch {
		case errors.Is(err, models.ErrOrderNotFound):
			render.Error(w, http.StatusNotFound, "Order not found")
		case errors.As(err, &transition):
			render.Error(w, http.StatusConflict, transition.Error())
		default:
			h.log.Error("failed to update order status", zap.String("reference", reference), zap.Error(err))
			render.Error(w, http.StatusInternalServerError, "Failed to update order")
		}
		return
	}

	h.log.Info("order status changed", zap.String("reference", reference), zap.String("status", string(next)))
	render.JSON(w, http.StatusOK, toOrder(order))
}

func (h *OrderHandler) writeCheckoutError(w http.ResponseWriter, err error) {
	var (
		validation  *checkout.ValidationError
		unavailable *checkout.UnavailableError
		stock       *checkout.StockError
		discount    *pricing.DiscountError
	)
	switch {
	case errors.As(err, &validation):
		render.Invalid(w, validation.Problems)
	case errors.As(err, &unavailable):
		render.Error(w, http.StatusUnprocessableEntity, unavailable.Error())
	case errors.As(err, &stock):
		render.Error(w, http.StatusConflict, stock.Error())
	case errors.As(err, &discount):
		render.JSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":  discount.Error(),
			"reason": discount.Reason,
		})
	case errors.Is(err, models.ErrDiscountNotFound):
		render.Error(w, http.StatusUnprocessableEntity, "Discount code not found")
	default:
		h.log.Error("checkout failed", zap.Error(err))
		render.Error(w, http.StatusInternalServerError, "Failed to place order")
	}
}

func (in OrderInput) toRequest() checkout.Request {
	items := make([]checkout.ItemRequest, len(in.Items))
	for i, it := range in.Items {
		items[i] = checkout.ItemRequest{
			ProductCode: it.ProductCode,
			VariantSKU:  it.VariantSKU,
			Quantity:    it.Quantity,
		}
	}
	return checkout.Request{
		Customer: checkout.Customer{
			Name:    in.Customer.Name,
			Email:   in.Customer.Email,
			Phone:   in.Customer.Phone,
			Address: in.Customer.Address,
			City:    in.Customer.City,
			Country: in.Customer.Country,
		},
		Items:        items,
		DiscountCode: in.DiscountCode,
		Notes:        in.Notes,
	}
}

func toItems(items []models.OrderItem) []Item {
	out := make([]Item, len(items))
	for i := range items {
		it := &items[i]
		out[i] = Item{
			ProductCode: it.ProductCode,
			ProductName: it.ProductName,
			VariantSKU:  it.VariantSKU,
			Kind:        string(it.Kind),
			UnitPrice:   it.UnitPrice.InexactFloat64(),
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal.InexactFloat64(),
		}
	}
	return out
}

func toOrder(o *models.Order) Order {
	return Order{
		Reference:       o.Reference,
		Status:          string(o.Status),
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		ShippingAddress: o.ShippingAddress,
		City:            o.City,
		Country:         o.Country,
		DiscountCode:    o.DiscountCode,
		Notes:           o.Notes,
		Items:           toItems(o.Items),
		Totals: Totals{
			Subtotal: o.Subtotal.InexactFloat64(),
			Discount: o.DiscountAmount.InexactFloat64(),
			Shipping: o.ShippingFee.InexactFloat64(),
			Total:    o.Total.InexactFloat64(),
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
