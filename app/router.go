// Package app wires the HTTP handlers into the storefront router.
package app

import (
	"net/http"

	"github.com/arenashop/storefront/app/catalog"
	"github.com/arenashop/storefront/app/categories"
	"github.com/arenashop/storefront/app/descriptions"
	"github.com/arenashop/storefront/app/discounts"
	"github.com/arenashop/storefront/app/messages"
	"github.com/arenashop/storefront/app/middleware"
	"github.com/arenashop/storefront/app/orders"
	"github.com/arenashop/storefront/app/products"
	"github.com/arenashop/storefront/app/render"
	"github.com/arenashop/storefront/app/stats"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handlers groups every handler the router mounts.
type Handlers struct {
	Catalog      *catalog.CatalogHandler
	Categories   *categories.CategoryHandler
	Products     *products.ProductHandler
	Descriptions *descriptions.DescriptionHandler
	Orders       *orders.OrderHandler
	Messages     *messages.MessageHandler
	Discounts    *discounts.DiscountHandler
	Stats        *stats.StatsHandler
}

// NewRouter builds the public storefront API and the token-protected admin API.
func NewRouter(h Handlers, adminToken string, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Storefront
	r.Get("/catalog", h.Catalog.HandleGet)
	r.Get("/catalog/{code}", h.Catalog.HandleGetProduct)
	r.Get("/currencies", h.Catalog.HandleCurrencies)
	r.Get("/categories", h.Categories.HandleGetAll)
	r.Post("/discounts/validate", h.Discounts.HandleValidate)
	r.Post("/messages", h.Messages.HandleCreate)
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.Orders.HandleCreate)
		r.Post("/quote", h.Orders.HandleQuote)
		r.Get("/{reference}", h.Orders.HandleTrack)
	})

	// Back office
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(adminToken))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.HandleList)
			r.Post("/", h.Products.HandleCreate)
			r.Get("/{code}", h.Products.HandleGet)
			r.Put("/{code}", h.Products.HandleUpdate)
			r.Delete("/{code}", h.Products.HandleDelete)
			r.Post("/{code}/description", h.Descriptions.HandleProduct)
		})
		r.Post("/descriptions/generate", h.Descriptions.HandleGenerate)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Categories.HandleAdminList)
			r.Post("/", h.Categories.HandleCreate)
			r.Put("/{code}", h.Categories.HandleUpdate)
			r.Delete("/{code}", h.Categories.HandleDelete)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.HandleList)
			r.Get("/{reference}", h.Orders.HandleGet)
			r.Patch("/{reference}/status", h.Orders.HandleUpdateStatus)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", h.Messages.HandleList)
			r.Get("/{id}", h.Messages.HandleGet)
			r.Patch("/{id}/status", h.Messages.HandleUpdateStatus)
			r.Delete("/{id}", h.Messages.HandleDelete)
		})

		r.Route("/discounts", func(r chi.Router) {
			r.Get("/", h.Discounts.HandleList)
			r.Post("/", h.Discounts.HandleCreate)
			r.Get("/{code}", h.Discounts.HandleGet)
			r.Put("/{code}", h.Discounts.HandleUpdate)
			r.Delete("/{code}", h.Discounts.HandleDelete)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/stats", h.Stats.HandleStats)
			r.Get("/sales", h.Stats.HandleSales)
		})
	})

	return r
}
