package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/arenashop/storefront/app"
	"github.com/arenashop/storefront/app/catalog"
	"github.com/arenashop/storefront/app/categories"
	"github.com/arenashop/storefront/app/descriptions"
	"github.com/arenashop/storefront/app/discounts"
	"github.com/arenashop/storefront/app/messages"
	"github.com/arenashop/storefront/app/orders"
	"github.com/arenashop/storefront/app/products"
	"github.com/arenashop/storefront/app/stats"
	"github.com/arenashop/storefront/checkout"
	"github.com/arenashop/storefront/dashboard"
	"github.com/arenashop/storefront/models"
	"github.com/arenashop/storefront/pricing"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(db *gorm.DB) error {
			handler, err := buildRouter(cmd.Context(), db)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), handler)
		})
	},
}

func buildRouter(ctx context.Context, db *gorm.DB) (http.Handler, error) {
	if cfg.App.AdminToken == "" {
		logger.Warn("ADMIN_TOKEN is empty, the admin API will reject every request")
	}

	converter, err := pricing.NewConverter(cfg.Store.BaseCurrency, cfg.Store.CurrencyRates)
	if err != nil {
		return nil, err
	}
	generator, err := newGenerator(ctx)
	if err != nil {
		return nil, err
	}

	prodRepo := models.NewProductsRepository(db)
	catRepo := models.NewCategoriesRepository(db)
	orderRepo := models.NewOrdersRepository(db)
	msgRepo := models.NewMessagesRepository(db)
	discountRepo := models.NewDiscountCodesRepository(db)

	checkoutSvc := checkout.NewService(db, pricing.ShippingRules{
		Fee:           decimal.NewFromFloat(cfg.Store.ShippingFee),
		FreeThreshold: decimal.NewFromFloat(cfg.Store.FreeShippingThreshold),
	}, logger)
	dashboardSvc := dashboard.NewService(models.NewStatsRepository(db), cfg.Store.LowStockThreshold)

	return app.NewRouter(app.Handlers{
		Catalog:      catalog.NewCatalogHandler(prodRepo, converter),
		Categories:   categories.NewCategoryHandler(catRepo),
		Products:     products.NewProductHandler(prodRepo),
		Descriptions: descriptions.NewDescriptionHandler(generator, prodRepo, converter.Base(), logger),
		Orders:       orders.NewOrderHandler(checkoutSvc, orderRepo, logger),
		Messages:     messages.NewMessageHandler(msgRepo),
		Discounts:    discounts.NewDiscountHandler(discountRepo),
		Stats:        stats.NewStatsHandler(dashboardSvc, converter.Base(), logger),
	}, cfg.App.AdminToken, logger), nil
}

// serve runs the server until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, handler http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
