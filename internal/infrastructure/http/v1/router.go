// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"wisma/internal/domain/balance"
	"wisma/internal/domain/booking"
	"wisma/internal/domain/cancellation"
	"wisma/internal/domain/invoice"
	"wisma/internal/domain/pricing"
	"wisma/internal/infrastructure/http/v1/handlers"
	"wisma/internal/infrastructure/http/v1/middleware"
	"wisma/internal/infrastructure/storage/postgres"
	"wisma/pkg/logger"
)

// RouterConfig holds the services the API surfaces.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	Bookings *booking.Service
	Resolver *booking.Resolver
	Cascades *cancellation.Service
	Invoices *invoice.Service
	Balances *balance.Aggregator
	Tariff   pricing.Tariff
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	bookingHandler := handlers.NewBookingHandler(cfg.Bookings, cfg.Resolver, cfg.Cascades)
	ledgerHandler := handlers.NewLedgerHandler(cfg.Balances, cfg.Invoices, cfg.Resolver, cfg.Tariff)

	api := router.Group("/api/v1")
	{
		bookings := api.Group("/bookings")
		{
			bookings.POST("/:domain", bookingHandler.Create)
			bookings.GET("/:domain/:reference", bookingHandler.Get)
			bookings.POST("/:domain/:reference/cancel", bookingHandler.Cancel)
			bookings.POST("/:domain/:reference/invoice", ledgerHandler.CreateHallInvoice)
		}

		api.GET("/balances", ledgerHandler.Balances)
		api.GET("/pricing/hall", ledgerHandler.QuoteHall)
		api.GET("/invoices/:id", ledgerHandler.GetInvoice)
	}

	return router
}
