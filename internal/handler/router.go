package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/meli-challenge/catalog-api/configs"
	"github.com/meli-challenge/catalog-api/internal/catalog"
	"github.com/meli-challenge/catalog-api/internal/metrics"
	"github.com/meli-challenge/catalog-api/internal/middleware"
)

// NewRouter builds the gin engine with the full middleware chain and all
// catalog routes.
func NewRouter(cfg *configs.Config, service *catalog.Service, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics())
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	productHandler := NewProductHandler(service, log)
	merchantHandler := NewMerchantHandler(service, log)

	api := router.Group("/api")
	{
		api.GET("/products/:id", productHandler.GetProduct)
		api.POST("/products/:id/view", productHandler.TrackView)
		api.GET("/products/:id/related", productHandler.GetRelated)

		api.GET("/merchants", merchantHandler.ListMerchants)
		api.GET("/merchants/:id", merchantHandler.GetMerchant)

		merchant := api.Group("/merchant/:merchantId")
		{
			merchant.GET("/products", merchantHandler.ListMerchantProducts)
			merchant.PUT("/products/:productId/discount", merchantHandler.ApplyDiscount)
			merchant.DELETE("/products/:productId/discount", merchantHandler.RemoveDiscount)
		}
	}

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
