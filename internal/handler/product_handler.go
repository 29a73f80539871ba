package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/meli-challenge/catalog-api/internal/catalog"
	"github.com/meli-challenge/catalog-api/internal/metrics"
)

// ProductHandler handles the product read endpoints.
type ProductHandler struct {
	service *catalog.Service
	log     zerolog.Logger
}

// NewProductHandler creates a product handler backed by the catalog
// service.
func NewProductHandler(service *catalog.Service, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{service: service, log: log}
}

// GetProduct handles GET /api/products/:id and returns the full enriched
// product detail.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.service.ProductDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, product)
}

// TrackView handles POST /api/products/:id/view. The event is
// fire-and-forget: it is logged and counted, and the endpoint always
// succeeds regardless of whether the product exists.
func (h *ProductHandler) TrackView(c *gin.Context) {
	productID := c.Param("id")
	metrics.RecordProductView(productID)
	h.log.Info().Str("product_id", productID).Msg("product viewed")
	respondMessage(c, "View tracked successfully")
}

// GetRelated handles GET /api/products/:id/related and returns the
// flattened related-product list. A product without related entries
// yields an empty list.
func (h *ProductHandler) GetRelated(c *gin.Context) {
	respondOK(c, h.service.RelatedProducts(c.Request.Context(), c.Param("id")))
}
