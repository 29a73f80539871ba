package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/meli-challenge/catalog-api/internal/catalog"
	"github.com/meli-challenge/catalog-api/internal/model"
)

// MerchantHandler handles the merchant endpoints, including the discount
// mutations.
type MerchantHandler struct {
	service *catalog.Service
	log     zerolog.Logger
}

// NewMerchantHandler creates a merchant handler backed by the catalog
// service.
func NewMerchantHandler(service *catalog.Service, log zerolog.Logger) *MerchantHandler {
	return &MerchantHandler{service: service, log: log}
}

// ListMerchants handles GET /api/merchants.
func (h *MerchantHandler) ListMerchants(c *gin.Context) {
	respondOK(c, h.service.Merchants(c.Request.Context()))
}

// GetMerchant handles GET /api/merchants/:id.
func (h *MerchantHandler) GetMerchant(c *gin.Context) {
	merchant, err := h.service.Merchant(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, merchant)
}

// ListMerchantProducts handles GET /api/merchant/:merchantId/products and
// returns the merchant's enriched products with price options filtered to
// the ones that merchant owns.
func (h *MerchantHandler) ListMerchantProducts(c *gin.Context) {
	respondOK(c, h.service.MerchantProducts(c.Request.Context(), c.Param("merchantId")))
}

// applyDiscountRequest is the PUT discount body. DiscountValue is a
// pointer so a missing field is distinguishable from an explicit zero.
type applyDiscountRequest struct {
	PriceOptionID string     `json:"priceOptionId"`
	DiscountType  string     `json:"discountType"`
	DiscountValue *float64   `json:"discountValue"`
	Reason        string     `json:"reason"`
	CampaignID    string     `json:"campaignId"`
	ValidUntil    *time.Time `json:"validUntil"`
}

func (r applyDiscountRequest) validate() string {
	if r.PriceOptionID == "" {
		return "priceOptionId is required"
	}
	if r.DiscountType != model.DiscountPercentage && r.DiscountType != model.DiscountFixed {
		return "discountType must be percentage or fixed"
	}
	if r.DiscountValue == nil {
		return "discountValue is required"
	}
	if *r.DiscountValue < 0 {
		return "discountValue must be non-negative"
	}
	return ""
}

// discountApplied is the data payload of a successful discount apply.
type discountApplied struct {
	Product         *model.Product  `json:"product"`
	AppliedDiscount *model.Discount `json:"appliedDiscount"`
}

// ApplyDiscount handles PUT /api/merchant/:merchantId/products/:productId/discount.
func (h *MerchantHandler) ApplyDiscount(c *gin.Context) {
	var req applyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	product, discount, err := h.service.ApplyDiscount(
		c.Request.Context(),
		c.Param("merchantId"),
		c.Param("productId"),
		catalog.DiscountRequest{
			PriceOptionID: req.PriceOptionID,
			Type:          req.DiscountType,
			Value:         *req.DiscountValue,
			Reason:        req.Reason,
			CampaignID:    req.CampaignID,
			ValidUntil:    req.ValidUntil,
		},
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, discountApplied{Product: product, AppliedDiscount: discount})
}

// removeDiscountRequest is the DELETE discount body.
type removeDiscountRequest struct {
	PriceOptionID string `json:"priceOptionId"`
}

// RemoveDiscount handles DELETE /api/merchant/:merchantId/products/:productId/discount.
func (h *MerchantHandler) RemoveDiscount(c *gin.Context) {
	var req removeDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PriceOptionID == "" {
		respondError(c, http.StatusBadRequest, "priceOptionId is required")
		return
	}

	product, err := h.service.RemoveDiscount(
		c.Request.Context(),
		c.Param("merchantId"),
		c.Param("productId"),
		req.PriceOptionID,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, product)
}
