package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/meli-challenge/catalog-api/internal/model"
	cerrors "github.com/meli-challenge/catalog-api/pkg/errors"
)

// defaultDiscountReason is recorded when a discount request carries no
// reason of its own.
const defaultDiscountReason = "merchant discount"

// DiscountRequest carries the validated fields of an apply-discount call.
// Reason, CampaignID and ValidUntil are optional; empty values are
// defaulted when the discount is built.
type DiscountRequest struct {
	PriceOptionID string
	Type          string
	Value         float64
	Reason        string
	CampaignID    string
	ValidUntil    *time.Time
}

// ApplyDiscount sets a discount on one of a merchant's price options and
// persists the products collection.
//
// The target option is the first one matching both the option ID and the
// merchant: an option owned by a different merchant is invisible to this
// call. An existing discount is overwritten, not merged. The sequence is
// validate, mutate, persist — if the save fails the in-memory document
// keeps the mutation and a persistence error is returned; there is no
// rollback.
//
// On success the freshly re-enriched product detail and the applied
// discount are returned.
func (s *Service) ApplyDiscount(ctx context.Context, merchantID, productID string, req DiscountRequest) (*model.Product, *model.Discount, error) {
	products := s.store.Products(ctx)
	p, ok := products.Products[productID]
	if !ok || p == nil {
		return nil, nil, cerrors.ErrProductNotFound
	}

	idx := findPriceOption(p, req.PriceOptionID, merchantID)
	if idx < 0 {
		return nil, nil, cerrors.ErrPriceOptionNotFound
	}

	now := s.now()
	discount := &model.Discount{
		Type:       req.Type,
		Value:      req.Value,
		AppliedAt:  now,
		Reason:     req.Reason,
		CampaignID: req.CampaignID,
		ValidUntil: req.ValidUntil,
	}
	if discount.Reason == "" {
		discount.Reason = defaultDiscountReason
	}
	if discount.CampaignID == "" {
		discount.CampaignID = fmt.Sprintf("campaign_%d", now.Unix())
	}

	p.PriceOptions[idx].Discount = discount
	if err := s.store.SaveProducts(ctx, products); err != nil {
		return nil, nil, err
	}

	s.log.Info().
		Str("merchant_id", merchantID).
		Str("product_id", productID).
		Str("price_option_id", req.PriceOptionID).
		Str("discount_type", discount.Type).
		Float64("discount_value", discount.Value).
		Str("campaign_id", discount.CampaignID).
		Msg("discount applied")

	enriched, err := s.ProductDetail(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	return enriched, discount, nil
}

// RemoveDiscount clears the discount from one of a merchant's price
// options and persists the products collection. The matching rule is the
// same as ApplyDiscount. An option that exists but carries no discount is
// reported as not found, indistinguishable from a missing option at the
// response level.
func (s *Service) RemoveDiscount(ctx context.Context, merchantID, productID, priceOptionID string) (*model.Product, error) {
	products := s.store.Products(ctx)
	p, ok := products.Products[productID]
	if !ok || p == nil {
		return nil, cerrors.ErrProductNotFound
	}

	idx := findPriceOption(p, priceOptionID, merchantID)
	if idx < 0 {
		return nil, cerrors.ErrPriceOptionNotFound
	}
	if p.PriceOptions[idx].Discount == nil {
		return nil, cerrors.ErrDiscountNotFound
	}

	p.PriceOptions[idx].Discount = nil
	if err := s.store.SaveProducts(ctx, products); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("merchant_id", merchantID).
		Str("product_id", productID).
		Str("price_option_id", priceOptionID).
		Msg("discount removed")

	return s.ProductDetail(ctx, productID)
}

// findPriceOption returns the index of the first price option matching
// both the option ID and the owning merchant, or -1.
func findPriceOption(p *model.Product, priceOptionID, merchantID string) int {
	for i := range p.PriceOptions {
		if p.PriceOptions[i].ID == priceOptionID && p.PriceOptions[i].MerchantID == merchantID {
			return i
		}
	}
	return -1
}
