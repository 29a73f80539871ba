package catalog

import (
	"github.com/meli-challenge/catalog-api/internal/model"
	"github.com/meli-challenge/catalog-api/internal/pricing"
)

// Enrich joins a product with merchant reference data and derives the
// sellable prices. It returns a deep copy; the input product is never
// mutated, so documents held by the store cache stay pristine.
//
// For each price option whose merchantId resolves against the mapping,
// the merchant summary is copied in as the seller, the final price is
// computed from the product's base price and the option's discount, and
// the per-installment amount is recomputed for options carrying an
// installment plan. originalPrice is set to the base price exactly when a
// discount is present, and cleared otherwise.
//
// Options whose merchantId is empty or does not resolve are left exactly
// as stored. That is not an error: a corrupt or missing merchants
// collection degrades to seller-less products rather than failing reads.
func Enrich(p *model.Product, merchants map[string]model.Merchant) *model.Product {
	enriched := p.Clone()
	for i := range enriched.PriceOptions {
		opt := &enriched.PriceOptions[i]
		if opt.MerchantID == "" {
			continue
		}
		merchant, ok := merchants[opt.MerchantID]
		if !ok {
			continue
		}

		opt.Seller = merchant.SellerSummary()
		opt.Price = pricing.Final(enriched.BasePrice, opt.Discount)
		if opt.Discount != nil {
			base := enriched.BasePrice
			opt.OriginalPrice = &base
		} else {
			opt.OriginalPrice = nil
		}
		if opt.Installments != nil && opt.Installments.Count > 0 {
			opt.Installments.Amount = pricing.InstallmentAmount(opt.Price, opt.Installments.Count)
		}
	}
	return enriched
}
