// Package pricing implements the price computation rules applied during
// enrichment. All functions are pure; they never touch the store.
package pricing

import (
	"math"

	"github.com/meli-challenge/catalog-api/internal/model"
)

// Final computes the sellable price for a base price under an optional
// discount.
//
// A nil discount yields the base price. Percentage discounts are applied
// without flooring; fixed discounts never push the price below zero. An
// unrecognized discount type behaves as "no discount" — values already
// stored with an unknown type degrade silently rather than erroring.
func Final(basePrice float64, d *model.Discount) float64 {
	if d == nil {
		return basePrice
	}
	switch d.Type {
	case model.DiscountPercentage:
		return basePrice - basePrice*d.Value/100
	case model.DiscountFixed:
		return math.Max(basePrice-d.Value, 0)
	default:
		return basePrice
	}
}

// InstallmentAmount computes the per-installment amount for a final price,
// rounded to the nearest whole currency unit. Callers only invoke this for
// a positive installment count.
func InstallmentAmount(finalPrice float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	return math.Round(finalPrice / float64(count))
}
