package catalog

import "github.com/meli-challenge/catalog-api/internal/model"

// flattenRelated projects the related products of a product into the
// lightweight listing shape. IDs that do not resolve against the product
// collection are silently dropped; the relative order of the remaining
// entries is preserved.
//
// price comes from the base price and is not re-discounted. originalPrice
// is read from the first price option's stored value, which inherits
// whatever ordering the collection file has. image and alt fall back to
// empty strings for products without images.
func flattenRelated(relatedIDs []string, products map[string]*model.Product) []model.RelatedProduct {
	out := make([]model.RelatedProduct, 0, len(relatedIDs))
	for _, id := range relatedIDs {
		p, ok := products[id]
		if !ok || p == nil {
			continue
		}
		flat := model.RelatedProduct{
			ID:           p.ID,
			Name:         p.Title,
			Price:        p.BasePrice,
			FreeShipping: hasFreeShipping(p.Shipping),
		}
		if len(p.PriceOptions) > 0 && p.PriceOptions[0].OriginalPrice != nil {
			v := *p.PriceOptions[0].OriginalPrice
			flat.OriginalPrice = &v
		}
		if len(p.Images) > 0 {
			flat.Image = p.Images[0].URL
			flat.Alt = p.Images[0].Alt
		}
		out = append(out, flat)
	}
	return out
}

func hasFreeShipping(shipping []model.ShippingOption) bool {
	for _, opt := range shipping {
		if opt.Type == model.ShippingFree {
			return true
		}
	}
	return false
}
