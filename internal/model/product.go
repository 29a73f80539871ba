// Package model defines the domain types served by the catalog API.
// The JSON shapes mirror the documents stored in the collection files,
// plus the derived fields attached during enrichment.
package model

import "time"

// Discount types understood by the pricing engine.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// ShippingFree is the shipping option type that marks an offer as free shipping.
const ShippingFree = "free"

// ProductImage is a single gallery entry for a product.
type ProductImage struct {
	ID        string `json:"id,omitempty"`
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// ProductVariant describes a selectable variant (color, memory, ...).
type ProductVariant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Value     string `json:"value"`
	Color     string `json:"color,omitempty"`
	Available bool   `json:"available"`
}

// Discount is a price reduction attached to a single price option.
// It is created by the discount manager and stored verbatim; validUntil
// is persisted but never consulted at read time.
type Discount struct {
	Type       string     `json:"type"`
	Value      float64    `json:"value"`
	AppliedAt  time.Time  `json:"appliedAt"`
	Reason     string     `json:"reason"`
	CampaignID string     `json:"campaignId"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`
}

// Seller is the merchant summary copied into a price option during
// enrichment. It is derived data and never persisted.
type Seller struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"displayName,omitempty"`
	IsOfficial  bool    `json:"isOfficial"`
	Verified    bool    `json:"verified"`
	Rating      float64 `json:"rating,omitempty"`
	SalesCount  string  `json:"salesCount,omitempty"`
	Location    string  `json:"location,omitempty"`
}

// Installments describes an installment plan on a price option.
// Amount is derived from the final price and recomputed on every read.
type Installments struct {
	Count        int     `json:"count"`
	Amount       float64 `json:"amount"`
	InterestFree bool    `json:"interestFree"`
}

// PriceOption is one merchant's sellable offer for a product.
//
// Price, OriginalPrice, Seller and Installments.Amount are derived by the
// enrichment pipeline; the stored document only carries the discount and
// the installment terms.
type PriceOption struct {
	ID            string        `json:"id"`
	Type          string        `json:"type,omitempty"`
	Title         string        `json:"title,omitempty"`
	MerchantID    string        `json:"merchantId,omitempty"`
	Price         float64       `json:"price"`
	OriginalPrice *float64      `json:"originalPrice,omitempty"`
	Description   string        `json:"description,omitempty"`
	Seller        *Seller       `json:"seller,omitempty"`
	Discount      *Discount     `json:"discount,omitempty"`
	Installments  *Installments `json:"installments,omitempty"`
	Selected      bool          `json:"selected,omitempty"`
}

// ShippingOption describes one way a product can be delivered.
type ShippingOption struct {
	Type           string `json:"type"`
	Description    string `json:"description,omitempty"`
	EstimatedDate  string `json:"estimatedDate,omitempty"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
}

// Stock describes product availability.
type Stock struct {
	Available   bool   `json:"available"`
	Quantity    int    `json:"quantity,omitempty"`
	FulfilledBy string `json:"fulfilledBy,omitempty"`
}

// PaymentMethods lists the payment options accepted for a product.
type PaymentMethods struct {
	CreditCard   bool `json:"creditCard"`
	DebitCard    bool `json:"debitCard"`
	Cash         bool `json:"cash"`
	Installments bool `json:"installments"`
	MercadoPago  bool `json:"mercadoPago"`
}

// FreeShippingPromo is a storefront banner threshold for free shipping.
type FreeShippingPromo struct {
	Threshold float64 `json:"threshold"`
	Message   string  `json:"message,omitempty"`
}

// Product is a full catalog record. Reviews and RelatedProducts are
// attached during detail assembly and are never written back to disk.
type Product struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Description       string             `json:"description,omitempty"`
	Condition         string             `json:"condition,omitempty"`
	Category          string             `json:"category,omitempty"`
	SalesCount        int                `json:"salesCount,omitempty"`
	BasePrice         float64            `json:"basePrice"`
	Images            []ProductImage     `json:"images,omitempty"`
	Reviews           *ReviewSummary     `json:"reviews,omitempty"`
	PriceOptions      []PriceOption      `json:"priceOptions,omitempty"`
	ColorVariants     []ProductVariant   `json:"colorVariants,omitempty"`
	MemoryVariants    []ProductVariant   `json:"memoryVariants,omitempty"`
	Features          []string           `json:"features,omitempty"`
	Specifications    map[string]string  `json:"specifications,omitempty"`
	Shipping          []ShippingOption   `json:"shipping,omitempty"`
	Stock             *Stock             `json:"stock,omitempty"`
	FreeShippingPromo *FreeShippingPromo `json:"freeShippingPromo,omitempty"`
	PaymentMethods    *PaymentMethods    `json:"paymentMethods,omitempty"`
	RelatedProducts   []RelatedProduct   `json:"relatedProducts,omitempty"`
}

// RelatedProduct is the lightweight projection used in related-product
// listings. It is derived and never persisted.
type RelatedProduct struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Image         string   `json:"image"`
	Alt           string   `json:"alt"`
	FreeShipping  bool     `json:"freeShipping"`
}

// Clone returns a deep copy of the product. Enrichment operates on clones
// so the documents held by the store cache are never mutated by a read.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p

	cp.Images = append([]ProductImage(nil), p.Images...)
	cp.ColorVariants = append([]ProductVariant(nil), p.ColorVariants...)
	cp.MemoryVariants = append([]ProductVariant(nil), p.MemoryVariants...)
	cp.Features = append([]string(nil), p.Features...)
	cp.Shipping = append([]ShippingOption(nil), p.Shipping...)
	cp.RelatedProducts = append([]RelatedProduct(nil), p.RelatedProducts...)

	if p.Specifications != nil {
		cp.Specifications = make(map[string]string, len(p.Specifications))
		for k, v := range p.Specifications {
			cp.Specifications[k] = v
		}
	}
	if p.Reviews != nil {
		r := *p.Reviews
		cp.Reviews = &r
	}
	if p.Stock != nil {
		s := *p.Stock
		cp.Stock = &s
	}
	if p.FreeShippingPromo != nil {
		f := *p.FreeShippingPromo
		cp.FreeShippingPromo = &f
	}
	if p.PaymentMethods != nil {
		m := *p.PaymentMethods
		cp.PaymentMethods = &m
	}

	if p.PriceOptions != nil {
		cp.PriceOptions = make([]PriceOption, len(p.PriceOptions))
		for i := range p.PriceOptions {
			cp.PriceOptions[i] = p.PriceOptions[i].clone()
		}
	}
	return &cp
}

func (o PriceOption) clone() PriceOption {
	cp := o
	if o.OriginalPrice != nil {
		v := *o.OriginalPrice
		cp.OriginalPrice = &v
	}
	if o.Seller != nil {
		s := *o.Seller
		cp.Seller = &s
	}
	if o.Discount != nil {
		d := *o.Discount
		if o.Discount.ValidUntil != nil {
			t := *o.Discount.ValidUntil
			d.ValidUntil = &t
		}
		cp.Discount = &d
	}
	if o.Installments != nil {
		in := *o.Installments
		cp.Installments = &in
	}
	return cp
}
