package model

// Merchant is read-only reference data keyed by merchant ID in the
// merchants collection. Records are never mutated by this service.
type Merchant struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"displayName"`
	IsOfficial  bool    `json:"isOfficial"`
	Verified    bool    `json:"verified"`
	Rating      float64 `json:"rating,omitempty"`
	SalesCount  string  `json:"salesCount,omitempty"`
	Location    string  `json:"location,omitempty"`
}

// SellerSummary projects a merchant into the shape embedded in an
// enriched price option.
func (m Merchant) SellerSummary() *Seller {
	return &Seller{
		Name:        m.Name,
		DisplayName: m.DisplayName,
		IsOfficial:  m.IsOfficial,
		Verified:    m.Verified,
		Rating:      m.Rating,
		SalesCount:  m.SalesCount,
		Location:    m.Location,
	}
}

// ReviewSummary is the per-product review aggregate from the reviews
// collection. Field-level omitempty keeps an absent aggregate serialized
// as an empty object, matching the wire contract for products without
// reviews.
type ReviewSummary struct {
	Rating float64 `json:"rating,omitempty"`
	Count  int     `json:"count,omitempty"`
}

// Document shapes for the collection files. Each file holds a single
// top-level mapping from entity ID to record.

// ProductsDoc is the on-disk layout of the products collection.
type ProductsDoc struct {
	Products map[string]*Product `json:"products"`
}

// MerchantsDoc is the on-disk layout of the merchants collection.
type MerchantsDoc struct {
	Merchants map[string]Merchant `json:"merchants"`
}

// ReviewsDoc is the on-disk layout of the reviews collection.
type ReviewsDoc struct {
	Reviews map[string]ReviewSummary `json:"reviews"`
}

// RelatedDoc is the on-disk layout of the related-products collection,
// mapping a product ID to its ordered list of related product IDs.
type RelatedDoc struct {
	RelatedProducts map[string][]string `json:"relatedProducts"`
}
