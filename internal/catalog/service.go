// Package catalog implements the business logic of the catalog API: the
// enrichment pipeline that joins products with merchant, review and
// related-product reference data, and the discount manager that mutates
// price options.
package catalog

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/meli-challenge/catalog-api/internal/model"
	"github.com/meli-challenge/catalog-api/internal/store"
	cerrors "github.com/meli-challenge/catalog-api/pkg/errors"
)

// Service exposes the catalog operations consumed by the HTTP handlers.
type Service struct {
	store *store.Store
	log   zerolog.Logger
	now   func() time.Time
}

// New creates a catalog service on top of the given store.
func New(st *store.Store, log zerolog.Logger) *Service {
	return &Service{
		store: st,
		log:   log.With().Str("component", "catalog").Logger(),
		now:   time.Now,
	}
}

// ProductDetail assembles the full enriched view of a product: seller and
// derived prices per price option, the review aggregate and the flattened
// related-product list. The stored document is never mutated.
func (s *Service) ProductDetail(ctx context.Context, productID string) (*model.Product, error) {
	products := s.store.Products(ctx)
	p, ok := products.Products[productID]
	if !ok || p == nil {
		return nil, cerrors.ErrProductNotFound
	}

	merchants := s.store.Merchants(ctx).Merchants
	enriched := Enrich(p, merchants)

	review := s.store.Reviews(ctx).Reviews[productID]
	enriched.Reviews = &review

	enriched.RelatedProducts = flattenRelated(
		s.store.Related(ctx).RelatedProducts[productID],
		products.Products,
	)
	return enriched, nil
}

// RelatedProducts returns the flattened related-product list for a
// product. A product without related entries yields an empty list, never
// an error.
func (s *Service) RelatedProducts(ctx context.Context, productID string) []model.RelatedProduct {
	return flattenRelated(
		s.store.Related(ctx).RelatedProducts[productID],
		s.store.Products(ctx).Products,
	)
}

// Merchants returns the full merchant mapping. A missing or unreadable
// merchants collection degrades to an empty mapping.
func (s *Service) Merchants(ctx context.Context) map[string]model.Merchant {
	merchants := s.store.Merchants(ctx).Merchants
	if merchants == nil {
		merchants = map[string]model.Merchant{}
	}
	return merchants
}

// Merchant returns a single merchant record by ID.
func (s *Service) Merchant(ctx context.Context, merchantID string) (model.Merchant, error) {
	m, ok := s.store.Merchants(ctx).Merchants[merchantID]
	if !ok {
		return model.Merchant{}, cerrors.ErrMerchantNotFound
	}
	return m, nil
}

// MerchantProducts returns the enriched products a merchant sells, with
// each product's price options filtered down to the ones owned by that
// merchant. Products with no option for the merchant are excluded. The
// result is ordered by product ID so responses are stable across the
// unordered collection mapping.
func (s *Service) MerchantProducts(ctx context.Context, merchantID string) []*model.Product {
	products := s.store.Products(ctx).Products
	merchants := s.store.Merchants(ctx).Merchants

	ids := make([]string, 0, len(products))
	for id := range products {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*model.Product, 0)
	for _, id := range ids {
		p := products[id]
		if p == nil {
			continue
		}
		owned := make([]model.PriceOption, 0, len(p.PriceOptions))
		enriched := Enrich(p, merchants)
		for _, opt := range enriched.PriceOptions {
			if opt.MerchantID == merchantID {
				owned = append(owned, opt)
			}
		}
		if len(owned) == 0 {
			continue
		}
		enriched.PriceOptions = owned
		out = append(out, enriched)
	}
	return out
}
