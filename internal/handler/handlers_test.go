package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/meli-challenge/catalog-api/configs"
	"github.com/meli-challenge/catalog-api/internal/catalog"
	"github.com/meli-challenge/catalog-api/internal/model"
	"github.com/meli-challenge/catalog-api/internal/store"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	dir := t.TempDir()

	writeDoc(t, dir, "products", model.ProductsDoc{Products: map[string]*model.Product{
		"P1": {
			ID:        "P1",
			Title:     "Test Phone",
			BasePrice: 100000,
			PriceOptions: []model.PriceOption{
				{ID: "O1", MerchantID: "M1"},
				{ID: "O2", MerchantID: "M2"},
			},
			Shipping: []model.ShippingOption{{Type: "free"}},
		},
		"P2": {
			ID:        "P2",
			Title:     "Second Phone",
			BasePrice: 50000,
			PriceOptions: []model.PriceOption{
				{ID: "O1", MerchantID: "M1"},
			},
		},
	}})
	writeDoc(t, dir, "merchants", model.MerchantsDoc{Merchants: map[string]model.Merchant{
		"M1": {Name: "MERCHANT ONE", DisplayName: "Merchant One", Verified: true},
		"M2": {Name: "MERCHANT TWO"},
	}})
	writeDoc(t, dir, "reviews", model.ReviewsDoc{Reviews: map[string]model.ReviewSummary{
		"P1": {Rating: 4.7, Count: 12},
	}})
	writeDoc(t, dir, "related_products", model.RelatedDoc{RelatedProducts: map[string][]string{
		"P1": {"P2"},
	}})

	cfg := configs.DefaultConfig()
	cfg.Server.Mode = "test"

	st := store.New(dir, zerolog.Nop())
	service := catalog.New(st, zerolog.Nop())
	return NewRouter(cfg, service, zerolog.Nop())
}

func writeDoc(t *testing.T, dir, collection string, doc any) {
	t.Helper()
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal %s: %v", collection, err)
	}
	if err := os.WriteFile(filepath.Join(dir, collection+".json"), raw, 0o644); err != nil {
		t.Fatalf("write %s: %v", collection, err)
	}
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: response is not an envelope: %v\n%s", method, path, err, w.Body.String())
	}
	return w, env
}

func TestGetProductDetail(t *testing.T) {
	router := newTestRouter(t)
	w, env := doRequest(t, router, http.MethodGet, "/api/products/P1", nil)

	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d, success = %v", w.Code, env.Success)
	}
	var p model.Product
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatal(err)
	}
	if p.ID != "P1" {
		t.Fatalf("product id = %q", p.ID)
	}
	opt := p.PriceOptions[0]
	if opt.Price != 100000 {
		t.Fatalf("price = %v, want 100000", opt.Price)
	}
	if opt.OriginalPrice != nil {
		t.Fatalf("originalPrice = %v, want absent without discount", *opt.OriginalPrice)
	}
	if opt.Seller == nil || opt.Seller.Name != "MERCHANT ONE" {
		t.Fatalf("seller = %+v", opt.Seller)
	}
	if p.Reviews == nil || p.Reviews.Count != 12 {
		t.Fatalf("reviews = %+v", p.Reviews)
	}
	if len(p.RelatedProducts) != 1 || p.RelatedProducts[0].ID != "P2" {
		t.Fatalf("relatedProducts = %+v", p.RelatedProducts)
	}
}

func TestGetProductNotFound(t *testing.T) {
	router := newTestRouter(t)
	w, env := doRequest(t, router, http.MethodGet, "/api/products/unknown", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if env.Success {
		t.Fatal("success should be false")
	}
	if env.Message != "Product not found" {
		t.Fatalf("message = %q", env.Message)
	}
}

func TestTrackViewAlwaysSucceeds(t *testing.T) {
	router := newTestRouter(t)
	w, env := doRequest(t, router, http.MethodPost, "/api/products/unknown/view", nil)

	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d, success = %v", w.Code, env.Success)
	}
	if env.Message != "View tracked successfully" {
		t.Fatalf("message = %q", env.Message)
	}
}

func TestGetRelatedEmptyList(t *testing.T) {
	router := newTestRouter(t)
	w, env := doRequest(t, router, http.MethodGet, "/api/products/P2/related", nil)

	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d, success = %v", w.Code, env.Success)
	}
	if string(env.Data) != "[]" {
		t.Fatalf("data = %s, want []", env.Data)
	}
}

func TestListMerchants(t *testing.T) {
	router := newTestRouter(t)
	w, env := doRequest(t, router, http.MethodGet, "/api/merchants", nil)

	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d, success = %v", w.Code, env.Success)
	}
	var merchants map[string]model.Merchant
	if err := json.Unmarshal(env.Data, &merchants); err != nil {
		t.Fatal(err)
	}
	if len(merchants) != 2 {
		t.Fatalf("got %d merchants, want 2", len(merchants))
	}
}

func TestGetMerchantNotFound(t *testing.T) {
	router := newTestRouter(t)
	w, env := doRequest(t, router, http.MethodGet, "/api/merchants/unknown", nil)

	if w.Code != http.StatusNotFound || env.Success {
		t.Fatalf("status = %d, success = %v", w.Code, env.Success)
	}
	if env.Message != "Merchant not found" {
		t.Fatalf("message = %q", env.Message)
	}
}

func TestDiscountLifecycle(t *testing.T) {
	router := newTestRouter(t)

	// Apply a fixed discount.
	w, env := doRequest(t, router, http.MethodPut, "/api/merchant/M1/products/P1/discount", map[string]any{
		"priceOptionId": "O1",
		"discountType":  "fixed",
		"discountValue": 10000,
		"reason":        "test discount",
	})
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("apply: status = %d, body = %s", w.Code, w.Body.String())
	}
	var applied struct {
		Product         *model.Product  `json:"product"`
		AppliedDiscount *model.Discount `json:"appliedDiscount"`
	}
	if err := json.Unmarshal(env.Data, &applied); err != nil {
		t.Fatal(err)
	}
	if applied.AppliedDiscount.Type != "fixed" {
		t.Fatalf("appliedDiscount.type = %q", applied.AppliedDiscount.Type)
	}
	if applied.AppliedDiscount.CampaignID == "" {
		t.Fatal("campaignId should be defaulted")
	}

	// Detail now shows the discounted price.
	_, env = doRequest(t, router, http.MethodGet, "/api/products/P1", nil)
	var p model.Product
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatal(err)
	}
	if p.PriceOptions[0].Price != 90000 {
		t.Fatalf("price after discount = %v, want 90000", p.PriceOptions[0].Price)
	}
	if p.PriceOptions[0].OriginalPrice == nil || *p.PriceOptions[0].OriginalPrice != 100000 {
		t.Fatalf("originalPrice after discount = %v, want 100000", p.PriceOptions[0].OriginalPrice)
	}

	// Remove it again.
	w, env = doRequest(t, router, http.MethodDelete, "/api/merchant/M1/products/P1/discount", map[string]any{
		"priceOptionId": "O1",
	})
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("remove: status = %d, body = %s", w.Code, w.Body.String())
	}

	_, env = doRequest(t, router, http.MethodGet, "/api/products/P1", nil)
	p = model.Product{}
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatal(err)
	}
	if p.PriceOptions[0].Price != 100000 {
		t.Fatalf("price after removal = %v, want 100000", p.PriceOptions[0].Price)
	}
	if p.PriceOptions[0].OriginalPrice != nil {
		t.Fatalf("originalPrice after removal = %v, want absent", *p.PriceOptions[0].OriginalPrice)
	}
}

func TestApplyDiscountValidation(t *testing.T) {
	router := newTestRouter(t)
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing priceOptionId", map[string]any{"discountType": "fixed", "discountValue": 1}},
		{"missing discountType", map[string]any{"priceOptionId": "O1", "discountValue": 1}},
		{"unknown discountType", map[string]any{"priceOptionId": "O1", "discountType": "bogo", "discountValue": 1}},
		{"missing discountValue", map[string]any{"priceOptionId": "O1", "discountType": "fixed"}},
		{"negative discountValue", map[string]any{"priceOptionId": "O1", "discountType": "fixed", "discountValue": -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := doRequest(t, router, http.MethodPut, "/api/merchant/M1/products/P1/discount", tt.body)
			if w.Code != http.StatusBadRequest || env.Success {
				t.Fatalf("status = %d, success = %v", w.Code, env.Success)
			}
		})
	}
}

func TestApplyDiscountForeignMerchant(t *testing.T) {
	router := newTestRouter(t)
	// O2 belongs to M2; M1 must get a 404.
	w, env := doRequest(t, router, http.MethodPut, "/api/merchant/M1/products/P1/discount", map[string]any{
		"priceOptionId": "O2",
		"discountType":  "fixed",
		"discountValue": 1,
	})
	if w.Code != http.StatusNotFound || env.Success {
		t.Fatalf("status = %d, success = %v", w.Code, env.Success)
	}
}

func TestRemoveDiscountRequiresPriceOptionID(t *testing.T) {
	router := newTestRouter(t)
	w, env := doRequest(t, router, http.MethodDelete, "/api/merchant/M1/products/P1/discount", map[string]any{})
	if w.Code != http.StatusBadRequest || env.Success {
		t.Fatalf("status = %d, success = %v", w.Code, env.Success)
	}
}

func TestRemoveDiscountWithoutDiscount(t *testing.T) {
	router := newTestRouter(t)
	w, env := doRequest(t, router, http.MethodDelete, "/api/merchant/M1/products/P2/discount", map[string]any{
		"priceOptionId": "O1",
	})
	if w.Code != http.StatusNotFound || env.Success {
		t.Fatalf("status = %d, success = %v", w.Code, env.Success)
	}
}

func TestListMerchantProductsFiltered(t *testing.T) {
	router := newTestRouter(t)
	w, env := doRequest(t, router, http.MethodGet, "/api/merchant/M1/products", nil)

	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d, success = %v", w.Code, env.Success)
	}
	var products []model.Product
	if err := json.Unmarshal(env.Data, &products); err != nil {
		t.Fatal(err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}
	for _, p := range products {
		for _, opt := range p.PriceOptions {
			if opt.MerchantID != "M1" {
				t.Fatalf("product %s leaked option of merchant %q", p.ID, opt.MerchantID)
			}
		}
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
