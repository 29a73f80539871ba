package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/meli-challenge/catalog-api/internal/model"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	return New(dir, zerolog.Nop()), dir
}

func writeCollection(t *testing.T, dir, collection string, doc any) {
	t.Helper()
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal %s: %v", collection, err)
	}
	if err := os.WriteFile(filepath.Join(dir, collection+".json"), raw, 0o644); err != nil {
		t.Fatalf("write %s: %v", collection, err)
	}
}

func TestLoadMissingFileDegradesToEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	doc := s.Products(context.Background())
	if doc.Products != nil {
		t.Fatalf("missing products file should yield empty doc, got %v", doc.Products)
	}
}

func TestLoadMalformedFileDegradesToEmpty(t *testing.T) {
	s, dir := newTestStore(t)
	if err := os.WriteFile(filepath.Join(dir, "merchants.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc := s.Merchants(context.Background())
	if doc.Merchants != nil {
		t.Fatalf("malformed merchants file should yield empty doc, got %v", doc.Merchants)
	}
}

func TestLoadCachesUntilInvalidated(t *testing.T) {
	s, dir := newTestStore(t)
	writeCollection(t, dir, CollectionMerchants, model.MerchantsDoc{
		Merchants: map[string]model.Merchant{"m1": {Name: "FIRST"}},
	})

	got := s.Merchants(context.Background())
	if got.Merchants["m1"].Name != "FIRST" {
		t.Fatalf("unexpected first load: %+v", got)
	}

	// Rewrite the file behind the cache; the cached document must win.
	writeCollection(t, dir, CollectionMerchants, model.MerchantsDoc{
		Merchants: map[string]model.Merchant{"m1": {Name: "SECOND"}},
	})
	got = s.Merchants(context.Background())
	if got.Merchants["m1"].Name != "FIRST" {
		t.Fatalf("load after external rewrite returned %q, want cached FIRST", got.Merchants["m1"].Name)
	}

	s.Invalidate(CollectionMerchants)
	got = s.Merchants(context.Background())
	if got.Merchants["m1"].Name != "SECOND" {
		t.Fatalf("load after invalidate returned %q, want SECOND", got.Merchants["m1"].Name)
	}
}

func TestSaveIsWriteThrough(t *testing.T) {
	s, dir := newTestStore(t)
	doc := model.ProductsDoc{
		Products: map[string]*model.Product{
			"P1": {ID: "P1", Title: "product one", BasePrice: 100000},
		},
	}
	if err := s.SaveProducts(context.Background(), doc); err != nil {
		t.Fatalf("SaveProducts: %v", err)
	}

	// Cache serves the saved document.
	got := s.Products(context.Background())
	if got.Products["P1"].Title != "product one" {
		t.Fatalf("cache after save: %+v", got)
	}

	// Disk holds the saved document too.
	raw, err := os.ReadFile(filepath.Join(dir, "products.json"))
	if err != nil {
		t.Fatal(err)
	}
	var onDisk model.ProductsDoc
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatal(err)
	}
	if onDisk.Products["P1"].BasePrice != 100000 {
		t.Fatalf("disk after save: %+v", onDisk)
	}
}

func TestSaveFailureReportsPersistenceError(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "does-not-exist"), zerolog.Nop())
	err := s.SaveProducts(context.Background(), model.ProductsDoc{
		Products: map[string]*model.Product{"P1": {ID: "P1"}},
	})
	if err == nil {
		t.Fatal("expected save to a missing directory to fail")
	}
}

func TestSaveFailureKeepsCacheEntry(t *testing.T) {
	s, dir := newTestStore(t)
	writeCollection(t, dir, CollectionProducts, model.ProductsDoc{
		Products: map[string]*model.Product{"P1": {ID: "P1", Title: "cached"}},
	})
	loaded := s.Products(context.Background())
	if loaded.Products["P1"].Title != "cached" {
		t.Fatalf("warm-up load: %+v", loaded)
	}

	// Make the write fail by removing the data directory.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	loaded.Products["P1"].Title = "mutated"
	if err := s.SaveProducts(context.Background(), loaded); err == nil {
		t.Fatal("expected save to fail")
	}

	// The cached document (including the caller's mutation on the shared
	// pointer) is still served; there is no rollback.
	got := s.Products(context.Background())
	if got.Products["P1"].Title != "mutated" {
		t.Fatalf("cache after failed save: %+v", got.Products["P1"])
	}
}

func TestWatchInvalidatesOnExternalChange(t *testing.T) {
	s, dir := newTestStore(t)
	writeCollection(t, dir, CollectionReviews, model.ReviewsDoc{
		Reviews: map[string]model.ReviewSummary{"P1": {Rating: 4, Count: 10}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Watch(ctx); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if got := s.Reviews(ctx); got.Reviews["P1"].Count != 10 {
		t.Fatalf("warm-up load: %+v", got)
	}

	writeCollection(t, dir, CollectionReviews, model.ReviewsDoc{
		Reviews: map[string]model.ReviewSummary{"P1": {Rating: 5, Count: 11}},
	})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := s.Reviews(ctx); got.Reviews["P1"].Count == 11 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("cache was not invalidated after external file change")
}
