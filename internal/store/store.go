// Package store implements the JSON-file collection store backing the
// catalog. Each collection is a single document on disk; a process-wide
// in-memory cache memoizes decoded documents so unchanged files are not
// re-read on every request.
//
// The cache is write-through: a successful save persists the document and
// replaces the cache entry for that collection. A failed save reports the
// failure and leaves both disk and cache as they were before the attempt —
// there is no rollback of mutations the caller performed on a loaded
// document. Concurrent load-mutate-save cycles on the same collection can
// still lose updates; the guard here protects the cache map, not the
// read-modify-write sequence. Swapping this package for a real datastore
// (or a per-collection transaction) is the designated upgrade path.
package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/meli-challenge/catalog-api/internal/metrics"
	"github.com/meli-challenge/catalog-api/internal/model"
	cerrors "github.com/meli-challenge/catalog-api/pkg/errors"
)

// Collection names. Each maps to <dataDir>/<name>.json on disk.
const (
	CollectionProducts  = "products"
	CollectionMerchants = "merchants"
	CollectionReviews   = "reviews"
	CollectionRelated   = "related_products"
)

// Store owns the collection files and their in-memory cache.
type Store struct {
	dir string
	log zerolog.Logger

	mu        sync.RWMutex
	cache     map[string]any
	selfWrite map[string]bool

	watcher *fsnotify.Watcher
}

// New creates a store rooted at dir. Nothing is read eagerly; collections
// are loaded and cached on first access.
func New(dir string, log zerolog.Logger) *Store {
	return &Store{
		dir:       dir,
		log:       log.With().Str("component", "store").Logger(),
		cache:     make(map[string]any),
		selfWrite: make(map[string]bool),
	}
}

// Path returns the on-disk location of a collection.
func (s *Store) Path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// Invalidate drops the cache entry for a collection so the next load
// re-reads the file.
func (s *Store) Invalidate(collection string) {
	s.mu.Lock()
	delete(s.cache, collection)
	s.mu.Unlock()
}

// load returns the cached document for a collection, reading and decoding
// the file on a cache miss. A missing or malformed file degrades to the
// zero document and is never fatal: callers treat "collection not found"
// the same as "collection is empty". Only successful reads are cached.
func load[T any](s *Store, collection string) T {
	s.mu.RLock()
	cached, ok := s.cache[collection]
	s.mu.RUnlock()
	if doc, hit := cached.(T); ok && hit {
		metrics.StoreCacheHit(collection)
		return doc
	}
	metrics.StoreCacheMiss(collection)

	var doc T
	raw, err := os.ReadFile(s.Path(collection))
	if err != nil {
		s.log.Error().Err(err).Str("collection", collection).Msg("failed to read collection file")
		return doc
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.log.Error().Err(err).Str("collection", collection).Msg("failed to decode collection file")
		var zero T
		return zero
	}

	s.mu.Lock()
	s.cache[collection] = doc
	s.mu.Unlock()
	return doc
}

// save persists a document and replaces its cache entry (write-through).
// On failure the cache keeps whatever it held before the attempt and a
// persistence error is returned.
func save[T any](s *Store, collection string, doc T) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		s.log.Error().Err(err).Str("collection", collection).Msg("failed to encode collection")
		return cerrors.NewCollectionError(collection, cerrors.ErrPersistence)
	}

	s.mu.Lock()
	s.selfWrite[collection] = true
	s.mu.Unlock()

	if err := os.WriteFile(s.Path(collection), raw, 0o644); err != nil {
		s.mu.Lock()
		s.selfWrite[collection] = false
		s.mu.Unlock()
		s.log.Error().Err(err).Str("collection", collection).Msg("failed to write collection file")
		return cerrors.NewCollectionError(collection, cerrors.ErrPersistence)
	}

	s.mu.Lock()
	s.cache[collection] = doc
	s.mu.Unlock()
	return nil
}

// Products loads the products collection.
func (s *Store) Products(ctx context.Context) model.ProductsDoc {
	return load[model.ProductsDoc](s, CollectionProducts)
}

// SaveProducts persists the products collection write-through.
func (s *Store) SaveProducts(ctx context.Context, doc model.ProductsDoc) error {
	return save(s, CollectionProducts, doc)
}

// Merchants loads the merchants collection.
func (s *Store) Merchants(ctx context.Context) model.MerchantsDoc {
	return load[model.MerchantsDoc](s, CollectionMerchants)
}

// Reviews loads the reviews collection.
func (s *Store) Reviews(ctx context.Context) model.ReviewsDoc {
	return load[model.ReviewsDoc](s, CollectionReviews)
}

// Related loads the related-products collection.
func (s *Store) Related(ctx context.Context) model.RelatedDoc {
	return load[model.RelatedDoc](s, CollectionRelated)
}

// Watch invalidates cache entries when collection files change on disk
// outside this process (seed reloads, manual edits). Writes performed by
// the store itself are suppressed so write-through entries survive their
// own fsnotify event. Watch returns once the watcher is installed; events
// are handled until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return cerrors.Wrap(err, "store: failed to create watcher")
	}
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return cerrors.Wrap(err, "store: failed to watch data directory")
	}
	s.watcher = w

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
					continue
				}
				collection := collectionForPath(ev.Name)
				if collection == "" {
					continue
				}
				s.mu.Lock()
				if s.selfWrite[collection] {
					s.selfWrite[collection] = false
					s.mu.Unlock()
					continue
				}
				delete(s.cache, collection)
				s.mu.Unlock()
				s.log.Info().Str("collection", collection).Msg("collection file changed on disk, cache invalidated")
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.log.Error().Err(err).Msg("watcher error")
			}
		}
	}()
	return nil
}

func collectionForPath(path string) string {
	name := filepath.Base(path)
	for _, c := range []string{CollectionProducts, CollectionMerchants, CollectionReviews, CollectionRelated} {
		if name == c+".json" {
			return c
		}
	}
	return ""
}
