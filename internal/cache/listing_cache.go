package cache

import (
	"errors"
	"time"

	"github.com/coocood/freecache"
	"github.com/prometheus/client_golang/prometheus"
)

// default 10 MB - the public listings are small JSON payloads
const defaultCacheSize = 10 * 1024 * 1024

var ErrCacheMiss = errors.New("cache miss")

// ListingCache keeps rendered JSON payloads of the public storefront
// listings (products, posts, gallery, hero) so repeated anonymous
// traffic does not hit postgres. Admin writes invalidate the affected
// key; entries otherwise age out with the configured TTL.
type ListingCache struct {
	cache *freecache.Cache
	ttl   time.Duration

	counterHits   prometheus.Counter
	counterMisses prometheus.Counter
}

func NewListingCache(ttl time.Duration) *ListingCache {
	return &ListingCache{
		cache: freecache.NewCache(defaultCacheSize),
		ttl:   ttl,
	}
}

// InstrumentWith attaches hit/miss counters. Safe to skip in tests.
func (lc *ListingCache) InstrumentWith(hits, misses prometheus.Counter) {
	lc.counterHits = hits
	lc.counterMisses = misses
}

func (lc *ListingCache) Get(key string) ([]byte, error) {
	val, err := lc.cache.Get([]byte(key))
	if err != nil {
		if lc.counterMisses != nil {
			lc.counterMisses.Inc()
		}
		return nil, ErrCacheMiss
	}
	if lc.counterHits != nil {
		lc.counterHits.Inc()
	}
	return val, nil
}

func (lc *ListingCache) Set(key string, payload []byte) {
	// freecache only fails on oversized entries, which just means
	// the payload will be served uncached
	_ = lc.cache.Set([]byte(key), payload, int(lc.ttl.Seconds()))
}

func (lc *ListingCache) Invalidate(key string) {
	lc.cache.Del([]byte(key))
}

func (lc *ListingCache) Clear() {
	lc.cache.Clear()
}
