package cache

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingCache(t *testing.T) {
	lc := NewListingCache(time.Minute)
	require.NotNil(t, lc)

	_, err := lc.Get("products")
	assert.ErrorIs(t, err, ErrCacheMiss)

	payload := []byte(`[{"id":1,"name":"linen shirt"}]`)
	lc.Set("products", payload)

	got, err := lc.Get("products")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	lc.Invalidate("products")
	_, err = lc.Get("products")
	assert.ErrorIs(t, err, ErrCacheMiss)

	lc.Set("products", payload)
	lc.Set("posts", payload)
	lc.Clear()
	_, err = lc.Get("products")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = lc.Get("posts")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestListingCache_instrumented(t *testing.T) {
	lc := NewListingCache(time.Minute)
	hits := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_hits"})
	misses := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_misses"})
	lc.InstrumentWith(hits, misses)

	_, err := lc.Get("gallery")
	assert.ErrorIs(t, err, ErrCacheMiss)

	lc.Set("gallery", []byte(`[]`))
	_, err = lc.Get("gallery")
	require.NoError(t, err)
	_, err = lc.Get("gallery")
	require.NoError(t, err)

	assert.InDelta(t, 2, testutil.ToFloat64(hits), 0.01)
	assert.InDelta(t, 1, testutil.ToFloat64(misses), 0.01)
}
