package badgercache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T, opts ...Option) *Cache {
	t.Helper()
	cache, err := Open("", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestMarshalVectorRoundTrip(t *testing.T) {
	vectors := [][]float32{
		{0.1, -0.5, 3.25},
		{},
		nil,
	}
	for _, in := range vectors {
		data := MarshalVector(in)
		out, err := UnmarshalVector(data)
		require.NoError(t, err)
		assert.Len(t, out, len(in))
		for i := range in {
			assert.Equal(t, in[i], out[i])
		}
	}
}

func TestCacheGetSet(t *testing.T) {
	cache := openTestCache(t)

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	cache.Set("k1", []float32{1, 2, 3})
	vector, ok := cache.Get("k1")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3}, vector)

	assert.True(t, cache.Has("k1"))
	assert.False(t, cache.Has("missing"))
}

func TestCacheTTLExpiry(t *testing.T) {
	cache := openTestCache(t, WithTTL(time.Second))

	cache.Set("short-lived", []float32{1})
	require.True(t, cache.Has("short-lived"))

	// Badger expiry has one-second granularity, so wait out a full second
	// boundary past the TTL.
	time.Sleep(2100 * time.Millisecond)
	_, ok := cache.Get("short-lived")
	assert.False(t, ok, "entry past TTL reads as miss")
}

func TestCacheSubSecondTTLRoundsUp(t *testing.T) {
	cache := openTestCache(t, WithTTL(50*time.Millisecond))
	assert.Equal(t, time.Second, cache.ttl)

	// Without the round-up a 50ms lifetime truncates to zero seconds and the
	// entry can be dead on arrival.
	cache.Set("k", []float32{1})
	assert.True(t, cache.Has("k"))
}

func TestCacheClearAndStats(t *testing.T) {
	cache := openTestCache(t)

	cache.Set("k1", []float32{1})
	cache.Set("k2", []float32{2})
	cache.Get("k1")      // hit
	cache.Get("missing") // miss

	stats := cache.Stats()
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRate, 1e-9)

	require.NoError(t, cache.Clear())
	stats = cache.Stats()
	assert.Zero(t, stats.Size)
	assert.Zero(t, stats.Hits)
	assert.Zero(t, stats.Misses)
}

func TestCachePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	cache, err := Open(dir, WithTTL(time.Hour))
	require.NoError(t, err)
	cache.Set("persistent", []float32{4, 5})
	require.NoError(t, cache.Close())

	reopened, err := Open(dir, WithTTL(time.Hour))
	require.NoError(t, err)
	defer reopened.Close()

	vector, ok := reopened.Get("persistent")
	require.True(t, ok)
	assert.Equal(t, []float32{4, 5}, vector)
}
