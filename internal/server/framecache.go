package server

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// FrameCache keeps encoded /frame.png responses. A frame is fully
// determined by the world version, the scroll position, the scale and the
// low four bits of the animation counter.
type FrameCache struct {
	cache *ristretto.Cache[string, []byte]
	ttl   time.Duration
}

// NewFrameCache sizes the cache to maxCost bytes of PNG data.
func NewFrameCache(maxCost int64, ttl time.Duration) (*FrameCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 10000,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("frame cache: %w", err)
	}
	return &FrameCache{cache: cache, ttl: ttl}, nil
}

func frameKey(version uint64, scrollX, scrollY int, frame uint8, scale int) string {
	return fmt.Sprintf("%d|%d|%d|%d|%d", version, scrollX, scrollY, frame&15, scale)
}

// Get returns a cached PNG, ok reports a hit.
func (fc *FrameCache) Get(key string) ([]byte, bool) {
	if fc == nil {
		return nil, false
	}
	return fc.cache.Get(key)
}

// Set stores a PNG, costed by its size.
func (fc *FrameCache) Set(key string, png []byte) {
	if fc == nil || len(png) == 0 {
		return
	}
	fc.cache.SetWithTTL(key, png, int64(len(png)), fc.ttl)
	fc.cache.Wait()
}

// Close releases the cache's goroutines.
func (fc *FrameCache) Close() {
	if fc != nil {
		fc.cache.Close()
	}
}
