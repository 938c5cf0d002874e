package lru

import "errors"

// ErrNotFound is returned by ByteCache.Get for a key that is absent or
// expired out of the underlying LRU.
var ErrNotFound = errors.New("lru: key not found")

// ByteCache adapts Cache[string, []byte] to the narrower Set/Get/Del
// interface that cache.Fetch expects of a cache backend, so an in-process
// LRU can back cache.Fetch/future.Memoize without any external store.
type ByteCache struct {
	inner *Cache[string, []byte]
}

// NewByteCache builds a ByteCache with the given capacity.
func NewByteCache(capacity int) *ByteCache {
	return &ByteCache{inner: New[string, []byte](capacity)}
}

func (b *ByteCache) Set(key string, value []byte) error {
	b.inner.Put(key, value)
	return nil
}

func (b *ByteCache) Get(key string) ([]byte, error) {
	v, ok := b.inner.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (b *ByteCache) Del(key string) error {
	b.inner.Delete(key)
	return nil
}
