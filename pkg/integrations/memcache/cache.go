package memcache

import (
	"sync"

	"assetview/pkg/types/cache"
)

var _ cache.Cache[string, any] = (*Cache[string, any])(nil)

// Cache is a mutex guarded map. GetOrSet and DeleteFunc run under the write
// lock so check-and-act sequences stay atomic.
type Cache[K comparable, V any] struct {
	data  map[K]V
	mutex sync.RWMutex
}

func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		data: make(map[K]V),
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	val, ok := c.data[key]
	return val, ok
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data[key] = value
}

func (c *Cache[K, V]) GetOrSet(key K, create func() V) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if val, ok := c.data[key]; ok {
		return val, true
	}
	val := create()
	c.data[key] = val
	return val, false
}

func (c *Cache[K, V]) Delete(key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.data, key)
}

func (c *Cache[K, V]) DeleteFunc(del func(key K, value V) bool) int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	removed := 0
	for k, v := range c.data {
		if del(k, v) {
			delete(c.data, k)
			removed++
		}
	}
	return removed
}

func (c *Cache[K, V]) Keys() []K {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	keys := make([]K, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	return keys
}

func (c *Cache[K, V]) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}
