package memcache

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New[string, int]()

	c.Set("bitcoin", 1)
	c.Set("ethereum", 2)

	val, ok := c.Get("bitcoin")
	assert.True(t, ok)
	assert.Equal(t, 1, val)

	_, ok = c.Get("dogecoin")
	assert.False(t, ok)
}

func TestCache_Delete(t *testing.T) {
	c := New[string, int]()

	c.Set("bitcoin", 1)
	c.Delete("bitcoin")

	_, ok := c.Get("bitcoin")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Keys(t *testing.T) {
	c := New[string, int]()

	c.Set("bitcoin", 1)
	c.Set("ethereum", 2)

	keys := c.Keys()
	assert.ElementsMatch(t, []string{"bitcoin", "ethereum"}, keys)
}

func TestCache_GetOrSet(t *testing.T) {
	c := New[string, int]()

	val, loaded := c.GetOrSet("bitcoin", func() int { return 7 })
	assert.False(t, loaded)
	assert.Equal(t, 7, val)

	val, loaded = c.GetOrSet("bitcoin", func() int {
		t.Fatal("create must not run for an existing key")
		return 0
	})
	assert.True(t, loaded)
	assert.Equal(t, 7, val)
}

func TestCache_GetOrSet_CreatesOnceUnderContention(t *testing.T) {
	c := New[string, int]()
	var created atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.GetOrSet("bitcoin", func() int {
				created.Add(1)
				return 1
			})
		}()
	}

	wg.Wait()
	assert.Equal(t, int32(1), created.Load())
}

func TestCache_DeleteFunc(t *testing.T) {
	c := New[string, int]()
	c.Set("bitcoin", 1)
	c.Set("ethereum", 2)
	c.Set("solana", 3)

	removed := c.DeleteFunc(func(_ string, v int) bool { return v%2 == 1 })

	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"ethereum"}, c.Keys())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int, int]()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(i, i*2)
		}(i)
	}

	wg.Wait()
	assert.Equal(t, 100, c.Len())

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			val, ok := c.Get(i)
			assert.True(t, ok)
			assert.Equal(t, i*2, val)
		}(i)
	}

	wg.Wait()
}
