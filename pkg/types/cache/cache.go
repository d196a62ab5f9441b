package cache

type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	Delete(key K)
	Keys() []K
	Len() int
	// GetOrSet returns the value under key, storing the one built by create
	// when the key is absent. The bool reports whether the value was loaded.
	GetOrSet(key K, create func() V) (V, bool)
	// DeleteFunc removes every entry for which del returns true and reports
	// how many were removed.
	DeleteFunc(del func(key K, value V) bool) int
}
