package status

import (
	"sort"

	"github.com/puzpuzpuz/xsync/v4"
)

// MetricMap is a concurrent registry of metrics of type T keyed by name
// Pointers are stable for the lifetime of the map; hot paths cache them and update atomically
type MetricMap[T any] struct {
	items *xsync.Map[string, *T]
}

// NewMetricMap creates an initialized MetricMap
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{
		items: xsync.NewMap[string, *T](),
	}
}

// Get returns the metric pointer for key, creating it on first use
func (m *MetricMap[T]) Get(key string) *T {
	// Single lookup on the hit path; the compute callback runs once per key under the bucket lock
	ptr, _ := m.items.LoadOrCompute(key, func() (*T, bool) {
		return new(T), false
	})
	return ptr
}

// Lookup returns the metric pointer without creating it
func (m *MetricMap[T]) Lookup(key string) (*T, bool) {
	return m.items.Load(key)
}

// Has returns true if the key exists
func (m *MetricMap[T]) Has(key string) bool {
	_, ok := m.items.Load(key)
	return ok
}

// Range iterates over all metrics in sorted key order
func (m *MetricMap[T]) Range(fn func(key string, ptr *T)) {
	// Snapshot keys first; xsync.Map iteration order is unspecified
	keys := make([]string, 0, m.items.Size())
	m.items.Range(func(k string, _ *T) bool {
		keys = append(keys, k)
		return true
	})
	sort.Strings(keys)

	// Re-load each key, skipping any removed since the snapshot
	for _, k := range keys {
		if ptr, ok := m.items.Load(k); ok {
			fn(k, ptr)
		}
	}
}

// Count returns the number of registered metrics
func (m *MetricMap[T]) Count() int {
	return m.items.Size()
}
