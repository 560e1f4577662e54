package mapz

import "maps"

// ReadOnlyMultimap is a read-only multimap.
type ReadOnlyMultimap[T comparable, Q any] interface {
	// Has returns true if the key is found in the map.
	Has(key T) bool

	// Get returns the values for the given key in the map and whether the key
	// existed.
	// If the key does not exist, an empty slice is returned.
	Get(key T) ([]Q, bool)

	// IsEmpty returns true if the map is currently empty.
	IsEmpty() bool

	// Len returns the length of the map, e.g. the number of *keys* present.
	Len() int

	// Keys returns the keys of the map.
	Keys() []T

	// Values returns all values in the map, once per key holding them.
	Values() []Q
}

// AsReadOnly returns a read-only *copy* of the map. Later mutations of either
// direction are not reflected in the copy.
func (m *BiMultiMap[K, V]) AsReadOnly() ReadOnlyMultimap[K, V] {
	items := make(map[K][]V, len(m.data))
	for key, es := range m.data {
		items[key] = es.AsSlice()
	}
	return readOnlyMultimap[K, V]{items}
}

type readOnlyMultimap[T comparable, Q any] struct {
	items map[T][]Q
}

// Has returns true if the key is found in the map.
func (mm readOnlyMultimap[T, Q]) Has(key T) bool {
	_, ok := mm.items[key]
	return ok
}

// Get returns the values for the given key in the map and whether the key existed. If the key
// does not exist, an empty slice is returned.
func (mm readOnlyMultimap[T, Q]) Get(key T) ([]Q, bool) {
	found, ok := mm.items[key]
	if !ok {
		return []Q{}, false
	}

	return found, true
}

// IsEmpty returns true if the map is currently empty.
func (mm readOnlyMultimap[T, Q]) IsEmpty() bool { return len(mm.items) == 0 }

// Len returns the length of the map, e.g. the number of *keys* present.
func (mm readOnlyMultimap[T, Q]) Len() int { return len(mm.items) }

// Keys returns the keys of the map.
func (mm readOnlyMultimap[T, Q]) Keys() []T {
	keys := make([]T, 0, len(mm.items))
	for key := range maps.Keys(mm.items) {
		keys = append(keys, key)
	}
	return keys
}

// Values returns all values in the map.
func (mm readOnlyMultimap[T, Q]) Values() []Q {
	values := make([]Q, 0, len(mm.items)*2)
	for valueSlice := range maps.Values(mm.items) {
		values = append(values, valueSlice...)
	}
	return values
}
