package mapz

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/authzed/bimultimap/internal/logging"
	"github.com/authzed/bimultimap/pkg/bmerrors"
)

// BiMultiMap is a map from each key to a set of values, paired with an inverse
// map from each value to the set of keys mapping to it. The two directions are
// kept consistent by every mutating operation: v is in the set of k iff k is in
// the inverse's set of v.
//
// A BiMultiMap and its inverse are created together and stay linked for their
// whole lifetime: m.Inverse().Inverse() is m. Mutating either side updates both.
//
// BiMultiMap is not safe for concurrent use; see SyncBiMultiMap.
type BiMultiMap[K comparable, V comparable] struct {
	data    map[K]*ElementSet[V, K]
	inverse *BiMultiMap[V, K]
}

// NewBiMultiMap initializes a new, empty BiMultiMap and its inverse.
func NewBiMultiMap[K comparable, V comparable](opts ...Option) *BiMultiMap[K, V] {
	o := newOptions(opts)
	m := &BiMultiMap[K, V]{
		data: make(map[K]*ElementSet[V, K], o.capacity),
	}
	m.inverse = &BiMultiMap[V, K]{
		data:    make(map[V]*ElementSet[K, V], o.inverseCapacity),
		inverse: m,
	}
	return m
}

// NewBiMultiMapFromMap initializes a new BiMultiMap holding the given values
// for each key. Duplicate values for a key are collapsed.
func NewBiMultiMapFromMap[K comparable, V comparable](src map[K][]V, opts ...Option) *BiMultiMap[K, V] {
	return NewBiMultiMapFromSeq(maps.All(src), opts...)
}

// NewBiMultiMapFromSeq initializes a new BiMultiMap from a sequence of keys and
// their values. A key produced more than once keeps its last values.
func NewBiMultiMapFromSeq[K comparable, V comparable](src iter.Seq2[K, []V], opts ...Option) *BiMultiMap[K, V] {
	m := NewBiMultiMap[K, V](opts...)
	m.UpdateFromSeq(src)
	return m
}

// Inverse returns the paired map from values to keys.
func (m *BiMultiMap[K, V]) Inverse() *BiMultiMap[V, K] {
	return m.inverse
}

// Get returns the set stored for the given key, if any. It never creates an
// entry.
func (m *BiMultiMap[K, V]) Get(key K) (*ElementSet[V, K], bool) {
	es, ok := m.data[key]
	return es, ok
}

// GetOrCreate returns the set stored for the given key, creating and storing
// an empty one if the key is absent. The inverse is left untouched until a
// value is added.
func (m *BiMultiMap[K, V]) GetOrCreate(key K) *ElementSet[V, K] {
	es, ok := m.data[key]
	if !ok {
		es = newElementSet(key, m.inverse)
		m.data[key] = es
	}
	return es
}

// Add maps the key to the value. Returns false if the mapping already existed.
func (m *BiMultiMap[K, V]) Add(key K, value V) bool {
	return m.GetOrCreate(key).Add(value)
}

// RemoveMapping removes the value from the set of the key. The key itself is
// kept, even if its set becomes empty.
func (m *BiMultiMap[K, V]) RemoveMapping(key K, value V) error {
	es, ok := m.data[key]
	if !ok {
		return NewKeyNotFoundErr(key)
	}
	return es.Remove(value)
}

// Set replaces the values of the key with the given values, collapsing
// duplicates. A set previously returned for the key is detached.
func (m *BiMultiMap[K, V]) Set(key K, values []V) {
	if existing, ok := m.data[key]; ok {
		existing.elems.Each(func(value V) bool {
			m.inverse.detach(value, key)
			return false
		})
		existing.detachFromMap()
	}

	es := newElementSet(key, m.inverse, values...)
	m.data[key] = es
	es.elems.Each(func(value V) bool {
		m.inverse.attach(value, key)
		return false
	})
}

// Delete removes the key and unlinks it from the inverse set of every value it
// held. Those inverse sets are kept even when they become empty; they go away
// only when deleted from the inverse side or on Clear.
func (m *BiMultiMap[K, V]) Delete(key K) error {
	es, ok := m.data[key]
	if !ok {
		return NewKeyNotFoundErr(key)
	}

	es.elems.Each(func(value V) bool {
		m.inverse.detach(value, key)
		return false
	})
	delete(m.data, key)
	es.detachFromMap()
	return nil
}

// Has returns true if the key is found in the map.
func (m *BiMultiMap[K, V]) Has(key K) bool {
	_, ok := m.data[key]
	return ok
}

// HasMapping returns true if the key maps to the value.
func (m *BiMultiMap[K, V]) HasMapping(key K, value V) bool {
	es, ok := m.data[key]
	return ok && es.Has(value)
}

// IsEmpty returns true if the map holds no keys.
func (m *BiMultiMap[K, V]) IsEmpty() bool { return len(m.data) == 0 }

// Len returns the number of *keys* in the map, including keys with empty sets.
func (m *BiMultiMap[K, V]) Len() int { return len(m.data) }

// Keys returns the keys of the map, in unspecified order.
func (m *BiMultiMap[K, V]) Keys() []K { return slices.Collect(maps.Keys(m.data)) }

// Values returns the distinct values of the map, that is the keys of the
// inverse.
func (m *BiMultiMap[K, V]) Values() []V { return m.inverse.Keys() }

// All returns a sequence over each key and its live set.
func (m *BiMultiMap[K, V]) All() iter.Seq2[K, *ElementSet[V, K]] {
	return maps.All(m.data)
}

// Clear empties both the map and its inverse. Every set previously handed out
// by either side is detached.
func (m *BiMultiMap[K, V]) Clear() {
	for _, es := range m.data {
		es.detachFromMap()
	}
	for _, es := range m.inverse.data {
		es.detachFromMap()
	}
	clear(m.data)
	clear(m.inverse.data)
}

// Update merges another paired map into this one. The result holds every
// mapping of either map: when both hold a key, its sets are unioned.
//
// The merge unions the storages of both directions directly, without
// re-deriving the inverse per key. It therefore requires other to be
// consistent already; this is only verified in builds with debug assertions.
func (m *BiMultiMap[K, V]) Update(other *BiMultiMap[K, V]) {
	if other == nil || other == m {
		return
	}

	bmerrors.DebugAssertf(func() bool { return other.CheckConsistency() == nil },
		"update source violates the bidirectional invariant")

	mergeStorage(m, other)
	mergeStorage(m.inverse, other.inverse)

	logging.Trace().Int("keys", len(other.data)).Int("values", len(other.inverse.data)).Msg("merged paired bimultimap")
}

// UpdateFromMap calls Set for each key of src, replacing the values of keys
// already present.
func (m *BiMultiMap[K, V]) UpdateFromMap(src map[K][]V) {
	m.UpdateFromSeq(maps.All(src))
}

// UpdateFromSeq calls Set for each key produced by src.
func (m *BiMultiMap[K, V]) UpdateFromSeq(src iter.Seq2[K, []V]) {
	for key, values := range src {
		m.Set(key, values)
	}
}

// FlatUpdate adds each produced key/value pair to the map.
func (m *BiMultiMap[K, V]) FlatUpdate(pairs iter.Seq2[K, V]) {
	for key, value := range pairs {
		m.GetOrCreate(key).Add(value)
	}
}

// FlatUpdateFromMap adds each key/value pair of src to the map.
func (m *BiMultiMap[K, V]) FlatUpdateFromMap(src map[K]V) {
	m.FlatUpdate(maps.All(src))
}

// FlatAll returns a sequence over every key/value pair of the map. Keys are
// visited in map iteration order; the values of a key in unspecified order.
func (m *BiMultiMap[K, V]) FlatAll() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for key, es := range m.data {
			for value := range es.All() {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}

// FlatValues returns a sequence over the value of every key/value pair. A
// value mapped from several keys is produced once per key.
func (m *BiMultiMap[K, V]) FlatValues() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, value := range m.FlatAll() {
			if !yield(value) {
				return
			}
		}
	}
}

// FlatLen returns the number of key/value pairs in the map.
func (m *BiMultiMap[K, V]) FlatLen() int {
	count := 0
	for _, es := range m.data {
		count += es.Len()
	}
	return count
}

// Flatten returns the map as a plain one-to-one map. Every key must hold
// exactly one value, otherwise ErrNotFlat is returned for the first key found
// that does not. The map is not modified.
func (m *BiMultiMap[K, V]) Flatten() (map[K]V, error) {
	flat := make(map[K]V, len(m.data))
	for key, es := range m.data {
		if es.Len() != 1 {
			err := NewNotFlatErr(key, es.Clone())
			logging.Debug().EmbedObject(err).Msg("bimultimap is not flat")
			return nil, err
		}

		for value := range es.All() {
			flat[key] = value
		}
	}
	return flat, nil
}

// CheckConsistency verifies that both directions agree on every mapping and
// that each set is tagged with its own key.
func (m *BiMultiMap[K, V]) CheckConsistency() error {
	if m.inverse == nil || m.inverse.inverse != m {
		return fmt.Errorf("%w: inverse is not paired back to this map", ErrInconsistentMapping)
	}
	if err := checkDirection(m); err != nil {
		return err
	}
	return checkDirection(m.inverse)
}

func (m *BiMultiMap[K, V]) String() string {
	var sb strings.Builder
	sb.WriteString("BiMultiMap{")
	first := true
	for _, es := range m.data {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(es.String())
	}
	sb.WriteString("}")
	return sb.String()
}

// attach inserts value into the storage of key, creating the set if needed,
// without touching the inverse. Used by the sibling side of a mutation.
func (m *BiMultiMap[K, V]) attach(key K, value V) {
	es, ok := m.data[key]
	if !ok {
		es = newElementSet(key, m.inverse)
		m.data[key] = es
	}
	es.elems.Add(value)
}

// detach removes value from the storage of key, if present, without touching
// the inverse.
func (m *BiMultiMap[K, V]) detach(key K, value V) {
	if es, ok := m.data[key]; ok {
		es.elems.Remove(value)
	}
}

func mergeStorage[K comparable, V comparable](dst, src *BiMultiMap[K, V]) {
	for key, srcSet := range src.data {
		dstSet, ok := dst.data[key]
		if !ok {
			dstSet = newElementSet(key, dst.inverse)
			dst.data[key] = dstSet
		}
		dstSet.elems.Append(srcSet.elems.ToSlice()...)
	}
}

func checkDirection[K comparable, V comparable](m *BiMultiMap[K, V]) error {
	for key, es := range m.data {
		if es.owner != key {
			return fmt.Errorf("%w: set stored under `%v` is owned by `%v`", ErrInconsistentMapping, key, es.owner)
		}
		if es.sibling != m.inverse {
			return fmt.Errorf("%w: set of `%v` is not linked to the inverse", ErrInconsistentMapping, key)
		}

		var err error
		es.elems.Each(func(value V) bool {
			if !m.inverse.HasMapping(value, key) {
				err = fmt.Errorf("%w: `%v` maps to `%v` but not the other way around", ErrInconsistentMapping, key, value)
				return true
			}
			return false
		})
		if err != nil {
			return err
		}
	}
	return nil
}
