package mapz

import "sync"

// SyncBiMultiMap is a BiMultiMap guarded by a single lock covering both
// directions, so no reader can observe a mapping present on one side only.
// Safe for concurrent use.
//
// Results are copies; live ElementSets are only reachable through Read and
// Write and must not be retained past the callback.
type SyncBiMultiMap[K comparable, V comparable] struct {
	m    *BiMultiMap[K, V]
	lock sync.RWMutex
}

// NewSyncBiMultiMap constructs a new, empty synchronized bimultimap.
func NewSyncBiMultiMap[K comparable, V comparable](opts ...Option) *SyncBiMultiMap[K, V] {
	return &SyncBiMultiMap[K, V]{
		m: NewBiMultiMap[K, V](opts...),
	}
}

// Add maps the key to the value. Returns false if the mapping already existed.
func (sm *SyncBiMultiMap[K, V]) Add(key K, value V) bool {
	sm.lock.Lock()
	defer sm.lock.Unlock()
	return sm.m.Add(key, value)
}

// RemoveMapping removes the value from the set of the key.
func (sm *SyncBiMultiMap[K, V]) RemoveMapping(key K, value V) error {
	sm.lock.Lock()
	defer sm.lock.Unlock()
	return sm.m.RemoveMapping(key, value)
}

// Set replaces the values of the key.
func (sm *SyncBiMultiMap[K, V]) Set(key K, values []V) {
	sm.lock.Lock()
	defer sm.lock.Unlock()
	sm.m.Set(key, values)
}

// Delete removes the key from the forward direction.
func (sm *SyncBiMultiMap[K, V]) Delete(key K) error {
	sm.lock.Lock()
	defer sm.lock.Unlock()
	return sm.m.Delete(key)
}

// DeleteValue removes the value from the inverse direction.
func (sm *SyncBiMultiMap[K, V]) DeleteValue(value V) error {
	sm.lock.Lock()
	defer sm.lock.Unlock()
	return sm.m.inverse.Delete(value)
}

// Get returns a copy of the values of the key and whether the key existed.
func (sm *SyncBiMultiMap[K, V]) Get(key K) ([]V, bool) {
	sm.lock.RLock()
	defer sm.lock.RUnlock()

	es, ok := sm.m.Get(key)
	if !ok {
		return []V{}, false
	}
	return es.AsSlice(), true
}

// GetKeys returns a copy of the keys mapping to the value and whether the
// value existed.
func (sm *SyncBiMultiMap[K, V]) GetKeys(value V) ([]K, bool) {
	sm.lock.RLock()
	defer sm.lock.RUnlock()

	es, ok := sm.m.inverse.Get(value)
	if !ok {
		return []K{}, false
	}
	return es.AsSlice(), true
}

// Has returns true if the key is found in the map.
func (sm *SyncBiMultiMap[K, V]) Has(key K) bool {
	sm.lock.RLock()
	defer sm.lock.RUnlock()
	return sm.m.Has(key)
}

// HasValue returns true if the value is found in the inverse map.
func (sm *SyncBiMultiMap[K, V]) HasValue(value V) bool {
	sm.lock.RLock()
	defer sm.lock.RUnlock()
	return sm.m.inverse.Has(value)
}

// HasMapping returns true if the key maps to the value.
func (sm *SyncBiMultiMap[K, V]) HasMapping(key K, value V) bool {
	sm.lock.RLock()
	defer sm.lock.RUnlock()
	return sm.m.HasMapping(key, value)
}

// Len returns the number of keys.
func (sm *SyncBiMultiMap[K, V]) Len() int {
	sm.lock.RLock()
	defer sm.lock.RUnlock()
	return sm.m.Len()
}

// FlatLen returns the number of key/value pairs.
func (sm *SyncBiMultiMap[K, V]) FlatLen() int {
	sm.lock.RLock()
	defer sm.lock.RUnlock()
	return sm.m.FlatLen()
}

// Clear empties both directions.
func (sm *SyncBiMultiMap[K, V]) Clear() {
	sm.lock.Lock()
	defer sm.lock.Unlock()
	sm.m.Clear()
}

// Update merges other into the map. other must not be mutated concurrently
// and must itself be consistent.
func (sm *SyncBiMultiMap[K, V]) Update(other *BiMultiMap[K, V]) {
	sm.lock.Lock()
	defer sm.lock.Unlock()
	sm.m.Update(other)
}

// Flatten returns the map as a plain one-to-one map.
func (sm *SyncBiMultiMap[K, V]) Flatten() (map[K]V, error) {
	sm.lock.RLock()
	defer sm.lock.RUnlock()
	return sm.m.Flatten()
}

// AsReadOnly returns a read-only copy of the map.
func (sm *SyncBiMultiMap[K, V]) AsReadOnly() ReadOnlyMultimap[K, V] {
	sm.lock.RLock()
	defer sm.lock.RUnlock()
	return sm.m.AsReadOnly()
}

// Read runs fn with the underlying map under the read lock. fn must not mutate
// the map.
func (sm *SyncBiMultiMap[K, V]) Read(fn func(m *BiMultiMap[K, V])) {
	sm.lock.RLock()
	defer sm.lock.RUnlock()
	fn(sm.m)
}

// Write runs fn with the underlying map under the write lock, making a
// compound mutation appear atomic to other users of the map.
func (sm *SyncBiMultiMap[K, V]) Write(fn func(m *BiMultiMap[K, V])) {
	sm.lock.Lock()
	defer sm.lock.Unlock()
	fn(sm.m)
}
