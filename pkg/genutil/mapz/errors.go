package mapz

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is matched by every error reporting a missing key or element.
	ErrNotFound = errors.New("not found")

	// ErrEmpty is matched by errors reporting an operation on an empty set.
	ErrEmpty = errors.New("set is empty")

	// ErrNotFlatMapping is matched by errors returned from Flatten.
	ErrNotFlatMapping = errors.New("mapping is not flat")

	// ErrInconsistentMapping is matched by errors returned from CheckConsistency.
	ErrInconsistentMapping = errors.New("forward and inverse mappings disagree")
)

// ErrKeyNotFound occurs when a key is not present in the map.
type ErrKeyNotFound[K comparable] struct {
	error
	key K
}

// NewKeyNotFoundErr constructs a new key not found error.
func NewKeyNotFoundErr[K comparable](key K) ErrKeyNotFound[K] {
	return ErrKeyNotFound[K]{
		error: fmt.Errorf("key `%v` not found", key),
		key:   key,
	}
}

// NotFoundKey is the key that was not found.
func (err ErrKeyNotFound[K]) NotFoundKey() K {
	return err.key
}

func (err ErrKeyNotFound[K]) Is(target error) bool {
	return target == ErrNotFound
}

// MarshalZerologObject implements zerolog object marshalling.
func (err ErrKeyNotFound[K]) MarshalZerologObject(e *zerolog.Event) {
	e.Err(err.error).Interface("key", err.key)
}

// DetailsMetadata returns the metadata for details for this error.
func (err ErrKeyNotFound[K]) DetailsMetadata() map[string]string {
	return map[string]string{
		"key": fmt.Sprint(err.key),
	}
}

// ErrElementNotFound occurs when removing an element that is not a member of
// an ElementSet.
type ErrElementNotFound[E comparable, O comparable] struct {
	error
	element E
	owner   O
}

// NewElementNotFoundErr constructs a new element not found error.
func NewElementNotFoundErr[E comparable, O comparable](element E, owner O) ErrElementNotFound[E, O] {
	return ErrElementNotFound[E, O]{
		error:   fmt.Errorf("element `%v` not found in the set of `%v`", element, owner),
		element: element,
		owner:   owner,
	}
}

// NotFoundElement is the element that was not found.
func (err ErrElementNotFound[E, O]) NotFoundElement() E {
	return err.element
}

// Owner is the key owning the set that was searched.
func (err ErrElementNotFound[E, O]) Owner() O {
	return err.owner
}

func (err ErrElementNotFound[E, O]) Is(target error) bool {
	return target == ErrNotFound
}

// MarshalZerologObject implements zerolog object marshalling.
func (err ErrElementNotFound[E, O]) MarshalZerologObject(e *zerolog.Event) {
	e.Err(err.error).Interface("element", err.element).Interface("owner", err.owner)
}

// DetailsMetadata returns the metadata for details for this error.
func (err ErrElementNotFound[E, O]) DetailsMetadata() map[string]string {
	return map[string]string{
		"element": fmt.Sprint(err.element),
		"owner":   fmt.Sprint(err.owner),
	}
}

// ErrEmptySet occurs when popping from an empty ElementSet.
type ErrEmptySet[O comparable] struct {
	error
	owner O
}

// NewEmptySetErr constructs a new empty set error.
func NewEmptySetErr[O comparable](owner O) ErrEmptySet[O] {
	return ErrEmptySet[O]{
		error: fmt.Errorf("the set of `%v` is empty", owner),
		owner: owner,
	}
}

// Owner is the key owning the empty set.
func (err ErrEmptySet[O]) Owner() O {
	return err.owner
}

func (err ErrEmptySet[O]) Is(target error) bool {
	return target == ErrEmpty
}

// MarshalZerologObject implements zerolog object marshalling.
func (err ErrEmptySet[O]) MarshalZerologObject(e *zerolog.Event) {
	e.Err(err.error).Interface("owner", err.owner)
}

// ErrNotFlat occurs when Flatten finds a key whose set does not hold exactly
// one value. It carries a detached copy of the offending set.
type ErrNotFlat[K comparable, V comparable] struct {
	error
	key    K
	values mapset.Set[V]
}

// NewNotFlatErr constructs a new not flat error.
func NewNotFlatErr[K comparable, V comparable](key K, values mapset.Set[V]) ErrNotFlat[K, V] {
	return ErrNotFlat[K, V]{
		error:  fmt.Errorf("could not flatten the items %s of key `%v`", values.String(), key),
		key:    key,
		values: values,
	}
}

// Key is the key whose set could not be flattened.
func (err ErrNotFlat[K, V]) Key() K {
	return err.key
}

// OffendingSet is a copy of the set that could not be flattened.
func (err ErrNotFlat[K, V]) OffendingSet() mapset.Set[V] {
	return err.values
}

func (err ErrNotFlat[K, V]) Is(target error) bool {
	return target == ErrNotFlatMapping
}

// MarshalZerologObject implements zerolog object marshalling.
func (err ErrNotFlat[K, V]) MarshalZerologObject(e *zerolog.Event) {
	e.Err(err.error).Interface("key", err.key).Int("size", err.values.Cardinality())
}

// DetailsMetadata returns the metadata for details for this error.
func (err ErrNotFlat[K, V]) DetailsMetadata() map[string]string {
	return map[string]string{
		"key":  fmt.Sprint(err.key),
		"size": fmt.Sprint(err.values.Cardinality()),
	}
}
