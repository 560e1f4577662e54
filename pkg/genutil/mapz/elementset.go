package mapz

import (
	"fmt"
	"iter"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/authzed/bimultimap/pkg/bmerrors"
)

// ElementSet is the set of elements owned by a single key of a BiMultiMap.
// Every mutation also updates the sibling map, which holds the inverse
// direction, so that an element e is in the set of owner o iff o is in the
// sibling's set for e.
//
// An ElementSet is live until its owner is replaced via Set, deleted, or the
// map is cleared. After that it is detached: it keeps its elements, but
// mutating it no longer touches either map.
//
// The underlying storage is unordered; iteration order is unspecified and may
// change between calls.
type ElementSet[E comparable, O comparable] struct {
	owner   O
	elems   mapset.Set[E]
	sibling *BiMultiMap[E, O]
}

func newElementSet[E comparable, O comparable](owner O, sibling *BiMultiMap[E, O], elems ...E) *ElementSet[E, O] {
	return &ElementSet[E, O]{
		owner:   owner,
		elems:   mapset.NewThreadUnsafeSet(elems...),
		sibling: sibling,
	}
}

// Owner returns the key this set belongs to.
func (es *ElementSet[E, O]) Owner() O {
	return es.owner
}

// IsDetached returns true if the set no longer belongs to a map.
func (es *ElementSet[E, O]) IsDetached() bool {
	return es.sibling == nil
}

// Has returns true if the set contains the given element.
func (es *ElementSet[E, O]) Has(elem E) bool {
	return es.elems.Contains(elem)
}

// Len returns the number of elements in the set.
func (es *ElementSet[E, O]) Len() int {
	return es.elems.Cardinality()
}

// IsEmpty returns true if the set has no elements.
func (es *ElementSet[E, O]) IsEmpty() bool {
	return es.elems.Cardinality() == 0
}

// Add inserts the element, linking the owner into the sibling's set for that
// element. Returns false if the element was already present.
func (es *ElementSet[E, O]) Add(elem E) bool {
	if !es.elems.Add(elem) {
		return false
	}
	es.link(elem)
	return true
}

// AddAll adds each of the given elements. Returns the number inserted.
func (es *ElementSet[E, O]) AddAll(elems ...E) int {
	return es.Extend(slices.Values(elems))
}

// Extend adds every element produced by the sequence, one at a time. Unlike
// UnionUpdate there is no membership test available on the input, so this
// costs one Add per produced element, duplicates included.
func (es *ElementSet[E, O]) Extend(elems iter.Seq[E]) int {
	added := 0
	for elem := range elems {
		if es.Add(elem) {
			added++
		}
	}
	return added
}

// Remove removes the element, failing with ErrElementNotFound if it is not
// present.
func (es *ElementSet[E, O]) Remove(elem E) error {
	if !es.elems.Contains(elem) {
		return NewElementNotFoundErr(elem, es.owner)
	}
	if es.sibling != nil && !es.sibling.HasMapping(elem, es.owner) {
		return bmerrors.MustBugf("`%v` maps to `%v` without an inverse entry", es.owner, elem)
	}
	es.remove(elem)
	return nil
}

// Discard removes the element if present. Returns true if it was removed.
func (es *ElementSet[E, O]) Discard(elem E) bool {
	if !es.elems.Contains(elem) {
		return false
	}
	es.remove(elem)
	return true
}

// Pop removes and returns an arbitrary element, failing with ErrEmptySet if
// the set has none.
func (es *ElementSet[E, O]) Pop() (E, error) {
	elem, ok := es.elems.Pop()
	if !ok {
		var zero E
		return zero, NewEmptySetErr(es.owner)
	}
	es.unlink(elem)
	return elem, nil
}

// Clear removes all elements, unlinking the owner from each of them.
func (es *ElementSet[E, O]) Clear() {
	es.elems.Each(func(elem E) bool {
		es.unlink(elem)
		return false
	})
	es.elems.Clear()
}

// UnionUpdate adds every element of the given sets. The delta is computed
// with membership tests against each operand before anything is inserted.
func (es *ElementSet[E, O]) UnionUpdate(others ...mapset.Set[E]) {
	for _, other := range others {
		if other == nil {
			continue
		}

		toAdd := make([]E, 0, other.Cardinality())
		other.Each(func(elem E) bool {
			if !es.elems.Contains(elem) {
				toAdd = append(toAdd, elem)
			}
			return false
		})

		for _, elem := range toAdd {
			es.elems.Add(elem)
			es.link(elem)
		}
	}
}

// IntersectionUpdate removes every element not present in all of the given
// sets. A nil operand is treated as the empty set.
func (es *ElementSet[E, O]) IntersectionUpdate(others ...mapset.Set[E]) {
	for _, other := range others {
		toRemove := make([]E, 0)
		es.elems.Each(func(elem E) bool {
			if other == nil || !other.Contains(elem) {
				toRemove = append(toRemove, elem)
			}
			return false
		})
		es.removeAll(toRemove)
	}
}

// DifferenceUpdate removes every element present in any of the given sets.
func (es *ElementSet[E, O]) DifferenceUpdate(others ...mapset.Set[E]) {
	for _, other := range others {
		if other == nil {
			continue
		}
		es.removeAll(es.sharedWith(other))
	}
}

// SymmetricDifferenceUpdate keeps the elements found in exactly one of the set
// and other: shared elements are removed and the rest of other is added.
func (es *ElementSet[E, O]) SymmetricDifferenceUpdate(other mapset.Set[E]) {
	if other == nil {
		return
	}

	toRemove := es.sharedWith(other)
	toAdd := make([]E, 0, other.Cardinality()-len(toRemove))
	other.Each(func(elem E) bool {
		if !es.elems.Contains(elem) {
			toAdd = append(toAdd, elem)
		}
		return false
	})

	es.removeAll(toRemove)
	for _, elem := range toAdd {
		es.elems.Add(elem)
		es.link(elem)
	}
}

// All returns a sequence over the elements of the set, in unspecified order.
func (es *ElementSet[E, O]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		es.elems.Each(func(elem E) bool {
			return !yield(elem)
		})
	}
}

// AsSlice returns the elements of the set as a new slice, in unspecified
// order.
func (es *ElementSet[E, O]) AsSlice() []E {
	return es.elems.ToSlice()
}

// Clone returns a detached copy of the elements. Mutating the copy has no
// effect on either map.
func (es *ElementSet[E, O]) Clone() mapset.Set[E] {
	return es.elems.Clone()
}

// Equal returns true if the set holds exactly the elements of other.
func (es *ElementSet[E, O]) Equal(other mapset.Set[E]) bool {
	if other == nil || other.Cardinality() != es.elems.Cardinality() {
		return false
	}

	equal := true
	other.Each(func(elem E) bool {
		equal = es.elems.Contains(elem)
		return !equal
	})
	return equal
}

func (es *ElementSet[E, O]) String() string {
	return fmt.Sprintf("%v: %s", es.owner, es.elems.String())
}

func (es *ElementSet[E, O]) sharedWith(other mapset.Set[E]) []E {
	shared := make([]E, 0)
	other.Each(func(elem E) bool {
		if es.elems.Contains(elem) {
			shared = append(shared, elem)
		}
		return false
	})
	return shared
}

func (es *ElementSet[E, O]) removeAll(elems []E) {
	for _, elem := range elems {
		es.remove(elem)
	}
}

func (es *ElementSet[E, O]) remove(elem E) {
	es.elems.Remove(elem)
	es.unlink(elem)
}

func (es *ElementSet[E, O]) link(elem E) {
	if es.sibling != nil {
		es.sibling.attach(elem, es.owner)
	}
}

func (es *ElementSet[E, O]) unlink(elem E) {
	if es.sibling != nil {
		es.sibling.detach(elem, es.owner)
	}
}

func (es *ElementSet[E, O]) detachFromMap() {
	es.sibling = nil
}
