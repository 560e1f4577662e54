package mapz

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type mapping struct {
	key   string
	value int
}

// relationModel is the set of key/value pairs the map is expected to hold,
// independent of which keys happen to have (possibly empty) entries.
type relationModel map[mapping]struct{}

func (rm relationModel) add(key string, value int) { rm[mapping{key, value}] = struct{}{} }

func (rm relationModel) remove(key string, value int) { delete(rm, mapping{key, value}) }

func (rm relationModel) removeKey(key string) {
	for pair := range rm {
		if pair.key == key {
			delete(rm, pair)
		}
	}
}

func (rm relationModel) removeValue(value int) {
	for pair := range rm {
		if pair.value == value {
			delete(rm, pair)
		}
	}
}

type bimultimapMachine struct {
	m     *BiMultiMap[string, int]
	model relationModel
}

var (
	rapidKey   = rapid.SampledFrom([]string{"a", "b", "c", "d", "e"})
	rapidValue = rapid.IntRange(0, 5)
)

func (bm *bimultimapMachine) check(t *rapid.T) {
	require.NoError(t, bm.m.CheckConsistency())
	require.Same(t, bm.m, bm.m.Inverse().Inverse())

	forward := relationModel{}
	for key, value := range bm.m.FlatAll() {
		forward.add(key, value)
	}
	require.Equal(t, bm.model, forward)

	inverse := relationModel{}
	for value, key := range bm.m.Inverse().FlatAll() {
		inverse.add(key, value)
	}
	require.Equal(t, bm.model, inverse)
	require.Equal(t, len(bm.model), bm.m.FlatLen())
	require.Equal(t, len(bm.model), bm.m.Inverse().FlatLen())
}

func (bm *bimultimapMachine) drawSet(t *rapid.T, label string) mapset.Set[int] {
	return mapset.NewThreadUnsafeSet(rapid.SliceOfN(rapidValue, 0, 4).Draw(t, label)...)
}

func (bm *bimultimapMachine) actions() map[string]func(*rapid.T) {
	return map[string]func(*rapid.T){
		"": bm.check,
		"add": func(t *rapid.T) {
			key, value := rapidKey.Draw(t, "key"), rapidValue.Draw(t, "value")
			bm.m.GetOrCreate(key).Add(value)
			bm.model.add(key, value)
		},
		"inverseAdd": func(t *rapid.T) {
			key, value := rapidKey.Draw(t, "key"), rapidValue.Draw(t, "value")
			bm.m.Inverse().GetOrCreate(value).Add(key)
			bm.model.add(key, value)
		},
		"remove": func(t *rapid.T) {
			key, value := rapidKey.Draw(t, "key"), rapidValue.Draw(t, "value")
			_, present := bm.model[mapping{key, value}]
			err := bm.m.GetOrCreate(key).Remove(value)
			if present {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrNotFound)
			}
			bm.model.remove(key, value)
		},
		"discard": func(t *rapid.T) {
			key, value := rapidKey.Draw(t, "key"), rapidValue.Draw(t, "value")
			bm.m.GetOrCreate(key).Discard(value)
			bm.model.remove(key, value)
		},
		"pop": func(t *rapid.T) {
			key := rapidKey.Draw(t, "key")
			value, err := bm.m.GetOrCreate(key).Pop()
			if err != nil {
				require.ErrorIs(t, err, ErrEmpty)
				return
			}
			bm.model.remove(key, value)
		},
		"clearSet": func(t *rapid.T) {
			key := rapidKey.Draw(t, "key")
			bm.m.GetOrCreate(key).Clear()
			bm.model.removeKey(key)
		},
		"set": func(t *rapid.T) {
			key := rapidKey.Draw(t, "key")
			values := rapid.SliceOfN(rapidValue, 0, 4).Draw(t, "values")
			bm.m.Set(key, values)
			bm.model.removeKey(key)
			for _, value := range values {
				bm.model.add(key, value)
			}
		},
		"delete": func(t *rapid.T) {
			key := rapidKey.Draw(t, "key")
			err := bm.m.Delete(key)
			if err != nil {
				require.ErrorIs(t, err, ErrNotFound)
			}
			bm.model.removeKey(key)
		},
		"inverseDelete": func(t *rapid.T) {
			value := rapidValue.Draw(t, "value")
			err := bm.m.Inverse().Delete(value)
			if err != nil {
				require.ErrorIs(t, err, ErrNotFound)
			}
			bm.model.removeValue(value)
		},
		"clear": func(t *rapid.T) {
			bm.m.Clear()
			clear(bm.model)
		},
		"union": func(t *rapid.T) {
			key := rapidKey.Draw(t, "key")
			other := bm.drawSet(t, "other")
			bm.m.GetOrCreate(key).UnionUpdate(other)
			other.Each(func(value int) bool {
				bm.model.add(key, value)
				return false
			})
		},
		"intersection": func(t *rapid.T) {
			key := rapidKey.Draw(t, "key")
			other := bm.drawSet(t, "other")
			bm.m.GetOrCreate(key).IntersectionUpdate(other)
			for pair := range bm.model {
				if pair.key == key && !other.Contains(pair.value) {
					delete(bm.model, pair)
				}
			}
		},
		"difference": func(t *rapid.T) {
			key := rapidKey.Draw(t, "key")
			other := bm.drawSet(t, "other")
			bm.m.GetOrCreate(key).DifferenceUpdate(other)
			other.Each(func(value int) bool {
				bm.model.remove(key, value)
				return false
			})
		},
		"symmetricDifference": func(t *rapid.T) {
			key := rapidKey.Draw(t, "key")
			other := bm.drawSet(t, "other")
			bm.m.GetOrCreate(key).SymmetricDifferenceUpdate(other)
			other.Each(func(value int) bool {
				if _, ok := bm.model[mapping{key, value}]; ok {
					bm.model.remove(key, value)
				} else {
					bm.model.add(key, value)
				}
				return false
			})
		},
		"flatUpdate": func(t *rapid.T) {
			src := rapid.MapOfN(rapidKey, rapidValue, 0, 3).Draw(t, "src")
			bm.m.FlatUpdateFromMap(src)
			for key, value := range src {
				bm.model.add(key, value)
			}
		},
		"update": func(t *rapid.T) {
			other := NewBiMultiMap[string, int]()
			for range rapid.IntRange(0, 4).Draw(t, "count") {
				key, value := rapidKey.Draw(t, "otherKey"), rapidValue.Draw(t, "otherValue")
				other.Add(key, value)
				bm.model.add(key, value)
			}
			bm.m.Update(other)
		},
	}
}

func TestBiMultiMapInvariantUnderRandomOperations(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bm := &bimultimapMachine{
			m:     NewBiMultiMap[string, int](),
			model: relationModel{},
		}
		t.Repeat(bm.actions())
	})
}
