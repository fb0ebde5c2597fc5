package concidx

import (
	"hash/fnv"
	"testing"

	"github.com/cockroachdb/redact"
	"github.com/stretchr/testify/require"
)

func fnvHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func TestNewVariantUnknownKind(t *testing.T) {
	_, err := NewVariant[string, string](Kind(99), HashConfig[string]{}, 0)
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestVariantHashInsertSearch(t *testing.T) {
	v, err := NewVariant[string, string](KindHash, HashConfig[string]{Hash: fnvHash}, 0)
	require.NoError(t, err)

	require.True(t, v.Insert("a", "1"))
	require.True(t, v.Search("a").Has("1"))

	_, rerr := v.Remove("a")
	require.ErrorIs(t, rerr, ErrRemoveUnsupported)

	_, serr := v.RangeSearch("a", "b")
	require.ErrorIs(t, serr, ErrRangeUnsupported)
}

func TestVariantSkipListRemove(t *testing.T) {
	v, err := NewVariant[string, string](KindSkipList, HashConfig[string]{}, 0)
	require.NoError(t, err)

	v.Insert("a", "1")
	ok, err := v.Remove("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, v.Search("a"))

	_, serr := v.RangeSearch("a", "b")
	require.ErrorIs(t, serr, ErrRangeUnsupported)
}

func TestVariantBPlusTreeRangeSearch(t *testing.T) {
	v, err := NewVariant[int, string](KindBPlusTree, HashConfig[int]{}, 4)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		v.Insert(i, "v")
	}

	result, err := v.RangeSearch(5, 10)
	require.NoError(t, err)
	require.Equal(t, 5, result.Len())
	require.Equal(t, 5, result.At(0).Key)

	vs, ok := result.Get(7)
	require.True(t, ok)
	require.True(t, vs.Has("v"))

	ok, rerr := v.Remove(5)
	require.NoError(t, rerr)
	require.True(t, ok)
}

func TestKindSafeFormat(t *testing.T) {
	require.Equal(t, redact.RedactableString("bplustree"), redact.Sprint(KindBPlusTree))
	require.Equal(t, redact.RedactableString("unknown"), redact.Sprint(Kind(99)))
}
