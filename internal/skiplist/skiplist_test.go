package skiplist

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertIdempotentAndMultiValue(t *testing.T) {
	idx := New[string, string]()

	require.True(t, idx.Insert("a", "1"))
	require.True(t, idx.Insert("a", "2"))
	require.False(t, idx.Insert("a", "1"))

	require.Equal(t, map[string]struct{}{"1": {}, "2": {}}, idx.Search("a"))
}

func TestSearchMissingKey(t *testing.T) {
	idx := New[string, string]()
	require.Empty(t, idx.Search("z"))
}

// TestOrdering mirrors scenario 2: inserting c, a, b, e, d must yield an
// ascending level-0 chain.
func TestOrdering(t *testing.T) {
	idx := New[string, string]()
	for _, k := range []string{"c", "a", "b", "e", "d"} {
		idx.Insert(k, "x")
	}

	var got []string
	cur := idx.head.loadNext(0).next
	for !idx.isTail(cur) {
		if !cur.loadNext(0).marked {
			got = append(got, cur.key)
		}
		cur = cur.loadNext(0).next
	}
	require.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
	require.Equal(t, map[string]struct{}{"x": {}}, idx.Search("c"))
	require.Empty(t, idx.Search("z"))
}

// TestLogicalDelete mirrors scenario 3.
func TestLogicalDelete(t *testing.T) {
	idx := New[string, string]()
	idx.Insert("a", "x")
	idx.Insert("b", "x")
	idx.Insert("c", "x")

	require.True(t, idx.Remove("b"))
	require.Empty(t, idx.Search("b"))
	require.False(t, idx.Remove("b"))

	require.True(t, idx.Insert("b", "y"))
	require.Equal(t, map[string]struct{}{"y": {}}, idx.Search("b"))
}

func TestRemoveMissingKey(t *testing.T) {
	idx := New[string, string]()
	require.False(t, idx.Remove("missing"))
}

// TestLevelOrdering mirrors property 8: every level's unmarked chain is
// strictly ascending.
func TestLevelOrdering(t *testing.T) {
	idx := New[int, string]()
	for i := 0; i < 200; i++ {
		idx.Insert(i, "v")
	}

	for level := 0; level < MaxLevel; level++ {
		var keys []int
		cur := idx.head.loadNext(level).next
		for !idx.isTail(cur) {
			if !cur.loadNext(level).marked {
				keys = append(keys, cur.key)
			}
			cur = cur.loadNext(level).next
		}
		require.True(t, sort.IntsAreSorted(keys), "level %d not sorted: %v", level, keys)
		for i := 1; i < len(keys); i++ {
			require.NotEqual(t, keys[i-1], keys[i], "duplicate key at level %d", level)
		}
	}
}

// TestConcurrentDisjointKeys mirrors scenario 6/property 9.
func TestConcurrentDisjointKeys(t *testing.T) {
	idx := New[string, string]()

	const workers = 8
	const perWorker = 500

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				key := fmt.Sprintf("w%d-k%04d", w, i)
				idx.Insert(key, "v")
				_, ok := idx.Search(key)["v"]
				require.True(t, ok)
			}
		}(w)
	}
	wg.Wait()
}

func TestConcurrentInsertSameKey(t *testing.T) {
	idx := New[string, string]()

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			idx.Insert("shared", fmt.Sprintf("v%d", w))
		}(w)
	}
	wg.Wait()

	vs := idx.Search("shared")
	require.Equal(t, workers, len(vs))
}

func TestRaceDelayBuildsSameResult(t *testing.T) {
	idx := New[int, string]()
	idx.raceDelay = true

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			idx.Insert(i, "v")
		}(i)
	}
	wg.Wait()

	for i := 0; i < 64; i++ {
		require.Equal(t, map[string]struct{}{"v": {}}, idx.Search(i))
	}
}
