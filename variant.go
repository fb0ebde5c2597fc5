package concidx

import (
	"cmp"

	"github.com/cockroachdb/redact"

	"github.com/kvlab/concidx/internal/bplustree"
	"github.com/kvlab/concidx/internal/shardmap"
	"github.com/kvlab/concidx/internal/skiplist"
)

// Kind names one of the three concurrency strategies a Variant can wrap.
type Kind int

const (
	// KindHash is the sharded hash index (internal/shardmap).
	KindHash Kind = iota
	// KindSkipList is the lock-free skip list (internal/skiplist).
	KindSkipList
	// KindBPlusTree is the latch-coupled B+ tree (internal/bplustree).
	KindBPlusTree
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindHash:
		return "hash"
	case KindSkipList:
		return "skiplist"
	case KindBPlusTree:
		return "bplustree"
	default:
		return "unknown"
	}
}

// SafeFormat implements redact.SafeFormatter: a Kind is a small enum, not
// caller-supplied data, so it is always safe to interpolate into an error
// or log message.
func (k Kind) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Print(redact.SafeString(k.String()))
}

// HashConfig carries construction parameters specific to KindHash.
type HashConfig[K comparable] struct {
	Shards int
	Hash   shardmap.Hash[K]
}

// Variant is a tagged union over the three index kinds: exactly one of its
// three implementation pointers is non-nil, selected by Kind. Callers pick
// a concurrency strategy at construction time and thereafter interact with
// Variant uniformly, instead of type-asserting an Index down to a
// RangeIndex to discover whether range scans are available.
type Variant[K cmp.Ordered, V comparable] struct {
	kind Kind

	hash *shardmap.Index[K, V]
	skip *skiplist.Index[K, V]
	tree *bplustree.Tree[K, V]
}

// NewVariant builds a Variant of the given kind. hashCfg is consulted only
// for KindHash and may be the zero value to take shardmap.DefaultShards
// with hashCfg.Hash (which must still be supplied: Go generics have no
// default hash function for an arbitrary comparable type parameter).
// order is consulted only for KindBPlusTree.
func NewVariant[K cmp.Ordered, V comparable](kind Kind, hashCfg HashConfig[K], order int) (*Variant[K, V], error) {
	switch kind {
	case KindHash:
		shards := hashCfg.Shards
		if shards == 0 {
			shards = shardmap.DefaultShards
		}
		h, err := shardmap.New[K, V](shards, hashCfg.Hash)
		if err != nil {
			return nil, err
		}
		return &Variant[K, V]{kind: kind, hash: h}, nil

	case KindSkipList:
		return &Variant[K, V]{kind: kind, skip: skiplist.New[K, V]()}, nil

	case KindBPlusTree:
		if order == 0 {
			order = bplustree.DefaultOrder
		}
		tr, err := bplustree.New[K, V](order)
		if err != nil {
			return nil, err
		}
		return &Variant[K, V]{kind: kind, tree: tr}, nil

	default:
		return nil, ErrUnknownKind
	}
}

// Kind reports which concurrency strategy this Variant wraps.
func (v *Variant[K, V]) Kind() Kind { return v.kind }

// Insert implements Index.
func (v *Variant[K, V]) Insert(key K, value V) bool {
	switch v.kind {
	case KindHash:
		return v.hash.Insert(key, value)
	case KindSkipList:
		return v.skip.Insert(key, value)
	case KindBPlusTree:
		return v.tree.Insert(key, value)
	default:
		panic("concidx: invalid variant")
	}
}

// Search implements Index.
func (v *Variant[K, V]) Search(key K) ValueSet[V] {
	switch v.kind {
	case KindHash:
		return v.hash.Search(key)
	case KindSkipList:
		return v.skip.Search(key)
	case KindBPlusTree:
		return v.tree.Search(key)
	default:
		panic("concidx: invalid variant")
	}
}

// Remove deletes the entire key. It returns ErrRemoveUnsupported for
// KindHash's whole-key removal is exposed separately as RemoveValue/Remove
// on shardmap.Index directly; through Variant, KindHash only supports
// point insert/search, matching OrderedIndex being implemented by just the
// two ordered strategies.
func (v *Variant[K, V]) Remove(key K) (bool, error) {
	switch v.kind {
	case KindHash:
		return false, ErrRemoveUnsupported
	case KindSkipList:
		return v.skip.Remove(key), nil
	case KindBPlusTree:
		return v.tree.Remove(key), nil
	default:
		panic("concidx: invalid variant")
	}
}

// RangeSearch returns every live (key, values) pair with lo <= key < hi in
// ascending key order. It is a separate, explicit method rather than part
// of a polymorphic Remove-style dispatch because only KindBPlusTree can
// ever satisfy it; every other kind always returns ErrRangeUnsupported.
func (v *Variant[K, V]) RangeSearch(lo, hi K) (*RangeResult[K, V], error) {
	if v.kind != KindBPlusTree {
		return nil, ErrRangeUnsupported
	}

	raw := v.tree.RangeSearch(lo, hi)
	entries := make([]RangeEntry[K, V], len(raw))
	for i, e := range raw {
		entries[i] = RangeEntry[K, V]{Key: e.Key, Values: e.Values}
	}
	return NewRangeResult(entries), nil
}
