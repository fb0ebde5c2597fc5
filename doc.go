// Package concidx implements a concurrent in-memory index layer: a keyed,
// multi-value associative store with three interchangeable concurrency
// strategies.
//
//   - shardmap: an unordered, sharded hash index optimized for point
//     operations under many concurrent readers and writers.
//   - skiplist: an ordered, lock-free skip list offering non-blocking
//     progress for point operations.
//   - bplustree: an ordered, latch-coupled B+ tree offering point lookups
//     and ascending range scans.
//
// All three offer Insert and Search; the ordered two also offer Remove, and
// the B+ tree alone offers RangeSearch. Their methods return plain maps and
// slices, so the implementation types do not themselves satisfy the Index,
// OrderedIndex and RangeIndex interfaces declared here. Callers that need
// to pick a concurrency strategy at runtime use Variant, a tagged union
// over the three kinds that implements Index, rather than type-asserting
// an Index to a RangeIndex.
package concidx
