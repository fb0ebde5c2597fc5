package concidx

import "github.com/cockroachdb/errors"

// ErrRangeUnsupported is returned by Variant.RangeSearch when the variant's
// underlying index kind does not support ordered range scans (every kind
// except KindBPlusTree).
var ErrRangeUnsupported = errors.New("concidx: index kind does not support range_search")

// ErrRemoveUnsupported is returned by Variant.Remove when the variant's
// underlying index kind does not expose whole-key removal (KindHash).
var ErrRemoveUnsupported = errors.New("concidx: index kind does not support remove")

// ErrUnknownKind is returned by NewVariant for a Kind value outside the
// three recognized kinds.
var ErrUnknownKind = errors.New("concidx: unknown index kind")
