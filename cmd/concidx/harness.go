package main

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"golang.org/x/sync/errgroup"

	"github.com/kvlab/concidx"
)

// ErrUnknownIndexKindTag is returned for an index-kind tag outside the
// three recognized strings.
var ErrUnknownIndexKindTag = errors.New("concidx: unknown index kind")

const (
	tagSkipList    = "skip-list"
	tagInvertedIdx = "inverted-index"
	tagBPlusTree   = "bplus-tree"
)

// indexKindTag is a validated CLI index-kind string. Like FileType in the
// teacher's internal/base/filenames.go, it is drawn from a small fixed set
// of known labels, so it is always safe to interpolate into an error or log
// message.
type indexKindTag string

// String implements fmt.Stringer.
func (t indexKindTag) String() string { return string(t) }

// SafeFormat implements redact.SafeFormatter.
func (t indexKindTag) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Print(redact.SafeString(string(t)))
}

func kindForTag(tag string) (concidx.Kind, error) {
	switch tag {
	case tagSkipList:
		return concidx.KindSkipList, nil
	case tagInvertedIdx:
		return concidx.KindHash, nil
	case tagBPlusTree:
		return concidx.KindBPlusTree, nil
	default:
		return 0, errors.Wrapf(ErrUnknownIndexKindTag, "%q", errors.Safe(tag))
	}
}

func fnv64a(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// padKey pads or truncates prefix to exactly size bytes with '*' filler,
// matching the trace grammar's "padded with * to the configured key size"
// rule.
func padKey(prefix string, size int) string {
	if len(prefix) >= size {
		return prefix[:size]
	}
	return prefix + strings.Repeat("*", size-len(prefix))
}

func fixedValue(size int) string {
	return strings.Repeat("*", size)
}

const (
	minLatency = 10 * time.Microsecond
	maxLatency = 10 * time.Second
)

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(minLatency.Nanoseconds(), maxLatency.Nanoseconds(), 3)
}

// runConfig bundles the parsed six positional arguments plus the built
// index, shared by the load and run phases.
type runConfig struct {
	variant *concidx.Variant[string, string]
	keySize int
	valSize int
	workers int
	kindTag indexKindTag
	logger  concidx.Logger
}

// loadSnapshot is the sorted set of distinct keys observed during the load
// phase. SCAN endpoints in the run phase are resolved against this fixed
// snapshot, never against the live index, per spec.md §9 resolution 3.
type loadSnapshot struct {
	sortedKeys []string
	frozen     bool
}

func newLoadSnapshot() *loadSnapshot {
	return &loadSnapshot{}
}

func (s *loadSnapshot) observe(key string) {
	if s.frozen {
		return
	}
	s.sortedKeys = append(s.sortedKeys, key)
}

func (s *loadSnapshot) finalize() {
	sort.Strings(s.sortedKeys)
	distinct := s.sortedKeys[:0]
	for _, k := range s.sortedKeys {
		if len(distinct) == 0 || distinct[len(distinct)-1] != k {
			distinct = append(distinct, k)
		}
	}
	s.sortedKeys = distinct
	s.frozen = true
}

// resolveScanRange turns (prefix, count) into the half-open [lo, hi) key
// range RangeSearch expects. hi is synthesized one byte past the last
// included key when the count runs off the end of the snapshot, since the
// snapshot itself has no natural successor key to use as an exclusive
// bound.
func (s *loadSnapshot) resolveScanRange(prefix string, count int) (lo, hi string) {
	start := sort.SearchStrings(s.sortedKeys, prefix)
	end := start + count
	if end > len(s.sortedKeys) {
		end = len(s.sortedKeys)
	}
	if start >= len(s.sortedKeys) || end <= start {
		return prefix, prefix
	}
	if end < len(s.sortedKeys) {
		return s.sortedKeys[start], s.sortedKeys[end]
	}
	return s.sortedKeys[start], s.sortedKeys[end-1] + "\xff"
}

// applyOp executes a single trace operation against cfg's index, recording
// the observed key into snap when non-nil (load phase only).
func applyOp(cfg *runConfig, snap *loadSnapshot, op traceOp) error {
	key := padKey(op.prefix, cfg.keySize)

	switch op.kind {
	case opGet:
		cfg.variant.Search(key)

	case opPut:
		cfg.variant.Insert(key, fixedValue(cfg.valSize))
		if snap != nil {
			snap.observe(key)
		}

	case opScan:
		if snap == nil {
			return nil
		}
		lo, hi := snap.resolveScanRange(key, op.count)
		if _, err := cfg.variant.RangeSearch(lo, hi); err != nil {
			cfg.logger.Infof("SCAN against %s rejected: %v", cfg.kindTag, err)
			return errors.Wrapf(err, "SCAN against %s", cfg.kindTag)
		}

	case opDel:
		if _, err := cfg.variant.Remove(key); err != nil {
			cfg.logger.Infof("DEL against %s rejected: %v", cfg.kindTag, err)
			return errors.Wrapf(err, "DEL against %s", cfg.kindTag)
		}
	}
	return nil
}

// runLoadPhase applies every op in ops sequentially, building the
// load-phase key snapshot used to resolve run-phase SCANs.
func runLoadPhase(cfg *runConfig, ops []traceOp) (*loadSnapshot, error) {
	cfg.logger.Infof("load phase: applying %d operations against %s", len(ops), cfg.kindTag)
	snap := newLoadSnapshot()
	for _, op := range ops {
		if err := applyOp(cfg, snap, op); err != nil {
			return nil, err
		}
	}
	snap.finalize()
	cfg.logger.Infof("load phase done: %d distinct keys observed", len(snap.sortedKeys))
	return snap, nil
}

// runResult summarizes the run phase for reporting.
type runResult struct {
	opCount int
	elapsed time.Duration
	latency *hdrhistogram.Histogram
}

// runRunPhase fans ops out across cfg.workers goroutines via an errgroup,
// splitting the trace into contiguous per-worker chunks: each worker owns
// a deterministic slice of trace lines rather than a key space, since the
// index itself - not worker-local partitioning - is what guarantees safe
// concurrent access to shared keys.
func runRunPhase(ctx context.Context, cfg *runConfig, snap *loadSnapshot, ops []traceOp) (*runResult, error) {
	cfg.logger.Infof("run phase: applying %d operations across %d workers", len(ops), cfg.workers)

	g, ctx := errgroup.WithContext(ctx)

	chunks := splitIntoChunks(ops, cfg.workers)
	histograms := make([]*hdrhistogram.Histogram, len(chunks))

	start := time.Now()
	for i, chunk := range chunks {
		i, chunk := i, chunk
		histograms[i] = newHistogram()
		g.Go(func() error {
			for _, op := range chunk {
				if err := ctx.Err(); err != nil {
					return err
				}
				opStart := time.Now()
				if err := applyOp(cfg, snap, op); err != nil {
					return err
				}
				elapsed := time.Since(opStart)
				if elapsed < minLatency {
					elapsed = minLatency
				} else if elapsed > maxLatency {
					elapsed = maxLatency
				}
				if err := histograms[i].RecordValue(elapsed.Nanoseconds()); err != nil {
					return errors.Wrap(err, "recording latency")
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	cfg.logger.Infof("run phase done in %s", elapsed)

	merged := newHistogram()
	for _, h := range histograms {
		merged.Merge(h)
	}

	return &runResult{opCount: len(ops), elapsed: elapsed, latency: merged}, nil
}

func splitIntoChunks(ops []traceOp, workers int) [][]traceOp {
	if workers < 1 {
		workers = 1
	}
	chunks := make([][]traceOp, workers)
	chunkSize := (len(ops) + workers - 1) / workers
	if chunkSize == 0 {
		chunkSize = 1
	}
	for i := 0; i < workers; i++ {
		lo := i * chunkSize
		if lo > len(ops) {
			lo = len(ops)
		}
		hi := lo + chunkSize
		if hi > len(ops) {
			hi = len(ops)
		}
		chunks[i] = ops[lo:hi]
	}
	return chunks
}

func (r *runResult) report() {
	opsPerSec := float64(r.opCount) / r.elapsed.Seconds()
	fmt.Printf("ops: %d  elapsed: %s  throughput: %.0f ops/sec\n", r.opCount, r.elapsed, opsPerSec)
	fmt.Printf("latency p50: %s  p99: %s  max: %s\n",
		time.Duration(r.latency.ValueAtQuantile(50)),
		time.Duration(r.latency.ValueAtQuantile(99)),
		time.Duration(r.latency.ValueAtQuantile(100)),
	)
}
