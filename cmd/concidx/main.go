// Command concidx drives one load phase and one run phase of trace-file
// operations against a chosen concurrent index implementation, reporting
// throughput and latency at the end of the run phase.
//
// Grounded on cmd/pebble/main.go for the cobra wiring style and
// cmd/pebble/ycsb.go/test.go for the worker fan-out and histogram
// reporting idiom.
package main

import (
	"context"
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/kvlab/concidx"
)

var allowedWorkerCounts = map[int]bool{1: true, 4: true, 8: true, 16: true}

var rootCmd = &cobra.Command{
	Use:   "concidx <load-trace> <run-trace> <index-kind> <workers> <key-size> <value-size>",
	Short: "drive a concurrent in-memory index through a load and run trace",
	Args:  cobra.ExactArgs(6),
	RunE:  runConcidx,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra has already printed the error message.
		os.Exit(1)
	}
}

func runConcidx(cmd *cobra.Command, args []string) error {
	loadTracePath := args[0]
	runTracePath := args[1]
	kindTag := args[2]
	workersStr := args[3]
	keySizeStr := args[4]
	valSizeStr := args[5]

	workers, err := strconv.Atoi(workersStr)
	if err != nil || !allowedWorkerCounts[workers] {
		return errors.Wrapf(ErrBadWorkerCount, "%q", workersStr)
	}

	keySize, err := parseSize(keySizeStr)
	if err != nil {
		return err
	}
	valSize, err := parseSize(valSizeStr)
	if err != nil {
		return err
	}

	kind, err := kindForTag(kindTag)
	if err != nil {
		return err
	}

	variant, err := concidx.NewVariant[string, string](
		kind,
		concidx.HashConfig[string]{Hash: fnv64a},
		bplusTreeOrder,
	)
	if err != nil {
		return errors.Wrap(err, "building index")
	}

	cfg := &runConfig{
		variant: variant,
		keySize: keySize,
		valSize: valSize,
		workers: workers,
		kindTag: indexKindTag(kindTag),
		logger:  concidx.DefaultLogger{},
	}

	loadOps, err := readTraceFile(loadTracePath)
	if err != nil {
		return err
	}
	runOps, err := readTraceFile(runTracePath)
	if err != nil {
		return err
	}

	snap, err := runLoadPhase(cfg, loadOps)
	if err != nil {
		return err
	}

	result, err := runRunPhase(context.Background(), cfg, snap, runOps)
	if err != nil {
		return err
	}
	result.report()
	return nil
}

// bplusTreeOrder is the fixed fanout used whenever the index-kind tag
// selects the B+ tree; it is not a positional argument per spec.md §6.
const bplusTreeOrder = 64

// ErrBadWorkerCount is returned when the worker-count argument is not one
// of the four values the harness supports.
var ErrBadWorkerCount = errors.New("concidx: worker count must be one of 1, 4, 8, 16")

func readTraceFile(path string) ([]traceOp, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening trace file %q", path)
	}
	defer f.Close()

	ops, err := readTrace(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing trace file %q", path)
	}
	return ops, nil
}
