package concidx

import (
	"fmt"
	"log"
	"os"
)

// Logger defines an interface for writing diagnostic messages. It exists so
// that the harness (cmd/concidx) and the index implementations never
// hard-code a concrete logging backend.
type Logger interface {
	Infof(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// DefaultLogger logs through the standard library's log package.
type DefaultLogger struct{}

// Infof implements Logger.
func (DefaultLogger) Infof(format string, args ...interface{}) {
	_ = log.Output(2, fmt.Sprintf(format, args...))
}

// Fatalf implements Logger.
func (DefaultLogger) Fatalf(format string, args ...interface{}) {
	_ = log.Output(2, fmt.Sprintf(format, args...))
	os.Exit(1)
}
