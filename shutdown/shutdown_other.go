//go:build !windows

package shutdown

import (
	"os"
	"syscall"
)

// OnSignal calls fn once for the first interrupt or terminate signal. The
// returned function stops listening.
func OnSignal(fn func(os.Signal)) (stop func()) {
	return watch(fn, os.Interrupt, syscall.SIGTERM)
}
