//go:build windows

package shutdown

import "os"

// OnSignal calls fn once for the first interrupt. The returned function stops
// listening.
func OnSignal(fn func(os.Signal)) (stop func()) {
	return watch(fn, os.Interrupt)
}
