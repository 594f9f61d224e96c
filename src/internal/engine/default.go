// FILE: tplog/src/internal/engine/default.go
package engine

import "sync/atomic"

var defaultEngine atomic.Pointer[Engine]

// SetDefault installs e as the process-wide default logger
func SetDefault(e *Engine) {
	defaultEngine.Store(e)
}

// Default returns the process-wide default logger or nil when none is installed
func Default() *Engine {
	return defaultEngine.Load()
}

// ClearDefault empties the slot, only if it still holds e when e is non-nil
func ClearDefault(e *Engine) {
	if e == nil {
		defaultEngine.Store(nil)
		return
	}
	defaultEngine.CompareAndSwap(e, nil)
}
