package furnish

import (
	"fmt"
)

// SetDebugMode enables or disables per-command tracing. Diagnostics such as
// degenerate geometry are always logged.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// logf writes a diagnostic line to the configured output.
func (e *Engine) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.cfg.LogOutput, "[furnish] "+format+"\n", args...)
}

// logOnce writes a diagnostic the first time key is seen. Per-frame code
// uses it so a persistent failure is reported a single time.
func (e *Engine) logOnce(key, format string, args ...any) {
	if e.logged[key] {
		return
	}
	e.logged[key] = true
	e.logf(format, args...)
}

// tracef writes a line only in debug mode.
func (e *Engine) tracef(format string, args ...any) {
	if !e.debug {
		return
	}
	e.logf(format, args...)
}

// debugCheckBounds warns when a stored item sits outside its bounds. Only
// run in debug mode after commands that move items.
func (e *Engine) debugCheckBounds(id string) {
	if !e.debug {
		return
	}
	item, ok := e.store.Get(id)
	if !ok {
		return
	}
	b := e.boundsFor(item)
	if b.Fits() && !b.Contains(item.Position.X(), item.Position.Z()) {
		e.logf("warning: item %s at (%.3f, %.3f) outside bounds %+v",
			id, item.Position.X(), item.Position.Z(), b)
	}
}
