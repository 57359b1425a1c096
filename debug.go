package panoroom

import (
	"fmt"
	"os"
	"time"
)

// globalDebug mirrors the most recently set Scene debug flag so that the
// controller and loader (which lack a Scene pointer) can check it cheaply.
// Only valid with a single Scene.
var globalDebug bool

// logf prints a debug line to stderr.
func logf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[panoroom] "+format+"\n", args...)
}

// warnf prints a warning to stderr regardless of debug mode.
func warnf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[panoroom] warning: "+format+"\n", args...)
}

// debugStats holds per-frame timing and draw metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	drawTime     time.Duration
	quadCount    int
	hotspotCount int
	culledCount  int
}

// debugLog prints frame stats to stderr.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[panoroom] draw: %v\n", stats.drawTime)
	_, _ = fmt.Fprintf(os.Stderr,
		"[panoroom] quads: %d | hotspots: %d | culled: %d | state: %s\n",
		stats.quadCount, stats.hotspotCount, stats.culledCount, s.controller.State())
}
