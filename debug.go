package banner

import (
	"fmt"
	"os"
	"time"
)

// frameStats holds per-frame pipeline metrics. Only populated when
// Renderer.Debug is true.
type frameStats struct {
	resolveTime time.Duration
	rasterTime  time.Duration
	panes       int
	drawn       int
	culled      int
	cheapHits   int
}

// debugLog prints per-frame stats to stderr.
func (r *Renderer) debugLog() {
	if !r.Debug {
		return
	}
	s := &r.stats
	_, _ = fmt.Fprintf(os.Stderr,
		"[banner] resolve: %v | raster: %v | panes: %d | drawn: %d | culled: %d | cheap: %d\n",
		s.resolveTime, s.rasterTime, s.panes, s.drawn, s.culled, s.cheapHits)
}
