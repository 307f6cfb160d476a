package pulsar

import (
	"log/slog"
	"time"
)

// frameStats holds per-frame timing and list sizes.
// Only populated when Game.debug is true.
type frameStats struct {
	updateTime  time.Duration
	drawTime    time.Duration
	frameTime   time.Duration
	updateables int
	drawables   int
}

// debugLog writes the frame statistics at debug level.
func (g *Game) debugLog() {
	if !g.debug {
		return
	}
	s := g.stats
	g.logger.Debug("frame",
		slog.Duration("update", s.updateTime),
		slog.Duration("draw", s.drawTime),
		slog.Duration("frame", s.frameTime),
		slog.Int("updateables", s.updateables),
		slog.Int("drawables", s.drawables),
	)
}

// debugMaxComponents is the registry size past which a warning is logged.
const debugMaxComponents = 1000

// debugCheckComponentCount warns once the registry grows past
// debugMaxComponents. Only called in debug mode.
func (g *Game) debugCheckComponentCount() {
	if n := g.components.Len(); n > debugMaxComponents {
		g.logger.Warn("component count exceeds threshold",
			"count", n, "threshold", debugMaxComponents)
	}
}
