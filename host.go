package pulsar

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowConfig describes the native window used by RunWindowed.
type WindowConfig struct {
	Title      string
	Fullscreen bool
	VSync      bool
	Resizable  bool
	// TPS is the update rate. Zero keeps Ebitengine's default of 60.
	TPS int
	// CursorVisible shows the system cursor.
	CursorVisible bool
}

// RunWindowed runs the game inside ebiten.RunGame. The lifecycle matches
// Run: hooks and Initialize run first, Exit ends the loop, UnloadContent and
// EndRun run once Ebitengine returns.
func (g *RenderableGame) RunWindowed(cfg WindowConfig) error {
	if g.running {
		return ErrAlreadyRunning
	}
	g.running = true
	defer func() { g.running = false }()

	w, h := g.window.Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetFullscreen(cfg.Fullscreen)
	ebiten.SetVsyncEnabled(cfg.VSync)
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.CursorVisible {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}

	if err := g.start(); err != nil {
		g.unloadContent()
		return err
	}

	err := ebiten.RunGame(&host{game: g})
	g.unloadContent()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		g.logger.Error("game loop stopped", "err", err)
		return err
	}
	g.endRun()
	return nil
}

// host adapts a RenderableGame to ebiten.Game. Ebitengine calls Update at a
// fixed rate and Draw once per displayed frame, so elapsed time is measured
// between consecutive updates.
type host struct {
	game       *RenderableGame
	lastUpdate time.Time
}

func (h *host) Update() error {
	g := h.game
	if g.exiting.Load() {
		return ebiten.Termination
	}
	if err := g.takeAddErr(); err != nil {
		return err
	}

	now := g.clock.Now()
	if !h.lastUpdate.IsZero() {
		frame := now.Sub(h.lastUpdate)
		g.time = g.time.advance(frame)
		if g.debug {
			g.stats.frameTime = frame
			g.stats.updateables = len(g.updateables.items)
			g.debugLog()
		}
	}
	h.lastUpdate = now

	g.frameStart = now
	if err := g.Update(g.time); err != nil {
		return err
	}
	if g.debug {
		g.stats.updateTime = g.clock.Now().Sub(now)
	}
	return nil
}

func (h *host) Draw(screen *ebiten.Image) {
	h.game.window.SetTarget(screen)
	h.game.drawFrame(h.game.time)
}

func (h *host) Layout(outsideWidth, outsideHeight int) (int, int) {
	return h.game.window.Size()
}
