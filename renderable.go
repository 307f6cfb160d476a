package pulsar

import "time"

// RenderableGame is a Game with a draw pass. Drawable components are kept in
// draw order and drawn into the Window after every update.
type RenderableGame struct {
	*Game

	// OnBeginDraw runs before the drawables, after the window was cleared.
	OnBeginDraw func()
	// OnEndDraw runs after every drawable has drawn.
	OnEndDraw func()

	window      *Window
	drawables   orderedList[Drawable]
	drawHandles map[Drawable]Handle
	drawBuf     []Drawable
}

// NewRenderableGame creates a game that draws into w.
func NewRenderableGame(w *Window, opts ...Option) *RenderableGame {
	if w == nil {
		panic("pulsar: NewRenderableGame requires a window")
	}
	g := &RenderableGame{
		Game:        NewGame(opts...),
		window:      w,
		drawHandles: make(map[Drawable]Handle),
	}
	g.drawables.order = func(d Drawable) int { return d.DrawOrder() }
	g.components.Added().Subscribe(g.drawableAdded)
	g.components.Removed().Subscribe(g.drawableRemoved)
	g.Game.draw = g
	return g
}

// Window returns the render context.
func (g *RenderableGame) Window() *Window { return g.window }

// Draw calls Draw on every visible drawable, in draw order.
func (g *RenderableGame) Draw(t GameTime) {
	g.drawBuf = g.drawables.snapshot(g.drawBuf)
	for _, d := range g.drawBuf {
		if d.Visible() {
			d.Draw(t)
		}
	}
}

// drawFrame is the draw half of a tick: clear, draw, finish.
func (g *RenderableGame) drawFrame(t GameTime) {
	var start time.Time
	if g.debug {
		start = g.clock.Now()
	}

	g.window.Clear()
	g.window.SetView(nil)
	if g.OnBeginDraw != nil {
		g.OnBeginDraw()
	}
	g.Draw(t)
	if g.OnEndDraw != nil {
		g.OnEndDraw()
	}

	if g.debug {
		g.stats.drawTime = g.clock.Now().Sub(start)
		g.stats.drawables = len(g.drawables.items)
	}
}

func (g *RenderableGame) drawableAdded(c Component) {
	d, ok := c.(Drawable)
	if !ok {
		return
	}
	g.drawables.insert(d)
	g.drawHandles[d] = d.DrawOrderChanged().Subscribe(func(int) {
		g.drawables.reposition(d)
	})
}

func (g *RenderableGame) drawableRemoved(c Component) {
	d, ok := c.(Drawable)
	if !ok {
		return
	}
	g.drawables.remove(d)
	g.drawHandles[d].Remove()
	delete(g.drawHandles, d)
}
