package pulsar

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Positioner is anything the camera can follow.
type Positioner interface {
	Position() Vec2
}

// Camera is a view into world space: position, zoom, rotation, and the
// screen viewport it renders into. Shots own one camera each and the window
// switches between them while drawing. The ShotManager advances the camera
// of every shot it updates.
type Camera struct {
	// X and Y are the world-space position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the camera rotation in radians (clockwise).
	Rotation float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	target  Positioner
	offset  Vec2
	lerp    float64
	scroll  *cameraScroll
	limits  Rect
	limited bool

	view  [6]float64
	inv   [6]float64
	dirty bool

	scrolled Event[Vec2]
}

// cameraScroll animates both axes with one easing function. gween returns
// the end value exactly on the finishing update.
type cameraScroll struct {
	x, y *gween.Tween
}

// NewCamera creates a Camera centered on the viewport, so world coordinates
// equal screen coordinates until it is moved.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		X:        viewport.X + viewport.Width/2,
		Y:        viewport.Y + viewport.Height/2,
		Zoom:     1,
		Viewport: viewport,
		dirty:    true,
	}
}

// Center returns the world position the camera looks at.
func (c *Camera) Center() Vec2 { return Vec2{X: c.X, Y: c.Y} }

// MoveTo centers the camera on p right away, cancelling any scroll.
func (c *Camera) MoveTo(p Vec2) {
	c.scroll = nil
	c.X, c.Y = p.X, p.Y
	c.settle()
}

// Follow tracks target plus offset. Every update closes lerp of the
// remaining distance; values outside (0,1] snap.
func (c *Camera) Follow(target Positioner, offset Vec2, lerp float64) {
	if lerp <= 0 || lerp > 1 {
		lerp = 1
	}
	c.target, c.offset, c.lerp = target, offset, lerp
}

// StopFollowing drops the follow target.
func (c *Camera) StopFollowing() { c.target = nil }

// Following reports whether the camera tracks a target.
func (c *Camera) Following() bool { return c.target != nil }

// ScrollTo eases the camera to p over d. A scroll takes precedence over
// following until it ends. A non-positive d moves at once; a nil fn is
// linear.
func (c *Camera) ScrollTo(p Vec2, d time.Duration, fn ease.TweenFunc) {
	if d <= 0 {
		c.MoveTo(p)
		c.scrolled.Emit(c.Center())
		return
	}
	if fn == nil {
		fn = ease.Linear
	}
	secs := float32(d.Seconds())
	c.scroll = &cameraScroll{
		x: gween.New(float32(c.X), float32(p.X), secs, fn),
		y: gween.New(float32(c.Y), float32(p.Y), secs, fn),
	}
}

// Scrolling reports whether a ScrollTo is under way.
func (c *Camera) Scrolling() bool { return c.scroll != nil }

// Scrolled fires with the camera center when a scroll ends.
func (c *Camera) Scrolled() *Event[Vec2] { return &c.scrolled }

// Limit keeps the visible area inside world. The camera is clamped right
// away.
func (c *Camera) Limit(world Rect) {
	c.limits, c.limited = world, true
	c.settle()
}

// Unlimit removes the world limits.
func (c *Camera) Unlimit() { c.limited = false }

// Limits returns the world limits, if any.
func (c *Camera) Limits() (Rect, bool) { return c.limits, c.limited }

// Update advances the scroll or follow target by t.Elapsed, then applies the
// world limits.
func (c *Camera) Update(t GameTime) {
	switch {
	case c.scroll != nil:
		dt := float32(t.ElapsedSeconds())
		x, doneX := c.scroll.x.Update(dt)
		y, doneY := c.scroll.y.Update(dt)
		c.X, c.Y = float64(x), float64(y)
		if doneX && doneY {
			c.scroll = nil
			c.settle()
			c.scrolled.Emit(c.Center())
			return
		}
	case c.target != nil:
		p := c.target.Position()
		c.X += (p.X + c.offset.X - c.X) * c.lerp
		c.Y += (p.Y + c.offset.Y - c.Y) * c.lerp
	}
	c.settle()
}

// settle clamps to the world limits and invalidates the view matrix.
func (c *Camera) settle() {
	if c.limited {
		c.X = clampAxis(c.X, c.limits.X, c.limits.Width, c.Viewport.Width/(2*c.Zoom))
		c.Y = clampAxis(c.Y, c.limits.Y, c.limits.Height, c.Viewport.Height/(2*c.Zoom))
	}
	c.dirty = true
}

// clampAxis keeps v within [lo+half, lo+size-half], or centers it when the
// world is narrower than the view.
func clampAxis(v, lo, size, half float64) float64 {
	if size < 2*half {
		return lo + size/2
	}
	return math.Max(lo+half, math.Min(v, lo+size-half))
}

// matrix returns the view matrix, rebuilding it when the camera moved.
//
// view = Translate(viewport center) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y)
func (c *Camera) matrix() [6]float64 {
	if !c.dirty {
		return c.view
	}
	c.dirty = false

	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	sin, cos := math.Sincos(-c.Rotation)
	z := c.Zoom

	c.view = [6]float64{
		z * cos, z * sin,
		-z * sin, z * cos,
		cx + z*(-cos*c.X+sin*c.Y),
		cy + z*(-sin*c.X-cos*c.Y),
	}
	c.inv = invertAffine(c.view)
	return c.view
}

// GeoM returns the view transform as an ebiten.GeoM.
func (c *Camera) GeoM() ebiten.GeoM {
	return geoM(c.matrix())
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return transformPoint(c.matrix(), wx, wy)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.matrix()
	return transformPoint(c.inv, sx, sy)
}

// VisibleBounds returns the axis-aligned world rectangle the viewport shows.
func (c *Camera) VisibleBounds() Rect {
	c.matrix()
	return boundsOf(c.inv, c.Viewport)
}

// MarkDirty forces a recomputation of the view matrix. Call it after setting
// X, Y, Zoom or Rotation directly.
func (c *Camera) MarkDirty() {
	c.dirty = true
}
