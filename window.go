package pulsar

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Window is the render context handed to drawables and shots. It wraps the
// current target image and the active view.
//
// A Window without a target accepts every call and draws nothing, which lets
// the loop run headless.
type Window struct {
	// ClearColor fills the target at the start of every draw pass.
	ClearColor Color

	target      *ebiten.Image
	width       int
	height      int
	defaultView *Camera
	view        *Camera
}

// NewWindow creates a window with a logical size of width x height. The
// default view maps world coordinates straight to screen coordinates.
func NewWindow(width, height int) *Window {
	w := &Window{
		ClearColor: ColorBlack,
		width:      width,
		height:     height,
	}
	w.defaultView = NewCamera(w.Viewport())
	w.view = w.defaultView
	return w
}

// Size returns the logical size in pixels.
func (w *Window) Size() (width, height int) { return w.width, w.height }

// Viewport returns the full window rectangle.
func (w *Window) Viewport() Rect {
	return Rect{Width: float64(w.width), Height: float64(w.height)}
}

// Target returns the image being drawn to, or nil when headless.
func (w *Window) Target() *ebiten.Image { return w.target }

// SetTarget replaces the image being drawn to.
func (w *Window) SetTarget(img *ebiten.Image) { w.target = img }

// DefaultView returns the identity view.
func (w *Window) DefaultView() *Camera { return w.defaultView }

// View returns the active view.
func (w *Window) View() *Camera { return w.view }

// SetView activates c. A nil camera restores the default view.
func (w *Window) SetView(c *Camera) {
	if c == nil {
		c = w.defaultView
	}
	w.view = c
}

// Clear fills the target with ClearColor.
func (w *Window) Clear() {
	if w.target == nil {
		return
	}
	w.target.Fill(w.ClearColor)
}

// FillRect draws a solid, possibly translucent, rectangle in screen space.
func (w *Window) FillRect(r Rect, c color.Color) {
	if w.target == nil || r.Width <= 0 || r.Height <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(r.Width, r.Height)
	op.GeoM.Translate(r.X, r.Y)
	op.ColorScale.ScaleWithColor(c)
	w.target.DrawImage(WhitePixel, op)
}

// DrawImage draws img in world space through the active view. op may be nil;
// its GeoM is treated as the image's world transform.
func (w *Window) DrawImage(img *ebiten.Image, op *ebiten.DrawImageOptions) {
	if w.target == nil || img == nil {
		return
	}
	if op == nil {
		op = &ebiten.DrawImageOptions{}
	}
	op.GeoM.Concat(w.view.GeoM())
	w.target.DrawImage(img, op)
}

// DrawScreenImage draws img in screen space, ignoring the active view.
func (w *Window) DrawScreenImage(img *ebiten.Image, op *ebiten.DrawImageOptions) {
	if w.target == nil || img == nil {
		return
	}
	w.target.DrawImage(img, op)
}
