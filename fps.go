package pulsar

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// FPSDrawOrder places the FPS overlay above everything else.
const FPSDrawOrder = 1 << 30

// FPSComponent displays the current FPS and TPS in the top-left corner.
// The text is refreshed every ~0.5 seconds.
type FPSComponent struct {
	DrawableGameComponent

	window *Window
	img    *ebiten.Image
	text   string
	since  float64
}

// NewFPSComponent creates the overlay. Add it to a RenderableGame.
func NewFPSComponent(w *Window) *FPSComponent {
	c := &FPSComponent{window: w}
	c.SetDrawOrder(FPSDrawOrder)
	return c
}

// Initialize allocates the overlay image.
func (c *FPSComponent) Initialize() error {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	c.img = ebiten.NewImage(100, 32)
	c.refresh()
	return nil
}

// Text returns the overlay text as last refreshed.
func (c *FPSComponent) Text() string { return c.text }

func (c *FPSComponent) Update(t GameTime) error {
	c.since += t.ElapsedSeconds()
	if c.since < 0.5 {
		return nil
	}
	c.since = 0
	c.refresh()
	return nil
}

func (c *FPSComponent) Draw(GameTime) {
	if c.window.Target() == nil || c.img == nil {
		return
	}
	c.img.Clear()
	// Semi-transparent background for readability.
	c.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(c.img, c.text)
	c.window.DrawScreenImage(c.img, &ebiten.DrawImageOptions{})
}

// Dispose releases the overlay image.
func (c *FPSComponent) Dispose() {
	if c.img != nil {
		c.img.Deallocate()
		c.img = nil
	}
}

func (c *FPSComponent) refresh() {
	c.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
}
