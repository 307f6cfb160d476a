package gui

import (
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/phanxgames/pulsar"
)

// NewFace returns a face of the given size for a font loaded through the
// content manager.
func NewFace(src *text.GoTextFaceSource, size float64) text.Face {
	return &text.GoTextFace{Source: src, Size: size}
}

// Label draws a line of text over its background.
type Label struct {
	BaseControl

	// Face is the font face. Nil draws with the debug font.
	Face  text.Face
	Color pulsar.Color
	// TranslationKey names the translation replacing the text when the
	// language changes. Empty keeps the text as is.
	TranslationKey string
	// UseEffects runs the fade effect. Labels skip it by default.
	UseEffects bool

	text string
}

// NewLabel returns a white label.
func NewLabel(s string) *Label {
	return &Label{Color: pulsar.ColorWhite, text: s}
}

func (l *Label) Text() string         { return l.text }
func (l *Label) SetText(s string)     { l.text = s }
func (l *Label) TranslateKey() string { return l.TranslationKey }

// Update runs the fade effect when UseEffects is set.
func (l *Label) Update(t pulsar.GameTime) {
	if l.UseEffects {
		l.BaseControl.Update(t)
	}
}

// Draw fills the background and draws the text at the top-left corner.
func (l *Label) Draw(s Surface) {
	l.drawBackground(s)
	dst := s.Target()
	if dst == nil || l.text == "" {
		return
	}
	b := l.Bounds()
	if l.Face == nil {
		ebitenutil.DebugPrintAt(dst, l.text, int(b.X), int(b.Y))
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(b.X, b.Y)
	op.ColorScale.ScaleWithColor(l.Color)
	text.Draw(dst, l.text, l.Face, op)
}

// Button is a label that reacts to the pointer with sounds and effects.
type Button struct {
	Label

	OverSound  string
	ClickSound string
}

// NewButton returns a white button.
func NewButton(s string) *Button {
	return &Button{Label: *NewLabel(s)}
}

func (b *Button) OverSoundKey() string  { return b.OverSound }
func (b *Button) ClickSoundKey() string { return b.ClickSound }

// Update always runs the fade effect.
func (b *Button) Update(t pulsar.GameTime) {
	b.BaseControl.Update(t)
}

// Container groups controls. Hit testing goes through the container's
// bounds first, then through its controls from top to bottom.
type Container struct {
	Bounds  pulsar.Rect
	Visible bool

	controls []Control
}

// NewContainer returns a visible, empty container.
func NewContainer(bounds pulsar.Rect) *Container {
	return &Container{Bounds: bounds, Visible: true}
}

// Add appends c, drawn over the controls added before it.
func (c *Container) Add(ctl Control) {
	c.controls = append(c.controls, ctl)
}

// Remove takes ctl out of the container. Reports whether it was present.
func (c *Container) Remove(ctl Control) bool {
	for i, other := range c.controls {
		if other == ctl {
			c.controls = append(c.controls[:i], c.controls[i+1:]...)
			return true
		}
	}
	return false
}

// Controls returns a copy of the controls in draw order.
func (c *Container) Controls() []Control {
	return append([]Control(nil), c.controls...)
}

// Update updates every control.
func (c *Container) Update(t pulsar.GameTime) {
	for _, ctl := range c.controls {
		ctl.Update(t)
	}
}

// Draw draws the visible controls.
func (c *Container) Draw(s Surface) {
	if !c.Visible {
		return
	}
	for _, ctl := range c.controls {
		if ctl.Visible() {
			ctl.Draw(s)
		}
	}
}

// hit returns the topmost visible, enabled control under (x, y).
func (c *Container) hit(x, y float64) Control {
	if !c.Visible || !c.Bounds.Contains(x, y) {
		return nil
	}
	for i := len(c.controls) - 1; i >= 0; i-- {
		ctl := c.controls[i]
		if ctl.Visible() && ctl.Enabled() && ctl.Bounds().Contains(x, y) {
			return ctl
		}
	}
	return nil
}
