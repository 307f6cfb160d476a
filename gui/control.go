// Package gui is a small retained-mode interface layer drawn by a director
// shot: containers of labels and buttons with hover, click, focus, sounds,
// translation and fade effects.
package gui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/pulsar"
)

// Surface is what controls draw on. pulsar.Window implements it.
type Surface interface {
	FillRect(r pulsar.Rect, c color.Color)
	Target() *ebiten.Image
}

// SoundPlayer plays interface sounds. audio.Manager implements it.
type SoundPlayer interface {
	PlaySound(key string) error
}

// Control is an element of a Container. Implementations embed BaseControl.
type Control interface {
	Bounds() pulsar.Rect
	Visible() bool
	Enabled() bool
	Update(t pulsar.GameTime)
	Draw(s Surface)

	base() *BaseControl
}

// Audioable controls play a sound when hovered and when clicked.
type Audioable interface {
	OverSoundKey() string
	ClickSoundKey() string
}

// Translatable controls take their text from the current language.
type Translatable interface {
	TranslateKey() string
	SetText(s string)
}

// FadeCapable controls are driven by a FadeEffect.
type FadeCapable interface {
	Fade() float64
	SetFade(v float64)
	// FadeIn reports whether the fade moves towards its end value.
	FadeIn() bool
}

// ColorCapable controls tint their background.
type ColorCapable interface {
	Background() pulsar.Color
	// ColorIn reports whether the highlight color applies.
	ColorIn() bool
}

// BaseControl carries the state shared by every control. The zero value is
// visible and enabled.
type BaseControl struct {
	// BackgroundColor fills the bounds; a transparent color draws nothing.
	BackgroundColor pulsar.Color
	// FadeEffect, when set, scales the background alpha by Fade.
	FadeEffect *FadeEffect

	OnClick func()
	OnEnter func()
	OnLeave func()
	OnOver  func()

	bounds   pulsar.Rect
	hidden   bool
	disabled bool
	hover    bool
	focus    bool
	fade     float64
}

func (c *BaseControl) base() *BaseControl { return c }

// Bounds returns the screen rectangle of the control.
func (c *BaseControl) Bounds() pulsar.Rect { return c.bounds }

// SetBounds moves and resizes the control.
func (c *BaseControl) SetBounds(r pulsar.Rect) { c.bounds = r }

// SetPosition moves the control.
func (c *BaseControl) SetPosition(x, y float64) {
	c.bounds.X, c.bounds.Y = x, y
}

// SetSize resizes the control.
func (c *BaseControl) SetSize(w, h float64) {
	c.bounds.Width, c.bounds.Height = w, h
}

func (c *BaseControl) Visible() bool            { return !c.hidden }
func (c *BaseControl) SetVisible(v bool)        { c.hidden = !v }
func (c *BaseControl) Enabled() bool            { return !c.disabled }
func (c *BaseControl) SetEnabled(e bool)        { c.disabled = !e }
func (c *BaseControl) IsHovered() bool          { return c.hover }
func (c *BaseControl) HasFocus() bool           { return c.focus }
func (c *BaseControl) Fade() float64            { return c.fade }
func (c *BaseControl) SetFade(v float64)        { c.fade = v }
func (c *BaseControl) FadeIn() bool             { return c.hover }
func (c *BaseControl) ColorIn() bool            { return c.hover }
func (c *BaseControl) Background() pulsar.Color { return c.BackgroundColor }

// Update runs the fade effect.
func (c *BaseControl) Update(t pulsar.GameTime) {
	if c.FadeEffect != nil {
		c.FadeEffect.Apply(c, t)
	}
}

// Draw fills the background.
func (c *BaseControl) Draw(s Surface) {
	c.drawBackground(s)
}

func (c *BaseControl) drawBackground(s Surface) {
	bg := c.BackgroundColor
	if c.FadeEffect != nil {
		bg.A *= c.fade
	}
	if bg.A <= 0 {
		return
	}
	s.FillRect(c.bounds, bg)
}

func (c *BaseControl) enter() {
	c.hover = true
	if c.OnEnter != nil {
		c.OnEnter()
	}
}

func (c *BaseControl) leave() {
	c.hover = false
	if c.OnLeave != nil {
		c.OnLeave()
	}
}

func (c *BaseControl) over() {
	if c.OnOver != nil {
		c.OnOver()
	}
}

func (c *BaseControl) click() {
	if c.OnClick != nil {
		c.OnClick()
	}
}
