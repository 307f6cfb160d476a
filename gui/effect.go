package gui

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/pulsar"
)

// FadeEffect moves a control's fade value between From and To: towards To
// while the control fades in, back towards From otherwise. A full sweep
// takes Duration.
type FadeEffect struct {
	From     float64
	To       float64
	Duration time.Duration
	// Loop restarts the sweep at From each time To is reached while fading
	// in.
	Loop bool
	// Ease shapes the sweep. Nil means linear.
	Ease ease.TweenFunc

	tween  *gween.Tween
	target float64
}

// NewFadeEffect returns a linear fade effect.
func NewFadeEffect(from, to float64, d time.Duration, loop bool) *FadeEffect {
	return &FadeEffect{From: from, To: to, Duration: d, Loop: loop}
}

// Apply advances c by one tick.
func (e *FadeEffect) Apply(c FadeCapable, t pulsar.GameTime) {
	target := e.From
	if c.FadeIn() {
		target = e.To
	}
	if e.tween == nil || target != e.target {
		if !e.start(c.Fade(), target) {
			e.restart(c, target)
			return
		}
	}
	v, done := e.tween.Update(float32(t.ElapsedSeconds()))
	if !done {
		c.SetFade(float64(v))
		return
	}
	c.SetFade(target)
	e.tween = nil
	e.restart(c, target)
}

// start begins a sweep from the current value to target, scaled to the
// distance left. It reports false when there is nothing to sweep.
func (e *FadeEffect) start(from, target float64) bool {
	e.target = target
	span := math.Abs(e.To - e.From)
	dist := math.Abs(target - from)
	if span == 0 || dist == 0 {
		e.tween = nil
		return false
	}
	fn := e.Ease
	if fn == nil {
		fn = ease.Linear
	}
	d := e.Duration.Seconds() * dist / span
	if d <= 0 {
		e.tween = nil
		return false
	}
	e.tween = gween.New(float32(from), float32(target), float32(d), fn)
	return true
}

// restart jumps back to From once a looping fade-in has reached To.
func (e *FadeEffect) restart(c FadeCapable, target float64) {
	if e.Duration <= 0 {
		c.SetFade(target)
	}
	if e.Loop && target == e.To && c.Fade() == e.To {
		c.SetFade(e.From)
		e.tween = nil
	}
}
