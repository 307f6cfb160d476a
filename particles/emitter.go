// Package particles is a CPU particle emitter drawn as a game component.
package particles

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/pulsar"
	"github.com/phanxgames/pulsar/config"
)

// Drawer is where particles are drawn. pulsar.Window implements it.
type Drawer interface {
	DrawImage(img *ebiten.Image, op *ebiten.DrawImageOptions)
}

// particle holds per-particle simulation state.
type particle struct {
	x, y       float64
	vx, vy     float64
	life       float64 // remaining lifetime in seconds
	maxLife    float64 // initial lifetime (for computing t)
	startScale float32
	endScale   float32
	scale      float32
	startAlpha float32
	endAlpha   float32
	alpha      float32
	startR     float32
	startG     float32
	startB     float32
	endR       float32
	endG       float32
	endB       float32
	colorR     float32
	colorG     float32
	colorB     float32
}

// Config controls how particles are spawned and behave.
type Config struct {
	// MaxParticles is the pool size. New particles are dropped when full.
	MaxParticles int
	// Trigger decides when particles are emitted. Nil emits only on Burst.
	Trigger Trigger
	// Lifetime is the range of particle lifetimes in seconds.
	Lifetime pulsar.Range
	// Speed is the range of initial speeds in pixels per second.
	Speed pulsar.Range
	// Angle is the range of emission angles in radians.
	Angle pulsar.Range
	// StartScale is interpolated to EndScale over a particle's lifetime.
	StartScale pulsar.Range
	EndScale   pulsar.Range
	// StartAlpha is interpolated to EndAlpha over a particle's lifetime.
	StartAlpha pulsar.Range
	EndAlpha   pulsar.Range
	// Gravity is the constant acceleration applied to every particle.
	Gravity pulsar.Vec2
	// StartColor is the tint at birth, interpolated to EndColor.
	StartColor pulsar.Color
	EndColor   pulsar.Color
	// Image is drawn for each particle, centered on it. Nil uses a white
	// pixel.
	Image *ebiten.Image
	// Size is the width in pixels of a particle at scale 1. Zero uses the
	// image's width.
	Size float64
	// WorldSpace keeps particles where they were emitted instead of moving
	// them with the emitter.
	WorldSpace bool
}

// Emitter manages a pool of particles. Add it to a pulsar.RenderableGame.
type Emitter struct {
	pulsar.DrawableGameComponent

	config    Config
	drawer    Drawer
	particles []particle
	alive     int
	active    bool
	x, y      float64
	op        ebiten.DrawImageOptions
}

// NewEmitter creates an emitter drawing on d with a preallocated pool.
func NewEmitter(d Drawer, cfg Config) *Emitter {
	if d == nil {
		panic("particles: NewEmitter requires a drawer")
	}
	max := cfg.MaxParticles
	if max <= 0 {
		max = 128
	}
	return &Emitter{
		config:    cfg,
		drawer:    d,
		particles: make([]particle, max),
	}
}

// Start rearms the trigger and begins emitting.
func (e *Emitter) Start() {
	e.active = true
	if e.config.Trigger != nil {
		e.config.Trigger.Reset()
	}
}

// Stop stops emitting new particles. Existing particles live out.
func (e *Emitter) Stop() { e.active = false }

// Reset stops emitting and kills every particle.
func (e *Emitter) Reset() {
	e.active = false
	e.alive = 0
}

// IsActive reports whether the trigger is consulted.
func (e *Emitter) IsActive() bool { return e.active }

// AliveCount returns the number of live particles.
func (e *Emitter) AliveCount() int { return e.alive }

// Config returns the emitter's config for live tuning.
func (e *Emitter) Config() *Config { return &e.config }

// Position returns the emitter origin.
func (e *Emitter) Position() (x, y float64) { return e.x, e.y }

// SetPosition moves the emitter origin.
func (e *Emitter) SetPosition(x, y float64) { e.x, e.y = x, y }

// Burst spawns up to n particles right away, whether or not the emitter is
// active. It returns how many fit in the pool.
func (e *Emitter) Burst(n int) int {
	spawned := 0
	for ; spawned < n && e.alive < len(e.particles); spawned++ {
		e.spawnParticle()
	}
	return spawned
}

// ApplyGraphics enables or disables the emitter from the particles setting.
// Disabling kills the live particles.
func (e *Emitter) ApplyGraphics(g config.Graphics) {
	if !g.ParticlesEnabled {
		e.alive = 0
	}
	e.SetEnabled(g.ParticlesEnabled)
	e.SetVisible(g.ParticlesEnabled)
}

// Follow applies the current graphics settings and every later change.
func (e *Emitter) Follow(cfg *config.Manager) pulsar.Handle {
	e.ApplyGraphics(cfg.Graphics())
	return cfg.GraphicsChanged().Subscribe(e.ApplyGraphics)
}

// Update advances the simulation.
func (e *Emitter) Update(t pulsar.GameTime) error {
	e.update(t.ElapsedSeconds())
	return nil
}

// update advances particle simulation by dt seconds.
func (e *Emitter) update(dt float64) {
	gx := e.config.Gravity.X * dt
	gy := e.config.Gravity.Y * dt

	// Swap-remove dead particles.
	i := 0
	for i < e.alive {
		p := &e.particles[i]
		p.life -= dt
		if p.life <= 0 {
			e.alive--
			e.particles[i] = e.particles[e.alive]
			continue
		}

		p.vx += gx
		p.vy += gy
		p.x += p.vx * dt
		p.y += p.vy * dt

		t := float32(1.0 - p.life/p.maxLife)
		p.scale = lerp32(p.startScale, p.endScale, t)
		p.alpha = lerp32(p.startAlpha, p.endAlpha, t)
		p.colorR = lerp32(p.startR, p.endR, t)
		p.colorG = lerp32(p.startG, p.endG, t)
		p.colorB = lerp32(p.startB, p.endB, t)

		i++
	}

	if e.active && e.config.Trigger != nil {
		e.Burst(e.config.Trigger.Spawn(dt))
	}
}

// spawnParticle initializes the particle at slot e.alive and increments alive.
func (e *Emitter) spawnParticle() {
	p := &e.particles[e.alive]

	angle := e.config.Angle.Random()
	speed := e.config.Speed.Random()
	p.vx = math.Cos(angle) * speed
	p.vy = math.Sin(angle) * speed

	if e.config.WorldSpace {
		p.x, p.y = e.x, e.y
	} else {
		p.x, p.y = 0, 0
	}

	p.life = e.config.Lifetime.Random()
	if p.life <= 0 {
		p.life = 1.0
	}
	p.maxLife = p.life

	p.startScale = float32(e.config.StartScale.Random())
	p.endScale = float32(e.config.EndScale.Random())
	p.scale = p.startScale

	p.startAlpha = float32(e.config.StartAlpha.Random())
	p.endAlpha = float32(e.config.EndAlpha.Random())
	p.alpha = p.startAlpha

	p.startR = float32(e.config.StartColor.R)
	p.startG = float32(e.config.StartColor.G)
	p.startB = float32(e.config.StartColor.B)
	p.endR = float32(e.config.EndColor.R)
	p.endG = float32(e.config.EndColor.G)
	p.endB = float32(e.config.EndColor.B)
	p.colorR = p.startR
	p.colorG = p.startG
	p.colorB = p.startB

	e.alive++
}

// Draw draws every live particle centered on its position.
func (e *Emitter) Draw(pulsar.GameTime) {
	if e.alive == 0 {
		return
	}
	img := e.config.Image
	if img == nil {
		img = pulsar.WhitePixel
	}
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	size := 1.0
	if e.config.Size > 0 {
		size = e.config.Size / w
	}
	ox, oy := 0.0, 0.0
	if !e.config.WorldSpace {
		ox, oy = e.x, e.y
	}

	for i := 0; i < e.alive; i++ {
		p := &e.particles[i]
		s := size * float64(p.scale)
		e.op.GeoM.Reset()
		e.op.GeoM.Translate(-w/2, -h/2)
		e.op.GeoM.Scale(s, s)
		e.op.GeoM.Translate(p.x+ox, p.y+oy)
		e.op.ColorScale.Reset()
		e.op.ColorScale.Scale(p.colorR*p.alpha, p.colorG*p.alpha, p.colorB*p.alpha, p.alpha)
		e.drawer.DrawImage(img, &e.op)
	}
}

// lerp32 linearly interpolates between a and b by t.
func lerp32(a, b, t float32) float32 {
	return a + (b-a)*t
}
