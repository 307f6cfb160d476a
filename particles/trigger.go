package particles

import "time"

// Trigger decides how many particles an emitter spawns each tick.
type Trigger interface {
	// Spawn returns the number of particles to emit after dt seconds.
	Spawn(dt float64) int
	// Reset rearms the trigger; Emitter.Start calls it.
	Reset()
}

// Rate emits a steady stream of PerSecond particles.
type Rate struct {
	PerSecond float64

	accum float64
}

func (r *Rate) Spawn(dt float64) int {
	if r.PerSecond <= 0 {
		return 0
	}
	r.accum += r.PerSecond * dt
	n := int(r.accum)
	r.accum -= float64(n)
	return n
}

func (r *Rate) Reset() { r.accum = 0 }

// Pulse emits Amount particles on the first tick and then once every
// Interval.
type Pulse struct {
	Interval time.Duration
	Amount   int

	elapsed float64
	started bool
}

func (p *Pulse) Spawn(dt float64) int {
	if !p.started {
		p.started = true
		return p.Amount
	}
	if p.Interval <= 0 {
		return 0
	}
	p.elapsed += dt
	n := 0
	for iv := p.Interval.Seconds(); p.elapsed >= iv; p.elapsed -= iv {
		n += p.Amount
	}
	return n
}

func (p *Pulse) Reset() {
	p.elapsed = 0
	p.started = false
}

// Blast emits Amount particles once, on the first tick after Start.
type Blast struct {
	Amount int

	fired bool
}

func (b *Blast) Spawn(float64) int {
	if b.fired {
		return 0
	}
	b.fired = true
	return b.Amount
}

func (b *Blast) Reset() { b.fired = false }
