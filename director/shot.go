// Package director organises a game into shots and scenes.
//
// A Shot is one layer of a screen: a menu, a HUD, a dialog. The ShotManager
// runs every shot's transition and routes input, and the SceneManager swaps
// whole sets of shots, loading their content in parallel while the loop
// keeps ticking.
package director

import (
	"context"
	"time"

	"github.com/phanxgames/pulsar"
	"github.com/phanxgames/pulsar/content"
)

// State is the transition state of a shot.
type State uint8

const (
	TransitionOn  State = iota // fading in
	Active                     // fully shown, receives input
	TransitionOff              // fading out, evicted once fully off
	Hidden                     // paused; neither advanced nor drawn
)

func (s State) String() string {
	switch s {
	case TransitionOn:
		return "TransitionOn"
	case Active:
		return "Active"
	case TransitionOff:
		return "TransitionOff"
	case Hidden:
		return "Hidden"
	}
	return "Unknown"
}

// Shot is a screen layer managed by a ShotManager. Implementations embed
// BaseShot, which carries the transition state and default no-op methods.
type Shot interface {
	// LoadContent runs on a loader goroutine while a scene is loading.
	// It must not touch other shots or the game loop.
	LoadContent(ctx context.Context, loader content.Loader) error
	// UnloadContent runs on the loop goroutine when the shot is evicted or
	// its scene is replaced.
	UnloadContent()
	// HandleInput is called before Update while the shot is Active and has
	// input focus.
	HandleInput(t pulsar.GameTime)
	Update(t pulsar.GameTime) error
	Draw(t pulsar.GameTime)

	base() *BaseShot
}

// BaseShot holds the state the ShotManager drives. Embed it in every shot.
//
// The zero value starts in TransitionOn at position 0 and uses the window's
// default view.
type BaseShot struct {
	// TransitionTime is how long a full transition takes. Zero makes
	// transitions instantaneous.
	TransitionTime time.Duration
	// Dialog marks the shot as a modal dialog: it is drawn over a backdrop
	// and is the only shot receiving input. A manager holds at most one.
	Dialog bool
	// BackdropAlpha is the opacity of the backdrop drawn under a dialog.
	BackdropAlpha uint8

	view     *pulsar.Camera
	state    State
	position float64
	leaving  bool

	transitionStarted pulsar.Event[State]
	transitionStopped pulsar.Event[State]
	positionChanged   pulsar.Event[float64]
}

func (s *BaseShot) base() *BaseShot { return s }

// LoadContent does nothing.
func (s *BaseShot) LoadContent(context.Context, content.Loader) error { return nil }

// UnloadContent does nothing.
func (s *BaseShot) UnloadContent() {}

// HandleInput does nothing.
func (s *BaseShot) HandleInput(pulsar.GameTime) {}

// Update does nothing.
func (s *BaseShot) Update(pulsar.GameTime) error { return nil }

// Draw does nothing.
func (s *BaseShot) Draw(pulsar.GameTime) {}

// State returns the transition state.
func (s *BaseShot) State() State { return s.state }

// Position returns the transition position: 0 fully off, 1 fully on.
func (s *BaseShot) Position() float64 { return s.position }

// IsLeaving reports whether Leave was called.
func (s *BaseShot) IsLeaving() bool { return s.leaving }

// Leave starts the exit transition. The manager evicts the shot once the
// position reaches 0.
func (s *BaseShot) Leave() {
	s.leaving = true
	if s.state == Hidden {
		s.setState(TransitionOff)
	}
}

// Hide pauses the shot: it keeps its position but is neither advanced nor
// drawn.
func (s *BaseShot) Hide() { s.setState(Hidden) }

// Show resumes a hidden shot.
func (s *BaseShot) Show() {
	if s.state != Hidden {
		return
	}
	if s.leaving {
		s.setState(TransitionOff)
	} else {
		s.setState(TransitionOn)
	}
}

// View returns the camera the shot draws through; nil means the window's
// default view.
func (s *BaseShot) View() *pulsar.Camera { return s.view }

// SetView sets the camera the shot draws through.
func (s *BaseShot) SetView(c *pulsar.Camera) { s.view = c }

// TransitionStarted fires with the new state on entering TransitionOn or
// TransitionOff.
func (s *BaseShot) TransitionStarted() *pulsar.Event[State] { return &s.transitionStarted }

// TransitionStopped fires with the new state on entering Active or Hidden.
func (s *BaseShot) TransitionStopped() *pulsar.Event[State] { return &s.transitionStopped }

// PositionChanged fires with the new position whenever it changes.
func (s *BaseShot) PositionChanged() *pulsar.Event[float64] { return &s.positionChanged }

func (s *BaseShot) setState(st State) {
	if st == s.state {
		return
	}
	s.state = st
	if st == TransitionOn || st == TransitionOff {
		s.transitionStarted.Emit(st)
	} else {
		s.transitionStopped.Emit(st)
	}
}

func (s *BaseShot) setPosition(p float64) {
	if p == s.position {
		return
	}
	s.position = p
	s.positionChanged.Emit(p)
}

// advance runs one step of the transition state machine.
func (s *BaseShot) advance(t pulsar.GameTime) {
	if s.state == Hidden {
		return
	}
	delta := 1.0
	if s.TransitionTime > 0 {
		delta = t.ElapsedMillis() / (float64(s.TransitionTime) / float64(time.Millisecond))
	}

	if s.leaving {
		s.setPosition(s.position - delta)
		s.setState(TransitionOff)
		return
	}

	p := s.position + delta
	if p >= 1 {
		s.setPosition(pulsar.Clamp(p, 0, 1))
		s.setState(Active)
		return
	}
	s.setPosition(p)
	s.setState(TransitionOn)
}

// evictable reports whether the exit transition has finished.
func (s *BaseShot) evictable() bool {
	return s.state == TransitionOff && s.position <= 0
}
