package director

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/pulsar"
)

// traceRenderer records view switches and backdrops as text.
type traceRenderer struct {
	def   *pulsar.Camera
	view  *pulsar.Camera
	names map[*pulsar.Camera]string
	trace *[]string
}

func newTraceRenderer(trace *[]string) *traceRenderer {
	def := pulsar.NewCamera(pulsar.Rect{Width: 320, Height: 240})
	return &traceRenderer{
		def:   def,
		view:  def,
		names: map[*pulsar.Camera]string{def: "default"},
		trace: trace,
	}
}

func (r *traceRenderer) View() *pulsar.Camera { return r.view }

func (r *traceRenderer) SetView(c *pulsar.Camera) {
	if c == nil {
		c = r.def
	}
	r.view = c
	*r.trace = append(*r.trace, "set-view "+r.names[c])
}

func (r *traceRenderer) FillRect(rect pulsar.Rect, c color.Color) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	*r.trace = append(*r.trace, fmt.Sprintf("backdrop %g,%g %gx%g rgba(%d,%d,%d,%d)",
		rect.X, rect.Y, rect.Width, rect.Height, n.R, n.G, n.B, n.A))
}

type traceShot struct {
	BaseShot
	name    string
	trace   *[]string
	unloads int
	err     error
}

func (s *traceShot) HandleInput(pulsar.GameTime) { *s.trace = append(*s.trace, "input "+s.name) }

func (s *traceShot) Update(pulsar.GameTime) error {
	*s.trace = append(*s.trace, "update "+s.name)
	return s.err
}

func (s *traceShot) Draw(pulsar.GameTime) { *s.trace = append(*s.trace, "draw "+s.name) }

func (s *traceShot) UnloadContent() { s.unloads++ }

// hookShot runs callbacks from its input and update calls and records any
// call it receives after UnloadContent.
type hookShot struct {
	BaseShot
	onInput  func()
	onUpdate func()
	unloaded bool
	late     []string
}

func (s *hookShot) HandleInput(pulsar.GameTime) {
	if s.unloaded {
		s.late = append(s.late, "input")
	}
	if s.onInput != nil {
		s.onInput()
	}
}

func (s *hookShot) Update(pulsar.GameTime) error {
	if s.unloaded {
		s.late = append(s.late, "update")
	}
	if s.onUpdate != nil {
		s.onUpdate()
	}
	return nil
}

func (s *hookShot) UnloadContent() { s.unloaded = true }

func newTraceShot(name string, trace *[]string) *traceShot {
	return &traceShot{name: name, trace: trace}
}

func tick(d time.Duration) pulsar.GameTime {
	return pulsar.GameTime{Elapsed: d}
}

func TestZeroTransitionTimeActivatesInOneUpdate(t *testing.T) {
	var trace []string
	m := NewShotManager(newTraceRenderer(&trace))
	s := newTraceShot("a", &trace)
	require.NoError(t, m.Add(s))

	require.NoError(t, m.Update(tick(time.Millisecond)))
	assert.Equal(t, Active, s.State())
	assert.Equal(t, 1.0, s.Position())
}

func TestTransitionOnProgressesWithElapsedTime(t *testing.T) {
	var trace []string
	m := NewShotManager(newTraceRenderer(&trace))
	s := newTraceShot("a", &trace)
	s.TransitionTime = 100 * time.Millisecond
	require.NoError(t, m.Add(s))

	var started, stopped []State
	s.TransitionStarted().Subscribe(func(st State) { started = append(started, st) })
	s.TransitionStopped().Subscribe(func(st State) { stopped = append(stopped, st) })

	for i := 0; i < 3; i++ {
		require.NoError(t, m.Update(tick(25*time.Millisecond)))
		assert.Equal(t, TransitionOn, s.State())
	}
	assert.InDelta(t, 0.75, s.Position(), 1e-9)

	require.NoError(t, m.Update(tick(40*time.Millisecond)))
	assert.Equal(t, Active, s.State())
	assert.Equal(t, 1.0, s.Position(), "position is clamped")
	assert.Empty(t, started)
	assert.Equal(t, []State{Active}, stopped)
}

func TestLeavingShotIsEvictedWhenFullyOff(t *testing.T) {
	var trace []string
	m := NewShotManager(newTraceRenderer(&trace))
	s := newTraceShot("a", &trace)
	s.TransitionTime = 100 * time.Millisecond
	require.NoError(t, m.Add(s))
	for s.State() != Active {
		require.NoError(t, m.Update(tick(50*time.Millisecond)))
	}

	s.Leave()
	prev := s.Position()
	for m.Len() > 0 {
		require.NoError(t, m.Update(tick(30*time.Millisecond)))
		if m.Len() == 0 {
			break
		}
		assert.Equal(t, TransitionOff, s.State())
		assert.LessOrEqual(t, s.Position(), prev)
		assert.Greater(t, s.Position(), 0.0, "shot must be evicted as soon as position <= 0")
		prev = s.Position()
	}
	assert.LessOrEqual(t, s.Position(), 0.0)
	assert.Equal(t, 1, s.unloads)
}

func TestAddRejectsSecondDialog(t *testing.T) {
	var trace []string
	m := NewShotManager(newTraceRenderer(&trace))
	a := newTraceShot("a", &trace)
	a.Dialog = true
	b := newTraceShot("b", &trace)
	b.Dialog = true

	require.NoError(t, m.Add(a))
	require.ErrorIs(t, m.Add(b), ErrMultipleDialogShots)
	assert.Equal(t, 1, m.Len())
	require.ErrorIs(t, m.Add(a), ErrDuplicateShot)
	require.ErrorIs(t, m.Add(nil), ErrNilShot)
}

func TestUpdateRejectsTwoDialogs(t *testing.T) {
	var trace []string
	m := NewShotManager(newTraceRenderer(&trace))
	a := newTraceShot("a", &trace)
	b := newTraceShot("b", &trace)
	require.NoError(t, m.Add(a))
	require.NoError(t, m.Add(b))
	a.Dialog = true
	b.Dialog = true

	require.ErrorIs(t, m.Update(tick(0)), ErrMultipleDialogShots)
	assert.Empty(t, trace, "no shot runs when the dialog invariant is broken")
}

func TestInputRouting(t *testing.T) {
	t.Run("every active shot without a dialog", func(t *testing.T) {
		var trace []string
		m := NewShotManager(newTraceRenderer(&trace))
		a := newTraceShot("a", &trace)
		b := newTraceShot("b", &trace)
		require.NoError(t, m.Add(a))
		require.NoError(t, m.Add(b))

		require.NoError(t, m.Update(tick(0)))
		trace = trace[:0]
		require.NoError(t, m.Update(tick(0)))
		assert.Equal(t, []string{"input a", "update a", "input b", "update b"}, trace)
	})

	t.Run("only the active dialog", func(t *testing.T) {
		var trace []string
		m := NewShotManager(newTraceRenderer(&trace))
		a := newTraceShot("a", &trace)
		d := newTraceShot("dialog", &trace)
		d.Dialog = true
		require.NoError(t, m.Add(a))
		require.NoError(t, m.Add(d))

		require.NoError(t, m.Update(tick(0)))
		trace = trace[:0]
		require.NoError(t, m.Update(tick(0)))
		assert.Equal(t, []string{"update a", "input dialog", "update dialog"}, trace)
	})

	t.Run("not while transitioning on", func(t *testing.T) {
		var trace []string
		m := NewShotManager(newTraceRenderer(&trace))
		a := newTraceShot("a", &trace)
		a.TransitionTime = time.Second
		require.NoError(t, m.Add(a))
		require.NoError(t, m.Update(tick(10*time.Millisecond)))
		assert.Equal(t, []string{"update a"}, trace)
	})
}

func TestHiddenShotIsPaused(t *testing.T) {
	var trace []string
	m := NewShotManager(newTraceRenderer(&trace))
	s := newTraceShot("a", &trace)
	s.TransitionTime = 100 * time.Millisecond
	require.NoError(t, m.Add(s))
	require.NoError(t, m.Update(tick(50*time.Millisecond)))

	s.Hide()
	require.NoError(t, m.Update(tick(50*time.Millisecond)))
	assert.Equal(t, Hidden, s.State())
	assert.InDelta(t, 0.5, s.Position(), 1e-9)

	trace = trace[:0]
	m.Draw(tick(0))
	assert.Empty(t, trace)

	s.Show()
	assert.Equal(t, TransitionOn, s.State())
	require.NoError(t, m.Update(tick(50*time.Millisecond)))
	assert.Equal(t, Active, s.State())
}

func TestUpdateErrorIsReturned(t *testing.T) {
	var trace []string
	m := NewShotManager(newTraceRenderer(&trace))
	boom := errors.New("boom")
	s := newTraceShot("a", &trace)
	s.err = boom
	require.NoError(t, m.Add(s))
	require.ErrorIs(t, m.Update(tick(0)), boom)
}

func TestEqualOrderShotsDrawInInsertionOrder(t *testing.T) {
	var trace []string
	m := NewShotManager(newTraceRenderer(&trace))
	require.NoError(t, m.Add(newTraceShot("A", &trace)))
	require.NoError(t, m.Add(newTraceShot("B", &trace)))
	require.NoError(t, m.Update(tick(0)))

	trace = trace[:0]
	m.Draw(tick(0))
	assert.Equal(t, []string{"set-view default", "draw A", "draw B"}, trace)
}

func TestRemoveUnloadsImmediately(t *testing.T) {
	var trace []string
	m := NewShotManager(newTraceRenderer(&trace))
	s := newTraceShot("a", &trace)
	require.NoError(t, m.Add(s))
	assert.True(t, m.Remove(s))
	assert.False(t, m.Remove(s))
	assert.Equal(t, 1, s.unloads)
	assert.Zero(t, m.Len())
}

func TestShotRemovedDuringUpdateGetsNoMoreCalls(t *testing.T) {
	var trace []string
	m := NewShotManager(newTraceRenderer(&trace))
	a, b, c := &hookShot{}, &hookShot{}, &hookShot{}
	for _, s := range []*hookShot{a, b, c} {
		require.NoError(t, m.Add(s))
	}
	require.NoError(t, m.Update(tick(time.Millisecond)))

	a.onInput = func() { m.Remove(b) }
	c.onUpdate = func() { m.Remove(c) }
	require.NoError(t, m.Update(tick(time.Millisecond)))
	assert.True(t, b.unloaded)
	assert.True(t, c.unloaded)
	assert.Empty(t, b.late)
	assert.Empty(t, c.late)
	assert.Equal(t, []Shot{a}, m.Shots())

	a.onInput = nil
	require.NoError(t, m.Update(tick(time.Millisecond)))
	assert.Empty(t, b.late)
	assert.Empty(t, c.late)
}

func TestShotCamerasAdvanceOncePerUpdate(t *testing.T) {
	var trace []string
	m := NewShotManager(newTraceRenderer(&trace))
	shared := pulsar.NewCamera(pulsar.Rect{Width: 320, Height: 240})
	shared.MoveTo(pulsar.Vec2{})
	paused := pulsar.NewCamera(pulsar.Rect{Width: 320, Height: 240})
	paused.MoveTo(pulsar.Vec2{})

	a, b, hidden := newTraceShot("a", &trace), newTraceShot("b", &trace), newTraceShot("h", &trace)
	a.SetView(shared)
	b.SetView(shared)
	hidden.SetView(paused)
	hidden.Hide()
	for _, s := range []Shot{a, b, hidden} {
		require.NoError(t, m.Add(s))
	}

	shared.ScrollTo(pulsar.Vec2{X: 100}, time.Second, nil)
	paused.ScrollTo(pulsar.Vec2{X: 100}, time.Second, nil)
	require.NoError(t, m.Update(tick(500*time.Millisecond)))
	assert.InDelta(t, 50, shared.X, 1e-3)
	assert.Zero(t, paused.X, "a hidden shot's camera does not move")

	require.NoError(t, m.Update(tick(500*time.Millisecond)))
	assert.Equal(t, 100.0, shared.X)
	assert.False(t, shared.Scrolling())
}

func TestDrawTrace(t *testing.T) {
	var trace []string
	r := newTraceRenderer(&trace)
	world := pulsar.NewCamera(pulsar.Rect{Width: 320, Height: 240})
	r.names[world] = "world"

	m := NewShotManager(r)
	background := newTraceShot("background", &trace)
	background.SetView(world)
	actors := newTraceShot("actors", &trace)
	actors.SetView(world)
	hud := newTraceShot("hud", &trace)
	pause := newTraceShot("pause", &trace)
	pause.Dialog = true
	pause.BackdropAlpha = 128
	hidden := newTraceShot("hidden", &trace)
	hidden.SetView(world)
	hidden.Hide()

	for _, s := range []*traceShot{background, actors, hud, pause, hidden} {
		require.NoError(t, m.Add(s))
	}
	require.NoError(t, m.Update(tick(16*time.Millisecond)))

	trace = trace[:0]
	m.Draw(tick(16 * time.Millisecond))

	g := goldie.New(t)
	g.Assert(t, "draw_trace", []byte(strings.Join(trace, "\n")+"\n"))
}
