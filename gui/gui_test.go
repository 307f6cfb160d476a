package gui

import (
	"errors"
	"image/color"
	"testing"
	"testing/fstest"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/pulsar"
	"github.com/phanxgames/pulsar/config"
	"github.com/phanxgames/pulsar/content"
	"github.com/phanxgames/pulsar/culture"
)

type fill struct {
	rect  pulsar.Rect
	color color.NRGBA
}

type fakeSurface struct{ fills []fill }

func (s *fakeSurface) FillRect(r pulsar.Rect, c color.Color) {
	s.fills = append(s.fills, fill{rect: r, color: color.NRGBAModel.Convert(c).(color.NRGBA)})
}

func (s *fakeSurface) Target() *ebiten.Image { return nil }

type fakeSounds struct {
	played []string
	err    error
}

func (p *fakeSounds) PlaySound(key string) error {
	p.played = append(p.played, key)
	return p.err
}

func tick(d time.Duration) pulsar.GameTime { return pulsar.GameTime{Elapsed: d} }

func button(name string, r pulsar.Rect) *Button {
	b := NewButton(name)
	b.SetBounds(r)
	b.OverSound = "over-" + name
	b.ClickSound = "click-" + name
	return b
}

// pump feeds every queued pointer event through the shot.
func pump(s *Shot) {
	for len(s.inject) > 0 {
		s.HandleInput(tick(0))
	}
}

func newTestShot(opts ...ShotOption) (*Shot, *Manager, *fakeSounds) {
	m := NewManager()
	sounds := &fakeSounds{}
	opts = append([]ShotOption{WithSounds(sounds), WithPointer(nil)}, opts...)
	return NewShot(m, &fakeSurface{}, opts...), m, sounds
}

func TestClickNeedsPressAndReleaseOnSameControl(t *testing.T) {
	s, m, sounds := newTestShot()
	a := button("a", pulsar.Rect{X: 0, Y: 0, Width: 100, Height: 20})
	b := button("b", pulsar.Rect{X: 0, Y: 30, Width: 100, Height: 20})
	var clicks []string
	a.OnClick = func() { clicks = append(clicks, "a") }
	b.OnClick = func() { clicks = append(clicks, "b") }
	c := NewContainer(pulsar.Rect{Width: 200, Height: 200})
	c.Add(a)
	c.Add(b)
	s.Add(c)

	s.InjectPress(10, 10)
	s.InjectRelease(10, 40)
	pump(s)
	assert.Empty(t, clicks)
	assert.Nil(t, m.Focused())

	s.InjectClick(10, 40)
	pump(s)
	assert.Equal(t, []string{"b"}, clicks)
	assert.Equal(t, []string{"over-a", "over-b", "click-b"}, sounds.played)
	assert.Same(t, b, m.Focused())
	assert.True(t, b.HasFocus())

	s.InjectDrag(10, 40, 10, 10, 4)
	pump(s)
	assert.Equal(t, []string{"b"}, clicks, "dragging off a control cancels its click")
	assert.Same(t, a, m.Hovered())
}

func TestHoverCallbacks(t *testing.T) {
	s, m, _ := newTestShot()
	a := button("a", pulsar.Rect{Width: 100, Height: 20})
	var trace []string
	a.OnEnter = func() { trace = append(trace, "enter") }
	a.OnOver = func() { trace = append(trace, "over") }
	a.OnLeave = func() { trace = append(trace, "leave") }
	c := NewContainer(pulsar.Rect{Width: 200, Height: 200})
	c.Add(a)
	s.Add(c)

	s.InjectHover(10, 10)
	s.InjectHover(12, 10)
	s.InjectHover(12, 10)
	s.InjectHover(150, 150)
	pump(s)

	assert.Equal(t, []string{"enter", "over", "leave"}, trace)
	assert.False(t, a.IsHovered())
	assert.Nil(t, m.Hovered())
}

func TestHitTesting(t *testing.T) {
	s, m, _ := newTestShot()
	under := button("under", pulsar.Rect{Width: 100, Height: 100})
	top := button("top", pulsar.Rect{Width: 50, Height: 50})
	hidden := button("hidden", pulsar.Rect{X: 100, Width: 50, Height: 50})
	hidden.SetVisible(false)
	disabled := button("disabled", pulsar.Rect{Y: 100, Width: 50, Height: 50})
	disabled.SetEnabled(false)
	c := NewContainer(pulsar.Rect{Width: 400, Height: 400})
	for _, b := range []*Button{under, top, hidden, disabled} {
		c.Add(b)
	}
	s.Add(c)

	tests := []struct {
		name string
		x, y float64
		want Control
	}{
		{"topmost wins", 10, 10, top},
		{"lower control", 80, 80, under},
		{"hidden is skipped", 120, 10, nil},
		{"disabled is skipped", 10, 120, nil},
		{"outside container", 500, 500, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.InjectHover(tt.x, tt.y)
			pump(s)
			if tt.want == nil {
				assert.Nil(t, m.Hovered())
				return
			}
			assert.Same(t, tt.want, m.Hovered())
		})
	}

	c.Visible = false
	s.InjectHover(10, 10)
	pump(s)
	assert.Nil(t, m.Hovered())
}

func TestSoundFailureDoesNotBlockClick(t *testing.T) {
	s, _, sounds := newTestShot()
	sounds.err = errors.New("no slot")
	a := button("a", pulsar.Rect{Width: 100, Height: 20})
	clicked := false
	a.OnClick = func() { clicked = true }
	c := NewContainer(pulsar.Rect{Width: 100, Height: 20})
	c.Add(a)
	s.Add(c)

	s.InjectClick(5, 5)
	pump(s)
	assert.True(t, clicked)
}

func TestLabelsHaveNoSounds(t *testing.T) {
	s, m, sounds := newTestShot()
	l := NewLabel("title")
	l.SetBounds(pulsar.Rect{Width: 100, Height: 20})
	c := NewContainer(pulsar.Rect{Width: 100, Height: 20})
	c.Add(l)
	s.Add(c)

	s.InjectClick(5, 5)
	pump(s)
	assert.Empty(t, sounds.played)
	assert.Same(t, l, m.Focused())
}

var languages = fstest.MapFS{
	"culture/en.yaml": {Data: []byte(`name: English
functions:
  - key: menu
    translations:
      - key: play
        value: Play
      - key: quit
        value: Quit
`)},
	"culture/fr.yaml": {Data: []byte(`name: Français
functions:
  - key: menu
    translations:
      - key: play
        value: Jouer
`)},
}

func TestTranslation(t *testing.T) {
	cm := culture.NewManager(content.NewManager(languages))
	require.NoError(t, cm.Initialize(config.Game{Culture: "en"}))
	s, _, _ := newTestShot(WithCulture(cm, "menu"))

	play := NewButton("")
	play.TranslationKey = "play"
	quit := NewButton("")
	quit.TranslationKey = "quit"
	plain := NewLabel("v1.0")
	c := NewContainer(pulsar.Rect{Width: 100, Height: 100})
	c.Add(play)
	c.Add(quit)
	c.Add(plain)
	s.Add(c)

	assert.Equal(t, "Play", play.Text())
	assert.Equal(t, "Quit", quit.Text())

	require.NoError(t, cm.ChangeLanguage("fr"))
	assert.Equal(t, "Jouer", play.Text())
	assert.Equal(t, "Quit", quit.Text(), "missing translations keep the text")
	assert.Equal(t, "v1.0", plain.Text())

	s.UnloadContent()
	require.NoError(t, cm.ChangeLanguage("en"))
	assert.Equal(t, "Jouer", play.Text())
}

func TestFocus(t *testing.T) {
	m := NewManager()
	a, b := NewButton("a"), NewButton("b")
	var changes []Control
	m.FocusChanged().Subscribe(func(c Control) { changes = append(changes, c) })

	m.Focus(a)
	m.Focus(a)
	m.Focus(b)
	assert.False(t, a.HasFocus())
	assert.True(t, b.HasFocus())
	m.Focus(nil)
	assert.False(t, b.HasFocus())
	assert.Equal(t, []Control{a, b, nil}, changes)
}

func TestUnloadForgetsControls(t *testing.T) {
	s, m, _ := newTestShot()
	a := button("a", pulsar.Rect{Width: 100, Height: 20})
	c := NewContainer(pulsar.Rect{Width: 100, Height: 20})
	c.Add(a)
	s.Add(c)
	s.InjectClick(5, 5)
	pump(s)
	require.Same(t, a, m.Focused())

	s.UnloadContent()
	assert.Nil(t, m.Focused())
	assert.Nil(t, m.Hovered())
}

func TestDraw(t *testing.T) {
	surface := &fakeSurface{}
	s := NewShot(NewManager(), surface, WithPointer(nil))
	solid := NewButton("solid")
	solid.SetBounds(pulsar.Rect{Width: 10, Height: 10})
	solid.BackgroundColor = pulsar.Color{R: 1, A: 1}
	faded := NewButton("faded")
	faded.SetBounds(pulsar.Rect{Y: 10, Width: 10, Height: 10})
	faded.BackgroundColor = pulsar.Color{G: 1, A: 1}
	faded.FadeEffect = NewFadeEffect(0, 1, time.Second, false)
	faded.SetFade(0.5)
	hidden := NewButton("hidden")
	hidden.BackgroundColor = pulsar.ColorWhite
	hidden.SetVisible(false)
	bare := NewLabel("no background")
	c := NewContainer(pulsar.Rect{Width: 100, Height: 100})
	for _, ctl := range []Control{solid, faded, hidden, bare} {
		c.Add(ctl)
	}
	s.Add(c)

	s.Draw(tick(0))
	assert.Equal(t, []fill{
		{rect: pulsar.Rect{Width: 10, Height: 10}, color: color.NRGBA{R: 255, A: 255}},
		{rect: pulsar.Rect{Y: 10, Width: 10, Height: 10}, color: color.NRGBA{G: 255, A: 128}},
	}, surface.fills)
}

func TestFadeEffect(t *testing.T) {
	b := NewButton("b")
	b.FadeEffect = NewFadeEffect(0, 1, time.Second, false)

	b.Update(tick(250 * time.Millisecond))
	assert.Zero(t, b.Fade(), "stays at From while not hovered")

	b.hover = true
	b.Update(tick(250 * time.Millisecond))
	assert.InDelta(t, 0.25, b.Fade(), 1e-5)
	b.Update(tick(time.Second))
	assert.Equal(t, 1.0, b.Fade())
	b.Update(tick(time.Second))
	assert.Equal(t, 1.0, b.Fade())

	b.hover = false
	b.Update(tick(500 * time.Millisecond))
	assert.InDelta(t, 0.5, b.Fade(), 1e-5)

	b.hover = true
	b.Update(tick(250 * time.Millisecond))
	assert.InDelta(t, 0.75, b.Fade(), 1e-5, "reversing keeps the sweep speed")
}

func TestFadeEffectLoop(t *testing.T) {
	b := NewButton("b")
	b.FadeEffect = NewFadeEffect(0, 1, time.Second, true)
	b.hover = true

	b.Update(tick(600 * time.Millisecond))
	assert.InDelta(t, 0.6, b.Fade(), 1e-5)
	b.Update(tick(600 * time.Millisecond))
	assert.Zero(t, b.Fade())
	b.Update(tick(500 * time.Millisecond))
	assert.InDelta(t, 0.5, b.Fade(), 1e-5)
}

func TestFadeEffectInstant(t *testing.T) {
	b := NewButton("b")
	b.FadeEffect = NewFadeEffect(0.2, 0.8, 0, false)
	b.hover = true
	b.Update(tick(time.Millisecond))
	assert.Equal(t, 0.8, b.Fade())
	b.hover = false
	b.Update(tick(time.Millisecond))
	assert.Equal(t, 0.2, b.Fade())
}

func TestLabelSkipsEffectsUnlessAsked(t *testing.T) {
	l := NewLabel("l")
	l.FadeEffect = NewFadeEffect(0, 1, 0, false)
	l.hover = true
	l.Update(tick(time.Millisecond))
	assert.Zero(t, l.Fade())
	l.UseEffects = true
	l.Update(tick(time.Millisecond))
	assert.Equal(t, 1.0, l.Fade())
}
