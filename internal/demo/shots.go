package demo

import (
	"context"
	"errors"
	"io/fs"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/pulsar"
	"github.com/phanxgames/pulsar/content"
	"github.com/phanxgames/pulsar/director"
	"github.com/phanxgames/pulsar/gui"
	"github.com/phanxgames/pulsar/particles"
)

const (
	buttonWidth  = 240
	buttonHeight = 40
	buttonGap    = 16

	overSound  = "sounds/over.wav"
	clickSound = "sounds/click.wav"

	cameraPan = 600 * time.Millisecond
)

var (
	panelColor  = pulsar.Color{R: 0.1, G: 0.1, B: 0.18, A: 0.85}
	buttonColor = pulsar.Color{R: 0.3, G: 0.5, B: 0.9, A: 1}
	sparkStart  = pulsar.Color{R: 1, G: 0.8, B: 0.3, A: 1}
	sparkEnd    = pulsar.Color{R: 0.9, G: 0.2, B: 0.1, A: 1}
)

func (d *Demo) newGUIShot(function string) *gui.Shot {
	opts := []gui.ShotOption{
		gui.WithSounds(d.Audio),
		gui.WithPointer(d.pointer),
		gui.WithLogger(d.logger),
	}
	if d.Culture.Current() != nil {
		opts = append(opts, gui.WithCulture(d.Culture, function))
	}
	return gui.NewShot(d.GUI, d.Game.Window(), opts...)
}

func (d *Demo) newButton(text, key string, onClick func()) *gui.Button {
	b := gui.NewButton(text)
	b.TranslationKey = key
	b.OverSound = overSound
	b.ClickSound = clickSound
	b.BackgroundColor = buttonColor
	b.FadeEffect = gui.NewFadeEffect(0.6, 1, 150*time.Millisecond, false)
	b.SetFade(0.6)
	b.OnClick = onClick
	return b
}

type sizedControl interface {
	gui.Control
	SetBounds(r pulsar.Rect)
}

// column stacks controls horizontally centered in the window, starting at
// top.
func (d *Demo) column(top float64, ctls ...sizedControl) *gui.Container {
	w, _ := d.Game.Window().Size()
	x := (float64(w) - buttonWidth) / 2
	height := float64(len(ctls))*(buttonHeight+buttonGap) - buttonGap
	c := gui.NewContainer(pulsar.Rect{X: x, Y: top, Width: buttonWidth, Height: height})
	for i, ctl := range ctls {
		r := pulsar.Rect{X: x, Y: top + float64(i)*(buttonHeight+buttonGap), Width: buttonWidth, Height: buttonHeight}
		ctl.SetBounds(r)
		c.Add(ctl)
	}
	return c
}

func (d *Demo) newMenu() director.Shot {
	s := d.newGUIShot("menu")
	s.TransitionTime = 250 * time.Millisecond

	title := gui.NewLabel(Title)
	title.TranslationKey = "title"
	play := d.newButton("Play", "play", func() { d.change(SceneField) })
	quit := d.newButton("Quit", "quit", d.Game.Exit)

	_, h := d.Game.Window().Size()
	s.Add(d.column(float64(h)/3, title, play, quit))
	return s
}

func (d *Demo) newHUD() director.Shot {
	s := d.newGUIShot("hud")
	hint := gui.NewLabel("Click to burst, Escape to pause")
	hint.TranslationKey = "hint"
	hint.SetBounds(pulsar.Rect{X: 8, Y: 8, Width: 320, Height: 16})
	c := gui.NewContainer(hint.Bounds())
	c.Add(hint)
	s.Add(c)
	return s
}

func (d *Demo) newPause() *gui.Shot {
	s := d.newGUIShot("pause")
	s.Dialog = true
	s.BackdropAlpha = 160

	title := gui.NewLabel("Paused")
	title.TranslationKey = "paused"
	title.BackgroundColor = panelColor
	resume := d.newButton("Resume", "resume", d.togglePause)
	menu := d.newButton("Menu", "menu", func() { d.change(SceneMenu) })

	_, h := d.Game.Window().Size()
	s.Add(d.column(float64(h)/3, title, resume, menu))
	s.PositionChanged().Subscribe(func(p float64) {
		if s.IsLeaving() && p <= 0 {
			d.pause = nil
		}
	})
	return s
}

// fieldShot is a particle playground over a world twice the window size: a
// fountain in the middle, and a blast wherever the pointer clicks, which the
// camera then pans to.
type fieldShot struct {
	director.BaseShot

	demo      *Demo
	camera    *pulsar.Camera
	fountain  *particles.Emitter
	blasts    *particles.Emitter
	following []pulsar.Handle
	down      bool
}

func (d *Demo) newField() director.Shot {
	return &fieldShot{demo: d}
}

func sparkConfig(n int, trigger particles.Trigger) particles.Config {
	return particles.Config{
		MaxParticles: n,
		Trigger:      trigger,
		Lifetime:     pulsar.Range{Min: 0.6, Max: 1.4},
		Speed:        pulsar.Range{Min: 60, Max: 180},
		Angle:        pulsar.Range{Min: 0, Max: 2 * math.Pi},
		StartScale:   pulsar.Range{Min: 1, Max: 1.5},
		EndScale:     pulsar.Range{Min: 0.2, Max: 0.4},
		StartAlpha:   pulsar.Range{Min: 1, Max: 1},
		EndAlpha:     pulsar.Range{},
		Gravity:      pulsar.Vec2{Y: 120},
		StartColor:   sparkStart,
		EndColor:     sparkEnd,
		Size:         4,
	}
}

// LoadContent loads the spark image. Without one the sparks are squares.
func (f *fieldShot) LoadContent(ctx context.Context, l content.Loader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	img, err := content.Load[*ebiten.Image](l, "images/spark.png")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	window := f.demo.Game.Window()
	fountain := sparkConfig(512, &particles.Pulse{Interval: 400 * time.Millisecond, Amount: 24})
	fountain.Angle = pulsar.Range{Min: -math.Pi * 0.65, Max: -math.Pi * 0.35}
	fountain.Image = img
	blast := sparkConfig(1024, nil)
	blast.Image = img
	blast.WorldSpace = true

	w, h := window.Size()
	world := pulsar.Rect{Width: 2 * float64(w), Height: 2 * float64(h)}
	f.camera = pulsar.NewCamera(window.Viewport())
	f.camera.Limit(world)
	f.camera.MoveTo(pulsar.Vec2{X: world.Width / 2, Y: world.Height / 2})
	f.SetView(f.camera)

	f.fountain = particles.NewEmitter(window, fountain)
	f.blasts = particles.NewEmitter(window, blast)
	f.fountain.SetPosition(world.Width/2, world.Height/2+float64(h)/4)
	return nil
}

func (f *fieldShot) UnloadContent() {
	for _, h := range f.following {
		h.Remove()
	}
	f.following = nil
}

func (f *fieldShot) HandleInput(pulsar.GameTime) {
	pressed := f.demo.pointer.Pressed()
	if pressed && !f.down {
		x, y := f.camera.ScreenToWorld(f.demo.pointer.Position())
		f.blasts.SetPosition(x, y)
		f.blasts.Burst(96)
		f.camera.ScrollTo(pulsar.Vec2{X: x, Y: y}, cameraPan, ease.OutQuad)
	}
	f.down = pressed
}

// follow starts the emitters and ties them to the particles setting. It runs
// on the loop goroutine, unlike LoadContent.
func (f *fieldShot) follow() {
	f.fountain.Start()
	f.following = []pulsar.Handle{
		f.fountain.Follow(f.demo.Config),
		f.blasts.Follow(f.demo.Config),
	}
}

func (f *fieldShot) Update(t pulsar.GameTime) error {
	if f.following == nil {
		f.follow()
	}
	for _, e := range []*particles.Emitter{f.fountain, f.blasts} {
		if e.Enabled() {
			if err := e.Update(t); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *fieldShot) Draw(t pulsar.GameTime) {
	for _, e := range []*particles.Emitter{f.fountain, f.blasts} {
		if e.Visible() {
			e.Draw(t)
		}
	}
}
