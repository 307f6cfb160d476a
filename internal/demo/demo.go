// Package demo assembles every pulsar subsystem into a small playable game:
// a translated menu, a particle field with a HUD and a pause dialog.
package demo

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/pulsar"
	"github.com/phanxgames/pulsar/audio"
	"github.com/phanxgames/pulsar/config"
	"github.com/phanxgames/pulsar/content"
	"github.com/phanxgames/pulsar/culture"
	"github.com/phanxgames/pulsar/director"
	"github.com/phanxgames/pulsar/gui"
	"github.com/phanxgames/pulsar/input"
)

// Title is the window title.
const Title = "Pulsar"

// Scene keys.
const (
	SceneMenu  = "menu"
	SceneField = "field"
)

// Options configures New.
type Options struct {
	// Assets holds config/, culture/, sounds/, music/ and images/. Missing
	// files fall back to defaults or silence.
	Assets fs.FS
	Logger *slog.Logger
	// Store, when set, overrides the loaded configuration and is saved when
	// the game ends.
	Store *config.Store
	// Backend plays audio. Nil uses Ebitengine at 44.1 kHz.
	Backend audio.Backend
	// Keys and Pointer replace the keyboard and mouse.
	Keys    input.Source
	Pointer gui.PointerSource
}

// Demo is the assembled game.
type Demo struct {
	Game    *pulsar.RenderableGame
	Config  *config.Manager
	Content *content.Manager
	Culture *culture.Manager
	Audio   *audio.Manager
	HotKeys *input.HotKeys
	Shots   *director.ShotManager
	Scenes  *director.SceneManager
	GUI     *gui.Manager
	FPS     *pulsar.FPSComponent
	Shooter *pulsar.ScreenshotComponent

	store   *config.Store
	pointer gui.PointerSource
	logger  *slog.Logger
	pause   *gui.Shot
}

// New loads the configuration and builds the game. Nothing runs until Run.
func New(o Options) (*Demo, error) {
	if o.Assets == nil {
		return nil, errors.New("demo: no assets")
	}
	l := o.Logger
	if l == nil {
		l = slog.Default()
	}
	d := &Demo{store: o.Store, pointer: o.Pointer, logger: l}
	if d.pointer == nil {
		d.pointer = gui.Mouse{}
	}

	d.Content = content.NewManager(o.Assets, content.WithLogger(l))
	d.Config = config.NewManager(config.DefaultFiles, config.WithLogger(l))
	if err := d.Config.Initialize(d.Content); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		l.Warn("configuration files missing, using defaults", "err", err)
		if err := d.Config.InitializeDefaults(); err != nil {
			return nil, err
		}
	}
	if d.store != nil {
		if err := d.store.Apply(d.Config); err != nil {
			return nil, err
		}
	}

	g := d.Config.Graphics()
	window := pulsar.NewWindow(g.Width, g.Height)
	d.Game = pulsar.NewRenderableGame(window, pulsar.WithLogger(l))
	d.GUI = gui.NewManager()

	d.Culture = culture.NewManager(d.Content, culture.WithLogger(l))
	if err := d.Culture.Initialize(d.Config.Game()); err != nil {
		l.Warn("no language loaded", "err", err)
	}
	d.Culture.Follow(d.Config)

	backend := o.Backend
	if backend == nil {
		backend = audio.NewEbitenBackend(44100)
	}
	d.Audio = audio.NewManager(d.Content, backend, d.Config.Audio(), audio.WithLogger(l))
	d.Audio.Follow(d.Config)

	keyOpts := []input.Option{input.WithLogger(l)}
	if o.Keys != nil {
		keyOpts = append(keyOpts, input.WithSource(o.Keys))
	}
	d.HotKeys = input.NewHotKeys(keyOpts...)
	if err := d.HotKeys.Bind(d.Config.HotKeys()); err != nil {
		return nil, err
	}
	d.HotKeys.Follow(d.Config)
	d.HotKeys.Triggered().Subscribe(d.Action)

	d.Shots = director.NewShotManager(window, director.WithLogger(l))
	registry := director.NewShotRegistry()
	for tag, f := range map[string]director.ShotFactory{
		"menu":  d.newMenu,
		"field": d.newField,
		"hud":   d.newHUD,
	} {
		if err := registry.Register(tag, f); err != nil {
			return nil, err
		}
	}
	d.Scenes = director.NewSceneManager(d.Shots, registry, d.Content, director.WithLogger(l))
	d.Scenes.Register(SceneMenu, director.NewScene(false, "menu"))
	d.Scenes.Register(SceneField, director.NewScene(true, "field", "hud"))
	if err := d.Scenes.Validate(); err != nil {
		return nil, err
	}
	d.Scenes.LoadStarted().Subscribe(func(director.LoadStarted) { d.pause = nil })
	d.Scenes.SceneLoaded().Subscribe(func(e director.SceneLoaded) {
		if err := d.Audio.PlayMusic("music/"+e.Scene+".ogg", true); err != nil {
			l.Warn("no music for scene", "scene", e.Scene, "err", err)
		}
	})

	d.FPS = pulsar.NewFPSComponent(window)
	d.FPS.SetVisible(d.Config.Game().MonitorVisible)
	d.Config.GameChanged().Subscribe(func(gm config.Game) {
		d.FPS.SetVisible(gm.MonitorVisible)
	})

	d.Shooter = pulsar.NewScreenshotComponent(window, l)

	d.HotKeys.SetUpdateOrder(-2)
	d.Scenes.SetUpdateOrder(-1)
	for _, c := range []pulsar.Component{d.HotKeys, d.Audio, d.Scenes, d.Shots, d.FPS, d.Shooter} {
		if err := d.Game.Add(c); err != nil {
			return nil, err
		}
	}

	d.Game.OnLoadContent = func() error { return d.Scenes.Change(SceneMenu) }
	d.Game.OnUnloadContent = func() {
		d.Scenes.Dispose()
		d.Content.Unload()
	}
	d.Game.OnEndRun = d.save
	return d, nil
}

// Run opens the window and blocks until the game exits.
func (d *Demo) Run() error {
	d.Config.GraphicsChanged().Subscribe(func(g config.Graphics) {
		ebiten.SetFullscreen(g.Fullscreen)
	})
	return d.Game.RunWindowed(d.Config.Graphics().Window(Title))
}

// Action runs a hotkey action.
func (d *Demo) Action(action string) {
	switch action {
	case "quit":
		d.Game.Exit()
	case "pause":
		d.togglePause()
	case "fps":
		gm := d.Config.Game()
		gm.MonitorVisible = !gm.MonitorVisible
		d.Config.SetGame(gm)
	case "mute":
		a := d.Config.Audio()
		a.Mute = !a.Mute
		d.Config.SetAudio(a)
	case "fullscreen":
		g := d.Config.Graphics()
		g.Fullscreen = !g.Fullscreen
		d.Config.SetGraphics(g)
	case "screenshot":
		d.Shooter.Queue(d.Scenes.Current())
	default:
		d.logger.Debug("unhandled action", "action", action)
	}
}

// Paused reports whether the pause dialog is up.
func (d *Demo) Paused() bool { return d.pause != nil }

func (d *Demo) togglePause() {
	if d.pause != nil {
		d.pause.Leave()
		return
	}
	if d.Scenes.IsLoading() || d.Scenes.Current() != SceneField {
		return
	}
	p := d.newPause()
	if err := d.Shots.Add(p); err != nil {
		d.logger.Warn("pause dialog not shown", "err", err)
		return
	}
	d.pause = p
}

func (d *Demo) change(scene string) {
	if err := d.Scenes.Change(scene); err != nil {
		d.logger.Warn("scene change refused", "scene", scene, "err", err)
	}
}

func (d *Demo) save() {
	if d.store == nil {
		return
	}
	if err := d.store.Save(d.Config); err != nil {
		d.logger.Warn("configuration not saved", "err", err)
	}
}
