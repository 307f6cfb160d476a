package gui

import (
	"log/slog"

	"github.com/phanxgames/pulsar"
	"github.com/phanxgames/pulsar/culture"
	"github.com/phanxgames/pulsar/director"
)

// Culture supplies translations. culture.Manager implements it.
type Culture interface {
	Function(key string) ([]culture.Translation, error)
	LanguageChanged() *pulsar.Event[*culture.Language]
}

// ShotOption configures a Shot.
type ShotOption func(*Shot)

// WithSounds plays hover and click sounds through p.
func WithSounds(p SoundPlayer) ShotOption {
	return func(s *Shot) { s.sounds = p }
}

// WithCulture translates the shot's controls with the translation function
// key and retranslates them whenever the language changes.
func WithCulture(c Culture, key string) ShotOption {
	return func(s *Shot) { s.culture, s.function = c, key }
}

// WithPointer reads the pointer from p. The default is Mouse.
func WithPointer(p PointerSource) ShotOption {
	return func(s *Shot) { s.pointer = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ShotOption {
	return func(s *Shot) { s.logger = l }
}

// Shot is a director shot holding GUI containers. It routes the pointer to
// the control under it: enter, leave and over while moving, and a click when
// the button is pressed and released over the same control.
type Shot struct {
	director.BaseShot

	manager  *Manager
	surface  Surface
	sounds   SoundPlayer
	culture  Culture
	function string
	pointer  PointerSource
	logger   *slog.Logger

	containers []*Container
	inject     []pointerEvent
	language   pulsar.Handle

	down    bool
	pressed Control
	lastX   float64
	lastY   float64
}

// NewShot creates a GUI shot drawing on s and sharing focus through m.
func NewShot(m *Manager, s Surface, opts ...ShotOption) *Shot {
	if m == nil || s == nil {
		panic("gui: NewShot requires a manager and a surface")
	}
	shot := &Shot{
		manager: m,
		surface: s,
		pointer: Mouse{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(shot)
	}
	if shot.culture != nil {
		shot.language = shot.culture.LanguageChanged().Subscribe(func(*culture.Language) {
			shot.translateAll()
		})
	}
	return shot
}

// Add appends c and translates its controls.
func (s *Shot) Add(c *Container) {
	s.containers = append(s.containers, c)
	s.translate(c)
}

// Containers returns a copy of the containers in draw order.
func (s *Shot) Containers() []*Container {
	return append([]*Container(nil), s.containers...)
}

// UnloadContent stops following the language and drops the shot's controls
// from the manager.
func (s *Shot) UnloadContent() {
	s.language.Remove()
	s.language = pulsar.Handle{}
	for _, c := range s.containers {
		for _, ctl := range c.controls {
			s.manager.forget(ctl)
		}
	}
}

// HandleInput processes one pointer sample.
func (s *Shot) HandleInput(pulsar.GameTime) {
	evt, ok := s.nextPointer()
	if !ok {
		return
	}
	s.processPointer(evt)
}

// Update updates every container.
func (s *Shot) Update(t pulsar.GameTime) error {
	for _, c := range s.containers {
		c.Update(t)
	}
	return nil
}

// Draw draws every container in order.
func (s *Shot) Draw(pulsar.GameTime) {
	for _, c := range s.containers {
		c.Draw(s.surface)
	}
}

func (s *Shot) processPointer(evt pointerEvent) {
	moved := evt.x != s.lastX || evt.y != s.lastY
	s.lastX, s.lastY = evt.x, evt.y

	hit := s.hit(evt.x, evt.y)
	over := s.manager.over
	switch {
	case hit != over:
		if over != nil {
			over.base().leave()
		}
		s.manager.over = hit
		if hit != nil {
			if a, ok := hit.(Audioable); ok {
				s.play(a.OverSoundKey())
			}
			hit.base().enter()
		}
	case hit != nil && moved:
		hit.base().over()
	}

	switch {
	case evt.pressed && !s.down:
		s.down = true
		s.pressed = hit
	case !evt.pressed && s.down:
		s.down = false
		target := s.pressed
		s.pressed = nil
		if target == nil || target != hit {
			return
		}
		if a, ok := hit.(Audioable); ok {
			s.play(a.ClickSoundKey())
		}
		s.manager.Focus(hit)
		hit.base().click()
	}
}

// hit returns the topmost control under (x, y), searching the containers
// added last first.
func (s *Shot) hit(x, y float64) Control {
	for i := len(s.containers) - 1; i >= 0; i-- {
		if ctl := s.containers[i].hit(x, y); ctl != nil {
			return ctl
		}
	}
	return nil
}

func (s *Shot) play(key string) {
	if s.sounds == nil || key == "" {
		return
	}
	if err := s.sounds.PlaySound(key); err != nil {
		s.logger.Warn("gui sound failed", "key", key, "err", err)
	}
}

func (s *Shot) translateAll() {
	for _, c := range s.containers {
		s.translate(c)
	}
}

// translate replaces the text of every translatable control of c with the
// current language's value. Controls without a translation keep their text.
func (s *Shot) translate(c *Container) {
	if s.culture == nil {
		return
	}
	ts, err := s.culture.Function(s.function)
	if err != nil {
		s.logger.Warn("gui translation unavailable", "function", s.function, "err", err)
		return
	}
	for _, ctl := range c.controls {
		tr, ok := ctl.(Translatable)
		if !ok || tr.TranslateKey() == "" {
			continue
		}
		v, ok := culture.Lookup(ts, tr.TranslateKey())
		if !ok {
			s.logger.Warn("gui translation missing", "function", s.function, "key", tr.TranslateKey())
			continue
		}
		tr.SetText(v)
	}
}
