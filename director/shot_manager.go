package director

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"slices"

	"github.com/phanxgames/pulsar"
)

var (
	// ErrMultipleDialogShots is returned when a manager would hold more than
	// one dialog shot.
	ErrMultipleDialogShots = errors.New("director: only one dialog shot allowed")
	// ErrNilShot is returned when adding a nil shot.
	ErrNilShot = errors.New("director: nil shot")
	// ErrDuplicateShot is returned when a shot is added twice.
	ErrDuplicateShot = errors.New("director: shot already added")
)

// Renderer is the part of the window the ShotManager draws through.
// pulsar.Window implements it.
type Renderer interface {
	View() *pulsar.Camera
	SetView(c *pulsar.Camera)
	FillRect(r pulsar.Rect, c color.Color)
}

// Option configures a ShotManager or SceneManager.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	workers int
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default(), workers: -1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithWorkers caps the number of shots loading at the same time. The default,
// and any n <= 0, loads every shot of a scene at once.
func WithWorkers(n int) Option {
	if n <= 0 {
		n = -1
	}
	return func(o *options) { o.workers = n }
}

// ShotManager runs the shots of the current screen. Add it to a
// pulsar.RenderableGame; it updates and draws its shots in list order.
type ShotManager struct {
	pulsar.DrawableGameComponent

	// BackdropColor is the color under dialog shots. Its alpha is replaced by
	// the dialog's BackdropAlpha.
	BackdropColor pulsar.Color

	renderer Renderer
	shots    []Shot
	buf      []Shot
	views    []*pulsar.Camera
	logger   *slog.Logger
}

// NewShotManager creates a manager drawing through r.
func NewShotManager(r Renderer, opts ...Option) *ShotManager {
	if r == nil {
		panic("director: NewShotManager requires a renderer")
	}
	o := buildOptions(opts)
	return &ShotManager{
		BackdropColor: pulsar.ColorBlack,
		renderer:      r,
		logger:        o.logger,
	}
}

// Add appends s to the list. It fails if s is a dialog and the list already
// holds one.
func (m *ShotManager) Add(s Shot) error {
	if s == nil {
		return ErrNilShot
	}
	if m.owns(s) {
		return ErrDuplicateShot
	}
	if s.base().Dialog && m.dialogCount() > 0 {
		return ErrMultipleDialogShots
	}
	m.shots = append(m.shots, s)
	m.logger.Debug("shot added", "shot", fmt.Sprintf("%T", s), "count", len(m.shots))
	return nil
}

// Remove unloads s and takes it out of the list immediately, without an
// exit transition. Reports whether it was present.
func (m *ShotManager) Remove(s Shot) bool {
	for i, other := range m.shots {
		if other == s {
			s.UnloadContent()
			m.shots = append(m.shots[:i], m.shots[i+1:]...)
			return true
		}
	}
	return false
}

// Shots returns a copy of the current list.
func (m *ShotManager) Shots() []Shot {
	return append([]Shot(nil), m.shots...)
}

// Len returns the number of shots.
func (m *ShotManager) Len() int { return len(m.shots) }

// Update routes input, advances transitions and shot cameras, updates every
// shot and evicts the shots whose exit transition has finished.
func (m *ShotManager) Update(t pulsar.GameTime) error {
	var dialog Shot
	for _, s := range m.shots {
		if !s.base().Dialog {
			continue
		}
		if dialog != nil {
			return ErrMultipleDialogShots
		}
		dialog = s
	}

	// Input and Update may remove shots, or clear the list through a scene
	// change; a shot that left the list gets no further calls.
	m.buf = append(m.buf[:0], m.shots...)
	m.views = m.views[:0]
	for _, s := range m.buf {
		if !m.owns(s) {
			continue
		}
		b := s.base()
		if b.state == Active && (dialog == nil || s == dialog) {
			s.HandleInput(t)
			if !m.owns(s) {
				continue
			}
		}
		b.advance(t)
		if b.view != nil && b.state != Hidden && !slices.Contains(m.views, b.view) {
			m.views = append(m.views, b.view)
			b.view.Update(t)
		}
		if err := s.Update(t); err != nil {
			return fmt.Errorf("update shot %T: %w", s, err)
		}
	}
	clear(m.buf)
	clear(m.views)

	kept := m.shots[:0]
	for _, s := range m.shots {
		if s.base().evictable() {
			s.UnloadContent()
			m.logger.Debug("shot evicted", "shot", fmt.Sprintf("%T", s))
			continue
		}
		kept = append(kept, s)
	}
	clear(m.shots[len(kept):])
	m.shots = kept
	return nil
}

// Draw draws every shot that is not hidden, in list order. The renderer's
// view is switched only when a shot uses a different view than the previous
// one. Dialogs get a backdrop over their viewport first.
func (m *ShotManager) Draw(t pulsar.GameTime) {
	var last *pulsar.Camera
	switched := false
	for _, s := range m.shots {
		b := s.base()
		if b.state == Hidden {
			continue
		}
		if !switched || b.view != last {
			m.renderer.SetView(b.view)
			last = b.view
			switched = true
		}
		if b.Dialog {
			m.renderer.FillRect(m.renderer.View().Viewport, m.BackdropColor.WithAlpha(b.BackdropAlpha))
		}
		s.Draw(t)
	}
}

// Clear unloads and removes every shot.
func (m *ShotManager) Clear() {
	for _, s := range m.shots {
		s.UnloadContent()
	}
	clear(m.shots)
	m.shots = m.shots[:0]
}

// Dispose unloads every shot when the manager leaves the game.
func (m *ShotManager) Dispose() {
	m.Clear()
}

// install replaces the list with shots, which are already loaded.
func (m *ShotManager) install(shots []Shot) error {
	dialogs := 0
	for _, s := range shots {
		if s.base().Dialog {
			dialogs++
		}
	}
	if dialogs+m.dialogCount() > 1 {
		return ErrMultipleDialogShots
	}
	m.shots = append(m.shots, shots...)
	return nil
}

func (m *ShotManager) owns(s Shot) bool {
	for _, other := range m.shots {
		if other == s {
			return true
		}
	}
	return false
}

func (m *ShotManager) dialogCount() int {
	n := 0
	for _, s := range m.shots {
		if s.base().Dialog {
			n++
		}
	}
	return n
}
