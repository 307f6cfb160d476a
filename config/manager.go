package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/phanxgames/pulsar"
	"github.com/phanxgames/pulsar/content"
)

var (
	// ErrAlreadyInitialized is returned by a second call to Initialize.
	ErrAlreadyInitialized = errors.New("config: already initialized")
	// ErrFileNotDefined is returned when a record has no file name.
	ErrFileNotDefined = errors.New("config: file name not defined")
)

// Files names the content key of each record.
type Files struct {
	Graphics string
	Audio    string
	Game     string
	HotKeys  string
}

// DefaultFiles is the usual layout of a game's config directory.
var DefaultFiles = Files{
	Graphics: "config/graphics.yaml",
	Audio:    "config/audio.yaml",
	Game:     "config/game.yaml",
	HotKeys:  "config/hotkeys.yaml",
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// Manager owns the four configuration records. Setters notify only when the
// value changes.
type Manager struct {
	files       Files
	initialized bool
	logger      *slog.Logger

	graphics Graphics
	audio    Audio
	game     Game
	hotKeys  HotKeys

	graphicsChanged pulsar.Event[Graphics]
	audioChanged    pulsar.Event[Audio]
	gameChanged     pulsar.Event[Game]
	hotKeysChanged  pulsar.Event[HotKeys]
}

// NewManager creates a manager reading the given files.
func NewManager(files Files, opts ...Option) *Manager {
	m := &Manager{files: files, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize loads every record from l. It can only succeed once; on failure
// no record is replaced.
func (m *Manager) Initialize(l content.Loader) error {
	if m.initialized {
		return ErrAlreadyInitialized
	}

	var (
		g  Graphics
		a  Audio
		gm Game
		hk HotKeys
	)
	steps := []struct {
		name string
		file string
		v    any
	}{
		{"graphics", m.files.Graphics, &g},
		{"audio", m.files.Audio, &a},
		{"game", m.files.Game, &gm},
		{"hotkeys", m.files.HotKeys, &hk},
	}
	for _, s := range steps {
		if s.file == "" {
			return fmt.Errorf("%s: %w", s.name, ErrFileNotDefined)
		}
		doc, err := content.Load[*content.YAML](l, s.file)
		if err != nil {
			return fmt.Errorf("load %s config: %w", s.name, err)
		}
		if err := doc.Decode(s.v); err != nil {
			return fmt.Errorf("decode %s config %q: %w", s.name, s.file, err)
		}
	}

	m.graphics = g
	m.audio = a.Clamped()
	m.game = gm
	m.hotKeys = hk
	m.initialized = true
	m.logger.Info("configuration loaded", "culture", gm.Culture, "hotkeys", len(hk.Keys))
	return nil
}

// IsInitialized reports whether Initialize succeeded.
func (m *Manager) IsInitialized() bool { return m.initialized }

// Graphics returns the display configuration.
func (m *Manager) Graphics() Graphics { return m.graphics }

// SetGraphics replaces the display configuration.
func (m *Manager) SetGraphics(g Graphics) {
	if g == m.graphics {
		return
	}
	m.graphics = g
	m.graphicsChanged.Emit(g)
}

// Audio returns the sound configuration.
func (m *Manager) Audio() Audio { return m.audio }

// SetAudio replaces the sound configuration. Volumes are clamped first.
func (m *Manager) SetAudio(a Audio) {
	a = a.Clamped()
	if a == m.audio {
		return
	}
	m.audio = a
	m.audioChanged.Emit(a)
}

// Game returns the game configuration.
func (m *Manager) Game() Game { return m.game }

// SetGame replaces the game configuration.
func (m *Manager) SetGame(g Game) {
	if g == m.game {
		return
	}
	m.game = g
	m.gameChanged.Emit(g)
}

// HotKeys returns a copy of the hotkey configuration.
func (m *Manager) HotKeys() HotKeys {
	return HotKeys{Keys: slices.Clone(m.hotKeys.Keys)}
}

// SetHotKeys replaces the hotkey configuration.
func (m *Manager) SetHotKeys(h HotKeys) {
	if h.Equal(m.hotKeys) {
		return
	}
	m.hotKeys = HotKeys{Keys: slices.Clone(h.Keys)}
	m.hotKeysChanged.Emit(m.HotKeys())
}

// GraphicsChanged fires with the new value after SetGraphics changed it.
func (m *Manager) GraphicsChanged() *pulsar.Event[Graphics] { return &m.graphicsChanged }

// AudioChanged fires with the new value after SetAudio changed it.
func (m *Manager) AudioChanged() *pulsar.Event[Audio] { return &m.audioChanged }

// GameChanged fires with the new value after SetGame changed it.
func (m *Manager) GameChanged() *pulsar.Event[Game] { return &m.gameChanged }

// HotKeysChanged fires with the new value after SetHotKeys changed it.
func (m *Manager) HotKeysChanged() *pulsar.Event[HotKeys] { return &m.hotKeysChanged }
