// Package audio plays sound effects and one music track with the volumes of
// the audio configuration.
package audio

import (
	"fmt"
	"log/slog"

	"github.com/phanxgames/pulsar"
	"github.com/phanxgames/pulsar/config"
	"github.com/phanxgames/pulsar/content"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// Manager is a game component owning a fixed number of sound slots and the
// music track. Finished players are released by Update. Disabling the
// component stops everything.
type Manager struct {
	pulsar.GameComponent

	loader  content.Loader
	backend Backend
	cfg     config.Audio
	logger  *slog.Logger

	sounds      []Player
	music       Player
	musicKey    string
	musicPaused bool

	musicStopped pulsar.Event[string]
}

// NewManager creates a manager loading sounds through l.
func NewManager(l content.Loader, b Backend, cfg config.Audio, opts ...Option) *Manager {
	m := &Manager{loader: l, backend: b, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	m.SetConfig(cfg)
	m.EnabledChanged().Subscribe(func(enabled bool) {
		if !enabled {
			m.stopAll()
		}
	})
	return m
}

// Follow applies every change of the audio configuration.
func (m *Manager) Follow(c *config.Manager) pulsar.Handle {
	return c.AudioChanged().Subscribe(m.SetConfig)
}

// Config returns the configuration in use.
func (m *Manager) Config() config.Audio { return m.cfg }

// SetConfig applies cfg to the playing sounds and music. Slots beyond a
// lowered MaxSounds are stopped.
func (m *Manager) SetConfig(cfg config.Audio) {
	m.cfg = cfg.Clamped()
	n := m.cfg.MaxSounds
	if n < len(m.sounds) {
		for _, p := range m.sounds[n:] {
			closePlayer(p)
		}
		m.sounds = m.sounds[:n]
	} else {
		m.sounds = append(m.sounds, make([]Player, n-len(m.sounds))...)
	}

	fx := m.cfg.EffectiveFx()
	for _, p := range m.sounds {
		if p != nil {
			p.SetVolume(fx)
		}
	}
	if m.music != nil {
		m.music.SetVolume(m.cfg.EffectiveMusic())
	}
}

// MusicStopped fires with the key of a track that stopped or ended.
func (m *Manager) MusicStopped() *pulsar.Event[string] { return &m.musicStopped }

// MusicKey returns the key of the current track, or "".
func (m *Manager) MusicKey() string { return m.musicKey }

// IsMusicPaused reports whether the current track is paused.
func (m *Manager) IsMusicPaused() bool { return m.musicPaused }

// PlayingSounds returns the number of occupied sound slots.
func (m *Manager) PlayingSounds() int {
	n := 0
	for _, p := range m.sounds {
		if p != nil {
			n++
		}
	}
	return n
}

// PlayMusic starts the track key, replacing the current one. Asking for the
// track already playing does nothing.
func (m *Manager) PlayMusic(key string, loop bool) error {
	if !m.Enabled() || key == m.musicKey {
		return nil
	}
	p, err := m.newPlayer(key, loop)
	if err != nil {
		return err
	}
	closePlayer(m.music)
	m.music = p
	m.musicKey = key
	m.musicPaused = false
	p.SetVolume(m.cfg.EffectiveMusic())
	p.Play()
	m.logger.Debug("music started", "key", key, "loop", loop)
	return nil
}

// PauseMusic pauses the current track.
func (m *Manager) PauseMusic() {
	if !m.Enabled() || m.music == nil || m.musicPaused {
		return
	}
	m.music.Pause()
	m.musicPaused = true
}

// ResumeMusic resumes a paused track.
func (m *Manager) ResumeMusic() {
	if !m.Enabled() || m.music == nil || !m.musicPaused {
		return
	}
	m.music.Play()
	m.musicPaused = false
}

// StopMusic stops the current track. MusicStopped fires on the next Update.
// A disabled manager releases the track right away.
func (m *Manager) StopMusic() {
	if m.music == nil {
		return
	}
	m.music.Pause()
	m.musicPaused = false
}

// PlaySound plays key in a free slot. With every slot busy the sound is
// dropped.
func (m *Manager) PlaySound(key string) error {
	if !m.Enabled() || key == "" {
		return nil
	}
	slot := -1
	for i, p := range m.sounds {
		if p == nil {
			slot = i
			break
		}
	}
	if slot < 0 {
		m.logger.Debug("sound dropped", "key", key)
		return nil
	}
	p, err := m.newPlayer(key, false)
	if err != nil {
		return err
	}
	m.sounds[slot] = p
	p.SetVolume(m.cfg.EffectiveFx())
	p.Play()
	return nil
}

// Update releases finished sounds and a stopped track.
func (m *Manager) Update(pulsar.GameTime) error {
	for i, p := range m.sounds {
		if p != nil && !p.IsPlaying() {
			closePlayer(p)
			m.sounds[i] = nil
		}
	}
	if m.music != nil && !m.musicPaused && !m.music.IsPlaying() {
		key := m.musicKey
		closePlayer(m.music)
		m.music = nil
		m.musicKey = ""
		m.musicStopped.Emit(key)
	}
	return nil
}

// Dispose releases every player.
func (m *Manager) Dispose() {
	for i, p := range m.sounds {
		closePlayer(p)
		m.sounds[i] = nil
	}
	closePlayer(m.music)
	m.music = nil
	m.musicKey = ""
	m.musicPaused = false
}

func (m *Manager) stopAll() {
	for i, p := range m.sounds {
		if p != nil {
			p.Pause()
			closePlayer(p)
			m.sounds[i] = nil
		}
	}
	if m.music == nil {
		return
	}
	key := m.musicKey
	m.music.Pause()
	closePlayer(m.music)
	m.music = nil
	m.musicKey = ""
	m.musicPaused = false
	m.musicStopped.Emit(key)
}

func (m *Manager) newPlayer(key string, loop bool) (Player, error) {
	s, err := content.Load[*content.Sound](m.loader, key)
	if err != nil {
		return nil, err
	}
	p, err := m.backend.NewPlayer(s, loop)
	if err != nil {
		return nil, fmt.Errorf("play %q: %w", key, err)
	}
	return p, nil
}

func closePlayer(p Player) {
	if p != nil {
		_ = p.Close()
	}
}
