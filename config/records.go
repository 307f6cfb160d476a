// Package config holds the engine configuration records and the manager that
// loads them and reports changes.
package config

import (
	"slices"

	"github.com/phanxgames/pulsar"
)

// Graphics is the display configuration.
type Graphics struct {
	Width            int  `yaml:"width"`
	Height           int  `yaml:"height"`
	Fullscreen       bool `yaml:"fullscreen"`
	VSync            bool `yaml:"vsync"`
	MouseVisible     bool `yaml:"mouseVisible"`
	ParticlesEnabled bool `yaml:"particlesEnabled"`
	// TPS is the update rate; 0 keeps Ebitengine's default of 60.
	TPS int `yaml:"tps"`
}

// Window returns the window settings described by g.
func (g Graphics) Window(title string) pulsar.WindowConfig {
	return pulsar.WindowConfig{
		Title:         title,
		Fullscreen:    g.Fullscreen,
		VSync:         g.VSync,
		TPS:           g.TPS,
		CursorVisible: g.MouseVisible,
	}
}

// Audio is the sound configuration. Volumes range over [0, 1]; FX and music
// volumes are relative to the master volume.
type Audio struct {
	FxVolume     float64 `yaml:"fxVolume"`
	MusicVolume  float64 `yaml:"musicVolume"`
	MasterVolume float64 `yaml:"masterVolume"`
	FadeMusic    bool    `yaml:"fadeMusic"`
	// MaxSounds is how many sound effects can play at once.
	MaxSounds int  `yaml:"maxSounds"`
	Mute      bool `yaml:"mute"`
}

// Clamped returns a with every volume clamped to [0, 1] and a negative
// MaxSounds raised to 0.
func (a Audio) Clamped() Audio {
	a.FxVolume = pulsar.Clamp(a.FxVolume, 0, 1)
	a.MusicVolume = pulsar.Clamp(a.MusicVolume, 0, 1)
	a.MasterVolume = pulsar.Clamp(a.MasterVolume, 0, 1)
	a.MaxSounds = max(a.MaxSounds, 0)
	return a
}

// EffectiveFx is the volume sound effects play at.
func (a Audio) EffectiveFx() float64 {
	if a.Mute {
		return 0
	}
	return a.MasterVolume * a.FxVolume
}

// EffectiveMusic is the volume music plays at.
func (a Audio) EffectiveMusic() float64 {
	if a.Mute {
		return 0
	}
	return a.MasterVolume * a.MusicVolume
}

// Game is the game-wide configuration.
type Game struct {
	Skin     string `yaml:"skin"`
	SkinFont string `yaml:"skinFont"`
	// Culture is the language code loaded at startup.
	Culture        string `yaml:"culture"`
	MonitorVisible bool   `yaml:"monitorVisible"`
	MonitorColor   string `yaml:"monitorColor"`
}

// HotKey binds an action name to a key chord. Key uses Ebitengine key names
// such as "F1", "Enter" or "A".
type HotKey struct {
	Action string `yaml:"action"`
	Shift  bool   `yaml:"shift"`
	Ctrl   bool   `yaml:"ctrl"`
	Alt    bool   `yaml:"alt"`
	Key    string `yaml:"key"`
}

// HotKeys is the list of configured hotkeys.
type HotKeys struct {
	Keys []HotKey `yaml:"keys"`
}

// Equal reports whether h and o hold the same bindings in the same order.
func (h HotKeys) Equal(o HotKeys) bool {
	return slices.Equal(h.Keys, o.Keys)
}

// Find returns the binding for action.
func (h HotKeys) Find(action string) (HotKey, bool) {
	for _, k := range h.Keys {
		if k.Action == action {
			return k, true
		}
	}
	return HotKey{}, false
}
