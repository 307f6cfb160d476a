package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultGraphics is a 1280x720 window at 60 TPS with particles on.
func DefaultGraphics() Graphics {
	return Graphics{
		Width:            1280,
		Height:           720,
		VSync:            true,
		MouseVisible:     true,
		ParticlesEnabled: true,
		TPS:              60,
	}
}

// DefaultAudio plays everything at full volume with eight sound slots.
func DefaultAudio() Audio {
	return Audio{
		FxVolume:     1,
		MusicVolume:  0.8,
		MasterVolume: 1,
		MaxSounds:    8,
	}
}

// DefaultGame uses the English culture.
func DefaultGame() Game {
	return Game{
		Skin:         "default",
		Culture:      "en",
		MonitorColor: "#ffffff",
	}
}

// DefaultHotKeys binds the actions the engine tools understand.
func DefaultHotKeys() HotKeys {
	return HotKeys{Keys: []HotKey{
		{Action: "quit", Ctrl: true, Key: "Q"},
		{Action: "pause", Key: "Escape"},
		{Action: "fps", Key: "F3"},
		{Action: "mute", Ctrl: true, Key: "M"},
		{Action: "fullscreen", Alt: true, Key: "Enter"},
		{Action: "screenshot", Key: "F12"},
	}}
}

// InitializeDefaults fills every record with its default. Like Initialize it
// only succeeds once and does not notify.
func (m *Manager) InitializeDefaults() error {
	if m.initialized {
		return ErrAlreadyInitialized
	}
	m.graphics = DefaultGraphics()
	m.audio = DefaultAudio()
	m.game = DefaultGame()
	m.hotKeys = DefaultHotKeys()
	m.initialized = true
	m.logger.Info("default configuration loaded")
	return nil
}

// Files returns the content keys the manager reads.
func (m *Manager) Files() Files { return m.files }

// WriteDefaults writes the default records as YAML under dir, at the paths
// named by files. Existing files are kept unless force is set; the error
// then wraps fs.ErrExist. It returns the paths written.
func WriteDefaults(dir string, files Files, force bool) ([]string, error) {
	records := []struct {
		name string
		file string
		v    any
	}{
		{"graphics", files.Graphics, DefaultGraphics()},
		{"audio", files.Audio, DefaultAudio()},
		{"game", files.Game, DefaultGame()},
		{"hotkeys", files.HotKeys, DefaultHotKeys()},
	}

	for _, r := range records {
		if r.file == "" {
			return nil, fmt.Errorf("%s: %w", r.name, ErrFileNotDefined)
		}
		if force {
			continue
		}
		_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(r.file)))
		if err == nil {
			return nil, fmt.Errorf("%s config %q: %w", r.name, r.file, fs.ErrExist)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	written := make([]string, 0, len(records))
	for _, r := range records {
		data, err := yaml.Marshal(r.v)
		if err != nil {
			return written, fmt.Errorf("encode %s config: %w", r.name, err)
		}
		p := filepath.Join(dir, filepath.FromSlash(r.file))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return written, err
		}
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return written, err
		}
		written = append(written, p)
	}
	return written, nil
}
