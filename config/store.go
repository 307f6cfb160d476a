package config

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const storeObject = "config"

// Store persists user overrides of the configuration records. A Store built
// without a gdata manager keeps the overrides in memory only.
type Store struct {
	data *gdata.Manager
	mem  map[string][]byte
}

// OpenStore opens the per-user storage of appName.
func OpenStore(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open config store: %w", err)
	}
	return NewStore(m), nil
}

// NewStore wraps m. A nil m gives a memory-only store.
func NewStore(m *gdata.Manager) *Store {
	return &Store{data: m, mem: make(map[string][]byte)}
}

// Persistent reports whether overrides survive the process.
func (s *Store) Persistent() bool { return s.data != nil }

// Save writes every record of m.
func (s *Store) Save(m *Manager) error {
	records := []struct {
		prop string
		v    any
	}{
		{"graphics", m.Graphics()},
		{"audio", m.Audio()},
		{"game", m.Game()},
		{"hotkeys", m.HotKeys()},
	}
	for _, r := range records {
		data, err := yaml.Marshal(r.v)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", r.prop, err)
		}
		if err := s.put(r.prop, data); err != nil {
			return fmt.Errorf("save %s: %w", r.prop, err)
		}
	}
	return nil
}

// Apply loads the saved records into m through its setters, so listeners
// see the overrides. Records never saved are left alone.
func (s *Store) Apply(m *Manager) error {
	var g Graphics
	ok, err := s.get("graphics", &g)
	if err != nil {
		return err
	}
	if ok {
		m.SetGraphics(g)
	}

	var a Audio
	if ok, err = s.get("audio", &a); err != nil {
		return err
	}
	if ok {
		m.SetAudio(a)
	}

	var gm Game
	if ok, err = s.get("game", &gm); err != nil {
		return err
	}
	if ok {
		m.SetGame(gm)
	}

	var hk HotKeys
	if ok, err = s.get("hotkeys", &hk); err != nil {
		return err
	}
	if ok {
		m.SetHotKeys(hk)
	}
	return nil
}

func (s *Store) put(prop string, data []byte) error {
	if s.data == nil {
		s.mem[prop] = data
		return nil
	}
	return s.data.SaveObjectProp(storeObject, prop, data)
}

func (s *Store) get(prop string, v any) (bool, error) {
	var data []byte
	if s.data == nil {
		var ok bool
		if data, ok = s.mem[prop]; !ok {
			return false, nil
		}
	} else {
		if !s.data.ObjectPropExists(storeObject, prop) {
			return false, nil
		}
		var err error
		if data, err = s.data.LoadObjectProp(storeObject, prop); err != nil {
			return false, fmt.Errorf("load %s: %w", prop, err)
		}
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", prop, err)
	}
	return true, nil
}
