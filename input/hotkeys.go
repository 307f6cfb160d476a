package input

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/pulsar"
	"github.com/phanxgames/pulsar/config"
)

// ErrUnknownKey is returned for a hotkey naming a key Ebitengine does not
// know.
var ErrUnknownKey = errors.New("input: unknown key")

// Binding is a parsed hotkey.
type Binding struct {
	Action string
	Mods   Modifiers
	Key    ebiten.Key
}

// ParseHotKey converts a configured hotkey into a Binding.
func ParseHotKey(hk config.HotKey) (Binding, error) {
	var k ebiten.Key
	if err := k.UnmarshalText([]byte(hk.Key)); err != nil {
		return Binding{}, fmt.Errorf("%w: %q for action %q", ErrUnknownKey, hk.Key, hk.Action)
	}
	b := Binding{Action: hk.Action, Key: k}
	if hk.Shift {
		b.Mods |= ModShift
	}
	if hk.Ctrl {
		b.Mods |= ModCtrl
	}
	if hk.Alt {
		b.Mods |= ModAlt
	}
	return b, nil
}

// Matches reports whether the held modifiers are exactly the ones b asks
// for. Meta is ignored.
func (b Binding) Matches(mods Modifiers) bool {
	return mods&^ModMeta == b.Mods
}

// Option configures HotKeys.
type Option func(*HotKeys)

// WithSource replaces the Ebitengine keyboard.
func WithSource(s Source) Option {
	return func(h *HotKeys) { h.source = s }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *HotKeys) { h.logger = l }
}

// HotKeys is a game component emitting the action of every hotkey pressed
// during the tick.
type HotKeys struct {
	pulsar.GameComponent

	source    Source
	logger    *slog.Logger
	bindings  []Binding
	triggered pulsar.Event[string]
}

// NewHotKeys creates a component with no bindings.
func NewHotKeys(opts ...Option) *HotKeys {
	h := &HotKeys{source: Keyboard{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Bind replaces the bindings with cfg. Nothing changes if any hotkey fails to
// parse.
func (h *HotKeys) Bind(cfg config.HotKeys) error {
	bindings := make([]Binding, 0, len(cfg.Keys))
	for _, hk := range cfg.Keys {
		b, err := ParseHotKey(hk)
		if err != nil {
			return err
		}
		bindings = append(bindings, b)
	}
	h.bindings = bindings
	return nil
}

// Follow rebinds whenever the hotkey configuration changes.
func (h *HotKeys) Follow(cfg *config.Manager) pulsar.Handle {
	return cfg.HotKeysChanged().Subscribe(func(hk config.HotKeys) {
		if err := h.Bind(hk); err != nil {
			h.logger.Warn("hotkeys not rebound", "err", err)
		}
	})
}

// Bindings returns the current bindings.
func (h *HotKeys) Bindings() []Binding {
	return append([]Binding(nil), h.bindings...)
}

// Triggered fires with the action name of each matching hotkey.
func (h *HotKeys) Triggered() *pulsar.Event[string] { return &h.triggered }

// Update polls the keyboard.
func (h *HotKeys) Update(pulsar.GameTime) error {
	if len(h.bindings) == 0 {
		return nil
	}
	mods := h.source.Modifiers()
	for _, b := range h.bindings {
		if h.source.IsKeyJustPressed(b.Key) && b.Matches(mods) {
			h.logger.Debug("hotkey", "action", b.Action)
			h.triggered.Emit(b.Action)
		}
	}
	return nil
}
