package gui

import "github.com/phanxgames/pulsar"

// Manager tracks the focused and the hovered control across every GUI shot
// of a game.
type Manager struct {
	focus Control
	over  Control

	focusChanged pulsar.Event[Control]
}

// NewManager returns a manager with nothing focused.
func NewManager() *Manager { return &Manager{} }

// Focused returns the control with keyboard focus, or nil.
func (m *Manager) Focused() Control { return m.focus }

// Hovered returns the control under the pointer, or nil.
func (m *Manager) Hovered() Control { return m.over }

// FocusChanged fires with the newly focused control, nil when focus is
// cleared.
func (m *Manager) FocusChanged() *pulsar.Event[Control] { return &m.focusChanged }

// Focus gives c the focus. A nil c clears it.
func (m *Manager) Focus(c Control) {
	if c == m.focus {
		return
	}
	if m.focus != nil {
		m.focus.base().focus = false
	}
	m.focus = c
	if c != nil {
		c.base().focus = true
	}
	m.focusChanged.Emit(c)
}

// forget drops references to c.
func (m *Manager) forget(c Control) {
	if m.over == c {
		m.over = nil
	}
	if m.focus == c {
		m.Focus(nil)
	}
}
