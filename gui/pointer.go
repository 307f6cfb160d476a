package gui

import "github.com/hajimehoshi/ebiten/v2"

// PointerSource reports the pointer position in screen coordinates and
// whether its primary button is held.
type PointerSource interface {
	Position() (x, y float64)
	Pressed() bool
}

// Mouse reads the ebiten cursor and left mouse button.
type Mouse struct{}

func (Mouse) Position() (x, y float64) {
	cx, cy := ebiten.CursorPosition()
	return float64(cx), float64(cy)
}

func (Mouse) Pressed() bool {
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

// pointerEvent is one queued synthetic pointer sample.
type pointerEvent struct {
	x, y    float64
	pressed bool
}

// InjectPress queues a press at (x, y). Each queued event is consumed by one
// HandleInput call in place of the real pointer.
func (s *Shot) InjectPress(x, y float64) {
	s.inject = append(s.inject, pointerEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a move to (x, y) with the button held.
func (s *Shot) InjectMove(x, y float64) {
	s.inject = append(s.inject, pointerEvent{x: x, y: y, pressed: true})
}

// InjectHover queues a move to (x, y) with the button up.
func (s *Shot) InjectHover(x, y float64) {
	s.inject = append(s.inject, pointerEvent{x: x, y: y})
}

// InjectRelease queues a release at (x, y).
func (s *Shot) InjectRelease(x, y float64) {
	s.inject = append(s.inject, pointerEvent{x: x, y: y})
}

// InjectClick queues a press and a release at (x, y). Consumes two inputs.
func (s *Shot) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 interpolated moves
// and a release at (toX, toY).
func (s *Shot) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// nextPointer pops an injected event, or samples the source.
func (s *Shot) nextPointer() (pointerEvent, bool) {
	if len(s.inject) > 0 {
		evt := s.inject[0]
		copy(s.inject, s.inject[1:])
		s.inject = s.inject[:len(s.inject)-1]
		return evt, true
	}
	if s.pointer == nil {
		return pointerEvent{}, false
	}
	x, y := s.pointer.Position()
	return pointerEvent{x: x, y: y, pressed: s.pointer.Pressed()}, true
}
