package pulsar

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderable(t *testing.T) *RenderableGame {
	t.Helper()
	return NewRenderableGame(NewWindow(320, 240),
		WithClock(&stepClock{now: time.Unix(0, 0), step: time.Millisecond}))
}

func newDrawSpy(name string, order int, rec *recorder) *drawSpy {
	d := &drawSpy{name: name, rec: rec}
	d.SetDrawOrder(order)
	return d
}

func TestEqualDrawOrderDrawsInInsertionOrder(t *testing.T) {
	rec := &recorder{}
	g := newTestRenderable(t)
	require.NoError(t, g.Add(newDrawSpy("A", 5, rec)))
	require.NoError(t, g.Add(newDrawSpy("B", 5, rec)))

	require.NoError(t, g.Tick())
	assert.Equal(t, []string{"draw:A", "draw:B"}, rec.calls)
}

func TestDrawOrderAndVisibility(t *testing.T) {
	rec := &recorder{}
	g := newTestRenderable(t)
	top := newDrawSpy("top", 10, rec)
	mid := newDrawSpy("mid", 5, rec)
	bottom := newDrawSpy("bottom", 0, rec)
	for _, d := range []*drawSpy{top, mid, bottom} {
		require.NoError(t, g.Add(d))
	}
	mid.SetVisible(false)

	g.Draw(GameTime{})
	assert.Equal(t, []string{"draw:bottom", "draw:top"}, rec.calls)
}

func TestDrawOrderChangeRepositions(t *testing.T) {
	rec := &recorder{}
	g := newTestRenderable(t)
	a := newDrawSpy("a", 0, rec)
	b := newDrawSpy("b", 1, rec)
	require.NoError(t, g.Add(a))
	require.NoError(t, g.Add(b))

	a.SetDrawOrder(2)
	g.Draw(GameTime{})
	assert.Equal(t, []string{"draw:b", "draw:a"}, rec.calls)
}

func TestRemovedDrawableIsNotDrawn(t *testing.T) {
	rec := &recorder{}
	g := newTestRenderable(t)
	a := newDrawSpy("a", 0, rec)
	require.NoError(t, g.Add(a))
	g.Remove(a)

	g.Draw(GameTime{})
	assert.Empty(t, rec.calls)
	assert.Empty(t, g.drawables.items)
}

func TestTickRunsUpdateBeforeDraw(t *testing.T) {
	rec := &recorder{}
	g := newTestRenderable(t)
	require.NoError(t, g.Add(newSpy("logic", 0, rec)))
	require.NoError(t, g.Add(newDrawSpy("sprite", 0, rec)))
	g.OnBeginDraw = func() { rec.add("begin-draw") }
	g.OnEndDraw = func() { rec.add("end-draw") }

	require.NoError(t, g.Tick())
	assert.Equal(t, []string{"update:logic", "begin-draw", "draw:sprite", "end-draw"}, rec.calls)
	// Time is accumulated once per tick, after the draw pass.
	assert.Equal(t, time.Millisecond, g.Time().Elapsed)
}

func TestDrawPassResetsView(t *testing.T) {
	g := newTestRenderable(t)
	cam := NewCamera(Rect{Width: 10, Height: 10})
	g.Window().SetView(cam)
	require.NoError(t, g.Tick())
	assert.Same(t, g.Window().DefaultView(), g.Window().View())
}

func TestHeadlessWindowAcceptsDrawCalls(t *testing.T) {
	w := NewWindow(64, 64)
	assert.Nil(t, w.Target())
	w.Clear()
	w.FillRect(Rect{Width: 10, Height: 10}, color.Black)
	w.DrawImage(WhitePixel, nil)
	w.SetView(nil)
	assert.Same(t, w.DefaultView(), w.View())
	assert.Equal(t, Rect{Width: 64, Height: 64}, w.Viewport())
}

func TestFPSComponentRefreshesEveryHalfSecond(t *testing.T) {
	w := NewWindow(64, 64)
	fps := NewFPSComponent(w)
	assert.Equal(t, FPSDrawOrder, fps.DrawOrder())

	fps.text = ""
	require.NoError(t, fps.Update(GameTime{Elapsed: 200 * time.Millisecond}))
	assert.Empty(t, fps.Text())
	require.NoError(t, fps.Update(GameTime{Elapsed: 400 * time.Millisecond}))
	assert.Contains(t, fps.Text(), "FPS:")
}
