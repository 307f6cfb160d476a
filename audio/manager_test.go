package audio

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/pulsar"
	"github.com/phanxgames/pulsar/config"
	"github.com/phanxgames/pulsar/content"
)

type fakePlayer struct {
	key     string
	loop    bool
	playing bool
	volume  float64
	closed  bool
}

func (p *fakePlayer) Play()               { p.playing = true }
func (p *fakePlayer) Pause()              { p.playing = false }
func (p *fakePlayer) IsPlaying() bool     { return p.playing }
func (p *fakePlayer) SetVolume(v float64) { p.volume = v }
func (p *fakePlayer) Close() error {
	p.closed = true
	return nil
}

type fakeBackend struct {
	players []*fakePlayer
}

func (b *fakeBackend) NewPlayer(s *content.Sound, loop bool) (Player, error) {
	p := &fakePlayer{key: string(s.Data), loop: loop}
	b.players = append(b.players, p)
	return p, nil
}

var sounds = fstest.MapFS{
	"sfx/click.wav":   {Data: []byte("click")},
	"sfx/hover.ogg":   {Data: []byte("hover")},
	"music/menu.ogg":  {Data: []byte("menu")},
	"music/level.mp3": {Data: []byte("level")},
	"sfx/readme.txt":  {Data: []byte("not audio")},
}

var testConfig = config.Audio{FxVolume: 0.5, MusicVolume: 0.25, MasterVolume: 0.8, MaxSounds: 2}

func newTestManager(t *testing.T) (*Manager, *fakeBackend) {
	t.Helper()
	b := &fakeBackend{}
	return NewManager(content.NewManager(sounds), b, testConfig), b
}

func TestPlaySoundUsesFreeSlots(t *testing.T) {
	m, b := newTestManager(t)

	require.NoError(t, m.PlaySound("sfx/click.wav"))
	require.NoError(t, m.PlaySound("sfx/hover.ogg"))
	require.NoError(t, m.PlaySound("sfx/click.wav"))
	assert.Len(t, b.players, 2, "third sound is dropped")
	assert.Equal(t, 2, m.PlayingSounds())
	assert.InDelta(t, 0.4, b.players[0].volume, 1e-9)
	assert.False(t, b.players[0].loop)

	b.players[0].playing = false
	require.NoError(t, m.Update(pulsar.GameTime{}))
	assert.True(t, b.players[0].closed)
	assert.Equal(t, 1, m.PlayingSounds())

	require.NoError(t, m.PlaySound("sfx/click.wav"))
	assert.Len(t, b.players, 3)
}

func TestPlaySoundErrors(t *testing.T) {
	m, _ := newTestManager(t)
	require.Error(t, m.PlaySound("sfx/missing.wav"))
	require.ErrorIs(t, m.PlaySound("sfx/readme.txt"), content.ErrTypeMismatch)
	require.NoError(t, m.PlaySound(""))
}

func TestMusicLifecycle(t *testing.T) {
	m, b := newTestManager(t)
	var stopped []string
	m.MusicStopped().Subscribe(func(k string) { stopped = append(stopped, k) })

	require.NoError(t, m.PlayMusic("music/menu.ogg", true))
	require.NoError(t, m.PlayMusic("music/menu.ogg", true))
	require.Len(t, b.players, 1, "same track is not restarted")
	menu := b.players[0]
	assert.True(t, menu.loop)
	assert.InDelta(t, 0.2, menu.volume, 1e-9)

	m.PauseMusic()
	assert.True(t, m.IsMusicPaused())
	require.NoError(t, m.Update(pulsar.GameTime{}))
	assert.Empty(t, stopped, "a paused track is not stopped")
	m.ResumeMusic()
	assert.True(t, menu.playing)

	require.NoError(t, m.PlayMusic("music/level.mp3", false))
	assert.True(t, menu.closed)
	assert.Equal(t, "music/level.mp3", m.MusicKey())

	m.StopMusic()
	require.NoError(t, m.Update(pulsar.GameTime{}))
	assert.Equal(t, []string{"music/level.mp3"}, stopped)
	assert.Equal(t, "", m.MusicKey())
	assert.True(t, b.players[1].closed)
}

func TestConfigChangeUpdatesVolumes(t *testing.T) {
	m, b := newTestManager(t)
	cfg := config.NewManager(config.DefaultFiles)
	m.Follow(cfg)

	require.NoError(t, m.PlayMusic("music/menu.ogg", true))
	require.NoError(t, m.PlaySound("sfx/click.wav"))
	require.NoError(t, m.PlaySound("sfx/hover.ogg"))

	next := testConfig
	next.Mute = true
	cfg.SetAudio(next)
	assert.Zero(t, b.players[0].volume)
	assert.Zero(t, b.players[1].volume)

	next.Mute = false
	next.MasterVolume = 1
	next.MaxSounds = 1
	cfg.SetAudio(next)
	assert.InDelta(t, 0.25, b.players[0].volume, 1e-9)
	assert.InDelta(t, 0.5, b.players[1].volume, 1e-9)
	assert.True(t, b.players[2].closed, "slot beyond MaxSounds is stopped")
	assert.Equal(t, 1, m.PlayingSounds())
}

func TestDisablingStopsEverything(t *testing.T) {
	m, b := newTestManager(t)
	var stopped []string
	m.MusicStopped().Subscribe(func(k string) { stopped = append(stopped, k) })
	require.NoError(t, m.PlayMusic("music/menu.ogg", true))
	require.NoError(t, m.PlaySound("sfx/click.wav"))

	m.SetEnabled(false)
	assert.False(t, b.players[0].playing)
	assert.True(t, b.players[0].closed, "music is released without waiting for Update")
	assert.True(t, b.players[1].closed)
	assert.Zero(t, m.PlayingSounds())
	assert.Empty(t, m.MusicKey())
	assert.Equal(t, []string{"music/menu.ogg"}, stopped)

	require.NoError(t, m.PlaySound("sfx/click.wav"))
	require.NoError(t, m.PlayMusic("music/level.mp3", false))
	assert.Len(t, b.players, 2, "nothing plays while disabled")
}

func TestDispose(t *testing.T) {
	m, b := newTestManager(t)
	require.NoError(t, m.PlayMusic("music/menu.ogg", true))
	require.NoError(t, m.PlaySound("sfx/click.wav"))
	m.Dispose()
	for _, p := range b.players {
		assert.True(t, p.closed)
	}
	assert.Equal(t, "", m.MusicKey())
}

func TestEbitenBackendRejectsUnknownFormat(t *testing.T) {
	var b EbitenBackend
	_, err := b.NewPlayer(&content.Sound{Ext: ".flac"}, false)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
