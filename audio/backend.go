package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/phanxgames/pulsar/content"
)

// ErrUnsupportedFormat is returned for sounds that are not wav, ogg or mp3.
var ErrUnsupportedFormat = errors.New("audio: unsupported format")

// Player is a playing sound. *audio.Player implements it.
type Player interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(v float64)
	Close() error
}

// Backend turns sound data into players.
type Backend interface {
	NewPlayer(s *content.Sound, loop bool) (Player, error)
}

// EbitenBackend decodes and plays through an Ebitengine audio context.
type EbitenBackend struct {
	ctx *audio.Context
}

// NewEbitenBackend uses the process audio context, creating it at
// sampleRate if there is none yet.
func NewEbitenBackend(sampleRate int) *EbitenBackend {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	}
	return &EbitenBackend{ctx: ctx}
}

type stream interface {
	io.ReadSeeker
	Length() int64
}

// NewPlayer decodes s without resampling. Looping players restart forever.
func (b *EbitenBackend) NewPlayer(s *content.Sound, loop bool) (Player, error) {
	r := bytes.NewReader(s.Data)
	var (
		st  stream
		err error
	)
	switch s.Ext {
	case ".wav":
		st, err = wav.DecodeWithoutResampling(r)
	case ".ogg":
		st, err = vorbis.DecodeWithoutResampling(r)
	case ".mp3":
		st, err = mp3.DecodeWithoutResampling(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s.Ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Ext, err)
	}

	var src io.Reader = st
	if loop {
		src = audio.NewInfiniteLoop(st, st.Length())
	}
	p, err := b.ctx.NewPlayer(src)
	if err != nil {
		return nil, fmt.Errorf("new player: %w", err)
	}
	return p, nil
}
