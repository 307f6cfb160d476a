package config

import (
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/pulsar/content"
)

func TestWriteDefaults(t *testing.T) {
	dir := t.TempDir()
	written, err := WriteDefaults(dir, DefaultFiles, false)
	require.NoError(t, err)
	assert.Len(t, written, 4)

	m := NewManager(DefaultFiles)
	require.NoError(t, m.Initialize(content.NewManager(os.DirFS(dir))))
	assert.Equal(t, DefaultGraphics(), m.Graphics())
	assert.Equal(t, DefaultAudio(), m.Audio())
	assert.Equal(t, DefaultGame(), m.Game())
	assert.True(t, DefaultHotKeys().Equal(m.HotKeys()))

	_, err = WriteDefaults(dir, DefaultFiles, false)
	require.ErrorIs(t, err, fs.ErrExist)

	_, err = WriteDefaults(dir, DefaultFiles, true)
	require.NoError(t, err)

	_, err = WriteDefaults(t.TempDir(), Files{Graphics: "g.yaml"}, false)
	require.ErrorIs(t, err, ErrFileNotDefined)
}

func TestInitializeDefaults(t *testing.T) {
	m := NewManager(DefaultFiles)
	notified := false
	m.GraphicsChanged().Subscribe(func(Graphics) { notified = true })

	require.NoError(t, m.InitializeDefaults())
	assert.True(t, m.IsInitialized())
	assert.False(t, notified)
	assert.Equal(t, "en", m.Game().Culture)
	_, ok := m.HotKeys().Find("quit")
	assert.True(t, ok)

	require.ErrorIs(t, m.InitializeDefaults(), ErrAlreadyInitialized)
	require.ErrorIs(t, m.Initialize(content.NewManager(testFS)), ErrAlreadyInitialized)
}
