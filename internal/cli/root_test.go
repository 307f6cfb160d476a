package cli

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "pulsar", cmd.Use)
	assert.Contains(t, cmd.Long, "demo game")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{{"demo"}, {"config"}, {"config", "init"}, {"config", "show"}, {"console"}}

	for _, path := range commands {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	assetsFlag := cmd.PersistentFlags().Lookup("assets")
	require.NotNil(t, assetsFlag)
	assert.Equal(t, "assets", assetsFlag.DefValue)
}

func TestStoreFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"demo", "console"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		require.NotNil(t, sub.Flags().Lookup("memory"), name)
		app := sub.Flags().Lookup("app")
		require.NotNil(t, app, name)
		assert.Equal(t, "pulsar", app.DefValue)
	}
}

// run executes the root command with args and stdin, returning stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "", "--assets", dir, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "config", "graphics.yaml"))
	_, err = os.Stat(filepath.Join(dir, "config", "hotkeys.yaml"))
	require.NoError(t, err)

	_, err = run(t, "", "--assets", dir, "config", "init")
	require.ErrorIs(t, err, fs.ErrExist)
	_, err = run(t, "", "--assets", dir, "config", "init", "--force")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "graphics.yaml"), []byte("width: 640\nheight: 480\n"), 0o644))
	out, err = run(t, "", "--assets", dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "width: 640")
	assert.Contains(t, out, "culture: en")
}

func TestConfigShowDefaults(t *testing.T) {
	out, err := run(t, "", "--assets", t.TempDir(), "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "width: 1280")
}

func TestConsoleSession(t *testing.T) {
	input := strings.Join([]string{
		"GFX size 640 480",
		"gfx particles off",
		"AUDIO volume music 1.5",
		"AUDIO volume bass 1",
		"AUDIO mute maybe",
		"SYSTEM save",
		"bogus line",
		"SYSTEM show",
		"SYSTEM quit",
		"GFX size 1 1",
	}, "\n")
	out, err := run(t, input, "--assets", t.TempDir(), "console", "--memory")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 8)
	assert.Equal(t, []string{
		"size 640x480",
		"particles off",
		"volume master=1.00 fx=1.00 music=1.00",
		"error: bad arguments",
		`error: bad arguments: "maybe" is not on or off`,
		"saved (memory only)",
		"Unknow category",
	}, lines[:7])
	assert.Contains(t, out, "width: 640")
	assert.Contains(t, out, "particlesEnabled: false")
	assert.NotContains(t, out, "size 1x1")
}

func TestParseSwitch(t *testing.T) {
	tests := []struct {
		args    []string
		current bool
		want    bool
		wantErr bool
	}{
		{nil, false, true, false},
		{nil, true, false, false},
		{[]string{"on"}, false, true, false},
		{[]string{"OFF"}, true, false, false},
		{[]string{"1"}, false, true, false},
		{[]string{"nope"}, true, true, true},
	}
	for _, tt := range tests {
		got, err := parseSwitch(tt.args, tt.current)
		if tt.wantErr {
			require.ErrorIs(t, err, errBadArgs)
		} else {
			require.NoError(t, err)
		}
		assert.Equal(t, tt.want, got, "args %v", tt.args)
	}
}
