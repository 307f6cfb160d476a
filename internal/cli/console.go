package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/pulsar/config"
	"github.com/phanxgames/pulsar/console"
)

var errBadArgs = errors.New("bad arguments")

// NewConsoleCommand creates the console command.
func NewConsoleCommand(rootOpts *RootOptions) *cobra.Command {
	var store storeFlags

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Edit settings through the developer console",
		Long: `Read console commands from standard input, one per line.

Lines are "CATEGORY name args...", for example "GFX size 1920 1080" or
"AUDIO volume music 0.5". "CONSOLE help" lists the commands and
"SYSTEM quit" ends the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			s := store.open(rootOpts)
			if err := s.Apply(cfg); err != nil {
				return err
			}
			return runConsole(cmd, rootOpts, cfg, s)
		},
	}
	store.register(cmd)

	return cmd
}

func runConsole(cmd *cobra.Command, opts *RootOptions, cfg *config.Manager, s *config.Store) error {
	quit := false
	p, err := newConsoleProcess(cfg, s, func() { quit = true }, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sc := bufio.NewScanner(cmd.InOrStdin())
	for !quit && sc.Scan() {
		for _, line := range p.Handle(sc.Text()) {
			fmt.Fprintln(out, line)
		}
	}
	return sc.Err()
}

// newConsoleProcess registers the settings commands on a new process.
func newConsoleProcess(cfg *config.Manager, s *config.Store, quit func(), opts *RootOptions) (*console.Process, error) {
	p := console.NewProcess(console.WithLogger(opts.Logger()))
	commands := []console.Command{
		console.Func(console.CategoryGfx, "fullscreen", "Switch fullscreen [on|off]", func(args []string) []string {
			g := cfg.Graphics()
			v, err := parseSwitch(args, g.Fullscreen)
			if err != nil {
				return reply(err)
			}
			g.Fullscreen = v
			cfg.SetGraphics(g)
			return []string{"fullscreen " + onOff(v)}
		}),
		console.Func(console.CategoryGfx, "particles", "Switch particles [on|off]", func(args []string) []string {
			g := cfg.Graphics()
			v, err := parseSwitch(args, g.ParticlesEnabled)
			if err != nil {
				return reply(err)
			}
			g.ParticlesEnabled = v
			cfg.SetGraphics(g)
			return []string{"particles " + onOff(v)}
		}),
		console.Func(console.CategoryGfx, "size", "Set the window size <width> <height>", func(args []string) []string {
			if len(args) != 2 {
				return reply(errBadArgs)
			}
			w, err := strconv.Atoi(args[0])
			if err != nil || w <= 0 {
				return reply(errBadArgs)
			}
			h, err := strconv.Atoi(args[1])
			if err != nil || h <= 0 {
				return reply(errBadArgs)
			}
			g := cfg.Graphics()
			g.Width, g.Height = w, h
			cfg.SetGraphics(g)
			return []string{fmt.Sprintf("size %dx%d", w, h)}
		}),
		console.Func(console.CategoryAudio, "mute", "Switch mute [on|off]", func(args []string) []string {
			a := cfg.Audio()
			v, err := parseSwitch(args, a.Mute)
			if err != nil {
				return reply(err)
			}
			a.Mute = v
			cfg.SetAudio(a)
			return []string{"mute " + onOff(v)}
		}),
		console.Func(console.CategoryAudio, "volume", "Set a volume <master|fx|music> <0-1>", func(args []string) []string {
			if len(args) != 2 {
				return reply(errBadArgs)
			}
			v, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return reply(errBadArgs)
			}
			a := cfg.Audio()
			switch strings.ToLower(args[0]) {
			case "master":
				a.MasterVolume = v
			case "fx":
				a.FxVolume = v
			case "music":
				a.MusicVolume = v
			default:
				return reply(errBadArgs)
			}
			cfg.SetAudio(a)
			a = cfg.Audio()
			return []string{fmt.Sprintf("volume master=%.2f fx=%.2f music=%.2f", a.MasterVolume, a.FxVolume, a.MusicVolume)}
		}),
		console.Func(console.CategorySystem, "show", "Print the configuration", func([]string) []string {
			out, err := marshalConfig(cfg)
			if err != nil {
				return reply(err)
			}
			return strings.Split(strings.TrimRight(string(out), "\n"), "\n")
		}),
		console.Func(console.CategorySystem, "save", "Save the settings", func([]string) []string {
			if err := s.Save(cfg); err != nil {
				return reply(err)
			}
			if !s.Persistent() {
				return []string{"saved (memory only)"}
			}
			return []string{"saved"}
		}),
		console.Func(console.CategorySystem, "quit", "End the session", func([]string) []string {
			quit()
			return nil
		}),
	}
	for _, c := range commands {
		if err := p.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// parseSwitch reads an optional on/off argument; none toggles current.
func parseSwitch(args []string, current bool) (bool, error) {
	if len(args) == 0 {
		return !current, nil
	}
	switch strings.ToLower(args[0]) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return current, fmt.Errorf("%w: %q is not on or off", errBadArgs, args[0])
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func reply(err error) []string {
	return []string{"error: " + err.Error()}
}
