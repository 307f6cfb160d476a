package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/pulsar/config"
	"github.com/phanxgames/pulsar/content"
)

// storeFlags selects where user settings persist.
type storeFlags struct {
	memory  bool
	appName string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.memory, "memory", false, "keep settings in memory only")
	cmd.Flags().StringVar(&f.appName, "app", "pulsar", "application name for saved settings")
}

// open returns the settings store, falling back to memory when the data
// directory is unavailable.
func (f *storeFlags) open(opts *RootOptions) *config.Store {
	if f.memory {
		return config.NewStore(nil)
	}
	s, err := config.OpenStore(f.appName)
	if err != nil {
		opts.Logger().Warn("settings will not persist", "err", err)
		return config.NewStore(nil)
	}
	return s
}

// loadConfig reads the configuration under the assets directory, or the
// defaults when the files do not exist.
func loadConfig(opts *RootOptions) (*config.Manager, error) {
	l := opts.Logger()
	m := config.NewManager(config.DefaultFiles, config.WithLogger(l))
	err := m.Initialize(content.NewManager(os.DirFS(opts.Assets), content.WithLogger(l)))
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	l.Info("no configuration files, using defaults", "assets", opts.Assets)
	return m, m.InitializeDefaults()
}
