package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/pulsar/internal/demo"
)

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	var store storeFlags

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the demo game",
		Long: `Run the demo game in a window.

Configuration is read from <assets>/config and overridden by the saved
settings; settings changed in game are saved on exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := demo.New(demo.Options{
				Assets: os.DirFS(rootOpts.Assets),
				Logger: rootOpts.Logger(),
				Store:  store.open(rootOpts),
			})
			if err != nil {
				return err
			}
			return d.Run()
		},
	}
	store.register(cmd)

	return cmd
}
