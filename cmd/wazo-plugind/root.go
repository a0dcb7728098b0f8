package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(app *AppContext) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "wazo-plugind",
		Short:         "Installs, upgrades, lists and removes Wazo third-party plugins",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, app)
		},
	}

	// Parsed ahead of cobra by configPathFromArgs in main(); declared here
	// too so --config appears in --help and so cobra doesn't reject it.
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML configuration file")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
