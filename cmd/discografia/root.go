package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/discografia/internal/app"
)

type rootFlags struct {
	configPath string
	prefsPath  string
}

func (f *rootFlags) options() app.Options {
	return app.Options{ConfigPath: f.configPath, PrefsPath: f.prefsPath}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "discografia",
		Short:         "Terminal client for the artists catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "override config path (optional)")
	cmd.PersistentFlags().StringVar(&flags.prefsPath, "prefs", "", "override preferences path (optional)")

	cmd.AddCommand(
		newLoginCmd(flags),
		newRegisterCmd(flags),
		newLogoutCmd(flags),
		newArtistsCmd(flags),
		newTypesCmd(flags),
	)
	return cmd
}

// withEnv opens the application environment for a subcommand.
func withEnv(flags *rootFlags, fn func(env *app.Env) error) error {
	env, err := app.Open(flags.options())
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()
	return fn(env)
}
