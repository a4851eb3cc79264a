package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ma",
		Short:         "Messenger accounts CLI (ma): manage accounts and their backend sessions",
		Long:          "ma (messenger accounts CLI) creates, imports, switches, updates, and deletes local messenger accounts, keeps at most one backend session open at a time, and stores per-account preferences.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newAccountCmd(app),
		newOptionCmd(app),
	)

	return rootCmd
}
