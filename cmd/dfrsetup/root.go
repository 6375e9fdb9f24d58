package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var sourceFlag string
	var logFormatFlag string
	var verboseFlag bool

	ctx := newCommandContext(&sourceFlag, &logFormatFlag, &verboseFlag)

	rootCmd := &cobra.Command{
		Use:           "dfrsetup",
		Short:         "Provision the tiny-dfr Touch Bar daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&sourceFlag, "source", "s", ".", "Path to the tiny-dfr source checkout")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "console", "Log output format (console or json)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newInstallCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newEnvCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))

	return rootCmd
}
