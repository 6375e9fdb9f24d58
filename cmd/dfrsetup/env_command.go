package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dfrsetup/internal/configlayer"
	"dfrsetup/internal/userenv"
)

func newEnvCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Probe the session environment and print the generated fragment",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := userenv.Probe(ctx.plan().Root)
			if err != nil {
				return err
			}
			data, err := configlayer.RenderEnvFile(env)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
