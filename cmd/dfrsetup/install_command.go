package main

import (
	"github.com/spf13/cobra"

	"dfrsetup/internal/configlayer"
	"dfrsetup/internal/deploy"
	"dfrsetup/internal/install"
	"dfrsetup/internal/journal"
	"dfrsetup/internal/logging"
	"dfrsetup/internal/runner"
	"dfrsetup/internal/services/cargo"
	"dfrsetup/internal/systemd"
	"dfrsetup/internal/udevctl"
)

func newInstallCommand(ctx *commandContext) *cobra.Command {
	var skipDeps bool
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Build tiny-dfr from source and provision it on this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			p := ctx.plan()
			priv := runner.NewSudo(runner.NewExec())

			var jrnl *journal.Journal
			stateDir, err := ctx.stateDir()
			if err != nil {
				logger.Warn("cannot resolve state directory, history disabled", logging.Error(err))
			} else if jrnl, err = journal.Open(stateDir); err != nil {
				logger.Warn("cannot open run journal, history disabled", logging.Error(err))
				jrnl = nil
			}
			if jrnl != nil {
				defer jrnl.Close()
			}

			opts := install.Options{
				SkipDeps:  skipDeps,
				AssumeYes: assumeYes,
			}
			if stdinIsTerminal() {
				opts.Confirm = func(model string) (bool, error) {
					return promptConfirm(cmd, model)
				}
			}

			orch := install.New(install.Config{
				Plan:    p,
				Priv:    priv,
				Builder: cargo.NewCLI(),
				Deployer: deploy.New(p, priv,
					systemd.New(priv, logger),
					udevctl.New(priv, logger),
					logger),
				Layers:  configlayer.New(p, priv, logger),
				Systemd: systemd.New(priv, logger),
				Journal: jrnl,
				LockDir: stateDir,
				Logger:  logger,
				Options: opts,
			})
			return orch.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&skipDeps, "skip-deps", false, "Skip package manager detection and dependency installation")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Proceed without prompting on a hardware mismatch")
	return cmd
}
